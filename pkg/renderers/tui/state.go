package tui

import "slices"

// Result is what a prompt session collected from one page.
type Result struct {
	Page      string         `json:"page"`
	Values    map[string]any `json:"values"`
	Skipped   []string       `json:"skipped,omitempty"`
	Submitted bool           `json:"submitted"`

	secrets map[string]bool
}

// State tracks answers in prompt order. Secret answers are masked when the
// session is summarised as text.
type State struct {
	values  map[string]string
	order   []string
	secrets map[string]bool
	skipped []string

	submitted bool
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{
		values:  make(map[string]string),
		secrets: make(map[string]bool),
	}
}

// Record stores the answer for name. Re-recording keeps the first position.
func (s *State) Record(name, value string, secret bool) {
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	if secret {
		s.secrets[name] = true
	}
}

// Skip marks an element path as not prompted.
func (s *State) Skip(path string) {
	if !slices.Contains(s.skipped, path) {
		s.skipped = append(s.skipped, path)
	}
}

// Value returns the recorded answer for name.
func (s *State) Value(name string) (string, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Names returns the answered names in prompt order.
func (s *State) Names() []string {
	return slices.Clone(s.order)
}

// Skipped returns the paths that were not prompted.
func (s *State) Skipped() []string {
	return slices.Clone(s.skipped)
}

// Secret reports whether name was collected through a password prompt.
func (s *State) Secret(name string) bool {
	return s.secrets[name]
}

func (s *State) valueMap() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}
