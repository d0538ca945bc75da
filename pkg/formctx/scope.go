// Package formctx carries the Invalid/Required/Disabled flags of a form
// control down to the elements rendered inside it. A Scope is passed
// explicitly from the control renderer to each child renderer; there is no
// ambient lookup.
package formctx

import (
	"errors"
	"sync/atomic"
)

// ErrOutsideProvider is returned when flags are read where no form control is
// rendering. It signals a composition mistake in the page tree.
var ErrOutsideProvider = errors.New("formctx: flags must be read inside a FormControl")

// Flags is the immutable triple a form control exposes to its subtree.
type Flags struct {
	Invalid  bool `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Scope is the mounted lifetime of one form control subtree.
type Scope struct {
	flags     Flags
	unmounted atomic.Bool
}

// Provide mounts a scope exposing flags. Nested controls call Provide again;
// the inner scope shadows the outer one and does not inherit its flags.
func Provide(flags Flags) *Scope {
	return &Scope{flags: flags}
}

// Flags returns the flags passed to Provide. A nil or unmounted scope returns
// ErrOutsideProvider, never a zero value.
func (s *Scope) Flags() (Flags, error) {
	if s == nil || s.unmounted.Load() {
		return Flags{}, ErrOutsideProvider
	}
	return s.flags, nil
}

// Mounted reports whether flags are readable.
func (s *Scope) Mounted() bool {
	return s != nil && !s.unmounted.Load()
}

// Unmount ends the scope. It is terminal; later reads fail.
func (s *Scope) Unmount() {
	if s == nil {
		return
	}
	s.unmounted.Store(true)
}

// MustFlags mirrors Flags but panics with ErrOutsideProvider, for template
// helpers that have no error return.
func MustFlags(s *Scope) Flags {
	flags, err := s.Flags()
	if err != nil {
		panic(err)
	}
	return flags
}
