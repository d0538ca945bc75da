package field

import (
	"net/url"
	"strings"
	"sync"
)

// Target mirrors the element that emitted a change event.
type Target struct {
	Name  string
	Value string
}

// ChangeEvent carries the new value of a control after user input.
type ChangeEvent struct {
	Target Target
}

// Binding holds the controlled value of a single field. The value is owned by
// the binding; renderers read it through Value and user input flows back in
// through HandleChange.
type Binding struct {
	mu          sync.RWMutex
	value       string
	subscribers map[int]func(string)
	nextID      int
}

// New creates a binding seeded with the optional initial value. Only the first
// argument is used; an omitted initial value starts the field empty.
func New(initial ...string) *Binding {
	b := &Binding{}
	if len(initial) > 0 {
		b.value = initial[0]
	}
	return b
}

// Value returns the current field value.
func (b *Binding) Value() string {
	if b == nil {
		return ""
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Set replaces the current value and notifies subscribers.
func (b *Binding) Set(value string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.value = value
	subscribers := make([]func(string), 0, len(b.subscribers))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(value)
	}
}

// HandleChange extracts the new value from the event target and stores it.
func (b *Binding) HandleChange(event ChangeEvent) {
	b.Set(event.Target.Value)
}

// Subscribe registers fn to run after every change, in registration order.
// The returned function removes the subscription.
func (b *Binding) Subscribe(fn func(string)) (unsubscribe func()) {
	if b == nil || fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers == nil {
		b.subscribers = make(map[int]func(string))
	}
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// EventFromValues builds a change event for name from submitted form or query
// values. ok is false when the values do not mention the field, so callers can
// leave the binding untouched.
func EventFromValues(values url.Values, name string) (event ChangeEvent, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" || values == nil {
		return ChangeEvent{}, false
	}
	raw, exists := values[name]
	if !exists {
		return ChangeEvent{}, false
	}
	value := ""
	if len(raw) > 0 {
		value = raw[0]
	}
	return ChangeEvent{Target: Target{Name: name, Value: value}}, true
}
