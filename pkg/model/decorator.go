package model

import (
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
)

// Decorator adjusts a page after composition and before rendering.
type Decorator interface {
	Decorate(*Page) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Page) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(page *Page) error {
	return fn(page)
}

// OverrideControlFlags replaces the flags of controls whose id matches a key
// in overrides. Unknown ids are ignored.
func OverrideControlFlags(overrides map[string]formctx.Flags) Decorator {
	return DecoratorFunc(func(page *Page) error {
		if len(overrides) == 0 {
			return nil
		}
		page.Walk(func(_ string, el *Element) bool {
			if el.Kind != KindControl {
				return true
			}
			if flags, ok := overrides[strings.TrimSpace(el.ID)]; ok {
				el.Flags = flags
			}
			return true
		})
		return nil
	})
}
