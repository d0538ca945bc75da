package pages

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/model"
)

// Screen is a composable page whose field values can be changed between
// compositions.
type Screen interface {
	Name() string
	Bindings() map[string]*field.Binding
	Page() model.Page
}

// Options configure the screens returned by Lookup.
type Options struct {
	DomainBase string
}

var (
	_ Screen = (*IdentityState)(nil)
	_ Screen = (*ShopProfileState)(nil)
)

// Names lists the screens Lookup knows about.
func Names() []string {
	return []string{IdentityPageID, ShopPageID}
}

// Lookup returns a fresh screen for name.
func Lookup(name string, opts Options) (Screen, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case IdentityPageID:
		return NewIdentityState(), nil
	case ShopPageID:
		return NewShopProfileState(WithDomainBase(opts.DomainBase)), nil
	default:
		return nil, fmt.Errorf("pages: unknown screen %q (known: %s)", name, strings.Join(Names(), ", "))
	}
}

// ApplyValues feeds matching values through each binding's change handler.
// It returns the names that changed, sorted.
func ApplyValues(screen Screen, values url.Values) []string {
	if screen == nil || len(values) == 0 {
		return nil
	}
	var applied []string
	for name, binding := range screen.Bindings() {
		event, ok := field.EventFromValues(values, name)
		if !ok {
			continue
		}
		binding.HandleChange(event)
		applied = append(applied, name)
	}
	slices.Sort(applied)
	return applied
}
