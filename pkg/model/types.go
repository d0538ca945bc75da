package model

import (
	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
)

// Kind identifies the component that renders an element.
type Kind string

const (
	KindControl      Kind = "control"
	KindGroup        Kind = "group"
	KindLabel        Kind = "label"
	KindInput        Kind = "input"
	KindHelper       Kind = "helper"
	KindTextarea     Kind = "textarea"
	KindImagePreview Kind = "image_preview"
	KindButton       Kind = "button"
)

// HelperVariant selects the helper text styling.
type HelperVariant string

const (
	HelperNormal HelperVariant = "normal"
	HelperError  HelperVariant = "error"
)

// Element is one node of a page tree. Only the fields relevant to Kind are
// read by its component.
type Element struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Class string `json:"class,omitempty"`

	Text           string `json:"text,omitempty"`
	TextKey        string `json:"textKey,omitempty"`
	Placeholder    string `json:"placeholder,omitempty"`
	PlaceholderKey string `json:"placeholderKey,omitempty"`

	// InputType is the HTML type of an input ("text", "password", "file").
	InputType string        `json:"inputType,omitempty"`
	Variant   HelperVariant `json:"variant,omitempty"`
	Rows      int           `json:"rows,omitempty"`
	// Form ties a button to a control rendered elsewhere on the page.
	Form string `json:"form,omitempty"`
	Src  string `json:"src,omitempty"`
	Alt  string `json:"alt,omitempty"`

	// Flags are provided to Children when Kind is KindControl.
	Flags formctx.Flags `json:"flags,omitempty"`
	// Attrs pass through verbatim (aria-describedby, accept, ...).
	Attrs map[string]string `json:"attrs,omitempty"`

	Binding  *field.Binding `json:"-"`
	Children []Element      `json:"children,omitempty"`
}

// Value returns the bound value or an empty string.
func (e Element) Value() string {
	return e.Binding.Value()
}

// Page is the top-level tree rendered as a single screen.
type Page struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	TitleKey string    `json:"titleKey,omitempty"`
	Class    string    `json:"class,omitempty"`
	Locale   string    `json:"locale,omitempty"`
	Elements []Element `json:"elements"`
}

// Walk visits every element depth first, passing the dotted path of IDs (or
// kinds when an ID is missing). Returning false skips the element's children.
func (p *Page) Walk(fn func(path string, el *Element) bool) {
	if p == nil || fn == nil {
		return
	}
	for i := range p.Elements {
		walkElement(&p.Elements[i], "", i, fn)
	}
}

func walkElement(el *Element, parent string, index int, fn func(string, *Element) bool) {
	path := JoinPath(parent, SegmentFor(*el, index))
	if !fn(path, el) {
		return
	}
	for i := range el.Children {
		walkElement(&el.Children[i], path, i, fn)
	}
}

// Bindings returns the bound elements keyed by Name. Elements without a name
// or binding are skipped.
func (p *Page) Bindings() map[string]*field.Binding {
	out := make(map[string]*field.Binding)
	p.Walk(func(_ string, el *Element) bool {
		if el.Binding != nil && el.Name != "" {
			out[el.Name] = el.Binding
		}
		return true
	})
	return out
}

// Clone deep copies the page tree. Bindings are shared with the original so a
// rendered clone still reflects the caller's field values.
func (p Page) Clone() Page {
	out := p
	out.Elements = cloneElements(p.Elements)
	return out
}

func cloneElements(src []Element) []Element {
	if src == nil {
		return nil
	}
	out := make([]Element, len(src))
	for i, el := range src {
		out[i] = el
		if el.Attrs != nil {
			out[i].Attrs = make(map[string]string, len(el.Attrs))
			for key, value := range el.Attrs {
				out[i].Attrs[key] = value
			}
		}
		out[i].Children = cloneElements(el.Children)
	}
	return out
}
