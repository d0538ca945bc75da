package model

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
)

// Option customises an element built through the constructors below.
type Option func(*Element)

// WithID sets the element id.
func WithID(id string) Option {
	return func(el *Element) {
		el.ID = strings.TrimSpace(id)
	}
}

// WithName sets the field name used for bindings and submissions.
func WithName(name string) Option {
	return func(el *Element) {
		el.Name = strings.TrimSpace(name)
	}
}

// WithClass sets the caller supplied class list.
func WithClass(class string) Option {
	return func(el *Element) {
		el.Class = strings.TrimSpace(class)
	}
}

// WithTextKey attaches a translation key for the element text.
func WithTextKey(key string) Option {
	return func(el *Element) {
		el.TextKey = strings.TrimSpace(key)
	}
}

// WithPlaceholder sets the placeholder and its optional translation key.
func WithPlaceholder(text, key string) Option {
	return func(el *Element) {
		el.Placeholder = text
		el.PlaceholderKey = strings.TrimSpace(key)
	}
}

// WithType sets the input type.
func WithType(inputType string) Option {
	return func(el *Element) {
		el.InputType = strings.TrimSpace(inputType)
	}
}

// WithAttr adds a pass-through attribute. Empty names are ignored.
func WithAttr(name, value string) Option {
	return func(el *Element) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if el.Attrs == nil {
			el.Attrs = make(map[string]string)
		}
		el.Attrs[name] = value
	}
}

// WithBinding attaches the controlled value holder.
func WithBinding(binding *field.Binding) Option {
	return func(el *Element) {
		el.Binding = binding
	}
}

// Control wraps children in a form control providing flags to them.
func Control(flags formctx.Flags, children []Element, options ...Option) Element {
	return build(Element{Kind: KindControl, Flags: flags, Children: children}, options)
}

// Group wraps children in a plain container.
func Group(children []Element, options ...Option) Element {
	return build(Element{Kind: KindGroup, Children: children}, options)
}

// Label renders control label text.
func Label(text string, options ...Option) Element {
	return build(Element{Kind: KindLabel, Text: text}, options)
}

// Input renders a controlled input bound to binding.
func Input(binding *field.Binding, options ...Option) Element {
	return build(Element{Kind: KindInput, Binding: binding, InputType: "text"}, options)
}

// Helper renders helper text below a control.
func Helper(variant HelperVariant, text string, options ...Option) Element {
	if variant == "" {
		variant = HelperNormal
	}
	return build(Element{Kind: KindHelper, Variant: variant, Text: text}, options)
}

// Textarea renders a multi-line text field.
func Textarea(rows int, options ...Option) Element {
	return build(Element{Kind: KindTextarea, Rows: rows}, options)
}

// ImagePreview renders a preview image that stays hidden until src is set.
func ImagePreview(src, alt string, options ...Option) Element {
	return build(Element{Kind: KindImagePreview, Src: src, Alt: alt}, options)
}

// SubmitButton renders a submit button targeting the control with id form.
func SubmitButton(form, text string, options ...Option) Element {
	return build(Element{Kind: KindButton, Form: form, Text: text}, options)
}

func build(el Element, options []Option) Element {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&el)
	}
	return el
}

// SegmentFor names an element within its parent for error paths.
func SegmentFor(el Element, index int) string {
	if id := strings.TrimSpace(el.ID); id != "" {
		return id
	}
	if name := strings.TrimSpace(el.Name); name != "" {
		return name
	}
	return string(el.Kind) + "[" + strconv.Itoa(index) + "]"
}

// JoinPath joins dotted element paths.
func JoinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
