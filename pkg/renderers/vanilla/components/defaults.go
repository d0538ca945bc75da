package components

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
)

const (
	templatePrefix = "templates/components/"

	// StylesheetHref is the embedded stylesheet path the server mounts.
	StylesheetHref = "/assets/formcontrol.css"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()
	styles := []string{StylesheetHref}

	registry.MustRegister(NameControl, Descriptor{
		Renderer:    controlRenderer,
		Stylesheets: styles,
	})
	registry.MustRegister(NameGroup, Descriptor{
		Renderer: groupRenderer,
	})
	registry.MustRegister(NameLabel, Descriptor{
		Renderer:    templateComponentRenderer("forms.label", templatePrefix+"label.tmpl", labelView),
		Stylesheets: styles,
	})
	registry.MustRegister(NameInput, Descriptor{
		Renderer:    templateComponentRenderer("forms.input", templatePrefix+"input.tmpl", inputView),
		Stylesheets: styles,
	})
	registry.MustRegister(NameHelper, Descriptor{
		Renderer:    templateComponentRenderer("forms.helper", templatePrefix+"helper.tmpl", helperView),
		Stylesheets: styles,
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl", textareaView),
	})
	registry.MustRegister(NameImagePreview, Descriptor{
		Renderer:    templateComponentRenderer("forms.image-preview", templatePrefix+"image_preview.tmpl", imagePreviewView),
		Stylesheets: styles,
	})
	registry.MustRegister(NameButton, Descriptor{
		Renderer: templateComponentRenderer("forms.button", templatePrefix+"button.tmpl", buttonView),
	})

	return registry
}

// viewBuilder turns an element (plus scope) into the template payload.
type viewBuilder func(el model.Element, scope *formctx.Scope) (map[string]any, error)

func templateComponentRenderer(partialKey, templateName string, view viewBuilder) Renderer {
	return func(buf *bytes.Buffer, el model.Element, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload, err := view(el, data.Scope)
		if err != nil {
			return err
		}

		resolvedTemplate := templateName
		if data.Partials != nil {
			if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(strings.TrimSpace(rendered))
		return nil
	}
}

func labelView(el model.Element, scope *formctx.Scope) (map[string]any, error) {
	flags, err := scope.Flags()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":       el.ID,
		"text":     el.Text,
		"class":    labelClasses(el, flags),
		"required": flags.Required,
		"disabled": flags.Disabled,
		"attrs":    attrList(el.Attrs),
	}, nil
}

func inputView(el model.Element, scope *formctx.Scope) (map[string]any, error) {
	flags, err := scope.Flags()
	if err != nil {
		return nil, err
	}
	inputType := strings.TrimSpace(el.InputType)
	if inputType == "" {
		inputType = "text"
	}
	isFile := strings.EqualFold(inputType, "file")
	value := ""
	if !isFile {
		value = el.Value()
	}
	return map[string]any{
		"id":          el.ID,
		"name":        el.Name,
		"type":        inputType,
		"class":       inputClasses(el, flags),
		"value":       value,
		"has_value":   !isFile,
		"placeholder": el.Placeholder,
		"disabled":    flags.Disabled,
		"required":    flags.Required,
		"invalid":     flags.Invalid,
		"attrs":       attrList(el.Attrs),
	}, nil
}

func helperView(el model.Element, _ *formctx.Scope) (map[string]any, error) {
	return map[string]any{
		"id":    el.ID,
		"class": helperClasses(el),
		"alert": el.Variant == model.HelperError,
		"html":  sanitizeHelperMarkup(el.Text),
		"attrs": attrList(el.Attrs),
	}, nil
}

func textareaView(el model.Element, _ *formctx.Scope) (map[string]any, error) {
	rows := el.Rows
	if rows <= 0 {
		rows = 3
	}
	return map[string]any{
		"id":          el.ID,
		"name":        el.Name,
		"rows":        strconv.Itoa(rows),
		"class":       joinClasses(ClassTextarea, sanitizeClassList(el.Class)),
		"placeholder": el.Placeholder,
		"value":       el.Value(),
		"attrs":       attrList(el.Attrs),
	}, nil
}

func imagePreviewView(el model.Element, _ *formctx.Scope) (map[string]any, error) {
	return map[string]any{
		"id":    el.ID,
		"class": previewImageClasses(el),
		"src":   strings.TrimSpace(el.Src),
		"alt":   el.Alt,
		"attrs": attrList(el.Attrs),
	}, nil
}

func buttonView(el model.Element, _ *formctx.Scope) (map[string]any, error) {
	return map[string]any{
		"id":    el.ID,
		"form":  el.Form,
		"text":  el.Text,
		"class": joinClasses(ClassButton, sanitizeClassList(el.Class)),
		"attrs": attrList(el.Attrs),
	}, nil
}

// controlRenderer emits the <form> wrapper and mounts a scope for the
// children. The scope is unmounted once the subtree has rendered.
func controlRenderer(buf *bytes.Buffer, el model.Element, data ComponentData) error {
	scope := formctx.Provide(el.Flags)
	defer scope.Unmount()

	var builder strings.Builder
	builder.WriteString(`<form`)
	writeAttr(&builder, "id", el.ID)
	writeAttr(&builder, "class", controlClasses(el))
	if el.Flags.Invalid {
		writeAttr(&builder, "data-invalid", "true")
	}
	if el.Flags.Required {
		writeAttr(&builder, "data-required", "true")
	}
	if el.Flags.Disabled {
		writeAttr(&builder, "data-disabled", "true")
	}
	writeAttrs(&builder, el.Attrs)
	builder.WriteString(">\n")

	if data.RenderChildren != nil {
		children, err := data.RenderChildren(scope)
		if err != nil {
			return err
		}
		writeIndented(&builder, children)
	}

	builder.WriteString(`</form>`)
	buf.WriteString(builder.String())
	return nil
}

func groupRenderer(buf *bytes.Buffer, el model.Element, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<div`)
	writeAttr(&builder, "id", el.ID)
	writeAttr(&builder, "class", joinClasses(ClassGroup, sanitizeClassList(el.Class)))
	writeAttrs(&builder, el.Attrs)
	builder.WriteString(">\n")

	if data.RenderChildren != nil {
		children, err := data.RenderChildren(data.Scope)
		if err != nil {
			return err
		}
		writeIndented(&builder, children)
	}

	builder.WriteString(`</div>`)
	buf.WriteString(builder.String())
	return nil
}

type attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// attrList sorts pass-through attributes for deterministic output. Names that
// are not plain attribute identifiers are dropped.
func attrList(attrs map[string]string) []attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attr, 0, len(attrs))
	for name, value := range attrs {
		name = strings.TrimSpace(name)
		if !validAttrName(name) {
			continue
		}
		out = append(out, attr{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}

func writeAttr(builder *strings.Builder, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	builder.WriteByte(' ')
	builder.WriteString(name)
	builder.WriteString(`="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteByte('"')
}

func writeAttrs(builder *strings.Builder, attrs map[string]string) {
	for _, a := range attrList(attrs) {
		builder.WriteByte(' ')
		builder.WriteString(a.Name)
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(a.Value))
		builder.WriteByte('"')
	}
}

func writeIndented(builder *strings.Builder, markup string) {
	for _, line := range strings.Split(markup, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
}
