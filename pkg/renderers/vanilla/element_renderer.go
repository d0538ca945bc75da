package vanilla

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla/components"
)

// elementRenderer walks a page tree, threading the nearest control scope to
// each component. It is single use: usedComponents accumulates per page.
type elementRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newElementRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *elementRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &elementRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *elementRenderer) renderAll(elements []model.Element, parent string, scope *formctx.Scope) (string, error) {
	var builder strings.Builder
	for idx, el := range elements {
		path := model.JoinPath(parent, model.SegmentFor(el, idx))
		markup, err := r.render(el, path, scope)
		if err != nil {
			return "", err
		}
		if markup == "" {
			continue
		}
		builder.WriteString(markup)
		builder.WriteByte('\n')
	}
	return builder.String(), nil
}

func (r *elementRenderer) render(el model.Element, path string, scope *formctx.Scope) (string, error) {
	componentName := components.NameFor(el.Kind)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for element %q", componentName, path)
	}

	data := components.ComponentData{
		Template: r.templates,
		Scope:    scope,
		Partials: r.partials,
		Path:     path,
		RenderChildren: func(childScope *formctx.Scope) (string, error) {
			return r.renderAll(el.Children, path, childScope)
		},
	}

	var out bytes.Buffer
	if err := descriptor.Renderer(&out, el, data); err != nil {
		return "", fmt.Errorf("render component %q for element %q: %w", componentName, path, err)
	}

	r.usedComponents[componentName] = struct{}{}
	return out.String(), nil
}

func (r *elementRenderer) stylesheets() []string {
	if len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}
