package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/render"
	rendertemplate "github.com/goliatone/go-formcontrol/pkg/render/template"
	gotemplate "github.com/goliatone/go-formcontrol/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla/components"
)

// Template engines selectable with WithTemplateEngine.
const (
	TemplateEnginePongo2     = "pongo2"
	TemplateEngineGoTemplate = "go-template"
)

const (
	pageTemplate   = "templates/page.tmpl"
	pagePartialKey = "forms.page"
	themeStyleKey  = "vanilla.stylesheet"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	templateEngine   string
	registry         *components.Registry
	decorators       []model.Decorator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files missing
// from the directory fall back to the embedded bundle. New fails when the
// directory does not exist.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateEngine picks the engine behind the bundled templates:
// TemplateEnginePongo2 (default) or TemplateEngineGoTemplate. It is ignored
// when WithTemplateRenderer supplies a renderer.
func WithTemplateEngine(name string) Option {
	return func(cfg *config) {
		cfg.templateEngine = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithDecorators registers page decorators applied before every render.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(cfg *config) {
		for _, decorator := range decorators {
			if decorator != nil {
				cfg.decorators = append(cfg.decorators, decorator)
			}
		}
	}
}

// Renderer renders pages to HTML documents.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	registry   *components.Registry
	decorators []model.Decorator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := newTemplateEngine(cfg)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		registry:   cfg.registry,
		decorators: cfg.decorators,
	}, nil
}

func newTemplateEngine(cfg config) (rendertemplate.TemplateRenderer, error) {
	if cfg.templatesDir != "" {
		info, err := os.Stat(cfg.templatesDir)
		if err != nil {
			return nil, fmt.Errorf("templates dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates dir %q is not a directory", cfg.templatesDir)
		}
	}

	options := []gotemplate.Option{
		gotemplate.WithBaseDir(cfg.templatesDir),
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tmpl"),
	}
	switch cfg.templateEngine {
	case "", TemplateEnginePongo2:
		return gotemplate.New(options...)
	case TemplateEngineGoTemplate:
		return gotemplate.NewGoTemplate(options...)
	default:
		return nil, fmt.Errorf("unknown template engine %q", cfg.templateEngine)
	}
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Templates exposes the template engine, e.g. so a watcher can reset it.
func (r *Renderer) Templates() rendertemplate.TemplateRenderer {
	return r.templates
}

// Render decorates and localizes a copy of page, renders its elements through
// the component registry and wraps them in the page template. The caller's
// page is left untouched.
func (r *Renderer) Render(ctx context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := page.Clone()
	for _, decorator := range r.decorators {
		if err := decorator.Decorate(&working); err != nil {
			return nil, fmt.Errorf("vanilla renderer: decorate page %q: %w", page.ID, err)
		}
	}
	render.LocalizePage(&working, options)

	themeCtx := buildThemeContext(options.Theme)
	elements := newElementRenderer(r.templates, r.registry, themeCtx.Partials)
	body, err := elements.renderAll(working.Elements, "", nil)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	stylesheets := dedupe(append(append(append([]string(nil),
		options.Stylesheets...),
		elements.stylesheets()...),
		themeCtx.Stylesheet))

	templateName := pageTemplate
	if candidate := strings.TrimSpace(themeCtx.Partials[pagePartialKey]); candidate != "" {
		templateName = candidate
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"id":            working.ID,
		"title":         working.Title,
		"class":         working.Class,
		"locale":        options.ResolveLocale(working.Locale),
		"stylesheets":   stylesheets,
		"theme_name":    themeCtx.Name,
		"theme_variant": themeCtx.Variant,
		"css_vars":      themeCtx.CSSVarsStyle,
		"body":          strings.TrimRight(body, "\n"),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type rendererTheme struct {
	Name         string
	Variant      string
	Partials     map[string]string
	CSSVarsStyle string
	Stylesheet   string
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		Partials:     cfg.Partials,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(themeStyleKey)
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key]+";")
	}
	return strings.Join(parts, " ")
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
