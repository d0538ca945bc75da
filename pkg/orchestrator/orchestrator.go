package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = strings.TrimSpace(name)
	}
}

// WithPageOptions configures the screens built for each request.
func WithPageOptions(opts pages.Options) Option {
	return func(o *Orchestrator) {
		o.pageOptions = opts
	}
}

// WithDecorators registers decorators run against every composed page before
// it reaches the renderer.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		for _, decorator := range decorators {
			if decorator != nil {
				o.decorators = append(o.decorators, decorator)
			}
		}
	}
}

// WithTranslator sets the translator used when a request does not carry one.
func WithTranslator(translator render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = translator
	}
}

// WithLocale sets the locale used when a request does not name one.
func WithLocale(locale string) Option {
	return func(o *Orchestrator) {
		o.locale = strings.TrimSpace(locale)
	}
}

// WithStylesheets prepends stylesheets to every request.
func WithStylesheets(hrefs ...string) Option {
	return func(o *Orchestrator) {
		o.stylesheets = append(o.stylesheets, hrefs...)
	}
}

// WithThemeSelector resolves theme/variant pairs ahead of rendering. The
// defaults apply when a request leaves ThemeName or ThemeVariant empty.
func WithThemeSelector(selector render.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.defaultTheme = strings.TrimSpace(defaultTheme)
		o.defaultVariant = strings.TrimSpace(defaultVariant)
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not
// override a component template.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// Orchestrator composes a named screen, feeds request values through its
// bindings and renders it with the selected renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	pageOptions     pages.Options
	decorators      []model.Decorator
	translator      render.Translator
	locale          string
	stylesheets     []string
	themeSelector   render.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Without a
// registry the vanilla renderer is registered under its default name.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one screen render.
type Request struct {
	// Screen selects the page to compose ("identity", "shop").
	Screen string

	// Values are fed through the screen's bindings before composing, as if
	// the user had typed them.
	Values url.Values

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant override the selector defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions are passed to the renderer. Empty fields are filled from
	// the orchestrator configuration.
	RenderOptions render.RenderOptions
}

// Result carries the rendered bytes alongside what produced them.
type Result struct {
	Body        []byte
	ContentType string
	Renderer    string
	// Applied lists the field names whose values came from Request.Values.
	Applied []string
}

// Generate renders the requested screen and returns the output bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// Render runs the full pipeline and reports the content type of the
// renderer that produced the output.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Screen) == "" {
		return Result{}, errors.New("orchestrator: screen is required")
	}

	screen, err := pages.Lookup(req.Screen, o.pageOptions)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}
	applied := pages.ApplyValues(screen, req.Values)

	page := screen.Page()
	if err := o.applyDecorators(&page); err != nil {
		return Result{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	options, err := o.renderOptions(req)
	if err != nil {
		return Result{}, err
	}

	output, err := renderer.Render(ctx, page, options)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render %s: %w", screen.Name(), err)
	}

	return Result{
		Body:        output,
		ContentType: renderer.ContentType(),
		Renderer:    renderer.Name(),
		Applied:     applied,
	}, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) renderOptions(req Request) (render.RenderOptions, error) {
	options := req.RenderOptions
	if strings.TrimSpace(options.Locale) == "" {
		options.Locale = o.locale
	}
	if options.Translator == nil {
		options.Translator = o.translator
	}
	if len(o.stylesheets) > 0 {
		options.Stylesheets = append(append([]string(nil), o.stylesheets...), options.Stylesheets...)
	}
	if options.Theme != nil || o.themeSelector == nil {
		return options, nil
	}

	name := firstNonEmpty(req.ThemeName, o.defaultTheme)
	variant := firstNonEmpty(req.ThemeVariant, o.defaultVariant)
	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = render.DefaultThemeFallbacks()
	}
	cfg, err := render.ThemeConfig(o.themeSelector, name, variant, fallbacks)
	if err != nil {
		return options, fmt.Errorf("orchestrator: %w", err)
	}
	options.Theme = cfg
	return options, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := strings.TrimSpace(name)
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if strings.TrimSpace(name) != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(page *model.Page) error {
	for _, decorator := range o.decorators {
		if err := decorator.Decorate(page); err != nil {
			return fmt.Errorf("orchestrator: decorate page %q: %w", page.ID, err)
		}
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry != nil {
		return
	}
	o.registry = render.NewRegistry()
	renderer, err := vanilla.New()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry.MustRegister(renderer)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
