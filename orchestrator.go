package formcontrol

import (
	"context"
	"net/url"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/orchestrator"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

// Flags aliases formctx.Flags, the invalid/required/disabled triple a form
// control hands to its labels and inputs.
type Flags = formctx.Flags

// RenderOptions describes per-request locale, translator, theme and
// stylesheet settings.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML composes the named screen ("identity" or "shop"), feeds values
// through its field bindings and renders it with the named renderer. It is
// the simplest entry point for callers that just want HTML output.
func GenerateHTML(ctx context.Context, screen string, values url.Values, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Screen:   screen,
		Values:   values,
		Renderer: rendererName,
	})
}

// WithControlFlags overrides the flags of controls by id, e.g. to enable the
// identity inputs: {"login_id": {}, "login_password": {}}.
func WithControlFlags(overrides map[string]Flags) orchestrator.Option {
	return orchestrator.WithDecorators(model.OverrideControlFlags(overrides))
}

// WithThemeSelector passes a theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector render.ThemeSelector, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, defaultTheme, defaultVariant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// WithTranslator forwards the translator used for *Key fields.
func WithTranslator(translator render.Translator) orchestrator.Option {
	return orchestrator.WithTranslator(translator)
}

// WithLocale forwards the default locale.
func WithLocale(locale string) orchestrator.Option {
	return orchestrator.WithLocale(locale)
}
