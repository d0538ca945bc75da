package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the page composition.
type RenderOptions struct {
	// Locale selects the catalog used to resolve TextKey/PlaceholderKey/TitleKey
	// values. When empty the page locale is used.
	Locale string
	// Translator resolves keys; a nil translator keeps literal text.
	Translator Translator
	// OnMissing customises the string used when a key cannot be translated.
	OnMissing MissingTranslationHandler
	// Theme carries the resolved go-theme selection. Renderers map Partials
	// onto component templates and expose CSSVars on the page container.
	Theme *theme.RendererConfig
	// Stylesheets are emitted as <link> tags ahead of component stylesheets.
	Stylesheets []string
}

// ResolveLocale returns the explicit locale or falls back to the page locale.
func (o RenderOptions) ResolveLocale(pageLocale string) string {
	if o.Locale != "" {
		return o.Locale
	}
	return pageLocale
}
