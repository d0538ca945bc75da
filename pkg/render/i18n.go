package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a page
// carries translation keys but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the string used when a key cannot be
// resolved. args carries a {"default": fallback} map as its first entry.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if values, ok := args[0].(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizePage mutates the page in place, translating TitleKey, TextKey and
// PlaceholderKey values into their localized strings. The literal text is the
// fallback when a key is missing.
func LocalizePage(page *model.Page, opts RenderOptions) {
	if page == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	locale := opts.ResolveLocale(page.Locale)

	if key := strings.TrimSpace(page.TitleKey); key != "" {
		page.Title = translate(locale, key, page.Title, opts.Translator, onMissing)
	}

	page.Walk(func(_ string, el *model.Element) bool {
		if key := strings.TrimSpace(el.TextKey); key != "" {
			el.Text = translate(locale, key, el.Text, opts.Translator, onMissing)
		}
		if key := strings.TrimSpace(el.PlaceholderKey); key != "" {
			el.Placeholder = translate(locale, key, el.Placeholder, opts.Translator, onMissing)
		}
		return true
	})
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
