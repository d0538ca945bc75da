package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizePage_UsesKeysAndFallbacks(t *testing.T) {
	page := model.Page{
		ID:       "shop",
		Title:    "Shop",
		TitleKey: "pages.shop.title",
		Elements: []model.Element{
			model.Control(formctx.Flags{}, []model.Element{
				model.Label("Shop name", model.WithTextKey("fields.name.label")),
				model.Textarea(4, model.WithPlaceholder("Describe the shop", "fields.description.placeholder")),
			}),
		},
	}

	render.LocalizePage(&page, render.RenderOptions{
		Locale:     "en",
		Translator: stubTranslator{"fields.name.label": "Store name"},
	})

	if page.Title != "Shop" {
		t.Fatalf("expected title fallback, got %q", page.Title)
	}
	children := page.Elements[0].Children
	if children[0].Text != "Store name" {
		t.Fatalf("expected translated label, got %q", children[0].Text)
	}
	if children[1].Placeholder != "Describe the shop" {
		t.Fatalf("expected placeholder fallback, got %q", children[1].Placeholder)
	}
}

func TestLocalizePage_OnMissingReceivesLocaleAndError(t *testing.T) {
	page := model.Page{
		Locale:   "ko",
		Elements: []model.Element{model.Input(field.New(), model.WithPlaceholder("", "fields.id.placeholder"))},
	}

	var gotLocale, gotKey string
	var gotErr error
	render.LocalizePage(&page, render.RenderOptions{
		OnMissing: func(locale, key string, _ []any, err error) string {
			gotLocale, gotKey, gotErr = locale, key, err
			return "[" + key + "]"
		},
	})

	if gotLocale != "ko" || gotKey != "fields.id.placeholder" {
		t.Fatalf("unexpected handler args: locale=%q key=%q", gotLocale, gotKey)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
	if got := page.Elements[0].Placeholder; got != "[fields.id.placeholder]" {
		t.Fatalf("expected handler output, got %q", got)
	}
}

func TestLocalizePage_KeyWithoutFallbackUsesKey(t *testing.T) {
	page := model.Page{Elements: []model.Element{model.Label("", model.WithTextKey("fields.orphan"))}}
	render.LocalizePage(&page, render.RenderOptions{Translator: stubTranslator{}})
	if got := page.Elements[0].Text; got != "fields.orphan" {
		t.Fatalf("expected key as last resort, got %q", got)
	}
}
