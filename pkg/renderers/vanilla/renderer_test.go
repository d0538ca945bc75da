package vanilla

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/render"
	"github.com/goliatone/go-formcontrol/pkg/testsupport"
)

func newTestRenderer(t *testing.T, options ...Option) *Renderer {
	t.Helper()
	renderer, err := New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func singleControlPage(flags formctx.Flags, children ...model.Element) model.Page {
	return model.Page{
		ID:    "test",
		Title: "Test",
		Elements: []model.Element{
			model.Control(flags, children, model.WithID("main")),
		},
	}
}

func TestRenderDisabledControlDisablesNestedInput(t *testing.T) {
	page := singleControlPage(formctx.Flags{Disabled: true},
		model.Label("아이디"),
		model.Input(field.New(), model.WithName("id")),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	input := testsupport.Tag(t, html, "<input")
	testsupport.AssertContains(t, input, " disabled", "fc-input--disabled", `name="id"`, `value=""`)
	testsupport.AssertNotContains(t, input, "required")

	label := testsupport.Tag(t, html, "<label")
	testsupport.AssertContains(t, label, "fc-label--disabled", `aria-disabled="true"`)
	testsupport.AssertContains(t, testsupport.Tag(t, html, `<form id="main"`), `data-disabled="true"`)
}

func TestRenderControlWithoutFlagsKeepsInputEnabled(t *testing.T) {
	page := singleControlPage(formctx.Flags{},
		model.Label("Name"),
		model.Input(field.New("shop"), model.WithName("name")),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	input := testsupport.Tag(t, html, "<input")
	testsupport.AssertContains(t, input, `value="shop"`)
	testsupport.AssertNotContains(t, input, "disabled", "required", "aria-invalid")
	testsupport.AssertNotContains(t, html, "fc-label__marker")
}

func TestRenderRequiredAndInvalidFlags(t *testing.T) {
	page := singleControlPage(formctx.Flags{Required: true, Invalid: true},
		model.Label("Domain"),
		model.Input(field.New(), model.WithName("domain")),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	input := testsupport.Tag(t, html, "<input")
	testsupport.AssertContains(t, input, " required", `aria-required="true"`, `aria-invalid="true"`, "fc-input--invalid")
	testsupport.AssertContains(t, testsupport.Tag(t, html, "<label"), `data-required="true"`, "fc-label--invalid")
	testsupport.AssertContains(t, html, `<span class="fc-label__marker" aria-hidden="true"> *</span>`)
}

func TestRenderLabelOutsideControlFails(t *testing.T) {
	page := model.Page{ID: "broken", Elements: []model.Element{model.Label("orphan")}}

	_, err := newTestRenderer(t).Render(context.Background(), page, render.RenderOptions{})
	if !errors.Is(err, formctx.ErrOutsideProvider) {
		t.Fatalf("expected ErrOutsideProvider, got %v", err)
	}
}

func TestRenderInputOutsideControlFails(t *testing.T) {
	page := model.Page{Elements: []model.Element{
		model.Group([]model.Element{model.Input(field.New())}),
	}}

	_, err := newTestRenderer(t).Render(context.Background(), page, render.RenderOptions{})
	if !errors.Is(err, formctx.ErrOutsideProvider) {
		t.Fatalf("expected ErrOutsideProvider through group, got %v", err)
	}
}

func TestRenderNestedControlShadowsOuterFlags(t *testing.T) {
	page := singleControlPage(formctx.Flags{Disabled: true},
		model.Control(formctx.Flags{Required: true}, []model.Element{
			model.Input(field.New(), model.WithName("inner")),
		}),
		model.Input(field.New(), model.WithName("outer")),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	inner := testsupport.Tag(t, html, `<input type="text" name="inner"`)
	testsupport.AssertContains(t, inner, " required")
	testsupport.AssertNotContains(t, inner, "disabled")

	outer := testsupport.Tag(t, html, `<input type="text" name="outer"`)
	testsupport.AssertContains(t, outer, " disabled")
}

func TestRenderFileInputOmitsValueAndKeepsAttrs(t *testing.T) {
	page := singleControlPage(formctx.Flags{Required: true},
		model.Input(field.New("ignored"),
			model.WithType("file"),
			model.WithID("file_input"),
			model.WithAttr("aria-describedby", "file_input_help"),
			model.WithAttr(`bad"name`, "x"),
		),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	input := testsupport.Tag(t, html, "<input")
	testsupport.AssertContains(t, input, `type="file"`, `id="file_input"`, `aria-describedby="file_input_help"`, "fc-input--file")
	testsupport.AssertNotContains(t, input, "value=", "bad")
}

func TestRenderHelperSanitizesMarkup(t *testing.T) {
	page := singleControlPage(formctx.Flags{},
		model.Helper(model.HelperNormal, `Visit <strong>https://dalda.shop/acme</strong><script>alert(1)</script>`),
		model.Helper(model.HelperError, "Required"),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	testsupport.AssertContains(t, html,
		`<p class="fc-helper fc-helper--normal">Visit <strong>https://dalda.shop/acme</strong></p>`,
		`<p class="fc-helper fc-helper--error" role="alert">Required</p>`,
	)
	testsupport.AssertNotContains(t, html, "<script>alert")
}

func TestRenderImagePreviewHiddenUntilSource(t *testing.T) {
	page := model.Page{Elements: []model.Element{
		model.ImagePreview("", "preview", model.WithID("empty")),
		model.ImagePreview("data:image/png;base64,AAAA", "preview", model.WithID("filled")),
	}}

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})

	empty := testsupport.Tag(t, html, `<img id="empty"`)
	testsupport.AssertContains(t, empty, `class="hidden fc-preview__image"`)
	testsupport.AssertNotContains(t, empty, "src=")

	filled := testsupport.Tag(t, html, `<img id="filled"`)
	testsupport.AssertContains(t, filled, `class="fc-preview__image"`, `src="data:image/png;base64,AAAA"`)
}

func TestRenderCallerClassesCannotSpoofState(t *testing.T) {
	page := singleControlPage(formctx.Flags{},
		model.Input(field.New(), model.WithClass("w-full fc-input--disabled")),
	)

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{})
	testsupport.AssertContains(t, testsupport.Tag(t, html, "<input"), `class="fc-input w-full"`)
}

func TestRenderLeavesCallerPageUntouched(t *testing.T) {
	page := singleControlPage(formctx.Flags{},
		model.Label("fallback", model.WithTextKey("fields.name")),
	)

	renderer := newTestRenderer(t, WithDecorators(model.OverrideControlFlags(map[string]formctx.Flags{
		"main": {Disabled: true},
	})))
	html := testsupport.MustRender(t, renderer, page, render.RenderOptions{
		Translator: mapTranslator{"fields.name": "Translated"},
	})

	testsupport.AssertContains(t, html, "Translated", `data-disabled="true"`)
	if page.Elements[0].Flags.Disabled || page.Elements[0].Children[0].Text != "fallback" {
		t.Fatalf("caller page mutated: %+v", page.Elements[0])
	}
}

func TestRenderPageDocument(t *testing.T) {
	page := model.Page{ID: "shop", Title: "Shop", Class: "fc-page", Locale: "en"}
	page.Elements = []model.Element{model.SubmitButton("profile", "OK")}

	html := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{
		Stylesheets: []string{"/static/app.css"},
		Theme: &theme.RendererConfig{
			Theme:   "dalda",
			Variant: "dark",
			CSSVars: map[string]string{"--brand": "#123456"},
			AssetURL: func(key string) string {
				if key == "vanilla.stylesheet" {
					return "/themes/dalda/theme.css"
				}
				return ""
			},
		},
	})

	testsupport.AssertContains(t, html,
		`<html lang="en">`,
		`<title>Shop</title>`,
		`<link rel="stylesheet" href="/static/app.css">`,
		`<link rel="stylesheet" href="/themes/dalda/theme.css">`,
		`<main id="shop" class="fc-page" data-theme="dalda" data-theme-variant="dark" style="--brand: #123456;">`,
		`<button type="submit" form="profile" class="fc-button">OK</button>`,
	)
}

func TestRenderUsesThemePartial(t *testing.T) {
	recorder := &recordingTemplateRenderer{}
	renderer := newTestRenderer(t, WithTemplateRenderer(recorder))

	page := singleControlPage(formctx.Flags{}, model.Input(field.New()))
	_, err := renderer.Render(context.Background(), page, render.RenderOptions{
		Theme: &theme.RendererConfig{Partials: map[string]string{
			"forms.input": "themes/custom/input.tmpl",
		}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{"themes/custom/input.tmpl", "templates/page.tmpl"}
	if len(recorder.calls) != len(want) {
		t.Fatalf("unexpected template calls: %v", recorder.calls)
	}
	for i := range want {
		if recorder.calls[i] != want[i] {
			t.Fatalf("call %d: want %q, got %q", i, want[i], recorder.calls[i])
		}
	}
}

func TestTemplateEnginesRenderTheSameMarkup(t *testing.T) {
	page := singleControlPage(formctx.Flags{Required: true},
		model.Label("Name"),
		model.Input(field.New("shop"), model.WithName("name"), model.WithAttr("aria-label", "Shop name")),
		model.Helper(model.HelperNormal, "Shown on the <b>profile</b>"),
	)

	pongo := testsupport.MustRender(t, newTestRenderer(t), page, render.RenderOptions{Locale: "en"})
	goTemplate := testsupport.MustRender(t, newTestRenderer(t, WithTemplateEngine(TemplateEngineGoTemplate)), page, render.RenderOptions{Locale: "en"})

	testsupport.AssertContains(t, goTemplate,
		`<html lang="en">`,
		`aria-label="Shop name"`,
		`value="shop"`,
		"Shown on the <b>profile</b>",
	)
	if pongo != goTemplate {
		t.Fatalf("engines disagree:\npongo2:\n%s\ngo-template:\n%s", pongo, goTemplate)
	}
}

func TestNewRejectsBadTemplateSettings(t *testing.T) {
	file := filepath.Join(t.TempDir(), "page.tmpl")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := map[string][]Option{
		"missing dir":    {WithTemplatesDir(filepath.Join(t.TempDir(), "tempaltes"))},
		"file as dir":    {WithTemplatesDir(file)},
		"unknown engine": {WithTemplateEngine("jinja")},
	}
	for name, options := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(options...); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestTemplatesDirOverridesSinglePartial(t *testing.T) {
	dir := t.TempDir()
	partials := filepath.Join(dir, "templates", "components")
	if err := os.MkdirAll(partials, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	button := `<button class="custom">{{ text }}</button>`
	if err := os.WriteFile(filepath.Join(partials, "button.tmpl"), []byte(button), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	page := model.Page{Elements: []model.Element{model.SubmitButton("profile", "OK")}}
	html := testsupport.MustRender(t, newTestRenderer(t, WithTemplatesDir(dir)), page, render.RenderOptions{})
	testsupport.AssertContains(t, html, `<button class="custom">OK</button>`, "<!DOCTYPE html>")
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestRenderer(t).Render(ctx, model.Page{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if value, ok := m[key]; ok {
		return value, nil
	}
	return "", errors.New("missing")
}

type recordingTemplateRenderer struct {
	calls []string
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return "", nil
}
