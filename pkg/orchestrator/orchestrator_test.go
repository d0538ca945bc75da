package orchestrator

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

func TestOrchestrator_DefaultsToVanilla(t *testing.T) {
	orch := New()

	result, err := orch.Render(context.Background(), Request{
		Screen: "shop",
		Values: url.Values{"domain": {"acme"}, "ignored": {"x"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if result.Renderer != "vanilla" || result.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("unexpected renderer %q / %q", result.Renderer, result.ContentType)
	}
	if diff := cmp.Diff([]string{"domain"}, result.Applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(result.Body), "https://dalda.shop/acme") {
		t.Fatalf("expected live domain helper in output:\n%s", result.Body)
	}
	if diff := cmp.Diff([]string{"vanilla"}, orch.Renderers()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_FillsRenderOptions(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	translator := stubTranslator{}
	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithTranslator(translator),
		WithLocale("en"),
		WithStylesheets("/static/app.css"),
		WithPageOptions(pages.Options{DomainBase: "https://example.test"}),
	)

	_, err := orch.Generate(context.Background(), Request{
		Screen:        "SHOP",
		Values:        url.Values{"domain": {"acme"}},
		RenderOptions: render.RenderOptions{Stylesheets: []string{"/static/page.css"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if renderer.options.Locale != "en" {
		t.Fatalf("locale not defaulted: %q", renderer.options.Locale)
	}
	if renderer.options.Translator == nil {
		t.Fatalf("translator not defaulted")
	}
	if diff := cmp.Diff([]string{"/static/app.css", "/static/page.css"}, renderer.options.Stylesheets); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if renderer.page.ID != pages.ShopPageID {
		t.Fatalf("expected shop page, got %q", renderer.page.ID)
	}

	var helper string
	renderer.page.Walk(func(path string, el *model.Element) bool {
		if el.Kind == model.KindHelper && strings.Contains(el.Text, "example.test") {
			helper = el.Text
		}
		return true
	})
	if helper != "https://example.test/acme" {
		t.Fatalf("domain base not applied, got helper %q", helper)
	}
}

func TestOrchestrator_RequestOptionsWin(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry), WithLocale("ko"))
	_, err := orch.Generate(context.Background(), Request{
		Screen:        "identity",
		Renderer:      renderer.Name(),
		RenderOptions: render.RenderOptions{Locale: "en"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Locale != "en" {
		t.Fatalf("request locale overridden: %q", renderer.options.Locale)
	}
}

func TestOrchestrator_AppliesDecorators(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDecorators(nil, model.OverrideControlFlags(map[string]formctx.Flags{
			pages.IdentityIDControl: {Required: true},
		})),
	)
	if _, err := orch.Generate(context.Background(), Request{Screen: "identity"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var flags formctx.Flags
	renderer.page.Walk(func(_ string, el *model.Element) bool {
		if el.Kind == model.KindControl && el.ID == pages.IdentityIDControl {
			flags = el.Flags
		}
		return true
	})
	if diff := cmp.Diff(formctx.Flags{Required: true}, flags); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_DecoratorErrorStopsRender(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	boom := errors.New("boom")
	orch := New(WithRegistry(registry), WithDecorators(model.DecoratorFunc(func(*model.Page) error {
		return boom
	})))
	if _, err := orch.Generate(context.Background(), Request{Screen: "shop"}); !errors.Is(err, boom) {
		t.Fatalf("expected decorator error, got %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("renderer called after decorator failure")
	}
}

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "dalda",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Templates: map[string]string{
			"forms.input": "themes/dalda/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/themes/dalda",
			Files:  map[string]string{"vanilla.stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	}
	selector := &stubThemeSelector{inner: render.NewStaticThemeSelector(manifest)}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithThemeSelector(selector, "dalda", "light"),
	)
	_, err := orch.Generate(context.Background(), Request{
		Screen:       "shop",
		ThemeVariant: "dark",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([]themeCall{{name: "dalda", variant: "dark"}}, selector.calls, cmp.AllowUnexported(themeCall{})); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "dalda" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme selection %q/%q", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials["forms.input"] != "themes/dalda/input.tmpl" {
		t.Fatalf("expected manifest template override, got %s", cfg.Partials["forms.input"])
	}
	if cfg.Partials["forms.textarea"] != render.DefaultThemeFallbacks()["forms.textarea"] {
		t.Fatalf("fallback partial not applied for textarea")
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens, got %s", cfg.CSSVars["--brand"])
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/themes/dalda/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	orch := New()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name string
		ctx  context.Context
		req  Request
		want string
	}{
		{name: "missing screen", ctx: context.Background(), req: Request{}, want: "screen is required"},
		{name: "unknown screen", ctx: context.Background(), req: Request{Screen: "checkout"}, want: `unknown screen "checkout"`},
		{name: "unknown renderer", ctx: context.Background(), req: Request{Screen: "shop", Renderer: "pdf"}, want: `renderer "pdf"`},
		{name: "cancelled", ctx: cancelled, req: Request{Screen: "shop"}, want: context.Canceled.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orch.Generate(tc.ctx, tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestOrchestrator_FallsBackToFirstRegistered(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry), WithDefaultRenderer("missing"))
	result, err := orch.Render(context.Background(), Request{Screen: "identity"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Renderer != renderer.Name() || string(result.Body) != "captured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

type captureRenderer struct {
	page    model.Page
	options render.RenderOptions
	calls   int
}

func (c *captureRenderer) Name() string        { return "capture" }
func (c *captureRenderer) ContentType() string { return "text/plain" }

func (c *captureRenderer) Render(_ context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	c.calls++
	c.page = page
	c.options = options
	return []byte("captured"), nil
}

type stubTranslator struct{}

func (stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	return key, nil
}

type themeCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	inner render.ThemeSelector
	calls []themeCall
}

func (s *stubThemeSelector) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, themeCall{name: name, variant: variant})
	return s.inner.Select(name, variant, opts...)
}
