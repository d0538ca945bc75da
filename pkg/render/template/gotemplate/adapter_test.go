package gotemplate

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
	"github.com/goliatone/go-formcontrol/pkg/testsupport"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":   {Data: []byte(`Hello {{ name }}`)},
		"classes.tmpl": {Data: []byte(`<p class="{{ classes|classlist }}">{{ body }}</p>`)},
		"attrs.tmpl":   {Data: []byte(`{% for attr in attrs %}{{ attr.name }}={{ attr.value }};{% endfor %}`)},
		"page.tmpl":    {Data: []byte(`embedded`)},
		"other.tmpl":   {Data: []byte(`fallback`)},
	}
}

type attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func backends(t *testing.T, options ...Option) map[string]template.TemplateRenderer {
	t.Helper()
	engine, err := New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	goTemplate, err := NewGoTemplate(options...)
	if err != nil {
		t.Fatalf("new go-template: %v", err)
	}
	return map[string]template.TemplateRenderer{"pongo2": engine, "go-template": goTemplate}
}

func TestRenderTemplateWritesOutput(t *testing.T) {
	for name, renderer := range backends(t, WithFS(testFS())) {
		t.Run(name, func(t *testing.T) {
			result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
				return renderer.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
			})
			if result != "Hello Ada" || written != result {
				t.Fatalf("unexpected output result=%q writer=%q", result, written)
			}
		})
	}
}

func TestRenderTemplateEscapesAndCollapsesClasses(t *testing.T) {
	for name, renderer := range backends(t, WithFS(testFS())) {
		t.Run(name, func(t *testing.T) {
			result, err := renderer.RenderTemplate("classes.tmpl", map[string]any{
				"classes": "  w-full   p-2 ",
				"body":    "<script>",
			})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result != `<p class="w-full p-2">&lt;script&gt;</p>` {
				t.Fatalf("unexpected output %q", result)
			}
		})
	}
}

func TestRenderTemplateIndexesStructsByJSONName(t *testing.T) {
	data := map[string]any{"attrs": []attr{{Name: "aria-label", Value: "shop"}, {Name: "accept", Value: "image/*"}}}
	for name, renderer := range backends(t, WithFS(testFS())) {
		t.Run(name, func(t *testing.T) {
			result, err := renderer.RenderTemplate("attrs", data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result != "aria-label=shop;accept=image/*;" {
				t.Fatalf("unexpected output %q", result)
			}
		})
	}
}

func TestBaseDirOverridesEmbeddedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.tmpl"), []byte("from disk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for name, renderer := range backends(t, WithBaseDir(dir), WithFS(testFS())) {
		t.Run(name, func(t *testing.T) {
			if got, err := renderer.RenderTemplate("page", nil); err != nil || got != "from disk" {
				t.Fatalf("page = %q, %v", got, err)
			}
			if got, err := renderer.RenderTemplate("other", nil); err != nil || got != "fallback" {
				t.Fatalf("other = %q, %v", got, err)
			}
		})
	}
}

func TestResetReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.tmpl")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	engine, err := New(WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	goTemplate, err := NewGoTemplate(WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new go-template: %v", err)
	}
	renderers := map[string]interface {
		template.TemplateRenderer
		Reset()
	}{"pongo2": engine, "go-template": goTemplate}

	for _, renderer := range renderers {
		if got, err := renderer.RenderTemplate("page", nil); err != nil || got != "v1" {
			t.Fatalf("first render = %q, %v", got, err)
		}
	}

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if got, _ := engine.RenderTemplate("page", nil); got != "v1" {
		t.Fatalf("expected cached template before reset, got %q", got)
	}

	for name, renderer := range renderers {
		renderer.Reset()
		if got, err := renderer.RenderTemplate("page", nil); err != nil || got != "v2" {
			t.Fatalf("%s: render after reset = %q, %v", name, got, err)
		}
	}
}

func TestMissingTemplateFails(t *testing.T) {
	for name, renderer := range backends(t, WithFS(testFS())) {
		t.Run(name, func(t *testing.T) {
			if _, err := renderer.RenderTemplate("absent", nil); err == nil {
				t.Fatalf("expected error for missing template")
			}
		})
	}
}

func TestConstructorsRequireSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without templates")
	}
	if _, err := NewGoTemplate(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
