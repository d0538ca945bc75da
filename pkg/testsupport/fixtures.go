package testsupport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustRender renders page with renderer and fails the test on error.
func MustRender(t *testing.T, renderer render.Renderer, page model.Page, options render.RenderOptions) string {
	t.Helper()

	out, err := renderer.Render(Context(), page, options)
	if err != nil {
		t.Fatalf("render %q: %v", page.ID, err)
	}
	return string(out)
}

// AssertContains fails when any fragment is missing from markup.
func AssertContains(t *testing.T, markup string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(markup, fragment) {
			t.Fatalf("expected markup to contain %q\n---\n%s", fragment, markup)
		}
	}
}

// AssertNotContains fails when any fragment is present in markup.
func AssertNotContains(t *testing.T, markup string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(markup, fragment) {
			t.Fatalf("expected markup not to contain %q\n---\n%s", fragment, markup)
		}
	}
}

// Tag returns the first HTML start tag in markup that begins with prefix,
// e.g. Tag(html, `<input`) or Tag(html, `<form id="profile"`).
func Tag(t *testing.T, markup, prefix string) string {
	t.Helper()
	start := strings.Index(markup, prefix)
	if start < 0 {
		t.Fatalf("tag %q not found\n---\n%s", prefix, markup)
	}
	end := strings.IndexByte(markup[start:], '>')
	if end < 0 {
		t.Fatalf("tag %q is not closed", prefix)
	}
	return markup[start : start+end+1]
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
