package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcontrol/pkg/model"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.Page, RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("vanilla"))

	if err := reg.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(namedRenderer("  ")); err == nil {
		t.Fatalf("expected blank name error")
	}
}

func TestRegistryResolveFallsBack(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("vanilla"))
	reg.MustRegister(namedRenderer("tui"))

	got, err := reg.Resolve("", "vanilla")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("expected fallback renderer, got %q", got.Name())
	}
	if _, err := reg.Resolve("missing", "vanilla"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
