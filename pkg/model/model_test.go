package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
)

func TestPageWalkPaths(t *testing.T) {
	page := Page{
		ID: "demo",
		Elements: []Element{
			Control(formctx.Flags{}, []Element{
				Label("Name"),
				Input(field.New(), WithName("name")),
			}, WithID("main")),
			SubmitButton("main", "OK"),
		},
	}

	var paths []string
	page.Walk(func(path string, _ *Element) bool {
		paths = append(paths, path)
		return true
	})

	want := []string{"main", "main.label[0]", "main.name", "button[1]"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("walk paths mismatch (-want +got):\n%s", diff)
	}
}

func TestPageBindings(t *testing.T) {
	name := field.New("shop")
	page := Page{Elements: []Element{
		Control(formctx.Flags{}, []Element{
			Group([]Element{Input(name, WithName("name"))}),
			Input(field.New()),
		}),
	}}

	bindings := page.Bindings()
	if len(bindings) != 1 || bindings["name"] != name {
		t.Fatalf("unexpected bindings: %#v", bindings)
	}
}

func TestOverrideControlFlags(t *testing.T) {
	page := Page{Elements: []Element{
		Control(formctx.Flags{Required: true}, nil, WithID("profile")),
		Control(formctx.Flags{}, nil, WithID("other")),
	}}

	decorator := OverrideControlFlags(map[string]formctx.Flags{
		"profile": {Invalid: true},
		"unknown": {Disabled: true},
	})
	if err := decorator.Decorate(&page); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if got := page.Elements[0].Flags; got != (formctx.Flags{Invalid: true}) {
		t.Fatalf("profile flags not replaced: %+v", got)
	}
	if got := page.Elements[1].Flags; got != (formctx.Flags{}) {
		t.Fatalf("other flags changed: %+v", got)
	}
}

func TestElementValueWithoutBinding(t *testing.T) {
	if got := Label("x").Value(); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestPageCloneIsolatesTree(t *testing.T) {
	binding := field.New("v")
	page := Page{Elements: []Element{
		Control(formctx.Flags{}, []Element{
			Input(binding, WithAttr("aria-describedby", "help")),
		}),
	}}

	clone := page.Clone()
	clone.Elements[0].Children[0].Attrs["aria-describedby"] = "changed"
	clone.Elements[0].Flags.Disabled = true

	if got := page.Elements[0].Children[0].Attrs["aria-describedby"]; got != "help" {
		t.Fatalf("original attrs mutated: %q", got)
	}
	if page.Elements[0].Flags.Disabled {
		t.Fatalf("original flags mutated")
	}
	if clone.Elements[0].Children[0].Binding != binding {
		t.Fatalf("expected binding to be shared")
	}
}
