package formcontrol

import (
	"context"
	"io/fs"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formcontrol/pkg/locale"
	"github.com/goliatone/go-formcontrol/pkg/testsupport"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "formcontrol.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".fc-label") {
		t.Fatalf("expected stylesheet to style labels")
	}
}

func TestEmbeddedTemplatesIncludePage(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	catalog, err := locale.Default()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}

	html, err := GenerateHTML(context.Background(), "identity", url.Values{"id": {"dalda"}}, "",
		WithTranslator(catalog),
		WithLocale("en"),
		WithControlFlags(map[string]Flags{"login_id": {}}),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	out := string(html)
	testsupport.AssertContains(t, out, "<title>Sign in</title>")
	id := testsupport.Tag(t, out, `<input type="text" name="id"`)
	testsupport.AssertContains(t, id, `value="dalda"`)
	testsupport.AssertNotContains(t, id, "disabled")
}
