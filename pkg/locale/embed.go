package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// DefaultFS exposes the bundled catalogs.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

// Default loads the bundled catalogs with Korean as the fallback locale.
func Default() (*Catalog, error) {
	return LoadFS(DefaultFS(), WithFallbackLocale("ko"))
}

// LoadDir loads catalogs from dir on disk, or the bundled catalogs when dir
// is blank.
func LoadDir(dir string) (*Catalog, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		catalog, err := Default()
		if err != nil {
			return nil, fmt.Errorf("locale: load bundled catalogs: %w", err)
		}
		return catalog, nil
	}
	catalog, err := LoadFS(os.DirFS(dir), WithFallbackLocale("ko"))
	if err != nil {
		return nil, fmt.Errorf("locale: load catalogs from %s: %w", dir, err)
	}
	return catalog, nil
}
