package locale

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcontrol/pkg/render"
)

// ErrMissingKey reports a key absent from the requested locale and every
// fallback.
var ErrMissingKey = errors.New("locale: missing key")

// Option customises a Catalog.
type Option func(*Catalog)

// WithFallbackLocale sets the locale consulted when a key is missing.
func WithFallbackLocale(locale string) Option {
	return func(c *Catalog) {
		c.fallback = normaliseLocale(locale)
	}
}

// Catalog holds flattened messages per locale.
type Catalog struct {
	messages map[string]map[string]string
	fallback string
}

var _ render.Translator = (*Catalog)(nil)

// LoadFS walks fsys and parses every .yaml/.yml file as the catalog for the
// locale named by the file. Two files for the same locale are merged; a key
// defined twice is an error.
func LoadFS(fsys fs.FS, options ...Option) (*Catalog, error) {
	catalog := &Catalog{messages: make(map[string]map[string]string)}
	for _, opt := range options {
		if opt != nil {
			opt(catalog)
		}
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("locale: read %s: %w", name, err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("locale: parse %s: %w", name, err)
		}

		locale := normaliseLocale(strings.TrimSuffix(path.Base(name), path.Ext(name)))
		if locale == "" {
			return fmt.Errorf("locale: file %s has no locale name", name)
		}
		target := catalog.messages[locale]
		if target == nil {
			target = make(map[string]string)
			catalog.messages[locale] = target
		}
		return flatten("", doc, target, name)
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Translate resolves key for locale, then its base language ("en" for
// "en-US"), then the fallback locale. Args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if c == nil || key == "" {
		return "", ErrMissingKey
	}
	for _, candidate := range c.candidates(locale) {
		if message, ok := c.messages[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(message, args...), nil
			}
			return message, nil
		}
	}
	return "", fmt.Errorf("%w: %q (locale %q)", ErrMissingKey, key, locale)
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Has reports whether locale has a catalog.
func (c *Catalog) Has(locale string) bool {
	if c == nil {
		return false
	}
	_, ok := c.messages[normaliseLocale(locale)]
	return ok
}

func (c *Catalog) candidates(locale string) []string {
	locale = normaliseLocale(locale)
	out := make([]string, 0, 3)
	add := func(value string) {
		if value != "" && !slices.Contains(out, value) {
			out = append(out, value)
		}
	}
	add(locale)
	if base, _, found := strings.Cut(locale, "-"); found {
		add(base)
	}
	add(c.fallback)
	return out
}

func flatten(prefix string, node map[string]any, out map[string]string, source string) error {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			if err := flatten(full, typed, out, source); err != nil {
				return err
			}
		case nil:
			continue
		default:
			if _, exists := out[full]; exists {
				return fmt.Errorf("locale: duplicate key %q (file %s)", full, source)
			}
			out[full] = fmt.Sprint(typed)
		}
	}
	return nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normaliseLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
