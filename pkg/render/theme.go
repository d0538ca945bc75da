package render

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme/variant pair into a go-theme selection.
// theme.ThemeSelector implementations satisfy it.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// DefaultThemeFallbacks maps component partial keys onto the embedded
// templates used when a theme does not override them.
func DefaultThemeFallbacks() map[string]string {
	return map[string]string{
		"forms.page":          "templates/page.tmpl",
		"forms.label":         "templates/components/label.tmpl",
		"forms.input":         "templates/components/input.tmpl",
		"forms.helper":        "templates/components/helper.tmpl",
		"forms.textarea":      "templates/components/textarea.tmpl",
		"forms.image-preview": "templates/components/image_preview.tmpl",
		"forms.button":        "templates/components/button.tmpl",
	}
}

// ThemeConfig selects name/variant and flattens the manifest into the
// renderer configuration: variant templates and tokens override the base
// manifest, which overrides fallbacks. Tokens are mirrored as CSS custom
// properties ("brand" becomes "--brand").
func ThemeConfig(selector ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, fmt.Errorf("render: theme selector is required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q has no manifest", name)
	}
	manifest := selection.Manifest

	partials := mergeStringMaps(fallbacks, manifest.Templates)
	tokens := mergeStringMaps(nil, manifest.Tokens)
	assetPrefix := manifest.Assets.Prefix
	assetFiles := mergeStringMaps(nil, manifest.Assets.Files)

	if v, ok := manifest.Variants[selection.Variant]; ok {
		partials = mergeStringMaps(partials, v.Templates)
		tokens = mergeStringMaps(tokens, v.Tokens)
		assetFiles = mergeStringMaps(assetFiles, v.Assets.Files)
		if v.Assets.Prefix != "" {
			assetPrefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file := strings.TrimSpace(assetFiles[key])
			if file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", assetPrefix, file)
		},
	}, nil
}

// StaticThemeSelector serves selections from an in-memory manifest list, for
// themes declared in configuration rather than a go-theme registry.
type StaticThemeSelector struct {
	manifests map[string]*theme.Manifest
}

// NewStaticThemeSelector indexes manifests by name. Nil entries are skipped.
func NewStaticThemeSelector(manifests ...*theme.Manifest) *StaticThemeSelector {
	s := &StaticThemeSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			continue
		}
		s.manifests[strings.TrimSpace(manifest.Name)] = manifest
	}
	return s
}

// Select returns the manifest named name. An unknown variant falls back to
// the base manifest.
func (s *StaticThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found (have %s)", name, strings.Join(s.names(), ", "))
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

func (s *StaticThemeSelector) names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeStringMaps(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
