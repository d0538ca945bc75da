package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla"
)

// Config is the CLI and server configuration file.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Render   RenderConfig             `yaml:"render"`
	Shop     ShopConfig               `yaml:"shop"`
	Theme    ThemeConfig              `yaml:"theme"`
	Controls map[string]formctx.Flags `yaml:"controls"`
	Logging  LoggingConfig            `yaml:"logging"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
}

// RenderConfig configures the HTML pipeline.
type RenderConfig struct {
	Engine         string   `yaml:"engine"` // pongo2, go-template
	Locale         string   `yaml:"locale"`
	LocalesDir     string   `yaml:"locales_dir"`
	TemplatesDir   string   `yaml:"templates_dir"`
	WatchTemplates bool     `yaml:"watch_templates"`
	Stylesheets    []string `yaml:"stylesheets"`
}

// ShopConfig configures the shop profile screen.
type ShopConfig struct {
	DomainBase string `yaml:"domain_base"`
}

// ThemeConfig points at an optional theme manifest file.
type ThemeConfig struct {
	Manifest  string `yaml:"manifest"`
	Variant   string `yaml:"variant"`
	AssetsDir string `yaml:"assets_dir"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: "5s",
			ShutdownTimeout:   "10s",
		},
		Render: RenderConfig{
			Engine: vanilla.TemplateEnginePongo2,
			Locale: "ko",
		},
		Shop: ShopConfig{
			DomainBase: pages.DefaultDomainBase,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults, then applies FORMCONTROL_* environment
// overrides. An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.resolvePaths(filepath.Dir(path))
		}
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks durations, enumerated values and the templates directory.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"server.read_header_timeout": c.Server.ReadHeaderTimeout,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Render.Engine)) {
	case "", vanilla.TemplateEnginePongo2, vanilla.TemplateEngineGoTemplate:
	default:
		return fmt.Errorf("config: render.engine %q must be %s or %s", c.Render.Engine,
			vanilla.TemplateEnginePongo2, vanilla.TemplateEngineGoTemplate)
	}
	if dir := strings.TrimSpace(c.Render.TemplatesDir); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("config: render.templates_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config: render.templates_dir %q is not a directory", dir)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

// ReadHeaderTimeout returns the parsed server read header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return parseDuration(c.Server.ReadHeaderTimeout, 5*time.Second)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// PageOptions maps the config onto screen options.
func (c *Config) PageOptions() pages.Options {
	return pages.Options{DomainBase: c.Shop.DomainBase}
}

// TemplateOptions maps the render section onto vanilla renderer options.
func (c *Config) TemplateOptions() []vanilla.Option {
	return []vanilla.Option{
		vanilla.WithTemplatesDir(c.Render.TemplatesDir),
		vanilla.WithTemplateEngine(c.Render.Engine),
	}
}

// LoadThemeManifest parses the configured manifest. It returns nil when no
// manifest is configured.
func (c *Config) LoadThemeManifest() (*theme.Manifest, error) {
	path := strings.TrimSpace(c.Theme.Manifest)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read theme manifest: %w", err)
	}

	var doc manifestFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse theme manifest %s: %w", path, err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("config: theme manifest %s has no name", path)
	}
	return doc.manifest(), nil
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

func (m manifestFile) manifest() *theme.Manifest {
	out := &theme.Manifest{
		Name:      strings.TrimSpace(m.Name),
		Version:   m.Version,
		Tokens:    m.Tokens,
		Templates: m.Templates,
		Assets:    theme.Assets{Prefix: m.Assets.Prefix, Files: m.Assets.Files},
	}
	if len(m.Variants) > 0 {
		out.Variants = make(map[string]theme.Variant, len(m.Variants))
		for name, variant := range m.Variants {
			out.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return out
}

// resolvePaths makes relative file paths relative to the config file.
func (c *Config) resolvePaths(base string) {
	for _, target := range []*string{
		&c.Render.LocalesDir,
		&c.Render.TemplatesDir,
		&c.Theme.Manifest,
		&c.Theme.AssetsDir,
	} {
		value := strings.TrimSpace(*target)
		if value == "" || filepath.IsAbs(value) {
			continue
		}
		*target = filepath.Join(base, value)
	}
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("FORMCONTROL_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if locale := os.Getenv("FORMCONTROL_LOCALE"); locale != "" {
		c.Render.Locale = locale
	}
	if level := os.Getenv("FORMCONTROL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
