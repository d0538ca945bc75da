package gotemplate

import (
	"fmt"
	"io"
	"strings"
	"sync"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

type goTemplateEngine interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// GoTemplate renders through a github.com/goliatone/go-template engine over
// the same files as Engine. View data is flattened the same way before it
// reaches go-template.
type GoTemplate struct {
	mu      sync.RWMutex
	options []gotemplatepkg.Option
	ext     string
	engine  goTemplateEngine
}

var _ template.TemplateRenderer = (*GoTemplate)(nil)

// NewGoTemplate builds a go-template backed renderer. Options passed with
// WithGoTemplateOptions are applied last.
func NewGoTemplate(options ...Option) (*GoTemplate, error) {
	cfg, files, err := buildConfig(options)
	if err != nil {
		return nil, err
	}
	registerDefaultFilters()

	opts := append([]gotemplatepkg.Option{
		gotemplatepkg.WithFS(files),
		gotemplatepkg.WithExtension(cfg.extension),
	}, cfg.goTemplate...)

	g := &GoTemplate{options: opts, ext: cfg.extension}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// RenderTemplate executes the named template. The extension is left to
// go-template, which appends its own.
func (g *GoTemplate) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	name = strings.TrimSuffix(name, g.ext)
	viewContext, err := contextFrom(data)
	if err != nil {
		return "", err
	}

	g.mu.RLock()
	engine := g.engine
	g.mu.RUnlock()

	rendered, err := engine.RenderTemplate(name, map[string]any(viewContext), out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: go-template render %q: %w", name, err)
	}
	return rendered, nil
}

// Reset rebuilds the go-template engine so edited files are parsed again.
// The previous engine stays active when the rebuild fails.
func (g *GoTemplate) Reset() {
	_ = g.load()
}

func (g *GoTemplate) load() error {
	engine, err := gotemplatepkg.NewRenderer(g.options...)
	if err != nil {
		return fmt.Errorf("gotemplate: configure go-template: %w", err)
	}
	g.mu.Lock()
	g.engine = engine
	g.mu.Unlock()
	return nil
}
