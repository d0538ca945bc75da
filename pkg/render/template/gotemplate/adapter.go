package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

const templateSetName = "formcontrol"

// Option configures Engine and GoTemplate.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	goTemplate []gotemplatepkg.Option
}

// WithBaseDir loads templates from a directory on disk. Directory templates
// take precedence over an fs.FS supplied with WithFS.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGoTemplateOptions appends go-template options. Only GoTemplate reads
// them; they are applied after the file and extension options.
func WithGoTemplateOptions(options ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		for _, opt := range options {
			if opt != nil {
				cfg.goTemplate = append(cfg.goTemplate, opt)
			}
		}
	}
}

func buildConfig(options []Option) (*config, fs.FS, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var layers []fs.FS
	if cfg.baseDir != "" {
		layers = append(layers, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		layers = append(layers, cfg.templates)
	}
	if len(layers) == 0 {
		return nil, nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}
	return cfg, layered(layers), nil
}

// Engine renders templates with a pongo2 template set. Parsed templates are
// cached until Reset.
type Engine struct {
	mu sync.RWMutex

	files       fs.FS
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg, files, err := buildConfig(options)
	if err != nil {
		return nil, err
	}
	registerDefaultFilters()

	return &Engine{
		files:       files,
		templateSet: pongo2.NewSet(templateSetName, pongo2.NewFSLoader(files)),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}, nil
}

// RenderTemplate executes the named template, appending the configured
// extension when missing. The result is also written to every out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := withExtension(name, e.tplExt)

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	viewContext, err := contextFrom(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	return buf.String(), writeAll(buf.String(), out)
}

// Reset drops parsed templates so the next render reloads them. Used when
// template files change on disk.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.templateSet = pongo2.NewSet(templateSetName, pongo2.NewFSLoader(e.files))
	e.templates = make(map[string]*pongo2.Template)
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func withExtension(name, ext string) string {
	if strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// contextFrom turns view data into JSON shapes so templates index structs by
// their json names.
func contextFrom(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: convert data: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("gotemplate: template data must be an object, got %T", data)
	}
	if out == nil {
		return pongo2.Context{}, nil
	}
	return pongo2.Context(out), nil
}

func writeAll(rendered string, out []io.Writer) error {
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

// registerDefaultFilters installs the filters the bundled templates use.
// pongo2 filters are process wide, so both backends see them.
func registerDefaultFilters() {
	if !pongo2.FilterExists("classlist") {
		_ = pongo2.RegisterFilter("classlist", filterClassList)
	}
}

// filterClassList collapses runs of whitespace in a class attribute.
func filterClassList(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.Join(strings.Fields(in.String()), " ")), nil
}
