package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

const secretMask = "********"

// Renderer walks a page and prompts for each enabled field, feeding answers
// back through the field bindings.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	decorators        []model.Decorator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts through page and serializes the collected values. Helper
// text is printed as composed; use RenderScreen to see it follow the answers.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	result, err := r.Collect(ctx, page, nil, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(result)
}

// RenderScreen prompts through the screen's page. The screen is recomposed
// before each helper is printed so helpers reflect earlier answers.
func (r *Renderer) RenderScreen(ctx context.Context, screen pages.Screen, opts render.RenderOptions) ([]byte, error) {
	if screen == nil {
		return nil, errors.New("tui: screen is nil")
	}
	result, err := r.Collect(ctx, screen.Page(), screen.Page, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(result)
}

// Collect runs the prompt session and returns the raw result. recompose may
// be nil.
func (r *Renderer) Collect(ctx context.Context, page model.Page, recompose func() model.Page, opts render.RenderOptions) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if r.driver == nil {
		return Result{}, errors.New("tui: prompt driver is nil")
	}

	working, err := r.prepare(page, opts)
	if err != nil {
		return Result{}, err
	}

	s := &session{
		renderer:  r,
		opts:      opts,
		recompose: recompose,
		state:     NewState(),
	}
	if err := s.walk(ctx, working.Elements, "", nil); err != nil {
		return Result{}, err
	}

	values := s.state.valueMap()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return Result{}, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return Result{
		Page:      working.ID,
		Values:    values,
		Skipped:   s.state.Skipped(),
		Submitted: s.state.submitted,
		secrets:   s.state.secrets,
	}, nil
}

func (r *Renderer) prepare(page model.Page, opts render.RenderOptions) (model.Page, error) {
	working := page.Clone()
	for _, decorator := range r.decorators {
		if err := decorator.Decorate(&working); err != nil {
			return model.Page{}, fmt.Errorf("tui: decorate page %q: %w", page.ID, err)
		}
	}
	render.LocalizePage(&working, opts)
	return working, nil
}

type session struct {
	renderer  *Renderer
	opts      render.RenderOptions
	recompose func() model.Page
	state     *State

	// label is the most recent label text, consumed by the next field.
	label string
}

func (s *session) walk(ctx context.Context, elements []model.Element, parent string, scope *formctx.Scope) error {
	for idx := range elements {
		el := &elements[idx]
		path := model.JoinPath(parent, model.SegmentFor(*el, idx))
		if err := s.visit(ctx, el, path, scope); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) visit(ctx context.Context, el *model.Element, path string, scope *formctx.Scope) error {
	switch el.Kind {
	case model.KindControl:
		child := formctx.Provide(el.Flags)
		defer child.Unmount()
		return s.walk(ctx, el.Children, path, child)
	case model.KindGroup:
		return s.walk(ctx, el.Children, path, scope)
	case model.KindLabel:
		flags, err := scope.Flags()
		if err != nil {
			return fmt.Errorf("tui: element %q: %w", path, err)
		}
		s.label = strings.TrimSpace(el.Text)
		if flags.Required {
			s.label += " *"
		}
		return nil
	case model.KindInput:
		flags, err := scope.Flags()
		if err != nil {
			return fmt.Errorf("tui: element %q: %w", path, err)
		}
		return s.promptInput(ctx, el, path, flags)
	case model.KindTextarea:
		return s.promptTextarea(ctx, el, path)
	case model.KindHelper:
		return s.printHelper(ctx, el, path)
	case model.KindImagePreview:
		if strings.TrimSpace(el.Src) == "" {
			return nil
		}
		return s.info(ctx, fmt.Sprintf("[%s]", firstNonEmpty(el.Alt, "image")))
	case model.KindButton:
		return s.confirmSubmit(ctx, el)
	default:
		return fmt.Errorf("tui: element %q has unsupported kind %q", path, el.Kind)
	}
}

func (s *session) promptInput(ctx context.Context, el *model.Element, path string, flags formctx.Flags) error {
	message := s.takeMessage(el, path)
	switch {
	case strings.EqualFold(el.InputType, "file"):
		s.state.Skip(path)
		return s.info(ctx, fmt.Sprintf("%s: file upload is not available here, skipped", message))
	case flags.Disabled:
		s.state.Skip(path)
		return s.info(ctx, fmt.Sprintf("%s: disabled, skipped", message))
	case el.Binding == nil:
		s.state.Skip(path)
		return nil
	}
	if flags.Invalid {
		if err := s.errorLine(ctx, fmt.Sprintf("%s is marked invalid", message)); err != nil {
			return err
		}
	}

	secret := strings.EqualFold(el.InputType, "password")
	cfg := InputConfig{
		Message: s.renderer.theme.PromptPrefix + message,
		Default: el.Binding.Value(),
		Help:    el.Placeholder,
	}
	for {
		var (
			answer string
			err    error
		)
		if secret {
			answer, err = s.renderer.driver.Password(ctx, cfg)
		} else {
			answer, err = s.renderer.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		if flags.Required && strings.TrimSpace(answer) == "" {
			if err := s.errorLine(ctx, fmt.Sprintf("%s is required", message)); err != nil {
				return err
			}
			continue
		}
		s.apply(el, path, answer, secret)
		return nil
	}
}

func (s *session) promptTextarea(ctx context.Context, el *model.Element, path string) error {
	message := s.takeMessage(el, path)
	if el.Binding == nil {
		s.state.Skip(path)
		return nil
	}
	answer, err := s.renderer.driver.TextArea(ctx, TextAreaConfig{
		Message: s.renderer.theme.PromptPrefix + message,
		Default: el.Binding.Value(),
		Help:    el.Placeholder,
	})
	if err != nil {
		return err
	}
	s.apply(el, path, answer, false)
	return nil
}

func (s *session) apply(el *model.Element, path, value string, secret bool) {
	name := fieldName(el, path)
	el.Binding.HandleChange(field.ChangeEvent{Target: field.Target{Name: name, Value: value}})
	s.state.Record(name, value, secret)
}

func (s *session) printHelper(ctx context.Context, el *model.Element, path string) error {
	text := el.Text
	if s.recompose != nil {
		fresh, err := s.renderer.prepare(s.recompose(), s.opts)
		if err != nil {
			return err
		}
		if current, ok := lookup(&fresh, path); ok && current.Kind == model.KindHelper {
			text = current.Text
		}
	}
	text = plainText(text)
	if text == "" {
		return nil
	}
	if el.Variant == model.HelperError {
		return s.errorLine(ctx, text)
	}
	return s.info(ctx, text)
}

func (s *session) confirmSubmit(ctx context.Context, el *model.Element) error {
	ok, err := s.renderer.driver.Confirm(ctx, ConfirmConfig{
		Message: s.renderer.theme.PromptPrefix + firstNonEmpty(el.Text, "Submit"),
		Default: true,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSubmitted
	}
	s.state.submitted = true
	return nil
}

func (s *session) takeMessage(el *model.Element, path string) string {
	message := firstNonEmpty(s.label, el.Placeholder, el.Name, el.ID, path)
	s.label = ""
	return message
}

func (s *session) info(ctx context.Context, msg string) error {
	return s.renderer.driver.Info(ctx, s.renderer.theme.InfoPrefix+msg)
}

func (s *session) errorLine(ctx context.Context, msg string) error {
	return s.renderer.driver.Info(ctx, s.renderer.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(result Result) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for name, value := range result.Values {
			values.Set(name, fmt.Sprint(value))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(r.pretty(result)), nil
	default:
		return json.Marshal(result)
	}
}

func (r *Renderer) pretty(result Result) string {
	names := make([]string, 0, len(result.Values))
	for name := range result.Values {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	fmt.Fprintf(&b, "page: %s\n", result.Page)
	for _, name := range names {
		value := fmt.Sprint(result.Values[name])
		if result.secrets[name] && value != "" {
			value = secretMask
		}
		fmt.Fprintf(&b, "%s=%s\n", name, value)
	}
	for _, path := range result.Skipped {
		fmt.Fprintf(&b, "skipped: %s\n", path)
	}
	fmt.Fprintf(&b, "submitted: %t\n", result.Submitted)
	return b.String()
}

func lookup(page *model.Page, path string) (model.Element, bool) {
	var (
		found model.Element
		ok    bool
	)
	page.Walk(func(current string, el *model.Element) bool {
		if ok {
			return false
		}
		if current == path {
			found, ok = *el, true
			return false
		}
		return strings.HasPrefix(path, current+".")
	})
	return found, ok
}

func fieldName(el *model.Element, path string) string {
	return firstNonEmpty(el.Name, el.ID, path)
}

var plainTextPolicy = bluemonday.StrictPolicy()

// plainText strips markup from helper text for terminal output.
func plainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(raw)))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
