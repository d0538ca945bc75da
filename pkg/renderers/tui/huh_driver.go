package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

type huhDriver struct {
	out io.Writer
}

// NewHuhDriver returns a driver that draws each prompt as a one-field huh
// form. Forms and info lines are written to out, or stderr when out is nil.
func NewHuhDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stderr
	}
	return &huhDriver{out: out}
}

func (d *huhDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	value := cfg.Default
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (d *huhDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var value string
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	if value == "" {
		value = cfg.Default
	}
	return value, nil
}

func (d *huhDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	value := cfg.Default
	field := huh.NewConfirm().
		Title(cfg.Message).
		Description(cfg.Help).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

func (d *huhDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	value := cfg.Default
	field := huh.NewText().
		Title(cfg.Message).
		Description(cfg.Help).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (d *huhDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *huhDriver) run(ctx context.Context, field huh.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	form := huh.NewForm(huh.NewGroup(field)).WithOutput(d.out)
	return translateHuhErr(form.RunWithContext(ctx))
}

func translateHuhErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
