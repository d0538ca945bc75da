package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcontrol/pkg/locale"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
	"github.com/goliatone/go-formcontrol/pkg/renderers/tui"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		format     string
		lang       string
		driverName string
	)

	cmd := &cobra.Command{
		Use:       "prompt <screen>",
		Short:     "Fill a screen through terminal prompts",
		Long:      "Prompts for every enabled input of the screen. Disabled and file inputs are skipped. Prompts go to stderr, the collected values to stdout.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pages.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := pages.Lookup(args[0], a.cfg.PageOptions())
			if err != nil {
				return err
			}
			catalog, err := locale.LoadDir(a.cfg.Render.LocalesDir)
			if err != nil {
				return err
			}

			driver, err := a.promptDriver(driverName, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(strings.ToLower(strings.TrimSpace(format)))),
				tui.WithTheme(tui.Theme{InfoPrefix: "· ", ErrorPrefix: "! "}),
				tui.WithDecorators(a.controlOverrides()),
			)
			if err != nil {
				return err
			}

			if lang == "" {
				lang = a.cfg.Render.Locale
			}
			out, err := renderer.RenderScreen(cmd.Context(), screen, render.RenderOptions{
				Locale:     lang,
				Translator: catalog,
			})
			switch {
			case errors.Is(err, tui.ErrAborted):
				a.logger.Debug("prompt aborted", zap.String("screen", screen.Name()))
				return err
			case err != nil:
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatPrettyText), "Output format: json, form or pretty")
	cmd.Flags().StringVar(&lang, "lang", "", "Locale (default from config)")
	cmd.Flags().StringVar(&driverName, "driver", "survey", "Prompt driver: survey or huh")
	return cmd
}

func (a *app) promptDriver(name string, out io.Writer) (tui.PromptDriver, error) {
	if a.driver != nil {
		return a.driver, nil
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "survey":
		return tui.NewSurveyDriver(out), nil
	case "huh":
		return tui.NewHuhDriver(out), nil
	default:
		return nil, fmt.Errorf("unknown prompt driver %q (survey, huh)", name)
	}
}
