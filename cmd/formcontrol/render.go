package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcontrol/pkg/orchestrator"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		sets         []string
		lang         string
		output       string
		rendererName string
		variant      string
	)

	cmd := &cobra.Command{
		Use:       "render <screen>",
		Short:     "Render a screen to HTML",
		Example:   "  formcontrol render shop --set name=acme --set domain=acme --lang en",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pages.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSetFlags(sets)
			if err != nil {
				return err
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			result, err := orch.Render(cmd.Context(), orchestrator.Request{
				Screen:        args[0],
				Values:        values,
				Renderer:      rendererName,
				ThemeVariant:  variant,
				RenderOptions: render.RenderOptions{Locale: lang},
			})
			if err != nil {
				return err
			}
			a.logger.Debug("rendered screen",
				zap.String("screen", args[0]),
				zap.String("renderer", result.Renderer),
				zap.Strings("applied", result.Applied),
				zap.Int("bytes", len(result.Body)))

			if output != "" {
				if err := os.WriteFile(output, result.Body, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Page written to %s\n", output)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(result.Body))
			return err
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value, applied through the field's change handler (repeatable)")
	cmd.Flags().StringVar(&lang, "lang", "", "Locale (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&rendererName, "renderer", "", "Renderer to use (default vanilla)")
	cmd.Flags().StringVar(&variant, "variant", "", "Theme variant (default from config)")
	return cmd
}

// parseSetFlags turns repeated name=value pairs into form values. Values may
// contain '=' and may be empty.
func parseSetFlags(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", pair)
		}
		values.Set(name, value)
	}
	return values, nil
}
