package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formcontrol/internal/config"
	"github.com/goliatone/go-formcontrol/pkg/locale"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/orchestrator"
	"github.com/goliatone/go-formcontrol/pkg/render"
	"github.com/goliatone/go-formcontrol/pkg/renderers/tui"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla"
)

// app carries what the subcommands share once the root command has loaded
// the config.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// driver replaces the survey prompts; tests set it.
	driver tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formcontrol",
		Short: "Render and preview the identity and shop form screens",
		Long: `formcontrol renders the identity and shop profile screens.

Each form control hands its invalid/required/disabled flags to the labels
and inputs inside it. Use "render" for HTML, "prompt" to fill a screen in
the terminal and "serve" for a live preview.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			if a.logger != nil {
				return nil
			}
			a.logger, err = buildLogger(cfg.Logging, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (FORMCONTROL_* env vars override it)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newPromptCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newScreensCmd(a))
	return root
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if level := strings.TrimSpace(cfg.Level); level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logging.level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(parsed)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func (a *app) controlOverrides() model.Decorator {
	return model.OverrideControlFlags(a.cfg.Controls)
}

// orchestrator builds the HTML pipeline described by the loaded config.
func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	catalog, err := locale.LoadDir(a.cfg.Render.LocalesDir)
	if err != nil {
		return nil, err
	}

	renderer, err := vanilla.New(a.cfg.TemplateOptions()...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithPageOptions(a.cfg.PageOptions()),
		orchestrator.WithDecorators(a.controlOverrides()),
		orchestrator.WithTranslator(catalog),
		orchestrator.WithLocale(a.cfg.Render.Locale),
		orchestrator.WithStylesheets(a.cfg.Render.Stylesheets...),
	}

	manifest, err := a.cfg.LoadThemeManifest()
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		options = append(options, orchestrator.WithThemeSelector(
			render.NewStaticThemeSelector(manifest), manifest.Name, a.cfg.Theme.Variant,
		))
	}
	return orchestrator.New(options...), nil
}
