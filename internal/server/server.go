package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formcontrol/internal/config"
	"github.com/goliatone/go-formcontrol/pkg/locale"
	"github.com/goliatone/go-formcontrol/pkg/model"
	"github.com/goliatone/go-formcontrol/pkg/orchestrator"
	"github.com/goliatone/go-formcontrol/pkg/pages"
	"github.com/goliatone/go-formcontrol/pkg/render"
	"github.com/goliatone/go-formcontrol/pkg/renderers/vanilla"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the zap logger used for request and lifecycle logs.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the vanilla renderer built from the config.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTranslator replaces the locale catalog built from the config.
func WithTranslator(translator render.Translator) Option {
	return func(s *Server) {
		if translator != nil {
			s.translator = translator
		}
	}
}

// Server serves the identity and shop screens as HTML.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	renderer   *vanilla.Renderer
	translator render.Translator
	theme      *theme.RendererConfig
	themeDir   string
	themeURL   string

	orchestrator *orchestrator.Orchestrator
	handler      http.Handler
}

// New wires the renderer, translator and theme described by cfg.
func New(cfg *config.Config, options ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.translator == nil {
		catalog, err := locale.LoadDir(cfg.Render.LocalesDir)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.translator = catalog
	}

	manifest, err := cfg.LoadThemeManifest()
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		s.theme, err = render.ThemeConfig(render.NewStaticThemeSelector(manifest), manifest.Name, cfg.Theme.Variant, render.DefaultThemeFallbacks())
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.themeDir = strings.TrimSpace(cfg.Theme.AssetsDir)
		s.themeURL = strings.TrimRight(manifest.Assets.Prefix, "/")
	}

	if s.renderer == nil {
		s.renderer, err = vanilla.New(cfg.TemplateOptions()...)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	registry := render.NewRegistry()
	if err := registry.Register(s.renderer); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.orchestrator = orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(s.renderer.Name()),
		orchestrator.WithPageOptions(cfg.PageOptions()),
		orchestrator.WithDecorators(model.OverrideControlFlags(cfg.Controls)),
		orchestrator.WithTranslator(s.translator),
		orchestrator.WithLocale(cfg.Render.Locale),
		orchestrator.WithStylesheets(cfg.Render.Stylesheets...),
	)

	s.handler = s.withRequestLogging(s.routes())
	return s, nil
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully. When
// template watching is enabled the watcher runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout(),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
		defer cancel()
		s.logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if dir := strings.TrimSpace(s.cfg.Render.TemplatesDir); s.cfg.Render.WatchTemplates && dir != "" {
		watcher := NewTemplateWatcher(dir, s.renderer.Templates(), s.logger)
		group.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return group.Wait()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	for _, name := range pages.Names() {
		mux.Handle("/"+name, s.screenHandler(name))
	}
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	if s.themeDir != "" && s.themeURL != "" && s.themeURL != "/assets" {
		mux.Handle(s.themeURL+"/", http.StripPrefix(s.themeURL+"/", http.FileServer(http.Dir(s.themeDir))))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/"+pages.ShopPageID, http.StatusFound)
	})
	return mux
}

// screenHandler renders a fresh screen per request. Query parameters named
// after a bound field go through the field's change handler first, so
// /shop?domain=acme renders the helper as https://dalda.shop/acme.
func (s *Server) screenHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		result, err := s.orchestrator.Render(r.Context(), orchestrator.Request{
			Screen: name,
			Values: r.URL.Query(),
			RenderOptions: render.RenderOptions{
				Locale: strings.TrimSpace(r.URL.Query().Get("lang")),
				Theme:  s.theme,
			},
		})
		if err != nil {
			loggerFrom(r.Context(), s.logger).Error("render failed", zap.String("screen", name), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		if len(result.Applied) > 0 {
			loggerFrom(r.Context(), s.logger).Debug("applied field values", zap.String("screen", name), zap.Strings("fields", result.Applied))
		}

		w.Header().Set("Content-Type", result.ContentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(result.Body)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
