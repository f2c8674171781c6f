package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderstatus/components/orderform"
	"github.com/goliatone/go-orderstatus/internal/config"
	"github.com/goliatone/go-orderstatus/internal/logging"
	"github.com/goliatone/go-orderstatus/internal/metrics"
	"github.com/goliatone/go-orderstatus/internal/ratelimit"
	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
	"github.com/goliatone/go-orderstatus/pkg/renderers/tui"
	"github.com/goliatone/go-orderstatus/pkg/renderers/vanilla"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the order status form over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			return runServe(cmd.Context(), *a.cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func runServe(parent context.Context, cfg config.Config, logger zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	router, mount, err := newRouter(cfg, logger, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("form", mount).Msg("order status server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// newRouter wires the form handler, health check and metrics endpoint. It
// returns the path the form is mounted at.
func newRouter(cfg config.Config, logger zerolog.Logger, reg *prometheus.Registry) (http.Handler, string, error) {
	var recorder dropdowns.Recorder
	if cfg.HTTP.Metrics && reg != nil {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec, err := metrics.NewRecorder(reg, metrics.DefaultConfig())
		if err != nil {
			return nil, "", fmt.Errorf("register metrics: %w", err)
		}
		recorder = rec
	}

	policy := cfg.SubmitPolicy()
	mount := orderform.MountPath(cfg.HTTP.BasePath)

	page, err := vanilla.New(
		vanilla.WithTheme(themeConfig(cfg.Theme)),
		vanilla.WithAssetsPath(mount+"/assets"),
		vanilla.WithTemplatesDir(cfg.Form.TemplatesDir),
	)
	if err != nil {
		return nil, "", err
	}
	terminal, err := tui.New(tui.WithSubmitPolicy(policy))
	if err != nil {
		return nil, "", err
	}
	registry := render.NewRegistry()
	if err := registry.Register(page); err != nil {
		return nil, "", err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, "", err
	}

	formLogger := logger.With().Str("component", "orderform").Logger()
	form, err := orderform.Handler(cfg.HTTP.BasePath,
		orderform.WithLoader(loaderFactory(cfg.Sheet, formLogger, recorder)),
		orderform.WithPageRenderer(page),
		orderform.WithRegistry(registry),
		orderform.WithSessionTTL(cfg.HTTP.SessionTTL),
		orderform.WithMaxUploadBytes(cfg.HTTP.MaxUploadBytes),
		orderform.WithSubmitPolicy(policy),
		orderform.WithLogger(formLogger),
		orderform.WithOnSubmit(func(ctx context.Context, sessionID string, payload map[orderstatus.FieldName]orderstatus.Value) error {
			formLogger.Info().
				Str("session", sessionID).
				Str("status", payload[orderstatus.FieldOrderStatus].Text()).
				Int("fields", len(payload)).
				Msg("order status submitted")
			return nil
		}),
	)
	if err != nil {
		return nil, "", err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.RequestLogger(logger, 0, "/healthz", "/metrics"))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.HTTP.Metrics && reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	limiter := ratelimit.New(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst, cfg.HTTP.SessionTTL)
	r.Mount(mount, limiter.Middleware(gziphandler.GzipHandler(form)))

	return r, mount, nil
}
