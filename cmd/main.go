package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/epochline/internal/adapters/http/api"
	"github.com/okian/epochline/internal/adapters/http/site"
	"github.com/okian/epochline/internal/adapters/http/swagger"
	"github.com/okian/epochline/internal/adapters/repository"
	app "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/config"
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/timeline"
	"github.com/okian/epochline/internal/domain/zoom"
	"github.com/okian/epochline/pkg/logger"
	"github.com/okian/epochline/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "epochline",
		Short:        "Zoomable historical timeline server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $"+config.EnvFile+")")

	root.AddCommand(serveCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(seedCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	// Our own system gauges replace the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Error(ctx, "sync logger", logger.Error(err))
		}
	}()

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// setup loads configuration and initializes the global logger from it.
func setup(ctx context.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()

	// Fall back to info on invalid input.
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// newService wires a Service from cfg. Without db_path the service serves
// the built-in sample from memory.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithTimelineOptions(timelineOptions(cfg)...),
		app.WithSessionLimit(cfg.SessionLimit),
		app.WithDefaultViewport(render.Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}),
		app.WithRasterTimeout(cfg.RasterTimeout()),
	}

	if cfg.EraCatalog != "" {
		cat, err := era.Load(cfg.EraCatalog)
		if err != nil {
			return nil, fmt.Errorf("load era catalog: %w", err)
		}
		if !cat.Covers(int(cfg.MinYear), int(cfg.MaxYear)) {
			log.Warn(ctx, "era catalog does not cover the pan bounds",
				logger.String("catalog", cfg.EraCatalog),
				logger.Float64("minYear", cfg.MinYear),
				logger.Float64("maxYear", cfg.MaxYear),
			)
		}
		opts = append(opts, app.WithCatalog(cat))
	}

	if cfg.DBPath != "" {
		st, err := repository.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		opts = append(opts, app.WithStore(st))
	}
	return app.New(opts...), nil
}

// timelineOptions maps configuration onto engine options.
func timelineOptions(cfg *config.Config) []timeline.Option {
	return []timeline.Option{
		timeline.WithTheme(themeOf(cfg.Colors)),
		timeline.WithBounds(zoom.Bounds{MinYear: cfg.MinYear, MaxYear: cfg.MaxYear}),
		timeline.WithInitialRange(timeline.Range{Start: cfg.InitialStart, End: cfg.InitialEnd}),
		timeline.WithExtent(zoom.Extent{Min: cfg.ZoomMin, Max: cfg.ZoomMax}),
		timeline.WithBottomMargin(cfg.BottomMargin),
		timeline.WithAnchorRatio(cfg.LifespanAnchor),
		timeline.WithTickCount(cfg.TickCount),
	}
}

// themeOf overlays configured colours on the stock palette.
func themeOf(c config.Colors) render.Theme {
	t := render.DefaultTheme()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Background, c.Background)
	set(&t.Axis, c.Axis)
	set(&t.TickText, c.TickText)
	set(&t.EventDot, c.EventDot)
	set(&t.LabelText, c.LabelText)
	return t
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater polls service stats, which refreshes the
// session gauge.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if n, ok := stats["sessions"].(int); ok {
		metrics.UpdateActiveSessions(n)
	}
}
