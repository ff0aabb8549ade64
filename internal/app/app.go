// Package app wires configuration, logging, tracing, the data provider,
// the cache, services and the HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"stockdash/internal/cache"
	"stockdash/internal/config"
	apierrors "stockdash/internal/errors"
	"stockdash/internal/infrastructure"
	"stockdash/internal/middleware"
	"stockdash/internal/provider"
	"stockdash/internal/refresher"
	"stockdash/internal/services"
	transporthttp "stockdash/internal/transport/http"
)

// Version is the application version, set at build time.
var Version = "dev"

// Application owns the wired components and the HTTP server lifecycle.
type Application struct {
	cfg          *config.Config
	logger       *slog.Logger
	server       *http.Server
	seriesCache  *cache.SeriesCache
	refresher    *refresher.Refresher
	otelShutdown func(context.Context) error
}

// NewApplication builds the application. frontendFS, when non-nil, is the
// embedded single-page frontend served at the root.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	otelShutdown, err := infrastructure.InitTracing(context.Background(), Version, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	yahoo := provider.NewYahooClient(
		cfg.Market.ProviderBaseURL,
		cfg.Market.RequestTimeout,
		cfg.Market.RateRPS,
		cfg.Market.RateBurst,
		logger,
	)

	seriesCache := cache.New(cfg.Market.CacheTTL)
	service := services.NewDashboardService(yahoo, seriesCache, cfg, logger)

	app := &Application{
		cfg:          cfg,
		logger:       logger,
		seriesCache:  seriesCache,
		otelShutdown: otelShutdown,
	}

	if cfg.Refresh.Enabled {
		app.refresher = refresher.New(service, cfg.Refresh.Spec, logger)
	}

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router(service, frontendFS),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// router assembles the middleware chain and mounts all routes.
func (a *Application) router(service *services.DashboardService, frontendFS fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(a.cfg.Server.AllowedOrigins))
	if a.cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(a.cfg.Server.RateLimit.RPS, a.cfg.Server.RateLimit.Burst))
	}

	errorHandler := apierrors.NewErrorHandler(a.logger)
	dashboardHandler := transporthttp.NewDashboardHandler(service, a.logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler(Version, a.seriesCache)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Mount("/", dashboardHandler.Routes())
	})
	r.Handle("/metrics", promhttp.Handler())

	if frontendFS != nil {
		r.Handle("/*", http.FileServer(http.FS(frontendFS)))
	}

	return r
}

// Run starts the server and blocks until a signal or a server error.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.refresher != nil {
		if err := a.refresher.Start(ctx); err != nil {
			return fmt.Errorf("start refresher: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown drains the server and stops background components.
func (a *Application) shutdown() error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.refresher != nil {
		a.refresher.Stop()
	}
	a.seriesCache.Stop()

	if err := a.otelShutdown(shutdownCtx); err != nil {
		a.logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
	}

	return a.server.Shutdown(shutdownCtx)
}
