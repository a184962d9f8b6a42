package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FameFeed/internal/service/audit"
	"FameFeed/internal/usecase"
	pkgcache "FameFeed/pkg/cache"
	pkgch "FameFeed/pkg/clickhouse"
	"FameFeed/pkg/config"
	xhttp "FameFeed/pkg/http"
	applogger "FameFeed/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	reader     *usecase.SeriesReader
	bus        *audit.Bus
	handler    xhttp.Handler
	chClient   *pkgch.Client
	cache      pkgcache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	reader *usecase.SeriesReader,
	bus *audit.Bus,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		reader:   reader,
		bus:      bus,
		handler:  handler,
		chClient: chClient,
		cache:    cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := "/metrics"
	if !a.cfg.Metrics.Enabled {
		metricsPath = ""
	} else if a.cfg.Metrics.Path != "" {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("serving databases", applogger.Strings("databases", a.reader.Registry().Names()))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// Audit sinks first so late events are still flushed.
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.l.Warn("audit bus close error", applogger.Error(err))
		}
	}

	// Store registry close is idempotent; the deferred closes in error paths
	// may already have run.
	if err := a.reader.Registry().Close(); err != nil {
		a.l.Warn("store registry close error", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
