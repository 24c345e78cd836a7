package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/handler/api"
	"SolPulse/internal/usecase"
	pkgcache "SolPulse/pkg/cache"
	"SolPulse/pkg/config"
	xhttp "SolPulse/pkg/http"
	pkgkafka "SolPulse/pkg/kafka"
	applogger "SolPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	agg        *usecase.Aggregator
	refresher  *usecase.Refresher
	hub        *api.StreamHub
	handler    xhttp.Handler
	producer   *pkgkafka.Producer
	cache      pkgcache.Cache
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. producer and cache
// may be nil when those subsystems are disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	agg *usecase.Aggregator,
	refresher *usecase.Refresher,
	hub *api.StreamHub,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	cache pkgcache.Cache,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		agg:       agg,
		refresher: refresher,
		hub:       hub,
		handler:   handler,
		producer:  producer,
		cache:     cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Every state replacement goes straight out to WebSocket clients.
	a.agg.SetOnUpdate(func(st models.PredictionState) {
		a.hub.Broadcast(st)
	})

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("asset", a.cfg.Provider.AssetID))

	if a.cfg.Predictor.Live {
		a.refresher.SetLive(true)
	} else {
		a.log.Info("serving fixture data; enable live mode via POST /api/live")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	a.refresher.Stop()
	a.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http server shutdown error", applogger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Error("kafka producer close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Error("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
