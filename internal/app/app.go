package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/laoman/java-app-monitoring/internal/config"
	"github.com/laoman/java-app-monitoring/internal/container"
	"github.com/laoman/java-app-monitoring/internal/handler"
	"github.com/laoman/java-app-monitoring/internal/service"
	"github.com/laoman/java-app-monitoring/internal/state"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	cfg     *config.Config
	server  *http.Server
	monitor *service.Monitor
}

func New() (*App, error) {
	cfg := config.Load()

	manager, err := container.NewManager(cfg.ContainerName, cfg.ImageTag)
	if err != nil {
		return nil, fmt.Errorf("initializing container manager: %w", err)
	}

	states := state.NewStore(cfg.StatePath())
	monitor := service.NewMonitor(cfg, manager, states)

	app := &App{
		cfg:     cfg,
		monitor: monitor,
	}
	app.setupHTTPServer()
	return app, nil
}

func (a *App) setupHTTPServer() {
	mux := http.NewServeMux()
	handler.NewHTTPHandler(a.monitor).RegisterRoutes(mux)

	a.server = &http.Server{
		Addr:    a.cfg.ServerPort,
		Handler: mux,
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.pollPeriodically(ctx)
	go a.startServer()

	return a.waitForShutdown(ctx, cancel)
}

// pollPeriodically reconciles the persisted run state against the container
// until the context is cancelled.
func (a *App) pollPeriodically(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("component", "poller").Info("stopping status poller")
			return
		case <-ticker.C:
			if err := a.monitor.Refresh(ctx); err != nil {
				log.WithFields(log.Fields{
					"component": "poller",
					"error":     err,
				}).Error("status refresh failed")
			}
		}
	}
}

func (a *App) startServer() {
	log.WithFields(log.Fields{
		"component": "server",
		"address":   a.cfg.ServerPort,
	}).Info("http server listening")

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithFields(log.Fields{
			"component": "server",
			"error":     err,
		}).Fatal("http server failed to start")
	}
}

func (a *App) waitForShutdown(ctx context.Context, cancel context.CancelFunc) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		log.WithField("reason", "context_cancelled").Info("initiating graceful shutdown")
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("received shutdown signal")
	}

	cancel()
	return a.shutdown()
}

func (a *App) shutdown() error {
	log.Info("graceful shutdown started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.WithFields(log.Fields{
			"component": "server",
			"error":     err,
		}).Error("http server shutdown failed")
		return err
	}

	log.Info("graceful shutdown completed")
	return nil
}
