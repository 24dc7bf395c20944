package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/laoman/java-app-monitoring/internal/config"
	"github.com/laoman/java-app-monitoring/internal/runner"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Diagnostics go to stderr; stdout carries only the banner, the
	// mirrored log lines and the completion line.
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadRunner()
	runner.New(cfg, os.Stdout).Run(ctx)
}
