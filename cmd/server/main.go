package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"escriba/internal/platform/config"
	"escriba/internal/platform/httpserver"
	"escriba/internal/platform/logger"
	"escriba/internal/platform/metrics"
	"escriba/internal/platform/tracing"
)

// writeTimeoutSlack lets a handler that hit REQUEST_TIMEOUT still write its
// timeout response.
const writeTimeoutSlack = 5 * time.Second

// main loads configuration, wires the modules and serves the API and the
// metrics endpoint until SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "escriba: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Server.Environment, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	app, err := wire(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.Close()

	api := httpserver.New(cfg.Server.Addr, app.Router, cfg.Server.RequestTimeout+writeTimeoutSlack)
	metricsSrv := httpserver.New(cfg.Server.MetricsAddr, metrics.Handler(reg), cfg.Server.RequestTimeout)

	log.Info("starting escriba",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"store_backend", cfg.Database.Backend,
		"environment", cfg.Server.Environment,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, api, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return httpserver.Serve(gctx, metricsSrv, cfg.Server.ShutdownTimeout, log)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("escriba stopped")
	return nil
}
