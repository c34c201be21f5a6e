package bootstrap

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/masumi-network/kodosumi-bridge/config"
)

// RunConfig groups dependencies for Run.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then drains the
// server and waits for in-flight job lifecycles within the shutdown grace.
func Run(ctx context.Context, cfg *RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	<-ctx.Done()
	stop()
	logger.Info("shutdown signal received", "grace", cfg.Config.HTTP.ShutdownGrace)

	graceCtx, cancel := context.WithTimeout(context.Background(), cfg.Config.HTTP.ShutdownGrace)
	defer cancel()

	group, groupCtx := errgroup.WithContext(graceCtx)
	group.Go(func() error {
		ShutdownHTTPServer(groupCtx, server, logger)
		return nil
	})
	group.Go(func() error {
		if err := cfg.Services.Orchestrator.Shutdown(groupCtx); err != nil {
			logger.Warn("orchestrator shutdown cut short", "error", err)
		}
		return nil
	})
	err := group.Wait()

	if cerr := cfg.Services.Metrics.Close(); cerr != nil {
		logger.Warn("statsd close failed", "error", cerr)
	}

	logger.Info("shutdown complete")
	return err
}
