// Command kodosumi-bridge serves paid Kodosumi flow executions behind the
// Masumi payment network.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/masumi-network/kodosumi-bridge/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting kodosumi-bridge",
		"addr", cfg.HTTP.Addr,
		"payment_network", cfg.Payment.Network,
		"flow_name_contains", cfg.Flow.NameContains,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
	)

	services, err := bootstrap.BuildServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.Run(ctx, &bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}
