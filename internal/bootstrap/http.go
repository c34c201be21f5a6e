package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/masumi-network/kodosumi-bridge/config"
	httpx "github.com/masumi-network/kodosumi-bridge/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Orchestrator: cfg.Services.Orchestrator,
		Schema:       cfg.Services.Schema,
		Payment:      cfg.Config.Payment,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         cfg.Config.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Config.HTTP.ReadTimeout,
		WriteTimeout: cfg.Config.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully drains the HTTP server within grace.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) {
	if server == nil {
		return
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
