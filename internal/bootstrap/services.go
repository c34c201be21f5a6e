package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/masumi-network/kodosumi-bridge/config"
	"github.com/masumi-network/kodosumi-bridge/internal/adapters/kodosumi"
	"github.com/masumi-network/kodosumi-bridge/internal/adapters/masumi"
	"github.com/masumi-network/kodosumi-bridge/internal/data"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
	"github.com/masumi-network/kodosumi-bridge/internal/observability/statsd"
	"github.com/masumi-network/kodosumi-bridge/internal/service"
)

// ServiceContainer holds the constructed service graph.
type ServiceContainer struct {
	Orchestrator *service.Orchestrator
	Schema       *service.SchemaService
	Store        *data.MemoryJobStore
	Metrics      *statsd.Client
}

// ServiceDeps groups dependencies for BuildServices.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// BuildServices wires adapters and services from configuration.
func BuildServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsClient, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.StatsdPrefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}

	payments, err := masumi.NewClient(masumi.FromPaymentConfig(cfg.Payment, logger))
	if err != nil {
		return nil, fmt.Errorf("create payment client: %w", err)
	}

	flows, err := kodosumi.NewClient(kodosumi.FromFlowConfig(cfg.Flow, logger))
	if err != nil {
		return nil, fmt.Errorf("create flow client: %w", err)
	}

	schema, err := service.NewSchemaService(service.SchemaServiceOptions{
		Fields:       model.DefaultInputFields(),
		PrimaryField: cfg.Flow.PrimaryFieldID,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create schema service: %w", err)
	}

	extractor, err := service.NewResultExtractor(cfg.Flow.ResultExpression)
	if err != nil {
		return nil, fmt.Errorf("create result extractor: %w", err)
	}

	store := data.NewMemoryJobStore()

	orchestrator, err := service.NewOrchestrator(service.OrchestratorOptions{
		Store:     store,
		Payments:  payments,
		Flows:     flows,
		Schema:    schema,
		Extractor: extractor,
		Flow:      cfg.Flow,
		Logger:    logger,
		Metrics:   metricsClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	return &ServiceContainer{
		Orchestrator: orchestrator,
		Schema:       schema,
		Store:        store,
		Metrics:      metricsClient,
	}, nil
}
