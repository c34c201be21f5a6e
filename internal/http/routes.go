// Package httpx wires the bridge's JSON API onto the standard library mux.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/masumi-network/kodosumi-bridge/config"
	"github.com/masumi-network/kodosumi-bridge/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Orchestrator *service.Orchestrator
	Schema       *service.SchemaService
	Payment      config.PaymentConfig
	Logger       *slog.Logger // Logger for request logging and panics (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{
		Orchestrator:    services.Orchestrator,
		AgentIdentifier: services.Payment.AgentIdentifier,
		SellerVKey:      services.Payment.SellerVKey,
		Amount:          services.Payment.Amount,
		Unit:            services.Payment.Unit,
	}
	metaHandlers := &MetaHandlers{
		Schema:          services.Schema,
		AgentIdentifier: services.Payment.AgentIdentifier,
	}

	mux.Handle("POST /start_job", http.HandlerFunc(jobHandlers.StartJob))
	mux.Handle("GET /status", http.HandlerFunc(jobHandlers.Status))
	mux.Handle("GET /availability", http.HandlerFunc(metaHandlers.Availability))
	mux.Handle("GET /input_schema", http.HandlerFunc(metaHandlers.InputSchema))
	mux.Handle("GET /health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandler))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	if services.Logger != nil {
		handler = Logging(services.Logger)(handler)
		handler = Recover(services.Logger)(handler)
	}
	return handler
}
