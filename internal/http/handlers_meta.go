package httpx

import (
	"net/http"

	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
	"github.com/masumi-network/kodosumi-bridge/internal/service"
)

// MetaHandlers exposes the agent discovery endpoints.
type MetaHandlers struct {
	Schema          *service.SchemaService
	AgentIdentifier string
}

// Availability handles GET /availability.
func (h *MetaHandlers) Availability(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":          "available",
		"type":            "masumi-agent",
		"agentIdentifier": h.AgentIdentifier,
	})
}

// InputSchema handles GET /input_schema. Required/optional markers are an
// internal concern and stripped from the advertised validations.
func (h *MetaHandlers) InputSchema(w http.ResponseWriter, r *http.Request) {
	fields := h.Schema.Fields()
	out := make([]model.InputField, 0, len(fields))
	for _, f := range fields {
		f.Validations = stripRequiredMarkers(f.Validations)
		out = append(out, f)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"input_data": out})
}

func stripRequiredMarkers(validations []map[string]any) []map[string]any {
	if len(validations) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(validations))
	for _, v := range validations {
		if marker, ok := v["validation"].(string); ok && (marker == "required" || marker == "optional") {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
