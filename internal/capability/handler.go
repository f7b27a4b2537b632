package capability

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/civicgrid/landuse-api/internal/observability"
)

// Handler serves one capability endpoint over HTTP.
type Handler struct {
	pipeline   *Pipeline
	capability Capability
	metrics    *observability.Metrics
}

// NewHandler creates the HTTP handler for a capability.
func NewHandler(pipeline *Pipeline, c Capability, metrics *observability.Metrics) *Handler {
	return &Handler{pipeline: pipeline, capability: c, metrics: metrics}
}

// ServeHTTP runs the lookup pipeline for one request. Any panic below is
// reported as UNEXPECTED with the message in the envelope; the process keeps
// serving.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("lookup panic",
				zap.String("capability", h.capability.Name),
				zap.Any("panic", rec),
			)
			apiErr := newAPIError(CodeUnexpected, fmt.Sprint(rec))
			h.metrics.Lookups.WithLabelValues(h.capability.Name, string(apiErr.Code)).Inc()
			WriteError(w, h.capability.Name, apiErr)
		}
	}()

	in, apiErr := ParseInput(r.URL.Query())
	if apiErr != nil {
		h.metrics.Lookups.WithLabelValues(h.capability.Name, string(apiErr.Code)).Inc()
		WriteError(w, h.capability.Name, apiErr)
		return
	}

	payload, apiErr := h.pipeline.Lookup(r.Context(), h.capability, in)
	if apiErr != nil {
		h.metrics.Lookups.WithLabelValues(h.capability.Name, string(apiErr.Code)).Inc()
		WriteError(w, h.capability.Name, apiErr)
		return
	}

	h.metrics.Lookups.WithLabelValues(h.capability.Name, "ok").Inc()
	WriteJSON(w, http.StatusOK, payload)
}

// HealthHandler answers the health capability with the same envelope shape
// and headers as the lookup endpoints.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, &Payload{
			OK:         true,
			Capability: "health",
			Data: map[string]any{
				"status": "ok",
				"now":    time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}
