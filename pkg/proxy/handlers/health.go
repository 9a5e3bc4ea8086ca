package handlers

import (
	"net/http"

	"tavola-hq/menugate/pkg/providers"
	"tavola-hq/menugate/pkg/proxy"
	"tavola-hq/menugate/pkg/proxy/types"
)

// Health serves GET /api/health. It reports liveness only; provider
// reachability has its own endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

// ProviderLister exposes the configured adapters. Satisfied by
// *gateway.Gateway.
type ProviderLister interface {
	Providers() []providers.Adapter
}

// ProvidersHealthHandler serves GET /api/health/providers with the
// tracked health of every configured adapter.
type ProvidersHealthHandler struct {
	gateway ProviderLister
}

// NewProvidersHealthHandler creates the provider health endpoint handler.
func NewProvidersHealthHandler(g ProviderLister) *ProvidersHealthHandler {
	return &ProvidersHealthHandler{gateway: g}
}

func (h *ProvidersHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adapters := h.gateway.Providers()
	out := make([]types.ProviderHealth, 0, len(adapters))
	for _, a := range adapters {
		health := a.GetHealth()
		out = append(out, types.ProviderHealth{
			Provider:            a.Name(),
			Healthy:             health.IsHealthy,
			ConsecutiveFailures: health.ConsecutiveFailures,
			TotalRequests:       health.TotalRequests,
			FailedRequests:      health.FailedRequests,
		})
	}
	proxy.WriteJSON(w, http.StatusOK, out)
}
