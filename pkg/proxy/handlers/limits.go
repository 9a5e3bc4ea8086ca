package handlers

import (
	"net/http"
	"strings"

	"tavola-hq/menugate/pkg/limits/ratelimit"
	"tavola-hq/menugate/pkg/proxy"
)

// MetricsReader exposes rate-limiter counters and live-record stats.
// Satisfied by *ratelimit.FixedWindow.
type MetricsReader interface {
	Metrics() ratelimit.Metrics
	Stats() ratelimit.Stats
}

// LimitsHandler serves GET /api/limits/metrics (cumulative counters with
// the block rate) and GET /api/limits/stats (live-record summary).
type LimitsHandler struct {
	limiter MetricsReader
}

// NewLimitsHandler creates the rate-limit visibility endpoint handler.
func NewLimitsHandler(l MetricsReader) *LimitsHandler {
	return &LimitsHandler{limiter: l}
}

func (h *LimitsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/stats") {
		proxy.WriteJSON(w, http.StatusOK, h.limiter.Stats())
		return
	}
	proxy.WriteJSON(w, http.StatusOK, h.limiter.Metrics())
}
