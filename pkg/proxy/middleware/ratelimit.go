package middleware

import (
	"math"
	"net/http"
	"strconv"

	"tavola-hq/menugate/pkg/limits/ratelimit"
	"tavola-hq/menugate/pkg/proxy"
	"tavola-hq/menugate/pkg/proxy/types"
	"tavola-hq/menugate/pkg/telemetry/metrics"
)

// Limiter is the subset of the rate limiter the middleware needs.
// Satisfied by *ratelimit.FixedWindow.
type Limiter interface {
	CheckAndConsume(key string) ratelimit.Result
	Metrics() ratelimit.Metrics
}

// RateLimit enforces the per-client fixed-window limit. Every response,
// allowed or blocked, carries X-RateLimit-Limit and X-RateLimit-Remaining;
// blocked requests get a 429 RATE_LIMIT envelope with the whole seconds
// until the window resets, rounded up so a client that waits exactly that
// long is never rejected again.
func RateLimit(limiter Limiter, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := proxy.ClientKey(r)
			result := limiter.CheckAndConsume(key)

			if collector != nil {
				collector.RecordLimitCheck(result.Allowed)
				collector.SetActiveRecords(limiter.Metrics().ActiveClients)
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				proxy.WriteEnvelope(w, types.NewRateLimitError(
					"Too many requests. Please wait before trying again.", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
