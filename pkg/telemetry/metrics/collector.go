// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "menugate"
)

// Collector owns the Prometheus registry and all gateway metrics.
// It uses its own registry rather than the global default so tests can
// create collectors without collision and the /metrics endpoint never
// leaks metrics from stray libraries.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	// generations counts completed generation attempts by provider,
	// model, and outcome ("success", "error", "no_content")
	generations *prometheus.CounterVec

	// fallbacks counts model-fallback steps by provider and the model
	// that was skipped
	fallbacks *prometheus.CounterVec

	// limitChecks counts rate-limit decisions by outcome
	// ("allowed", "blocked")
	limitChecks *prometheus.CounterVec

	// upstreamLatency observes upstream call duration by provider and model
	upstreamLatency *prometheus.HistogramVec

	// activeRecords tracks the number of live rate-limit windows
	activeRecords prometheus.Gauge
}

// NewCollector creates a metrics collector with its own registry.
// When enabled is false, all recording methods are no-ops but the
// registry still serves (empty) scrapes.
func NewCollector(enabled bool) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		enabled:  enabled,
		registry: registry,

		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Completed generation attempts by provider, model, and outcome.",
		}, []string{"provider", "model", "outcome"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_fallbacks_total",
			Help:      "Model-fallback steps taken by provider and skipped model.",
		}, []string{"provider", "model"}),

		limitChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_checks_total",
			Help:      "Rate-limit decisions by outcome.",
		}, []string{"outcome"}),

		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream provider call latency.",
			// LLM calls run from sub-second to tens of seconds
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "model"}),

		activeRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_active_records",
			Help:      "Live rate-limit windows.",
		}),
	}

	if enabled {
		registry.MustRegister(
			c.generations,
			c.fallbacks,
			c.limitChecks,
			c.upstreamLatency,
			c.activeRecords,
		)
	}

	return c
}

// RecordGeneration records a completed generation attempt.
func (c *Collector) RecordGeneration(provider, model, outcome string, duration time.Duration) {
	if !c.enabled {
		return
	}
	c.generations.WithLabelValues(provider, model, outcome).Inc()
	c.upstreamLatency.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordFallback records a model-fallback step.
func (c *Collector) RecordFallback(provider, model string) {
	if !c.enabled {
		return
	}
	c.fallbacks.WithLabelValues(provider, model).Inc()
}

// RecordLimitCheck records a rate-limit decision.
func (c *Collector) RecordLimitCheck(allowed bool) {
	if !c.enabled {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "blocked"
	}
	c.limitChecks.WithLabelValues(outcome).Inc()
}

// SetActiveRecords updates the live rate-limit window gauge.
func (c *Collector) SetActiveRecords(n int) {
	if !c.enabled {
		return
	}
	c.activeRecords.Set(float64(n))
}

// Registry returns the collector's Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
