// Package gateway selects an upstream LLM provider and walks its model
// fallback list until a request succeeds.
//
// Provider candidacy is decided by credential presence: an adapter is a
// candidate only when its API key environment variable is set, and the
// highest-priority candidate (groq, then google, then anthropic) handles
// every request. There is no per-request provider failover; if the chosen
// provider cannot serve the request with any of its models, the request
// fails. That keeps behavior predictable and failures attributable.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tavola-hq/menugate/pkg/config"
	"tavola-hq/menugate/pkg/providers"
	"tavola-hq/menugate/pkg/providers/anthropic"
	"tavola-hq/menugate/pkg/providers/google"
	"tavola-hq/menugate/pkg/providers/groq"
	"tavola-hq/menugate/pkg/sanitize"
	"tavola-hq/menugate/pkg/telemetry/metrics"
)

// Result is a successful generation.
type Result struct {
	// Menu is the sanitized menu JSON, passed through verbatim
	Menu json.RawMessage

	// Provider is the label of the adapter that produced it
	Provider string

	// Model is the model that produced it
	Model string
}

// Gateway routes generation requests to the highest-priority configured
// provider adapter.
type Gateway struct {
	// adapters holds the configured adapters in priority order
	adapters []providers.Adapter

	collector *metrics.Collector
	logger    *slog.Logger
}

// state drives the fallback walk in Generate.
type state int

const (
	stateSelectProvider state = iota
	stateTryModel
	stateNextModel
	stateDone
)

// New builds a gateway from the configuration. Only providers whose
// credential environment variable is set become candidates; their order is
// fixed (groq, google, anthropic). A gateway with no candidates is valid —
// Generate reports the missing configuration per request.
func New(cfg *config.Config, collector *metrics.Collector) (*Gateway, error) {
	g := &Gateway{
		collector: collector,
		logger:    slog.Default().With("component", "gateway"),
	}

	shared := func(pc config.ProviderConfig, key string) providers.ClientConfig {
		return providers.ClientConfig{
			BaseURL:             pc.BaseURL,
			APIKey:              key,
			Models:              pc.Models,
			Timeout:             cfg.Providers.Timeout,
			MaxIdleConns:        cfg.Providers.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.Providers.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.Providers.IdleConnTimeout,
		}
	}

	if key, ok := os.LookupEnv(config.EnvGroqAPIKey); ok {
		adapter, err := groq.NewClient(shared(cfg.Providers.Groq, key))
		if err != nil {
			return nil, fmt.Errorf("failed to build groq adapter: %w", err)
		}
		g.adapters = append(g.adapters, adapter)
	}
	if key, ok := os.LookupEnv(config.EnvGoogleAPIKey); ok {
		adapter, err := google.NewClient(shared(cfg.Providers.Google, key))
		if err != nil {
			return nil, fmt.Errorf("failed to build google adapter: %w", err)
		}
		g.adapters = append(g.adapters, adapter)
	}
	if key, ok := os.LookupEnv(config.EnvAnthropicAPIKey); ok {
		adapter, err := anthropic.NewClient(shared(cfg.Providers.Anthropic, key))
		if err != nil {
			return nil, fmt.Errorf("failed to build anthropic adapter: %w", err)
		}
		g.adapters = append(g.adapters, adapter)
	}

	if len(g.adapters) == 0 {
		g.logger.Warn("no provider credentials configured",
			"env_vars", []string{config.EnvGroqAPIKey, config.EnvGoogleAPIKey, config.EnvAnthropicAPIKey},
		)
	} else {
		names := make([]string, len(g.adapters))
		for i, a := range g.adapters {
			names[i] = a.Name()
		}
		g.logger.Info("gateway initialized", "providers", names)
	}

	return g, nil
}

// NewWithAdapters builds a gateway over explicit adapters. Used by tests
// and anywhere adapter construction is handled separately.
func NewWithAdapters(adapters []providers.Adapter, collector *metrics.Collector) *Gateway {
	return &Gateway{
		adapters:  adapters,
		collector: collector,
		logger:    slog.Default().With("component", "gateway"),
	}
}

// Providers returns the configured adapters in priority order.
func (g *Gateway) Providers() []providers.Adapter {
	return g.adapters
}

// Generate runs the prompt against the selected provider, walking its
// model list on recoverable failures, and returns sanitized menu JSON.
//
// Recoverable failures (move to the next model): unknown model, upstream
// throttling (HTTP 404/429), and replies with no usable text. Everything
// else fails immediately — a second model is unlikely to fix an auth
// error, and silent retries would only mask it. No sleeps, no backoff.
func (g *Gateway) Generate(ctx context.Context, prompt string) (*Result, error) {
	var (
		adapter  providers.Adapter
		models   []string
		modelIdx int
		lastErr  error
	)

	for st := stateSelectProvider; st != stateDone; {
		switch st {
		case stateSelectProvider:
			if len(g.adapters) == 0 {
				return nil, &UnconfiguredError{}
			}
			adapter = g.adapters[0]
			models = adapter.Models()
			modelIdx = 0
			st = stateTryModel

		case stateTryModel:
			model := models[modelIdx]
			start := time.Now()

			raw, err := adapter.Generate(ctx, prompt, model)
			elapsed := time.Since(start)

			if err != nil {
				lastErr = err
				if recoverable(err) {
					g.recordGeneration(adapter.Name(), model, outcomeFor(err), elapsed)
					g.logger.WarnContext(ctx, "model failed, trying next",
						"provider", adapter.Name(),
						"model", model,
						"error", err,
					)
					st = stateNextModel
					continue
				}
				g.recordGeneration(adapter.Name(), model, "error", elapsed)
				return nil, fmt.Errorf("generation failed: %w", err)
			}

			menu, err := sanitize.Sanitize(raw, adapter.Name())
			if err != nil {
				// The model answered but not with JSON. Another model is
				// not retried here: the prompt is the problem, not the
				// model's availability.
				g.recordGeneration(adapter.Name(), model, "error", elapsed)
				return nil, fmt.Errorf("generation failed: %w", err)
			}

			g.recordGeneration(adapter.Name(), model, "success", elapsed)
			g.logger.InfoContext(ctx, "generation succeeded",
				"provider", adapter.Name(),
				"model", model,
				"duration", elapsed,
			)
			return &Result{Menu: menu, Provider: adapter.Name(), Model: model}, nil

		case stateNextModel:
			if g.collector != nil {
				g.collector.RecordFallback(adapter.Name(), models[modelIdx])
			}
			modelIdx++
			if modelIdx >= len(models) {
				st = stateDone
				continue
			}
			st = stateTryModel
		}
	}

	if errors.Is(lastErr, providers.ErrNoContent) {
		return nil, fmt.Errorf("provider %q returned no valid content from any model: %w",
			adapter.Name(), lastErr)
	}
	return nil, fmt.Errorf("provider %q exhausted all models: %w", adapter.Name(), lastErr)
}

// Close closes every adapter.
func (g *Gateway) Close() error {
	var firstErr error
	for _, a := range g.adapters {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (g *Gateway) recordGeneration(provider, model, outcome string, d time.Duration) {
	if g.collector != nil {
		g.collector.RecordGeneration(provider, model, outcome, d)
	}
}

// recoverable reports whether an error should trigger a fallback to the
// next model in the list.
func recoverable(err error) bool {
	var (
		rlErr   *providers.RateLimitError
		mnfErr  *providers.ModelNotFoundError
		provErr *providers.ProviderError
	)

	switch {
	case errors.As(err, &rlErr):
		return true
	case errors.As(err, &mnfErr):
		return true
	case errors.Is(err, providers.ErrNoContent):
		return true
	case errors.As(err, &provErr):
		return provErr.StatusCode == http.StatusNotFound ||
			provErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// outcomeFor labels a recoverable failure for metrics.
func outcomeFor(err error) string {
	if errors.Is(err, providers.ErrNoContent) {
		return "no_content"
	}
	return "error"
}
