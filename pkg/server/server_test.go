package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"tavola-hq/menugate/pkg/config"
	"tavola-hq/menugate/pkg/proxy/types"
)

// unsetEnv removes a variable for the test and restores it afterwards.
// t.Setenv cannot unset, and provider candidacy is presence-based.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if v, ok := os.LookupEnv(key); ok {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, v) })
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	unsetEnv(t, config.EnvGroqAPIKey)
	unsetEnv(t, config.EnvGoogleAPIKey)
	unsetEnv(t, config.EnvAnthropicAPIKey)

	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	s, err := NewServer(cfg, "")
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.gateway.Close()
		_ = s.limiter.Close()
	})
	return s
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp types.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-menu",
		strings.NewReader(`{"prompt":"plan a week of family dinners"}`))
	req.RemoteAddr = "203.0.113.5:1234"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body: %s)", rec.Code, rec.Body.String())
	}
	var env types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Kind != types.KindSystem {
		t.Errorf("kind = %s, want SYSTEM", env.Kind)
	}
	for _, v := range []string{config.EnvGroqAPIKey, config.EnvGoogleAPIKey, config.EnvAnthropicAPIKey} {
		if !strings.Contains(env.Message, v) {
			t.Errorf("message %q missing %s", env.Message, v)
		}
	}
}

func TestGenerateCarriesRateLimitHeaders(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-menu",
		strings.NewReader(`{"prompt":"plan a week of family dinners"}`))
	req.RemoteAddr = "203.0.113.5:1234"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-RateLimit-Limit"); got == "" {
		t.Error("missing X-RateLimit-Limit header")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got == "" {
		t.Error("missing X-RateLimit-Remaining header")
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGenerateBlockedAtLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Limits.MaxRequests = 1
	})
	handler := s.Handler()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-menu",
			strings.NewReader(`{"prompt":"plan a week of family dinners"}`))
		req.RemoteAddr = "203.0.113.5:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 1 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("second request status = %d, want 429", rec.Code)
			}
			var env types.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("failed to decode envelope: %v", err)
			}
			if env.Kind != types.KindRateLimit {
				t.Errorf("kind = %s, want RATE_LIMIT", env.Kind)
			}
			if env.RetryAfter < 1 {
				t.Errorf("retryAfter = %d, want >= 1", env.RetryAfter)
			}
		}
	}
}

func TestHealthIsNotRateLimited(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Limits.MaxRequests = 1
	})
	handler := s.Handler()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestLimitsEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.Handler()

	for path, field := range map[string]string{
		"/api/limits/metrics": "blockRate",
		"/api/limits/stats":   "totalKeys",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: failed to decode: %v", path, err)
		}
		if _, ok := body[field]; !ok {
			t.Errorf("%s: missing %s field", path, field)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Telemetry.Metrics.Enabled = false
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when metrics disabled", rec.Code)
	}
}

func TestProvidersHealthEndpointEmpty(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/providers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []types.ProviderHealth
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d providers, want 0", len(out))
	}
}

func TestCORSPreflightOnGenerate(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-menu", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}
