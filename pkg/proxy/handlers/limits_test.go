package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tavola-hq/menugate/pkg/limits/ratelimit"
)

type fakeMetricsReader struct {
	m ratelimit.Metrics
	s ratelimit.Stats
}

func (f *fakeMetricsReader) Metrics() ratelimit.Metrics { return f.m }
func (f *fakeMetricsReader) Stats() ratelimit.Stats     { return f.s }

func TestLimitsMetrics(t *testing.T) {
	h := NewLimitsHandler(&fakeMetricsReader{m: ratelimit.Metrics{
		ActiveClients:   2,
		TotalRequests:   4,
		BlockedRequests: 1,
		BlockRate:       "25%",
		BlockedKeys:     1,
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/limits/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got ratelimit.Metrics
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.ActiveClients != 2 || got.TotalRequests != 4 || got.BlockedRequests != 1 {
		t.Errorf("metrics = %+v", got)
	}
	if got.BlockRate != "25%" {
		t.Errorf("blockRate = %q, want 25%%", got.BlockRate)
	}
	if got.BlockedKeys != 1 {
		t.Errorf("blockedKeys = %d, want 1", got.BlockedKeys)
	}
}

func TestLimitsStats(t *testing.T) {
	h := NewLimitsHandler(&fakeMetricsReader{s: ratelimit.Stats{
		TotalKeys:     3,
		ActiveRecords: 2,
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/limits/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got ratelimit.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.TotalKeys != 3 || got.ActiveRecords != 2 {
		t.Errorf("stats = %+v, want totalKeys 3, activeRecords 2", got)
	}
}
