package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordGeneration(t *testing.T) {
	c := NewCollector(true)

	c.RecordGeneration("groq", "model-a", "success", 500*time.Millisecond)
	c.RecordGeneration("groq", "model-a", "success", time.Second)
	c.RecordGeneration("groq", "model-b", "error", 100*time.Millisecond)

	if got := testutil.ToFloat64(c.generations.WithLabelValues("groq", "model-a", "success")); got != 2 {
		t.Errorf("success counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.generations.WithLabelValues("groq", "model-b", "error")); got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
}

func TestRecordLimitCheck(t *testing.T) {
	c := NewCollector(true)

	c.RecordLimitCheck(true)
	c.RecordLimitCheck(true)
	c.RecordLimitCheck(false)

	if got := testutil.ToFloat64(c.limitChecks.WithLabelValues("allowed")); got != 2 {
		t.Errorf("allowed counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.limitChecks.WithLabelValues("blocked")); got != 1 {
		t.Errorf("blocked counter = %v, want 1", got)
	}
}

func TestDisabledCollectorIsNoop(t *testing.T) {
	c := NewCollector(false)

	// Must not panic, and the registry must stay empty.
	c.RecordGeneration("groq", "model-a", "success", time.Second)
	c.RecordFallback("groq", "model-a")
	c.RecordLimitCheck(false)
	c.SetActiveRecords(5)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) != 0 {
		t.Errorf("disabled registry has %d metric families, want 0", len(families))
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	c := NewCollector(true)
	c.RecordFallback("groq", "model-a")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "menugate_model_fallbacks_total") {
		t.Error("scrape output missing menugate_model_fallbacks_total")
	}
}
