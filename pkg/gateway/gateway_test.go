package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"tavola-hq/menugate/pkg/providers"
)

// fakeAdapter scripts per-call results and records the models it was
// asked for.
type fakeAdapter struct {
	name    string
	models  []string
	results map[string]fakeResult
	calls   []string
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeAdapter) Generate(_ context.Context, _, model string) (string, error) {
	f.calls = append(f.calls, model)
	res, ok := f.results[model]
	if !ok {
		return "", &providers.ModelNotFoundError{Provider: f.name, Model: model}
	}
	return res.text, res.err
}

func (f *fakeAdapter) Name() string                { return f.name }
func (f *fakeAdapter) Models() []string            { return f.models }
func (f *fakeAdapter) IsHealthy() bool             { return true }
func (f *fakeAdapter) GetHealth() providers.Health { return providers.Health{IsHealthy: true} }
func (f *fakeAdapter) Close() error                { return nil }

func TestGenerateFirstModelSucceeds(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {text: `{"days": []}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	res, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Provider != "groq" || res.Model != "model-a" {
		t.Errorf("unexpected attribution %s/%s", res.Provider, res.Model)
	}
	if string(res.Menu) != `{"days": []}` {
		t.Errorf("unexpected menu %q", string(res.Menu))
	}
	if len(adapter.calls) != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", len(adapter.calls))
	}
}

func TestGenerateFallsBackOn404(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.ModelNotFoundError{Provider: "groq", Model: "model-a"}},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	res, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Model != "model-b" {
		t.Errorf("expected fallback to model-b, got %s", res.Model)
	}
	if len(adapter.calls) != 2 || adapter.calls[0] != "model-a" || adapter.calls[1] != "model-b" {
		t.Errorf("expected calls [model-a model-b], got %v", adapter.calls)
	}
}

func TestGenerateFallsBackOnUpstreamRateLimit(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "google",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.RateLimitError{Provider: "google"}},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	res, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Model != "model-b" {
		t.Errorf("expected fallback to model-b, got %s", res.Model)
	}
}

func TestGenerateFallsBackOnProviderError429(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.ProviderError{Provider: "groq", StatusCode: http.StatusTooManyRequests}},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	if _, err := g.Generate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestGenerateFallsBackOnNoContent(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: providers.ErrNoContent},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	res, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Model != "model-b" {
		t.Errorf("expected fallback to model-b, got %s", res.Model)
	}
}

func TestGenerateAuthErrorFailsFast(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.AuthError{Provider: "groq", Message: "bad key"}},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	_, err := g.Generate(context.Background(), "prompt")

	var authErr *providers.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if len(adapter.calls) != 1 {
		t.Errorf("auth failure must not trigger fallback: expected 1 call, got %d", len(adapter.calls))
	}
}

func TestGenerateServerErrorFailsFast(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.ProviderError{Provider: "groq", StatusCode: 500}},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(adapter.calls) != 1 {
		t.Errorf("5xx must not trigger fallback: expected 1 call, got %d", len(adapter.calls))
	}
}

func TestGenerateAllModelsExhausted(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.ModelNotFoundError{Provider: "groq", Model: "model-a"}},
			"model-b": {err: &providers.ModelNotFoundError{Provider: "groq", Model: "model-b"}},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error after exhausting all models")
	}
	if !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("expected exhaustion message, got %q", err.Error())
	}
	if len(adapter.calls) != 2 {
		t.Errorf("expected one call per model, got %d", len(adapter.calls))
	}
}

func TestGenerateNoValidContentWhenAllEmpty(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "anthropic",
		models: []string{"model-a"},
		results: map[string]fakeResult{
			"model-a": {err: providers.ErrNoContent},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no valid content") {
		t.Errorf("expected no-valid-content message, got %q", err.Error())
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	g := NewWithAdapters(nil, nil)

	_, err := g.Generate(context.Background(), "prompt")

	var uErr *UnconfiguredError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected UnconfiguredError, got %v", err)
	}
	for _, name := range []string{"GROQ_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %s in message, got %q", name, err.Error())
		}
	}
}

func TestGenerateOnlyHighestPriorityProviderUsed(t *testing.T) {
	primary := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a"},
		results: map[string]fakeResult{
			"model-a": {err: &providers.AuthError{Provider: "groq"}},
		},
	}
	secondary := &fakeAdapter{
		name:   "google",
		models: []string{"model-x"},
		results: map[string]fakeResult{
			"model-x": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{primary, secondary}, nil)

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected primary provider's failure to propagate")
	}
	if len(secondary.calls) != 0 {
		t.Errorf("secondary provider must never be called, got %d calls", len(secondary.calls))
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a"},
		results: map[string]fakeResult{
			"model-a": {text: "```json\n{\"days\": [1]}\n```"},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	res, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if string(res.Menu) != `{"days": [1]}` {
		t.Errorf("expected fences stripped, got %q", string(res.Menu))
	}
}

func TestGenerateNonJSONReplyFailsWithoutFallback(t *testing.T) {
	adapter := &fakeAdapter{
		name:   "groq",
		models: []string{"model-a", "model-b"},
		results: map[string]fakeResult{
			"model-a": {text: "Sure! Here is a menu for your family..."},
			"model-b": {text: `{"ok": true}`},
		},
	}

	g := NewWithAdapters([]providers.Adapter{adapter}, nil)

	_, err := g.Generate(context.Background(), "prompt")

	var parseErr *providers.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(adapter.calls) != 1 {
		t.Errorf("sanitize failure must not trigger fallback: expected 1 call, got %d", len(adapter.calls))
	}
}
