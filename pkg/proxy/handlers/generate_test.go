package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tavola-hq/menugate/pkg/gateway"
	"tavola-hq/menugate/pkg/providers"
	"tavola-hq/menugate/pkg/proxy/types"
)

type fakeGenerator struct {
	result *gateway.Result
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (*gateway.Result, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func postGenerate(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-menu", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var env types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode error envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{result: &gateway.Result{
		Menu:     json.RawMessage(`{"days":[]}`),
		Provider: "groq",
		Model:    "llama-3.3-70b-versatile",
	}}
	h := NewGenerateHandler(gen)

	rec := postGenerate(t, h, `{"prompt":"plan a week of vegetarian dinners"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	// The body is the menu object itself, not a wrapper around it.
	var menu struct {
		Days []any `json:"days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &menu); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"days":[]}` {
		t.Errorf("body = %s, want {\"days\":[]}", rec.Body.String())
	}
	if got := rec.Header().Get(ProviderHeader); got != "groq" {
		t.Errorf("%s = %q, want groq", ProviderHeader, got)
	}
	if got := rec.Header().Get(ModelHeader); got != "llama-3.3-70b-versatile" {
		t.Errorf("%s = %q, want llama-3.3-70b-versatile", ModelHeader, got)
	}
	if gen.prompt != "plan a week of vegetarian dinners" {
		t.Errorf("prompt forwarded = %q", gen.prompt)
	}
}

func TestGenerateRejectsNonPost(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{})
	req := httptest.NewRequest(http.MethodGet, "/api/generate-menu", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gen)

	rec := postGenerate(t, h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Kind != types.KindValidation {
		t.Errorf("kind = %s, want VALIDATION", env.Kind)
	}
	if gen.calls != 0 {
		t.Errorf("gateway called %d times for malformed body", gen.calls)
	}
}

func TestGenerateRejectsShortPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewGenerateHandler(gen)

	rec := postGenerate(t, h, `{"prompt":"too small"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Kind != types.KindValidation {
		t.Errorf("kind = %s, want VALIDATION", env.Kind)
	}
	if !strings.Contains(env.Message, "too short") {
		t.Errorf("message = %q, want mention of too short", env.Message)
	}
	if gen.calls != 0 {
		t.Errorf("gateway called %d times for invalid prompt", gen.calls)
	}
}

func TestGenerateRejectsOversizedPrompt(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{})
	long := strings.Repeat("a", types.MaxPromptLength+1)

	body, _ := json.Marshal(types.GenerateRequest{Prompt: long})
	rec := postGenerate(t, h, string(body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Message, "too large") {
		t.Errorf("message = %q, want mention of too large", env.Message)
	}
}

func TestGenerateUnconfiguredNamesEnvVars(t *testing.T) {
	gen := &fakeGenerator{err: &gateway.UnconfiguredError{}}
	h := NewGenerateHandler(gen)

	rec := postGenerate(t, h, `{"prompt":"plan a week of vegetarian dinners"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Kind != types.KindSystem {
		t.Errorf("kind = %s, want SYSTEM", env.Kind)
	}
	for _, v := range []string{"GROQ_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY"} {
		if !strings.Contains(env.Message, v) {
			t.Errorf("message %q missing env var %s", env.Message, v)
		}
	}
}

func TestGenerateUpstreamFailureIsBadGateway(t *testing.T) {
	gen := &fakeGenerator{err: &providers.ProviderError{
		Provider: "groq", StatusCode: 500, Message: "internal upstream error",
	}}
	h := NewGenerateHandler(gen)

	rec := postGenerate(t, h, `{"prompt":"plan a week of vegetarian dinners"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Kind != types.KindAPI {
		t.Errorf("kind = %s, want API", env.Kind)
	}
	if strings.Contains(env.Message, "internal upstream error") {
		t.Errorf("upstream message leaked to client: %q", env.Message)
	}
}
