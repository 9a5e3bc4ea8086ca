// Package providers contains test doubles for the upstream LLM provider
// APIs. It is internal so test helpers never leak into the public surface.
package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a mock HTTP server for testing provider adapters.
// It records received requests and serves configured responses per path.
type MockServer struct {
	server       *httptest.Server
	responses    map[string]MockResponse
	requestCount int
	lastHeaders  http.Header
	lastBody     []byte
	mu           sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific endpoint path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns the number of requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount
}

// LastHeader returns a header value from the most recent request.
func (ms *MockServer) LastHeader(key string) string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.lastHeaders == nil {
		return ""
	}
	return ms.lastHeaders.Get(key)
}

// LastBody returns the body of the most recent request.
func (ms *MockServer) LastBody() []byte {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.lastBody
}

// handler handles incoming HTTP requests.
func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requestCount++
	ms.lastHeaders = r.Header.Clone()
	ms.lastBody = body
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// MockGroqResponse creates a mock Groq (OpenAI-compatible) chat completion
// response.
func MockGroqResponse(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockGeminiResponse creates a mock Gemini generateContent response.
func MockGeminiResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]interface{}{
			"promptTokenCount":     10,
			"candidatesTokenCount": 20,
			"totalTokenCount":      30,
		},
	}
}

// MockAnthropicResponse creates a mock Anthropic messages response.
func MockAnthropicResponse(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": content,
			},
		},
		"model":       model,
		"stop_reason": "end_turn",
		"usage": map[string]interface{}{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

// MockErrorResponse creates a mock error response.
func MockErrorResponse(statusCode int, message string) MockResponse {
	body := map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    "invalid_request_error",
			"code":    statusCode,
		},
	}

	return MockResponse{
		StatusCode: statusCode,
		Body:       body,
	}
}

// MockAuthError creates a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "Invalid API key")
}

// MockRateLimitError creates a 429 rate limit error response.
func MockRateLimitError(retryAfter int) MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded")
	response.Headers = map[string]string{
		"Retry-After": fmt.Sprintf("%d", retryAfter),
	}
	return response
}

// MockModelNotFoundError creates a 404 unknown model error response.
func MockModelNotFoundError(model string) MockResponse {
	return MockErrorResponse(http.StatusNotFound, fmt.Sprintf("model %q does not exist", model))
}

// MockServerError creates a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "Internal server error")
}
