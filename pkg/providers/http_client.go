package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// HTTPClient is the base implementation for HTTP-based provider adapters.
// It provides connection pooling, per-call timeout handling, typed error
// mapping, and health bookkeeping.
//
// HTTPClient performs exactly one attempt per call. A failed upstream call
// surfaces immediately so the caller can move to the next model or provider;
// sleeping inside the adapter would only hold the request slot while the
// client waits.
//
// Concrete adapters (groq, google, anthropic) embed this struct and
// implement the Adapter interface on top of DoJSONRequest.
type HTTPClient struct {
	// config contains the adapter configuration
	config ClientConfig

	// client is the HTTP client with connection pooling
	client *http.Client

	// health tracks the adapter's health status
	health Health

	// healthMu protects concurrent access to health status
	healthMu sync.RWMutex
}

// NewHTTPClient creates a new base HTTP client with connection pooling.
func NewHTTPClient(config ClientConfig) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	return &HTTPClient{
		config: config,
		client: client,
		health: Health{
			IsHealthy:             true, // Start optimistic
			LastCheck:             time.Now(),
			LastSuccessfulRequest: time.Now(),
		},
	}
}

// Name returns the adapter's provider label.
func (c *HTTPClient) Name() string {
	return c.config.Name
}

// Models returns the ordered model fallback list.
func (c *HTTPClient) Models() []string {
	return c.config.Models
}

// Config returns the adapter's configuration.
func (c *HTTPClient) Config() ClientConfig {
	return c.config
}

// IsHealthy returns the current health status.
func (c *HTTPClient) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health.IsHealthy
}

// GetHealth returns detailed health information.
func (c *HTTPClient) GetHealth() Health {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health
}

// updateHealth updates the adapter's health status after a request.
func (c *HTTPClient) updateHealth(success bool, err error) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	c.health.LastCheck = time.Now()
	c.health.TotalRequests++

	if success {
		c.health.IsHealthy = true
		c.health.ConsecutiveFailures = 0
		c.health.LastError = nil
		c.health.LastSuccessfulRequest = time.Now()
		return
	}

	c.health.FailedRequests++
	c.health.ConsecutiveFailures++
	c.health.LastError = err

	if c.health.ConsecutiveFailures >= 3 {
		c.health.IsHealthy = false
		slog.Warn("provider marked unhealthy",
			"provider", c.config.Name,
			"consecutive_failures", c.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// DoRequest performs a single HTTP request and maps non-2xx responses to
// typed errors. It never retries.
func (c *HTTPClient) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider", c.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			c.updateHealth(false, ctx.Err())
			return nil, &TimeoutError{
				Provider: c.config.Name,
				Timeout:  c.config.Timeout,
			}
		}
		wrapped := &ProviderError{
			Provider: c.config.Name,
			Message:  "request failed",
			Cause:    err,
		}
		c.updateHealth(false, wrapped)
		return nil, wrapped
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.updateHealth(true, nil)
		return resp, nil
	}

	errorBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		authErr := &AuthError{
			Provider: c.config.Name,
			Message:  string(errorBody),
		}
		c.updateHealth(false, authErr)
		return nil, authErr

	case http.StatusTooManyRequests:
		// Upstream throttling is not an adapter health problem; the
		// caller decides whether to fall back to another model.
		return nil, &RateLimitError{
			Provider:   c.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}

	default:
		provErr := &ProviderError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
		if resp.StatusCode >= 500 {
			c.updateHealth(false, provErr)
		}
		return nil, provErr
	}
}

// DoJSONRequest performs a JSON request and decodes the response.
func (c *HTTPClient) DoJSONRequest(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := c.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: c.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    c.config.Name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close closes idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", c.config.Name)
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
