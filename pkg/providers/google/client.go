package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"tavola-hq/menugate/pkg/providers"
)

// DefaultBaseURL is the Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client is the Google Gemini provider adapter.
// It implements the providers.Adapter interface over the generateContent
// API. Authentication uses a key query parameter rather than a header.
type Client struct {
	*providers.HTTPClient
}

// NewClient creates a new Gemini adapter.
func NewClient(config providers.ClientConfig) (*Client, error) {
	if config.Name == "" {
		config.Name = "google"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Gemini",
		}
	}
	if len(config.Models) == 0 {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "models",
			Message:  "model fallback list must not be empty",
		}
	}

	c := &Client{
		HTTPClient: providers.NewHTTPClient(config),
	}

	slog.Info("gemini adapter initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"models", config.Models,
	)

	return c, nil
}

// Generate sends a single generateContent request for the given model and
// returns the raw reply text.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	if prompt == "" {
		return "", &providers.ValidationError{
			Field:   "prompt",
			Message: "prompt cannot be empty",
		}
	}
	if model == "" {
		return "", &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	// The key travels as a query parameter; keep it out of logged URLs.
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.Config().BaseURL, url.PathEscape(model), url.QueryEscape(c.Config().APIKey))

	req := buildRequest(prompt)

	var resp generateResponse
	if err := c.DoJSONRequest(ctx, http.MethodPost, endpoint, req, &resp, nil); err != nil {
		var provErr *providers.ProviderError
		if errors.As(err, &provErr) {
			switch provErr.StatusCode {
			case http.StatusNotFound:
				return "", &providers.ModelNotFoundError{Provider: c.Name(), Model: model}
			case http.StatusBadRequest:
				// Gemini reports both invalid keys and unknown models as
				// 400 with a structured status; distinguish them.
				if isInvalidKeyBody(provErr.Message) {
					return "", &providers.AuthError{Provider: c.Name(), Message: provErr.Message}
				}
			}
		}
		return "", err
	}

	text, err := extractText(&resp)
	if err != nil {
		return "", &providers.ParseError{
			Provider: c.Name(),
			Cause:    err,
		}
	}

	slog.DebugContext(ctx, "generation succeeded",
		"provider", c.Name(),
		"model", model,
		"tokens", resp.UsageMetadata.TotalTokenCount,
	)

	return text, nil
}
