package groq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"tavola-hq/menugate/pkg/providers"
)

// DefaultBaseURL is Groq's API endpoint. Groq exposes an OpenAI-compatible
// surface under the /openai prefix.
const DefaultBaseURL = "https://api.groq.com"

// Client is the Groq provider adapter.
// It implements the providers.Adapter interface over Groq's
// OpenAI-compatible chat completions API.
type Client struct {
	*providers.HTTPClient
}

// NewClient creates a new Groq adapter.
func NewClient(config providers.ClientConfig) (*Client, error) {
	if config.Name == "" {
		config.Name = "groq"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Groq",
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

	slog.Info("groq adapter initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"models", config.Models,
	)

	return c, nil
}

// Generate sends a single chat completion request for the given model and
// returns the raw reply text.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	if err := validateGenerate(prompt, model); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/openai/v1/chat/completions", c.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + c.Config().APIKey,
		"Content-Type":  "application/json",
	}

	req := buildRequest(prompt, model)

	var resp chatResponse
	if err := c.DoJSONRequest(ctx, http.MethodPost, url, req, &resp, headers); err != nil {
		var provErr *providers.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode == http.StatusNotFound {
			return "", &providers.ModelNotFoundError{Provider: c.Name(), Model: model}
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
		"tokens", resp.Usage.TotalTokens,
	)

	return text, nil
}

func validateGenerate(prompt, model string) error {
	if prompt == "" {
		return &providers.ValidationError{
			Field:   "prompt",
			Message: "prompt cannot be empty",
		}
	}
	if model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}
	return nil
}
