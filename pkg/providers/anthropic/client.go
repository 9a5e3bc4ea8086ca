package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"tavola-hq/menugate/pkg/providers"
)

const (
	// DefaultBaseURL is Anthropic's API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// defaultMaxTokens caps the reply length. The Messages API requires an
	// explicit max_tokens; a weekly menu fits well under this.
	defaultMaxTokens = 4096
)

// Client is the Anthropic provider adapter.
// It implements the providers.Adapter interface over Anthropic's
// Messages API.
type Client struct {
	*providers.HTTPClient
}

// NewClient creates a new Anthropic adapter.
func NewClient(config providers.ClientConfig) (*Client, error) {
	if config.Name == "" {
		config.Name = "anthropic"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
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

	slog.Info("anthropic adapter initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"models", config.Models,
	)

	return c, nil
}

// Generate sends a single Messages API request for the given model and
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

	url := fmt.Sprintf("%s/v1/messages", c.Config().BaseURL)
	headers := map[string]string{
		"x-api-key":         c.Config().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}

	req := buildRequest(prompt, model)

	var resp messagesResponse
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
		"tokens", resp.Usage.InputTokens+resp.Usage.OutputTokens,
	)

	return text, nil
}
