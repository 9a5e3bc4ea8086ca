package types

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MinPromptLength is the minimum prompt length in characters.
	MinPromptLength = 10

	// MaxPromptLength is the maximum prompt length in characters. Bounds
	// memory per request and keeps upstream token costs sane.
	MaxPromptLength = 50000
)

// GenerateRequest is the body of POST /api/generate-menu.
type GenerateRequest struct {
	// Prompt is the menu-generation prompt forwarded to the provider.
	Prompt string `json:"prompt"`
}

// Validate checks the prompt bounds. Length is measured in characters
// (runes), not bytes, so multi-byte scripts are not penalized.
func (r *GenerateRequest) Validate() error {
	n := utf8.RuneCountInString(r.Prompt)
	if n < MinPromptLength {
		return NewError(KindValidation,
			fmt.Sprintf("prompt is too short: must be at least %d characters, got %d", MinPromptLength, n))
	}
	if n > MaxPromptLength {
		return NewError(KindValidation,
			fmt.Sprintf("prompt is too large: must be at most %d characters, got %d", MaxPromptLength, n))
	}
	return nil
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProviderHealth is one adapter's entry in GET /api/health/providers.
type ProviderHealth struct {
	Provider            string `json:"provider"`
	Healthy             bool   `json:"healthy"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	TotalRequests       int64  `json:"totalRequests"`
	FailedRequests      int64  `json:"failedRequests"`
}
