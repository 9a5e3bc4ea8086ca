package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &ProviderError{
		Provider: "groq",
		Message:  "request failed",
		Cause:    cause,
	}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "groq") {
		t.Errorf("expected provider name in message, got %q", err.Error())
	}
}

func TestProviderErrorStatusCodeInMessage(t *testing.T) {
	err := &ProviderError{Provider: "google", StatusCode: 503, Message: "overloaded"}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status code in message, got %q", err.Error())
	}
}

func TestRateLimitErrorRetryAfter(t *testing.T) {
	err := &RateLimitError{Provider: "groq", RetryAfter: 30 * time.Second}
	if !strings.Contains(err.Error(), "30s") {
		t.Errorf("expected retry-after in message, got %q", err.Error())
	}
}

func TestTypedErrorsDispatchWithErrorsAs(t *testing.T) {
	var (
		authErr *AuthError
		rlErr   *RateLimitError
		mnfErr  *ModelNotFoundError
	)

	wrapped := fmt.Errorf("generation failed: %w", &AuthError{Provider: "anthropic"})
	if !errors.As(wrapped, &authErr) {
		t.Error("expected AuthError through wrap")
	}

	var err error = &RateLimitError{Provider: "groq"}
	if !errors.As(err, &rlErr) {
		t.Error("expected RateLimitError")
	}
	if errors.As(err, &mnfErr) {
		t.Error("did not expect ModelNotFoundError")
	}
}
