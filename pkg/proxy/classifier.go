// Package proxy implements the HTTP surface of the gateway: client
// identification, error classification, and response writing. Handlers
// and middleware live in subpackages.
package proxy

import (
	"context"
	"errors"
	"strings"

	"tavola-hq/menugate/pkg/gateway"
	"tavola-hq/menugate/pkg/providers"
	"tavola-hq/menugate/pkg/proxy/types"
)

// Canned per-kind messages used when an error's own text is not safe to
// show a client.
const (
	msgAPI       = "The menu service is temporarily unavailable. Please try again."
	msgRateLimit = "Too many requests. Please wait before trying again."
	msgSystem    = "The server is not configured correctly. Please contact the operator."
	msgUnknown   = "An unexpected error occurred. Please try again."
)

// Classify reduces any error to a client-facing envelope.
//
// Precedence: an error that already is an envelope passes through
// unchanged; then typed provider and gateway errors; then lowercase
// keyword buckets over the error text; finally UNKNOWN. Raw internal
// messages never reach the client for API, SYSTEM, or UNKNOWN kinds —
// they may carry URLs, credentials, or upstream response bodies.
func Classify(err error) *types.ErrorEnvelope {
	if err == nil {
		return nil
	}

	// Explicit envelopes win outright.
	var envelope *types.ErrorEnvelope
	if errors.As(err, &envelope) {
		return envelope
	}

	if env := classifyTyped(err); env != nil {
		return env
	}

	return classifyKeywords(err)
}

// classifyTyped maps the typed error taxonomy onto envelope kinds.
func classifyTyped(err error) *types.ErrorEnvelope {
	var (
		unconfErr *gateway.UnconfiguredError
		valErr    *providers.ValidationError
		authErr   *providers.AuthError
		rlErr     *providers.RateLimitError
		toErr     *providers.TimeoutError
		parseErr  *providers.ParseError
		mnfErr    *providers.ModelNotFoundError
		provErr   *providers.ProviderError
		cfgErr    *providers.ConfigError
	)

	switch {
	case errors.As(err, &unconfErr):
		// The unconfigured message names env vars, which is exactly what
		// an operator needs; it carries no secrets.
		return types.NewError(types.KindSystem, unconfErr.Error())
	case errors.As(err, &valErr):
		return types.NewError(types.KindValidation, valErr.Error())
	case errors.As(err, &authErr):
		// Our credential was rejected upstream: an operator problem, not
		// a client or provider outage.
		return types.NewError(types.KindSystem, msgSystem)
	case errors.As(err, &cfgErr):
		return types.NewError(types.KindSystem, msgSystem)
	case errors.As(err, &rlErr):
		// Upstream throttled us after all fallbacks; to our client this
		// is an upstream API failure, not their own rate limit.
		return types.NewError(types.KindAPI, msgAPI)
	case errors.As(err, &toErr),
		errors.As(err, &parseErr),
		errors.As(err, &mnfErr),
		errors.As(err, &provErr):
		return types.NewError(types.KindAPI, msgAPI)
	case errors.Is(err, providers.ErrNoContent):
		return types.NewError(types.KindAPI, msgAPI)
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewError(types.KindAPI, msgAPI)
	}

	return nil
}

// classifyKeywords buckets untyped errors by message content. Bucket
// order matters: API tokens are checked first so a message mentioning
// both a provider and "invalid" reads as an upstream failure, not as
// client input to bounce back.
func classifyKeywords(err error) *types.ErrorEnvelope {
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "api", "fetch", "network", "connection", "groq", "gemini", "anthropic", "provider"):
		return types.NewError(types.KindAPI, msgAPI)
	case containsAny(msg, "invalid", "required", "too short", "too large", "too long", "missing field"):
		// Validation wording is written to be user-safe.
		return types.NewError(types.KindValidation, err.Error())
	case containsAny(msg, "rate limit", "too many requests"):
		return types.NewError(types.KindRateLimit, msgRateLimit)
	case containsAny(msg, "config", "credential", "environment", "env var"):
		return types.NewError(types.KindSystem, msgSystem)
	}

	return types.NewError(types.KindUnknown, msgUnknown)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
