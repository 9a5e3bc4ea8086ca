// Package types defines the wire types of the HTTP API: the request and
// response bodies of the generation endpoint and the error envelope every
// failure is reduced to.
package types

import "net/http"

// Kind categorizes an error for clients. Every error leaving the server
// carries exactly one kind.
type Kind string

const (
	// KindAPI is an upstream provider failure (bad gateway).
	KindAPI Kind = "API"

	// KindValidation is a client-side request error.
	KindValidation Kind = "VALIDATION"

	// KindRateLimit means the client exceeded its request allowance.
	KindRateLimit Kind = "RATE_LIMIT"

	// KindSystem is a server-side configuration or internal fault.
	KindSystem Kind = "SYSTEM"

	// KindUnknown covers everything the classifier could not place.
	KindUnknown Kind = "UNKNOWN"
)

// ErrorEnvelope is the JSON error body returned for every failure.
type ErrorEnvelope struct {
	// Message is the user-safe error description.
	Message string `json:"error"`

	// Kind is the error category.
	Kind Kind `json:"kind"`

	// RetryAfter is the whole seconds a rate-limited client must wait.
	// Only set for KindRateLimit.
	RetryAfter int `json:"retryAfter,omitempty"`

	// status overrides the kind's default HTTP status when non-zero.
	status int
}

// Error implements the error interface so an envelope can travel through
// error returns and be recognized by the classifier unchanged.
func (e *ErrorEnvelope) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// WithStatus returns the envelope with an explicit HTTP status that wins
// over the kind's default.
func (e *ErrorEnvelope) WithStatus(status int) *ErrorEnvelope {
	e.status = status
	return e
}

// HTTPStatus returns the explicit status if set, otherwise the kind's
// default from the taxonomy table.
func (e *ErrorEnvelope) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindAPI:
		return http.StatusBadGateway
	case KindSystem:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates an envelope with the kind's default status.
func NewError(kind Kind, message string) *ErrorEnvelope {
	return &ErrorEnvelope{Kind: kind, Message: message}
}

// NewRateLimitError creates a RATE_LIMIT envelope with a retry hint.
func NewRateLimitError(message string, retryAfterSeconds int) *ErrorEnvelope {
	return &ErrorEnvelope{
		Kind:       KindRateLimit,
		Message:    message,
		RetryAfter: retryAfterSeconds,
	}
}
