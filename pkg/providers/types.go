package providers

import "time"

// ClientConfig holds the settings shared by all HTTP-based adapters.
type ClientConfig struct {
	// Name is the provider label ("groq", "google", "anthropic")
	Name string

	// BaseURL is the provider's API endpoint
	BaseURL string

	// APIKey is the provider credential, read from the environment by the
	// caller. Never logged.
	APIKey string

	// Models is the ordered model fallback list
	Models []string

	// Timeout is the per-call timeout for upstream requests
	Timeout time.Duration

	// Connection pool settings
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Health describes an adapter's recent request outcomes.
type Health struct {
	// IsHealthy is false after 3 consecutive failures
	IsHealthy bool

	// LastCheck is when health was last updated
	LastCheck time.Time

	// ConsecutiveFailures counts failures since the last success
	ConsecutiveFailures int

	// LastError is the most recent failure (nil when healthy)
	LastError error

	// LastSuccessfulRequest is when the adapter last succeeded
	LastSuccessfulRequest time.Time

	// TotalRequests counts all upstream attempts
	TotalRequests int64

	// FailedRequests counts failed upstream attempts
	FailedRequests int64
}
