package providers

import "context"

// Adapter is the interface implemented by every LLM provider adapter
// (Groq, Google, Anthropic). It hides provider-specific request and
// response shapes behind a single text-in, text-out operation.
//
// Adapters perform exactly one upstream attempt per Generate call: no
// retries, no backoff. Model fallback is the caller's responsibility so
// that fallback decisions stay observable in one place.
type Adapter interface {
	// Generate sends a single generation request for the given model and
	// returns the raw text of the model's reply. The returned string is
	// not sanitized; callers run it through the sanitizer before trusting
	// it as JSON.
	//
	// Errors are typed: *AuthError for credential rejection, *RateLimitError
	// for upstream 429s, *ModelNotFoundError for unknown models,
	// *TimeoutError when the per-call timeout fires, *ParseError for
	// malformed response bodies, and *ProviderError for everything else.
	Generate(ctx context.Context, prompt, model string) (string, error)

	// Name returns the adapter's provider label ("groq", "google",
	// "anthropic"). The label appears in logs, error envelopes, and
	// response metadata.
	Name() string

	// Models returns the ordered model fallback list for this provider.
	// The first entry is the preferred model.
	Models() []string

	// IsHealthy returns the adapter's current health status based on
	// recent request outcomes.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() Health

	// Close releases the adapter's resources (idle HTTP connections).
	Close() error
}
