// Menugate is a request-gating gateway for LLM menu generation.
//
// It sits between a meal-planning frontend and the LLM providers,
// providing:
//   - Per-client rate limiting with operator-visible metrics
//   - Provider selection by credential presence (Groq, Google, Anthropic)
//   - Per-provider model fallback on transient upstream failures
//   - Response sanitization down to strict JSON
//   - A uniform client-facing error taxonomy
//
// Usage:
//
//	# Start the server with default configuration
//	menugate run
//
//	# Start with a custom configuration file
//	menugate run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	menugate validate
//
//	# Show version information
//	menugate version
package main

func main() {
	Execute()
}
