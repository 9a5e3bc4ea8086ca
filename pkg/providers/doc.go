// Package providers defines the adapter abstraction for upstream LLM
// providers and the shared HTTP plumbing behind it.
//
// Each supported provider lives in its own subpackage (groq, google,
// anthropic) and exposes the same Adapter interface: one prompt in, one
// raw text reply out. Provider-specific request envelopes, authentication
// schemes, and response shapes stay inside the subpackages.
//
// Adapters never retry. A 404 or 429 from upstream comes back as a typed
// error and the gateway decides whether to try the next model.
package providers
