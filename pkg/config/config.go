package config

import "time"

// Config is the root configuration structure for Menugate.
// It contains all configuration sections for the HTTP server, provider
// adapters, rate limiting, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Providers contains configuration shared by and specific to the LLM
	// provider adapters. Credentials are never read from this file; they
	// come exclusively from environment variables.
	Providers ProvidersConfig `yaml:"providers"`

	// Limits contains configuration for per-client rate limiting.
	Limits LimitsConfig `yaml:"limits"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must be long enough to cover a full model-fallback walk
	// against the slowest provider.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are dropped.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration for browser clients.
//
// Localhost origins and requests without an Origin header (non-browser
// clients) are always allowed regardless of the allow-list.
type CORSConfig struct {
	// AllowedOrigins is the fixed allow-list of origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowCredentials controls whether credentials (cookies, auth
	// headers) are allowed in CORS requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`

	// MaxAge is the maximum age in seconds for preflight request caching.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// ProvidersConfig contains configuration for the provider adapters.
type ProvidersConfig struct {
	// Timeout is the per-upstream-call timeout applied to every provider
	// request. A hung upstream must not be able to hold a request slot
	// longer than this.
	// Default: 45s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections in the
	// HTTP connection pool of each adapter.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection remains in the pool.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`

	// Groq, Google, and Anthropic allow per-provider overrides of the
	// base URL and model fallback list. Base URL overrides exist mainly
	// for tests and self-hosted gateways.
	Groq      ProviderConfig `yaml:"groq"`
	Google    ProviderConfig `yaml:"google"`
	Anthropic ProviderConfig `yaml:"anthropic"`
}

// ProviderConfig contains per-provider overrides.
type ProviderConfig struct {
	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`

	// Models is the ordered model fallback list. The first entry is tried
	// first; later entries are only used when an earlier model is
	// unavailable (HTTP 404/429) or returns no content.
	Models []string `yaml:"models"`
}

// LimitsConfig contains configuration for per-client rate limiting.
type LimitsConfig struct {
	// Window is the fixed time window during which a client's request
	// count accumulates before resetting.
	// Default: 1h
	Window time.Duration `yaml:"window"`

	// MaxRequests is the number of requests a client may make per window.
	// Default: 20
	MaxRequests int `yaml:"max_requests"`

	// SweepSchedule is the cron expression for the periodic cleanup sweep
	// that deletes expired records. It should fire less often than the
	// window length resets records but often enough to bound memory
	// growth.
	// Default: "*/30 * * * *" (every 30 minutes)
	SweepSchedule string `yaml:"sweep_schedule"`

	// Snapshot configures optional persistence of live rate-limit records
	// across restarts. This only smooths restarts of a single instance;
	// horizontally scaled instances keep independent rate-limit views.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig configures rate-limit record persistence.
type SnapshotConfig struct {
	// Backend selects the storage backend: "memory" (no persistence) or
	// "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path. Required when Backend is
	// "sqlite".
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// Credential environment variables. Presence (not value) of a variable makes
// the corresponding provider a candidate for selection.
const (
	EnvGroqAPIKey      = "GROQ_API_KEY"
	EnvGoogleAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)
