package config

import "time"

// Default values for all configuration sections.
const (
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1MB

	DefaultCORSMaxAge = 3600

	DefaultProviderTimeout     = 45 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	DefaultLimitWindow      = time.Hour
	DefaultMaxRequests      = 20
	DefaultSweepSchedule    = "*/30 * * * *"
	DefaultSnapshotBackend  = "memory"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsPath      = "/metrics"
)

// DefaultModels holds the per-provider model fallback lists used when the
// configuration file does not override them. Order matters: earlier models
// are preferred, later ones are fallbacks for 404/429 or empty replies.
var DefaultModels = map[string][]string{
	"groq":      {"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
	"google":    {"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"},
	"anthropic": {"claude-3-5-haiku-20241022"},
}

// ApplyDefaults fills in default values for any zero-valued configuration
// fields. It is called automatically by LoadConfig.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Provider defaults
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = DefaultProviderTimeout
	}
	if cfg.Providers.MaxIdleConns == 0 {
		cfg.Providers.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Providers.MaxIdleConnsPerHost == 0 {
		cfg.Providers.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Providers.IdleConnTimeout == 0 {
		cfg.Providers.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if len(cfg.Providers.Groq.Models) == 0 {
		cfg.Providers.Groq.Models = DefaultModels["groq"]
	}
	if len(cfg.Providers.Google.Models) == 0 {
		cfg.Providers.Google.Models = DefaultModels["google"]
	}
	if len(cfg.Providers.Anthropic.Models) == 0 {
		cfg.Providers.Anthropic.Models = DefaultModels["anthropic"]
	}

	// Limits defaults
	if cfg.Limits.Window == 0 {
		cfg.Limits.Window = DefaultLimitWindow
	}
	if cfg.Limits.MaxRequests == 0 {
		cfg.Limits.MaxRequests = DefaultMaxRequests
	}
	if cfg.Limits.SweepSchedule == "" {
		cfg.Limits.SweepSchedule = DefaultSweepSchedule
	}
	if cfg.Limits.Snapshot.Backend == "" {
		cfg.Limits.Snapshot.Backend = DefaultSnapshotBackend
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// NewDefaultConfig returns a configuration with all default values applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
