package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation failure for a
// specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %q: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns the first error encountered.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateProviders(&cfg.Providers); err != nil {
		return err
	}
	if err := validateLimits(&cfg.Limits); err != nil {
		return err
	}
	return validateTelemetry(&cfg.Telemetry)
}

func validateServer(sc *ServerConfig) error {
	if _, _, err := net.SplitHostPort(sc.ListenAddress); err != nil {
		return &ValidationError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("must be host:port, got %q", sc.ListenAddress),
		}
	}
	if sc.ReadTimeout < 0 || sc.WriteTimeout < 0 || sc.IdleTimeout < 0 {
		return &ValidationError{
			Field:   "server",
			Message: "timeouts must not be negative",
		}
	}
	for _, origin := range sc.CORS.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{
				Field:   "server.cors.allowed_origins",
				Message: fmt.Sprintf("origin %q must be scheme://host", origin),
			}
		}
	}
	return nil
}

func validateProviders(pc *ProvidersConfig) error {
	if pc.Timeout <= 0 {
		return &ValidationError{
			Field:   "providers.timeout",
			Message: "must be positive",
		}
	}
	for name, p := range map[string]*ProviderConfig{
		"groq":      &pc.Groq,
		"google":    &pc.Google,
		"anthropic": &pc.Anthropic,
	} {
		if len(p.Models) == 0 {
			return &ValidationError{
				Field:   "providers." + name + ".models",
				Message: "model fallback list must not be empty",
			}
		}
		for _, m := range p.Models {
			if strings.TrimSpace(m) == "" {
				return &ValidationError{
					Field:   "providers." + name + ".models",
					Message: "model names must not be blank",
				}
			}
		}
		if p.BaseURL != "" {
			u, err := url.Parse(p.BaseURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return &ValidationError{
					Field:   "providers." + name + ".base_url",
					Message: fmt.Sprintf("must be an absolute URL, got %q", p.BaseURL),
				}
			}
		}
	}
	return nil
}

func validateLimits(lc *LimitsConfig) error {
	if lc.Window <= 0 {
		return &ValidationError{
			Field:   "limits.window",
			Message: "must be positive",
		}
	}
	if lc.MaxRequests <= 0 {
		return &ValidationError{
			Field:   "limits.max_requests",
			Message: "must be positive",
		}
	}
	if _, err := cron.ParseStandard(lc.SweepSchedule); err != nil {
		return &ValidationError{
			Field:   "limits.sweep_schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", lc.SweepSchedule, err),
		}
	}
	switch lc.Snapshot.Backend {
	case "memory":
	case "sqlite":
		if lc.Snapshot.Path == "" {
			return &ValidationError{
				Field:   "limits.snapshot.path",
				Message: "required when backend is sqlite",
			}
		}
	default:
		return &ValidationError{
			Field:   "limits.snapshot.backend",
			Message: fmt.Sprintf("must be \"memory\" or \"sqlite\", got %q", lc.Snapshot.Backend),
		}
	}
	return nil
}

func validateTelemetry(tc *TelemetryConfig) error {
	switch tc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", tc.Logging.Level),
		}
	}
	switch tc.Logging.Format {
	case "json", "text":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", tc.Logging.Format),
		}
	}
	if tc.Metrics.Enabled && !strings.HasPrefix(tc.Metrics.Path, "/") {
		return &ValidationError{
			Field:   "telemetry.metrics.path",
			Message: "must start with /",
		}
	}
	return nil
}
