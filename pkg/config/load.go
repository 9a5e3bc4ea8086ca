package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment overrides are not applied; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// MENUGATE_SECTION_FIELD (e.g., MENUGATE_SERVER_LISTEN_ADDRESS) and always
// take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("MENUGATE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("MENUGATE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("MENUGATE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("MENUGATE_SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.Server.CORS.AllowedOrigins = origins
	}

	// Provider overrides
	if val := os.Getenv("MENUGATE_PROVIDERS_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Providers.Timeout = d
		}
	}
	applyProviderEnvOverrides(&cfg.Providers.Groq, "GROQ")
	applyProviderEnvOverrides(&cfg.Providers.Google, "GOOGLE")
	applyProviderEnvOverrides(&cfg.Providers.Anthropic, "ANTHROPIC")

	// Limits overrides
	if val := os.Getenv("MENUGATE_LIMITS_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limits.Window = d
		}
	}
	if val := os.Getenv("MENUGATE_LIMITS_MAX_REQUESTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.MaxRequests = i
		}
	}
	if val := os.Getenv("MENUGATE_LIMITS_SWEEP_SCHEDULE"); val != "" {
		cfg.Limits.SweepSchedule = val
	}
	if val := os.Getenv("MENUGATE_LIMITS_SNAPSHOT_BACKEND"); val != "" {
		cfg.Limits.Snapshot.Backend = val
	}
	if val := os.Getenv("MENUGATE_LIMITS_SNAPSHOT_PATH"); val != "" {
		cfg.Limits.Snapshot.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("MENUGATE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MENUGATE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MENUGATE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}

// applyProviderEnvOverrides applies MENUGATE_PROVIDERS_<NAME>_* overrides
// for a single provider. Credentials are intentionally not handled here;
// they have their own dedicated variables (GROQ_API_KEY etc.) and are read
// by the adapters, not the config layer.
func applyProviderEnvOverrides(pc *ProviderConfig, name string) {
	prefix := fmt.Sprintf("MENUGATE_PROVIDERS_%s_", name)

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		pc.BaseURL = val
	}
	if val := os.Getenv(prefix + "MODELS"); val != "" {
		models := strings.Split(val, ",")
		for i := range models {
			models[i] = strings.TrimSpace(models[i])
		}
		pc.Models = models
	}
}
