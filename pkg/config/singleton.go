package config

import (
	"fmt"
	"os"
	"sync"
)

var (
	mu       sync.RWMutex
	instance *Config
)

// Initialize loads the process-wide configuration from the given path.
// If the file does not exist, defaults are used so the server can start
// with nothing but environment variables. Safe to call once at startup;
// subsequent calls replace the instance (used by the config watcher).
func Initialize(path string) error {
	var (
		cfg *Config
		err error
	)

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		cfg = NewDefaultConfig()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return fmt.Errorf("default configuration invalid after environment overrides: %w", err)
		}
	} else {
		cfg, err = LoadConfigWithEnvOverrides(path)
		if err != nil {
			return err
		}
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return nil
}

// GetConfig returns the process-wide configuration. It panics if
// Initialize has not been called; that is a programming error, not a
// runtime condition.
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config.GetConfig called before config.Initialize")
	}
	return instance
}

// SetConfig replaces the process-wide configuration. Intended for tests.
func SetConfig(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
