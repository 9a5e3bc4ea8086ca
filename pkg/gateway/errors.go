package gateway

import (
	"fmt"

	"tavola-hq/menugate/pkg/config"
)

// UnconfiguredError reports that no provider credential is set. The
// message names every recognized variable so an operator can fix the
// deployment without reading source.
type UnconfiguredError struct{}

// Error implements the error interface.
func (e *UnconfiguredError) Error() string {
	return fmt.Sprintf("no LLM provider configured: set at least one of %s, %s, or %s",
		config.EnvGroqAPIKey, config.EnvGoogleAPIKey, config.EnvAnthropicAPIKey)
}
