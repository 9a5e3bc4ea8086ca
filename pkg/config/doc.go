// Package config provides configuration loading, validation, and hot
// reloading for Menugate.
//
// Configuration comes from three layers, later layers winning:
//
//  1. Built-in defaults (defaults.go)
//  2. A YAML configuration file
//  3. MENUGATE_* environment variables
//
// Provider credentials are deliberately excluded from this package: the
// adapters read GROQ_API_KEY, GEMINI_API_KEY, and ANTHROPIC_API_KEY
// directly, and the presence of a variable (not its value) decides which
// providers are candidates for selection.
package config
