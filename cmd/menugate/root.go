package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "menugate",
	Short: "Menugate - rate-limited gateway for LLM menu generation",
	Long: `Menugate is a gateway that sits between a meal-planning frontend and
the LLM providers.

It provides:
  - Per-client rate limiting with operator-visible metrics
  - Provider selection by credential presence (Groq, Google, Anthropic)
  - Per-provider model fallback on transient upstream failures
  - Response sanitization down to strict JSON
  - A uniform client-facing error taxonomy

Provider credentials come exclusively from the environment:
GROQ_API_KEY, GEMINI_API_KEY, and ANTHROPIC_API_KEY.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
