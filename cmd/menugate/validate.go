package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tavola-hq/menugate/pkg/cli"
	"tavola-hq/menugate/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file, applying defaults and
environment overrides exactly as the run command would.

Examples:
  # Validate the default config file
  menugate validate

  # Validate a specific file
  menugate validate --config /etc/menugate/config.yaml

  # Print the effective configuration as JSON
  menugate validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if validateFlags.format == string(cli.FormatJSON) {
		// The effective config after defaults and env overrides. Credentials
		// never live in the config, so this is safe to print.
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, cfg)
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Rate limit: %d requests per %s\n", cfg.Limits.MaxRequests, cfg.Limits.Window)
	fmt.Printf("  Snapshot backend: %s\n", cfg.Limits.Snapshot.Backend)
	fmt.Printf("  Metrics enabled: %t\n", cfg.Telemetry.Metrics.Enabled)
	return nil
}
