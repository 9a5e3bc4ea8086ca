package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tavola-hq/menugate/pkg/cli"
	"tavola-hq/menugate/pkg/config"
	"tavola-hq/menugate/pkg/server"
	"tavola-hq/menugate/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the menugate server",
	Long: `Start the menugate server with the specified configuration.

The server listens on the configured address and serves the menu
generation API. Provider credentials are read from the environment:
GROQ_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY.

Examples:
  # Start with default config
  menugate run

  # Start with custom config
  menugate run --config /etc/menugate/config.yaml

  # Override listen address
  menugate run --listen 0.0.0.0:8080

  # Validate config without starting the server
  menugate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Flag overrides beat the file.
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format, os.Stdout); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Menugate v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	srv, err := server.NewServer(cfg, cfgFile)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/api/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a signal arrives or the listener fails; graceful
	// shutdown happens inside.
	ctx := cli.SetupSignalHandler()
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}
