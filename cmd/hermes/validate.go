package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/routing"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults and environment overrides,
and validate every section including the route table.

Examples:
  # Validate the default config file
  hermes validate

  # Validate a specific file
  hermes validate --config /etc/hermes/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var validationErr config.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Printf("✗ Configuration invalid: %s\n", cfgFile)
			for _, fieldErr := range validationErr.Errors {
				fmt.Printf("  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%d validation errors", len(validationErr.Errors))
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The route table applies stricter URL parsing than section validation.
	table, err := routing.NewTable(routeConfigs(cfg), cfg.Gateway.DefaultTarget)
	if err != nil {
		fmt.Printf("✗ Route table invalid: %v\n", err)
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Routes: %d", table.Len())
	if table.DefaultTarget() != nil {
		fmt.Printf(" (+ default target)")
	}
	fmt.Println()
	fmt.Printf("  Ledger: enabled=%t backend=%s\n", cfg.Ledger.Enabled, cfg.Ledger.Backend)
	fmt.Printf("  Metrics: enabled=%t path=%s\n", cfg.Telemetry.Metrics.Enabled, cfg.Telemetry.Metrics.Path)
	fmt.Printf("  TLS: enabled=%t\n", cfg.Security.TLS.Enabled)

	return nil
}
