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
	Use:   "hermes",
	Short: "Mercator Hermes - bidirectional protocol gateway",
	Long: `Mercator Hermes is a protocol gateway that bridges WebSocket and plain
HTTP traffic to routed backends.

It terminates inbound connections and provides:
  - Longest-prefix route resolution with an optional default target
  - WebSocket upgrade orchestration with retries and backoff
  - Bidirectional relay sessions with keepalive and close propagation
  - Session ledger recording with configurable retention
  - Prometheus metrics and structured logging

For more information, visit: https://github.com/mercator-hq/hermes`,
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
