package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/ledger"
	"mercator-hq/hermes/pkg/ledger/recorder"
	"mercator-hq/hermes/pkg/ledger/retention"
	"mercator-hq/hermes/pkg/ledger/storage"
	"mercator-hq/hermes/pkg/limits"
	"mercator-hq/hermes/pkg/proxy"
	"mercator-hq/hermes/pkg/routing"
	"mercator-hq/hermes/pkg/server"
	"mercator-hq/hermes/pkg/telemetry/health"
	"mercator-hq/hermes/pkg/telemetry/logging"
	"mercator-hq/hermes/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Hermes gateway server",
	Long: `Start the Hermes gateway server with the specified configuration.

The gateway listens on the configured address, resolves backends through the
route table, orchestrates WebSocket upgrades, and proxies plain HTTP.

Examples:
  # Start with default config
  hermes run

  # Start with custom config
  hermes run --config /etc/hermes/config.yaml

  # Override listen address
  hermes run --listen 0.0.0.0:8080

  # Validate config without starting the server
  hermes run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Mercator Hermes v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Route table
	table, err := routing.NewTable(routeConfigs(cfg), cfg.Gateway.DefaultTarget)
	if err != nil {
		return cli.NewConfigError("gateway.routes", err.Error())
	}
	fmt.Printf("✓ Route table built (%d routes)\n", table.Len())

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("routes", func(ctx context.Context) error {
		if table.Len() == 0 && table.DefaultTarget() == nil {
			return fmt.Errorf("no routes configured")
		}
		return nil
	})

	// Session ledger
	var sessionRecorder *recorder.Recorder
	if cfg.Ledger.Enabled {
		slog.Info("initializing session ledger", "backend", cfg.Ledger.Backend)

		store, err := openLedgerStorage(cfg)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer store.Close()

		checker.RegisterCheck("ledger", func(ctx context.Context) error {
			_, err := store.Count(ctx, &ledger.Query{})
			return err
		})

		sessionRecorder = recorder.NewRecorder(store, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Ledger.Recorder.AsyncBuffer,
			WriteTimeout: cfg.Ledger.Recorder.WriteTimeout,
		})
		defer sessionRecorder.Close()

		if cfg.Ledger.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(store, &retention.Config{
				RetentionDays: cfg.Ledger.Retention.Days,
				PruneSchedule: cfg.Ledger.Retention.PruneSchedule,
				MaxRecords:    cfg.Ledger.Retention.MaxRecords,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("ledger retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ Session ledger initialized")
	}

	// Telemetry and admission
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	limiter := limits.NewSessionLimiter(cfg.Gateway.MaxConcurrentSessions)

	// Gateway handlers
	var rec proxy.SessionRecorder
	if sessionRecorder != nil {
		rec = sessionRecorder
	}
	orchestrator := proxy.NewOrchestrator(table, &cfg.Gateway, collector, rec)
	passthrough := proxy.NewPassthrough(table)

	// Watch the config file so operators see drift between disk and the
	// running process. Routing changes require a restart to apply.
	watcher, err := config.NewWatcher(cfgFile, func(path string) {
		slog.Warn("configuration file changed on disk, restart to apply", "path", path)
	})
	if err != nil {
		slog.Debug("config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Debug("config watcher failed to start", "error", err)
	} else {
		defer watcher.Stop()
	}

	srv := server.NewServer(cfg, orchestrator, passthrough, checker, collector, limiter)

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until signal-driven shutdown or server error.
	signalCtx := cli.SetupSignalHandler()
	if err := srv.Start(signalCtx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// routeConfigs converts config route entries to routing table entries.
func routeConfigs(cfg *config.Config) []routing.RouteConfig {
	routes := make([]routing.RouteConfig, 0, len(cfg.Gateway.Routes))
	for _, rc := range cfg.Gateway.Routes {
		routes = append(routes, routing.RouteConfig{
			Prefix:   rc.Prefix,
			Target:   rc.Target,
			Protocol: rc.Protocol,
		})
	}
	return routes
}

// openLedgerStorage opens the configured ledger storage backend.
func openLedgerStorage(cfg *config.Config) (ledger.Storage, error) {
	switch cfg.Ledger.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Ledger.SQLite.Path,
			MaxOpenConns: cfg.Ledger.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Ledger.SQLite.MaxIdleConns,
			WALMode:      cfg.Ledger.SQLite.WALMode,
			BusyTimeout:  cfg.Ledger.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s (supported: sqlite, memory)", cfg.Ledger.Backend)
	}
}
