package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/ledger"
)

var sessionsFlags struct {
	backend   string
	timeRange string
	route     string
	target    string
	status    string
	initiator string
	limit     int
	offset    int
	format    string
	output    string
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Query the session ledger",
	Long: `Query and export relay session records.

The sessions command provides access to the session ledger for auditing
gateway traffic: which routes were used, how sessions ended, and how many
messages flowed in each direction.

Examples:
  # Query last 24 hours
  hermes sessions query --time-range "2026-08-30T00:00:00Z/2026-08-31T00:00:00Z"

  # Filter by route prefix
  hermes sessions query --route "/api/graphql"

  # Export to JSON file
  hermes sessions query --format json --output sessions.json`,
}

var sessionsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query session records",
	Long: `Query session records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-30T00:00:00Z/2026-08-31T00:00:00Z"

Examples:
  # Query a specific time range
  hermes sessions query --time-range "2026-08-30T00:00:00Z/2026-08-31T00:00:00Z"

  # Sessions that failed during upgrade
  hermes sessions query --status failed_upgrade

  # Sessions closed by the backend
  hermes sessions query --initiator backend`,
	RunE: querySessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsQueryCmd)

	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.route, "route", "", "filter by route prefix")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.target, "target", "", "filter by backend target")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.status, "status", "", "filter by status (completed, failed_upgrade)")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.initiator, "initiator", "", "filter by close initiator (client, backend, gateway)")
	sessionsQueryCmd.Flags().IntVar(&sessionsFlags.limit, "limit", 100, "max results")
	sessionsQueryCmd.Flags().IntVar(&sessionsFlags.offset, "offset", 0, "pagination offset")
	sessionsQueryCmd.Flags().StringVar(&sessionsFlags.format, "format", "text", "output format: text, json")
	sessionsQueryCmd.Flags().StringVarP(&sessionsFlags.output, "output", "o", "", "output file (default: stdout)")
}

func querySessions(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if sessionsFlags.backend != "" {
		cfg.Ledger.Backend = sessionsFlags.backend
	}

	store, err := openLedgerStorage(cfg)
	if err != nil {
		return cli.NewCommandError("sessions", err)
	}
	defer store.Close()

	query := &ledger.Query{
		RoutePrefix: sessionsFlags.route,
		Target:      sessionsFlags.target,
		Status:      sessionsFlags.status,
		Initiator:   sessionsFlags.initiator,
		Limit:       sessionsFlags.limit,
		Offset:      sessionsFlags.offset,
	}

	if sessionsFlags.timeRange != "" {
		start, end, err := parseTimeRange(sessionsFlags.timeRange)
		if err != nil {
			return err
		}
		query.StartTime = &start
		query.EndTime = &end
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("sessions", fmt.Errorf("query failed: %w", err))
	}

	output := os.Stdout
	if sessionsFlags.output != "" {
		output, err = os.Create(sessionsFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if sessionsFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(output, map[string]any{
			"total_records": len(records),
			"records":       records,
		})
	}
	return outputSessionsText(output, records, query)
}

// parseTimeRange parses an RFC3339 "start/end" interval.
func parseTimeRange(raw string) (start, end time.Time, err error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return start, end, fmt.Errorf("invalid time range format (expected: start/end)")
	}
	start, err = time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return start, end, fmt.Errorf("invalid start time: %w", err)
	}
	end, err = time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return start, end, fmt.Errorf("invalid end time: %w", err)
	}
	return start, end, nil
}

func outputSessionsText(output *os.File, records []*ledger.SessionRecord, query *ledger.Query) error {
	fmt.Fprintln(output, "Querying session records...")
	fmt.Fprintln(output)

	if query.StartTime != nil && query.EndTime != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.StartTime.Format(time.RFC3339),
			query.EndTime.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Session ID: %s\n", record.ID)
		fmt.Fprintf(output, "Started: %s\n", record.StartTime.Format(time.RFC3339))
		fmt.Fprintf(output, "Route: %s -> %s\n", record.RoutePrefix, record.Target)
		fmt.Fprintf(output, "Status: %s\n", record.Status)
		if record.Subprotocol != "" {
			fmt.Fprintf(output, "Subprotocol: %s\n", record.Subprotocol)
		}
		fmt.Fprintf(output, "Duration: %s (attempts: %d)\n", record.Duration.Round(time.Millisecond), record.Attempts)
		fmt.Fprintf(output, "Messages: %d to backend, %d to client\n", record.MessagesToBackend, record.MessagesToClient)
		if record.Initiator != "" {
			fmt.Fprintf(output, "Closed by: %s (code %d", record.Initiator, record.CloseCode)
			if record.CloseReason != "" {
				fmt.Fprintf(output, ", %q", record.CloseReason)
			}
			fmt.Fprintln(output, ")")
		}
		if record.Error != "" {
			fmt.Fprintf(output, "Error: %s\n", record.Error)
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			fmt.Fprintln(output)
			fmt.Fprintf(output, "... and %d more records\n", len(records)-10)
			fmt.Fprintf(output, "Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}
