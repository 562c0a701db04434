// Package cli provides shared helpers for the hermes command line tool:
// typed command errors, output formatting for ledger queries, and signal
// handling for graceful shutdown.
package cli
