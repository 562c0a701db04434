// Mercator Hermes is a bidirectional protocol gateway for WebSocket and
// plain HTTP traffic.
//
// It terminates inbound connections, resolves backends through a
// prefix-based route table, and for WebSocket upgrades confirms the backend
// before completing the client handshake, then relays frames in both
// directions with keepalive probing and close propagation:
//   - Longest-prefix route resolution with optional default target
//   - Upgrade orchestration with timeout and linear-backoff retries
//   - Bidirectional relay sessions with FIFO forwarding
//   - Session ledger with SQLite or in-memory storage and retention pruning
//   - Prometheus metrics and structured logging
//
// Usage:
//
//	# Start the gateway with default configuration
//	hermes run
//
//	# Start with a custom configuration file
//	hermes run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	hermes validate --config /path/to/config.yaml
//
//	# Query the session ledger
//	hermes sessions query --time-range "2026-08-30T00:00:00Z/2026-08-31T00:00:00Z"
//
//	# Show version information
//	hermes version
//
// For complete documentation, see: https://github.com/mercator-hq/hermes
package main

func main() {
	Execute()
}
