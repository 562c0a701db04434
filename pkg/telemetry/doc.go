// Package telemetry groups the observability subpackages of Mercator Hermes:
// structured logging (telemetry/logging), Prometheus metrics
// (telemetry/metrics), and health endpoints (telemetry/health).
package telemetry
