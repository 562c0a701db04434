// Package logging configures structured logging for Mercator Hermes.
//
// All components log through log/slog. This package translates the
// telemetry.logging configuration section into a slog handler (JSON or
// text), installs it as the process default, and provides context helpers
// for carrying a request-scoped logger.
package logging
