// Package server provides the gateway HTTP server for Mercator Hermes.
//
// This package ties the gateway components together (upgrade orchestrator,
// HTTP passthrough, middleware, health and metrics endpoints) and manages
// server lifecycle including start, TLS termination, and graceful shutdown.
//
// # Basic Usage
//
//	cfg := config.GetConfig()
//
//	srv := server.NewServer(cfg, orchestrator, passthrough, checker, collector, limiter)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Dispatch
//
// Requests to routed paths are dispatched by kind:
//
//   - WebSocket upgrade requests go to the upgrade orchestrator, which
//     confirms the backend before completing the inbound handshake
//   - Plain HTTP requests go to the reverse-proxy passthrough
//
// Side endpoints:
//
//   - GET /health - liveness probe (always 200)
//   - GET /ready - readiness probe (runs component checks, 503 when degraded)
//   - GET /metrics - Prometheus metrics (path configurable)
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: recovers from panics and returns 500
//  2. RequestID: generates or propagates X-Request-ID
//  3. Logging: logs request/response details; upgrades log as 101
//  4. CORS: adds CORS headers to plain responses, skips upgrades
//  5. Admission: caps concurrent upgrade sessions, rejects with 503
//
// # Graceful Shutdown
//
// Shutdown stops accepting new connections and waits up to the configured
// timeout for in-flight plain requests. Relay sessions are hijacked
// connections and drive their own teardown.
package server
