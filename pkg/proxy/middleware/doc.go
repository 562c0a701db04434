// Package middleware provides HTTP middleware for the gateway listener:
// request ID generation, structured request logging, panic recovery, CORS,
// and relay session admission control.
//
// All middleware in this package preserves http.Hijacker on the wrapped
// ResponseWriter so WebSocket upgrades keep working behind the chain.
package middleware
