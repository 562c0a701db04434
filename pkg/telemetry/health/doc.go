// Package health provides liveness and readiness endpoints for the gateway.
//
// The liveness check (/health) reports only that the process is serving.
// The readiness check (/ready) runs registered component checks (route
// table present, ledger storage reachable) and aggregates their results.
package health
