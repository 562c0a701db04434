// Package routing implements static path-prefix routing for the gateway.
//
// A Table is built once at startup from the configuration and is immutable
// afterwards, so it can be shared by every session without locking.
// Resolution is a pure lookup:
//
//  1. Exact path match against the configured prefixes.
//  2. Longest matching prefix.
//  3. The configured default target.
//
// If none of the three apply, resolution fails with ErrNoRoute rather than
// silently forwarding anywhere.
//
// Subprotocol resolution follows the same order for per-route overrides and
// falls back to a path heuristic: paths that look like GraphQL subscription
// endpoints default to the graphql-ws subprotocol.
package routing
