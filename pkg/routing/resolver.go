package routing

import (
	"net/url"
	"strings"
)

// SubprotocolGraphQL is the well-known subprotocol offered for GraphQL
// subscription endpoints when no explicit per-route protocol is configured.
const SubprotocolGraphQL = "graphql-ws"

// ResolveTarget maps a request path to a backend target.
//
// Lookup order: exact prefix match, then longest matching prefix, then the
// default target. Returns ErrNoRoute when nothing applies.
func (t *Table) ResolveTarget(path string) (*url.URL, error) {
	if route := t.resolve(path); route != nil {
		return route.Target, nil
	}
	if t.defaultTarget != nil {
		return t.defaultTarget, nil
	}
	return nil, ErrNoRoute
}

// ResolveProtocol maps a request path to the WebSocket subprotocol to offer
// when the client did not request one. Returns "" when no route configures a
// protocol and the path heuristic does not apply.
func (t *Table) ResolveProtocol(path string) string {
	if route := t.resolve(path); route != nil && route.Protocol != "" {
		return route.Protocol
	}

	// Heuristic fallback: GraphQL subscription endpoints speak graphql-ws
	// even when the route table does not say so explicitly.
	if strings.Contains(path, "graphql") || strings.Contains(path, "subscription") {
		return SubprotocolGraphQL
	}

	return ""
}

// ResolveRoute returns the matched route entry for a path, or nil if only
// the default target (or nothing) applies. Useful for labeling metrics and
// ledger records with the matched prefix.
func (t *Table) ResolveRoute(path string) *Route {
	return t.resolve(path)
}

// resolve performs the exact-then-longest-prefix lookup.
func (t *Table) resolve(path string) *Route {
	if route, ok := t.exact[path]; ok {
		return route
	}
	for _, route := range t.prefixes {
		if strings.HasPrefix(path, route.Prefix) {
			return route
		}
	}
	return nil
}
