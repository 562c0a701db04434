package routing

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Route is a single routing entry: requests whose path starts with Prefix
// are sent to Target, optionally negotiating the given WebSocket subprotocol.
type Route struct {
	// Prefix is the path prefix this route matches (e.g. "/api/graphql").
	Prefix string

	// Target is the backend base URL for this prefix.
	Target *url.URL

	// Protocol is an optional WebSocket subprotocol to offer when the
	// client does not request one. Empty means no override.
	Protocol string
}

// Table is an immutable routing table. Build it once with NewTable and share
// it freely; all lookup methods are read-only and safe for concurrent use.
type Table struct {
	exact         map[string]*Route
	prefixes      []*Route // sorted by descending prefix length
	defaultTarget *url.URL
}

// RouteConfig is the raw form of a route entry as supplied by the
// configuration provider.
type RouteConfig struct {
	Prefix   string
	Target   string
	Protocol string
}

// NewTable builds a routing table from raw route entries and an optional
// default target. It validates each entry and returns a RouteError for the
// first invalid one. An empty defaultTarget means there is no fallback and
// unmatched paths resolve to ErrNoRoute.
func NewTable(routes []RouteConfig, defaultTarget string) (*Table, error) {
	t := &Table{
		exact: make(map[string]*Route, len(routes)),
	}

	for _, rc := range routes {
		if rc.Prefix == "" || !strings.HasPrefix(rc.Prefix, "/") {
			return nil, &RouteError{Prefix: rc.Prefix, Reason: "prefix must start with /"}
		}
		if _, dup := t.exact[rc.Prefix]; dup {
			return nil, &RouteError{Prefix: rc.Prefix, Reason: "duplicate prefix"}
		}

		target, err := parseTarget(rc.Target)
		if err != nil {
			return nil, &RouteError{Prefix: rc.Prefix, Reason: "invalid target", Cause: err}
		}

		route := &Route{
			Prefix:   rc.Prefix,
			Target:   target,
			Protocol: rc.Protocol,
		}
		t.exact[rc.Prefix] = route
		t.prefixes = append(t.prefixes, route)
	}

	// Longest prefix wins; ties cannot happen because prefixes are unique.
	sort.Slice(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i].Prefix) > len(t.prefixes[j].Prefix)
	})

	if defaultTarget != "" {
		target, err := parseTarget(defaultTarget)
		if err != nil {
			return nil, &RouteError{Prefix: "", Reason: "invalid default target", Cause: err}
		}
		t.defaultTarget = target
	}

	return t, nil
}

// parseTarget parses and sanity-checks a backend target URL.
func parseTarget(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("target is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported target scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("target has no host")
	}

	return u, nil
}

// Len returns the number of configured routes (excluding the default target).
func (t *Table) Len() int {
	return len(t.prefixes)
}

// Routes returns the configured routes sorted by descending prefix length.
// The returned slice must not be modified.
func (t *Table) Routes() []*Route {
	return t.prefixes
}

// DefaultTarget returns the configured default target, or nil.
func (t *Table) DefaultTarget() *url.URL {
	return t.defaultTarget
}
