package routing

import (
	"errors"
	"fmt"
)

// ErrNoRoute is returned when a path matches no configured route and no
// default target exists. Callers must treat this as an explicit failure,
// not as an invitation to guess a target.
var ErrNoRoute = errors.New("no route matches path")

// RouteError describes a problem with a single route entry encountered
// while building a Table.
type RouteError struct {
	Prefix string // Route prefix ("" for the default target)
	Reason string // Human-readable explanation
	Cause  error  // Underlying error, if any
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("route %q: %s: %v", e.Prefix, e.Reason, e.Cause)
	}
	return fmt.Sprintf("route %q: %s", e.Prefix, e.Reason)
}

// Unwrap returns the underlying cause error.
func (e *RouteError) Unwrap() error {
	return e.Cause
}
