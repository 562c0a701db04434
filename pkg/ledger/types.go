package ledger

import (
	"context"
	"time"
)

// Session status values.
const (
	// StatusCompleted marks a relay session that reached teardown.
	StatusCompleted = "completed"

	// StatusFailedUpgrade marks an upgrade that never produced a relay
	// session (retries exhausted, auth rejection, or client gone).
	StatusFailedUpgrade = "failed_upgrade"
)

// SessionRecord is the ledger entry for a single gateway session.
type SessionRecord struct {
	// Identity
	ID        string `json:"id"`         // UUID v4, assigned by the recorder
	RequestID string `json:"request_id"` // From the request ID middleware

	// Routing
	RoutePrefix string `json:"route_prefix"` // Matched prefix ("" for default target)
	Path        string `json:"path"`         // Request path
	Target      string `json:"target"`       // Resolved backend URL
	Subprotocol string `json:"subprotocol"`  // Negotiated subprotocol, if any
	RemoteAddr  string `json:"remote_addr"`  // Client address

	// Timing
	StartTime time.Time     `json:"start_time"` // Upgrade request received
	EndTime   time.Time     `json:"end_time"`   // Session concluded
	Duration  time.Duration `json:"duration"`   // EndTime - StartTime

	// Upgrade
	Attempts int    `json:"attempts"` // Outbound connection attempts
	Status   string `json:"status"`   // StatusCompleted or StatusFailedUpgrade

	// Relay outcome
	MessagesToBackend int64  `json:"messages_to_backend"`
	MessagesToClient  int64  `json:"messages_to_client"`
	CloseCode         int    `json:"close_code"`   // WebSocket close code
	CloseReason       string `json:"close_reason"` // Close reason text
	Initiator         string `json:"initiator"`    // "client", "backend", or "gateway"

	// Error info
	Error string `json:"error,omitempty"` // Failure detail for failed upgrades
}

// Query defines filter parameters for querying session records.
type Query struct {
	// Time range (inclusive)
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters
	RoutePrefix string `json:"route_prefix,omitempty"`
	Target      string `json:"target,omitempty"`
	Status      string `json:"status,omitempty"`
	Initiator   string `json:"initiator,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage defines the interface for ledger storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a session record.
	Store(ctx context.Context, record *SessionRecord) error

	// Query retrieves session records matching the query filters, newest
	// first. Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*SessionRecord, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number deleted. Used for retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
