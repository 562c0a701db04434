package proxy

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

// FailureClass classifies outbound handshake failures, which determines
// whether an attempt is retried and what status the client receives.
type FailureClass int

const (
	// FailureRetryable covers connection refused, name resolution failures,
	// transport timeouts, and unexpected handshake responses other than
	// auth rejections. Retried with linear backoff until attempts run out,
	// then surfaced as 502 (or 504 when the last failure was a timeout).
	FailureRetryable FailureClass = iota

	// FailureAuth covers outbound handshakes rejected with 401 or 403.
	// Never retried; surfaced as 401 immediately.
	FailureAuth

	// FailureTimeout is a connection attempt that outlived the configured
	// connect timeout. Retryable; surfaced as 504 when attempts run out.
	FailureTimeout
)

// String returns the failure class name for logging.
func (c FailureClass) String() string {
	switch c {
	case FailureAuth:
		return "auth"
	case FailureTimeout:
		return "timeout"
	default:
		return "retryable"
	}
}

// UpgradeError is the terminal failure of an upgrade session.
type UpgradeError struct {
	Class    FailureClass
	Target   string
	Attempts int
	Err      error
}

func (e *UpgradeError) Error() string {
	return fmt.Sprintf("upgrade to %s failed after %d attempt(s) (%s): %v",
		e.Target, e.Attempts, e.Class, e.Err)
}

func (e *UpgradeError) Unwrap() error {
	return e.Err
}

// classifyDialError classifies an outbound dial failure. resp is the
// handshake response when the backend answered with a non-101 status, nil
// otherwise.
func classifyDialError(err error, resp *http.Response) FailureClass {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return FailureAuth
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, websocket.ErrBadHandshake) {
		return FailureRetryable
	}

	return FailureRetryable
}

// statusForFailure maps a terminal failure class to the inbound response
// status.
func statusForFailure(class FailureClass) int {
	switch class {
	case FailureAuth:
		return http.StatusUnauthorized
	case FailureTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// outcomeForFailure maps a terminal failure class to a metrics outcome label.
func outcomeForFailure(class FailureClass) string {
	switch class {
	case FailureAuth:
		return "unauthorized"
	case FailureTimeout:
		return "gateway_timeout"
	default:
		return "bad_gateway"
	}
}
