package proxy

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/ledger"
	"mercator-hq/hermes/pkg/proxy/middleware"
	"mercator-hq/hermes/pkg/routing"
	"mercator-hq/hermes/pkg/telemetry/metrics"
)

// SessionRecorder receives completed session records. Implemented by the
// ledger recorder; nil disables recording.
type SessionRecorder interface {
	Record(ctx context.Context, record *ledger.SessionRecord) error
}

// DialFunc opens an outbound WebSocket connection. The returned response is
// non-nil when the backend answered the handshake with a non-101 status.
// Injectable for tests; production uses a gorilla Dialer.
type DialFunc func(ctx context.Context, target string, header http.Header, subprotocols []string) (*websocket.Conn, *http.Response, error)

// dialResult is the outcome of a single outbound connection attempt.
type dialResult struct {
	conn *websocket.Conn
	resp *http.Response
	err  error
}

// Orchestrator drives WebSocket upgrades: it resolves the target, dials the
// backend with timeout and linear-backoff retries, completes the inbound
// handshake exactly once after the backend is confirmed live, and runs the
// relay session to completion.
//
// One Orchestrator serves all upgrade requests; per-request state lives on
// the stack of ServeHTTP.
type Orchestrator struct {
	table    *routing.Table
	cfg      *config.GatewayConfig
	upgrader websocket.Upgrader
	dial     DialFunc
	metrics  *metrics.Collector
	recorder SessionRecorder
	logger   *slog.Logger
}

// NewOrchestrator creates an upgrade orchestrator. metrics is required;
// recorder may be nil to disable ledger recording.
func NewOrchestrator(table *routing.Table, cfg *config.GatewayConfig, collector *metrics.Collector, recorder SessionRecorder) *Orchestrator {
	o := &Orchestrator{
		table: table,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Compression stays off on both legs so frames relay verbatim.
			EnableCompression: false,
			// Origin policy is the backend's concern; the gateway forwards
			// the Origin header and relays the backend's verdict.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		metrics:  collector,
		recorder: recorder,
		logger:   slog.Default().With("component", "upgrade-orchestrator"),
	}
	o.dial = o.dialBackend
	return o
}

// ServeHTTP handles a single inbound upgrade request, blocking until the
// relay session ends or the upgrade fails terminally.
func (o *Orchestrator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())

	target, err := o.table.ResolveTarget(r.URL.Path)
	if err != nil {
		o.logger.Warn("no route for upgrade request",
			"path", r.URL.Path,
			"request_id", requestID,
		)
		http.Error(w, "no route for path", http.StatusBadGateway)
		return
	}

	routeLabel := o.routeLabel(r.URL.Path)
	protocol := o.table.ResolveProtocol(r.URL.Path)
	negotiation := BuildOutbound(r, protocol)
	targetURL := outboundURL(target, r.URL)

	record := &ledger.SessionRecord{
		RequestID:   requestID,
		RoutePrefix: routeLabel,
		Path:        r.URL.Path,
		Target:      targetURL,
		RemoteAddr:  r.RemoteAddr,
		StartTime:   start,
	}

	backendConn, attempts, upgErr := o.connectBackend(r.Context(), targetURL, negotiation, routeLabel, requestID)
	record.Attempts = attempts

	if upgErr != nil {
		o.failUpgrade(w, r, record, upgErr, time.Since(start))
		return
	}

	// Backend is live. Complete the inbound handshake exactly once.
	clientConn, err := o.upgrader.Upgrade(w, r, upgradeResponseHeader(w, backendConn.Subprotocol()))
	if err != nil {
		// Upgrade writes its own error response; our side is cleanup only.
		o.logger.Warn("inbound upgrade failed after backend connect",
			"path", r.URL.Path,
			"target", targetURL,
			"request_id", requestID,
			"error", err,
		)
		_ = backendConn.Close()
		record.Status = ledger.StatusFailedUpgrade
		record.Error = err.Error()
		o.record(record)
		o.metrics.RecordUpgradeOutcome(routeLabel, "client_gone", time.Since(start))
		return
	}

	record.Subprotocol = backendConn.Subprotocol()
	o.metrics.RecordUpgradeOutcome(routeLabel, "upgraded", time.Since(start))

	o.logger.Info("session upgraded",
		"path", r.URL.Path,
		"target", targetURL,
		"route", routeLabel,
		"subprotocol", record.Subprotocol,
		"attempts", attempts,
		"request_id", requestID,
	)

	session := NewSession(clientConn, backendConn, routeLabel, o.cfg, o.metrics)
	session.Run()
	session.FillRecord(record)
	o.record(record)
}

// connectBackend drives the outbound connection attempts: at most
// 1 + MaxRetries dials, each bounded by ConnectTimeout, with linear backoff
// (RetryBaseDelay × attemptNumber) between retries. Auth rejections are
// terminal on the spot; a broken inbound context abandons everything.
// Returns the live connection and the number of attempts performed.
func (o *Orchestrator) connectBackend(ctx context.Context, target string, negotiation Negotiation, routeLabel, requestID string) (*websocket.Conn, int, *UpgradeError) {
	maxAttempts := o.cfg.MaxRetries + 1
	var lastClass FailureClass
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			// Linear backoff keyed to the attempt being retried.
			delay := o.cfg.RetryBaseDelay * time.Duration(attempt-1)
			o.metrics.RecordUpgradeRetry(routeLabel)
			o.logger.Debug("retrying backend connect",
				"target", target,
				"attempt", attempt,
				"delay", delay,
				"request_id", requestID,
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, attempt - 1, &UpgradeError{Class: lastClass, Target: target, Attempts: attempt - 1, Err: ctx.Err()}
			}
		}

		conn, class, err := o.attempt(ctx, target, negotiation)
		if err == nil {
			o.metrics.RecordUpgradeAttempt(routeLabel, "success")
			return conn, attempt, nil
		}

		o.metrics.RecordUpgradeAttempt(routeLabel, attemptResult(class))
		o.logger.Warn("backend connect attempt failed",
			"target", target,
			"attempt", attempt,
			"class", class.String(),
			"request_id", requestID,
			"error", err,
		)

		if class == FailureAuth {
			return nil, attempt, &UpgradeError{Class: FailureAuth, Target: target, Attempts: attempt, Err: err}
		}
		if ctx.Err() != nil {
			// Inbound side is gone; no response can be written.
			return nil, attempt, &UpgradeError{Class: class, Target: target, Attempts: attempt, Err: ctx.Err()}
		}

		lastClass, lastErr = class, err
	}

	return nil, maxAttempts, &UpgradeError{Class: lastClass, Target: target, Attempts: maxAttempts, Err: lastErr}
}

// attempt performs one outbound dial bounded by the connect timeout. The
// dial runs in its own goroutine with a buffered result channel: if the
// timer fires first, the attempt is abandoned and a drainer closes the
// connection should the dial succeed late. A stale success can therefore
// never produce a second upgrade.
func (o *Orchestrator) attempt(ctx context.Context, target string, negotiation Negotiation) (*websocket.Conn, FailureClass, error) {
	results := make(chan dialResult, 1)
	// claimed guards the handoff between the selecting caller and the
	// drainer: exactly one of them owns a late connection.
	var claimed atomic.Bool

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		conn, resp, err := o.dial(attemptCtx, target, negotiation.Header, negotiation.Subprotocols)
		results <- dialResult{conn: conn, resp: resp, err: err}
	}()

	timer := time.NewTimer(o.cfg.ConnectTimeout)
	defer timer.Stop()

	select {
	case res := <-results:
		claimed.Store(true)
		if res.err != nil {
			if res.resp != nil && res.resp.Body != nil {
				res.resp.Body.Close()
			}
			return nil, classifyDialError(res.err, res.resp), res.err
		}
		return res.conn, 0, nil

	case <-timer.C:
		cancel()
		go drainAttempt(results, &claimed)
		return nil, FailureTimeout, context.DeadlineExceeded

	case <-ctx.Done():
		cancel()
		go drainAttempt(results, &claimed)
		return nil, FailureRetryable, ctx.Err()
	}
}

// drainAttempt collects the result of an abandoned dial and closes any
// connection it produced.
func drainAttempt(results chan dialResult, claimed *atomic.Bool) {
	res := <-results
	if claimed.Load() {
		return
	}
	if res.conn != nil {
		_ = res.conn.Close()
	}
	if res.resp != nil && res.resp.Body != nil {
		res.resp.Body.Close()
	}
}

// upgradeResponseHeader assembles the header for the inbound 101 response.
// Headers set by middleware on the ResponseWriter would otherwise be lost
// when the connection is hijacked, and the subprotocol the backend accepted
// must be echoed so the client negotiates the same one. Headers owned by the
// handshake itself stay with the Upgrader.
func upgradeResponseHeader(w http.ResponseWriter, subprotocol string) http.Header {
	header := http.Header{}
	for key, values := range w.Header() {
		switch key {
		case "Upgrade", "Connection", "Sec-Websocket-Accept",
			"Sec-Websocket-Protocol", "Sec-Websocket-Extensions", "Sec-Websocket-Version":
			continue
		}
		header[key] = values
	}
	if subprotocol != "" {
		header.Set("Sec-WebSocket-Protocol", subprotocol)
	}
	return header
}

// dialBackend is the production DialFunc backed by a gorilla Dialer.
func (o *Orchestrator) dialBackend(ctx context.Context, target string, header http.Header, subprotocols []string) (*websocket.Conn, *http.Response, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout:  o.cfg.ConnectTimeout,
		Subprotocols:      subprotocols,
		EnableCompression: false,
	}
	return dialer.DialContext(ctx, target, header)
}

// failUpgrade writes the terminal failure response and records the session.
// When the inbound context is already broken no response is written.
func (o *Orchestrator) failUpgrade(w http.ResponseWriter, r *http.Request, record *ledger.SessionRecord, upgErr *UpgradeError, elapsed time.Duration) {
	routeLabel := record.RoutePrefix
	requestID := record.RequestID

	record.Status = ledger.StatusFailedUpgrade
	record.Error = upgErr.Error()

	if r.Context().Err() != nil {
		o.logger.Warn("client gone during upgrade, no response written",
			"path", r.URL.Path,
			"target", record.Target,
			"attempts", upgErr.Attempts,
			"request_id", requestID,
		)
		o.metrics.RecordUpgradeOutcome(routeLabel, "client_gone", elapsed)
		o.record(record)
		return
	}

	status := statusForFailure(upgErr.Class)
	o.logger.Error("upgrade failed",
		"path", r.URL.Path,
		"target", record.Target,
		"attempts", upgErr.Attempts,
		"class", upgErr.Class.String(),
		"status", status,
		"request_id", requestID,
		"error", upgErr.Err,
	)

	http.Error(w, http.StatusText(status), status)
	o.metrics.RecordUpgradeOutcome(routeLabel, outcomeForFailure(upgErr.Class), elapsed)
	o.record(record)
}

// record hands a finished session record to the ledger recorder.
func (o *Orchestrator) record(record *ledger.SessionRecord) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.Record(context.Background(), record); err != nil {
		o.logger.Warn("failed to record session",
			"request_id", record.RequestID,
			"error", err,
		)
	}
}

// routeLabel returns the matched route prefix for metric and ledger labels,
// or "default" when only the default target applies.
func (o *Orchestrator) routeLabel(path string) string {
	if route := o.table.ResolveRoute(path); route != nil {
		return route.Prefix
	}
	return "default"
}

// attemptResult maps a failure class to an attempt metric label.
func attemptResult(class FailureClass) string {
	switch class {
	case FailureAuth:
		return "auth_rejected"
	case FailureTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// outboundURL builds the outbound WebSocket URL for a resolved target and
// the inbound request URL: ws/wss scheme, the target's host, and the
// inbound path and query.
func outboundURL(target *url.URL, inbound *url.URL) string {
	out := *target

	switch out.Scheme {
	case "http":
		out.Scheme = "ws"
	case "https":
		out.Scheme = "wss"
	}

	out.Path = inbound.Path
	out.RawQuery = inbound.RawQuery
	return out.String()
}
