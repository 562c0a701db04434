package proxy

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/ledger"
	"mercator-hq/hermes/pkg/telemetry/metrics"
)

// Relay direction labels.
const (
	directionToBackend = "to_backend"
	directionToClient  = "to_client"
)

// Close initiator labels.
const (
	initiatorClient  = "client"
	initiatorBackend = "backend"
	initiatorGateway = "gateway"
)

// peer is one side of a relay session. Writes to a WebSocket connection must
// be serialized; the mutex covers data and control frames alike.
type peer struct {
	conn *websocket.Conn
	name string
	mu   sync.Mutex
}

// writeMessage writes a data message with the configured write deadline.
func (p *peer) writeMessage(messageType int, data []byte, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(timeout))
	return p.conn.WriteMessage(messageType, data)
}

// writeControl writes a control frame. Control frames bypass the write
// deadline set for data messages; gorilla serializes them internally against
// in-flight data writes, but the mutex keeps our own ordering strict.
func (p *peer) writeControl(messageType int, data []byte, timeout time.Duration) error {
	return p.conn.WriteControl(messageType, data, time.Now().Add(timeout))
}

// Session relays messages between a confirmed client/backend connection
// pair. It owns both connections for its lifetime: two read pumps forward
// messages, a keepalive loop pings both peers, and every terminating event
// funnels through a single idempotent teardown.
type Session struct {
	client  *peer
	backend *peer
	route   string
	cfg     *config.GatewayConfig
	metrics *metrics.Collector
	logger  *slog.Logger

	// active is cleared exactly once at the first terminating event; it
	// gates forwarding, keepalive, and teardown bookkeeping.
	active atomic.Bool

	toBackend atomic.Int64
	toClient  atomic.Int64

	start time.Time
	done  chan struct{}
	wg    sync.WaitGroup

	// Teardown outcome, written once under the active CAS.
	closeCode   int
	closeReason string
	initiator   string
}

// NewSession creates a relay session bound to a live connection pair.
// routeLabel tags logs and metrics with the matched route prefix.
func NewSession(clientConn, backendConn *websocket.Conn, routeLabel string, cfg *config.GatewayConfig, collector *metrics.Collector) *Session {
	s := &Session{
		client:  &peer{conn: clientConn, name: initiatorClient},
		backend: &peer{conn: backendConn, name: initiatorBackend},
		route:   routeLabel,
		cfg:     cfg,
		metrics: collector,
		logger: slog.Default().With(
			"component", "relay-session",
			"route", routeLabel,
		),
		start: time.Now(),
		done:  make(chan struct{}),
	}
	s.active.Store(true)
	return s
}

// Run relays until either side closes or errors. It blocks for the life of
// the session and returns only after both pumps have exited.
func (s *Session) Run() {
	s.metrics.SessionStarted(s.route)

	s.armReadDeadline(s.client)
	s.armReadDeadline(s.backend)

	s.wg.Add(3)
	go s.pump(s.client, s.backend, directionToBackend)
	go s.pump(s.backend, s.client, directionToClient)
	go s.keepalive()
	s.wg.Wait()

	_ = s.client.conn.Close()
	_ = s.backend.conn.Close()
}

// Close terminates the session from the gateway side, used during shutdown.
func (s *Session) Close() {
	s.teardown(websocket.CloseGoingAway, "gateway shutting down", initiatorGateway, nil)
}

// Active reports whether the session is still relaying.
func (s *Session) Active() bool {
	return s.active.Load()
}

// FillRecord populates a ledger record with the session's outcome. Call
// after Run returns.
func (s *Session) FillRecord(record *ledger.SessionRecord) {
	record.Status = ledger.StatusCompleted
	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(s.start)
	record.MessagesToBackend = s.toBackend.Load()
	record.MessagesToClient = s.toClient.Load()
	record.CloseCode = s.closeCode
	record.CloseReason = s.closeReason
	record.Initiator = s.initiator
}

// armReadDeadline sets the pong-based read deadline and handler for a peer.
// Any inbound traffic also pushes the deadline forward (see pump), so chatty
// connections survive even if the peer never answers pings.
func (s *Session) armReadDeadline(p *peer) {
	_ = p.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})
}

// pump reads messages from src and forwards them to dst until the session
// ends. Message order and content are preserved per direction; a message
// that arrives after the session went inactive is dropped with a warning.
func (s *Session) pump(src, dst *peer, direction string) {
	defer s.wg.Done()

	for {
		messageType, data, err := src.conn.ReadMessage()
		if err != nil {
			s.handleReadError(src, dst, err)
			return
		}

		_ = src.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))

		if !s.active.Load() {
			s.logger.Warn("message dropped, session inactive",
				"direction", direction,
				"size", len(data),
			)
			s.metrics.RecordDroppedMessage(s.route, direction)
			return
		}

		if err := dst.writeMessage(messageType, data, s.cfg.WriteTimeout); err != nil {
			s.logger.Warn("forward failed",
				"direction", direction,
				"size", len(data),
				"error", err,
			)
			s.teardown(websocket.CloseInternalServerErr, "forward failed", initiatorGateway, dst)
			return
		}

		s.countMessage(direction, len(data))
	}
}

// handleReadError translates a read failure on src into a close on dst.
// A close frame from the peer propagates verbatim; transport errors map to
// 1006 (reset), 1001 (timeout), or 1011 (anything else). The failing side
// needs no explicit close, its transport is already gone.
func (s *Session) handleReadError(src, dst *peer, err error) {
	code, reason := translateError(err)
	s.teardown(code, reason, src.name, dst)
}

// keepalive pings both peers at the configured interval while the session
// is active. Teardown cancels it synchronously via the done channel; the
// active check guards the race where a tick and teardown land together, so
// no ping is sent after teardown is visible.
func (s *Session) keepalive() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		if !s.active.Load() {
			return
		}

		for _, p := range []*peer{s.client, s.backend} {
			if err := p.writeControl(websocket.PingMessage, nil, s.cfg.WriteTimeout); err != nil {
				s.logger.Debug("keepalive ping failed",
					"peer", p.name,
					"error", err,
				)
				s.teardown(websocket.CloseGoingAway, "keepalive failed", p.name, s.other(p))
				return
			}
		}
	}
}

// other returns the opposite peer.
func (s *Session) other(p *peer) *peer {
	if p == s.client {
		return s.backend
	}
	return s.client
}

// teardown marks the session inactive exactly once, logs duration and
// counters, and closes the surviving peer with the given code and reason.
// Concurrent triggers from both sides collapse into a single teardown; the
// loser of the CAS is a no-op.
func (s *Session) teardown(code int, reason, initiator string, survivor *peer) {
	if !s.active.CompareAndSwap(true, false) {
		return
	}

	s.closeCode = code
	s.closeReason = reason
	s.initiator = initiator
	close(s.done)
	duration := time.Since(s.start)

	s.logger.Info("relay session ended",
		"initiator", initiator,
		"close_code", code,
		"close_reason", reason,
		"duration_ms", duration.Milliseconds(),
		"messages_to_backend", s.toBackend.Load(),
		"messages_to_client", s.toClient.Load(),
	)
	s.metrics.SessionEnded(s.route, initiator, duration)

	peers := []*peer{survivor}
	if survivor == nil {
		peers = []*peer{s.client, s.backend}
	}
	closeMsg := websocket.FormatCloseMessage(code, reason)
	for _, p := range peers {
		if err := p.writeControl(websocket.CloseMessage, closeMsg, s.cfg.WriteTimeout); err != nil {
			s.logger.Debug("failed to send close frame",
				"peer", p.name,
				"error", err,
			)
		}
	}

	// Unblock both read pumps. Closing the connections makes their pending
	// reads fail; the pumps' subsequent teardown calls lose the CAS above.
	_ = s.client.conn.Close()
	_ = s.backend.conn.Close()
}

// countMessage updates counters and metrics for one forwarded message.
func (s *Session) countMessage(direction string, size int) {
	switch direction {
	case directionToBackend:
		s.toBackend.Add(1)
	case directionToClient:
		s.toClient.Add(1)
	}
	s.metrics.RecordMessage(s.route, direction, size)
}

// translateError maps a read error to the close code and reason used for
// the surviving peer.
func translateError(err error) (int, string) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		code := closeErr.Code
		if code == websocket.CloseNoStatusReceived {
			// 1005 is reserved and must not be sent on the wire.
			code = websocket.CloseNormalClosure
		}
		return code, closeErr.Text
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return websocket.CloseGoingAway, "peer timed out"
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return websocket.CloseAbnormalClosure, "connection reset"
	}

	return websocket.CloseInternalServerErr, "relay error"
}
