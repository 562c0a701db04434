package gatewaytest

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// upgrader accepts any origin; test backends are not origin-sensitive.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSURL rewrites an httptest server URL to the ws scheme.
func WSURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

// EchoBackend starts a WebSocket backend that echoes every message back to
// the sender. It accepts whatever subprotocol the client offers first.
func EchoBackend(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := upgrader
		if protocols := websocket.Subprotocols(r); len(protocols) > 0 {
			up.Subprotocols = protocols[:1]
		}

		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// RejectingBackend starts a backend that rejects every handshake with the
// given status and counts the attempts it saw.
func RejectingBackend(t *testing.T, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, http.StatusText(status), status)
	}))
	t.Cleanup(server.Close)
	return server, &attempts
}

// StallingBackend starts a backend that accepts the TCP connection but never
// answers the handshake, holding it open for the given duration. Used to
// exercise connect timeouts.
func StallingBackend(t *testing.T, hold time.Duration) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(hold)
	}))
	t.Cleanup(server.Close)
	return server
}

// RefusedTarget returns a ws URL whose port is closed, so dials fail with
// connection refused.
func RefusedTarget(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()
	return "ws://" + addr
}

// ClosableBackend starts an echo backend that exposes the backend side of
// each accepted connection on a channel, so tests can close or inspect it.
func ClosableBackend(t *testing.T) (*httptest.Server, <-chan *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn

		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, conns
}
