package gatewaytest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
)

// ConnPair returns both ends of a live WebSocket connection: the server
// side and the client side. Both are cleaned up with the test.
func ConnPair(t *testing.T) (serverSide, clientSide *websocket.Conn) {
	t.Helper()

	accepted := make(chan *websocket.Conn, 1)
	done := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- conn
		// Hold the handler open; closing it would tear down the hijacked
		// connection on some configurations.
		<-done
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(done) })

	clientSide, resp, err := websocket.DefaultDialer.Dial(WSURL(server), nil)
	if err != nil {
		t.Fatalf("failed to dial pair server: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	serverSide = <-accepted
	t.Cleanup(func() {
		serverSide.Close()
		clientSide.Close()
	})

	return serverSide, clientSide
}
