package proxy

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// forwardedHeaders is the fixed allowlist of inbound headers copied verbatim
// onto the outbound handshake. Everything else is dropped. This narrowing is
// deliberate: the gateway never passes arbitrary client headers to backends.
var forwardedHeaders = []string{
	"Authorization",
	"Cookie",
	"User-Agent",
	"Origin",
}

// Negotiation is the outbound handshake input derived from an inbound
// upgrade request: the headers to send and the subprotocols to offer.
//
// Upgrade signaling headers (Upgrade, Connection, Sec-WebSocket-Version,
// Sec-WebSocket-Key) are not part of Negotiation: the dialer always sets
// them to protocol-mandated values, overriding anything the client sent.
// Extension negotiation is likewise owned by the dialer's compression
// setting rather than forwarded.
type Negotiation struct {
	// Header contains the allowlisted headers to send on the outbound
	// handshake.
	Header http.Header

	// Subprotocols are the subprotocols to offer the backend, in
	// preference order.
	Subprotocols []string
}

// BuildOutbound builds the outbound handshake negotiation for an inbound
// upgrade request. resolvedProtocol is the route table's subprotocol for
// this path ("" if none); it is offered only when the client itself did not
// request any subprotocol.
func BuildOutbound(r *http.Request, resolvedProtocol string) Negotiation {
	header := make(http.Header, len(forwardedHeaders))
	for _, name := range forwardedHeaders {
		if values := r.Header.Values(name); len(values) > 0 {
			header[http.CanonicalHeaderKey(name)] = values
		}
	}

	subprotocols := websocket.Subprotocols(r)
	if len(subprotocols) == 0 && resolvedProtocol != "" {
		subprotocols = []string{resolvedProtocol}
	}

	return Negotiation{
		Header:       header,
		Subprotocols: subprotocols,
	}
}
