// Package proxy implements the protocol gateway data path.
//
// Plain HTTP requests pass through a reverse proxy to the backend resolved
// by the routing table. WebSocket upgrade requests go through the upgrade
// orchestrator: it dials the backend with negotiated headers, retries
// retryable failures with linear backoff, completes the inbound handshake
// exactly once after the backend is confirmed live, and hands both
// connections to a relay session that forwards messages bidirectionally
// with keepalive probing and close propagation.
package proxy
