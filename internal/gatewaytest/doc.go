// Package gatewaytest provides WebSocket backend doubles for gateway tests:
// an echo backend, backends that reject or stall the handshake, and helpers
// for dialing test servers.
package gatewaytest
