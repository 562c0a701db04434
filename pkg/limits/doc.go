// Package limits provides admission control for the gateway.
//
// The base design places no cap on concurrent relay sessions; SessionLimiter
// is the explicit backpressure extension for deployments that need one. It
// is a lock-free counting semaphore: sessions acquire a slot before the
// outbound connect begins and release it when the relay tears down.
package limits
