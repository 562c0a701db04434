package limits

import "sync/atomic"

// SessionLimiter limits the number of simultaneously active gateway sessions.
//
// It is a counting semaphore built on atomic operations:
//
//  1. Atomically increment the counter
//  2. If the counter exceeds the limit: decrement and reject
//  3. Otherwise: admit
//  4. On session end: decrement
//
// A limit of 0 means unlimited; Acquire always succeeds.
//
// SessionLimiter is lock-free and safe for concurrent use.
type SessionLimiter struct {
	limit   int64
	current atomic.Int64
}

// NewSessionLimiter creates a session limiter admitting at most limit
// concurrent sessions. limit <= 0 disables the cap.
//
// Example:
//
//	limiter := limits.NewSessionLimiter(500)
//	if !limiter.Acquire() {
//	    // saturated, reject with 503
//	}
//	defer limiter.Release()
func NewSessionLimiter(limit int) *SessionLimiter {
	if limit < 0 {
		limit = 0
	}
	return &SessionLimiter{limit: int64(limit)}
}

// Acquire attempts to claim a session slot. Returns true if admitted.
// Every successful Acquire must be paired with exactly one Release.
func (l *SessionLimiter) Acquire() bool {
	if l.limit == 0 {
		l.current.Add(1)
		return true
	}

	if l.current.Add(1) > l.limit {
		l.current.Add(-1)
		return false
	}
	return true
}

// Release returns a previously acquired session slot.
func (l *SessionLimiter) Release() {
	l.current.Add(-1)
}

// Current returns the number of active sessions.
func (l *SessionLimiter) Current() int64 {
	return l.current.Load()
}

// Limit returns the configured cap (0 means unlimited).
func (l *SessionLimiter) Limit() int64 {
	return l.limit
}

// Remaining returns the number of free slots, or -1 when unlimited.
func (l *SessionLimiter) Remaining() int64 {
	if l.limit == 0 {
		return -1
	}
	remaining := l.limit - l.current.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}
