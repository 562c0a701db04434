// Package ledger records the lifecycle of gateway sessions.
//
// Every relay session and every terminal upgrade failure produces a
// SessionRecord: which route matched, which backend was dialed, how many
// attempts the handshake took, how long the session lived, how many
// messages moved in each direction, and how it ended (close code, reason,
// and which side initiated it).
//
// Records flow through an async Recorder (ledger/recorder) into a Storage
// backend (ledger/storage, SQLite or in-memory) and are pruned on a
// schedule by the retention subsystem (ledger/retention).
//
// The ledger is operational history, not a transcript: payloads are never
// stored.
package ledger
