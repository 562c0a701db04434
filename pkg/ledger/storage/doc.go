// Package storage provides ledger storage backends.
//
// Two backends implement ledger.Storage: an in-memory store for tests and
// ephemeral deployments, and a SQLite store for durable session history.
// The backend is selected by config (gateway.ledger.backend).
package storage
