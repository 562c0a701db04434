package ledger

import (
	"errors"
	"fmt"
)

// ErrRecorderClosed is returned when recording to a recorder that has
// been shut down.
var ErrRecorderClosed = errors.New("ledger recorder is closed")

// ErrStorageClosed is returned by storage operations after Close.
var ErrStorageClosed = errors.New("ledger storage is closed")

// StorageError wraps a failure in a storage backend operation.
type StorageError struct {
	Backend string // "sqlite" or "memory"
	Op      string // "store", "query", "count", "delete"
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError for the given backend and operation.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// RetentionError wraps a failure during retention enforcement.
type RetentionError struct {
	Op  string // "prune", "schedule"
	Err error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("ledger retention %s: %v", e.Op, e.Err)
}

func (e *RetentionError) Unwrap() error {
	return e.Err
}
