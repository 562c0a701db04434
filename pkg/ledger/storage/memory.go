package storage

import (
	"context"
	"log/slog"
	"sync"

	"mercator-hq/hermes/pkg/ledger"
)

// MemoryStorage is an in-memory ledger.Storage implementation. Records are
// lost on restart. Intended for tests and deployments where session history
// does not need to survive the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*ledger.SessionRecord
	closed  bool
	logger  *slog.Logger
}

// NewMemoryStorage creates an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make([]*ledger.SessionRecord, 0),
		logger:  slog.Default().With("component", "ledger-storage", "backend", "memory"),
	}
}

// Store persists a session record.
func (s *MemoryStorage) Store(ctx context.Context, record *ledger.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ledger.ErrStorageClosed
	}

	// Copy so later caller mutation cannot corrupt stored history.
	stored := *record
	s.records = append(s.records, &stored)
	return nil
}

// Query retrieves records matching the filters, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *ledger.Query) ([]*ledger.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ledger.ErrStorageClosed
	}

	matched := make([]*ledger.SessionRecord, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if matches(s.records[i], query) {
			matched = append(matched, s.records[i])
		}
	}

	return paginate(matched, query), nil
}

// Count returns the number of records matching the filters.
func (s *MemoryStorage) Count(ctx context.Context, query *ledger.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ledger.ErrStorageClosed
	}

	var count int64
	for _, record := range s.records {
		if matches(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the filters and returns the number removed.
func (s *MemoryStorage) Delete(ctx context.Context, query *ledger.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ledger.ErrStorageClosed
	}

	kept := make([]*ledger.SessionRecord, 0, len(s.records))
	var deleted int64
	for _, record := range s.records {
		if matches(record, query) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept

	if deleted > 0 {
		s.logger.Debug("deleted session records", "count", deleted)
	}
	return deleted, nil
}

// Close marks the storage as closed. Subsequent operations fail.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

// matches reports whether a record satisfies every filter in the query.
func matches(record *ledger.SessionRecord, query *ledger.Query) bool {
	if query == nil {
		return true
	}
	if query.StartTime != nil && record.StartTime.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.StartTime.After(*query.EndTime) {
		return false
	}
	if query.RoutePrefix != "" && record.RoutePrefix != query.RoutePrefix {
		return false
	}
	if query.Target != "" && record.Target != query.Target {
		return false
	}
	if query.Status != "" && record.Status != query.Status {
		return false
	}
	if query.Initiator != "" && record.Initiator != query.Initiator {
		return false
	}
	return true
}

// paginate applies the query's limit and offset to a matched result set.
func paginate(matched []*ledger.SessionRecord, query *ledger.Query) []*ledger.SessionRecord {
	if query == nil {
		return matched
	}
	offset := query.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}
	return matched
}
