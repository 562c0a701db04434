package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/ledger"
	"mercator-hq/hermes/pkg/ledger/storage"
)

func storeSessions(t *testing.T, store ledger.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now()
	for i, age := range ages {
		record := &ledger.SessionRecord{
			ID:        fmt.Sprintf("record-%d", i),
			StartTime: now.Add(-age),
			Status:    ledger.StatusCompleted,
		}
		if err := store.Store(context.Background(), record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
}

func TestPruner_PruneByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	storeSessions(t, store,
		100*24*time.Hour, // too old
		40*24*time.Hour,  // too old
		5*24*time.Hour,   // kept
		time.Hour,        // kept
	)

	pruner := NewPruner(store, &Config{RetentionDays: 30})
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted = %d, want 2", deleted)
	}

	count, _ := store.Count(context.Background(), &ledger.Query{})
	if count != 2 {
		t.Errorf("remaining count = %d, want 2", count)
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	storeSessions(t, store,
		5*time.Hour,
		4*time.Hour,
		3*time.Hour,
		2*time.Hour,
		time.Hour,
	)

	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 3})
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted = %d, want 2", deleted)
	}

	// The two oldest must be gone.
	results, err := store.Query(context.Background(), &ledger.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	for _, r := range results {
		if r.ID == "record-0" || r.ID == "record-1" {
			t.Errorf("oldest record %q survived count-based pruning", r.ID)
		}
	}
}

func TestPruner_NothingToPrune(t *testing.T) {
	store := storage.NewMemoryStorage()
	storeSessions(t, store, time.Hour)

	pruner := NewPruner(store, &Config{RetentionDays: 30, MaxRecords: 10})
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted = %d, want 0", deleted)
	}
}

func TestPruner_DisabledRetention(t *testing.T) {
	store := storage.NewMemoryStorage()
	storeSessions(t, store, 1000*24*time.Hour)

	// RetentionDays 0 and MaxRecords 0 disable pruning entirely.
	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 0})
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted = %d, want 0", deleted)
	}
}
