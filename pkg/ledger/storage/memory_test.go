package storage

import (
	"context"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/ledger"
)

// TestMemoryStorage_StoreAndQuery tests storing and querying records.
func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	record := &ledger.SessionRecord{
		ID:          "test-id-1",
		RequestID:   "req-1",
		RoutePrefix: "/api/chat",
		Path:        "/api/chat/room-7",
		Target:      "ws://backend-1:9000",
		StartTime:   now.Add(-time.Minute),
		EndTime:     now,
		Duration:    time.Minute,
		Attempts:    1,
		Status:      ledger.StatusCompleted,
		CloseCode:   1000,
		Initiator:   "client",
	}

	if err := storage.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	results, err := storage.Query(ctx, &ledger.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(results))
	}
	if results[0].ID != "test-id-1" {
		t.Errorf("Expected ID 'test-id-1', got '%s'", results[0].ID)
	}
}

// TestMemoryStorage_QueryWithTimeRange tests time range filtering.
func TestMemoryStorage_QueryWithTimeRange(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	records := []*ledger.SessionRecord{
		{ID: "old-record", StartTime: now.Add(-2 * time.Hour), Status: ledger.StatusCompleted},
		{ID: "recent-record", StartTime: now.Add(-30 * time.Minute), Status: ledger.StatusCompleted},
		{ID: "new-record", StartTime: now, Status: ledger.StatusCompleted},
	}
	for _, record := range records {
		if err := storage.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	startTime := now.Add(-1 * time.Hour)
	results, err := storage.Query(ctx, &ledger.Query{StartTime: &startTime})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("Expected 2 records, got %d", len(results))
	}
	for _, r := range results {
		if r.ID == "old-record" {
			t.Error("Old record should not be in results")
		}
	}
}

// TestMemoryStorage_QueryWithFilters tests the filter fields.
func TestMemoryStorage_QueryWithFilters(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	records := []*ledger.SessionRecord{
		{ID: "a", StartTime: now, RoutePrefix: "/api/chat", Target: "ws://chat:9000", Status: ledger.StatusCompleted, Initiator: "client"},
		{ID: "b", StartTime: now, RoutePrefix: "/api/chat", Target: "ws://chat:9000", Status: ledger.StatusFailedUpgrade},
		{ID: "c", StartTime: now, RoutePrefix: "/api/events", Target: "ws://events:9000", Status: ledger.StatusCompleted, Initiator: "backend"},
	}
	for _, record := range records {
		if err := storage.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		query   *ledger.Query
		wantIDs []string
	}{
		{
			name:    "filter by route prefix",
			query:   &ledger.Query{RoutePrefix: "/api/chat"},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "filter by status",
			query:   &ledger.Query{Status: ledger.StatusFailedUpgrade},
			wantIDs: []string{"b"},
		},
		{
			name:    "filter by initiator",
			query:   &ledger.Query{Initiator: "backend"},
			wantIDs: []string{"c"},
		},
		{
			name:    "combined filters",
			query:   &ledger.Query{RoutePrefix: "/api/chat", Status: ledger.StatusCompleted},
			wantIDs: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := storage.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(results) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(results), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if results[i].ID != want {
					t.Errorf("results[%d].ID = %q, want %q", i, results[i].ID, want)
				}
			}
		})
	}
}

// TestMemoryStorage_Pagination tests limit and offset.
func TestMemoryStorage_Pagination(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 5; i++ {
		record := &ledger.SessionRecord{
			ID:        string(rune('a' + i)),
			StartTime: now.Add(time.Duration(i) * time.Second),
			Status:    ledger.StatusCompleted,
		}
		if err := storage.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	// Newest first: e, d, c, b, a. Offset 1 limit 2 gives d, c.
	results, err := storage.Query(ctx, &ledger.Query{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d records, want 2", len(results))
	}
	if results[0].ID != "d" || results[1].ID != "c" {
		t.Errorf("got IDs %q, %q, want d, c", results[0].ID, results[1].ID)
	}
}

// TestMemoryStorage_Delete tests record deletion by filter.
func TestMemoryStorage_Delete(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	records := []*ledger.SessionRecord{
		{ID: "keep", StartTime: now, Status: ledger.StatusCompleted},
		{ID: "drop-1", StartTime: now.Add(-48 * time.Hour), Status: ledger.StatusCompleted},
		{ID: "drop-2", StartTime: now.Add(-72 * time.Hour), Status: ledger.StatusCompleted},
	}
	for _, record := range records {
		if err := storage.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	cutoff := now.Add(-24 * time.Hour)
	deleted, err := storage.Delete(ctx, &ledger.Query{EndTime: &cutoff})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Delete() = %d, want 2", deleted)
	}

	count, err := storage.Count(ctx, &ledger.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

// TestMemoryStorage_Closed tests that operations fail after Close.
func TestMemoryStorage_Closed(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	if err := storage.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := storage.Store(ctx, &ledger.SessionRecord{ID: "x"}); err != ledger.ErrStorageClosed {
		t.Errorf("Store() after Close = %v, want ErrStorageClosed", err)
	}
	if _, err := storage.Query(ctx, &ledger.Query{}); err != ledger.ErrStorageClosed {
		t.Errorf("Query() after Close = %v, want ErrStorageClosed", err)
	}
}

// TestMemoryStorage_CopiesRecords verifies stored records are isolated from
// caller mutation.
func TestMemoryStorage_CopiesRecords(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	record := &ledger.SessionRecord{ID: "orig", StartTime: time.Now()}
	if err := storage.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	record.ID = "mutated"

	results, err := storage.Query(ctx, &ledger.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].ID != "orig" {
		t.Errorf("stored record ID = %q, want %q", results[0].ID, "orig")
	}
}
