package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"mercator-hq/hermes/pkg/ledger"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain session records.
	// 0 means keep records forever (no age-based pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
		MaxRecords:    0,
	}
}

// Pruner enforces retention limits on session records.
type Pruner struct {
	storage   ledger.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage ledger.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "ledger-retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes session records older than the retention period or
// exceeding the max record count. Both phases can run in one cycle.
// Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, &ledger.RetentionError{Op: "prune", Err: err}
		}
		totalDeleted += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, &ledger.RetentionError{Op: "prune", Err: err}
		}
		totalDeleted += deleted
	}

	if totalDeleted > 0 {
		p.logger.Info("session ledger pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.storage.Delete(ctx, &ledger.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("prune by age: %w", err)
	}
	return deleted, nil
}

// pruneByCount deletes the oldest records when the total exceeds MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &ledger.Query{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		return 0, nil
	}

	// Query returns a bounded page, so fetch enough to cover the overflow.
	all, err := p.storage.Query(ctx, &ledger.Query{Limit: int(count)})
	if err != nil {
		return 0, fmt.Errorf("query records: %w", err)
	}
	if len(all) == 0 {
		return 0, nil
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartTime.Before(all[j].StartTime)
	})

	toDelete := len(all) - int(p.config.MaxRecords)
	if toDelete <= 0 {
		return 0, nil
	}
	if toDelete > len(all) {
		toDelete = len(all)
	}

	// Cutoff at the newest record being removed.
	cutoff := all[toDelete-1].StartTime

	deleted, err := p.storage.Delete(ctx, &ledger.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	return deleted, nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
