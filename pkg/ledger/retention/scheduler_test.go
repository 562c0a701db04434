package retention

import (
	"context"
	"testing"
)

func TestScheduler_StartStop(t *testing.T) {
	pruner := NewPruner(nil, &Config{RetentionDays: 30, PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !pruner.scheduler.IsRunning() {
		t.Error("scheduler not running after Start()")
	}
	if pruner.NextPruning() == nil {
		t.Error("NextPruning() = nil, want scheduled time")
	}

	pruner.Stop()
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop()")
	}
}

func TestScheduler_EmptySchedule(t *testing.T) {
	pruner := NewPruner(nil, &Config{RetentionDays: 30, PruneSchedule: ""})

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() with empty schedule failed: %v", err)
	}
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(nil, &Config{RetentionDays: 30, PruneSchedule: "not a cron expr"})

	if err := pruner.Start(context.Background()); err == nil {
		t.Error("Start() with invalid schedule succeeded, want error")
	}
}
