package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckLiveness(t *testing.T) {
	checker := New(0)
	status := checker.CheckLiveness(context.Background())

	if status.Status != "ok" {
		t.Errorf("CheckLiveness() status = %q, want %q", status.Status, "ok")
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks registered",
			checks:     nil,
			wantStatus: "ready",
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"routes": func(ctx context.Context) error { return nil },
				"ledger": func(ctx context.Context) error { return nil },
			},
			wantStatus: "ready",
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"routes": func(ctx context.Context) error { return nil },
				"ledger": func(ctx context.Context) error { return errors.New("database locked") },
			},
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("CheckReadiness() status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadinessTimeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("CheckReadiness() with hung check status = %q, want %q", status.Status, "degraded")
	}
}

func TestReadinessHandlerStatusCodes(t *testing.T) {
	checker := New(time.Second)

	rec := httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != 200 {
		t.Errorf("ready handler status = %d, want 200", rec.Code)
	}

	checker.RegisterCheck("broken", func(ctx context.Context) error {
		return errors.New("down")
	})
	rec = httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != 503 {
		t.Errorf("degraded handler status = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("readiness body is not JSON: %v", err)
	}
	if status.Checks["broken"].Message != "down" {
		t.Errorf("check message = %q, want %q", status.Checks["broken"].Message, "down")
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	// Liveness must not run (or be affected by) component checks.
	checker.RegisterCheck("broken", func(ctx context.Context) error {
		return errors.New("down")
	})

	rec := httptest.NewRecorder()
	checker.LivenessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Errorf("liveness handler status = %d, want 200", rec.Code)
	}
}
