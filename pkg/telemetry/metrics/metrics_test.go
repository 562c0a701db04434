package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/hermes/pkg/config"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	cfg := &config.MetricsConfig{
		Enabled:   true,
		Namespace: "mercator",
		Subsystem: "hermes",
	}
	return NewCollector(cfg, prometheus.NewRegistry())
}

// gatherNames returns the set of metric family names in the registry.
func gatherNames(t *testing.T, c *Collector) map[string]bool {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestCollectorRegistersFamilies(t *testing.T) {
	c := newTestCollector(t)

	// Touch one metric of each family so Gather reports them.
	c.RecordUpgradeAttempt("/api", "success")
	c.RecordUpgradeRetry("/api")
	c.RecordUpgradeOutcome("/api", "upgraded", 120*time.Millisecond)
	c.SessionStarted("/api")
	c.RecordMessage("/api", "to_backend", 512)
	c.RecordDroppedMessage("/api", "to_client")
	c.SessionEnded("/api", "client", 3*time.Second)

	want := []string{
		"mercator_hermes_upgrade_attempts_total",
		"mercator_hermes_upgrade_retries_total",
		"mercator_hermes_upgrades_total",
		"mercator_hermes_upgrade_duration_seconds",
		"mercator_hermes_sessions_active",
		"mercator_hermes_sessions_total",
		"mercator_hermes_session_duration_seconds",
		"mercator_hermes_messages_relayed_total",
		"mercator_hermes_messages_dropped_total",
		"mercator_hermes_message_size_bytes",
	}

	names := gatherNames(t, c)
	for _, name := range want {
		if !names[name] {
			t.Errorf("metric family %q not registered", name)
		}
	}
}

func TestSessionGaugeTracksActive(t *testing.T) {
	c := newTestCollector(t)

	c.SessionStarted("/ws")
	c.SessionStarted("/ws")
	c.SessionEnded("/ws", "backend", time.Second)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "mercator_hermes_sessions_active" {
			continue
		}
		got := mf.GetMetric()[0].GetGauge().GetValue()
		if got != 1 {
			t.Errorf("sessions_active = %v, want 1", got)
		}
		return
	}
	t.Fatal("sessions_active gauge not found")
}

func TestDisabledCollectorRecordsNothing(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: false, Namespace: "mercator", Subsystem: "hermes"}
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.RecordUpgradeAttempt("/api", "success")
	c.SessionStarted("/api")
	c.RecordMessage("/api", "to_backend", 100)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter().GetValue() != 0 || m.GetGauge().GetValue() != 0 {
				t.Errorf("metric %q recorded a value while disabled", mf.GetName())
			}
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	c := newTestCollector(t)
	c.RecordUpgradeAttempt("/api", "success")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("metrics handler status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mercator_hermes_upgrade_attempts_total") {
		t.Error("metrics exposition does not contain upgrade_attempts_total")
	}
}
