package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/hermes/pkg/config"
)

// UpgradeMetrics tracks metrics for the WebSocket upgrade orchestrator.
//
// Metrics:
//   - mercator_hermes_upgrade_attempts_total: connection attempts by route and result
//   - mercator_hermes_upgrade_retries_total: scheduled retries by route
//   - mercator_hermes_upgrades_total: terminal upgrade outcomes by route
//   - mercator_hermes_upgrade_duration_seconds: time from resolve to outcome
type UpgradeMetrics struct {
	attemptsTotal   *prometheus.CounterVec
	retriesTotal    *prometheus.CounterVec
	outcomesTotal   *prometheus.CounterVec
	upgradeDuration *prometheus.HistogramVec
}

// NewUpgradeMetrics creates and registers upgrade metrics with the provided
// registry.
func NewUpgradeMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpgradeMetrics {
	um := &UpgradeMetrics{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upgrade_attempts_total",
				Help:      "Total outbound connection attempts during WebSocket upgrades",
			},
			[]string{"route", "result"},
		),

		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upgrade_retries_total",
				Help:      "Total scheduled retries of outbound connection attempts",
			},
			[]string{"route"},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upgrades_total",
				Help:      "Terminal outcomes of upgrade sessions",
			},
			[]string{"route", "outcome"},
		),

		upgradeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upgrade_duration_seconds",
				Help:      "Duration from route resolution to upgrade outcome",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		um.attemptsTotal,
		um.retriesTotal,
		um.outcomesTotal,
		um.upgradeDuration,
	)

	return um
}

// RecordAttempt records a single outbound connection attempt.
func (um *UpgradeMetrics) RecordAttempt(route, result string) {
	um.attemptsTotal.WithLabelValues(route, result).Inc()
}

// RecordRetry records a scheduled retry.
func (um *UpgradeMetrics) RecordRetry(route string) {
	um.retriesTotal.WithLabelValues(route).Inc()
}

// RecordOutcome records a terminal upgrade outcome and its duration.
func (um *UpgradeMetrics) RecordOutcome(route, outcome string, duration time.Duration) {
	um.outcomesTotal.WithLabelValues(route, outcome).Inc()
	um.upgradeDuration.WithLabelValues(route).Observe(duration.Seconds())
}
