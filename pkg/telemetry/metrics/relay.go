package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/hermes/pkg/config"
)

// RelayMetrics tracks metrics for relay sessions.
//
// Metrics:
//   - mercator_hermes_sessions_active: currently active relay sessions
//   - mercator_hermes_sessions_total: completed sessions by route and initiator
//   - mercator_hermes_session_duration_seconds: session duration histogram
//   - mercator_hermes_messages_relayed_total: forwarded messages by direction
//   - mercator_hermes_messages_dropped_total: undeliverable messages by direction
//   - mercator_hermes_message_size_bytes: relayed message size histogram
type RelayMetrics struct {
	sessionsActive  *prometheus.GaugeVec
	sessionsTotal   *prometheus.CounterVec
	sessionDuration *prometheus.HistogramVec
	messagesTotal   *prometheus.CounterVec
	droppedTotal    *prometheus.CounterVec
	messageSize     *prometheus.HistogramVec
}

// NewRelayMetrics creates and registers relay metrics with the provided
// registry.
func NewRelayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		sessionsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_active",
				Help:      "Number of currently active relay sessions",
			},
			[]string{"route"},
		),

		sessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_total",
				Help:      "Total completed relay sessions",
			},
			[]string{"route", "initiator"},
		),

		sessionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "session_duration_seconds",
				Help:      "Duration of relay sessions in seconds",
				Buckets:   cfg.SessionDurationBuckets,
			},
			[]string{"route"},
		),

		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "messages_relayed_total",
				Help:      "Total messages forwarded between peers",
			},
			[]string{"route", "direction"},
		),

		droppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "messages_dropped_total",
				Help:      "Messages dropped because the destination was closed",
			},
			[]string{"route", "direction"},
		),

		messageSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "message_size_bytes",
				Help:      "Size of relayed messages in bytes",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 8), // 64B to 1MB
			},
			[]string{"route", "direction"},
		),
	}

	registry.MustRegister(
		rm.sessionsActive,
		rm.sessionsTotal,
		rm.sessionDuration,
		rm.messagesTotal,
		rm.droppedTotal,
		rm.messageSize,
	)

	return rm
}

// SessionStarted records the start of a relay session.
func (rm *RelayMetrics) SessionStarted(route string) {
	rm.sessionsActive.WithLabelValues(route).Inc()
}

// SessionEnded records the end of a relay session.
func (rm *RelayMetrics) SessionEnded(route, initiator string, duration time.Duration) {
	rm.sessionsActive.WithLabelValues(route).Dec()
	rm.sessionsTotal.WithLabelValues(route, initiator).Inc()
	rm.sessionDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordMessage records a forwarded message.
func (rm *RelayMetrics) RecordMessage(route, direction string, sizeBytes int) {
	rm.messagesTotal.WithLabelValues(route, direction).Inc()
	if sizeBytes > 0 {
		rm.messageSize.WithLabelValues(route, direction).Observe(float64(sizeBytes))
	}
}

// RecordDropped records an undeliverable message.
func (rm *RelayMetrics) RecordDropped(route, direction string) {
	rm.droppedTotal.WithLabelValues(route, direction).Inc()
}
