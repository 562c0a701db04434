package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/hermes/pkg/config"
)

// Collector is the orchestrator for all Prometheus metrics in Mercator
// Hermes. It manages metric registration and provides a unified interface
// for recording metrics from the upgrade orchestrator and relay sessions.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	upgradeMetrics *UpgradeMetrics
	relayMetrics   *RelayMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// private registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.SessionDurationBuckets) == 0 {
		cfg.SessionDurationBuckets = config.DefaultSessionDurationBuckets
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		upgradeMetrics: NewUpgradeMetrics(cfg, registry),
		relayMetrics:   NewRelayMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordUpgradeAttempt records a single outbound connection attempt.
// result is "success", "timeout", "auth_rejected", or "error".
func (c *Collector) RecordUpgradeAttempt(route, result string) {
	if !c.config.Enabled {
		return
	}
	c.upgradeMetrics.RecordAttempt(route, result)
}

// RecordUpgradeRetry records a scheduled retry of an outbound connection.
func (c *Collector) RecordUpgradeRetry(route string) {
	if !c.config.Enabled {
		return
	}
	c.upgradeMetrics.RecordRetry(route)
}

// RecordUpgradeOutcome records the terminal outcome of an upgrade session.
// outcome is "upgraded", "bad_gateway", "gateway_timeout", "unauthorized",
// or "client_gone". duration covers resolve through handshake completion.
func (c *Collector) RecordUpgradeOutcome(route, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.upgradeMetrics.RecordOutcome(route, outcome, duration)
}

// SessionStarted records the start of a relay session.
func (c *Collector) SessionStarted(route string) {
	if !c.config.Enabled {
		return
	}
	c.relayMetrics.SessionStarted(route)
}

// SessionEnded records the end of a relay session with its duration and
// the initiator of the close ("client", "backend", or "gateway").
func (c *Collector) SessionEnded(route, initiator string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.relayMetrics.SessionEnded(route, initiator, duration)
}

// RecordMessage records a relayed message. direction is "to_backend" or
// "to_client".
func (c *Collector) RecordMessage(route, direction string, sizeBytes int) {
	if !c.config.Enabled {
		return
	}
	c.relayMetrics.RecordMessage(route, direction, sizeBytes)
}

// RecordDroppedMessage records a message that could not be forwarded
// because the destination was already closed.
func (c *Collector) RecordDroppedMessage(route, direction string) {
	if !c.config.Enabled {
		return
	}
	c.relayMetrics.RecordDropped(route, direction)
}
