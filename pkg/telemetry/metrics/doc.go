// Package metrics provides Prometheus metrics for Mercator Hermes.
//
// The Collector owns a private registry and two metric families:
//
//   - upgrade metrics: connection attempts, retries, and handshake outcomes
//     of the WebSocket upgrade orchestrator, labeled by route and result;
//   - relay metrics: active/total session gauges and counters, relayed
//     message counts per direction, and session duration histograms.
//
// Mount Collector.Handler() at the configured metrics path (usually
// /metrics) to expose the registry in Prometheus exposition format.
package metrics
