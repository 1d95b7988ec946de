// Package prometheus publishes goSession engine metrics through
// prometheus/client_golang.
//
// [Exporter] is a prometheus.Collector: register it with the host registry,
// or mount [Exporter.Handler] for a private one. Counter names follow
// gosession_*_total; the single histogram is gosession_guard_latency_seconds.
//
// # What this package must NOT do
//
//   - Register with the global Prometheus registry.
//   - Mutate engine state.
package prometheus
