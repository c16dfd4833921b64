// Package prometheus provides Prometheus collectors for shieldcore metrics.
//
// [NewPrometheusExporter] accepts a [shieldcore.Engine] and exposes an [http.Handler]
// that renders all shieldcore counters and histograms in Prometheus text exposition format.
// Counter names are prefixed shieldcore_*_total; the single histogram is
// shieldcore_log_query_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
