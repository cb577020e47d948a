// Package metrics defines the sink contract for decision telemetry. A Sink
// records expedite decisions; optional recorder interfaces extend it to
// evaluation counts, schedule builds and request outcomes. Sinks are built
// from configuration through a registry and combined with NewMultiSink when
// several are configured. The exporting implementations live in
// infra/metrics.
package metrics
