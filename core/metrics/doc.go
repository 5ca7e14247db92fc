// Package metrics defines the events emitted while solving blueprints and
// the sink interfaces that record them. Concrete sinks (Prometheus, InfluxDB,
// MQTT) live under infra and register themselves with the factory registry
// so they can be selected from configuration; NewMetricsSink combines
// several configured sinks into a MultiSink.
package metrics
