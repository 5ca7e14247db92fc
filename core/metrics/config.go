package metrics

import "github.com/kilianp07/geodeplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on this address for the
	// lifetime of a run.
	PrometheusAddr string `json:"prometheus_addr"`
}
