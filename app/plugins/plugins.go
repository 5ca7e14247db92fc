// Package plugins links the built-in metrics sinks into the binary. Each
// sink package registers its factory on import.
package plugins

import (
	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
	_ "github.com/kilianp07/geodeplan/infra/metrics"
	_ "github.com/kilianp07/geodeplan/infra/mqtt"
)

// MetricsSinks lists the sink types available to the configuration.
func MetricsSinks() []string { return coremetrics.SinkTypes() }
