package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSinksRegistered(t *testing.T) {
	assert.Equal(t, []string{"influx", "mqtt", "nop", "prometheus"}, MetricsSinks())
}
