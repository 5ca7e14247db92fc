package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
	"github.com/kilianp07/geodeplan/core/search"
	"github.com/kilianp07/geodeplan/infra/metrics"
)

// RunScenario searches the scenario blueprint, checks the value against
// the expectation, replays the plan and verifies the value reported to a
// Prometheus sink.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	bp, err := sc.Blueprint()
	if err != nil {
		t.Fatalf("blueprint: %v", err)
	}
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	start := time.Now()
	res, err := search.Solve(context.Background(), bp, sc.Horizon, search.Options{TracePlan: true})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Value != sc.Expected.Value {
		t.Errorf("scenario %s expected %d, got %d", sc.Name, sc.Expected.Value, res.Value)
	}

	snaps, err := search.Replay(bp, sc.Horizon, res.Plan)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got := search.FinalStock(bp, snaps); got != res.Value {
		t.Errorf("scenario %s plan yields %d, search reported %d", sc.Name, got, res.Value)
	}

	ev := coremetrics.SearchEvent{
		BlueprintID: bp.ID,
		Horizon:     sc.Horizon,
		Value:       res.Value,
		Stats:       res.Stats,
		Duration:    time.Since(start),
		Time:        time.Now(),
	}
	if err := sink.RecordSearch(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got, ok := gaugeValue(t, reg, "search_terminal_value"); !ok || int(got) != res.Value {
		t.Errorf("scenario %s gauge = %v (found %v), want %d", sc.Name, got, ok, res.Value)
	}
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) (float64, bool) {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			return m.GetGauge().GetValue(), true
		}
	}
	return 0, false
}
