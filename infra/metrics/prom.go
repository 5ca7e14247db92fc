package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
)

// PromSink records search events in Prometheus metrics.
type PromSink struct {
	nodes    *prometheus.CounterVec
	pruned   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	value    *prometheus.GaugeVec
	partial  prometheus.Counter
	score    *prometheus.GaugeVec
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var err error
	s := &PromSink{}
	if s.nodes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_nodes_total",
		Help: "Search tree nodes expanded",
	}, []string{"blueprint_id"})); err != nil {
		return nil, err
	}
	if s.pruned, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_pruned_total",
		Help: "Search branches discarded, by reason",
	}, []string{"blueprint_id", "reason"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Wall time of one blueprint search",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"horizon"})); err != nil {
		return nil, err
	}
	if s.value, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "search_terminal_value",
		Help: "Best terminal stock found for a blueprint",
	}, []string{"blueprint_id", "horizon"})); err != nil {
		return nil, err
	}
	if s.partial, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_partial_total",
		Help: "Searches interrupted before completion",
	})); err != nil {
		return nil, err
	}
	if s.score, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "run_score",
		Help: "Score of the last run",
	}, []string{"mode", "horizon"})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSearch updates the counters and gauges for one search.
func (s *PromSink) RecordSearch(ev coremetrics.SearchEvent) error {
	id := strconv.Itoa(ev.BlueprintID)
	horizon := strconv.Itoa(ev.Horizon)
	s.nodes.WithLabelValues(id).Add(float64(ev.Stats.Nodes))
	s.pruned.WithLabelValues(id, "dominated").Add(float64(ev.Stats.Dominated))
	s.pruned.WithLabelValues(id, "bound").Add(float64(ev.Stats.Bounded))
	s.pruned.WithLabelValues(id, "saturated").Add(float64(ev.Stats.Saturated))
	s.duration.WithLabelValues(horizon).Observe(ev.Duration.Seconds())
	s.value.WithLabelValues(id, horizon).Set(float64(ev.Value))
	if ev.Partial {
		s.partial.Inc()
	}
	return nil
}

// RecordRun sets the run score gauge.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.score.WithLabelValues(ev.Mode, strconv.Itoa(ev.Horizon)).Set(float64(ev.Score))
	return nil
}
