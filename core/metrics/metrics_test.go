package metrics

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

type recordingSink struct {
	searches []SearchEvent
	runs     []RunEvent
	err      error
	closed   bool
}

func (r *recordingSink) RecordSearch(ev SearchEvent) error {
	r.searches = append(r.searches, ev)
	return r.err
}

func (r *recordingSink) RecordRun(ev RunEvent) error {
	r.runs = append(r.runs, ev)
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

// searchOnly does not implement RunRecorder.
type searchOnly struct{ n int }

func (s *searchOnly) RecordSearch(SearchEvent) error { s.n++; return nil }

func TestMultiSinkForwards(t *testing.T) {
	a := &recordingSink{}
	b := &searchOnly{}
	m := NewMultiSink(a, b)
	if err := m.RecordSearch(SearchEvent{BlueprintID: 1, Value: 9}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := m.RecordRun(RunEvent{Mode: "quality", Score: 9}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(a.searches) != 1 || a.searches[0].Value != 9 {
		t.Fatalf("search not forwarded: %+v", a.searches)
	}
	if b.n != 1 {
		t.Fatalf("search-only sink not called")
	}
	if len(a.runs) != 1 {
		t.Fatalf("run not forwarded")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !a.closed {
		t.Fatalf("closer not closed")
	}
}

func TestMultiSinkKeepsGoingOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingSink{err: boom}
	ok := &recordingSink{}
	err := NewMultiSink(failing, ok).RecordSearch(SearchEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(ok.searches) != 1 {
		t.Fatalf("second sink skipped after error")
	}
}

func TestNewMetricsSinkFromConfig(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	var cfg Config
	data := "sinks:\n  - type: nop\n  - type: nop"
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	s, err = NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink with 2 sinks, got %T", s)
	}
}

func TestNewMetricsSinkUnknownType(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"nop"},{"type":"missing"}]}`), &cfg); err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, err := NewMetricsSink(cfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if err := RegisterMetricsSink("nop", func(map[string]any) (MetricsSink, error) { return NopSink{}, nil }); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
