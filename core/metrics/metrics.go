package metrics

import (
	"errors"
	"time"

	"github.com/kilianp07/geodeplan/core/search"
)

// SearchEvent describes one finished blueprint search.
type SearchEvent struct {
	RunID       string
	BlueprintID int
	Horizon     int
	Value       int
	Stats       search.Stats
	Partial     bool
	Duration    time.Duration
	Time        time.Time
}

// RunEvent summarises a whole run over a catalogue.
type RunEvent struct {
	RunID      string
	Mode       string
	Horizon    int
	Blueprints int
	Score      int
	Partial    bool
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records search results for observability purposes.
type MetricsSink interface {
	RecordSearch(ev SearchEvent) error
}

// RunRecorder is implemented by sinks that also record run summaries.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSearch(SearchEvent) error { return nil }
func (NopSink) RecordRun(RunEvent) error       { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSearch forwards the event to all sinks. Every sink is attempted;
// the errors are joined.
func (m *MultiSink) RecordSearch(ev SearchEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSearch(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRun forwards run summaries to sinks that support them.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RunRecorder); ok {
			if err := rec.RecordRun(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
