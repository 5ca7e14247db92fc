// Package score turns per-blueprint search values into run scores and
// reports.
package score

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/geodeplan/core/search"
)

// Mode selects how entry values combine into a run score.
type Mode string

const (
	// ModeQuality sums blueprint ID times value over all blueprints.
	ModeQuality Mode = "quality"
	// ModeProduct multiplies the values of the first blueprints.
	ModeProduct Mode = "product"
)

// ErrUnknownMode is returned for unsupported scoring modes.
var ErrUnknownMode = errors.New("unknown scoring mode")

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeQuality, ModeProduct:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Entry is the outcome of one blueprint search.
type Entry struct {
	BlueprintID int           `json:"blueprint_id"`
	Value       int           `json:"value"`
	Partial     bool          `json:"partial,omitempty"`
	Stats       search.Stats  `json:"stats"`
	Duration    time.Duration `json:"duration_ns"`
	Plan        []search.Step `json:"plan,omitempty"`
}

// Quality returns the sum of blueprint ID times value.
func Quality(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.BlueprintID * e.Value
	}
	return total
}

// Product multiplies the values of the first limit entries. A limit of zero
// or less uses every entry. An empty input yields zero.
func Product(entries []Entry, limit int) int {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	if limit == 0 {
		return 0
	}
	p := 1
	for _, e := range entries[:limit] {
		p *= e.Value
	}
	return p
}

// Compute scores entries according to mode.
func Compute(mode Mode, entries []Entry, limit int) (int, error) {
	switch mode {
	case ModeQuality:
		return Quality(entries), nil
	case ModeProduct:
		return Product(entries, limit), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Summary describes the distribution of a series.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
}

// Summarize computes count, mean, sample standard deviation and range.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Sum:   floats.Sum(values),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}

// Report is the outcome of a run over a catalogue.
type Report struct {
	RunID    string        `json:"run_id"`
	Mode     Mode          `json:"mode"`
	Horizon  int           `json:"horizon"`
	Limit    int           `json:"limit,omitempty"`
	Score    int           `json:"score"`
	Partial  bool          `json:"partial,omitempty"`
	Entries  []Entry       `json:"entries"`
	Values   Summary       `json:"values"`
	Nodes    Summary       `json:"nodes"`
	Duration time.Duration `json:"duration_ns"`
}

// NewReport scores entries and fills the summaries.
func NewReport(runID string, mode Mode, horizon, limit int, entries []Entry) (*Report, error) {
	total, err := Compute(mode, entries, limit)
	if err != nil {
		return nil, err
	}
	r := &Report{RunID: runID, Mode: mode, Horizon: horizon, Limit: limit, Score: total, Entries: entries}
	values := make([]float64, len(entries))
	nodes := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Value)
		nodes[i] = float64(e.Stats.Nodes)
		if e.Partial {
			r.Partial = true
		}
	}
	r.Values = Summarize(values)
	r.Nodes = Summarize(nodes)
	return r, nil
}
