package score

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/geodeplan/core/search"
)

func TestQuality(t *testing.T) {
	entries := []Entry{{BlueprintID: 1, Value: 9}, {BlueprintID: 2, Value: 12}}
	assert.Equal(t, 33, Quality(entries))
	assert.Equal(t, 0, Quality(nil))
}

func TestProduct(t *testing.T) {
	entries := []Entry{{BlueprintID: 1, Value: 56}, {BlueprintID: 2, Value: 62}, {BlueprintID: 3, Value: 2}}
	tests := []struct {
		limit int
		want  int
	}{
		{2, 56 * 62},
		{3, 56 * 62 * 2},
		{0, 56 * 62 * 2},
		{10, 56 * 62 * 2},
	}
	for _, tt := range tests {
		if got := Product(entries, tt.limit); got != tt.want {
			t.Errorf("limit %d: expected %d got %d", tt.limit, tt.want, got)
		}
	}
	assert.Equal(t, 0, Product(nil, 3))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Product ")
	require.NoError(t, err)
	assert.Equal(t, ModeProduct, m)
	_, err = ParseMode("median")
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	_, err = Compute(Mode("median"), nil, 0)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 40.0, s.Sum)

	single := Summarize([]float64{3})
	assert.Equal(t, 0.0, single.StdDev)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestNewReport(t *testing.T) {
	entries := []Entry{
		{BlueprintID: 1, Value: 9, Stats: search.Stats{Nodes: 100}},
		{BlueprintID: 2, Value: 12, Stats: search.Stats{Nodes: 300}, Partial: true},
	}
	r, err := NewReport("run", ModeQuality, 24, 0, entries)
	require.NoError(t, err)
	assert.Equal(t, 33, r.Score)
	assert.True(t, r.Partial)
	assert.InDelta(t, 10.5, r.Values.Mean, 1e-9)
	assert.Equal(t, 400.0, r.Nodes.Sum)

	_, err = NewReport("run", Mode("x"), 24, 0, entries)
	assert.Error(t, err)
}
