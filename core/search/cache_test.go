package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/geodeplan/core/model"
)

func TestCacheAdmit(t *testing.T) {
	c := NewCache()
	base := State{Elapsed: 3, Producers: model.Vector{1, 1, 0, 0}, Resources: model.Vector{2, 2, 0, 0}}

	assert.True(t, c.Admit(base), "first visit is admitted")
	assert.False(t, c.Admit(base), "identical state is dominated")

	poorer := base
	poorer.Resources = model.Vector{1, 2, 0, 0}
	assert.False(t, c.Admit(poorer))

	incomparable := base
	incomparable.Resources = model.Vector{3, 1, 0, 0}
	assert.True(t, c.Admit(incomparable))
	assert.Equal(t, 2, c.Len())

	richer := base
	richer.Resources = model.Vector{3, 2, 0, 0}
	assert.True(t, c.Admit(richer))
	assert.Equal(t, 1, c.Len(), "richer state evicts both covered vectors")
	assert.False(t, c.Admit(incomparable))

	otherTime := base
	otherTime.Elapsed = 4
	assert.True(t, c.Admit(otherTime), "different elapsed is a different key")
	otherProducers := base
	otherProducers.Producers[model.Clay] = 2
	assert.True(t, c.Admit(otherProducers), "different producers is a different key")
	assert.Equal(t, 3, c.Keys())
}

func TestUpperBound(t *testing.T) {
	tests := []struct {
		stock, rate, left, want int
	}{
		{0, 0, 0, 0},
		{5, 3, -2, 5},
		{5, 3, 0, 5},
		{0, 0, 1, 0},
		{0, 0, 2, 1},
		{2, 1, 4, 2 + 4 + 6},
		{9, 2, 24, 9 + 48 + 276},
	}
	for _, tt := range tests {
		if got := UpperBound(tt.stock, tt.rate, tt.left); got != tt.want {
			t.Errorf("UpperBound(%d,%d,%d)=%d want %d", tt.stock, tt.rate, tt.left, got, tt.want)
		}
	}
}

func TestUpperBoundIsAdmissible(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	for _, bp := range []model.Blueprint{bp1, bp2} {
		for h := 0; h <= 24; h += 4 {
			if got, bound := MaxTerminal(bp, h), UpperBound(0, 0, h); got > bound {
				t.Fatalf("blueprint %d horizon %d: optimum %d above bound %d", bp.ID, h, got, bound)
			}
		}
	}
}
