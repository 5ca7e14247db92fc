package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlueprint(t *testing.T) {
	b, err := NewBlueprint(7, [][]int{
		{4, 0, 0, 0},
		{2, 0, 0, 0},
		{3, 14, 0, 0},
		{2, 0, 7, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, b.ID)
	assert.Equal(t, 4, b.Kinds())
	assert.Equal(t, Geode, b.Terminal())
	assert.Equal(t, Vector{3, 14, 0, 0}, b.Cost(Obsidian))
	assert.Equal(t, Vector{4, 14, 7, 0}, b.MaxDemand())
	assert.Equal(t, []int{2, 0, 7, 0}, b.Matrix()[3])
	assert.True(t, b.Valid())
}

func TestNewBlueprintSingleKind(t *testing.T) {
	b, err := NewBlueprint(1, [][]int{{2}})
	require.NoError(t, err)
	assert.Equal(t, Ore, b.Terminal())
	assert.Equal(t, Vector{2, 0, 0, 0}, b.MaxDemand())
}

func TestNewBlueprintInvalid(t *testing.T) {
	cases := map[string][][]int{
		"empty":    nil,
		"too wide": {{1, 0, 0, 0, 0}, {1, 0, 0, 0, 0}, {1, 0, 0, 0, 0}, {1, 0, 0, 0, 0}, {1, 0, 0, 0, 0}},
		"ragged":   {{1, 0}, {1}},
		"negative": {{1, 0}, {-1, 0}},
	}
	for name, costs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewBlueprint(1, costs)
			if !errors.Is(err, ErrInvalidBlueprint) {
				t.Fatalf("expected ErrInvalidBlueprint, got %v", err)
			}
		})
	}
	var zero Blueprint
	assert.False(t, zero.Valid())
}

func TestVectorOps(t *testing.T) {
	a := Vector{1, 2, 3, 4}
	b := Vector{1, 1, 1, 1}
	assert.Equal(t, Vector{2, 3, 4, 5}, a.Add(b))
	assert.Equal(t, Vector{0, 1, 2, 3}, a.Sub(b))
	assert.Equal(t, Vector{3, 6, 9, 12}, a.Scale(3))
	assert.Equal(t, Vector{1, 2, 3, 4}, a, "operations must not mutate the receiver")
	assert.True(t, a.Covers(b))
	assert.False(t, b.Covers(a))
	assert.True(t, a.Covers(a))
}

func TestResourceKindNames(t *testing.T) {
	for k := Ore; k <= Geode; k++ {
		got, err := ParseResourceKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseResourceKind(" Obsidian ")
	require.NoError(t, err)
	assert.Equal(t, Obsidian, got)
	_, err = ParseResourceKind("diamond")
	assert.Error(t, err)
	assert.Equal(t, "kind(9)", ResourceKind(9).String())

	var k ResourceKind
	require.NoError(t, k.UnmarshalText([]byte("clay")))
	assert.Equal(t, Clay, k)
	b, _ := Geode.MarshalText()
	assert.Equal(t, "geode", string(b))
}
