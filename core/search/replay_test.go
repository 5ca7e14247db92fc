package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/geodeplan/core/model"
)

func TestReplaySingleKind(t *testing.T) {
	bp := mustBlueprint(t, 1, [][]int{{2}})
	snaps, err := Replay(bp, 6, []Step{{Kind: model.Ore, Minute: 3}})
	require.NoError(t, err)
	require.Len(t, snaps, 6)

	assert.False(t, snaps[1].HasBuild)
	assert.Equal(t, 2, snaps[1].Resources[model.Ore])
	assert.True(t, snaps[2].HasBuild)
	assert.Equal(t, model.Ore, snaps[2].Built)
	assert.Equal(t, 1, snaps[2].Resources[model.Ore])
	assert.Equal(t, 2, snaps[2].Producers[model.Ore])
	assert.Equal(t, 7, FinalStock(bp, snaps))
}

func TestReplayErrors(t *testing.T) {
	bp := mustBlueprint(t, 1, [][]int{{2}})
	cases := map[string][]Step{
		"unaffordable": {{Kind: model.Ore, Minute: 1}},
		"out of order": {{Kind: model.Ore, Minute: 4}, {Kind: model.Ore, Minute: 3}},
		"past horizon": {{Kind: model.Ore, Minute: 9}},
		"unknown kind": {{Kind: model.Geode, Minute: 3}},
	}
	for name, plan := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Replay(bp, 6, plan)
			if !errors.Is(err, ErrInfeasiblePlan) {
				t.Fatalf("expected ErrInfeasiblePlan, got %v", err)
			}
		})
	}
	_, err := Replay(model.Blueprint{}, 6, nil)
	assert.ErrorIs(t, err, model.ErrInvalidBlueprint)
	assert.Equal(t, 0, FinalStock(bp, nil))
}
