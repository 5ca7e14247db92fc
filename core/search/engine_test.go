package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/geodeplan/core/model"
)

func mustBlueprint(t testing.TB, id int, costs [][]int) model.Blueprint {
	t.Helper()
	bp, err := model.NewBlueprint(id, costs)
	require.NoError(t, err)
	return bp
}

func exampleBlueprints(t testing.TB) (model.Blueprint, model.Blueprint) {
	bp1 := mustBlueprint(t, 1, [][]int{
		{4, 0, 0, 0},
		{2, 0, 0, 0},
		{3, 14, 0, 0},
		{2, 0, 7, 0},
	})
	bp2 := mustBlueprint(t, 2, [][]int{
		{2, 0, 0, 0},
		{3, 0, 0, 0},
		{3, 8, 0, 0},
		{3, 0, 12, 0},
	})
	return bp1, bp2
}

func TestMaxTerminalExampleBlueprints(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	tests := []struct {
		name    string
		bp      model.Blueprint
		horizon int
		want    int
	}{
		{"bp1 24", bp1, 24, 9},
		{"bp2 24", bp2, 24, 12},
		{"bp1 32", bp1, 32, 56},
		{"bp2 32", bp2, 32, 62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxTerminal(tt.bp, tt.horizon); got != tt.want {
				t.Fatalf("expected %d got %d", tt.want, got)
			}
		})
	}
}

func TestMaxTerminalSingleKind(t *testing.T) {
	bp := mustBlueprint(t, 1, [][]int{{2}})
	// Wait two steps, build during the third, then collect 2/step for three steps.
	assert.Equal(t, 7, MaxTerminal(bp, 6))

	res, err := Solve(context.Background(), bp, 6, Options{TracePlan: true})
	require.NoError(t, err)
	assert.Equal(t, []Step{{Kind: model.Ore, Minute: 3}}, res.Plan)
}

func TestMaxTerminalDegenerateHorizon(t *testing.T) {
	bp1, _ := exampleBlueprints(t)
	for _, h := range []int{-5, 0} {
		assert.Equal(t, 0, MaxTerminal(bp1, h))
	}
	single := mustBlueprint(t, 1, [][]int{{3}})
	assert.Equal(t, 1, MaxTerminal(single, 1))
}

func TestMaxTerminalMonotonicInHorizon(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	single := mustBlueprint(t, 3, [][]int{{2}})
	for _, bp := range []model.Blueprint{bp1, bp2, single} {
		prev := 0
		for h := 0; h <= 24; h++ {
			got := MaxTerminal(bp, h)
			if got < prev {
				t.Fatalf("blueprint %d: horizon %d gave %d, below %d at horizon %d", bp.ID, h, got, prev, h-1)
			}
			prev = got
		}
	}
}

func TestMaxTerminalUnreachableTerminal(t *testing.T) {
	// The terminal kind needs its own resource, which nothing produces.
	selfLocked := mustBlueprint(t, 1, [][]int{{1, 0}, {0, 1}})
	// Clay and obsidian need each other, so geodes are never reachable.
	cyclic := mustBlueprint(t, 2, [][]int{
		{2, 0, 0, 0},
		{2, 0, 1, 0},
		{2, 1, 0, 0},
		{1, 0, 1, 0},
	})
	for _, bp := range []model.Blueprint{selfLocked, cyclic} {
		for _, h := range []int{1, 5, 12, 24} {
			if got := MaxTerminal(bp, h); got != 0 {
				t.Fatalf("blueprint %d horizon %d: expected 0 got %d", bp.ID, h, got)
			}
		}
	}
}

func TestMaxTerminalIsolation(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	first := MaxTerminal(bp1, 24)
	_ = MaxTerminal(bp2, 24)
	assert.Equal(t, first, MaxTerminal(bp1, 24))

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bp := bp1
			if i%2 == 1 {
				bp = bp2
			}
			results[i] = MaxTerminal(bp, 24)
		}(i)
	}
	wg.Wait()
	for i, v := range results {
		want := 9
		if i%2 == 1 {
			want = 12
		}
		assert.Equal(t, want, v, "goroutine %d", i)
	}
}

func TestSolvePlanReplaysToValue(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	for _, bp := range []model.Blueprint{bp1, bp2} {
		res, err := Solve(context.Background(), bp, 24, Options{TracePlan: true})
		require.NoError(t, err)
		require.NotEmpty(t, res.Plan)
		snaps, err := Replay(bp, 24, res.Plan)
		require.NoError(t, err)
		assert.Len(t, snaps, 24)
		assert.Equal(t, res.Value, FinalStock(bp, snaps))
		assert.Positive(t, res.Stats.Nodes)
		assert.Positive(t, res.Stats.CacheEntries)
	}
}

func TestSolveAblationsAgree(t *testing.T) {
	bp1, bp2 := exampleBlueprints(t)
	for _, bp := range []model.Blueprint{bp1, bp2} {
		full, err := Solve(context.Background(), bp, 20, Options{})
		require.NoError(t, err)
		for _, opts := range []Options{
			{DisableBound: true},
			{DisableDominance: true},
		} {
			res, err := Solve(context.Background(), bp, 20, opts)
			require.NoError(t, err)
			assert.Equal(t, full.Value, res.Value, "opts %+v", opts)
		}
	}
}

func TestSolveInvalidBlueprint(t *testing.T) {
	_, err := Solve(context.Background(), model.Blueprint{}, 10, Options{})
	assert.ErrorIs(t, err, model.ErrInvalidBlueprint)
	assert.Equal(t, 0, MaxTerminal(model.Blueprint{}, 10))
}

func TestSolveCancelledBeforeStart(t *testing.T) {
	bp1, _ := exampleBlueprints(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Solve(ctx, bp1, 24, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	assert.True(t, res.Partial)
	assert.Equal(t, 0, res.Value)
}

// expiringCtx reports cancellation after a fixed number of Err calls.
type expiringCtx struct {
	context.Context
	mu    sync.Mutex
	calls int
	limit int
}

func (c *expiringCtx) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls > c.limit {
		return context.DeadlineExceeded
	}
	return nil
}

func TestSolveInterruptedKeepsBestSoFar(t *testing.T) {
	bp1, _ := exampleBlueprints(t)
	ctx := &expiringCtx{Context: context.Background(), limit: 200}
	res, err := Solve(ctx, bp1, 32, Options{CheckInterval: 1, TracePlan: true})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, res.Partial)
	assert.LessOrEqual(t, res.Value, 56)
	assert.GreaterOrEqual(t, res.Value, 0)

	snaps, err := Replay(bp1, 32, res.Plan)
	require.NoError(t, err)
	assert.Equal(t, res.Value, FinalStock(bp1, snaps))
}

func TestTierOrder(t *testing.T) {
	bp1, _ := exampleBlueprints(t)
	s := newSearcher(context.Background(), bp1, 24, Options{})
	assert.Equal(t, []model.ResourceKind{model.Geode, model.Obsidian, model.Clay, model.Ore}, s.order)

	two := mustBlueprint(t, 1, [][]int{{1, 0}, {2, 0}})
	s = newSearcher(context.Background(), two, 5, Options{})
	assert.Equal(t, []model.ResourceKind{model.Clay, model.Ore}, s.order)
}
