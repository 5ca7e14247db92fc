package search

import (
	"errors"
	"fmt"

	"github.com/kilianp07/geodeplan/core/model"
)

// ErrInfeasiblePlan is returned by Replay when a plan cannot be executed.
var ErrInfeasiblePlan = errors.New("infeasible plan")

// Snapshot is the factory state at the end of one step of a replay.
type Snapshot struct {
	Minute    int
	Built     model.ResourceKind
	HasBuild  bool
	Producers model.Vector
	Resources model.Vector
}

// Replay executes plan one step at a time and returns a snapshot per step.
// Each build is paid at the start of its step and its producer counts from
// the following step. The last snapshot holds the final terminal stock.
func Replay(bp model.Blueprint, horizon int, plan []Step) ([]Snapshot, error) {
	if !bp.Valid() {
		return nil, model.ErrInvalidBlueprint
	}
	st := initialState()
	snaps := make([]Snapshot, 0, max(horizon, 0))
	next := 0
	for minute := 1; minute <= horizon; minute++ {
		snap := Snapshot{Minute: minute}
		if next < len(plan) && plan[next].Minute < minute {
			return snaps, fmt.Errorf("%w: step %d at minute %d is out of order", ErrInfeasiblePlan, next, plan[next].Minute)
		}
		if next < len(plan) && plan[next].Minute == minute {
			k := plan[next].Kind
			if int(k) < 0 || int(k) >= bp.Kinds() {
				return snaps, fmt.Errorf("%w: unknown kind %s", ErrInfeasiblePlan, k)
			}
			if !st.Resources.Covers(bp.Cost(k)) {
				return snaps, fmt.Errorf("%w: cannot afford %s at minute %d", ErrInfeasiblePlan, k, minute)
			}
			st.Resources = st.Resources.Sub(bp.Cost(k))
			snap.Built, snap.HasBuild = k, true
			next++
		}
		st.Resources = st.Resources.Add(st.Producers)
		if snap.HasBuild {
			st.Producers[snap.Built]++
		}
		st.Elapsed = minute
		snap.Producers, snap.Resources = st.Producers, st.Resources
		snaps = append(snaps, snap)
	}
	if next < len(plan) {
		return snaps, fmt.Errorf("%w: %d steps beyond horizon %d", ErrInfeasiblePlan, len(plan)-next, horizon)
	}
	return snaps, nil
}

// FinalStock returns the terminal stock of the last snapshot, or zero for an
// empty replay.
func FinalStock(bp model.Blueprint, snaps []Snapshot) int {
	if len(snaps) == 0 {
		return 0
	}
	return snaps[len(snaps)-1].Resources[bp.Terminal()]
}
