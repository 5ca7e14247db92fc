package search

import "github.com/kilianp07/geodeplan/core/model"

// State is a node of the search tree. It is passed by value so a child can
// never alias its parent's vectors.
type State struct {
	Elapsed   int
	Producers model.Vector
	Resources model.Vector
}

func initialState() State {
	var s State
	s.Producers[model.Ore] = 1
	return s
}

// TimeLeft returns the number of steps remaining before horizon.
func (s State) TimeLeft(horizon int) int { return horizon - s.Elapsed }
