package model

import (
	"errors"
	"fmt"
)

// ErrInvalidBlueprint is returned for malformed or negative cost tables.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Blueprint is an immutable cost table. Kind 0 is the initial producer and
// the last declared kind is the terminal resource being maximised.
type Blueprint struct {
	ID     int
	kinds  int
	costs  [MaxKinds]Vector
	demand Vector
}

// NewBlueprint builds a blueprint from a square cost matrix where
// costs[k][r] is the amount of resource r needed for one producer of kind k.
func NewBlueprint(id int, costs [][]int) (Blueprint, error) {
	n := len(costs)
	if n == 0 || n > MaxKinds {
		return Blueprint{}, fmt.Errorf("%w: %d kinds, want 1..%d", ErrInvalidBlueprint, n, MaxKinds)
	}
	b := Blueprint{ID: id, kinds: n}
	for k, row := range costs {
		if len(row) != n {
			return Blueprint{}, fmt.Errorf("%w: row %s has %d columns, want %d", ErrInvalidBlueprint, ResourceKind(k), len(row), n)
		}
		for r, c := range row {
			if c < 0 {
				return Blueprint{}, fmt.Errorf("%w: negative cost %d of %s for %s", ErrInvalidBlueprint, c, ResourceKind(r), ResourceKind(k))
			}
			b.costs[k][r] = c
			if c > b.demand[r] {
				b.demand[r] = c
			}
		}
	}
	return b, nil
}

// Kinds returns the number of resource kinds in play.
func (b Blueprint) Kinds() int { return b.kinds }

// Terminal returns the kind whose final stock is the objective.
func (b Blueprint) Terminal() ResourceKind { return ResourceKind(b.kinds - 1) }

// Cost returns the resources needed to build one producer of kind k.
func (b Blueprint) Cost(k ResourceKind) Vector { return b.costs[k] }

// MaxDemand returns, per resource, the largest amount any single recipe
// consumes.
func (b Blueprint) MaxDemand() Vector { return b.demand }

// Matrix returns a copy of the cost table as nested slices.
func (b Blueprint) Matrix() [][]int {
	out := make([][]int, b.kinds)
	for k := range out {
		out[k] = append([]int(nil), b.costs[k][:b.kinds]...)
	}
	return out
}

// Valid reports whether the blueprint was built by NewBlueprint.
func (b Blueprint) Valid() bool { return b.kinds > 0 }
