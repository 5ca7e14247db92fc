package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/geodeplan/core/model"
)

// defaultCheckInterval is the number of expanded nodes between context polls.
const defaultCheckInterval = 1024

// Step records one build of a plan. Minute is the step at whose end the new
// producer comes online.
type Step struct {
	Kind   model.ResourceKind `json:"kind"`
	Minute int                `json:"minute"`
}

// Stats counts what the search did.
type Stats struct {
	Nodes        int `json:"nodes"`
	Dominated    int `json:"dominated"`
	Bounded      int `json:"bounded"`
	Saturated    int `json:"saturated"`
	CacheEntries int `json:"cache_entries"`
}

// Result is the outcome of Solve.
type Result struct {
	Value int
	// Plan is only filled when Options.TracePlan is set.
	Plan  []Step
	Stats Stats
	// Partial is set when the search was interrupted; Value is then the best
	// terminal stock found so far.
	Partial bool
}

// Options tune a single Solve call.
type Options struct {
	TracePlan        bool
	DisableDominance bool
	DisableBound     bool
	// CheckInterval is the number of nodes between context polls. Zero uses
	// a default.
	CheckInterval int
}

// MaxTerminal returns the largest terminal stock reachable within horizon
// steps. It is deterministic and safe to call concurrently.
func MaxTerminal(bp model.Blueprint, horizon int) int {
	res, _ := Solve(context.Background(), bp, horizon, Options{})
	return res.Value
}

// Solve runs the branch-and-bound search. When ctx is cancelled the best
// value found so far is returned with Partial set, along with the context
// error.
func Solve(ctx context.Context, bp model.Blueprint, horizon int, opts Options) (Result, error) {
	if !bp.Valid() {
		return Result{}, model.ErrInvalidBlueprint
	}
	s := newSearcher(ctx, bp, horizon, opts)
	root := initialState()
	if err := ctx.Err(); err != nil {
		return Result{Value: root.Resources[s.terminal], Partial: true}, fmt.Errorf("search blueprint %d: %w", bp.ID, err)
	}

	value := s.visit(root)
	if s.best > value {
		value = s.best
	}
	s.stats.CacheEntries = s.cache.Len()
	res := Result{Value: value, Stats: s.stats, Plan: s.plan}
	if s.err != nil {
		res.Partial = true
		return res, fmt.Errorf("search blueprint %d: %w", bp.ID, s.err)
	}
	return res, nil
}

// searcher holds the state of one Solve call.
type searcher struct {
	ctx      context.Context
	horizon  int
	kinds    int
	terminal model.ResourceKind
	costs    [model.MaxKinds]model.Vector
	limits   model.Vector
	order    []model.ResourceKind
	opts     Options
	interval int

	cache *Cache
	best  int
	path  []Step
	plan  []Step
	stats Stats
	err   error
}

func newSearcher(ctx context.Context, bp model.Blueprint, horizon int, opts Options) *searcher {
	s := &searcher{
		ctx:      ctx,
		horizon:  horizon,
		kinds:    bp.Kinds(),
		terminal: bp.Terminal(),
		limits:   bp.MaxDemand(),
		opts:     opts,
		interval: opts.CheckInterval,
		cache:    NewCache(),
	}
	if s.interval <= 0 {
		s.interval = defaultCheckInterval
	}
	for k := 0; k < s.kinds; k++ {
		s.costs[k] = bp.Cost(model.ResourceKind(k))
	}
	s.order = tierOrder(s.costs, s.kinds)
	if opts.TracePlan {
		s.plan = []Step{}
	}
	return s
}

func (s *searcher) visit(st State) int {
	if s.err != nil {
		return 0
	}
	s.stats.Nodes++
	if s.stats.Nodes%s.interval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return 0
		}
	}

	t := s.terminal
	timeLeft := st.TimeLeft(s.horizon)
	if timeLeft <= 0 {
		return st.Resources[t]
	}
	idle := st.Resources[t] + st.Producers[t]*timeLeft

	if !s.opts.DisableDominance && !s.cache.Admit(st) {
		s.stats.Dominated++
		return idle
	}
	if !s.opts.DisableBound && UpperBound(st.Resources[t], st.Producers[t], timeLeft) <= s.best {
		s.stats.Bounded++
		return idle
	}
	if idle > s.best {
		s.best = idle
		if s.opts.TracePlan {
			s.plan = append(s.plan[:0], s.path...)
		}
	}

	branchMax := idle
	for _, k := range s.order {
		wait, ok := s.waitFor(st, k)
		if !ok {
			continue
		}
		done := st.Elapsed + wait + 1
		if done >= s.horizon || (k != t && done >= s.horizon-2) {
			continue
		}
		child := State{
			Elapsed:   done,
			Producers: st.Producers,
			Resources: st.Resources.Add(st.Producers.Scale(wait + 1)).Sub(s.costs[k]),
		}
		child.Producers[k]++

		s.path = append(s.path, Step{Kind: k, Minute: done})
		v := s.visit(child)
		s.path = s.path[:len(s.path)-1]
		if v > branchMax {
			branchMax = v
		}
		if s.err != nil {
			break
		}
	}
	return branchMax
}

// waitFor returns how many steps st must accumulate before a producer of
// kind k is affordable. ok is false when k is saturated or one of its inputs
// has no producer.
func (s *searcher) waitFor(st State, k model.ResourceKind) (wait int, ok bool) {
	if k != s.terminal && st.Producers[k] >= s.limits[k] {
		s.stats.Saturated++
		return 0, false
	}
	cost := s.costs[k]
	for r := 0; r < s.kinds; r++ {
		need := cost[r] - st.Resources[r]
		if need <= 0 {
			continue
		}
		rate := st.Producers[r]
		if rate == 0 {
			return 0, false
		}
		if w := (need + rate - 1) / rate; w > wait {
			wait = w
		}
	}
	return wait, true
}

// tierOrder lists the kinds to try at each node: the terminal kind first,
// then the rest by descending prerequisite depth so strong candidates are
// found early.
func tierOrder(costs [model.MaxKinds]model.Vector, kinds int) []model.ResourceKind {
	tier := make([]int, kinds)
	for pass := 0; pass < kinds; pass++ {
		for k := 0; k < kinds; k++ {
			for r := 0; r < kinds; r++ {
				if r == k || costs[k][r] == 0 {
					continue
				}
				if d := tier[r] + 1; d > tier[k] && d <= kinds {
					tier[k] = d
				}
			}
		}
	}
	terminal := model.ResourceKind(kinds - 1)
	order := make([]model.ResourceKind, 0, kinds)
	for k := kinds - 1; k >= 0; k-- {
		order = append(order, model.ResourceKind(k))
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a == terminal || b == terminal {
			return a == terminal && b != terminal
		}
		return tier[a] > tier[b]
	})
	return order
}
