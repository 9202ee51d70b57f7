package solver

import "github.com/crossplay/backend/pkg/grid"

// searchState bundles the SolverContext's per-solve mutable fields
// from spec.md §3 ("SearchState") and §9 ("bundle these into a
// SolverContext passed explicitly through the recursion"): the
// unassigned slot set, the per-slot attempt counter, and the adaptive
// per-slot candidate breadth. It is owned by one Solve() call and
// discarded at the end, matching the Ownership note in spec.md §3.
type searchState struct {
	unassigned map[grid.SlotID]bool
	attempts   map[grid.SlotID]int
	localMax   map[grid.SlotID]int
}

func newSearchState(g *grid.Grid, preAssigned map[grid.SlotID]bool, maxBacktrack int) *searchState {
	st := &searchState{
		unassigned: make(map[grid.SlotID]bool),
		attempts:   make(map[grid.SlotID]int),
		localMax:   make(map[grid.SlotID]int),
	}
	for _, s := range g.Slots {
		if !preAssigned[s.ID] {
			st.unassigned[s.ID] = true
		}
		st.localMax[s.ID] = maxBacktrack
	}
	return st
}

// clone deep-copies the state for an independent parallel candidate
// branch (spec.md §4.4.6: "each task works on a distinct copy of the
// grid and placed-stack").
func (st *searchState) clone() *searchState {
	out := &searchState{
		unassigned: make(map[grid.SlotID]bool, len(st.unassigned)),
		attempts:   make(map[grid.SlotID]int, len(st.attempts)),
		localMax:   make(map[grid.SlotID]int, len(st.localMax)),
	}
	for k, v := range st.unassigned {
		out.unassigned[k] = v
	}
	for k, v := range st.attempts {
		out.attempts[k] = v
	}
	for k, v := range st.localMax {
		out.localMax[k] = v
	}
	return out
}
