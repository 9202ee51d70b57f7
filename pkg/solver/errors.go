package solver

import "errors"

// Sentinel errors surfaced by the solver core (C4), matching the
// exit/error taxonomy in spec.md §6-7.
var (
	// ErrNoSolution is returned when the descent exhausts every
	// candidate at every node without reaching a goal state
	// (FAILED_EXHAUSTED or FAILED_FEASIBILITY in the state machine).
	ErrNoSolution = errors.New("solver: no solution found")
	// ErrTimeBudgetExceeded is returned when the wall-clock deadline
	// is reached before a solution or exhaustion. Reaching the
	// recursion depth safety cap only fails that node, like any other
	// dead end.
	ErrTimeBudgetExceeded = errors.New("solver: time budget exceeded")
	// ErrInternalInvariant signals a runtime invariant violation that
	// should never occur; it is logged and surfaced rather than
	// silently tolerated.
	ErrInternalInvariant = errors.New("solver: internal invariant violated")
)
