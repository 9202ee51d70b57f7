package solver

import (
	"sync/atomic"

	"github.com/crossplay/backend/pkg/grid"
)

// Statistics is the FilledPuzzle.statistics object from spec.md §6,
// enriched with the run-summary fields gridgpt's CrosswordStats tracks
// (spec_full.md supplement): DifficultSlots and the final dynamic
// budgets C5 reached.
type Statistics struct {
	Attempts             int64
	Backtracks           int64
	WordsTried           int64
	SuccessfulPlacements int64
	FailedPlacements     int64
	TimeMs               int64
	SuccessRate          float64
	DifficultSlots       []grid.SlotID // slots with a per-slot attempt count > 5, descending by attempt count
	AttemptsBySlot       map[grid.SlotID]int
	BeamWidthFinal       int
	MaxBacktrackFinal    int
}

// counters are the atomic-incremented fields referenced by spec.md §5
// ("statistics counters (atomic increments)"); Solve copies their
// values out through snapshot at the end of a solve.
type counters struct {
	attempts, backtracks, wordsTried, successful, failed int64
}

func (c *counters) snapshot() (attempts, backtracks, wordsTried, successful, failed int64) {
	return atomic.LoadInt64(&c.attempts), atomic.LoadInt64(&c.backtracks),
		atomic.LoadInt64(&c.wordsTried), atomic.LoadInt64(&c.successful), atomic.LoadInt64(&c.failed)
}

// atomicAdd is a small wrapper so call sites in solver.go read as plain
// increments regardless of which counter field they touch.
func atomicAdd(addr *int64, delta int64) {
	atomic.AddInt64(addr, delta)
}
