// Package supervisor implements C5, the escape-and-retry loop that
// sits above the solver core: on a failed solve it relaxes search
// budgets, raises black-square density (growBlackRatio) in the second
// half of its attempts and inserts black squares aggressively before
// its last attempt, then re-invokes C4 with a fresh search state.
// Grounded on
// internal/puzzle/production.go's ProductionPipeline batch/retry
// orchestration, generalized from "retry N independent candidates"
// to "retry N grid mutations of the same candidate".
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/solver"
)

// ErrRetryBudgetExhausted is returned when max_grid_iterations outer
// attempts all end in FAILED_* without a solution.
var ErrRetryBudgetExhausted = errors.New("supervisor: no solution within max_grid_iterations")

// Config carries the C5 options from spec.md §4.5 plus the C4 config
// each attempt is seeded from.
type Config struct {
	MaxGridIterations int     // default 20
	MaxBlackRatio     float64 // cap on regrowth, default 0.4
	Solver            solver.Config
	MinLen            int
}

func (c *Config) setDefaults() {
	if c.MaxGridIterations == 0 {
		c.MaxGridIterations = 20
	}
	if c.MaxBlackRatio == 0 {
		c.MaxBlackRatio = 0.4
	}
	if c.MinLen == 0 {
		c.MinLen = grid.MinLen
	}
}

// Outcome is the supervisor's result: the winning solve plus a short
// narrative of what was tried, per spec.md §7 ("a brief narrative
// describing the final configuration tried and the stopping reason").
type Outcome struct {
	Result     *solver.Result
	Iterations int
	Narrative  string
}

// Run drives C4 under escalating budgets and, on the last iteration,
// aggressive black-square insertion, per spec.md §4.5. preAssigned
// slots (e.g. a placed theme entry) are preserved across grid
// mutations by id as long as their cells remain; a mutation that
// blocks a pre-assigned slot's cells forfeits it for the remainder of
// the run — a user-facing failure at that point belongs to the caller,
// not to this loop, since it only ever removes candidate slots.
func Run(ctx context.Context, g *grid.Grid, preAssigned map[grid.SlotID]string, idx *corpus.Index, cfg Config, rng *rand.Rand, logger *logrus.Logger) (*Outcome, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}

	sConfig := cfg.Solver
	sConfig.setDefaults()
	cache := solver.NewPlacementCache(sConfig.PlacementCacheLimit)

	var lastErr error
	var lastStats solver.Statistics

	for attempt := 1; attempt <= cfg.MaxGridIterations; attempt++ {
		res, err := solver.Solve(ctx, g, preAssigned, idx, sConfig, cache, rng, logger)
		if err == nil {
			return &Outcome{
				Result:     res,
				Iterations: attempt,
				Narrative:  fmt.Sprintf("solved on attempt %d/%d with max_backtrack=%d beam_width=%d", attempt, cfg.MaxGridIterations, sConfig.MaxBacktrack, sConfig.BeamWidth),
			}, nil
		}
		lastErr = err
		if res != nil {
			lastStats = res.Stats
		}
		if errors.Is(err, solver.ErrInternalInvariant) {
			return nil, fmt.Errorf("supervisor: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ErrRetryBudgetExhausted
		default:
		}

		if attempt == cfg.MaxGridIterations {
			break
		}

		cache.Reset()

		if attempt > cfg.MaxGridIterations/2 {
			growBlackRatio(g, cfg.MaxBlackRatio, rng)
		}
		sConfig.MaxBacktrack = min(10000, int(float64(sConfig.MaxBacktrack)*1.5))
		sConfig.BeamWidth = min(3000, int(float64(sConfig.BeamWidth)*1.3))

		if attempt == cfg.MaxGridIterations-1 {
			applyAggressiveInsertion(g, idx, lastStats, cfg.MinLen)
		}

		grid.ComputeSlots(g, cfg.MinLen)
		preAssigned = survivingPreAssignments(g, preAssigned)
	}

	logger.WithFields(logrus.Fields{
		"iterations": cfg.MaxGridIterations,
		"last_error": lastErr,
	}).Warn("supervisor: retry budget exhausted")

	// Wrap both sentinels: ErrRetryBudgetExhausted identifies that the
	// supervisor's own outer loop (not a single solve) is what gave up,
	// while the wrapped lastErr preserves the spec.md §7 taxonomy kind
	// (NoSolution or TimeBudgetExceeded) for errors.Is dispatch.
	return &Outcome{
		Iterations: cfg.MaxGridIterations,
		Narrative:  fmt.Sprintf("exhausted %d attempts, last failure: %v", cfg.MaxGridIterations, lastErr),
	}, fmt.Errorf("%w: %w", ErrRetryBudgetExhausted, lastErr)
}

// survivingPreAssignments drops pre-assignments whose slot id no
// longer exists after ComputeSlots re-enumerated the mutated grid.
func survivingPreAssignments(g *grid.Grid, pre map[grid.SlotID]string) map[grid.SlotID]string {
	out := make(map[grid.SlotID]string, len(pre))
	for id, w := range pre {
		if g.SlotByID(id) != nil {
			out[id] = w
		}
	}
	return out
}

// growBlackRatio adds a handful of additional symmetric BLOCK pairs to
// raise density, capped at maxRatio, without re-running the full
// generator (the grid may have been supplied by the caller, not
// generated). Existing letters are cleared to EMPTY when displaced by
// a new BLOCK so the next solve starts from a consistent state.
func growBlackRatio(g *grid.Grid, maxRatio float64, rng *rand.Rand) {
	total := g.Height * g.Width
	blackCount := 0
	var white []struct{ r, c int }
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.Cells[r][c].IsBlack() {
				blackCount++
			} else {
				white = append(white, struct{ r, c int }{r, c})
			}
		}
	}
	if float64(blackCount)/float64(total) >= maxRatio {
		return
	}
	target := int(maxRatio * float64(total))
	step := total / 20
	if step < 2 {
		step = 2
	}
	rng.Shuffle(len(white), func(i, j int) { white[i], white[j] = white[j], white[i] })

	added := 0
	for _, p := range white {
		if blackCount >= target || added >= step {
			break
		}
		if g.Cells[p.r][p.c].IsBlack() {
			continue
		}
		g.SetBlock(p.r, p.c)
		mr, mc := mirrorCoord(g.Height, g.Width, p.r, p.c)
		selfMirror := mr == p.r && mc == p.c
		g.SetBlock(mr, mc)
		if has2x2BlockAt(g, p.r, p.c) || has2x2BlockAt(g, mr, mc) {
			g.Cells[p.r][p.c].State = grid.Empty
			g.Cells[mr][mc].State = grid.Empty
			continue
		}
		blackCount++
		added++
		if !selfMirror {
			blackCount++
		}
	}
	grid.RepairIsolatedCells(g)
}

func mirrorCoord(h, w, r, c int) (int, int) { return h - 1 - r, w - 1 - c }

func has2x2BlockAt(g *grid.Grid, r, c int) bool {
	for dr := -1; dr <= 0; dr++ {
		for dc := -1; dc <= 0; dc++ {
			r0, c0 := r+dr, c+dc
			if r0 < 0 || c0 < 0 || r0+1 >= g.Height || c0+1 >= g.Width {
				continue
			}
			if g.Cells[r0][c0].IsBlack() && g.Cells[r0][c0+1].IsBlack() &&
				g.Cells[r0+1][c0].IsBlack() && g.Cells[r0+1][c0+1].IsBlack() {
				return true
			}
		}
	}
	return false
}

// applyAggressiveInsertion runs the four-step cascade from spec.md
// §4.5 on the final attempt, in order, stopping at the first step
// that changes anything.
func applyAggressiveInsertion(g *grid.Grid, idx *corpus.Index, stats solver.Statistics, minLen int) {
	if blockZeroCandidateSlots(g, idx) {
		return
	}
	if splitMostAttemptedSlot(g, stats) {
		return
	}
	if blockMostConstrainedSlot(g, idx) {
		return
	}
	blockTopThreeAttempted(g, stats)
}

// Step 1: block every slot whose current pattern has no corpus match.
func blockZeroCandidateSlots(g *grid.Grid, idx *corpus.Index) bool {
	changed := false
	for _, s := range g.Slots {
		if s.IsFilled() {
			continue
		}
		if len(idx.Lookup(s.Length, s.Pattern())) == 0 {
			for _, c := range s.Cells {
				g.SetBlock(c.Row, c.Col)
			}
			mirrorBlocks(g, s)
			changed = true
		}
	}
	if changed {
		grid.EnforceSymmetry(g)
		grid.RepairIsolatedCells(g)
	}
	return changed
}

// Step 2: if any slot's attempt counter exceeds 5, BLOCK its midpoint
// cell, provided the slot is long enough to survive the split.
func splitMostAttemptedSlot(g *grid.Grid, stats solver.Statistics) bool {
	for _, id := range stats.DifficultSlots {
		s := g.SlotByID(id)
		if s == nil || s.Length <= 4 {
			continue
		}
		blockMidpoint(g, s)
		return true
	}
	return false
}

// Step 3: BLOCK the midpoint of the most constrained remaining slot
// (lowest candidate count), provided length > 3.
func blockMostConstrainedSlot(g *grid.Grid, idx *corpus.Index) bool {
	var best *grid.Slot
	bestCount := -1
	for _, s := range g.Slots {
		if s.IsFilled() || s.Length <= 3 {
			continue
		}
		n := len(idx.Lookup(s.Length, s.Pattern()))
		if best == nil || n < bestCount {
			best, bestCount = s, n
		}
	}
	if best == nil {
		return false
	}
	blockMidpoint(g, best)
	return true
}

// Step 4: BLOCK the one-third point of each of the top three
// most-attempted slots with length > 3.
func blockTopThreeAttempted(g *grid.Grid, stats solver.Statistics) {
	type ranked struct {
		id    grid.SlotID
		tries int
	}
	var all []ranked
	for _, s := range g.Slots {
		all = append(all, ranked{s.ID, stats.AttemptsBySlot[s.ID]})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].tries > all[j].tries })

	count := 0
	for _, r := range all {
		if count >= 3 {
			break
		}
		s := g.SlotByID(r.id)
		if s == nil || s.Length <= 3 {
			continue
		}
		idx := s.Length / 3
		cell := s.Cells[idx]
		g.SetBlock(cell.Row, cell.Col)
		mr, mc := mirrorCoord(g.Height, g.Width, cell.Row, cell.Col)
		g.SetBlock(mr, mc)
		count++
	}
	if count > 0 {
		grid.RepairIsolatedCells(g)
	}
}

func blockMidpoint(g *grid.Grid, s *grid.Slot) {
	cell := s.Cells[s.Length/2]
	g.SetBlock(cell.Row, cell.Col)
	mr, mc := mirrorCoord(g.Height, g.Width, cell.Row, cell.Col)
	g.SetBlock(mr, mc)
	grid.RepairIsolatedCells(g)
}

// mirrorBlocks blocks the 180-degree counterpart of every cell in s.
func mirrorBlocks(g *grid.Grid, s *grid.Slot) {
	for _, c := range s.Cells {
		mr, mc := mirrorCoord(g.Height, g.Width, c.Row, c.Col)
		g.SetBlock(mr, mc)
	}
}
