// Package solver implements C4, the constraint-satisfaction search
// core: dynamic slot and candidate ordering, backtracking,
// forward-checking and optional parallel candidate exploration.
// Grounded on internal/puzzle's AC-3/MRV gridfiller and on
// crosswords.py's select_words_recursive/try_slot, expressed as an
// explicit SolverContext passed through the recursion rather than the
// module-level counters and caches the Python source uses (spec.md §9).
package solver

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
)

// Result is what Solve returns on success: the filled grid, the
// slot-id -> word assignment and run statistics.
type Result struct {
	Grid   *grid.Grid
	Placed map[grid.SlotID]string
	Stats  Statistics
}

type solveCtx struct {
	idx     *corpus.Index
	cfg     Config
	cache   *PlacementCache
	rng     *rand.Rand
	logger  *logrus.Logger
	cnt     counters
	deadline time.Time
	depthCap int
}

// Solve runs the backtracking search described in spec.md §4.4 and
// returns Ok (as *Result), ErrTimeBudgetExceeded or ErrNoSolution.
// preAssigned holds the theme entry (or any other pre-placed slot)
// and is never backtracked.
func Solve(ctx context.Context, g *grid.Grid, preAssigned map[grid.SlotID]string, idx *corpus.Index, cfg Config, cache *PlacementCache, rng *rand.Rand, logger *logrus.Logger) (*Result, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cache == nil {
		cache = NewPlacementCache(cfg.PlacementCacheLimit)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}

	preSet := make(map[grid.SlotID]bool, len(preAssigned))
	for id, word := range preAssigned {
		preSet[id] = true
		s := g.SlotByID(id)
		if s != nil {
			placeWord(s, word)
		}
	}

	depthCap := cfg.DepthSafety
	if depthCap == 0 {
		depthCap = 3 * len(g.Slots)
	}

	sc := &solveCtx{
		idx: idx, cfg: cfg, cache: cache, rng: rng, logger: logger,
		deadline: time.Now().Add(time.Duration(cfg.TimeoutMs) * time.Millisecond),
		depthCap: depthCap,
	}

	start := time.Now()
	state := newSearchState(g, preSet, cfg.MaxBacktrack)

	ok, timedOut, err := sc.solveNode(ctx, g, state, 0)

	stats := Statistics{
		MaxBacktrackFinal: cfg.MaxBacktrack,
		BeamWidthFinal:    cfg.BeamWidth,
	}
	stats.Attempts, stats.Backtracks, stats.WordsTried, stats.SuccessfulPlacements, stats.FailedPlacements = sc.cnt.snapshot()
	stats.TimeMs = time.Since(start).Milliseconds()
	if stats.Attempts > 0 {
		stats.SuccessRate = float64(stats.SuccessfulPlacements) / float64(stats.Attempts)
	}
	stats.AttemptsBySlot = make(map[grid.SlotID]int, len(state.attempts))
	for id, n := range state.attempts {
		stats.AttemptsBySlot[id] = n
	}
	for _, s := range g.Slots {
		if state.attempts[s.ID] > 5 {
			stats.DifficultSlots = append(stats.DifficultSlots, s.ID)
		}
	}
	sort.SliceStable(stats.DifficultSlots, func(i, j int) bool {
		return state.attempts[stats.DifficultSlots[i]] > state.attempts[stats.DifficultSlots[j]]
	})

	if err != nil {
		return nil, err
	}
	if timedOut {
		return &Result{Stats: stats}, ErrTimeBudgetExceeded
	}
	if !ok {
		return &Result{Stats: stats}, ErrNoSolution
	}

	placed := make(map[grid.SlotID]string, len(g.Slots))
	for _, s := range g.Slots {
		placed[s.ID] = wordOf(s)
	}
	return &Result{Grid: g, Placed: placed, Stats: stats}, nil
}

func wordOf(s *grid.Slot) string {
	buf := make([]byte, len(s.Cells))
	for i, c := range s.Cells {
		buf[i] = byte(c.Ch)
	}
	return string(buf)
}

// solveNode is one recursive descent step. It returns (solved,
// timedOut, err). A nil err with solved=false is an ordinary silent
// exhaustion per spec.md §4.4.8.
func (sc *solveCtx) solveNode(ctx context.Context, g *grid.Grid, state *searchState, depth int) (bool, bool, error) {
	atomicAdd(&sc.cnt.attempts, 1)

	if time.Now().After(sc.deadline) {
		return false, true, nil
	}
	if depth >= sc.depthCap {
		return false, false, nil
	}
	select {
	case <-ctx.Done():
		return false, false, nil
	default:
	}

	if len(state.unassigned) == 0 {
		// Every slot has a word, but a cell whose run in one direction
		// fell below MinLen was never covered by a slot in that
		// direction (spec.md S5, reachable once growBlackRatio pushes
		// density up); checkFullyAssigned catches that and this leaf
		// is an ordinary dead end, not an internal bug — backtrack.
		if !checkFullyAssigned(g) {
			return false, false, nil
		}
		return true, false, nil
	}

	// Feasibility pre-check (forward-checking): every unassigned slot
	// must still admit at least one candidate.
	lookups := make(map[grid.SlotID][]corpus.Word, len(state.unassigned))
	for id := range state.unassigned {
		s := g.SlotByID(id)
		words := sc.idx.Lookup(s.Length, s.Pattern())
		if len(words) == 0 {
			return false, false, nil
		}
		lookups[id] = words
	}

	chosen := sc.pickSlot(g, state, lookups)
	state.attempts[chosen.ID]++
	attempts := state.attempts[chosen.ID]
	if attempts > 3 {
		factor := 1 + float64(attempts)/10
		nm := int(float64(state.localMax[chosen.ID]) * factor)
		if nm > 10000 {
			nm = 10000
		}
		state.localMax[chosen.ID] = nm
	}

	weight := sc.cfg.FrequencyWeights[sc.cfg.Difficulty]
	cands := scoreCandidates(lookups[chosen.ID], sc.idx, weight, attempts, sc.rng)
	limit := state.localMax[chosen.ID]
	if limit <= 0 || limit > len(cands) {
		limit = len(cands)
	}
	cands = cands[:limit]

	delete(state.unassigned, chosen.ID)
	solved := false
	defer func() {
		if !solved {
			state.unassigned[chosen.ID] = true
		}
	}()

	if sc.cfg.ParallelCandidates && len(cands) > 1 {
		ok, timedOut, err := sc.solveParallel(ctx, g, state, chosen, cands, depth)
		solved = ok // stays solved; skip the deferred re-add
		return ok, timedOut, err
	}

	for _, cand := range cands {
		atomicAdd(&sc.cnt.wordsTried, 1)
		if !feasible(sc.cache, chosen, cand.Text) {
			atomicAdd(&sc.cnt.failed, 1)
			continue
		}
		placeWord(chosen, cand.Text)
		atomicAdd(&sc.cnt.successful, 1)

		ok, timedOut, err := sc.solveNode(ctx, g, state, depth+1)
		if err != nil || timedOut {
			undoWord(g, chosen)
			return false, timedOut, err
		}
		if ok {
			solved = true
			return true, false, nil
		}
		undoWord(g, chosen)
		atomicAdd(&sc.cnt.backtracks, 1)
	}
	return false, false, nil
}

// solveParallel evaluates the top candidates concurrently, each on an
// independent grid/state clone, bounded by BeamWidth, first success
// wins and cancels siblings at their next candidate boundary
// (spec.md §4.4.6).
func (sc *solveCtx) solveParallel(parentCtx context.Context, g *grid.Grid, state *searchState, chosen *grid.Slot, cands []corpus.Word, depth int) (bool, bool, error) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(sc.cfg.BeamWidth))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winnerGrid *grid.Grid
	var timedOutAny bool
	var firstErr error

	for _, cand := range cands {
		cand := cand
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem.Acquire(ctx, 1) != nil {
				return
			}
			defer sem.Release(1)

			select {
			case <-ctx.Done():
				return
			default:
			}

			g2 := g.Clone()
			state2 := state.clone()
			chosen2 := g2.SlotByID(chosen.ID)

			atomicAdd(&sc.cnt.wordsTried, 1)
			if !feasible(sc.cache, chosen2, cand.Text) {
				atomicAdd(&sc.cnt.failed, 1)
				return
			}
			placeWord(chosen2, cand.Text)
			atomicAdd(&sc.cnt.successful, 1)

			ok, timedOut, err := sc.solveNode(ctx, g2, state2, depth+1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if timedOut {
				timedOutAny = true
			}
			if ok && winnerGrid == nil {
				winnerGrid = g2
				cancel()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return false, false, firstErr
	}
	if winnerGrid != nil {
		g.AdoptFrom(winnerGrid)
		return true, false, nil
	}
	return false, timedOutAny, nil
}

func (sc *solveCtx) pickSlot(g *grid.Grid, state *searchState, lookups map[grid.SlotID][]corpus.Word) *grid.Slot {
	var best *grid.Slot
	var bestScore float64
	for id := range state.unassigned {
		s := g.SlotByID(id)
		score := slotScore(g, s, state.attempts[id], len(lookups[id]))
		if best == nil || score > bestScore ||
			(score == bestScore && lessLex(s, best)) {
			best, bestScore = s, score
		}
	}
	return best
}

func lessLex(a, b *grid.Slot) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.Direction < b.Direction
}

func scoreCandidates(words []corpus.Word, idx *corpus.Index, weight float64, attempts int, rng *rand.Rand) []corpus.Word {
	type scored struct {
		w corpus.Word
		s float64
	}
	tmp := make([]scored, len(words))
	for i, w := range words {
		tmp[i] = scored{w, candidateScore(w, idx, weight, attempts, rng)}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].s > tmp[j].s })
	out := make([]corpus.Word, len(tmp))
	for i, t := range tmp {
		out[i] = t.w
	}
	return out
}

// checkFullyAssigned is the goal test, mirroring
// check_all_letters_connected's in_across and in_down: a white cell
// only counts as solved if it is covered by both an across slot and a
// down slot, not merely if it holds a character. A cell whose run in
// one direction falls below MinLen has no slot in that direction at
// all (ComputeSlots never created one), so it fails this check even
// though the other direction's slot already wrote a letter into it.
func checkFullyAssigned(g *grid.Grid) bool {
	acrossCovered := make([][]bool, g.Height)
	downCovered := make([][]bool, g.Height)
	for r := range acrossCovered {
		acrossCovered[r] = make([]bool, g.Width)
		downCovered[r] = make([]bool, g.Width)
	}
	for _, s := range g.Slots {
		covered := acrossCovered
		if s.Direction == grid.Down {
			covered = downCovered
		}
		for _, cell := range s.Cells {
			covered[cell.Row][cell.Col] = true
		}
	}

	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			cell := g.Cells[r][c]
			if !cell.IsWhite() {
				continue
			}
			if cell.State != grid.Letter || !acrossCovered[r][c] || !downCovered[r][c] {
				return false
			}
		}
	}
	return true
}
