package supervisor

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/solver"
)

func buildIndex(t *testing.T, words ...string) *corpus.Index {
	t.Helper()
	entries := make([]corpus.Entry, len(words))
	for i, w := range words {
		entries[i] = corpus.Entry{Raw: w, Count: 10}
	}
	return corpus.Build(entries, 2, 1)
}

func TestRun_SucceedsOnFirstAttempt(t *testing.T) {
	g := grid.NewEmptyGrid(3, 3)
	g.Cells[1][1].State = grid.Block
	grid.ComputeSlots(g, 3)
	idx := buildIndex(t, "CAT", "DOG", "TAD", "CODE", "CAD", "COG", "TOG", "ATE")

	cfg := Config{Solver: solver.DefaultConfig()}
	rng := rand.New(rand.NewSource(1))
	out, err := Run(context.Background(), g, nil, idx, cfg, rng, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", out.Iterations)
	}
	for _, s := range g.Slots {
		if !s.IsFilled() {
			t.Errorf("slot %d not filled", s.ID)
		}
	}
}

func TestRun_ExhaustsBudgetOnImpossibleCorpus(t *testing.T) {
	g := grid.NewEmptyGrid(3, 3)
	g.Cells[1][1].State = grid.Block
	grid.ComputeSlots(g, 3)
	idx := buildIndex(t) // empty corpus: every slot has zero candidates

	cfg := Config{MaxGridIterations: 3, Solver: solver.DefaultConfig()}
	rng := rand.New(rand.NewSource(1))
	_, err := Run(context.Background(), g, nil, idx, cfg, rng, nil)
	if !errors.Is(err, ErrRetryBudgetExhausted) {
		t.Fatalf("Run() error = %v, want ErrRetryBudgetExhausted", err)
	}
	if !errors.Is(err, solver.ErrNoSolution) {
		t.Errorf("Run() error = %v, want it to also unwrap to solver.ErrNoSolution", err)
	}
}

func TestBlockZeroCandidateSlots_BlocksAndStaysSymmetric(t *testing.T) {
	g := grid.NewEmptyGrid(5, 5)
	grid.ComputeSlots(g, 3)
	idx := buildIndex(t) // nothing matches any slot

	changed := blockZeroCandidateSlots(g, idx)
	if !changed {
		t.Fatal("expected at least one slot to be blocked")
	}
	if !grid.IsSymmetric(g) {
		t.Error("grid lost 180-degree symmetry after escape insertion")
	}
}

func TestGrowBlackRatio_RespectsCap(t *testing.T) {
	g := grid.NewEmptyGrid(9, 9)
	rng := rand.New(rand.NewSource(1))
	growBlackRatio(g, 0.3, rng)

	black := 0
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.Cells[r][c].IsBlack() {
				black++
			}
		}
	}
	ratio := float64(black) / float64(g.Height*g.Width)
	if ratio > 0.35 {
		t.Errorf("black ratio = %.2f, want roughly <= 0.3 cap", ratio)
	}
	if !grid.IsSymmetric(g) {
		t.Error("grid lost symmetry after growBlackRatio")
	}
}
