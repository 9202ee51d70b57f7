package output

import (
	"strconv"
	"testing"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/puzzle"
	"github.com/crossplay/backend/pkg/solver"
)

// buildFilledPuzzle assembles a tiny 3x3 FilledPuzzle fixture (center
// cell blocked, four length-3 slots) shared across the output format
// tests, mirroring the fixture pkg/grid/slots_test.go and
// pkg/solver/solver_test.go use for the same grid shape.
func buildFilledPuzzle(t *testing.T) *puzzle.FilledPuzzle {
	t.Helper()
	g := grid.NewEmptyGrid(3, 3)
	g.Cells[1][1].State = grid.Block
	grid.ComputeSlots(g, 3)

	words := map[string]string{
		"0,0,across": "CAT",
		"2,0,across": "TAD",
		"0,0,down":   "CAT",
		"0,2,down":   "TAD",
	}
	filled := make(map[grid.SlotID]string, len(g.Slots))
	for _, s := range g.Slots {
		key := fmtKey(s)
		word := words[key]
		for i, c := range s.Cells {
			c.State = grid.Letter
			c.Ch = rune(word[i])
		}
		filled[s.ID] = word
	}

	return &puzzle.FilledPuzzle{
		ID:           "test-puzzle-123",
		Grid:         g,
		FilledSlots:  filled,
		ThemeEntries: map[grid.SlotID]string{g.Slots[0].ID: filled[g.Slots[0].ID]},
		Slots:        g.Slots,
		Statistics:   solver.Statistics{Attempts: 4, SuccessfulPlacements: 4},
		Metadata: puzzle.Metadata{
			Name:       "Test Puzzle",
			Difficulty: grid.Easy,
			Theme:      "animals",
		},
	}
}

func fmtKey(s *grid.Slot) string {
	dir := "across"
	if s.Direction == grid.Down {
		dir = "down"
	}
	return strconv.Itoa(s.Row) + "," + strconv.Itoa(s.Col) + "," + dir
}
