// Package puzzle wires C1-C5 together: it accepts a template and a
// corpus, runs theme selection and the supervised solve, and returns a
// FilledPuzzle. Grounded on internal/puzzle/generator.go's
// GeneratePuzzle pipeline shape (validate config -> defaults -> build
// -> fill -> assemble), generalized from grid-generation-then-clue-fill
// to template-or-random-grid-then-CSP-fill.
package puzzle

import (
	"time"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/solver"
)

// Metadata is the FilledPuzzle's descriptive block (spec.md §6's
// Template.metadata, carried through to the result).
type Metadata struct {
	Name        string
	Description string
	Difficulty  grid.Difficulty
	Theme       string
	CreatedAt   time.Time
}

// FilledPuzzle is the Outputs.FilledPuzzle structure from spec.md §6.
type FilledPuzzle struct {
	ID           string
	Grid         *grid.Grid
	FilledSlots  map[grid.SlotID]string
	ThemeEntries map[grid.SlotID]string
	Slots        []*grid.Slot
	Statistics   solver.Statistics
	Metadata     Metadata
}
