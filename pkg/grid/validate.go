package grid

import "fmt"

// ErrInvalidGrid reports why Validate rejected a grid.
type ErrInvalidGrid struct{ Reason string }

func (e *ErrInvalidGrid) Error() string { return "grid: invalid: " + e.Reason }

// Validate checks the is_valid_grid predicate from spec.md §4.2:
// rectangular, every cell in {BLOCK, EMPTY, LETTER}, every slot at
// least minLen long. Cell state enumeration is enforced by the type
// system; this checks rectangularity and slot lengths.
func Validate(g *Grid, minLen int) error {
	if minLen <= 0 {
		minLen = MinLen
	}
	if g == nil || g.Height == 0 || g.Width == 0 {
		return &ErrInvalidGrid{Reason: "empty grid"}
	}
	if len(g.Cells) != g.Height {
		return &ErrInvalidGrid{Reason: fmt.Sprintf("row count %d != Height %d", len(g.Cells), g.Height)}
	}
	for r, row := range g.Cells {
		if len(row) != g.Width {
			return &ErrInvalidGrid{Reason: fmt.Sprintf("row %d has %d cols, want %d", r, len(row), g.Width)}
		}
	}
	for _, s := range g.Slots {
		if s.Length < minLen {
			return &ErrInvalidGrid{Reason: fmt.Sprintf("slot %d has length %d < %d", s.ID, s.Length, minLen)}
		}
	}
	return nil
}

// SetBlock turns the cell at (r, c) into a BLOCK, clearing any letter it
// held. Callers (C5) must re-run ComputeSlots afterward.
func (g *Grid) SetBlock(r, c int) {
	g.Cells[r][c].State = Block
	g.Cells[r][c].Ch = 0
}

// ClearLetter resets a cell to EMPTY.
func (g *Grid) ClearLetter(r, c int) {
	if g.Cells[r][c].State == Letter {
		g.Cells[r][c].State = Empty
		g.Cells[r][c].Ch = 0
	}
}
