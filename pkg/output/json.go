package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/puzzle"
	"github.com/crossplay/backend/pkg/solver"
)

// EntryJSON represents one filled slot in the JSON export. There is no
// Text field: clue authoring is out of scope (spec.md §1 Non-goals),
// so Answer is the only content an entry carries.
type EntryJSON struct {
	Number    int    `json:"number"`
	Direction string `json:"direction"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Answer    string `json:"answer"`
	Length    int    `json:"length"`
	Theme     bool   `json:"theme,omitempty"`
}

// StatisticsJSON mirrors solver.Statistics for the JSON export: the
// spec.md §6 Outputs fields (attempts through success_rate) plus the
// SPEC_FULL.md supplemented run-summary fields, with each field typed
// to match its solver.Statistics counterpart instead of being
// collapsed to int64.
type StatisticsJSON struct {
	Attempts             int64         `json:"attempts"`
	Backtracks           int64         `json:"backtracks"`
	WordsTried           int64         `json:"words_tried"`
	SuccessfulPlacements int64         `json:"successful_placements"`
	FailedPlacements     int64         `json:"failed_placements"`
	TimeMs               int64         `json:"time_ms"`
	SuccessRate          float64       `json:"success_rate"`
	DifficultSlots       []grid.SlotID `json:"difficult_slots,omitempty"`
	AttemptsBySlot       map[grid.SlotID]int `json:"attempts_by_slot,omitempty"`
	BeamWidthFinal       int           `json:"beam_width_final"`
	MaxBacktrackFinal    int           `json:"max_backtrack_final"`
}

func statisticsJSON(s solver.Statistics) StatisticsJSON {
	return StatisticsJSON{
		Attempts:             s.Attempts,
		Backtracks:           s.Backtracks,
		WordsTried:           s.WordsTried,
		SuccessfulPlacements: s.SuccessfulPlacements,
		FailedPlacements:     s.FailedPlacements,
		TimeMs:               s.TimeMs,
		SuccessRate:          s.SuccessRate,
		DifficultSlots:       s.DifficultSlots,
		AttemptsBySlot:       s.AttemptsBySlot,
		BeamWidthFinal:       s.BeamWidthFinal,
		MaxBacktrackFinal:    s.MaxBacktrackFinal,
	}
}

// PuzzleJSON represents a FilledPuzzle in the JSON export format.
type PuzzleJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Difficulty string         `json:"difficulty"`
	Theme      string         `json:"theme,omitempty"`
	CreatedAt  string         `json:"createdAt"`
	Grid       [][]string     `json:"grid"`
	Across     []EntryJSON    `json:"across"`
	Down       []EntryJSON    `json:"down"`
	Statistics StatisticsJSON `json:"statistics"`
}

// FormatJSON converts a FilledPuzzle to PuzzleJSON.
func FormatJSON(p *puzzle.FilledPuzzle) *PuzzleJSON {
	rows := make([][]string, p.Grid.Height)
	for r := 0; r < p.Grid.Height; r++ {
		rows[r] = make([]string, p.Grid.Width)
		for c := 0; c < p.Grid.Width; c++ {
			cell := p.Grid.Cells[r][c]
			if cell.IsBlack() {
				rows[r][c] = "."
				continue
			}
			rows[r][c] = string(cell.Ch)
		}
	}

	var across, down []EntryJSON
	for _, s := range p.Slots {
		entry := EntryJSON{
			Number:    s.Number,
			Direction: s.Direction.String(),
			Row:       s.Row, Col: s.Col,
			Answer: p.FilledSlots[s.ID],
			Length: s.Length,
			Theme:  isThemeSlot(p, s.ID),
		}
		if s.Direction == grid.Across {
			across = append(across, entry)
		} else {
			down = append(down, entry)
		}
	}

	return &PuzzleJSON{
		ID:         p.ID,
		Name:       p.Metadata.Name,
		Difficulty: string(p.Metadata.Difficulty),
		Theme:      p.Metadata.Theme,
		CreatedAt:  p.Metadata.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Grid:       rows,
		Across:     across,
		Down:       down,
		Statistics: statisticsJSON(p.Statistics),
	}
}

func isThemeSlot(p *puzzle.FilledPuzzle, id grid.SlotID) bool {
	_, ok := p.ThemeEntries[id]
	return ok
}

// MarshalJSON serializes a PuzzleJSON to JSON bytes.
func (p *PuzzleJSON) MarshalJSON() ([]byte, error) {
	type Alias PuzzleJSON
	return json.Marshal((*Alias)(p))
}

// ToJSON converts a FilledPuzzle to indented JSON bytes.
func ToJSON(p *puzzle.FilledPuzzle) ([]byte, error) {
	return json.MarshalIndent(FormatJSON(p), "", "  ")
}

// FromJSON reconstructs a FilledPuzzle from bytes previously produced
// by ToJSON, for the convert subcommand. The grid's own slot
// enumeration is authoritative (as in pkg/template): entries are
// matched back to the recomputed slots by (direction, row, col)
// rather than trusted verbatim, so a hand-edited export with a
// disagreeing row/col is caught rather than silently misfiled.
func FromJSON(data []byte) (*puzzle.FilledPuzzle, error) {
	var pj PuzzleJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("output: invalid JSON puzzle: %w", err)
	}
	if len(pj.Grid) == 0 {
		return nil, fmt.Errorf("output: JSON puzzle has an empty grid")
	}

	height, width := len(pj.Grid), len(pj.Grid[0])
	g := grid.NewEmptyGrid(height, width)
	for r, row := range pj.Grid {
		if len(row) != width {
			return nil, fmt.Errorf("output: grid row %d has %d cells, want %d", r, len(row), width)
		}
		for c, cell := range row {
			if cell == "." {
				g.Cells[r][c].State = grid.Block
				continue
			}
			g.Cells[r][c].State = grid.Letter
			g.Cells[r][c].Ch = rune(cell[0])
		}
	}
	grid.ComputeSlots(g, grid.MinLen)

	type posKey struct {
		dir      grid.Direction
		row, col int
	}
	bySlotPos := make(map[posKey]*grid.Slot, len(g.Slots))
	for _, s := range g.Slots {
		bySlotPos[posKey{s.Direction, s.Row, s.Col}] = s
	}

	filled := make(map[grid.SlotID]string)
	themeEntries := make(map[grid.SlotID]string)
	for _, entries := range [][]EntryJSON{pj.Across, pj.Down} {
		for _, e := range entries {
			dir := grid.Across
			if e.Direction == "down" {
				dir = grid.Down
			}
			s, ok := bySlotPos[posKey{dir, e.Row, e.Col}]
			if !ok {
				return nil, fmt.Errorf("output: entry at (%d,%d) %s has no matching slot in the recomputed grid", e.Row, e.Col, e.Direction)
			}
			filled[s.ID] = e.Answer
			if e.Theme {
				themeEntries[s.ID] = e.Answer
			}
		}
	}

	return &puzzle.FilledPuzzle{
		ID:           pj.ID,
		Grid:         g,
		FilledSlots:  filled,
		ThemeEntries: themeEntries,
		Slots:        g.Slots,
		Statistics: solver.Statistics{
			Attempts:             pj.Statistics.Attempts,
			Backtracks:           pj.Statistics.Backtracks,
			WordsTried:           pj.Statistics.WordsTried,
			SuccessfulPlacements: pj.Statistics.SuccessfulPlacements,
			FailedPlacements:     pj.Statistics.FailedPlacements,
			TimeMs:               pj.Statistics.TimeMs,
			SuccessRate:          pj.Statistics.SuccessRate,
			DifficultSlots:       pj.Statistics.DifficultSlots,
			AttemptsBySlot:       pj.Statistics.AttemptsBySlot,
			BeamWidthFinal:       pj.Statistics.BeamWidthFinal,
			MaxBacktrackFinal:    pj.Statistics.MaxBacktrackFinal,
		},
		Metadata: puzzle.Metadata{
			Name:       pj.Name,
			Difficulty: grid.Difficulty(pj.Difficulty),
			Theme:      pj.Theme,
		},
	}, nil
}
