package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/puzzle"
	"github.com/crossplay/backend/pkg/solver"
)

// IPuzDimensions represents the puzzle dimensions.
type IPuzDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IPuzCell represents a cell in the ipuz puzzle grid. Can be "#"
// (block), a number (clue label) or an IPuzCell object.
type IPuzCell struct {
	Cell *int `json:"cell,omitempty"`
}

// IPuzClue represents a clue in ipuz format: [number, "text"]. Since
// clue authoring is out of scope, text is always the answer word
// itself — documented, not a placeholder bug.
type IPuzClue []interface{}

// IPuzClues represents the clues section with Across and Down.
type IPuzClues struct {
	Across []IPuzClue `json:"Across"`
	Down   []IPuzClue `json:"Down"`
}

// IPuzPuzzle represents the complete ipuz format structure.
type IPuzPuzzle struct {
	Version    string          `json:"version"`
	Kind       []string        `json:"kind"`
	Title      string          `json:"title,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Dimensions IPuzDimensions  `json:"dimensions"`
	Puzzle     [][]interface{} `json:"puzzle"`
	Solution   [][]interface{} `json:"solution"`
	Clues      IPuzClues       `json:"clues"`
}

// FormatIPuz converts a FilledPuzzle to the ipuz format
// (http://ipuz.org/), used by most web crossword solvers.
func FormatIPuz(p *puzzle.FilledPuzzle) (*IPuzPuzzle, error) {
	if p == nil {
		return nil, fmt.Errorf("puzzle cannot be nil")
	}
	g := p.Grid
	if g == nil || g.Height <= 0 || g.Width <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions")
	}

	puzzleGrid := make([][]interface{}, g.Height)
	solutionGrid := make([][]interface{}, g.Height)
	for y := 0; y < g.Height; y++ {
		puzzleGrid[y] = make([]interface{}, g.Width)
		solutionGrid[y] = make([]interface{}, g.Width)
		for x := 0; x < g.Width; x++ {
			cell := g.Cells[y][x]
			if cell.IsBlack() {
				puzzleGrid[y][x] = "#"
				solutionGrid[y][x] = "#"
				continue
			}
			if cell.Number > 0 {
				num := cell.Number
				puzzleGrid[y][x] = IPuzCell{Cell: &num}
			} else {
				puzzleGrid[y][x] = 0
			}
			solutionGrid[y][x] = string(cell.Ch)
		}
	}

	var across, down []IPuzClue
	for _, s := range g.Slots {
		answer := p.FilledSlots[s.ID]
		clue := IPuzClue{s.Number, answer}
		if s.Direction == grid.Across {
			across = append(across, clue)
		} else {
			down = append(down, clue)
		}
	}

	return &IPuzPuzzle{
		Version:    "http://ipuz.org/v2",
		Kind:       []string{"http://ipuz.org/crossword#1"},
		Title:      p.Metadata.Name,
		Difficulty: string(p.Metadata.Difficulty),
		Dimensions: IPuzDimensions{Width: g.Width, Height: g.Height},
		Puzzle:     puzzleGrid,
		Solution:   solutionGrid,
		Clues:      IPuzClues{Across: across, Down: down},
	}, nil
}

// ToIPuz converts a FilledPuzzle to ipuz JSON bytes.
func ToIPuz(p *puzzle.FilledPuzzle) ([]byte, error) {
	ipuzPuzzle, err := FormatIPuz(p)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ipuzPuzzle, "", "  ")
}

// FromIPuz reconstructs a FilledPuzzle from ipuz JSON bytes, for the
// convert subcommand. The Solution grid is authoritative for letters
// and blocks; Puzzle is not read, since clue numbers are recomputed
// when pkg/grid re-enumerates slots.
func FromIPuz(data []byte) (*puzzle.FilledPuzzle, error) {
	var ip IPuzPuzzle
	if err := json.Unmarshal(data, &ip); err != nil {
		return nil, fmt.Errorf("output: invalid ipuz puzzle: %w", err)
	}
	h, w := ip.Dimensions.Height, ip.Dimensions.Width
	if h <= 0 || w <= 0 || len(ip.Solution) != h {
		return nil, fmt.Errorf("output: ipuz dimensions disagree with solution grid")
	}

	g := grid.NewEmptyGrid(h, w)
	for r := 0; r < h; r++ {
		row := ip.Solution[r]
		if len(row) != w {
			return nil, fmt.Errorf("output: ipuz solution row %d has %d cells, want %d", r, len(row), w)
		}
		for c := 0; c < w; c++ {
			s, ok := row[c].(string)
			if !ok || s == "#" {
				g.Cells[r][c].State = grid.Block
				continue
			}
			g.Cells[r][c].State = grid.Letter
			g.Cells[r][c].Ch = rune(s[0])
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
	fillFrom := func(clues []IPuzClue, dir grid.Direction) {
		for _, c := range clues {
			if len(c) < 2 {
				continue
			}
			number, _ := c[0].(float64)
			answer, _ := c[1].(string)
			for _, s := range g.Slots {
				if s.Direction == dir && s.Number == int(number) && s.Length == len(answer) {
					filled[s.ID] = answer
					break
				}
			}
		}
	}
	fillFrom(ip.Clues.Across, grid.Across)
	fillFrom(ip.Clues.Down, grid.Down)

	return &puzzle.FilledPuzzle{
		ID:          "",
		Grid:        g,
		FilledSlots: filled,
		Slots:       g.Slots,
		Statistics:  solver.Statistics{},
		Metadata: puzzle.Metadata{
			Name:       ip.Title,
			Difficulty: grid.Difficulty(ip.Difficulty),
		},
	}, nil
}
