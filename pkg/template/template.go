// Package template parses and validates the Template input from
// spec.md §6 ("grid: H×W cells in {., #}; slots: [...]; optional
// theme_slot_ids; metadata") and turns it into a *grid.Grid plus the
// caller's declared theme-slot set, translated to the grid package's
// own slot ids. Grounded on lesmotsdatche's internal/validate package:
// schema validation catches malformed documents, a second semantic
// pass catches everything JSON Schema can't express (rectangularity,
// declared-vs-computed slot geometry agreement).
package template

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/crossplay/backend/pkg/grid"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var compiled *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	data, err := schemasFS.ReadFile("schemas/template.schema.json")
	if err != nil {
		panic(fmt.Sprintf("template: failed to read schema: %v", err))
	}
	if err := compiler.AddResource("template.schema.json", strings.NewReader(string(data))); err != nil {
		panic(fmt.Sprintf("template: failed to add schema: %v", err))
	}
	compiled, err = compiler.Compile("template.schema.json")
	if err != nil {
		panic(fmt.Sprintf("template: failed to compile schema: %v", err))
	}
}

// ErrInvalidTemplate is spec.md §7's InvalidTemplate error kind: bad
// grid or an inconsistent slot list.
var ErrInvalidTemplate = errors.New("template: invalid template")

// Metadata is the template's optional descriptive block.
type Metadata struct {
	Difficulty  string `json:"difficulty,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Slot is one declared entry in the template's slot list, in the
// caller's own numbering — not yet reconciled with the grid package's
// stable ids.
type Slot struct {
	ID        int    `json:"id"`
	Direction string `json:"direction"` // "A" or "D"
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Length    int    `json:"length"`
}

// Template is the caller-supplied puzzle shape: grid geometry, the
// declared slot list and an optional theme-slot subset.
type Template struct {
	Grid         []string `json:"grid"`
	Slots        []Slot   `json:"slots"`
	ThemeSlotIDs []int    `json:"theme_slot_ids,omitempty"`
	Metadata     Metadata `json:"metadata,omitempty"`
}

// Parse validates raw JSON against the template schema, then unmarshals
// it. Schema failures are reported as ErrInvalidTemplate.
func Parse(data []byte) (*Template, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidTemplate, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return &t, nil
}

type slotPos struct {
	dir      grid.Direction
	row, col int
}

func directionFromString(s string) (grid.Direction, error) {
	switch s {
	case "A":
		return grid.Across, nil
	case "D":
		return grid.Down, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidTemplate, s)
	}
}

// BuildGrid renders the template's grid rows into a *grid.Grid,
// computes slots from the geometry (the grid package, not the
// template, is the authority on slot ids), cross-checks every declared
// slot in t.Slots against what was computed, and translates
// t.ThemeSlotIDs — expressed in the template's own numbering — into
// grid.SlotID values the solver understands.
func BuildGrid(t *Template, minLen int) (*grid.Grid, []grid.SlotID, error) {
	g, err := gridFromRows(t.Grid)
	if err != nil {
		return nil, nil, err
	}
	grid.ComputeSlots(g, minLen)
	if err := grid.Validate(g, minLen); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	computed := make(map[slotPos]grid.SlotID, len(g.Slots))
	for _, s := range g.Slots {
		computed[slotPos{s.Direction, s.Row, s.Col}] = s.ID
	}

	declaredByID := make(map[int]Slot, len(t.Slots))
	for _, ts := range t.Slots {
		dir, err := directionFromString(ts.Direction)
		if err != nil {
			return nil, nil, err
		}
		sid, ok := computed[slotPos{dir, ts.Row, ts.Col}]
		if !ok {
			return nil, nil, fmt.Errorf("%w: declared slot %d (%s at %d,%d) has no matching computed slot", ErrInvalidTemplate, ts.ID, ts.Direction, ts.Row, ts.Col)
		}
		if g.SlotByID(sid).Length != ts.Length {
			return nil, nil, fmt.Errorf("%w: declared slot %d length %d disagrees with computed length %d", ErrInvalidTemplate, ts.ID, ts.Length, g.SlotByID(sid).Length)
		}
		declaredByID[ts.ID] = ts
	}

	themeIDs := make([]grid.SlotID, 0, len(t.ThemeSlotIDs))
	for _, id := range t.ThemeSlotIDs {
		ts, ok := declaredByID[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: theme_slot_ids references undeclared slot %d", ErrInvalidTemplate, id)
		}
		dir, _ := directionFromString(ts.Direction)
		themeIDs = append(themeIDs, computed[slotPos{dir, ts.Row, ts.Col}])
	}
	return g, themeIDs, nil
}

func gridFromRows(rows []string) (*grid.Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidTemplate)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidTemplate, i, len(row), width)
		}
	}
	g := grid.NewEmptyGrid(len(rows), width)
	for r, row := range rows {
		for c, ch := range row {
			switch ch {
			case '.':
				g.Cells[r][c].State = grid.Empty
			case '#':
				g.Cells[r][c].State = grid.Block
			default:
				return nil, fmt.Errorf("%w: row %d col %d has invalid cell %q", ErrInvalidTemplate, r, c, ch)
			}
		}
	}
	return g, nil
}
