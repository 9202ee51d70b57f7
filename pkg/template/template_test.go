package template

import (
	"errors"
	"strings"
	"testing"
)

const threeByThreeCenterBlock = `{
  "grid": ["...", ".#.", "..."],
  "slots": [
    {"id": 1, "direction": "A", "row": 0, "col": 0, "length": 3},
    {"id": 2, "direction": "A", "row": 2, "col": 0, "length": 3},
    {"id": 3, "direction": "D", "row": 0, "col": 0, "length": 3},
    {"id": 4, "direction": "D", "row": 0, "col": 2, "length": 3}
  ],
  "theme_slot_ids": [1],
  "metadata": {"difficulty": "easy", "name": "test"}
}`

func TestParse_ValidTemplate(t *testing.T) {
	tpl, err := Parse([]byte(threeByThreeCenterBlock))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(tpl.Grid) != 3 {
		t.Errorf("Grid has %d rows, want 3", len(tpl.Grid))
	}
	if len(tpl.Slots) != 4 {
		t.Errorf("Slots has %d entries, want 4", len(tpl.Slots))
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("Parse() error = %v, want ErrInvalidTemplate", err)
	}
}

func TestParse_SchemaRejectsBadDirection(t *testing.T) {
	bad := `{"grid": ["..."], "slots": [{"id": 1, "direction": "X", "row": 0, "col": 0, "length": 3}]}`
	_, err := Parse([]byte(bad))
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("Parse() error = %v, want ErrInvalidTemplate", err)
	}
}

func TestBuildGrid_MatchesDeclaredSlotsAndTranslatesThemeIDs(t *testing.T) {
	tpl, err := Parse([]byte(threeByThreeCenterBlock))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, themeIDs, err := BuildGrid(tpl, 3)
	if err != nil {
		t.Fatalf("BuildGrid() error = %v", err)
	}
	if len(g.Slots) != 4 {
		t.Fatalf("computed %d slots, want 4", len(g.Slots))
	}
	if len(themeIDs) != 1 {
		t.Fatalf("themeIDs has %d entries, want 1", len(themeIDs))
	}
	found := false
	for _, s := range g.Slots {
		if s.ID == themeIDs[0] {
			found = true
			if s.Row != 0 || s.Col != 0 {
				t.Errorf("theme slot resolved to (%d,%d), want (0,0)", s.Row, s.Col)
			}
		}
	}
	if !found {
		t.Error("translated theme slot id does not match any computed slot")
	}
}

func TestBuildGrid_RejectsMismatchedDeclaredLength(t *testing.T) {
	bad := `{
      "grid": ["...", ".#.", "..."],
      "slots": [{"id": 1, "direction": "A", "row": 0, "col": 0, "length": 2}]
    }`
	tpl, err := Parse([]byte(bad))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, _, err = BuildGrid(tpl, 3)
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("BuildGrid() error = %v, want ErrInvalidTemplate", err)
	}
	if !strings.Contains(err.Error(), "length") {
		t.Errorf("error = %q, want it to mention length mismatch", err.Error())
	}
}

func TestBuildGrid_RejectsRaggedGrid(t *testing.T) {
	bad := `{"grid": ["...", ".."], "slots": []}`
	tpl, err := Parse([]byte(bad))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, _, err = BuildGrid(tpl, 3)
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("BuildGrid() error = %v, want ErrInvalidTemplate", err)
	}
}
