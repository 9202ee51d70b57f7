package puzzle

import (
	"context"
	"errors"
	"testing"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/template"
)

func buildIndex(t *testing.T, words ...string) *corpus.Index {
	t.Helper()
	entries := make([]corpus.Entry, len(words))
	for i, w := range words {
		entries[i] = corpus.Entry{Raw: w, Count: 10}
	}
	return corpus.Build(entries, 2, 1)
}

func TestGenerate_RandomGridSucceeds(t *testing.T) {
	idx := buildIndex(t, "CAT", "DOG", "TAD", "CODE", "CAD", "COG", "TOG", "ATE")
	gen := NewGenerator(idx, nil)

	cfg := Config{Height: 3, Width: 3, Difficulty: grid.Easy, Seed: 1}
	out, err := gen.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.ID == "" {
		t.Error("FilledPuzzle.ID is empty")
	}
	if len(out.Slots) == 0 {
		t.Error("FilledPuzzle has no slots")
	}
	for _, s := range out.Slots {
		if _, ok := out.FilledSlots[s.ID]; !ok {
			t.Errorf("slot %d missing from FilledSlots", s.ID)
		}
	}
}

func TestGenerate_RejectsBadConfig(t *testing.T) {
	idx := buildIndex(t, "CAT")
	gen := NewGenerator(idx, nil)

	_, err := gen.Generate(context.Background(), Config{Height: 1, Width: 1})
	if !errors.Is(err, ErrConfigError) {
		t.Fatalf("Generate() error = %v, want ErrConfigError", err)
	}
}

func TestGenerate_WithTemplateUsesDeclaredSlots(t *testing.T) {
	const tplJSON = `{
	  "grid": ["...", ".#.", "..."],
	  "slots": [
	    {"id": 1, "direction": "A", "row": 0, "col": 0, "length": 3},
	    {"id": 2, "direction": "A", "row": 2, "col": 0, "length": 3},
	    {"id": 3, "direction": "D", "row": 0, "col": 0, "length": 3},
	    {"id": 4, "direction": "D", "row": 0, "col": 2, "length": 3}
	  ],
	  "theme_slot_ids": [1]
	}`
	tpl, err := template.Parse([]byte(tplJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	idx := buildIndex(t, "CAT", "DOG", "TAD", "CAD", "COG", "TOG", "ATE")
	gen := NewGenerator(idx, nil)

	cfg := Config{Template: tpl, Seed: 1}
	out, err := gen.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out.Slots) != 4 {
		t.Errorf("len(Slots) = %d, want 4", len(out.Slots))
	}
}

func TestGenerate_ThemeFailureStillProducesAPuzzle(t *testing.T) {
	idx := buildIndex(t, "CAT", "DOG", "TAD", "CODE", "CAD", "COG", "TOG", "ATE")
	gen := NewGenerator(idx, nil)

	cfg := Config{Height: 3, Width: 3, Seed: 1, Theme: "animals", ThemeLengthMin: 20, ThemeLengthMax: 25}
	out, err := gen.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out.ThemeEntries) != 0 {
		t.Errorf("ThemeEntries = %v, want empty when no word fits the requested length window", out.ThemeEntries)
	}
}
