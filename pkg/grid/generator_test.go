package grid

import "testing"

func TestGenerate_ProducesValidSymmetricGrid(t *testing.T) {
	sizes := []struct{ h, w int }{
		{5, 5}, {11, 11}, {15, 15}, {9, 13},
	}
	for _, sz := range sizes {
		g, err := Generate(GeneratorConfig{Height: sz.h, Width: sz.w, Difficulty: Medium, Seed: 42})
		if err != nil {
			t.Fatalf("Generate(%dx%d) error: %v", sz.h, sz.w, err)
		}
		if !IsSymmetric(g) {
			t.Errorf("Generate(%dx%d) produced an asymmetric grid", sz.h, sz.w)
		}
		if has2x2Block(g) {
			t.Errorf("Generate(%dx%d) produced a 2x2 black block", sz.h, sz.w)
		}
		if hasIsolatedCell(g) {
			t.Errorf("Generate(%dx%d) produced an isolated white cell", sz.h, sz.w)
		}
		if !IsConnected(g) {
			t.Errorf("Generate(%dx%d) produced a disconnected grid", sz.h, sz.w)
		}
		if err := Validate(g, MinLen); err != nil {
			t.Errorf("Generate(%dx%d) produced an invalid grid: %v", sz.h, sz.w, err)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Height: 11, Width: 11, Difficulty: Hard, Seed: 7}
	g1, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 11; r++ {
		for c := 0; c < 11; c++ {
			if g1.Cells[r][c].State != g2.Cells[r][c].State {
				t.Fatalf("same seed produced different grids at [%d][%d]", r, c)
			}
		}
	}
}
