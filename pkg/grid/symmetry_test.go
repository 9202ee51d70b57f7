package grid

import "testing"

func TestEnforceSymmetry_MirrorsAcrossRectangle(t *testing.T) {
	g := NewEmptyGrid(5, 9)
	g.Cells[0][0].State = Block

	EnforceSymmetry(g)

	if !g.Cells[4][8].IsBlack() {
		t.Error("expected [4][8] to mirror [0][0] in a 5x9 grid")
	}
	if !IsSymmetric(g) {
		t.Error("grid should be symmetric after EnforceSymmetry")
	}
}

func TestEnforceSymmetry_CenterCellOddSquare(t *testing.T) {
	g := NewEmptyGrid(7, 7)
	g.Cells[3][3].State = Block

	EnforceSymmetry(g)

	if !g.Cells[3][3].IsBlack() {
		t.Error("center cell should remain black, it mirrors to itself")
	}
	if !IsSymmetric(g) {
		t.Error("grid should be symmetric")
	}
}

func TestIsSymmetric(t *testing.T) {
	tests := []struct {
		name string
		mark func(g *Grid)
		want bool
	}{
		{"empty grid", func(g *Grid) {}, true},
		{"missing mirror", func(g *Grid) { g.Cells[0][0].State = Block }, false},
		{"complete pair", func(g *Grid) {
			g.Cells[0][0].State = Block
			g.Cells[4][4].State = Block
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewEmptyGrid(5, 5)
			tt.mark(g)
			if got := IsSymmetric(g); got != tt.want {
				t.Errorf("IsSymmetric() = %v, want %v", got, tt.want)
			}
		})
	}
}
