package grid

import "testing"

func TestComputeSlots_AllWhite5x5(t *testing.T) {
	g := NewEmptyGrid(5, 5)
	ComputeSlots(g, 3)

	acrossCount, downCount := 0, 0
	for _, s := range g.Slots {
		if s.Direction == Across {
			acrossCount++
		} else {
			downCount++
		}
		if s.Length != 5 {
			t.Errorf("slot %d has length %d, want 5", s.ID, s.Length)
		}
	}
	if acrossCount != 5 || downCount != 5 {
		t.Errorf("got %d across, %d down; want 5 and 5", acrossCount, downCount)
	}
}

func TestComputeSlots_DiscardsShortRuns(t *testing.T) {
	g := NewEmptyGrid(1, 5)
	g.Cells[0][2].State = Block // splits row into runs of length 2 and 2
	ComputeSlots(g, 3)

	if len(g.Slots) != 0 {
		t.Errorf("expected no slots shorter than MinLen to survive, got %d", len(g.Slots))
	}
}

func TestComputeSlots_CenterBlock3x3(t *testing.T) {
	g := NewEmptyGrid(3, 3)
	g.Cells[1][1].State = Block
	ComputeSlots(g, 3)

	if len(g.Slots) != 4 {
		t.Fatalf("expected 4 slots (2 across rows, 2 down cols), got %d", len(g.Slots))
	}
}

func TestIntersections(t *testing.T) {
	g := NewEmptyGrid(5, 5)
	ComputeSlots(g, 3)

	var firstAcross *Slot
	for _, s := range g.Slots {
		if s.Direction == Across && s.Row == 0 {
			firstAcross = s
			break
		}
	}
	if firstAcross == nil {
		t.Fatal("expected an across slot at row 0")
	}
	inter := Intersections(g, firstAcross)
	if len(inter) != 5 {
		t.Errorf("expected 5 crossing down slots, got %d", len(inter))
	}
}
