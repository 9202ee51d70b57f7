package output

import "testing"

func TestFormatIPuz(t *testing.T) {
	p := buildFilledPuzzle(t)
	ip, err := FormatIPuz(p)
	if err != nil {
		t.Fatalf("FormatIPuz() error = %v", err)
	}
	if ip.Dimensions.Width != 3 || ip.Dimensions.Height != 3 {
		t.Errorf("Dimensions = %+v, want 3x3", ip.Dimensions)
	}
	if ip.Solution[1][1] != "#" {
		t.Errorf("Solution[1][1] = %v, want block", ip.Solution[1][1])
	}
	if ip.Solution[0][0] != "C" {
		t.Errorf("Solution[0][0] = %v, want C", ip.Solution[0][0])
	}
	if len(ip.Clues.Across) != 2 || len(ip.Clues.Down) != 2 {
		t.Errorf("Clues = %d across, %d down, want 2/2", len(ip.Clues.Across), len(ip.Clues.Down))
	}
}

func TestFormatIPuz_RejectsNilPuzzle(t *testing.T) {
	if _, err := FormatIPuz(nil); err == nil {
		t.Fatal("FormatIPuz(nil) error = nil, want an error")
	}
}

func TestToIPuz_ProducesValidJSON(t *testing.T) {
	p := buildFilledPuzzle(t)
	data, err := ToIPuz(p)
	if err != nil {
		t.Fatalf("ToIPuz() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("ToIPuz() produced no bytes")
	}
}
