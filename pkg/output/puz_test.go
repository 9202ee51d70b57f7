package output

import (
	"bytes"
	"testing"
)

func TestFormatPuz_WritesMagicHeaderAndDimensions(t *testing.T) {
	p := buildFilledPuzzle(t)
	data, err := FormatPuz(p)
	if err != nil {
		t.Fatalf("FormatPuz() error = %v", err)
	}

	if !bytes.HasPrefix(data, []byte("ACROSS&DOWN\x00")) {
		t.Fatal("output does not start with the ACROSS&DOWN magic header")
	}
	if len(data) < 0x34+9+9 {
		t.Fatalf("output too short: %d bytes", len(data))
	}
	if data[0x2C] != 3 || data[0x2D] != 3 {
		t.Errorf("width/height bytes = %d/%d, want 3/3", data[0x2C], data[0x2D])
	}
}

func TestFormatPuz_EmbedsSolutionLetters(t *testing.T) {
	p := buildFilledPuzzle(t)
	data, err := FormatPuz(p)
	if err != nil {
		t.Fatalf("FormatPuz() error = %v", err)
	}
	solution := data[0x34 : 0x34+9]
	if !bytes.Contains(solution, []byte("CAT")) {
		t.Errorf("solution region = %q, want it to contain CAT", solution)
	}
	if solution[4] != '.' {
		t.Errorf("solution[4] (center) = %q, want the block marker", solution[4])
	}
}

func TestFormatPuz_EmbedsTitleAndClueStrings(t *testing.T) {
	p := buildFilledPuzzle(t)
	data, err := FormatPuz(p)
	if err != nil {
		t.Fatalf("FormatPuz() error = %v", err)
	}
	if !bytes.Contains(data, []byte("Test Puzzle\x00")) {
		t.Error("output does not contain the puzzle title")
	}
	if !bytes.Contains(data, []byte("CAT\x00")) {
		t.Error("output does not contain a clue string for the CAT entry")
	}
}
