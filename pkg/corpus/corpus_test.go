package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuild_NormalizesAggregatesAndFilters(t *testing.T) {
	entries := []Entry{
		{Raw: "cat", Count: 10},
		{Raw: "CAT!", Count: 3}, // duplicate normalized form, lower count: keep max
		{Raw: "a1rc", Count: 2}, // normalizes to ARC
		{Raw: "it", Count: 100}, // shorter than minLen, dropped
	}
	idx := Build(entries, 3, 1)

	words := idx.Lookup(3, "...")
	if len(words) != 2 {
		t.Fatalf("expected 2 words of length 3, got %d", len(words))
	}
	for _, w := range words {
		if w.Text == "CAT" && w.Count != 10 {
			t.Errorf("expected CAT count to be the max (10), got %d", w.Count)
		}
	}
}

func TestBuild_DiscardsBelowMinCount(t *testing.T) {
	entries := []Entry{{Raw: "cat", Count: 1}, {Raw: "dog", Count: 5}}
	idx := Build(entries, 3, 3)
	if idx.HasLength(3) {
		words := idx.Lookup(3, "...")
		for _, w := range words {
			if w.Text == "CAT" {
				t.Error("CAT has count below min_count and should have been discarded")
			}
		}
	}
}

func TestLookup_AllWildcardMatchesEveryWordOfLength(t *testing.T) {
	idx := Build([]Entry{{Raw: "cat", Count: 1}, {Raw: "dog", Count: 1}, {Raw: "arcs", Count: 1}}, 3, 1)
	got := idx.Lookup(3, "...")
	if len(got) != 2 {
		t.Errorf("lookup(3, '...') should equal every length-3 corpus word, got %d", len(got))
	}
}

func TestLookup_PatternFiltersCorrectly(t *testing.T) {
	idx := Build([]Entry{{Raw: "cat", Count: 5}, {Raw: "car", Count: 3}, {Raw: "arc", Count: 1}}, 3, 1)
	got := idx.Lookup(3, "CA.")
	if len(got) != 2 {
		t.Fatalf("expected CAT and CAR to match CA., got %d", len(got))
	}
	if got[0].Text != "CAT" { // descending count, CAT(5) before CAR(3)
		t.Errorf("expected CAT first by descending count, got %s", got[0].Text)
	}
}

func TestLookup_MissingLengthReturnsEmpty(t *testing.T) {
	idx := Build([]Entry{{Raw: "cat", Count: 1}}, 3, 1)
	if got := idx.Lookup(9, "........."); len(got) != 0 {
		t.Errorf("expected no words of an absent length, got %d", len(got))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Cat!", "DOG-123", "  arc ", "already-upper"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
		for _, r := range once {
			if r < 'A' || r > 'Z' {
				t.Errorf("Normalize(%q) left non-alphabetic rune %q", in, r)
			}
		}
	}
}

func TestFreq_NormalizedRatio(t *testing.T) {
	idx := Build([]Entry{{Raw: "cat", Count: 3}, {Raw: "dog", Count: 1}}, 3, 1)
	words := idx.Lookup(3, "...")
	var total float64
	for _, w := range words {
		total += idx.Freq(w)
	}
	if total < 0.99 || total > 1.01 {
		t.Errorf("normalized frequencies across the corpus should sum to ~1, got %f", total)
	}
}

func TestLoadFile_BrodaFormatAndBareWords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := "CAT;70\nDOG;65\nbareword\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/words.txt")
	if err == nil {
		t.Fatal("expected an error for a missing corpus file")
	}
}
