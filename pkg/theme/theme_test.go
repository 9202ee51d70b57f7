package theme

import (
	"math/rand"
	"testing"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
)

func testIndex() *corpus.Index {
	return corpus.Build([]corpus.Entry{
		{Raw: "ocean", Count: 50},
		{Raw: "otter", Count: 40},
		{Raw: "beach", Count: 30},
		{Raw: "cabin", Count: 5},
	}, 3, 1)
}

func TestFindCandidates_StringMode(t *testing.T) {
	idx := testIndex()
	cfg := Config{LengthMin: 5, LengthMax: 5, MinFrequency: 1, Mode: String}
	cands, err := FindCandidates(idx, "sea creatures", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(cands))
	}
	if cands[0].Score < cands[len(cands)-1].Score {
		t.Error("candidates should be sorted descending by score")
	}
}

func TestFindCandidates_SemanticModeWithoutOracle(t *testing.T) {
	idx := testIndex()
	cfg := Config{LengthMin: 5, LengthMax: 5, MinFrequency: 1, Mode: Semantic}
	_, err := FindCandidates(idx, "ocean", cfg)
	if err != ErrEmbeddingUnavailable {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestStringSimilarity_SubstringForcesOne(t *testing.T) {
	if s := stringSimilarity("ocean", "the ocean deep"); s != 1.0 {
		t.Errorf("expected 1.0 for a substring match, got %f", s)
	}
}

func TestChoose_WeightedPrefersHigherScore(t *testing.T) {
	cands := []Candidate{{Word: corpus.Word{Text: "HIGH"}, Score: 0.9}, {Word: corpus.Word{Text: "LOW"}, Score: 0.01}}
	rng := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		chosen := Choose(cands, 0.0, 1, true, rng)
		if len(chosen) == 1 {
			counts[chosen[0].Text]++
		}
	}
	if counts["HIGH"] <= counts["LOW"] {
		t.Errorf("weighted choice should favor the higher-scored candidate, got %v", counts)
	}
}

func TestChoose_ThresholdFiltersAndNoRepeat(t *testing.T) {
	cands := []Candidate{
		{Word: corpus.Word{Text: "A"}, Score: 0.9},
		{Word: corpus.Word{Text: "B"}, Score: 0.8},
		{Word: corpus.Word{Text: "C"}, Score: 0.1},
	}
	rng := rand.New(rand.NewSource(2))
	chosen := Choose(cands, 0.5, 2, false, rng)
	if len(chosen) != 2 {
		t.Fatalf("expected 2 selections above threshold, got %d", len(chosen))
	}
	if chosen[0].Text == chosen[1].Text {
		t.Error("Choose must not repeat a selection")
	}
}

func TestPlaceSlot_PrefersDeclaredThemeSlot(t *testing.T) {
	g := grid.NewEmptyGrid(5, 5)
	grid.ComputeSlots(g, 3)

	var declared, other grid.SlotID
	for _, s := range g.Slots {
		if s.Length == 5 {
			if declared == 0 {
				declared = s.ID
			} else if other == 0 {
				other = s.ID
			}
		}
	}
	rng := rand.New(rand.NewSource(3))
	chosen, err := PlaceSlot(g, []grid.SlotID{declared}, "OCEAN", rng)
	if err != nil {
		t.Fatal(err)
	}
	if chosen.ID != declared {
		t.Errorf("expected the declared theme slot %d to be chosen, got %d", declared, chosen.ID)
	}
}

func TestPlaceSlot_FallsBackToAnyMatchingLength(t *testing.T) {
	g := grid.NewEmptyGrid(5, 5)
	grid.ComputeSlots(g, 3)
	rng := rand.New(rand.NewSource(4))
	chosen, err := PlaceSlot(g, nil, "OCEAN", rng)
	if err != nil {
		t.Fatal(err)
	}
	if chosen.Length != 5 {
		t.Errorf("expected a length-5 slot, got length %d", chosen.Length)
	}
}

func TestPlaceSlot_NoMatchingLength(t *testing.T) {
	g := grid.NewEmptyGrid(5, 5)
	grid.ComputeSlots(g, 3)
	rng := rand.New(rand.NewSource(5))
	_, err := PlaceSlot(g, nil, "TOOLONGWORD", rng)
	if err != ErrNoSlotForTheme {
		t.Fatalf("expected ErrNoSlotForTheme, got %v", err)
	}
}
