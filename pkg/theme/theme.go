// Package theme implements C3: ranking and picking a long themed word
// by semantic or string similarity, then choosing a slot to pre-place
// it in. Grounded on gridgpt's ThemeManager (semantic/string scoring,
// weighted-or-uniform selection) but expressed as the capability-set
// embedding interface spec.md §9 calls for, instead of a hard
// dependency on a specific embedding backend.
package theme

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
)

// Mode selects the similarity function used to rank candidates.
type Mode int

const (
	Semantic Mode = iota
	String
)

// ErrEmbeddingUnavailable is returned by FindCandidates in SEMANTIC mode when
// no EmbeddingOracle was supplied.
var ErrEmbeddingUnavailable = errors.New("theme: semantic mode requires an embedding oracle")

// EmbeddingOracle is the capability set spec.md §9 prescribes in place
// of a concrete ML/HTTP dependency: embed text to vectors, and score a
// vector against a matrix of vectors.
type EmbeddingOracle interface {
	Embed(texts []string) ([][]float64, error)
	Similarity(vec []float64, matrix [][]float64) []float64
}

// Candidate is a scored theme-entry candidate.
type Candidate struct {
	Word  corpus.Word
	Score float64
}

// Config parameterizes theme entry selection (spec.md §4.3).
type Config struct {
	LengthMin, LengthMax int
	MinFrequency         int
	Mode                 Mode
	Threshold            float64 // default 0.5
	Weighted             bool    // weight random choice by score; uniform when false
	Oracle               EmbeddingOracle
	Rng                  *rand.Rand
}

// FindCandidates scores every corpus word within [LengthMin,
// LengthMax] with count >= MinFrequency against theme, sorted
// descending by score.
func FindCandidates(idx *corpus.Index, theme string, cfg Config) ([]Candidate, error) {
	words := idx.WordsInRange(cfg.LengthMin, cfg.LengthMax, cfg.MinFrequency)
	if len(words) == 0 {
		return nil, nil
	}

	var out []Candidate
	switch cfg.Mode {
	case Semantic:
		if cfg.Oracle == nil {
			return nil, ErrEmbeddingUnavailable
		}
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Text
		}
		matrix, err := cfg.Oracle.Embed(texts)
		if err != nil {
			return nil, err
		}
		themeVec, err := cfg.Oracle.Embed([]string{theme})
		if err != nil {
			return nil, err
		}
		scores := cfg.Oracle.Similarity(themeVec[0], matrix)
		for i, w := range words {
			out = append(out, Candidate{Word: w, Score: scores[i]})
		}
	case String:
		for _, w := range words {
			out = append(out, Candidate{Word: w, Score: stringSimilarity(w.Text, theme)})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// Choose filters candidates by threshold and picks n of them, either
// weighted by score or uniformly at random, removing each pick from
// the pool so the n picks of one call never repeat a word.
// Mirrors choose_theme_entries' weigh_similarity toggle.
func Choose(candidates []Candidate, threshold float64, n int, weighted bool, rng *rand.Rand) []corpus.Word {
	var pool []Candidate
	for _, c := range candidates {
		if c.Score >= threshold {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	var chosen []corpus.Word
	for i := 0; i < n && len(pool) > 0; i++ {
		var pick int
		if weighted {
			pick = weightedChoice(pool, rng)
		} else {
			pick = rng.Intn(len(pool))
		}
		chosen = append(chosen, pool[pick].Word)
		pool = append(pool[:pick], pool[pick+1:]...)
	}
	return chosen
}

func weightedChoice(pool []Candidate, rng *rand.Rand) int {
	total := 0.0
	for _, c := range pool {
		total += c.Score
	}
	if total <= 0 {
		return rng.Intn(len(pool))
	}
	target := rng.Float64() * total
	running := 0.0
	for i, c := range pool {
		running += c.Score
		if running >= target {
			return i
		}
	}
	return len(pool) - 1
}

// ErrNoSlotForTheme is returned when no slot of any fallback length
// can host the chosen theme word.
var ErrNoSlotForTheme = errors.New("theme: no slot available to host the theme entry")

// PlaceSlot implements the slot-selection policy from spec.md §4.3:
// (1) a declared theme slot of the exact word length, chosen uniformly
// at random; (2) otherwise any slot of the exact length; (3) otherwise
// ErrNoSlotForTheme. It never picks a slot of a different length; the
// closest-length fallback lives in the caller, which uses
// ClosestLength to rerun theme selection with a different length
// window.
func PlaceSlot(g *grid.Grid, themeSlotIDs []grid.SlotID, word string, rng *rand.Rand) (*grid.Slot, error) {
	length := len(word)
	declared := make(map[grid.SlotID]bool, len(themeSlotIDs))
	for _, id := range themeSlotIDs {
		declared[id] = true
	}

	var declaredExact, anyExact []*grid.Slot
	for _, s := range g.Slots {
		if s.Length == length {
			anyExact = append(anyExact, s)
			if declared[s.ID] {
				declaredExact = append(declaredExact, s)
			}
		}
	}
	if len(declaredExact) > 0 {
		return declaredExact[rng.Intn(len(declaredExact))], nil
	}
	if len(anyExact) > 0 {
		return anyExact[rng.Intn(len(anyExact))], nil
	}
	return nil, ErrNoSlotForTheme
}

// ClosestLength returns the available slot length nearest to target,
// or 0 if the grid has no slots at all. Used by callers wishing to
// retry theme search against a different [LengthMin, LengthMax]
// window rather than dropping the theme (spec_full.md supplement).
func ClosestLength(g *grid.Grid, target int) int {
	best, bestDist := 0, -1
	for _, s := range g.Slots {
		d := s.Length - target
		if d < 0 {
			d = -d
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = s.Length, d
		}
	}
	return best
}
