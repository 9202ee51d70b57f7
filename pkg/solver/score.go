package solver

import (
	"math/rand"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
)

// maxDim is the larger of the grid's two dimensions, used to normalize
// location_bonus's length term.
func maxDim(g *grid.Grid) int {
	if g.Height > g.Width {
		return g.Height
	}
	return g.Width
}

// slotScore implements SlotScore from spec.md §4.4.3: higher scores
// are filled sooner.
func slotScore(g *grid.Grid, s *grid.Slot, attempts int, lookupCount int) float64 {
	fixed := s.FixedLetters()
	intersections := intersectionsWithPlaced(g, s)

	var availability float64
	if lookupCount == 0 {
		availability = 0
	} else {
		availability = min64(30, 5*(1+float64(lookupCount)/100))
	}

	score := 10*float64(s.Length) + 5*float64(fixed) + 3*float64(intersections) +
		availability + locationBonus(g, s) - 2*float64(attempts) - edgePenalty(g, s)
	return score
}

func intersectionsWithPlaced(g *grid.Grid, s *grid.Slot) int {
	n := 0
	for _, inter := range grid.Intersections(g, s) {
		if inter.Other.IsFilled() {
			n++
		}
	}
	return n
}

// locationBonus implements spec.md §4.4.3's location_bonus: weighted
// sum of center-proximity, normalized length, intersection potential,
// minus edge penalty.
func locationBonus(g *grid.Grid, s *grid.Slot) float64 {
	centerRow, centerCol := float64(g.Height-1)/2, float64(g.Width-1)/2
	midRow := float64(s.Row)
	midCol := float64(s.Col)
	if s.Direction == grid.Across {
		midCol += float64(s.Length-1) / 2
	} else {
		midRow += float64(s.Length-1) / 2
	}
	maxDist := centerRow + centerCol
	var centerProximity float64
	if maxDist > 0 {
		dist := absf(midRow-centerRow) + absf(midCol-centerCol)
		centerProximity = 1 - dist/maxDist
	}

	lengthBonus := float64(s.Length) / float64(maxDim(g))

	intersectionPotential := 0.0
	total := grid.Intersections(g, s)
	emptyCells := 0
	for _, c := range s.Cells {
		if c.State == grid.Empty {
			emptyCells++
		}
	}
	if s.Length > 0 {
		intersectionPotential = (float64(len(total)) + float64(emptyCells)) / float64(s.Length) / 2
	}

	return 0.3*centerProximity + 0.2*lengthBonus + 0.4*intersectionPotential - 0.1*edgePenalty(g, s)
}

// edgePenalty is 0.2 per outer boundary the slot touches.
func edgePenalty(g *grid.Grid, s *grid.Slot) float64 {
	penalty := 0.0
	endRow, endCol := s.Row, s.Col
	if s.Direction == grid.Across {
		endCol += s.Length - 1
	} else {
		endRow += s.Length - 1
	}
	if s.Row == 0 {
		penalty += 0.2
	}
	if s.Col == 0 {
		penalty += 0.2
	}
	if endRow == g.Height-1 {
		penalty += 0.2
	}
	if endCol == g.Width-1 {
		penalty += 0.2
	}
	return penalty
}

// candidateScore implements CandidateScore from spec.md §4.4.4.
func candidateScore(w corpus.Word, idx *corpus.Index, weight float64, attempts int, rng *rand.Rand) float64 {
	score := weight * idx.Freq(w)
	if attempts > 2 {
		score += rng.Float64() * 0.1
	}
	return score
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
