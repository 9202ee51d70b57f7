package solver

import "github.com/crossplay/backend/pkg/grid"

// placeWord writes word's letters into s's cells. Caller guarantees
// length agreement.
func placeWord(s *grid.Slot, word string) {
	for i, ch := range word {
		s.Cells[i].State = grid.Letter
		s.Cells[i].Ch = ch
	}
}

// undoWord restores s's cells to their pre-placement values: a cell is
// cleared to EMPTY only if no other *currently filled* slot crossing
// it still needs the letter — adapted from placement.go's
// removeWord/isEntryFilled pair, generalized from the teacher's
// square-only Entry model to grid.Slot.
func undoWord(g *grid.Grid, s *grid.Slot) {
	crossDir := grid.Down
	if s.Direction == grid.Down {
		crossDir = grid.Across
	}
	for _, cell := range s.Cells {
		keep := false
		for _, other := range g.Slots {
			if other.Direction != crossDir || !other.IsFilled() {
				continue
			}
			for _, oc := range other.Cells {
				if oc == cell {
					keep = true
					break
				}
			}
			if keep {
				break
			}
		}
		if !keep {
			cell.State = grid.Empty
			cell.Ch = 0
		}
	}
}

// feasible checks the placement cache first, then validates that word
// fits s's current pattern (all fixed letters agree). This is the
// "word fits geometrically and matches fixed letters" predicate from
// spec.md §4.4.5 — it intentionally does NOT run the global
// forward-check.
func feasible(cache *PlacementCache, s *grid.Slot, word string) bool {
	if cached, ok := cache.Get(word, s.Row, s.Col, s.Direction); ok {
		return cached
	}
	ok := len(word) == s.Length
	if ok {
		for i, c := range s.Cells {
			if c.State == grid.Letter && rune(word[i]) != c.Ch {
				ok = false
				break
			}
		}
	}
	cache.Put(word, s.Row, s.Col, s.Direction, ok)
	return ok
}
