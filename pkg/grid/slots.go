package grid

// MinLen is the default minimum slot length (spec default MIN_LEN = 3).
const MinLen = 3

// ComputeSlots scans the grid for maximal ACROSS and DOWN white runs of
// at least minLen cells, assigns stable clue numbers by a row-major
// across-first-then-down traversal, and replaces Grid.Slots. Runs
// shorter than minLen are discarded, matching spec.md (C2).
func ComputeSlots(g *Grid, minLen int) {
	if minLen <= 0 {
		minLen = MinLen
	}
	for _, row := range g.Cells {
		for _, c := range row {
			c.Number = 0
		}
	}

	clueNumber := 1
	numberAt := make(map[[2]int]int)

	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			cell := g.Cells[r][c]
			if cell.IsBlack() {
				continue
			}
			startsAcross := (c == 0 || g.Cells[r][c-1].IsBlack()) &&
				c+1 < g.Width && !g.Cells[r][c+1].IsBlack()
			startsDown := (r == 0 || g.Cells[r-1][c].IsBlack()) &&
				r+1 < g.Height && !g.Cells[r+1][c].IsBlack()
			if startsAcross || startsDown {
				numberAt[[2]int{r, c}] = clueNumber
				cell.Number = clueNumber
				clueNumber++
			}
		}
	}

	var slots []*Slot
	var nextID SlotID

	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if g.Cells[r][c].IsBlack() {
				continue
			}
			if c == 0 || g.Cells[r][c-1].IsBlack() {
				var cells []*Cell
				cc := c
				for cc < g.Width && !g.Cells[r][cc].IsBlack() {
					cells = append(cells, g.Cells[r][cc])
					cc++
				}
				if len(cells) >= minLen {
					slots = append(slots, &Slot{
						ID: nextID, Number: numberAt[[2]int{r, c}],
						Direction: Across, Row: r, Col: c,
						Length: len(cells), Cells: cells,
					})
					nextID++
				}
			}
		}
	}

	for c := 0; c < g.Width; c++ {
		for r := 0; r < g.Height; r++ {
			if g.Cells[r][c].IsBlack() {
				continue
			}
			if r == 0 || g.Cells[r-1][c].IsBlack() {
				var cells []*Cell
				rr := r
				for rr < g.Height && !g.Cells[rr][c].IsBlack() {
					cells = append(cells, g.Cells[rr][c])
					rr++
				}
				if len(cells) >= minLen {
					slots = append(slots, &Slot{
						ID: nextID, Number: numberAt[[2]int{r, c}],
						Direction: Down, Row: r, Col: c,
						Length: len(cells), Cells: cells,
					})
					nextID++
				}
			}
		}
	}

	g.Slots = slots
}

// Intersections returns, for slot s, the list of (other slot, position in
// s, position in other) triples for every slot crossing it. Computed on
// demand per spec.md C2 ("intersections are computed on demand").
type Intersection struct {
	Other    *Slot
	PosInS   int
	PosInOth int
}

func Intersections(g *Grid, s *Slot) []Intersection {
	var out []Intersection
	for _, other := range g.Slots {
		if other.ID == s.ID || other.Direction == s.Direction {
			continue
		}
		for i, c := range s.Cells {
			for j, oc := range other.Cells {
				if c == oc {
					out = append(out, Intersection{Other: other, PosInS: i, PosInOth: j})
				}
			}
		}
	}
	return out
}
