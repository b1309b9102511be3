package equity

import (
	"github.com/domino14/desdemona/board"
)

// squareValues favours corners and edges and penalizes the cells that give
// the opponent access to a corner.
var squareValues = [board.Dim][board.Dim]int{
	{20, -3, 11, 8, 8, 11, -3, 20},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{20, -3, 11, 8, 8, 11, -3, 20},
}

var neighbours = [8][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// PositionalHeuristic combines the square-value table, the disc count and
// the number of frontier discs. A frontier disc borders at least one empty
// cell.
type PositionalHeuristic struct {
	FrontierWeight float64
}

func (PositionalHeuristic) Name() string { return "positional" }

func isFrontier(b board.Board, row, col int) bool {
	for _, n := range neighbours {
		r, c := row+n[0], col+n[1]
		if r < 0 || c < 0 || r >= board.Dim || c >= board.Dim {
			continue
		}
		if b.Get(r, c) == board.Empty {
			return true
		}
	}
	return false
}

// leadRatio is +100*ours/total when we lead, -100*theirs/total when we
// trail and 0 when level.
func leadRatio(ours, theirs int) float64 {
	switch {
	case ours > theirs:
		return ratio(ours, ours+theirs)
	case ours < theirs:
		return -ratio(theirs, ours+theirs)
	}
	return 0
}

func (p PositionalHeuristic) Score(b board.Board, side, opp board.Coin) float64 {
	d := 0
	sd, od := 0, 0
	sf, of := 0, 0
	for row := 0; row < board.Dim; row++ {
		for col := 0; col < board.Dim; col++ {
			switch b.Get(row, col) {
			case side:
				d += squareValues[row][col]
				sd++
				if isFrontier(b, row, col) {
					sf++
				}
			case opp:
				d -= squareValues[row][col]
				od++
				if isFrontier(b, row, col) {
					of++
				}
			}
		}
	}
	discs := leadRatio(sd, od)
	// Having fewer frontier discs is good.
	frontier := -leadRatio(sf, of)
	return 10*(float64(d)+discs) + p.FrontierWeight*frontier
}
