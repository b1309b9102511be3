package equity

import (
	"github.com/domino14/desdemona/board"
)

// Heuristic scores a position from the point of view of side. A positive
// score favours side, a negative one favours opp.
type Heuristic interface {
	Name() string
	Score(b board.Board, side, opp board.Coin) float64
}

// corners lists each grid corner followed by its three neighbouring cells.
var corners = [4][4][2]int{
	{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	{{0, 7}, {0, 6}, {1, 6}, {1, 7}},
	{{7, 0}, {7, 1}, {6, 1}, {6, 0}},
	{{7, 7}, {6, 7}, {6, 6}, {7, 6}},
}

// ratio returns 100*num/den, or 0 if den is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return 100.0 * float64(num) / float64(den)
}
