package equity

import (
	"github.com/domino14/desdemona/board"
)

// CornerHeuristic is the number of corners held by side minus those held by
// the opponent.
type CornerHeuristic struct{}

func (CornerHeuristic) Name() string { return "corners" }

func (CornerHeuristic) Score(b board.Board, side, opp board.Coin) float64 {
	sc, oc := 0, 0
	for _, c := range corners {
		switch b.Get(c[0][0], c[0][1]) {
		case side:
			sc++
		case opp:
			oc++
		}
	}
	return float64(sc - oc)
}

// CornerNeighbourHeuristic penalizes discs next to an empty corner, since
// they tend to hand that corner to the other player. Only corners that are
// still empty are examined.
type CornerNeighbourHeuristic struct{}

func (CornerNeighbourHeuristic) Name() string { return "corner-neighbours" }

func (CornerNeighbourHeuristic) Score(b board.Board, side, opp board.Coin) float64 {
	sc, oc := 0, 0
	for _, c := range corners {
		if b.Get(c[0][0], c[0][1]) != board.Empty {
			continue
		}
		for _, n := range c[1:] {
			switch b.Get(n[0], n[1]) {
			case side:
				sc++
			case opp:
				oc++
			}
		}
	}
	return float64(oc - 10*sc)
}
