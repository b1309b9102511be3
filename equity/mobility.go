package equity

import (
	"github.com/domino14/desdemona/board"
)

// MobilityHeuristic compares how many legal moves each side has,
// normalized to [-100, 100].
type MobilityHeuristic struct{}

func (MobilityHeuristic) Name() string { return "mobility" }

func (MobilityHeuristic) Score(b board.Board, side, opp board.Coin) float64 {
	sm := b.NumValidMoves(side)
	om := b.NumValidMoves(opp)
	return ratio(sm-om, sm+om)
}
