package equity

import (
	"github.com/domino14/desdemona/board"
)

// WinScore is the value of a finished game won by the side to move. It is
// far outside the range of Evaluate, whose magnitude stays below 1e6.
const (
	WinScore  = float64(1e7)
	LossScore = -WinScore
)

// TerminalScore scores a finished game for side. It must only be called
// when neither side can move.
func TerminalScore(b board.Board, side, opp board.Coin) float64 {
	sc, oc := b.Count(side), b.Count(opp)
	switch {
	case sc > oc:
		return WinScore
	case sc < oc:
		return LossScore
	}
	return 0
}
