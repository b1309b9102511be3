package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/desdemona/board"
)

// Weights are the empirically tuned coefficients of each heuristic.
type Weights struct {
	Corner          float64
	CornerNeighbour float64
	Mobility        float64
	// Frontier is applied inside the positional heuristic.
	Frontier float64
}

func DefaultWeights() Weights {
	return Weights{
		Corner:          801.724,
		CornerNeighbour: 12.5 * 324.026,
		Mobility:        78.922,
		Frontier:        74.396,
	}
}

type weighted struct {
	h      Heuristic
	weight float64
}

// Term is a single weighted component of an evaluation.
type Term struct {
	Name     string
	Raw      float64
	Weighted float64
}

// Evaluator is a linear combination of heuristics.
type Evaluator struct {
	terms []weighted
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{
		terms: []weighted{
			{CornerHeuristic{}, w.Corner},
			{CornerNeighbourHeuristic{}, w.CornerNeighbour},
			{MobilityHeuristic{}, w.Mobility},
			{PositionalHeuristic{FrontierWeight: w.Frontier}, 1},
		},
	}
}

// Evaluate returns the desirability of b for side.
func (e *Evaluator) Evaluate(b board.Board, side, opp board.Coin) float64 {
	return lo.SumBy(e.terms, func(t weighted) float64 {
		return t.weight * t.h.Score(b, side, opp)
	})
}

// Breakdown lists every component of Evaluate.
func (e *Evaluator) Breakdown(b board.Board, side, opp board.Coin) []Term {
	return lo.Map(e.terms, func(t weighted, _ int) Term {
		raw := t.h.Score(b, side, opp)
		return Term{Name: t.h.Name(), Raw: raw, Weighted: t.weight * raw}
	})
}
