// Package automatic plays complete games between two engines, so that
// engine settings can be measured against each other.
package automatic

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/move"
	"github.com/domino14/desdemona/negamax"
)

// GameRecord is the outcome of one self-play game. Passes are recorded as
// move.Empty.
type GameRecord struct {
	ID         int
	Seed       [32]byte
	Moves      []move.Move
	Final      board.Board
	BlackDiscs int
	RedDiscs   int
}

// Margin is the final disc difference from Black's point of view.
func (g *GameRecord) Margin() int {
	return g.BlackDiscs - g.RedDiscs
}

// Winner returns board.Empty for a draw.
func (g *GameRecord) Winner() board.Coin {
	switch {
	case g.BlackDiscs > g.RedDiscs:
		return board.Black
	case g.RedDiscs > g.BlackDiscs:
		return board.Red
	}
	return board.Empty
}

func (g *GameRecord) MoveList() string {
	return strings.Join(lo.Map(g.Moves, func(m move.Move, _ int) string {
		return m.ShortDescription()
	}), " ")
}

func (g *GameRecord) csvRecord() []string {
	return []string{
		strconv.Itoa(g.ID),
		strconv.Itoa(g.BlackDiscs),
		strconv.Itoa(g.RedDiscs),
		strconv.Itoa(len(g.Moves)),
		base64.RawURLEncoding.EncodeToString(g.Seed[:]),
		g.MoveList(),
	}
}

// GameRunner plays games between an engine configured with the black
// settings and one configured with the red settings. Every game gets two
// new engines, so no win cache carries over from one game to the next.
type GameRunner struct {
	settings    [2]negamax.Settings
	randomPlies int
	logchan     chan []string
}

// NewGameRunner creates a runner. The first randomPlies plies of every game
// are random legal moves. If logchan is not nil, one csv record per game is
// sent on it.
func NewGameRunner(logchan chan []string, black, red negamax.Settings, randomPlies int) *GameRunner {
	return &GameRunner{
		settings:    [2]negamax.Settings{black, red},
		randomPlies: randomPlies,
		logchan:     logchan,
	}
}

func sideIndex(c board.Coin) int {
	if c == board.Red {
		return 1
	}
	return 0
}

// PlayGame plays one game to the end. The seed determines the random
// opening plies; the engines themselves are deterministic.
func (r *GameRunner) PlayGame(ctx context.Context, id int, seed [32]byte) (*GameRecord, error) {
	rng := frand.NewCustom(seed[:], 1024, 12)
	engines := [2]*negamax.Engine{
		negamax.NewEngine(board.Black, r.settings[0]),
		negamax.NewEngine(board.Red, r.settings[1]),
	}
	rec := &GameRecord{ID: id, Seed: seed}

	b := board.NewBoard()
	stm := board.Black
	for !b.GameOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		moves := b.ValidMoves(stm)
		m := move.Empty
		var err error
		switch {
		case len(moves) == 0:
			// pass
		case len(rec.Moves) < r.randomPlies:
			m = moves[rng.Intn(len(moves))]
		default:
			m, err = engines[sideIndex(stm)].SelectMove(ctx, b, stm)
			if err != nil {
				return nil, err
			}
		}
		if !m.IsEmpty() {
			b, err = b.MakeMove(stm, m)
			if err != nil {
				return nil, err
			}
		}
		rec.Moves = append(rec.Moves, m)
		stm = stm.Opponent()
	}

	rec.Final = b
	rec.BlackDiscs = b.Count(board.Black)
	rec.RedDiscs = b.Count(board.Red)
	log.Debug().Int("game", id).Int("black", rec.BlackDiscs).Int("red", rec.RedDiscs).
		Int("plies", len(rec.Moves)).
		Int("black-cache-size", engines[0].WinCache().Len()).
		Int("red-cache-size", engines[1].WinCache().Len()).
		Msg("game-over")

	if r.logchan != nil {
		r.logchan <- rec.csvRecord()
	}
	return rec, nil
}
