package negamax

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/cache"
	"github.com/domino14/desdemona/config"
	"github.com/domino14/desdemona/equity"
	"github.com/domino14/desdemona/move"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// HugeNumber bounds the search window. It is larger than any evaluation
// and than equity.WinScore.
const HugeNumber = float64(1e9)

var (
	ErrNoLegalMoves = errors.New("no legal moves for side to move")
)

type Settings struct {
	// InitialDepth is the search depth in plies, counting the root move.
	InitialDepth int
	// LateDepth replaces InitialDepth from the EscalationTurn-th call to
	// SelectMove onwards. An EscalationTurn of 0 disables it.
	LateDepth      int
	EscalationTurn int
	Threads        int
	Weights        equity.Weights
}

func DefaultSettings() Settings {
	return Settings{
		InitialDepth:   5,
		LateDepth:      16,
		EscalationTurn: 25,
		Threads:        1,
		Weights:        equity.DefaultWeights(),
	}
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		InitialDepth:   cfg.GetInt(config.ConfigSearchDepth),
		LateDepth:      cfg.GetInt(config.ConfigLateSearchDepth),
		EscalationTurn: cfg.GetInt(config.ConfigEscalationTurn),
		Threads:        cfg.GetInt(config.ConfigThreads),
		Weights: equity.Weights{
			Corner:          cfg.GetFloat64(config.ConfigCornerWeight),
			CornerNeighbour: cfg.GetFloat64(config.ConfigCornerNeighbWeight),
			Mobility:        cfg.GetFloat64(config.ConfigMobilityWeight),
			Frontier:        cfg.GetFloat64(config.ConfigFrontierWeight),
		},
	}
}

// Solution is the value search assigned to a root move.
type Solution struct {
	Move  move.Move
	Score float64
}

func (s Solution) String() string {
	return fmt.Sprintf("<score: %f move: %s>", s.Score, s.Move.ShortDescription())
}

// Engine picks a move each turn for one side of one game. Its win cache
// persists across calls, so an Engine must not be shared between games.
type Engine struct {
	self      board.Coin
	evaluator *equity.Evaluator
	winCache  *cache.WinCache

	depth          int
	lateDepth      int
	escalationTurn int
	threads        int

	turns           int
	lastSearchDepth int
	rootScores      []Solution
	nodes           atomic.Uint64
}

// NewEngine creates an engine playing self.
func NewEngine(self board.Coin, s Settings) *Engine {
	e := &Engine{
		self:           self,
		evaluator:      equity.NewEvaluator(s.Weights),
		winCache:       cache.NewWinCache(),
		depth:          max(1, s.InitialDepth),
		lateDepth:      max(1, s.LateDepth),
		escalationTurn: s.EscalationTurn,
	}
	e.SetThreads(s.Threads)
	return e
}

func (e *Engine) SetThreads(threads int) {
	e.threads = max(1, threads)
}

func (e *Engine) Self() board.Coin { return e.self }

// Depth is the depth the next search will use.
func (e *Engine) Depth() int { return e.depth }

// LastSearchDepth is the depth of the most recent search that was not
// answered from the win cache.
func (e *Engine) LastSearchDepth() int { return e.lastSearchDepth }

func (e *Engine) Turns() int { return e.turns }

func (e *Engine) WinCache() *cache.WinCache { return e.winCache }

func (e *Engine) Evaluator() *equity.Evaluator { return e.evaluator }

// RootScores returns the value of every root move examined by the most
// recent search, in move generation order.
func (e *Engine) RootScores() []Solution { return e.rootScores }

func (e *Engine) Nodes() uint64 { return e.nodes.Load() }

func (e *Engine) advanceTurn() {
	e.turns++
	if e.turns == e.escalationTurn && e.lateDepth != e.depth {
		log.Info().Int("turn", e.turns).Int("old-depth", e.depth).
			Int("new-depth", e.lateDepth).Msg("escalating-search-depth")
		e.depth = e.lateDepth
	}
}

// SelectMove returns the move stm should play in b. It is an error to call
// it when stm has no legal move.
func (e *Engine) SelectMove(ctx context.Context, b board.Board, stm board.Coin) (move.Move, error) {
	e.advanceTurn()

	moves := b.ValidMoves(stm)
	if len(moves) == 0 {
		return move.Empty, fmt.Errorf("%w: %v", ErrNoLegalMoves, stm)
	}

	// Only our own winning lines are recorded, so only look them up on our
	// own turn.
	var fp cache.Fingerprint
	if stm == e.self {
		fp = cache.NewFingerprint(b, e.self)
		if m, ok := e.winCache.Get(fp); ok {
			log.Debug().Str("move", m.ShortDescription()).Int("turn", e.turns).Msg("win-cache-hit")
			return m, nil
		}
	}

	tstart := time.Now()
	e.nodes.Store(0)
	e.lastSearchDepth = e.depth

	var sols []Solution
	var err error
	if e.threads > 1 && len(moves) > 1 {
		sols, err = e.searchMovesParallel(ctx, b, stm, moves)
	} else {
		sols, err = e.searchMoves(ctx, b, stm, moves)
	}
	if err != nil {
		return move.Empty, err
	}
	e.rootScores = sols

	best := sols[0]
	for _, sol := range sols[1:] {
		if sol.Score > best.Score {
			best = sol
		}
	}
	if best.Score == equity.WinScore && stm == e.self {
		e.winCache.Put(fp, best.Move)
	}

	log.Debug().
		Str("side", stm.String()).
		Int("turn", e.turns).
		Int("depth", e.lastSearchDepth).
		Uint64("nodes", e.nodes.Load()).
		Str("best-move", best.Move.ShortDescription()).
		Float64("value", best.Score).
		Int("win-cache-size", e.winCache.Len()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("select-move-returning")

	return best.Move, nil
}

// searchRootMove returns the value of stm playing m in b. Every root move
// gets the full window, so root moves can be searched independently.
func (e *Engine) searchRootMove(ctx context.Context, b board.Board, stm board.Coin, m move.Move) (float64, error) {
	child, err := b.MakeMove(stm, m)
	if err != nil {
		return 0, err
	}
	v, err := e.negamax(ctx, child, e.depth-1, stm.Opponent(), -HugeNumber, HugeNumber)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (e *Engine) searchMoves(ctx context.Context, b board.Board, stm board.Coin, moves []move.Move) ([]Solution, error) {
	sols := make([]Solution, 0, len(moves))
	for _, m := range moves {
		v, err := e.searchRootMove(ctx, b, stm, m)
		if err != nil {
			return nil, err
		}
		sols = append(sols, Solution{Move: m, Score: v})
		if v == equity.WinScore {
			// Nothing can beat a proven win.
			break
		}
	}
	return sols, nil
}

// searchMovesParallel evaluates every root move, so the chosen move is the
// same as in searchMoves. Moves after a winning move are still searched
// and may add entries to the win cache.
func (e *Engine) searchMovesParallel(ctx context.Context, b board.Board, stm board.Coin, moves []move.Move) ([]Solution, error) {
	log.Debug().Int("threads", e.threads).Int("root-moves", len(moves)).Msg("parallel-root-search")
	sols := make([]Solution, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)
	for idx, m := range moves {
		g.Go(func() error {
			v, err := e.searchRootMove(gctx, b, stm, m)
			if err != nil {
				return err
			}
			sols[idx] = Solution{Move: m, Score: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sols, nil
}

// negamax returns the value of b for side, searching depth more plies.
func (e *Engine) negamax(ctx context.Context, b board.Board, depth int, side board.Coin, α, β float64) (float64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	e.nodes.Add(1)
	opp := side.Opponent()

	if depth <= 0 {
		return e.evaluator.Evaluate(b, side, opp), nil
	}

	children := b.ValidMoves(side)
	if len(children) == 0 {
		if !b.HasValidMove(opp) {
			return equity.TerminalScore(b, side, opp), nil
		}
		// Pass. This still uses up a ply.
		v, err := e.negamax(ctx, b, depth-1, opp, -β, -α)
		return -v, err
	}

	bestValue := -HugeNumber
	for _, m := range children {
		child, err := b.MakeMove(side, m)
		if err != nil {
			return 0, err
		}
		value, err := e.negamax(ctx, child, depth-1, opp, -β, -α)
		if err != nil {
			return 0, err
		}
		if -value > bestValue {
			bestValue = -value
			if bestValue == equity.WinScore && side == e.self {
				e.winCache.Put(cache.NewFingerprint(b, e.self), m)
			}
		}
		α = max(α, bestValue)
		if α >= β {
			break // beta cut-off
		}
	}
	return bestValue, nil
}
