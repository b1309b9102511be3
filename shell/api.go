package shell

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/desdemona/automatic"
	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/equity"
	"github.com/domino14/desdemona/move"
	"github.com/domino14/desdemona/negamax"
)

var errGameOver = errors.New("the game is over; use `new` or `board` to start another")

func (sc *ShellController) gameStatus() string {
	b := sc.board
	black, red := b.Count(board.Black), b.Count(board.Red)
	status := fmt.Sprintf("black (X) %d - red (O) %d", black, red)
	if !b.GameOver() {
		return status + "\n" + sc.onTurn.String() + " to move"
	}
	switch {
	case black > red:
		return status + "\ngame over, black wins"
	case red > black:
		return status + "\ngame over, red wins"
	}
	return status + "\ngame over, draw"
}

func (sc *ShellController) displayText() string {
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	sb.WriteString("\n")
	sb.WriteString(sc.gameStatus())
	if len(sc.history) > 0 {
		sb.WriteString("\nmoves: " + strings.Join(sc.history, " "))
	}
	return sb.String()
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.resetGame(board.NewBoard(), board.Black)
	return msg(sc.displayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.displayText()), nil
}

// setBoard loads a position: board <ranks> [side]
func (sc *ShellController) setBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: board <ranks separated by /> [black|red]")
	}
	b, err := board.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	side := board.Black
	if len(cmd.args) > 1 {
		side, err = board.CoinFromString(cmd.args[1])
		if err != nil {
			return nil, err
		}
	}
	sc.resetGame(b, side)
	sc.skipPasses()
	return msg(sc.displayText()), nil
}

// skipPasses hands the turn over while the side on turn has to pass.
func (sc *ShellController) skipPasses() {
	if sc.board.GameOver() {
		return
	}
	if !sc.board.HasValidMove(sc.onTurn) {
		log.Debug().Str("side", sc.onTurn.String()).Msg("forced-pass")
		sc.history = append(sc.history, move.Empty.ShortDescription())
		sc.onTurn = sc.onTurn.Opponent()
	}
}

func (sc *ShellController) playMove(m move.Move) error {
	if sc.board.GameOver() {
		return errGameOver
	}
	nb, err := sc.board.MakeMove(sc.onTurn, m)
	if err != nil {
		return fmt.Errorf("%v cannot play %v: %w", sc.onTurn, m.ShortDescription(), err)
	}
	sc.board = nb
	sc.history = append(sc.history, m.ShortDescription())
	sc.onTurn = sc.onTurn.Opponent()
	sc.skipPasses()
	return nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a move to play, like d3")
	}
	m, err := move.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.playMove(m); err != nil {
		return nil, err
	}
	return msg(sc.displayText()), nil
}

// bestMove asks the engine of the side on turn for a move. fromCache is
// true when the engine answered from its win cache without searching.
func (sc *ShellController) bestMove() (m move.Move, fromCache bool, err error) {
	if sc.board.GameOver() {
		return move.Empty, false, errGameOver
	}
	e := sc.engine(sc.onTurn)
	_, hitsBefore := e.WinCache().Stats()
	m, err = e.SelectMove(sc.ctx, sc.board, sc.onTurn)
	if err != nil {
		return move.Empty, false, err
	}
	_, hitsAfter := e.WinCache().Stats()
	return m, hitsAfter > hitsBefore, nil
}

func scoreString(v float64) string {
	switch v {
	case equity.WinScore:
		return "WIN"
	case equity.LossScore:
		return "LOSS"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	m, fromCache, err := sc.bestMove()
	if err != nil {
		return nil, err
	}
	e := sc.engine(sc.onTurn)
	var sb strings.Builder
	if fromCache {
		fmt.Fprintf(&sb, "best move: %s (proven win, from cache)\n", m.ShortDescription())
		return msg(sb.String()), nil
	}
	sols := append([]negamax.Solution(nil), e.RootScores()...)
	sort.SliceStable(sols, func(i, j int) bool { return sols[i].Score > sols[j].Score })
	fmt.Fprintf(&sb, "best move: %s  depth %d  nodes %d\n", m.ShortDescription(),
		e.LastSearchDepth(), e.Nodes())
	sb.WriteString("     Move     Score\n")
	for idx, sol := range sols {
		fmt.Fprintf(&sb, "%3d: %-9s%s\n", idx+1, sol.Move.ShortDescription(), scoreString(sol.Score))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	m, _, err := sc.bestMove()
	if err != nil {
		return nil, err
	}
	if err := sc.playMove(m); err != nil {
		return nil, err
	}
	return msg(sc.displayText()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	ev := equity.NewEvaluator(sc.settings.Weights)
	side, opp := sc.onTurn, sc.onTurn.Opponent()
	var sb strings.Builder
	fmt.Fprintf(&sb, "evaluation for %v\n", side)
	sb.WriteString("  Term                 Raw        Weighted\n")
	for _, t := range ev.Breakdown(sc.board, side, opp) {
		fmt.Fprintf(&sb, "  %-20s %-10.3f %-10.3f\n", t.Name, t.Raw, t.Weighted)
	}
	fmt.Fprintf(&sb, "  %-20s %-10s %-10.3f\n", "total", "", ev.Evaluate(sc.board, side, opp))
	if sc.board.GameOver() {
		fmt.Fprintf(&sb, "  %-20s %-10s %s\n", "terminal", "",
			scoreString(equity.TerminalScore(sc.board, side, opp)))
	}
	return msg(sb.String()), nil
}

// autoplay either finishes the current game with both engines, or, given
// -games, plays a batch of self-play games.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if _, ok := cmd.options["games"]; !ok {
		for !sc.board.GameOver() {
			m, _, err := sc.bestMove()
			if err != nil {
				return nil, err
			}
			if err := sc.playMove(m); err != nil {
				return nil, err
			}
		}
		return msg(sc.displayText()), nil
	}

	games, err := cmd.options.IntDefault("games", 10)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.settings.Threads)
	if err != nil {
		return nil, err
	}
	randomPlies, err := cmd.options.IntDefault("randomplies", 4)
	if err != nil {
		return nil, err
	}
	s := sc.settings
	s.Threads = 1
	records, err := automatic.PlayGames(sc.ctx, automatic.Options{
		Black:       s,
		Red:         s,
		RandomPlies: randomPlies,
		Threads:     threads,
		Seeds:       automatic.GenerateSeeds(games),
	})
	if err != nil {
		return nil, err
	}
	summary := automatic.Summarize(records)
	var sb strings.Builder
	sb.WriteString(summary.String())
	if err := summary.Histogram(&sb); err != nil {
		return nil, err
	}
	if out := cmd.options.String("output"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := summary.WriteYAML(f); err != nil {
			return nil, err
		}
		sb.WriteString("summary written to " + out + "\n")
	}
	return msg(sb.String()), nil
}

var settingNames = []string{"depth", "late-depth", "escalation-turn", "threads"}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	fmt.Fprintf(&sb, "  depth: %d\n", sc.settings.InitialDepth)
	fmt.Fprintf(&sb, "  late-depth: %d\n", sc.settings.LateDepth)
	fmt.Fprintf(&sb, "  escalation-turn: %d\n", sc.settings.EscalationTurn)
	fmt.Fprintf(&sb, "  threads: %d\n", sc.settings.Threads)
	return sb.String()
}

// set changes a search setting. The engines are rebuilt, which also clears
// their win caches and turn counters.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: set <setting> <value>")
	}
	val, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	if val < 0 {
		return nil, fmt.Errorf("%v must not be negative", cmd.args[0])
	}
	switch cmd.args[0] {
	case "depth":
		sc.settings.InitialDepth = val
	case "late-depth":
		sc.settings.LateDepth = val
	case "escalation-turn":
		sc.settings.EscalationTurn = val
	case "threads":
		sc.settings.Threads = val
	default:
		return nil, errors.New("no such setting: " + cmd.args[0])
	}
	sc.engines = map[board.Coin]*negamax.Engine{}
	return msg(sc.settingsText()), nil
}
