package automatic

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/negamax"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func fastSettings() negamax.Settings {
	s := negamax.DefaultSettings()
	s.InitialDepth = 2
	s.LateDepth = 3
	s.EscalationTurn = 20
	return s
}

// replay checks every recorded move against the rules and returns the
// final position.
func replay(is *is.I, rec *GameRecord) board.Board {
	b := board.NewBoard()
	stm := board.Black
	for _, m := range rec.Moves {
		if m.IsEmpty() {
			is.True(!b.HasValidMove(stm))
		} else {
			var err error
			b, err = b.MakeMove(stm, m)
			is.NoErr(err)
		}
		stm = stm.Opponent()
	}
	return b
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, fastSettings(), fastSettings(), 4)
	rec, err := r.PlayGame(context.Background(), 1, GenerateSeeds(1)[0])
	is.NoErr(err)

	final := replay(is, rec)
	is.True(final.GameOver())
	is.Equal(final, rec.Final)
	is.Equal(rec.BlackDiscs, final.Count(board.Black))
	is.Equal(rec.RedDiscs, final.Count(board.Red))
	is.True(rec.BlackDiscs+rec.RedDiscs <= 64)
	is.Equal(len(strings.Fields(rec.MoveList())), len(rec.Moves))

	switch w := rec.Winner(); {
	case rec.Margin() > 0:
		is.Equal(w, board.Black)
	case rec.Margin() < 0:
		is.Equal(w, board.Red)
	default:
		is.Equal(w, board.Empty)
	}
}

func TestSameSeedSameGame(t *testing.T) {
	is := is.New(t)
	seed := GenerateSeeds(1)[0]
	r := NewGameRunner(nil, fastSettings(), fastSettings(), 6)
	g1, err := r.PlayGame(context.Background(), 1, seed)
	is.NoErr(err)
	g2, err := r.PlayGame(context.Background(), 2, seed)
	is.NoErr(err)
	is.Equal(g1.Moves, g2.Moves)
	is.Equal(g1.Final, g2.Final)
}

func TestPlayGameCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewGameRunner(nil, fastSettings(), fastSettings(), 0)
	_, err := r.PlayGame(ctx, 1, GenerateSeeds(1)[0])
	is.True(errors.Is(err, context.Canceled))
}

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	var gameLog bytes.Buffer
	opts := Options{
		Black:       fastSettings(),
		Red:         fastSettings(),
		RandomPlies: 2,
		Threads:     3,
		Seeds:       GenerateSeeds(6),
		GameLog:     &gameLog,
	}
	records, err := PlayGames(context.Background(), opts)
	is.NoErr(err)
	is.Equal(len(records), 6)
	for idx, rec := range records {
		is.Equal(rec.ID, idx+1)
		is.Equal(rec.Seed, opts.Seeds[idx])
	}
	is.Equal(GamesCounter.Value(), int64(6))
	is.Equal(IsPlaying.Value(), int64(0))

	s := Summarize(records)
	is.Equal(s.Games, 6)
	is.Equal(s.BlackWins+s.RedWins+s.Draws, 6)

	// the log holds a header and one line per game, in any order
	lines := strings.Split(strings.TrimSpace(gameLog.String()), "\n")
	is.Equal(len(lines), 7)
	is.Equal(lines[0], strings.Join(gameLogHeader, ","))

	fromLog, err := AnalyzeLog(&gameLog)
	is.NoErr(err)
	is.Equal(fromLog.Games, s.Games)
	is.Equal(fromLog.BlackWins, s.BlackWins)
	is.Equal(fromLog.RedWins, s.RedWins)
	is.Equal(fromLog.Margin.Min, s.Margin.Min)
	is.Equal(fromLog.Margin.Max, s.Margin.Max)
}

func TestAlreadyPlaying(t *testing.T) {
	is := is.New(t)
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	_, err := PlayGames(context.Background(), Options{Seeds: GenerateSeeds(1)})
	is.True(errors.Is(err, ErrAlreadyPlaying))
}

func TestSeedsFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	seeds := GenerateSeeds(5)
	is.NoErr(SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)

	_, err = readSeeds(strings.NewReader("# comment\n\nnot-base64!\n"))
	is.True(err != nil)
	_, err = readSeeds(strings.NewReader("AAAA\n"))
	is.True(err != nil)
}
