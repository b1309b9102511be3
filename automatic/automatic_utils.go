package automatic

// Engine vs engine games, played concurrently.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/desdemona/config"
	"github.com/domino14/desdemona/negamax"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

var gameLogHeader = []string{"gameID", "black", "red", "plies", "seed", "moves"}

func init() {
	GamesCounter = expvar.NewInt("selfplayGames")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Options control a batch of self-play games.
type Options struct {
	Black       negamax.Settings
	Red         negamax.Settings
	RandomPlies int
	// Threads is the number of games played at once.
	Threads int
	// Seeds has one entry per game.
	Seeds [][32]byte
	// GameLog, if not nil, receives one csv line per finished game.
	GameLog io.Writer
}

// OptionsFromConfig uses the same engine settings for both sides and
// generates fresh seeds.
func OptionsFromConfig(cfg *config.Config) Options {
	s := negamax.SettingsFromConfig(cfg)
	// Games run in parallel, so each engine searches on one thread.
	s.Threads = 1
	return Options{
		Black:       s,
		Red:         s,
		RandomPlies: cfg.GetInt(config.ConfigSelfplayRandomPly),
		Threads:     max(1, cfg.GetInt(config.ConfigThreads)),
		Seeds:       GenerateSeeds(cfg.GetInt(config.ConfigSelfplayGames)),
	}
}

// PlayGames plays one game per seed and returns the records in seed order.
func PlayGames(ctx context.Context, opts Options) ([]*GameRecord, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	GamesCounter.Set(0)

	log.Info().Int("games", len(opts.Seeds)).Int("threads", opts.Threads).
		Int("random-plies", opts.RandomPlies).Msg("starting-selfplay")

	var logChan chan []string
	var logErr error
	logDone := make(chan struct{})
	if opts.GameLog != nil {
		logChan = make(chan []string, 100)
		go func() {
			defer close(logDone)
			w := csv.NewWriter(opts.GameLog)
			if err := w.Write(gameLogHeader); err != nil {
				logErr = err
			}
			for rec := range logChan {
				if err := w.Write(rec); err != nil && logErr == nil {
					logErr = err
				}
			}
			w.Flush()
			if logErr == nil {
				logErr = w.Error()
			}
		}()
	} else {
		close(logDone)
	}

	runner := NewGameRunner(logChan, opts.Black, opts.Red, opts.RandomPlies)
	records := make([]*GameRecord, len(opts.Seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Threads))
	for idx, seed := range opts.Seeds {
		g.Go(func() error {
			rec, err := runner.PlayGame(gctx, idx+1, seed)
			if err != nil {
				return err
			}
			records[idx] = rec
			GamesCounter.Add(1)
			if n := GamesCounter.Value(); n%100 == 0 {
				log.Info().Int64("games", n).Msg("selfplay-progress")
			}
			return nil
		})
	}
	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	<-logDone
	if err != nil {
		return nil, err
	}
	log.Info().Int64("games", GamesCounter.Value()).Msg("selfplay-finished")
	return records, logErr
}
