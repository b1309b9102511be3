package bot

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/cache"
	"github.com/domino14/desdemona/config"
	"github.com/domino14/desdemona/equity"
	"github.com/domino14/desdemona/negamax"
)

var (
	ErrNoGameID = errors.New("request has no game id")
	ErrBotError = errors.New("bot returned an error")
)

type engineKey struct {
	gameID string
	side   board.Coin
}

// gameEngine serializes requests for one engine. An engine keeps a turn
// counter and a win cache, so two searches must never run on it at once.
type gameEngine struct {
	sync.Mutex
	engine *negamax.Engine
}

// Bot answers move requests for any number of games. Each (game, side) pair
// gets its own engine, created on first use, so win caches and depth
// escalation never leak from one game into another.
type Bot struct {
	config   *config.Config
	settings negamax.Settings

	mu      sync.Mutex
	engines map[engineKey]*gameEngine
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{
		config:   cfg,
		settings: negamax.SettingsFromConfig(cfg),
		engines:  make(map[engineKey]*gameEngine),
	}
}

func (bot *Bot) engineFor(gameID string, side board.Coin) *gameEngine {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	k := engineKey{gameID, side}
	ge, ok := bot.engines[k]
	if !ok {
		ge = &gameEngine{engine: negamax.NewEngine(side, bot.settings)}
		bot.engines[k] = ge
		log.Debug().Str("game-id", gameID).Str("side", side.String()).Msg("new-engine")
	}
	return ge
}

func (bot *Bot) endGame(gameID string) int {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	removed := 0
	for k := range bot.engines {
		if k.gameID == gameID {
			delete(bot.engines, k)
			removed++
		}
	}
	return removed
}

// Games lists the ids of games with at least one live engine.
func (bot *Bot) Games() []string {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	ids := lo.Uniq(lo.Map(lo.Keys(bot.engines), func(k engineKey, _ int) string {
		return k.gameID
	}))
	sort.Strings(ids)
	return ids
}

func (bot *Bot) handle(ctx context.Context, data []byte) *BotResponse {
	req, b, side, err := Deserialize(data)
	if err != nil {
		gameID := ""
		if req != nil {
			gameID = req.GameID
		}
		return errorResponse(gameID, "Could not parse request", err)
	}

	switch req.Action {
	case ActionEndGame:
		n := bot.endGame(req.GameID)
		log.Info().Str("game-id", req.GameID).Int("engines", n).Msg("game-ended")
		return &BotResponse{GameID: req.GameID}

	case ActionEvaluate:
		ev := equity.NewEvaluator(bot.settings.Weights)
		terms := lo.Map(ev.Breakdown(b, side, side.Opponent()), func(t equity.Term, _ int) EvalTerm {
			return EvalTerm{Name: t.Name, Raw: t.Raw, Weighted: t.Weighted}
		})
		return &BotResponse{
			GameID:     req.GameID,
			Evaluation: terms,
			Total:      ev.Evaluate(b, side, side.Opponent()),
		}

	case ActionMove, "":
		ge := bot.engineFor(req.GameID, side)
		ge.Lock()
		defer ge.Unlock()
		m, err := ge.engine.SelectMove(ctx, b, side)
		if err != nil {
			return errorResponse(req.GameID, "Could not select a move", err)
		}
		proven := false
		if cached, ok := ge.engine.WinCache().Get(cache.NewFingerprint(b, side)); ok && cached == m {
			proven = true
		}
		log.Info().Str("game-id", req.GameID).Str("side", side.String()).
			Str("move", m.ShortDescription()).Bool("proven", proven).Msg("generated-move")
		return &BotResponse{
			GameID: req.GameID,
			Move:   m.ShortDescription(),
			Proven: proven,
			Depth:  ge.engine.LastSearchDepth(),
		}
	}
	return errorResponse(req.GameID, "Unknown action "+req.Action, nil)
}

// Handle answers a single serialized request. It never fails; errors are
// reported inside the response.
func (bot *Bot) Handle(ctx context.Context, data []byte) []byte {
	resp := bot.handle(ctx, data)
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, but the caller still needs a reply.
		return []byte(`{"error":"` + err.Error() + `"}`)
	}
	return out
}

func connect(ctx context.Context, url string) (*nats.Conn, error) {
	return retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(url, nats.Name("desdemona-bot"))
		},
		retry.Context(ctx),
		retry.Attempts(10),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// Main serves requests on the configured NATS subject until ctx is done.
func Main(ctx context.Context, bot *Bot) error {
	url := bot.config.GetString(config.ConfigNatsURL)
	channel := bot.config.GetString(config.ConfigBotChannel)
	nc, err := connect(ctx, url)
	if err != nil {
		return err
	}
	defer nc.Drain()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("bot-request")
		if err := m.Respond(bot.Handle(ctx, m.Data)); err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Str("url", url).Msg("listening")

	<-ctx.Done()
	return nil
}
