package bot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/move"
)

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string, timeout time.Duration) *Client {
	return &Client{nc: nc, channel: channel, timeout: timeout}
}

// RequestMove sends a position to the bot and gets a move back.
func (c *Client) RequestMove(ctx context.Context, gameID string, b board.Board, side board.Coin) (move.Move, error) {
	data, err := MakeRequest(gameID, b, side)
	if err != nil {
		return move.Empty, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Err(c.nc.LastError()).Msg("nats-last-error")
		}
		log.Err(err).Str("game-id", gameID).Msg("bot-request-failed")
		return move.Empty, err
	}
	log.Debug().Str("res", string(res.Data)).Msg("bot-response")
	m, _, err := ParseResponse(res.Data)
	return m, err
}

// EndGame releases the bot's engines for gameID.
func (c *Client) EndGame(ctx context.Context, gameID string) error {
	data, err := json.Marshal(&BotRequest{GameID: gameID, Action: ActionEndGame})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err = c.nc.RequestWithContext(ctx, c.channel, data)
	return err
}
