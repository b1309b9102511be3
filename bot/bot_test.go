package bot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/config"
	"github.com/domino14/desdemona/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testBot() *Bot {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigLateSearchDepth, 3)
	return NewBot(cfg)
}

func ask(is *is.I, bot *Bot, req BotRequest) *BotResponse {
	data, err := json.Marshal(req)
	is.NoErr(err)
	resp := &BotResponse{}
	is.NoErr(json.Unmarshal(bot.Handle(context.Background(), data), resp))
	return resp
}

func TestMoveRequest(t *testing.T) {
	is := is.New(t)
	bot := testBot()
	data, err := MakeRequest("g1", board.NewBoard(), board.Black)
	is.NoErr(err)

	m, resp, err := ParseResponse(bot.Handle(context.Background(), data))
	is.NoErr(err)
	is.Equal(resp.GameID, "g1")
	is.True(board.NewBoard().IsValidMove(board.Black, m))
	is.Equal(resp.Depth, 2)
	is.True(!resp.Proven)
	is.Equal(bot.Games(), []string{"g1"})
}

func TestProvenMove(t *testing.T) {
	is := is.New(t)
	bot := testBot()
	// c1 ends the game with every disc black.
	resp := ask(is, bot, BotRequest{
		GameID: "g1",
		Board:  "XO....../......../......../......../......../......../......../........",
		Side:   "x",
	})
	is.Equal(resp.Error, "")
	is.Equal(resp.Move, "c1")
	is.True(resp.Proven)
}

func TestEnginePerGameAndSide(t *testing.T) {
	is := is.New(t)
	bot := testBot()
	pos := "XO....../......../......../......../......../......../......../........"
	ask(is, bot, BotRequest{GameID: "g1", Board: pos, Side: "black"})
	ask(is, bot, BotRequest{GameID: "g2", Board: board.NewBoard().String(), Side: "black"})
	ask(is, bot, BotRequest{GameID: "g2", Board: board.NewBoard().String(), Side: "red"})
	is.Equal(bot.Games(), []string{"g1", "g2"})

	is.Equal(bot.engineFor("g1", board.Black).engine.WinCache().Len(), 1)
	is.Equal(bot.engineFor("g2", board.Black).engine.WinCache().Len(), 0)
	is.Equal(bot.engineFor("g2", board.Black).engine.Turns(), 1)
	is.Equal(bot.engineFor("g2", board.Red).engine.Turns(), 1)

	resp := ask(is, bot, BotRequest{GameID: "g2", Action: ActionEndGame})
	is.Equal(resp.Error, "")
	is.Equal(bot.Games(), []string{"g1"})
}

func TestConcurrentGames(t *testing.T) {
	is := is.New(t)
	bot := testBot()
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := MakeRequest(id, board.NewBoard(), board.Black)
			is.NoErr(err)
			m, _, err := ParseResponse(bot.Handle(context.Background(), data))
			is.NoErr(err)
			is.True(!m.IsEmpty())
		}()
	}
	wg.Wait()
	is.Equal(len(bot.Games()), 4)
}

func TestEvaluate(t *testing.T) {
	is := is.New(t)
	bot := testBot()
	resp := ask(is, bot, BotRequest{
		GameID: "g1",
		Action: ActionEvaluate,
		Board:  board.NewBoard().String(),
		Side:   "black",
	})
	is.Equal(resp.Error, "")
	is.Equal(len(resp.Evaluation), 4)
	sum := 0.0
	for _, term := range resp.Evaluation {
		sum += term.Weighted
	}
	is.Equal(sum, resp.Total)
	// evaluating does not create an engine
	is.Equal(len(bot.Games()), 0)
}

func TestBadRequests(t *testing.T) {
	is := is.New(t)
	bot := testBot()

	resp := &BotResponse{}
	is.NoErr(json.Unmarshal(bot.Handle(context.Background(), []byte("{not json")), resp))
	is.True(resp.Error != "")

	for _, req := range []BotRequest{
		{Board: board.NewBoard().String(), Side: "black"},
		{GameID: "g1", Board: "XO", Side: "black"},
		{GameID: "g1", Board: board.NewBoard().String(), Side: "green"},
		{GameID: "g1", Action: "resign", Board: board.NewBoard().String(), Side: "black"},
		// black has no move here
		{GameID: "g1", Board: "X......./......../......../......../......../......../......../.......O", Side: "black"},
	} {
		resp := ask(is, bot, req)
		is.True(resp.Error != "")
		is.Equal(resp.GameID, req.GameID)
	}
}

func TestParseResponse(t *testing.T) {
	is := is.New(t)
	m, _, err := ParseResponse([]byte(`{"game_id":"g","move":"e6"}`))
	is.NoErr(err)
	is.Equal(m, move.New(5, 4))

	_, _, err = ParseResponse([]byte(`{"game_id":"g","error":"boom"}`))
	is.True(errors.Is(err, ErrBotError))
}
