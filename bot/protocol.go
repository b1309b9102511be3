package bot

import (
	"encoding/json"
	"fmt"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/move"
)

// Actions a BotRequest can ask for. An empty action means ActionMove.
const (
	ActionMove     = "move"
	ActionEvaluate = "evaluate"
	ActionEndGame  = "end"
)

// BotRequest is the JSON body of a request. Board uses the board package's
// text format, one rank per row separated by "/".
type BotRequest struct {
	GameID string `json:"game_id"`
	Action string `json:"action,omitempty"`
	Board  string `json:"board,omitempty"`
	Side   string `json:"side,omitempty"`
}

type EvalTerm struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Weighted float64 `json:"weighted"`
}

type BotResponse struct {
	GameID string `json:"game_id"`
	// Move is in algebraic notation.
	Move string `json:"move,omitempty"`
	// Proven is set when the move wins by force.
	Proven     bool       `json:"proven,omitempty"`
	Depth      int        `json:"depth,omitempty"`
	Evaluation []EvalTerm `json:"evaluation,omitempty"`
	Total      float64    `json:"total,omitempty"`
	Error      string     `json:"error,omitempty"`
}

func errorResponse(gameID, message string, err error) *BotResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &BotResponse{GameID: gameID, Error: msg}
}

// Deserialize parses a request and the position it refers to. The board and
// side are not required when ending a game.
func Deserialize(data []byte) (*BotRequest, board.Board, board.Coin, error) {
	req := &BotRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, board.Board{}, board.Empty, err
	}
	if req.GameID == "" {
		return req, board.Board{}, board.Empty, ErrNoGameID
	}
	if req.Action == ActionEndGame {
		return req, board.Board{}, board.Empty, nil
	}
	b, err := board.FromString(req.Board)
	if err != nil {
		return req, board.Board{}, board.Empty, err
	}
	side, err := board.CoinFromString(req.Side)
	if err != nil {
		return req, board.Board{}, board.Empty, err
	}
	return req, b, side, nil
}

// MakeRequest serializes a move request for the given position.
func MakeRequest(gameID string, b board.Board, side board.Coin) ([]byte, error) {
	return json.Marshal(&BotRequest{
		GameID: gameID,
		Action: ActionMove,
		Board:  b.String(),
		Side:   side.String(),
	})
}

// ParseResponse decodes a move response.
func ParseResponse(data []byte) (move.Move, *BotResponse, error) {
	resp := &BotResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		return move.Empty, nil, err
	}
	if resp.Error != "" {
		return move.Empty, resp, fmt.Errorf("%w: %s", ErrBotError, resp.Error)
	}
	m, err := move.FromString(resp.Move)
	return m, resp, err
}
