package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/desdemona/move"
)

// Coin is the state of a single cell.
type Coin uint8

const (
	Empty Coin = iota
	Black
	Red
)

func (c Coin) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	}
	return "empty"
}

// Opponent returns the other side. Empty has no opponent.
func (c Coin) Opponent() Coin {
	switch c {
	case Black:
		return Red
	case Red:
		return Black
	}
	return Empty
}

// CoinFromString parses a side name ("black"/"red", or "x"/"o").
func CoinFromString(s string) (Coin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b", "x":
		return Black, nil
	case "red", "r", "o", "white", "w":
		return Red, nil
	}
	return Empty, fmt.Errorf("unknown side %q", s)
}

const Dim = move.BoardDim

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrBadBoard    = errors.New("bad board string")
)

// The eight neighbour directions as (row, col) deltas.
var directions = [8][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// Board is an 8x8 grid. It is a plain value: copying a Board copies every
// cell, so positions handed to different search branches never share state.
type Board struct {
	cells [Dim * Dim]Coin
}

// NewBoard returns the standard opening position.
func NewBoard() Board {
	var b Board
	b.set(3, 3, Red)
	b.set(4, 4, Red)
	b.set(3, 4, Black)
	b.set(4, 3, Black)
	return b
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Dim && col >= 0 && col < Dim
}

func (b *Board) set(row, col int, c Coin) {
	b.cells[row*Dim+col] = c
}

// Get returns the state of a cell. Off-board coordinates read as Empty.
func (b Board) Get(row, col int) Coin {
	if !onBoard(row, col) {
		return Empty
	}
	return b.cells[row*Dim+col]
}

// With returns a copy of the board with a single cell overwritten. Nothing
// is flipped; it is meant for setting up positions.
func (b Board) With(row, col int, c Coin) Board {
	if onBoard(row, col) {
		b.set(row, col, c)
	}
	return b
}

// flips counts how many discs c would flip in direction d by playing at
// (row, col).
func (b Board) flips(c Coin, row, col int, d [2]int) int {
	opp := c.Opponent()
	n := 0
	r, cl := row+d[0], col+d[1]
	for onBoard(r, cl) && b.Get(r, cl) == opp {
		n++
		r, cl = r+d[0], cl+d[1]
	}
	if n > 0 && onBoard(r, cl) && b.Get(r, cl) == c {
		return n
	}
	return 0
}

// IsValidMove returns true if c may place a disc at m.
func (b Board) IsValidMove(c Coin, m move.Move) bool {
	if c != Black && c != Red {
		return false
	}
	if !m.OnBoard() || b.Get(m.Row(), m.Col()) != Empty {
		return false
	}
	for _, d := range directions {
		if b.flips(c, m.Row(), m.Col(), d) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves lists the legal placements of c in row-major order. Search
// relies on this order for exploration and tie-breaking.
func (b Board) ValidMoves(c Coin) []move.Move {
	var moves []move.Move
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			m := move.New(row, col)
			if b.IsValidMove(c, m) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// NumValidMoves counts legal placements without allocating.
func (b Board) NumValidMoves(c Coin) int {
	n := 0
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			if b.IsValidMove(c, move.New(row, col)) {
				n++
			}
		}
	}
	return n
}

// HasValidMove returns true if c has at least one legal placement.
func (b Board) HasValidMove(c Coin) bool {
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			if b.IsValidMove(c, move.New(row, col)) {
				return true
			}
		}
	}
	return false
}

// MakeMove returns the position that results from c playing m. The
// receiver is a copy, so the caller's board is left untouched.
func (b Board) MakeMove(c Coin, m move.Move) (Board, error) {
	if !b.IsValidMove(c, m) {
		return b, fmt.Errorf("%w: %v plays %s", ErrInvalidMove, c, m.ShortDescription())
	}
	row, col := m.Row(), m.Col()
	for _, d := range directions {
		n := b.flips(c, row, col, d)
		for i := 1; i <= n; i++ {
			b.set(row+i*d[0], col+i*d[1], c)
		}
	}
	b.set(row, col, c)
	return b, nil
}

// Count returns the number of cells in state c.
func (b Board) Count(c Coin) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}

func (b Board) Empties() int {
	return b.Count(Empty)
}

// GameOver is true when neither side can move.
func (b Board) GameOver() bool {
	return !b.HasValidMove(Black) && !b.HasValidMove(Red)
}

// Inverted swaps the colours of every disc.
func (b Board) Inverted() Board {
	for i, cell := range b.cells {
		b.cells[i] = cell.Opponent()
	}
	return b
}
