package move

import (
	"errors"
	"fmt"
	"strings"
)

// BoardDim is the side length of the Othello grid.
const BoardDim = 8

var ErrBadMove = errors.New("bad move notation")

// Move is a single disc placement. The Empty move is used as
// an initialization value and to signal that no move is known.
type Move struct {
	row int8
	col int8
}

// Empty is the no-op sentinel move.
var Empty = Move{row: -1, col: -1}

// New creates a placement at the given zero-indexed row and column.
func New(row, col int) Move {
	return Move{row: int8(row), col: int8(col)}
}

func (m Move) Row() int { return int(m.row) }
func (m Move) Col() int { return int(m.col) }

func (m Move) IsEmpty() bool {
	return m == Empty
}

// OnBoard returns true if the move refers to a cell of the grid.
func (m Move) OnBoard() bool {
	return m.row >= 0 && m.row < BoardDim && m.col >= 0 && m.col < BoardDim
}

// ShortDescription renders the move in algebraic notation; column letter
// first, then the one-indexed row. For example row 2, column 3 is "d3".
func (m Move) ShortDescription() string {
	if !m.OnBoard() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+m.col, m.row+1)
}

func (m Move) String() string {
	return fmt.Sprintf("<move %s (%d,%d)>", m.ShortDescription(), m.row, m.col)
}

// FromString parses algebraic notation as produced by ShortDescription.
// Upper-case column letters are accepted.
func FromString(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "--" {
		return Empty, nil
	}
	if len(s) != 2 {
		return Empty, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	col := int(s[0]) - 'a'
	row := int(s[1]) - '1'
	m := New(row, col)
	if !m.OnBoard() {
		return Empty, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	return m, nil
}
