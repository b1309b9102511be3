package board

import (
	"fmt"
	"strings"
)

const (
	blackRune = 'X'
	redRune   = 'O'
	emptyRune = '.'
)

func (c Coin) rune() rune {
	switch c {
	case Black:
		return blackRune
	case Red:
		return redRune
	}
	return emptyRune
}

// FromString parses eight ranks separated by '/', row 0 first. 'X' is
// black, 'O' is red and '.' is empty.
func FromString(s string) (Board, error) {
	var b Board
	ranks := strings.Split(strings.TrimSpace(s), "/")
	if len(ranks) != Dim {
		return b, fmt.Errorf("%w: expected %d ranks, got %d", ErrBadBoard, Dim, len(ranks))
	}
	for row, rank := range ranks {
		if len(rank) != Dim {
			return b, fmt.Errorf("%w: rank %d has length %d", ErrBadBoard, row+1, len(rank))
		}
		for col, r := range rank {
			switch r {
			case blackRune, 'x':
				b.set(row, col, Black)
			case redRune, 'o':
				b.set(row, col, Red)
			case emptyRune:
			default:
				return b, fmt.Errorf("%w: unexpected %q", ErrBadBoard, r)
			}
		}
	}
	return b, nil
}

// MustFromString is FromString for fixed positions known to be valid.
func MustFromString(s string) Board {
	b, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String is the inverse of FromString.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Dim; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := 0; col < Dim; col++ {
			sb.WriteRune(b.Get(row, col).rune())
		}
	}
	return sb.String()
}

// ToDisplayText renders a grid with coordinates and disc counts.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   a b c d e f g h\n")
	for row := 0; row < Dim; row++ {
		fmt.Fprintf(&sb, "%2d ", row+1)
		for col := 0; col < Dim; col++ {
			sb.WriteRune(b.Get(row, col).rune())
			if col < Dim-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "black (X): %d  red (O): %d\n", b.Count(Black), b.Count(Red))
	return sb.String()
}
