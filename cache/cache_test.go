package cache

import (
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/move"
)

func TestPutGet(t *testing.T) {
	is := is.New(t)
	c := NewWinCache()
	f := NewFingerprint(board.NewBoard(), board.Black)

	m, ok := c.Get(f)
	is.True(!ok)
	is.True(m.IsEmpty())

	c.Put(f, move.New(2, 3))
	m, ok = c.Get(f)
	is.True(ok)
	is.Equal(m, move.New(2, 3))

	// overwrite
	c.Put(f, move.New(3, 2))
	m, ok = c.Get(f)
	is.True(ok)
	is.Equal(m, move.New(3, 2))
	is.Equal(c.Len(), 1)

	lookups, hits := c.Stats()
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(2))
}

func TestFingerprintDeterministic(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	f1 := NewFingerprint(b, board.Black)
	f2 := NewFingerprint(board.NewBoard(), board.Black)
	is.Equal(f1, f2)
	is.Equal(len(f1), 65)
	is.Equal(string(f1[:1]), "1")
	// d4 is red, e4 is black
	is.Equal(string(f1[1+3*8+3]), "2")
	is.Equal(string(f1[1+3*8+4]), "1")
	is.Equal(string(f1[1]), "0")
}

func TestFingerprintIsSideRelative(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	asBlack := NewFingerprint(b, board.Black)
	asRed := NewFingerprint(b, board.Red)
	is.True(asBlack != asRed)

	// Swapping the colours and the engine's side together is the same
	// position from the engine's point of view.
	is.Equal(NewFingerprint(b.Inverted(), board.Red), asBlack)
}

func TestFingerprintDistinguishesPositions(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	nb, err := b.MakeMove(board.Black, move.New(2, 3))
	is.NoErr(err)
	is.True(NewFingerprint(b, board.Black) != NewFingerprint(nb, board.Black))
}

func TestConcurrentAccess(t *testing.T) {
	is := is.New(t)
	c := NewWinCache()
	b := board.NewBoard()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := NewFingerprint(b.With(0, i, board.Black), board.Black)
			c.Put(f, move.New(0, i))
			_, ok := c.Get(f)
			is.True(ok)
		}(i)
	}
	wg.Wait()
	is.Equal(c.Len(), 8)
}
