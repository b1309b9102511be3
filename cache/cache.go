package cache

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/domino14/desdemona/board"
	"github.com/domino14/desdemona/move"
)

// The win cache remembers moves that search has proven to force a win for
// the engine's side. It belongs to a single engine and lives as long as
// that engine does; entries are never evicted.

// Fingerprint identifies a position relative to a fixed labelling of the
// engine's side and its opponent. It is an exact encoding, so two distinct
// grids never share a fingerprint.
type Fingerprint string

// NewFingerprint encodes b with the engine's discs as '1', the opponent's
// as '2' and empty cells as '0', row-major, after a leading '1'.
func NewFingerprint(b board.Board, engine board.Coin) Fingerprint {
	var sb strings.Builder
	sb.Grow(1 + board.Dim*board.Dim)
	sb.WriteByte('1')
	opp := engine.Opponent()
	for row := 0; row < board.Dim; row++ {
		for col := 0; col < board.Dim; col++ {
			switch b.Get(row, col) {
			case engine:
				sb.WriteByte('1')
			case opp:
				sb.WriteByte('2')
			default:
				sb.WriteByte('0')
			}
		}
	}
	return Fingerprint(sb.String())
}

type WinCache struct {
	sync.RWMutex
	entries map[Fingerprint]move.Move

	lookups atomic.Uint64
	hits    atomic.Uint64
}

func NewWinCache() *WinCache {
	return &WinCache{entries: make(map[Fingerprint]move.Move)}
}

// Put records m as a winning move from the position f. An existing entry
// is overwritten.
func (c *WinCache) Put(f Fingerprint, m move.Move) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.entries[f]; !ok {
		log.Debug().Str("move", m.ShortDescription()).Int("size", len(c.entries)+1).
			Msg("win-cache-store")
	}
	c.entries[f] = m
}

// Get returns the winning move stored for f, if any.
func (c *WinCache) Get(f Fingerprint) (move.Move, bool) {
	c.RLock()
	defer c.RUnlock()
	c.lookups.Add(1)
	m, ok := c.entries[f]
	if !ok {
		return move.Empty, false
	}
	c.hits.Add(1)
	return m, true
}

func (c *WinCache) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.entries)
}

// Stats returns the number of lookups and hits so far.
func (c *WinCache) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}
