package solve

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

const noCard byte = 255

type cutoffEntry struct {
	valid bool
	hash  uint64
	card  [deal.NumSeats]byte // best card's Cards bit-index, one per seat-to-play; noCard = empty
}

// CutoffCache is the linear-probing best-move table keyed by a hash of
// the tactical context (playable cards plus winner/depth bits). Each
// slot holds four independent best-move bytes, one per seat-to-play, so
// that hash collisions across seats still share a slot rather than
// evicting each other.
type CutoffCache struct {
	entries []cutoffEntry
	bits    uint
	mask    uint64
	load    int
}

// NewCutoffCache preallocates 1<<bits slots.
func NewCutoffCache(bits uint) *CutoffCache {
	return &CutoffCache{
		entries: make([]cutoffEntry, uint64(1)<<bits),
		bits:    bits,
		mask:    uint64(1)<<bits - 1,
	}
}

// HashContext builds the cutoff-cache key from the tactical context: the
// cards the player could choose among (their hand, restricted to the
// lead suit when they must follow), the card and seat currently winning
// the trick, and the ply depth — chosen so that positions with identical
// playable cards and identical tactical context collide intentionally.
func HashContext(playable cards.Cards, winningCard cards.Cards, winningSeat deal.Seat, depth int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(playable))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(winningCard))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(winningSeat)|uint64(depth)<<8)
	return xxhash.Sum64(buf[:])
}

func (c *CutoffCache) index(hash uint64) uint64 { return hash & c.mask }

// Lookup returns the best card previously stored for (hash, seat), or
// (0, false) if none is recorded (noCard, or a tag mismatch after a
// bounded linear probe).
func (c *CutoffCache) Lookup(hash uint64, seat deal.Seat) (cards.Cards, bool) {
	idx := c.index(hash)
	probes := uint64(0)
	for probes <= c.mask {
		e := &c.entries[idx]
		if !e.valid {
			return 0, false
		}
		if e.hash == hash {
			if e.card[seat] == noCard {
				return 0, false
			}
			return cards.Cards(1) << uint(e.card[seat]), true
		}
		idx = (idx + 1) & c.mask
		probes++
	}
	return 0, false
}

// Store records card as the best move for (hash, seat), resizing the
// table first if load has crossed 75%.
func (c *CutoffCache) Store(hash uint64, seat deal.Seat, card cards.Cards) {
	if c.load*4 >= len(c.entries)*3 {
		c.resize()
	}
	idx := c.index(hash)
	for {
		e := &c.entries[idx]
		if !e.valid {
			*e = cutoffEntry{valid: true, hash: hash}
			for i := range e.card {
				e.card[i] = noCard
			}
			e.card[seat] = byte(cardIndex(card))
			c.load++
			return
		}
		if e.hash == hash {
			e.card[seat] = byte(cardIndex(card))
			return
		}
		idx = (idx + 1) & c.mask
	}
}

func cardIndex(c cards.Cards) int {
	idx := c.Indices()
	if len(idx) == 0 {
		return 0
	}
	return idx[0]
}

func (c *CutoffCache) resize() {
	old := c.entries
	c.bits++
	c.mask = uint64(1)<<c.bits - 1
	c.entries = make([]cutoffEntry, uint64(1)<<c.bits)
	c.load = 0
	for _, e := range old {
		if !e.valid {
			continue
		}
		idx := c.index(e.hash)
		for c.entries[idx].valid {
			idx = (idx + 1) & c.mask
		}
		c.entries[idx] = e
		c.load++
	}
}
