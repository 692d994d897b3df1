package pattern

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// shapeEntry is one slot of the direct-mapped pattern cache: a hash tag
// plus the root Pattern for that (shape, seat-to-play) key.
type shapeEntry struct {
	valid bool
	hash  uint64
	root  *Pattern
}

// Cache is the direct-mapped, shape-keyed transposition table. Collision
// replacement is unconditional: writing a new shape discards whatever
// root pattern previously lived in that slot.
type Cache struct {
	entries []shapeEntry
	mask    uint64
}

// NewCache preallocates 1<<bits slots, matching the fixed-size,
// no-dynamic-allocation design the hot search path relies on.
func NewCache(bits uint) *Cache {
	return &Cache{
		entries: make([]shapeEntry, uint64(1)<<bits),
		mask:    uint64(1)<<bits - 1,
	}
}

// Hash mixes a Shape and the seat-to-play into the 64-bit key used both
// to index the cache and to tag each slot. xxhash is the pack's real
// fast-hash dependency (pulled in transitively by badger); there is no
// requirement on the specific hash values, only on determinism and
// spread, so it replaces a hand-rolled multiplicative mix outright.
func Hash(shape Shape, seat deal.Seat) uint64 {
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(shape))
	buf[8] = byte(seat)
	return xxhash.Sum64(buf[:])
}

func (c *Cache) index(hash uint64) uint64 {
	return (hash >> (64 - bitsFromMask(c.mask))) & c.mask
}

func bitsFromMask(mask uint64) uint {
	var n uint
	for mask != 0 {
		n++
		mask >>= 1
	}
	return n
}

// Lookup returns the stored root Pattern for hash if the slot's tag
// matches exactly.
func (c *Cache) Lookup(hash uint64) (*Pattern, bool) {
	e := &c.entries[c.index(hash)]
	if e.valid && e.hash == hash {
		return e.root, true
	}
	return nil, false
}

// GetOrCreate returns the existing root Pattern for hash if the tag
// matches, otherwise installs and returns a fresh root seeded from all
// and tricksRemaining.
func (c *Cache) GetOrCreate(hash uint64, all RelativeHands, tricksRemaining int8) *Pattern {
	e := &c.entries[c.index(hash)]
	if e.valid && e.hash == hash {
		return e.root
	}
	root := NewRoot(all, tricksRemaining)
	*e = shapeEntry{valid: true, hash: hash, root: root}
	return root
}
