// Package resultcache is a persistent, disk-backed memo of solved
// deals, structured the same way the teacher's internal/storage package
// wraps BadgerDB: a small struct around *badger.DB, JSON-encoded
// values, View/Update closures. Values are zstd-compressed before
// storage since a full declarer/denomination table plus its PBN key
// compresses well and full batch runs over large PBN files can produce
// many entries.
package resultcache

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// Entry is one cached deal's full declarer/denomination trick table,
// keyed by its normalized PBN deal string.
type Entry struct {
	PBN    string    `json:"pbn"`
	Tricks [4][5]int `json:"tricks"`
}

// Cache wraps a BadgerDB instance used as a deal -> DD-table memo.
type Cache struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens (creating if absent) a result cache at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("resultcache: open %s: %w", dir, err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resultcache: new zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resultcache: new zstd decoder: %w", err)
	}
	return &Cache{db: db, encoder: enc, decoder: dec}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.decoder.Close()
	c.encoder.Close()
	return c.db.Close()
}

func cacheKey(pbn string) []byte {
	return []byte("deal:" + pbn)
}

// Get looks up a previously-stored result for a normalized PBN deal
// string. The bool is false on a cache miss.
func (c *Cache) Get(pbn string) (Entry, bool, error) {
	var entry Entry
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(pbn))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(compressed []byte) error {
			raw, err := c.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return fmt.Errorf("resultcache: decompress: %w", err)
			}
			if err := json.Unmarshal(raw, &entry); err != nil {
				return fmt.Errorf("resultcache: unmarshal: %w", err)
			}
			found = true
			return nil
		})
	})
	return entry, found, err
}

// Put stores a deal's full trick table, overwriting any prior entry.
func (c *Cache) Put(entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("resultcache: marshal: %w", err)
	}
	compressed := c.encoder.EncodeAll(raw, nil)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(entry.PBN), compressed)
	})
}

// NormalizeKey produces the PBN key a Cache should use for hands,
// independent of which seat's string representation ParsePBN originally
// consumed: it's just hands.String(), which always starts from West.
func NormalizeKey(hands deal.Hands) string {
	return hands.String()
}
