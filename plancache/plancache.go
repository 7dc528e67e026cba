// Package plancache memoises resolver-contract responses on disk, keyed by
// keccak256(resolver ‖ payload), so re-submitting an identical payload within
// a process lifetime skips the eth_call round trip. Purely an optimization:
// codec semantics are unaffected by a cache hit or miss, adapted from
// blockchain/storage/leveldb/batch.go's batch idiom.
package plancache

import (
	"math/big"

	"github.com/syndtr/goleveldb/leveldb"
	"golang.org/x/crypto/sha3"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// Cache is a disk-backed, append-mostly store of raw resolver responses.
type Cache struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a leveldb store at path.
func Open(path string) (*Cache, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func key(resolver xtypes.Account, payload []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	chainID := resolver.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	buf := make([]byte, 32)
	chainID.FillBytes(buf)
	h.Write(buf)
	h.Write(resolver.Address.Bytes())
	h.Write(payload)
	return h.Sum(nil)
}

// Get returns a previously stored raw resolver response, if present.
func (c *Cache) Get(resolver xtypes.Account, payload []byte) ([]byte, bool) {
	v, err := c.db.Get(key(resolver, payload), nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Put stores raw resolver response bytes for (resolver, payload), using a
// batch write even for this single key/value pair, matching the
// batchLevelDB idiom of blockchain/storage/leveldb/batch.go.
func (c *Cache) Put(resolver xtypes.Account, payload, response []byte) error {
	batch := new(leveldb.Batch)
	batch.Put(key(resolver, payload), response)
	return c.db.Write(batch, nil)
}
