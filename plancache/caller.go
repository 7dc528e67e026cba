package plancache

import (
	"context"
	"math/big"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// Caller is the slice of codec.ChainCaller this package decorates, spelled
// out locally to avoid importing codec (which has no reason to know about
// caching).
type Caller interface {
	Call(ctx context.Context, chainID *big.Int, to xtypes.Address, data []byte) ([]byte, error)
}

// CachingCaller wraps a Caller, answering repeat (resolver, payload) lookups
// from the on-disk cache instead of re-invoking the resolver contract. data
// is treated as the cache key's "payload" component directly: it already
// embeds the resolver's payload argument via the resolve(bytes) calldata.
type CachingCaller struct {
	inner Caller
	cache *Cache
}

func NewCachingCaller(inner Caller, cache *Cache) *CachingCaller {
	return &CachingCaller{inner: inner, cache: cache}
}

func (c *CachingCaller) Call(ctx context.Context, chainID *big.Int, to xtypes.Address, data []byte) ([]byte, error) {
	resolver := xtypes.NewAccount(to, chainID)

	if cached, ok := c.cache.Get(resolver, data); ok {
		return cached, nil
	}

	resp, err := c.inner.Call(ctx, chainID, to, data)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(resolver, data, resp); err != nil {
		return resp, err
	}
	return resp, nil
}
