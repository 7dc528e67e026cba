// Package pricecache fronts a pricing source with a bounded LRU cache and a
// freshness TTL, since a single quote re-prices the same (token, chain) pair
// across every flow it evaluates.
package pricecache

import (
	"context"
	"fmt"
	"math/big"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// Source is the uncached pricing backend (an oracle client, an HTTP feed,
// whatever ctx wires in).
type Source interface {
	TokenPriceUsd(ctx context.Context, token xtypes.Account) (*big.Int, error)
	GasPriceUsd(ctx context.Context, chainID *big.Int) (*big.Int, error)
}

type entry struct {
	price   *big.Int
	fetched time.Time
}

// Cache wraps a Source with a bounded, TTL-expiring LRU front.
type Cache struct {
	source Source
	ttl    time.Duration
	tokens *lru.Cache
	gas    *lru.Cache
}

// New builds a Cache with room for size entries per price kind (token, gas)
// and a freshness window of ttl.
func New(source Source, size int, ttl time.Duration) (*Cache, error) {
	tokens, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("pricecache: token cache: %w", err)
	}
	gas, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("pricecache: gas cache: %w", err)
	}
	return &Cache{source: source, ttl: ttl, tokens: tokens, gas: gas}, nil
}

func tokenKey(token xtypes.Account) string {
	chainID := token.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return chainID.String() + ":" + token.Address.String()
}

// GetTokenPriceUsd implements the SolverContext accessor of the same name.
func (c *Cache) GetTokenPriceUsd(ctx context.Context, token xtypes.Account) (*big.Int, error) {
	k := tokenKey(token)
	if v, ok := c.tokens.Get(k); ok {
		e := v.(entry)
		if time.Since(e.fetched) < c.ttl {
			return e.price, nil
		}
	}

	price, err := c.source.TokenPriceUsd(ctx, token)
	if err != nil {
		return nil, err
	}
	c.tokens.Add(k, entry{price: price, fetched: time.Now()})
	return price, nil
}

// GetGasPriceUsd implements the SolverContext accessor of the same name.
func (c *Cache) GetGasPriceUsd(ctx context.Context, chainID *big.Int) (*big.Int, error) {
	k := chainID.String()
	if v, ok := c.gas.Get(k); ok {
		e := v.(entry)
		if time.Since(e.fetched) < c.ttl {
			return e.price, nil
		}
	}

	price, err := c.source.GasPriceUsd(ctx, chainID)
	if err != nil {
		return nil, err
	}
	c.gas.Add(k, entry{price: price, fetched: time.Now()})
	return price, nil
}
