// Package ethgoctx is the concrete solverctx.SolverContext binding: per-chain
// JSON-RPC clients dialed the way internal/ethrpc/ethrpc.go dials them,
// wired to whitelist.List, witness.Registry, and pricecache.Cache for the
// non-chain parts of the context.
package ethgoctx

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
)

// clientPool lazily dials and caches one *rpc.Client per chain ID, the same
// rpc.DialContext idiom ethrpc.EthCallCtx uses, but held open across calls
// instead of dialed and closed per request.
type clientPool struct {
	endpoints map[string]string // chainID.String() -> JSON-RPC endpoint URL

	mu      sync.Mutex
	clients map[string]*rpc.Client
}

func newClientPool(endpoints map[string]string) *clientPool {
	return &clientPool{
		endpoints: endpoints,
		clients:   make(map[string]*rpc.Client),
	}
}

func (p *clientPool) get(ctx context.Context, chainID *big.Int) (*rpc.Client, error) {
	key := chainID.String()

	p.mu.Lock()
	defer p.mu.Unlock()

	if cl, ok := p.clients[key]; ok {
		return cl, nil
	}

	endpoint, ok := p.endpoints[key]
	if !ok {
		return nil, fmt.Errorf("ethgoctx: no RPC endpoint configured for chain %s", key)
	}

	cl, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ethgoctx: dial chain %s: %w", key, err)
	}
	p.clients[key] = cl
	return cl, nil
}

func (p *clientPool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cl := range p.clients {
		cl.Close()
	}
}
