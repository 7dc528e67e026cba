// Package witness provides a kind-keyed registry of witness resolver
// plugins. The core depends only on solverctx.WitnessResolver; this package
// is the reference wiring that lets a SolverContext implementation expose a
// fixed set of kinds without hardcoding them.
package witness

import (
	"fmt"
	"sync"

	"github.com/xgr-network/xgr-solver/solverctx"
)

// Registry is a concurrency-safe map from witness kind to resolver.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]solverctx.WitnessResolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]solverctx.WitnessResolver)}
}

// Register adds a resolver for kind, replacing any previous registration.
func (r *Registry) Register(kind string, resolver solverctx.WitnessResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[kind] = resolver
}

// Get satisfies the lookup half of solverctx.SolverContext.GetWitnessResolver.
func (r *Registry) Get(kind string) (solverctx.WitnessResolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolver, ok := r.resolvers[kind]
	return resolver, ok
}

// MustRegister panics if kind is already registered; useful at process
// start-up where duplicate registration indicates a wiring mistake.
func (r *Registry) MustRegister(kind string, resolver solverctx.WitnessResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resolvers[kind]; exists {
		panic(fmt.Sprintf("witness: kind %q already registered", kind))
	}
	r.resolvers[kind] = resolver
}
