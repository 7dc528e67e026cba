// Package variableenv implements VariableEnv: a memoised, dependency-aware
// cache of variable values with per-entry monotonic-tick freshness tracking.
package variableenv

import (
	"context"
	"fmt"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/callbuilder"
	"github.com/xgr-network/xgr-solver/plan"
	"github.com/xgr-network/xgr-solver/solverctx"
)

type slot struct {
	value     abiwire.Value
	hasValue  bool
	tick      int
	computing bool
}

// Env is the per-plan variable cache. It is owned by a single plan driver;
// concurrent mutation is disallowed.
type Env struct {
	order *plan.ResolvedOrder
	ctx   solverctx.SolverContext

	slots       []slot
	counter     int
	computeHits int // incremented once per compute() call; test-observable recompute counter.
}

func New(order *plan.ResolvedOrder, ctx solverctx.SolverContext) *Env {
	return &Env{order: order, ctx: ctx, slots: make([]slot, len(order.Variables))}
}

// Get returns the cached value if fresh, else computes it.
func (e *Env) Get(ctx context.Context, varIdx int) (abiwire.Value, error) {
	if varIdx < 0 || varIdx >= len(e.slots) {
		return abiwire.Value{}, fmt.Errorf("variableenv: variable index %d out of range", varIdx)
	}
	if e.isFresh(varIdx) {
		return e.slots[varIdx].value, nil
	}
	return e.compute(ctx, varIdx)
}

// Set stores a value directly; valid only for Pricing, TxOutput, and Witness
// roles. Any other role is a contract violation.
func (e *Env) Set(varIdx int, v abiwire.Value) error {
	if varIdx < 0 || varIdx >= len(e.slots) {
		return fmt.Errorf("variableenv: variable index %d out of range", varIdx)
	}
	role := e.order.Variables[varIdx].Kind
	switch role {
	case plan.RolePricing, plan.RoleTxOutput, plan.RoleWitness:
		e.store(varIdx, v)
		return nil
	default:
		return fmt.Errorf("variableenv: set is not valid for role of variable %d", varIdx)
	}
}

func (e *Env) store(varIdx int, v abiwire.Value) {
	tick := e.counter
	e.counter++
	e.slots[varIdx] = slot{value: v, hasValue: true, tick: tick}
}

// dependencies returns the other variable indices varIdx's value depends on.
// Only Query has intrinsic dependencies.
func (e *Env) dependencies(varIdx int) []int {
	v := e.order.Variables[varIdx]
	if v.Kind != plan.RoleQuery {
		return nil
	}
	var deps []int
	for _, a := range v.Query.Arguments {
		if a.Kind == plan.ArgumentVariable {
			deps = append(deps, a.VarIdx)
		}
	}
	return deps
}

// isFresh reports freshness: value present AND, recursively, every
// dependency is fresh AND has tick <= this slot's tick.
func (e *Env) isFresh(varIdx int) bool {
	s := e.slots[varIdx]
	if !s.hasValue {
		return false
	}
	for _, dep := range e.dependencies(varIdx) {
		ds := e.slots[dep]
		if !ds.hasValue || !e.isFresh(dep) {
			return false
		}
		if ds.tick > s.tick {
			return false
		}
	}
	return true
}

func (e *Env) compute(ctx context.Context, varIdx int) (abiwire.Value, error) {
	if e.slots[varIdx].computing {
		return abiwire.Value{}, fmt.Errorf("variableenv: cyclic dependency detected at variable %d", varIdx)
	}
	e.slots[varIdx].computing = true
	defer func() { e.slots[varIdx].computing = false }()
	e.computeHits++

	role := e.order.Variables[varIdx]

	var value abiwire.Value
	var err error
	switch role.Kind {
	case plan.RolePaymentChain:
		value = abiwire.EncodeUint256(e.ctx.PaymentChain())

	case plan.RolePaymentRecipient:
		var addr [20]byte
		addr, err = e.ctx.PaymentRecipient(role.PaymentRecipientChainID)
		if err == nil {
			value = abiwire.EncodeAddress(addr)
		}

	case plan.RoleQuery:
		value, err = e.computeQuery(ctx, role.Query)

	case plan.RolePricing, plan.RoleTxOutput, plan.RoleWitness:
		err = fmt.Errorf("variableenv: variable %d not set", varIdx)

	default:
		err = fmt.Errorf("variableenv: variable %d has unrecognized role", varIdx)
	}

	if err != nil {
		return abiwire.Value{}, err
	}

	e.store(varIdx, value)
	return value, nil
}

func (e *Env) computeQuery(ctx context.Context, q *plan.QueryRole) (abiwire.Value, error) {
	args, err := callbuilder.ResolveArguments(ctx, q.Arguments, e)
	if err != nil {
		return abiwire.Value{}, err
	}
	calldata, err := callbuilder.BuildCallData(q.Selector, args)
	if err != nil {
		return abiwire.Value{}, err
	}

	client, err := e.ctx.GetPublicClient(q.Target.ChainID)
	if err != nil {
		return abiwire.Value{}, fmt.Errorf("variableenv: query public client: %w", err)
	}

	resp, err := client.Call(ctx, solverctx.CallRequest{
		To: q.Target.Address, Data: calldata, BlockNumber: q.BlockNumber,
	})
	if err != nil {
		return abiwire.Value{}, fmt.Errorf("variableenv: query eth_call: %w", err)
	}

	return abiwire.Decode(resp)
}
