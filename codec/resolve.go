package codec

import (
	"context"
	"fmt"
	"math/big"
	"reflect"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
)

// ChainCaller is the minimal read-only capability codec.Resolve needs;
// command.PublicCaller adapts a SolverContext public client's Call accessor
// to it.
type ChainCaller interface {
	Call(ctx context.Context, chainID *big.Int, to xtypes.Address, data []byte) ([]byte, error)
}

// DecodePlan assembles a ResolvedOrder from the resolver's already-separated
// output fields and validates the plan-intrinsic invariants before
// returning it.
func DecodePlan(stepsRaw, variablesRaw [][]byte, assumptions []plan.Assumption, paymentsRaw [][]byte) (*plan.ResolvedOrder, error) {
	steps := make([]plan.Step, len(stepsRaw))
	for i, raw := range stepsRaw {
		s, err := DecodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("codec: step %d: %w", i, err)
		}
		steps[i] = s
	}

	variables := make([]plan.VariableRole, len(variablesRaw))
	for i, raw := range variablesRaw {
		v, err := DecodeVariableRole(raw)
		if err != nil {
			return nil, fmt.Errorf("codec: variable %d: %w", i, err)
		}
		variables[i] = v
	}

	payments := make([]plan.Payment, len(paymentsRaw))
	for i, raw := range paymentsRaw {
		p, err := DecodePayment(raw)
		if err != nil {
			return nil, fmt.Errorf("codec: plan payment %d: %w", i, err)
		}
		payments[i] = p
	}

	order := &plan.ResolvedOrder{
		Steps:       steps,
		Variables:   variables,
		Assumptions: assumptions,
		Payments:    payments,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Resolve calls the resolver contract's resolve(bytes) view function, decodes
// its ResolvedOrder-shaped output into plan entities, and validates the
// result.
func Resolve(ctx context.Context, client ChainCaller, resolver xtypes.Account, payload []byte) (*plan.ResolvedOrder, error) {
	method := resolveContractABI.GetMethod("resolve")

	encodedArgs, err := method.Inputs.Encode(map[string]interface{}{"payload": payload})
	if err != nil {
		return nil, fmt.Errorf("codec: failed to encode resolve(bytes) call: %w", err)
	}
	calldata := append(append([]byte{}, method.ID()...), encodedArgs...)

	respBytes, err := client.Call(ctx, resolver.ChainID, resolver.Address, calldata)
	if err != nil {
		return nil, fmt.Errorf("codec: resolver call failed: %w", err)
	}

	outVals, err := method.Outputs.Decode(respBytes)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to decode resolver output: %w", err)
	}
	outMap, ok := outVals.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("codec: unexpected resolver output shape")
	}
	order, ok := outMap["order"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("codec: resolver output missing order tuple")
	}

	stepsRaw, err := fieldBytesList(order, "steps")
	if err != nil {
		return nil, err
	}
	variablesRaw, err := fieldBytesList(order, "variables")
	if err != nil {
		return nil, err
	}
	paymentsRaw, err := fieldBytesList(order, "payments")
	if err != nil {
		return nil, err
	}

	assumptionsVal, ok := order["assumptions"]
	if !ok {
		return nil, fmt.Errorf("codec: resolver output missing assumptions")
	}
	assumptions, err := decodeAssumptions(assumptionsVal)
	if err != nil {
		return nil, err
	}

	return DecodePlan(stepsRaw, variablesRaw, assumptions, paymentsRaw)
}

func decodeAssumptions(v interface{}) ([]plan.Assumption, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("codec: assumptions field is not a list")
	}
	out := make([]plan.Assumption, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		m, ok := rv.Index(i).Interface().(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("codec: assumption %d has unexpected shape", i)
		}
		trusted, err := decodeAccountField(m, "trusted")
		if err != nil {
			return nil, fmt.Errorf("codec: assumption %d: %w", i, err)
		}
		kind, err := fieldString(m, "kind")
		if err != nil {
			return nil, fmt.Errorf("codec: assumption %d: %w", i, err)
		}
		out[i] = plan.Assumption{Trusted: trusted, Kind: kind}
	}
	return out, nil
}
