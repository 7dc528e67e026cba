// Package quoter collects a plan's asset flows, evaluates and prices them,
// and gates on non-negative profit.
package quoter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/callbuilder"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
	"github.com/xgr-network/xgr-solver/solverctx"
	"github.com/xgr-network/xgr-solver/variableenv"
)

type FlowKind int

const (
	FlowGas FlowKind = iota
	FlowToken
)

// Flow is a signed, chain-qualified token or gas amount contributing to the
// plan's profit computation.
type Flow struct {
	Kind      FlowKind
	ChainID   *big.Int
	Token     xtypes.Address // zero value for gas flows
	Sign      int            // +1 inflow, -1 outflow
	Amount    *big.Int
	StepIndex int // -1 for plan-level payments
}

// Result is quote's return value: the populated env (reused by fill) and
// the evaluated, priced flows.
type Result struct {
	Env   *variableenv.Env
	Flows []Flow
	PnL   *big.Int
}

// Quote runs the six-step flow-collection, pricing, and PnL-gate procedure.
func Quote(ctx context.Context, sctx solverctx.SolverContext, order *plan.ResolvedOrder) (*Result, error) {
	for i, v := range order.Variables {
		if v.Kind == plan.RolePricing {
			return nil, fmt.Errorf("quoter: pricing-variable search is not supported (variable %d)", i)
		}
	}

	env := variableenv.New(order, sctx)

	evalFormula := func(f plan.Formula) (*big.Int, error) {
		switch f.Kind {
		case plan.FormulaConstant:
			return new(big.Int).Set(f.Constant), nil
		case plan.FormulaVariable:
			v, err := env.Get(ctx, f.VarIdx)
			if err != nil {
				return nil, err
			}
			return abiwire.DecodeUint256(v)
		default:
			return nil, fmt.Errorf("quoter: unrecognized formula kind")
		}
	}

	var flows []Flow

	for si, step := range order.Steps {
		gasAmount, err := evalGas(ctx, sctx, env, step, si, evalFormula)
		if err != nil {
			return nil, err
		}
		flows = append(flows, Flow{Kind: FlowGas, ChainID: step.Target.ChainID, Sign: -1, Amount: gasAmount, StepIndex: si})

		for _, s := range step.Attributes.SpendsERC20 {
			amt, err := evalFormula(s.AmountFormula)
			if err != nil {
				return nil, err
			}
			flows = append(flows, Flow{
				Kind: FlowToken, ChainID: s.Token.ChainID, Token: s.Token.Address,
				Sign: -1, Amount: amt, StepIndex: si,
			})
		}

		for _, p := range step.Payments {
			f, err := evalPayment(p, si, evalFormula)
			if err != nil {
				return nil, err
			}
			flows = append(flows, f)
		}
	}

	for _, p := range order.Payments {
		f, err := evalPayment(p, -1, evalFormula)
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}

	pnl := big.NewInt(0)
	for _, f := range flows {
		priceUsd, err := priceOf(sctx, f)
		if err != nil {
			return nil, err
		}
		contribution := new(big.Int).Mul(f.Amount, priceUsd)
		if f.Sign < 0 {
			contribution.Neg(contribution)
		}
		pnl.Add(pnl, contribution)
	}

	if pnl.Sign() < 0 {
		return nil, fmt.Errorf("quoter: negative PnL %s", pnl)
	}

	return &Result{Env: env, Flows: flows, PnL: pnl}, nil
}

func evalPayment(p plan.Payment, stepIndex int, evalFormula func(plan.Formula) (*big.Int, error)) (Flow, error) {
	if p.EstimatedDelaySeconds != 0 {
		return Flow{}, fmt.Errorf("quoter: delayed payments are not supported")
	}
	amt, err := evalFormula(p.AmountFormula)
	if err != nil {
		return Flow{}, err
	}
	return Flow{
		Kind: FlowToken, ChainID: p.Token.ChainID, Token: p.Token.Address,
		Sign: 1, Amount: amt, StepIndex: stepIndex,
	}, nil
}

// evalGas applies the gas-flow rule: use the step's
// SpendsEstimatedGas formula if present, otherwise simulate and take
// gasUsed. Invariant 6 follows directly: if every step supplies the
// formula, SimulateCalls is never invoked.
func evalGas(
	ctx context.Context, sctx solverctx.SolverContext, env *variableenv.Env,
	step plan.Step, stepIndex int, evalFormula func(plan.Formula) (*big.Int, error),
) (*big.Int, error) {
	if step.Attributes.SpendsEstimatedGas != nil {
		return evalFormula(*step.Attributes.SpendsEstimatedGas)
	}

	args, err := callbuilder.ResolveArguments(ctx, step.Arguments, env)
	if err != nil {
		return nil, err
	}
	calldata, err := callbuilder.BuildCallData(step.Selector, args)
	if err != nil {
		return nil, err
	}

	client, err := sctx.GetPublicClient(step.Target.ChainID)
	if err != nil {
		return nil, fmt.Errorf("quoter: step %d public client: %w", stepIndex, err)
	}

	results, err := client.SimulateCalls(ctx, solverctx.SimulateRequest{
		Account: sctx.FillerAddress(),
		Calls:   []solverctx.SimulateCall{{To: step.Target.Address, Data: calldata}},
	})
	if err != nil {
		return nil, fmt.Errorf("quoter: step %d gas simulation: %w", stepIndex, err)
	}
	if len(results) == 0 || !results[0].Success {
		return nil, fmt.Errorf("quoter: step %d gas simulation did not succeed", stepIndex)
	}
	return new(big.Int).SetUint64(results[0].GasUsed), nil
}

func priceOf(sctx solverctx.SolverContext, f Flow) (*big.Int, error) {
	if f.Kind == FlowGas {
		return sctx.GetGasPriceUsd(f.ChainID)
	}
	return sctx.GetTokenPriceUsd(xtypes.NewAccount(f.Token, f.ChainID))
}
