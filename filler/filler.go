// Package filler iterates a plan's steps in declared order, resolving
// witnesses, scheduling, simulating, sending, and interpreting revert
// policy.
package filler

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/callbuilder"
	"github.com/xgr-network/xgr-solver/plan"
	"github.com/xgr-network/xgr-solver/solverctx"
	"github.com/xgr-network/xgr-solver/variableenv"
)

// Clock abstracts wall-clock time so scheduling can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observer receives step lifecycle notifications; both methods are no-ops
// when Observer is nil. It exists purely for external visibility (metrics,
// event broadcast) and has no bearing on fill semantics.
type Observer interface {
	StepStarted(stepIndex int)
	StepFinished(stepIndex int, outcome string)
}

type stepOutcome int

const (
	outcomeCompleted stepOutcome = iota
	outcomeDropped
	outcomeIgnored
)

func (o stepOutcome) String() string {
	switch o {
	case outcomeDropped:
		return "DROPPED"
	case outcomeIgnored:
		return "IGNORED"
	default:
		return "COMPLETED"
	}
}

// Filler drives a single plan's fill. Fresh per plan.
type Filler struct {
	Ctx      solverctx.SolverContext
	Order    *plan.ResolvedOrder
	Env      *variableenv.Env
	Clock    Clock
	Observer Observer
}

func New(sctx solverctx.SolverContext, order *plan.ResolvedOrder, env *variableenv.Env) *Filler {
	return &Filler{Ctx: sctx, Order: order, Env: env, Clock: realClock{}}
}

// Fill runs the per-step state machine end to end: true on success, false
// if a step's revert policy signalled drop.
func (f *Filler) Fill(ctx context.Context) (bool, error) {
	for si, step := range f.Order.Steps {
		if f.Observer != nil {
			f.Observer.StepStarted(si)
		}

		outcome, err := f.fillStep(ctx, step, si)
		if err != nil {
			return false, fmt.Errorf("filler: step %d: %w", si, err)
		}

		if f.Observer != nil {
			f.Observer.StepFinished(si, outcome.String())
		}

		if outcome == outcomeDropped {
			return false, nil
		}
	}
	return true, nil
}

func (f *Filler) fillStep(ctx context.Context, step plan.Step, stepIndex int) (stepOutcome, error) {
	if err := f.resolveWitnesses(ctx, step); err != nil {
		return 0, err
	}

	if err := f.sleepUntilScheduled(ctx, step); err != nil {
		return 0, err
	}

	args, err := callbuilder.ResolveArguments(ctx, step.Arguments, f.Env)
	if err != nil {
		return 0, err
	}
	calldata, err := callbuilder.BuildCallData(step.Selector, args)
	if err != nil {
		return 0, err
	}

	client, err := f.Ctx.GetPublicClient(step.Target.ChainID)
	if err != nil {
		return 0, fmt.Errorf("public client: %w", err)
	}

	preSim, err := client.SimulateCalls(ctx, solverctx.SimulateRequest{
		Account: f.Ctx.FillerAddress(),
		Calls:   []solverctx.SimulateCall{{To: step.Target.Address, Data: calldata}},
	})
	if err != nil {
		return 0, fmt.Errorf("pre-simulation: %w", err)
	}
	if len(preSim) == 0 {
		return 0, fmt.Errorf("pre-simulation returned no result")
	}
	if !preSim[0].Success {
		return f.resolveRevert(step, preSim[0].RevertData)
	}

	wallet, err := f.Ctx.GetWalletClient(step.Target.ChainID)
	if err != nil {
		return 0, fmt.Errorf("wallet client: %w", err)
	}
	txHash, err := wallet.SendTransaction(ctx, solverctx.SendTxRequest{
		Account: f.Ctx.FillerAddress(), To: step.Target.Address, Data: calldata,
	})
	if err != nil {
		return 0, fmt.Errorf("send transaction: %w", err)
	}

	receipt, err := client.WaitForTransactionReceipt(ctx, txHash)
	if err != nil {
		return 0, fmt.Errorf("await receipt: %w", err)
	}

	if receipt.Success {
		if err := f.extractReceiptVars(ctx, client, step, receipt); err != nil {
			return 0, err
		}
		return outcomeCompleted, nil
	}

	revertData := receipt.RevertData
	if len(revertData) == 0 {
		blockNumber := receipt.BlockNumber
		resim, err := client.SimulateCalls(ctx, solverctx.SimulateRequest{
			Account:     f.Ctx.FillerAddress(),
			BlockNumber: &blockNumber,
			Calls:       []solverctx.SimulateCall{{To: step.Target.Address, Data: calldata}},
		})
		if err != nil {
			return 0, fmt.Errorf("post-revert re-simulation: %w", err)
		}
		if len(resim) > 0 {
			revertData = resim[0].RevertData
		}
		if len(revertData) == 0 {
			return 0, fmt.Errorf("internal error: no revert data available after post-revert re-simulation")
		}
	}

	return f.resolveRevert(step, revertData)
}

// resolveWitnesses resolves witness variables ahead of step execution. Only
// variables directly referenced as step arguments are considered; witnesses
// reachable only transitively are not resolved here.
func (f *Filler) resolveWitnesses(ctx context.Context, step plan.Step) error {
	for _, arg := range step.Arguments {
		if arg.Kind != plan.ArgumentVariable {
			continue
		}
		role := f.Order.Variables[arg.VarIdx]
		if role.Kind != plan.RoleWitness {
			continue
		}

		resolver, ok := f.Ctx.GetWitnessResolver(role.Witness.Kind)
		if !ok {
			return fmt.Errorf("no witness resolver registered for kind %q", role.Witness.Kind)
		}

		values := make([]abiwire.Value, len(role.Witness.Variables))
		for i, depIdx := range role.Witness.Variables {
			v, err := f.Env.Get(ctx, depIdx)
			if err != nil {
				return fmt.Errorf("witness dependency %d: %w", depIdx, err)
			}
			values[i] = v
		}

		result, err := resolver.Resolve(ctx, role.Witness.Data, values)
		if err != nil {
			return fmt.Errorf("witness resolve (kind %q): %w", role.Witness.Kind, err)
		}
		if err := f.Env.Set(arg.VarIdx, result); err != nil {
			return err
		}
	}
	return nil
}

// sleepUntilScheduled blocks until a step's scheduled time, if any.
func (f *Filler) sleepUntilScheduled(ctx context.Context, step plan.Step) error {
	var scheduled *uint64

	if idx := step.Attributes.WithTimestamp; idx != nil {
		if v, err := f.Env.Get(ctx, *idx); err == nil {
			if n, derr := abiwire.DecodeUint256(v); derr == nil && n.IsUint64() {
				t := n.Uint64()
				scheduled = &t
			}
		}
	}

	if rfu := step.Attributes.RequiredFillerUntil; rfu != nil {
		if f.Ctx.FillerAddress() != rfu.ExclusiveFiller.Address {
			if scheduled == nil || rfu.Deadline > *scheduled {
				d := rfu.Deadline
				scheduled = &d
			}
		}
	}

	if scheduled == nil {
		return nil
	}

	now := f.Clock.Now().Unix()
	if int64(*scheduled) <= now {
		return nil
	}
	return f.Clock.Sleep(ctx, time.Duration(int64(*scheduled)-now)*time.Second)
}

// extractReceiptVars performs the receipt-driven variable extraction for a
// completed step.
func (f *Filler) extractReceiptVars(ctx context.Context, client solverctx.PublicClient, step plan.Step, receipt solverctx.Receipt) error {
	if idx := step.Attributes.WithBlockNumber; idx != nil {
		v := abiwire.EncodeUint256(new(big.Int).SetUint64(receipt.BlockNumber))
		if err := f.Env.Set(*idx, v); err != nil {
			return err
		}
	}

	if idx := step.Attributes.WithTimestamp; idx != nil {
		block, err := client.GetBlock(ctx, receipt.BlockNumber)
		if err != nil {
			return fmt.Errorf("get block for timestamp extraction: %w", err)
		}
		v := abiwire.EncodeUint256(new(big.Int).SetUint64(block.Timestamp))
		if err := f.Env.Set(*idx, v); err != nil {
			return err
		}
	}

	if idx := step.Attributes.WithEffectiveGasPrice; idx != nil {
		price := receipt.EffectiveGasPrice
		if price == nil {
			price = big.NewInt(0)
		}
		v := abiwire.EncodeUint256(price)
		if err := f.Env.Set(*idx, v); err != nil {
			return err
		}
	}

	return nil
}

// resolveRevert interprets a step's revert policy against revert data.
func (f *Filler) resolveRevert(step plan.Step, revertData []byte) (stepOutcome, error) {
	for _, entry := range step.Attributes.RevertPolicy {
		if hasPrefixCaseInsensitive(revertData, entry.ExpectedReason) {
			switch entry.Policy {
			case plan.RevertPolicyDrop:
				return outcomeDropped, nil
			case plan.RevertPolicyIgnore:
				return outcomeIgnored, nil
			default:
				return 0, fmt.Errorf("resolver error: revert policy %v is not supported", entry.Policy)
			}
		}
	}
	return 0, fmt.Errorf("resolver error: unmatched revert (data=0x%s)", hex.EncodeToString(revertData))
}

func hasPrefixCaseInsensitive(data, prefix []byte) bool {
	if len(prefix) > len(data) {
		return false
	}
	return strings.EqualFold(
		hex.EncodeToString(data[:len(prefix)]),
		hex.EncodeToString(prefix),
	)
}
