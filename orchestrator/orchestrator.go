// Package orchestrator implements process: the preflight gate plus
// quote-then-fill pipeline.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/xgr-network/xgr-solver/filler"
	"github.com/xgr-network/xgr-solver/plan"
	"github.com/xgr-network/xgr-solver/quoter"
	"github.com/xgr-network/xgr-solver/solverctx"
)

// MaxFillTimeSeconds bounds how long a full fill is allowed to take; a plan
// whose earliest RequiredBefore deadline is closer than this is rejected
// before any chain interaction.
const MaxFillTimeSeconds = 600

// Clock is swappable so deadline-slack tests don't depend on wall time.
type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Orchestrator wires plan-intrinsic validation, external preflight checks,
// quoting, and filling into the process operation.
type Orchestrator struct {
	Ctx   solverctx.SolverContext
	Clock Clock

	// Observer, if set, is forwarded to the filler.Filler Process constructs
	// purely observational.
	Observer filler.Observer
}

func New(sctx solverctx.SolverContext) *Orchestrator {
	return &Orchestrator{Ctx: sctx, Clock: realClock{}}
}

// Process runs preflight, then quote, then fill.
func (o *Orchestrator) Process(ctx context.Context, order *plan.ResolvedOrder) (bool, error) {
	if err := o.preflight(order); err != nil {
		return false, err
	}

	result, err := quoter.Quote(ctx, o.Ctx, order)
	if err != nil {
		return false, err
	}

	f := filler.New(o.Ctx, order, result.Env)
	f.Observer = o.Observer
	return f.Fill(ctx)
}

// preflight runs the plan-intrinsic and external gating checks.
// Assumption and witness failures are independent per-entry checks, so every failure is collected
// and reported together rather than surfacing only the first.
func (o *Orchestrator) preflight(order *plan.ResolvedOrder) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	if err := o.checkDeadlineSlack(order); err != nil {
		return err
	}

	var merr *multierror.Error

	for i, a := range order.Assumptions {
		if !o.Ctx.IsWhitelisted(a.Trusted, a.Kind) {
			merr = multierror.Append(merr, fmt.Errorf(
				"orchestrator: assumption %d: account %s is not whitelisted for kind %q",
				i, a.Trusted, a.Kind,
			))
		}
	}

	for i, v := range order.Variables {
		if v.Kind != plan.RoleWitness {
			continue
		}
		if _, ok := o.Ctx.GetWitnessResolver(v.Witness.Kind); !ok {
			merr = multierror.Append(merr, fmt.Errorf(
				"orchestrator: variable %d: no witness resolver registered for kind %q",
				i, v.Witness.Kind,
			))
		}
	}

	return merr.ErrorOrNil()
}

func (o *Orchestrator) checkDeadlineSlack(order *plan.ResolvedOrder) error {
	var earliest *uint64
	for _, step := range order.Steps {
		rb := step.Attributes.RequiredBefore
		if rb == nil {
			continue
		}
		if earliest == nil || rb.Deadline < *earliest {
			d := rb.Deadline
			earliest = &d
		}
	}
	if earliest == nil {
		return nil
	}

	now := uint64(o.Clock.Now().Unix())
	if now+MaxFillTimeSeconds >= *earliest {
		return fmt.Errorf(
			"orchestrator: deadline too close: now (%d) + max fill time (%d) >= earliest required-before deadline (%d)",
			now, MaxFillTimeSeconds, *earliest,
		)
	}
	return nil
}
