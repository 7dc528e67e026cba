package plan

import "fmt"

// Validate checks the plan-intrinsic invariants: varIdx
// bounds, acyclicity of the Query dependency graph, and revert-policy vs.
// SpendsERC20 ordering. Invariants (d) and (e) — witness resolver
// availability and assumption whitelisting — need external context and are
// checked by the orchestrator's preflight instead.
func (o *ResolvedOrder) Validate() error {
	n := len(o.Variables)

	check := func(idx int, context string) error {
		if idx < 0 || idx >= n {
			return fmt.Errorf("plan: %s references out-of-bounds variable index %d (have %d variables)", context, idx, n)
		}
		return nil
	}

	checkFormula := func(f Formula, context string) error {
		if f.Kind == FormulaVariable {
			return check(f.VarIdx, context)
		}
		return nil
	}

	checkArgs := func(args []Argument, context string) error {
		for i, a := range args {
			if a.Kind == ArgumentVariable {
				if err := check(a.VarIdx, fmt.Sprintf("%s argument %d", context, i)); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for si, step := range o.Steps {
		sctx := fmt.Sprintf("step %d", si)
		if err := checkArgs(step.Arguments, sctx); err != nil {
			return err
		}
		for i, s := range step.Attributes.SpendsERC20 {
			if err := checkFormula(s.AmountFormula, fmt.Sprintf("%s spendsERC20 %d", sctx, i)); err != nil {
				return err
			}
		}
		if f := step.Attributes.SpendsEstimatedGas; f != nil {
			if err := checkFormula(*f, sctx+" spendsEstimatedGas"); err != nil {
				return err
			}
		}
		if rcr := step.Attributes.RequiredCallResult; rcr != nil {
			if err := checkArgs(rcr.Arguments, sctx+" requiredCallResult"); err != nil {
				return err
			}
		}
		if v := step.Attributes.WithTimestamp; v != nil {
			if err := check(*v, sctx+" withTimestamp"); err != nil {
				return err
			}
		}
		if v := step.Attributes.WithBlockNumber; v != nil {
			if err := check(*v, sctx+" withBlockNumber"); err != nil {
				return err
			}
		}
		if v := step.Attributes.WithEffectiveGasPrice; v != nil {
			if err := check(*v, sctx+" withEffectiveGasPrice"); err != nil {
				return err
			}
		}
		for i, p := range step.Payments {
			pctx := fmt.Sprintf("%s payment %d", sctx, i)
			if err := checkFormula(p.AmountFormula, pctx); err != nil {
				return err
			}
			if err := check(p.RecipientVarIdx, pctx+" recipient"); err != nil {
				return err
			}
		}
	}

	for i, p := range o.Payments {
		pctx := fmt.Sprintf("plan payment %d", i)
		if err := checkFormula(p.AmountFormula, pctx); err != nil {
			return err
		}
		if err := check(p.RecipientVarIdx, pctx+" recipient"); err != nil {
			return err
		}
	}

	for vi, v := range o.Variables {
		vctx := fmt.Sprintf("variable %d", vi)
		switch v.Kind {
		case RoleWitness:
			for i, dep := range v.Witness.Variables {
				if err := check(dep, fmt.Sprintf("%s witness dependency %d", vctx, i)); err != nil {
					return err
				}
			}
		case RoleQuery:
			if err := checkArgs(v.Query.Arguments, vctx+" query"); err != nil {
				return err
			}
		}
	}

	if err := o.checkQueryGraphAcyclic(); err != nil {
		return err
	}

	return o.checkRevertPolicyOrdering()
}

// checkQueryGraphAcyclic verifies invariant (b): the dependency graph
// induced by Query arguments referencing other variables has no cycles.
func (o *ResolvedOrder) checkQueryGraphAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(o.Variables))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("plan: variable dependency cycle detected at variable %d", i)
		}
		state[i] = visiting

		v := o.Variables[i]
		if v.Kind == RoleQuery {
			for _, a := range v.Query.Arguments {
				if a.Kind == ArgumentVariable {
					if err := visit(a.VarIdx); err != nil {
						return err
					}
				}
			}
		}

		state[i] = done
		return nil
	}

	for i := range o.Variables {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}

// checkRevertPolicyOrdering verifies invariant (c): a step whose revert
// policy includes drop cannot precede any step that has SpendsERC20.
func (o *ResolvedOrder) checkRevertPolicyOrdering() error {
	lastDropIdx := -1
	firstSpendIdx := -1

	for i, step := range o.Steps {
		for _, rp := range step.Attributes.RevertPolicy {
			if rp.Policy == RevertPolicyDrop {
				lastDropIdx = i
			}
		}
		if firstSpendIdx == -1 && len(step.Attributes.SpendsERC20) > 0 {
			firstSpendIdx = i
		}
	}

	if lastDropIdx == -1 || firstSpendIdx == -1 {
		return nil
	}
	if lastDropIdx > firstSpendIdx {
		return fmt.Errorf(
			"plan: revert policy ordering violated: last drop-policy step %d comes after first SpendsERC20 step %d",
			lastDropIdx, firstSpendIdx,
		)
	}
	return nil
}
