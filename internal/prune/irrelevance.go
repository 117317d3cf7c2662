package prune

import "github.com/htnplan/htnplan/internal/facts"

// IrrelevantFacts returns initial-state facts that no operator's add or
// delete set ever references: they never change truth value, so they can
// be factored out of the task entirely.
func IrrelevantFacts(task *facts.Task) *facts.IDSet {
	referenced := facts.NewIDSet()
	for _, op := range task.Store.Operators() {
		referenced.AddAll(op.Add)
		referenced.AddAll(op.Del)
		for _, ce := range op.CondEffects {
			referenced.AddAll(ce.Add)
			referenced.AddAll(ce.Del)
		}
	}
	irrelevant := facts.NewIDSet()
	for _, f := range task.Init.Slice() {
		if !referenced.Contains(f) {
			irrelevant.Add(f)
		}
	}
	return irrelevant
}

// IrrelevantOperators returns operators that cannot affect anything the
// goal (transitively) depends on, by backward reachability from the goal
// across add and delete effects: a fact becomes "needed" once some
// relevant operator's precondition mentions it, starting the relevant set
// from any operator whose add/del set intersects the goal.
func IrrelevantOperators(task *facts.Task) *facts.IDSet {
	needed := task.Goal.Clone()
	ops := task.Store.Operators()
	relevant := make([]bool, len(ops))

	for {
		changed := false
		for _, op := range ops {
			if relevant[op.ID] {
				continue
			}
			touches := op.Add.Intersects(needed) || op.Del.Intersects(needed)
			for _, ce := range op.CondEffects {
				if ce.Add.Intersects(needed) || ce.Del.Intersects(needed) {
					touches = true
				}
			}
			if !touches {
				continue
			}
			relevant[op.ID] = true
			changed = true
			needed.AddAll(op.Pre)
			for _, ce := range op.CondEffects {
				needed.AddAll(ce.Pre)
			}
		}
		if !changed {
			break
		}
	}

	irrelevant := facts.NewIDSet()
	for _, op := range ops {
		if !relevant[op.ID] {
			irrelevant.Add(op.ID)
		}
	}
	return irrelevant
}
