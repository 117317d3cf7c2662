// Package verify replays a decompressed plan's primitive sequence against a
// ground STRIPS task and reports the first precondition violation or
// unreached goal fact, closing the loop between search output and the
// decompressor (spec.md §1, §4.7).
package verify

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/decompress"
	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

// Result reports the outcome of replaying one plan.
type Result struct {
	OK bool

	// FailedStepID is the plan task id of the first primitive step whose
	// preconditions didn't hold in the replayed state, or -1 if every
	// step's preconditions held.
	FailedStepID int
	// FailedFact is the precondition fact id that didn't hold, when
	// FailedStepID >= 0.
	FailedFact int

	// UnreachedGoal lists every goal fact id that still didn't hold after
	// the last primitive step, even if every step's preconditions held.
	UnreachedGoal []int
}

// Plan replays plan's primitive sequence, starting from task's init state,
// and reports the first precondition violation (matching a primitive step
// to its ground operator by name) or, failing that, any goal fact the
// final state doesn't satisfy.
func Plan(task *facts.Task, plan *decompress.Plan) (Result, error) {
	opByName := make(map[string]*facts.Operator, task.Store.NumOperators())
	for _, op := range task.Store.Operators() {
		opByName[op.Name] = op
	}

	state := task.Init.Clone()
	for _, id := range plan.PrimitiveOrder {
		step := plan.Tasks[id]
		name := fmt.Sprintf("%s(%s)", step.Name, joinArgs(step.Args))
		op, ok := opByName[name]
		if !ok {
			return Result{}, perr.InputErr("verify", "Plan", fmt.Errorf("plan step %d (%s) matches no ground operator", id, name))
		}

		if missing, ok := firstMissing(op.Pre, state); !ok {
			return Result{FailedStepID: id, FailedFact: missing}, nil
		}

		state = state.Difference(op.Del)
		state.AddAll(op.Add)
		for _, ce := range op.CondEffects {
			if ce.Pre.IsSubsetOf(state) {
				state = state.Difference(ce.Del)
				state.AddAll(ce.Add)
			}
		}
	}

	if unreached := unreachedGoals(task.Goal, state); len(unreached) > 0 {
		return Result{FailedStepID: -1, UnreachedGoal: unreached}, nil
	}
	return Result{OK: true, FailedStepID: -1}, nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ","
		}
		out += a
	}
	return out
}

// firstMissing returns the first id in pre (ascending) absent from state,
// and ok=true iff pre holds in state entirely.
func firstMissing(pre *facts.IDSet, state *facts.IDSet) (int, bool) {
	for _, id := range pre.Slice() {
		if !state.Contains(id) {
			return id, false
		}
	}
	return -1, true
}

func unreachedGoals(goal *facts.IDSet, state *facts.IDSet) []int {
	var unreached []int
	for _, id := range goal.Slice() {
		if !state.Contains(id) {
			unreached = append(unreached, id)
		}
	}
	return unreached
}
