// Package condeff compiles conditional effects out of a facts.Store: every
// operator with k conditional effects becomes 2^k unconditional operators,
// one per subset of which conditional effects fire, with negated facts
// introduced lazily to encode "this conditional effect did not fire."
package condeff

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

// WordSize bounds the number of conditional effects a single operator may
// carry into Compile, since subset enumeration walks a bit pattern over
// them.
const WordSize = 64

// Compile rewrites store in place: every operator with one or more
// conditional effects is replaced by one operator per subset of those
// effects (the "positive" half merged into the main pre/add/del, the
// "negative" half contributing the negations of their own preconditions),
// every operator touching a fact that gained a negation is retrofitted to
// manipulate the negation dually, and the resulting operator set is
// deduplicated. It returns a Capacity error if any operator's conditional-
// effect count reaches WordSize.
func Compile(store *facts.Store) error {
	original := store.Operators()
	carriers := facts.NewIDSet()
	negCache := map[int]int{}
	var compiled []*facts.Operator

	for _, op := range original {
		k := len(op.CondEffects)
		if k == 0 {
			continue
		}
		if k >= WordSize {
			return perr.CapacityErr("condeff", "Compile",
				fmt.Errorf("operator %q carries %d conditional effects, bound is word_size=%d", op.Name, k, WordSize))
		}
		carriers.Add(op.ID)
		compiled = append(compiled, expandOperator(store, op, negCache)...)
	}

	for _, op := range compiled {
		store.AddOperator(op)
	}
	if !carriers.Empty() {
		store.RemoveOperators(carriers)
	}
	if len(negCache) > 0 {
		retrofitNegations(store, negCache)
	}

	store.Dedup()
	return nil
}

// expandOperator returns the 2^k subset operators for one conditional-
// effect-carrying op, creating negation facts in negCache lazily so the
// same original fact always maps to the same negation across operators.
func expandOperator(store *facts.Store, op *facts.Operator, negCache map[int]int) []*facts.Operator {
	k := len(op.CondEffects)
	out := make([]*facts.Operator, 0, 1<<uint(k))

	for subset := uint64(0); subset < uint64(1)<<uint(k); subset++ {
		newOp := &facts.Operator{
			Name: op.Name,
			Cost: op.Cost,
			Pre:  op.Pre.Clone(),
			Add:  op.Add.Clone(),
			Del:  op.Del.Clone(),
		}
		for i, ce := range op.CondEffects {
			if subset&(uint64(1)<<uint(i)) != 0 {
				newOp.Pre.AddAll(ce.Pre)
				newOp.Add.AddAll(ce.Add)
				newOp.Del.AddAll(ce.Del)
				continue
			}
			for _, f := range ce.Pre.Slice() {
				newOp.Pre.Add(negationOf(store, negCache, f))
			}
		}
		out = append(out, newOp)
	}
	return out
}

func negationOf(store *facts.Store, negCache map[int]int, f int) int {
	if neg, ok := negCache[f]; ok {
		return neg
	}
	neg := store.AddNegationFact(f)
	negCache[f] = neg
	return neg
}

// retrofitNegations ensures every operator that adds (resp. deletes) a fact
// with a compiler-introduced negation also deletes (resp. adds) that
// negation, so the negation stays a faithful complement as the state
// evolves under operators that were never part of any conditional effect.
func retrofitNegations(store *facts.Store, negCache map[int]int) {
	for _, op := range store.Operators() {
		changed := false
		for f, neg := range negCache {
			if op.Add.Contains(f) && !op.Del.Contains(neg) {
				op.Del.Add(neg)
				changed = true
			}
			if op.Del.Contains(f) && !op.Add.Contains(neg) {
				op.Add.Add(neg)
				changed = true
			}
		}
		if changed {
			op.Normalize()
		}
	}
}
