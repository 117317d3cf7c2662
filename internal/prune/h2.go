package prune

import "github.com/htnplan/htnplan/internal/facts"

// pairState is the set of fact pairs (and, as (f,f), single facts)
// considered reachable in one direction of the h² fixed point.
type pairState struct {
	pairs map[[2]int]bool
}

func newPairState() *pairState { return &pairState{pairs: map[[2]int]bool{}} }

func pairKey(f, g int) [2]int {
	if f > g {
		f, g = g, f
	}
	return [2]int{f, g}
}

func (p *pairState) has(f, g int) bool { return p.pairs[pairKey(f, g)] }

// addAllWithin marks every pair (including every f with itself) drawn from
// set as reachable, reporting whether anything was newly added.
func (p *pairState) addAllWithin(set *facts.IDSet) bool {
	members := set.Slice()
	grown := false
	for i := 0; i < len(members); i++ {
		k := pairKey(members[i], members[i])
		if !p.pairs[k] {
			p.pairs[k] = true
			grown = true
		}
		for j := i + 1; j < len(members); j++ {
			k := pairKey(members[i], members[j])
			if !p.pairs[k] {
				p.pairs[k] = true
				grown = true
			}
		}
	}
	return grown
}

// allWithinReachable reports whether every pair (and single) drawn from set
// is already marked reachable in p.
func (p *pairState) allWithinReachable(set *facts.IDSet) bool {
	members := set.Slice()
	for i := 0; i < len(members); i++ {
		if !p.pairs[pairKey(members[i], members[i])] {
			return false
		}
		for j := i + 1; j < len(members); j++ {
			if !p.pairs[pairKey(members[i], members[j])] {
				return false
			}
		}
	}
	return true
}

// forwardReachable computes the forward h² fixed point: a pair is reachable
// if it holds in init, or some operator not blocked by mutex (its
// precondition holds no known mutex pair) fires from a reachable
// precondition and the pair holds in the resulting (pre\del)∪add state.
func forwardReachable(task *facts.Task, mutex *facts.MutexPairs) *pairState {
	reach := newPairState()
	reach.addAllWithin(task.Init)
	for {
		changed := false
		for _, op := range task.Store.Operators() {
			if facts.HasMutexPair(op.Pre, mutex) {
				continue
			}
			if !reach.allWithinReachable(op.Pre) {
				continue
			}
			result := op.Pre.Difference(op.Del).Union(op.Add)
			if reach.addAllWithin(result) {
				changed = true
			}
		}
		if !changed {
			return reach
		}
	}
}

// backwardReachable computes the dual regression fixed point from the
// goal: a precondition pair is reachable if the operator it guards isn't
// mutex-blocked and its resulting state is already (backward) reachable.
func backwardReachable(task *facts.Task, mutex *facts.MutexPairs) *pairState {
	reach := newPairState()
	reach.addAllWithin(task.Goal)
	for {
		changed := false
		for _, op := range task.Store.Operators() {
			if facts.HasMutexPair(op.Pre, mutex) {
				continue
			}
			result := op.Pre.Difference(op.Del).Union(op.Add)
			if !reach.allWithinReachable(result) {
				continue
			}
			if reach.addAllWithin(op.Pre) {
				changed = true
			}
		}
		if !changed {
			return reach
		}
	}
}

// H2Fixpoint composes the forward and backward reachability passes: a pair
// not co-reachable in either direction is added to mutex, which can block
// more operators and shrink both reachable sets further, so the whole
// thing iterates until mutex stops growing. Callers must not invoke this on
// a task with conditional effects (spec §4.4 disables h² in that case);
// base is mutated in place and also returned for convenience.
func H2Fixpoint(task *facts.Task, base *facts.MutexPairs) (*facts.MutexPairs, *facts.IDSet) {
	ids := task.Store.AllFactIDs().Slice()
	for {
		fwd := forwardReachable(task, base)
		bwd := backwardReachable(task, base)
		grown := false
		for i := range ids {
			f := ids[i]
			if !fwd.has(f, f) && !base.Unreachable(f) {
				base.AddUnreachableSelf(f)
				grown = true
			}
			for j := i + 1; j < len(ids); j++ {
				g := ids[j]
				if base.Are(f, g) {
					continue
				}
				if !fwd.has(f, g) || !bwd.has(f, g) {
					base.Add(f, g)
					grown = true
				}
			}
		}
		if !grown {
			break
		}
	}

	unreachableOps := facts.NewIDSet()
	for _, op := range task.Store.Operators() {
		if facts.HasMutexPair(op.Pre, base) {
			unreachableOps.Add(op.ID)
		}
	}
	return base, unreachableOps
}
