package facts

// Task bundles a fact/operator store with the initial state, the goal, and
// the two flags downstream passes branch on: whether the goal is already
// known unreachable, and whether any operator carries a conditional
// effect (which disables h² and irrelevance analysis per spec §4.4).
type Task struct {
	Store *Store
	Init  *IDSet
	Goal  *IDSet

	GoalUnreachable bool
	HasCondEff      bool
}

// NewTask wraps a store with the given init/goal sets.
func NewTask(store *Store, init, goal *IDSet) *Task {
	t := &Task{Store: store, Init: init, Goal: goal}
	t.RecomputeHasCondEff()
	return t
}

// RecomputeHasCondEff scans every operator and sets HasCondEff to true iff
// at least one has a nonzero conditional-effect count. Callers invoke this
// after any pass that can add or remove conditional effects (grounding,
// conditional-effect compilation).
func (t *Task) RecomputeHasCondEff() {
	for _, op := range t.Store.Operators() {
		if op.HasCondEffects() {
			t.HasCondEff = true
			return
		}
	}
	t.HasCondEff = false
}

// Reduce drops removedFacts and removedOps from the task, remaps every
// surviving id monotonically, rewrites init/goal, and removes resulting
// no-op operators, per the reduction algorithm in spec §4.4.
func (t *Task) Reduce(removedFacts, removedOps *IDSet) map[int]int {
	t.Store.RemoveOperators(removedOps)
	remap := t.Store.SortAndRemap(removedFacts)
	t.Init = RemapSet(t.Init, remap)
	t.Goal = RemapSet(t.Goal, remap)
	t.Store.RemoveNoOps()
	t.RecomputeHasCondEff()
	return remap
}
