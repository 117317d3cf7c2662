package facts

// Fact is an interned propositional atom. Facts are immutable after
// creation except for the global, monotone id remap a reduction pass may
// apply to the whole store.
type Fact struct {
	ID   int
	Name string

	// NegOf points at the fact this one is the negation of, or -1 if this
	// fact is not a compiler-introduced negation. Conditional-effect
	// compilation is the only pass that introduces negated facts.
	NegOf int

	// Private marks a fact as owned by a single agent in a multi-agent
	// problem; unused by any single-agent pass but preserved across
	// grounding and reduction so downstream consumers can filter on it.
	Private bool
}

// CondEffect is one conditional effect attached to an operator: its own
// precondition, add set, and delete set, triggered when the outer operator
// fires and Pre holds in the state the operator is applied to.
type CondEffect struct {
	Pre *IDSet
	Add *IDSet
	Del *IDSet
}

// Clone returns a deep copy of the conditional effect.
func (c CondEffect) Clone() CondEffect {
	return CondEffect{Pre: c.Pre.Clone(), Add: c.Add.Clone(), Del: c.Del.Clone()}
}

// Operator is a ground action: a unique id, a name, a nonnegative cost, the
// three main fact-id collections, and zero or more conditional effects.
type Operator struct {
	ID   int
	Name string
	Cost int

	Pre *IDSet
	Add *IDSet
	Del *IDSet

	CondEffects []CondEffect
}

// HasCondEffects reports whether the operator carries any conditional
// effect, the condition the pruning pipeline uses to disable h² and
// irrelevance analysis (spec §4.4) for this task.
func (o *Operator) HasCondEffects() bool {
	return len(o.CondEffects) > 0
}

// Clone returns a deep copy of the operator.
func (o *Operator) Clone() *Operator {
	clone := &Operator{
		ID:   o.ID,
		Name: o.Name,
		Cost: o.Cost,
		Pre:  o.Pre.Clone(),
		Add:  o.Add.Clone(),
		Del:  o.Del.Clone(),
	}
	clone.CondEffects = make([]CondEffect, len(o.CondEffects))
	for i, ce := range o.CondEffects {
		clone.CondEffects[i] = ce.Clone()
	}
	return clone
}

// Normalize restores the operator invariant: add members that are already
// preconditions and del members that are also added are dropped, and a
// conditional effect whose outer precondition is empty collapses into the
// main effect (it always fires, so it is not conditional at all).
func (o *Operator) Normalize() {
	o.Add = o.Add.Difference(o.Pre.Intersect(o.Add))
	o.Del = o.Del.Difference(o.Add)

	kept := o.CondEffects[:0]
	for _, ce := range o.CondEffects {
		if ce.Pre.Empty() {
			o.Add.AddAll(ce.Add)
			o.Del.AddAll(ce.Del)
			continue
		}
		kept = append(kept, ce)
	}
	o.CondEffects = kept
	o.Del = o.Del.Difference(o.Add)
}
