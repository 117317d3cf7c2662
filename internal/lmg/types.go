// Package lmg infers lifted mutex groups — candidate sets of fact schemata
// that some invariant (fam-group: count is exactly preserved, or
// monotonicity: count never decreases) holds for, over every lifted action
// of the domain. The grounder (internal/ground) instantiates the surviving
// candidates into ground facts once the object universe is known.
package lmg

// Slot is one argument position of a lifted atom: either a fixed object
// constant, a free variable shared across every member of a candidate, or
// the candidate's single counted variable.
type Slot struct {
	Object  string // non-empty if this slot is a ground object constant
	Var     string // variable name, meaningful when Object == ""
	Counted bool
}

func (s Slot) isObject() bool { return s.Object != "" }

// Atom is a predicate applied to a list of slots, still at the lifted
// (first-order) level.
type Atom struct {
	Predicate string
	Slots     []Slot
}

// arity returns the number of argument slots.
func (a Atom) arity() int { return len(a.Slots) }

// LiftedAction is the grounder-facing view of one first-order action
// schema: its own parameter names and its precondition/add/delete atoms,
// each atom's slots referencing either a parameter name or an object
// constant.
type LiftedAction struct {
	Name   string
	Params []string
	Pre    []Atom
	Add    []Atom
	Del    []Atom
}

// LiftedDomain is the input to lifted mutex-group inference: the action
// schemata and the predicate signatures (name -> arity) that the search
// enumerates fact candidates over.
type LiftedDomain struct {
	Actions    []LiftedAction
	Predicates map[string]int
}

// Candidate is one fam-group/monotonicity candidate under construction or
// already verified: a set of atoms, each using the same pool of free
// (non-counted) variable names, with at most one counted slot per atom.
type Candidate struct {
	Atoms []Atom
}

// numFreeVars returns the number of distinct free-variable names used
// across the candidate's atoms.
func (c Candidate) numFreeVars() int {
	seen := map[string]bool{}
	for _, a := range c.Atoms {
		for _, s := range a.Slots {
			if !s.isObject() && !s.Counted {
				seen[s.Var] = true
			}
		}
	}
	return len(seen)
}

// Group is a verified lifted mutex group: the candidate plus
// IsFamGroup/IsMonotone, which record the criterion the lifted search
// verified. It carries no exactly-one or static flag: the grounder
// recomputes IsExactlyOne and IsGoal on the ground facts.MutexGroup, and no
// pass records staticness (facts.MutexGroup.IsStatic computes it on call).
type Group struct {
	Candidate  Candidate
	IsFamGroup bool
	IsMonotone bool
}
