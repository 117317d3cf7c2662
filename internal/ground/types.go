// Package ground projects lifted actions over a typed object universe into
// a ground facts.Task, guarded by lifted mutex groups discovered by
// internal/lmg.
package ground

import "github.com/htnplan/htnplan/internal/lmg"

// Term is one argument slot of a lifted atom: a parameter reference (Var
// non-empty) or an object constant (Object non-empty). Exactly one is set.
type Term struct {
	Var    string
	Object string
}

func (t Term) isVar() bool { return t.Var != "" }

// AtomSchema is a predicate applied to a list of terms, still parameterized
// over an action's own parameter names.
type AtomSchema struct {
	Predicate string
	Terms     []Term
}

// CondEffectSchema mirrors facts.CondEffect at the lifted level.
type CondEffectSchema struct {
	Pre []AtomSchema
	Add []AtomSchema
	Del []AtomSchema
}

// Param is one formal parameter of an action schema, restricted to objects
// of Type (or any subtype, per the domain's type hierarchy).
type Param struct {
	Name string
	Type string
}

// ActionSchema is one lifted (first-order) action: its parameters, its
// classical pre/add/del atoms, and any conditional effects.
type ActionSchema struct {
	Name        string
	Params      []Param
	Cost        int
	Pre         []AtomSchema
	Add         []AtomSchema
	Del         []AtomSchema
	CondEffects []CondEffectSchema
}

// Domain is the grounder's input: the typed object universe, the action
// schemata, and the initial/goal state expressed as ground atoms.
type Domain struct {
	// Objects maps an object constant to its declared type name.
	Objects map[string]string
	// Supertypes maps a type name to its direct parent type, empty if root.
	Supertypes map[string]string
	Actions    []ActionSchema
	Init       []GroundAtom
	Goal       []GroundAtom
}

// GroundAtom is a predicate applied to object constants.
type GroundAtom struct {
	Predicate string
	Args      []string
}

// Options controls the two optional pruning passes. Both need a
// lifted-mutex-groups handle (Groups) to be effective; with Groups empty
// they are no-ops regardless of the booleans.
type Options struct {
	PreconditionMutexPruning bool
	DeadEndEffectPruning     bool
	Groups                   []lmg.Group
}
