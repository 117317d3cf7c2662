package ground

import "github.com/htnplan/htnplan/internal/lmg"

// ToLifted projects dom's action schemata onto internal/lmg's narrower,
// type-erased view: lmg only needs predicate names/arities and each
// action's pre/add/del atoms referencing a parameter name or an object
// constant, since mutex-group inference runs before any object universe is
// consulted.
func ToLifted(dom Domain) lmg.LiftedDomain {
	predicates := map[string]int{}
	actions := make([]lmg.LiftedAction, 0, len(dom.Actions))

	for _, a := range dom.Actions {
		params := make([]string, len(a.Params))
		for i, p := range a.Params {
			params[i] = p.Name
		}
		la := lmg.LiftedAction{
			Name:   a.Name,
			Params: params,
			Pre:    liftAtoms(a.Pre, predicates),
			Add:    liftAtoms(a.Add, predicates),
			Del:    liftAtoms(a.Del, predicates),
		}
		actions = append(actions, la)
	}

	for _, atom := range dom.Init {
		recordArity(predicates, atom.Predicate, len(atom.Args))
	}
	for _, atom := range dom.Goal {
		recordArity(predicates, atom.Predicate, len(atom.Args))
	}

	return lmg.LiftedDomain{Actions: actions, Predicates: predicates}
}

func liftAtoms(schemas []AtomSchema, predicates map[string]int) []lmg.Atom {
	atoms := make([]lmg.Atom, len(schemas))
	for i, s := range schemas {
		slots := make([]lmg.Slot, len(s.Terms))
		for j, t := range s.Terms {
			if t.isVar() {
				slots[j] = lmg.Slot{Var: t.Var}
			} else {
				slots[j] = lmg.Slot{Object: t.Object}
			}
		}
		atoms[i] = lmg.Atom{Predicate: s.Predicate, Slots: slots}
		recordArity(predicates, s.Predicate, len(s.Terms))
	}
	return atoms
}

func recordArity(predicates map[string]int, name string, arity int) {
	if _, ok := predicates[name]; !ok {
		predicates[name] = arity
	}
}
