package lmg

// verify checks, for every action in dom and every way its parameters can
// be bound to the candidate's free variables, that the count of group
// members it adds equals (fam-group) or never falls below (monotonicity)
// the count it deletes. This is the lifted analogue of the ground
// dead-end-operator rule in internal/prune: instead of testing one ground
// operator against one ground group, it tests one action schema against
// every binding of the group's free variables to that action's parameters.
func verify(c Candidate, dom LiftedDomain, monotonicity bool) bool {
	freeVars := freeVarNamesOf(c)
	for _, act := range dom.Actions {
		if !actionPreserves(c, freeVars, act, monotonicity) {
			return false
		}
	}
	return true
}

func actionPreserves(c Candidate, freeVars []string, act LiftedAction, monotonicity bool) bool {
	ok := true
	forEachInjectiveAssignment(freeVars, act.Params, func(assign map[string]string) bool {
		added := countMatches(c, assign, act.Add)
		deleted := countMatches(c, assign, act.Del)
		if monotonicity {
			if added < deleted {
				ok = false
				return false
			}
		} else if added != deleted {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// countMatches counts how many atoms in effectAtoms match some atom of the
// candidate once the candidate's free variables are substituted through
// assign; the candidate's counted slot matches any value.
func countMatches(c Candidate, assign map[string]string, effectAtoms []Atom) int {
	n := 0
	for _, effAtom := range effectAtoms {
		for _, candAtom := range c.Atoms {
			if matches(candAtom, assign, effAtom) {
				n++
				break
			}
		}
	}
	return n
}

// matches reports whether effAtom is an instance of candAtom once
// candAtom's free variables are substituted via assign. The counted slot
// always matches.
func matches(candAtom Atom, assign map[string]string, effAtom Atom) bool {
	if candAtom.Predicate != effAtom.Predicate || candAtom.arity() != effAtom.arity() {
		return false
	}
	for i, slot := range candAtom.Slots {
		if slot.Counted {
			continue
		}
		effSlot := effAtom.Slots[i]
		if slot.isObject() {
			if !effSlot.isObject() || effSlot.Object != slot.Object {
				return false
			}
			continue
		}
		bound, ok := assign[slot.Var]
		if !ok {
			return false
		}
		if effSlot.isObject() || effSlot.Var != bound {
			return false
		}
	}
	return true
}

// forEachInjectiveAssignment calls visit with every injective mapping of
// freeVars into params (every ordered choice of distinct params), stopping early
// if visit returns false. When freeVars is empty, visit is called once with
// an empty assignment (the action touches the group with no free choice).
func forEachInjectiveAssignment(freeVars, params []string, visit func(map[string]string) bool) {
	if len(freeVars) == 0 {
		visit(map[string]string{})
		return
	}
	if len(freeVars) > len(params) {
		return
	}
	used := make([]bool, len(params))
	assign := make(map[string]string, len(freeVars))
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(freeVars) {
			return visit(assign)
		}
		for j, p := range params {
			if used[j] {
				continue
			}
			used[j] = true
			assign[freeVars[i]] = p
			cont := rec(i + 1)
			delete(assign, freeVars[i])
			used[j] = false
			if !cont {
				return false
			}
		}
		return true
	}
	rec(0)
}
