package ground

import (
	"fmt"
	"sort"
	"strings"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

// candidateOp is one type-compatible instantiation of an action schema,
// still expressed over ground-atom keys rather than fact ids: fact ids are
// only assigned once the reachability fixpoint below has decided which
// atoms actually belong in the store.
type candidateOp struct {
	name        string
	cost        int
	pre         []GroundAtom
	add         []GroundAtom
	del         []GroundAtom
	condEffects []condEffectGround
}

type condEffectGround struct {
	pre []GroundAtom
	add []GroundAtom
	del []GroundAtom
}

// Ground projects every action in dom over its type-compatible argument
// tuples, keeps only the operators and facts reachable from init by a
// monotone add-effect fixpoint, and applies the two optional mutex-guarded
// prunings from opts. It returns a ground facts.Task.
func Ground(dom Domain, opts Options) (*facts.Task, error) {
	task, _, err := groundInternal(dom, opts)
	return task, err
}

// GroundWithGroups behaves exactly as Ground, additionally returning the
// ground projection of opts.Groups: the facts.MutexGroup set the D (pruning)
// and F (FDR variable allocation) passes need and that Ground itself only
// consults internally for its own two optional prunings.
func GroundWithGroups(dom Domain, opts Options) (*facts.Task, []facts.MutexGroup, error) {
	return groundInternal(dom, opts)
}

func groundInternal(dom Domain, opts Options) (*facts.Task, []facts.MutexGroup, error) {
	candidates, err := instantiateAll(dom)
	if err != nil {
		return nil, nil, err
	}

	reachable := map[string]bool{}
	for _, a := range dom.Init {
		reachable[atomKey(a.Predicate, a.Args)] = true
	}

	kept := runFixpoint(candidates, reachable)

	store := facts.NewStore()
	factID, atomsByPredicate := internFacts(store, dom, candidates, kept, reachable)

	ops := make([]*facts.Operator, 0, len(kept))
	for i, c := range candidates {
		if !kept[i] {
			continue
		}
		op := &facts.Operator{
			Name: c.name,
			Cost: c.cost,
			Pre:  idSetOf(factID, c.pre),
			Add:  idSetOf(factID, c.add),
			Del:  idSetOf(factID, c.del),
		}
		for _, ce := range c.condEffects {
			op.CondEffects = append(op.CondEffects, facts.CondEffect{
				Pre: idSetOf(factID, ce.pre),
				Add: idSetOf(factID, ce.add),
				Del: idSetOf(factID, ce.del),
			})
		}
		store.AddOperator(op)
		ops = append(ops, op)
	}

	init := idSetOf(factID, dom.Init)
	goal := idSetOf(factID, dom.Goal)
	goalUnreachable := false
	for _, a := range dom.Goal {
		if !reachable[atomKey(a.Predicate, a.Args)] {
			goalUnreachable = true
			break
		}
	}

	task := facts.NewTask(store, init, goal)
	task.GoalUnreachable = goalUnreachable
	task.RecomputeHasCondEff()

	var groundGroups []facts.MutexGroup
	if len(opts.Groups) > 0 {
		groundGroups = instantiateGroups(opts.Groups, atomsByPredicate)
		applyPrunings(task, groundGroups, opts)
	}

	if err := store.ValidateRanges(); err != nil {
		return nil, nil, err
	}
	return task, groundGroups, nil
}

func atomKey(pred string, args []string) string {
	return pred + "(" + strings.Join(args, ",") + ")"
}

// instantiateAll expands every action schema over the cartesian product of
// its parameters' type-compatible objects.
func instantiateAll(dom Domain) ([]candidateOp, error) {
	var out []candidateOp
	for _, act := range dom.Actions {
		domains := make([][]string, len(act.Params))
		for i, p := range act.Params {
			objs := objectsOfType(dom, p.Type)
			if len(objs) == 0 {
				return nil, perr.InputErr("ground", "instantiateAll",
					fmt.Errorf("action %q parameter %q: no object of type %q", act.Name, p.Name, p.Type))
			}
			domains[i] = objs
		}

		bindings := cartesian(domains)
		for _, values := range bindings {
			binding := make(map[string]string, len(act.Params))
			names := make([]string, len(act.Params))
			for i, p := range act.Params {
				binding[p.Name] = values[i]
				names[i] = values[i]
			}
			c := candidateOp{
				name: act.Name + "(" + strings.Join(names, ",") + ")",
				cost: act.Cost,
				pre:  instantiateAtoms(act.Pre, binding),
				add:  instantiateAtoms(act.Add, binding),
				del:  instantiateAtoms(act.Del, binding),
			}
			for _, ce := range act.CondEffects {
				c.condEffects = append(c.condEffects, condEffectGround{
					pre: instantiateAtoms(ce.Pre, binding),
					add: instantiateAtoms(ce.Add, binding),
					del: instantiateAtoms(ce.Del, binding),
				})
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func instantiateAtoms(schemas []AtomSchema, binding map[string]string) []GroundAtom {
	out := make([]GroundAtom, len(schemas))
	for i, s := range schemas {
		args := make([]string, len(s.Terms))
		for j, t := range s.Terms {
			if t.isVar() {
				args[j] = binding[t.Var]
			} else {
				args[j] = t.Object
			}
		}
		out[i] = GroundAtom{Predicate: s.Predicate, Args: args}
	}
	return out
}

func cartesian(domains [][]string) [][]string {
	if len(domains) == 0 {
		return [][]string{{}}
	}
	rest := cartesian(domains[1:])
	out := make([][]string, 0, len(domains[0])*len(rest))
	for _, v := range domains[0] {
		for _, r := range rest {
			row := make([]string, 0, len(r)+1)
			row = append(row, v)
			row = append(row, r...)
			out = append(out, row)
		}
	}
	return out
}

// runFixpoint marks a candidate kept once its precondition is reachable and
// folds its (and its applicable conditional effects') add-effects into
// reachable, iterating until neither set grows. This is the delete-relaxed
// grounding fixpoint: an operator whose precondition can never become true
// in the delete relaxation can never fire in the real task either.
func runFixpoint(candidates []candidateOp, reachable map[string]bool) []bool {
	kept := make([]bool, len(candidates))
	for {
		changed := false
		for i, c := range candidates {
			if !allReachable(c.pre, reachable) {
				continue
			}
			if !kept[i] {
				kept[i] = true
				changed = true
			}
			if addNew(c.add, reachable) {
				changed = true
			}
			for _, ce := range c.condEffects {
				combined := append(append([]GroundAtom{}, c.pre...), ce.pre...)
				if allReachable(combined, reachable) && addNew(ce.add, reachable) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return kept
}

func allReachable(atoms []GroundAtom, reachable map[string]bool) bool {
	for _, a := range atoms {
		if !reachable[atomKey(a.Predicate, a.Args)] {
			return false
		}
	}
	return true
}

func addNew(atoms []GroundAtom, reachable map[string]bool) bool {
	changed := false
	for _, a := range atoms {
		k := atomKey(a.Predicate, a.Args)
		if !reachable[k] {
			reachable[k] = true
			changed = true
		}
	}
	return changed
}

type atomRecord struct {
	args []string
	id   int
}

// internFacts assigns one fact id per distinct ground atom that appears in
// init, goal, or a kept candidate's pre/add/del/conditional-effects, in
// sorted-key order so that grounding the same domain twice yields the same
// numbering. It returns the key->id lookup plus a per-predicate index used
// later to instantiate lifted mutex groups onto these ids.
func internFacts(store *facts.Store, dom Domain, candidates []candidateOp, kept []bool, reachable map[string]bool) (map[string]int, map[string][]atomRecord) {
	seen := map[string]GroundAtom{}
	record := func(a GroundAtom) { seen[atomKey(a.Predicate, a.Args)] = a }

	for _, a := range dom.Init {
		record(a)
	}
	for _, a := range dom.Goal {
		record(a)
	}
	for i, c := range candidates {
		if !kept[i] {
			continue
		}
		for _, a := range c.pre {
			record(a)
		}
		for _, a := range c.add {
			record(a)
		}
		for _, a := range c.del {
			record(a)
		}
		for _, ce := range c.condEffects {
			for _, a := range ce.pre {
				record(a)
			}
			for _, a := range ce.add {
				record(a)
			}
			for _, a := range ce.del {
				record(a)
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	factID := make(map[string]int, len(keys))
	atomsByPredicate := map[string][]atomRecord{}
	for _, k := range keys {
		a := seen[k]
		id := store.AddFact(k)
		factID[k] = id
		atomsByPredicate[a.Predicate] = append(atomsByPredicate[a.Predicate], atomRecord{args: a.Args, id: id})
	}
	return factID, atomsByPredicate
}

func idSetOf(factID map[string]int, atoms []GroundAtom) *facts.IDSet {
	set := facts.NewIDSet()
	for _, a := range atoms {
		if id, ok := factID[atomKey(a.Predicate, a.Args)]; ok {
			set.Add(id)
		}
	}
	return set
}
