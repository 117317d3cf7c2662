package ground

import (
	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/lmg"
)

// instantiateGroups projects every lifted group's single-atom candidate onto
// the ground fact universe already interned in atomsByPredicate, one ground
// facts.MutexGroup per distinct binding of the candidate's free variables.
// Multi-atom candidates are skipped: matching them would require threading
// one consistent binding across every atom of the candidate, which this
// grounder does not attempt (see the note in DESIGN.md on lmg's binding
// model carrying no parameter types).
func instantiateGroups(groups []lmg.Group, atomsByPredicate map[string][]atomRecord) []facts.MutexGroup {
	var out []facts.MutexGroup
	for _, g := range groups {
		if len(g.Candidate.Atoms) != 1 {
			continue
		}
		out = append(out, instantiateSingleAtomGroup(g, atomsByPredicate)...)
	}
	return out
}

func instantiateSingleAtomGroup(g lmg.Group, atomsByPredicate map[string][]atomRecord) []facts.MutexGroup {
	atom := g.Candidate.Atoms[0]
	records := atomsByPredicate[atom.Predicate]

	bins := map[string][]int{}
	for _, rec := range records {
		if len(rec.args) != len(atom.Slots) {
			continue
		}
		key, ok := bindingKey(atom, rec.args)
		if !ok {
			continue
		}
		bins[key] = append(bins[key], rec.id)
	}

	out := make([]facts.MutexGroup, 0, len(bins))
	for _, ids := range bins {
		if len(ids) < 2 {
			continue
		}
		out = append(out, facts.MutexGroup{
			Facts:      facts.IDSetOf(ids...),
			IsFamGroup: g.IsFamGroup,
		})
	}
	return out
}

// bindingKey reports the free-variable binding implied by matching atom's
// slots against args, or ok=false if args is inconsistent with atom's fixed
// object slots.
func bindingKey(atom lmg.Atom, args []string) (string, bool) {
	key := ""
	for i, slot := range atom.Slots {
		if slot.Counted {
			continue
		}
		if slot.Object != "" {
			if args[i] != slot.Object {
				return "", false
			}
			continue
		}
		key += slot.Var + "=" + args[i] + ";"
	}
	return key, true
}

// applyPrunings removes, from task's store, operators excluded by the two
// grounder-level pruning rules in opts, then drops the resulting no-ops.
func applyPrunings(task *facts.Task, groundGroups []facts.MutexGroup, opts Options) {
	for i := range groundGroups {
		groundGroups[i].RecomputeExactlyOne(task.Init)
		groundGroups[i].RecomputeIsGoal(task.Goal)
	}

	removed := facts.NewIDSet()

	if opts.PreconditionMutexPruning {
		mp := facts.FromGroups(groundGroups)
		for _, op := range task.Store.Operators() {
			if facts.HasMutexPair(op.Pre, mp) {
				removed.Add(op.ID)
			}
		}
	}

	if opts.DeadEndEffectPruning {
		for _, g := range groundGroups {
			if !g.IsExactlyOne {
				continue
			}
			for _, op := range task.Store.Operators() {
				if removed.Contains(op.ID) || len(op.CondEffects) != 0 {
					continue
				}
				produced := op.Add.Intersect(g.Facts).Len()
				consumed := op.Del.Intersect(g.Facts).Len()
				if produced > consumed {
					removed.Add(op.ID)
				}
			}
		}
	}

	if !removed.Empty() {
		task.Store.RemoveOperators(removed)
		task.Store.RemoveNoOps()
	}
}
