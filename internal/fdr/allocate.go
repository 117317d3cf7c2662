package fdr

import (
	"fmt"
	"sort"

	"github.com/htnplan/htnplan/internal/facts"
)

// Allocate builds a Projection for task's facts under the given policy,
// using groups (already ground mutex groups, with IsFamGroup/IsExactlyOne
// populated) as the candidate multi-valued variables.
func Allocate(task *facts.Task, groups []facts.MutexGroup, policy Policy) *Projection {
	switch policy {
	case LargestFirst:
		return allocateGreedy(task, groups, false)
	case LargestFirstMulti:
		return allocateGreedy(task, groups, true)
	default:
		return allocateEssentialFirst(task, groups)
	}
}

// allocateEssentialFirst gives every exactly-one fam-group its own
// variable first (these are the "essential" invariants: at every
// reachable state exactly one member holds), then falls back to singleton
// variables for whatever facts no essential group covers.
func allocateEssentialFirst(task *facts.Task, groups []facts.MutexGroup) *Projection {
	var essential []facts.MutexGroup
	for _, g := range groups {
		if g.IsFamGroup && g.IsExactlyOne {
			essential = append(essential, g)
		}
	}
	sortGroupsDesc(essential)

	proj := &Projection{FactOf: map[int][]VarValue{}}
	used := facts.NewIDSet()
	for _, g := range essential {
		addGroupVariable(proj, g, used, false)
	}
	addSingletons(proj, task, used)
	return proj
}

// allocateGreedy processes every group largest-first; multi controls
// whether facts already covered by an earlier (larger) variable are
// skipped (false: LargestFirst, injective) or still included (true:
// LargestFirstMulti, a fact may end up in several variables').
func allocateGreedy(task *facts.Task, groups []facts.MutexGroup, multi bool) *Projection {
	ordered := make([]facts.MutexGroup, len(groups))
	copy(ordered, groups)
	sortGroupsDesc(ordered)

	proj := &Projection{FactOf: map[int][]VarValue{}}
	used := facts.NewIDSet()
	for _, g := range ordered {
		addGroupVariable(proj, g, used, multi)
	}
	addSingletons(proj, task, used)
	return proj
}

// addGroupVariable emits one variable for g. When multi is false, only the
// subset of g's facts not already covered is used (and skipped entirely if
// fewer than two would remain, since a single-member "group" isn't worth a
// multi-valued variable over a plain singleton); when multi is true the
// full group is used regardless of prior coverage.
func addGroupVariable(proj *Projection, g facts.MutexGroup, used *facts.IDSet, multi bool) {
	members := g.Facts.Slice()
	if !multi {
		remaining := g.Facts.Difference(used)
		if remaining.Len() < 2 {
			return
		}
		members = remaining.Slice()
	}
	sort.Ints(members)

	varIdx := len(proj.Variables)
	names := make([]string, len(members))
	for i, f := range members {
		names[i] = fmt.Sprintf("Atom(%d)", f)
	}
	proj.Variables = append(proj.Variables, Variable{
		Name:       fmt.Sprintf("var%d", varIdx),
		ValueNames: names,
		Facts:      members,
	})

	for i, f := range members {
		proj.FactOf[f] = append(proj.FactOf[f], VarValue{Var: varIdx, Value: i})
		used.Add(f)
	}
}

// addSingletons gives every fact in task not yet covered by a group
// variable its own two-valued boolean variable (value 0 = absent, value
// 1 = present).
func addSingletons(proj *Projection, task *facts.Task, used *facts.IDSet) {
	ids := task.Store.AllFactIDs().Slice()
	sort.Ints(ids)
	for _, f := range ids {
		if used.Contains(f) {
			continue
		}
		varIdx := len(proj.Variables)
		proj.Variables = append(proj.Variables, Variable{
			Name:       fmt.Sprintf("var%d", varIdx),
			ValueNames: []string{fmt.Sprintf("NegatedAtom(%d)", f), fmt.Sprintf("Atom(%d)", f)},
			Facts:      []int{-1, f},
		})
		proj.FactOf[f] = append(proj.FactOf[f], VarValue{Var: varIdx, Value: 1})
		used.Add(f)
	}
}

// sortGroupsDesc orders groups by descending size, breaking ties by the
// smallest member fact id for determinism across runs.
func sortGroupsDesc(groups []facts.MutexGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Facts.Len() != groups[j].Facts.Len() {
			return groups[i].Facts.Len() > groups[j].Facts.Len()
		}
		return firstMember(groups[i]) < firstMember(groups[j])
	})
}

func firstMember(g facts.MutexGroup) int {
	members := g.Facts.Slice()
	if len(members) == 0 {
		return -1
	}
	sort.Ints(members)
	return members[0]
}
