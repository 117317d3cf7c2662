// Package prune runs the post-grounding pruning cascade: dead-end operator
// detection, h² mutex-pair reachability, irrelevance analysis, reduction,
// and useless-delete-effect removal.
package prune

import "github.com/htnplan/htnplan/internal/facts"

// DeadEndOperators returns the operators that consume more of some
// goal-intersecting fam-group than they produce: for every such operator,
// no reachable state can apply it without making the group (and so the
// goal) unreachable, per spec §4.4.
func DeadEndOperators(task *facts.Task, groups []facts.MutexGroup) *facts.IDSet {
	deadEnd := facts.NewIDSet()
	for _, g := range groups {
		if !g.IsFamGroup || !g.Facts.Intersects(task.Goal) {
			continue
		}
		for _, op := range task.Store.Operators() {
			if op.HasCondEffects() {
				continue
			}
			produced := op.Add.Intersect(g.Facts).Len()
			consumed := op.Pre.Intersect(op.Del).Intersect(g.Facts).Len()
			if consumed > produced {
				deadEnd.Add(op.ID)
			}
		}
	}
	return deadEnd
}
