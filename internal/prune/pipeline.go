package prune

import "github.com/htnplan/htnplan/internal/facts"

// Config toggles each stage of the cascade. h² and irrelevance analysis are
// forced off regardless of these flags when the task carries conditional
// effects, per spec §4.4.
type Config struct {
	DeadEnd       bool
	H2            bool
	Irrelevance   bool
	UselessDelete bool
}

// DefaultConfig enables every stage.
func DefaultConfig() Config {
	return Config{DeadEnd: true, H2: true, Irrelevance: true, UselessDelete: true}
}

// Result reports what the cascade removed and the fact-id remap produced by
// the reduction stage, so callers can rewrite anything else that refers to
// pre-reduction fact ids (mutex groups, symmetry generators, plan steps).
type Result struct {
	RemovedFacts *facts.IDSet
	RemovedOps   *facts.IDSet
	Remap        map[int]int
}

// Run executes the cascade described in spec §4.4 in order: dead-end
// operator detection, h² mutex-pair reachability, irrelevance analysis,
// reduction, then useless-delete-effect removal using the mutex relation
// remapped onto the post-reduction fact ids.
func Run(task *facts.Task, groups []facts.MutexGroup, cfg Config) Result {
	mutex := facts.FromGroups(groups)
	h2Disabled := task.HasCondEff

	removedOps := facts.NewIDSet()
	if cfg.DeadEnd {
		removedOps.AddAll(DeadEndOperators(task, groups))
	}
	if cfg.H2 && !h2Disabled {
		var unreachable *facts.IDSet
		mutex, unreachable = H2Fixpoint(task, mutex)
		removedOps.AddAll(unreachable)
	}

	removedFacts := facts.NewIDSet()
	if cfg.Irrelevance && !h2Disabled {
		removedFacts.AddAll(IrrelevantFacts(task))
		removedOps.AddAll(IrrelevantOperators(task))
	}

	remap := task.Reduce(removedFacts, removedOps)

	if cfg.UselessDelete {
		RemoveUselessDeletes(task.Store, mutex.Remap(remap))
	}

	return Result{RemovedFacts: removedFacts, RemovedOps: removedOps, Remap: remap}
}
