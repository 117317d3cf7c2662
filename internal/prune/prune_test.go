package prune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/facts"
)

// fuelDomain: one resource fact "fuel" consumed without replenishment, and
// a goal fam-group {at-a, at-b} (exactly one of two locations true).
func fuelDomain() (*facts.Task, []facts.MutexGroup) {
	s := facts.NewStore()
	fuel := s.AddFact("fuel")
	atA := s.AddFact("at-a")
	atB := s.AddFact("at-b")

	// drive: needs fuel and at-a, consumes both, arrives at-b but adds
	// nothing back to the fuel group — a legitimate move.
	drive := &facts.Operator{
		Name: "drive",
		Pre:  facts.IDSetOf(fuel, atA),
		Add:  facts.IDSetOf(atB),
		Del:  facts.IDSetOf(fuel, atA),
	}
	s.AddOperator(drive)

	// stall: needs fuel and at-a, consumes fuel and at-a, but produces
	// nothing — a dead end against the location fam-group, since it
	// deletes at-a (a goal-intersecting fam-group member) without adding
	// any replacement member.
	stall := &facts.Operator{
		Name: "stall",
		Pre:  facts.IDSetOf(fuel, atA),
		Add:  facts.NewIDSet(),
		Del:  facts.IDSetOf(fuel, atA),
	}
	s.AddOperator(stall)

	task := facts.NewTask(s, facts.IDSetOf(fuel, atA), facts.IDSetOf(atB))
	groups := []facts.MutexGroup{
		{Facts: facts.IDSetOf(atA, atB), IsFamGroup: true},
	}
	for i := range groups {
		groups[i].RecomputeIsGoal(task.Goal)
	}
	return task, groups
}

func TestDeadEndOperators(t *testing.T) {
	task, groups := fuelDomain()
	deadEnd := DeadEndOperators(task, groups)

	stall := task.Store.Operator(1)
	require.Equal(t, "stall", stall.Name, "test setup assumption broken: op 1 is %q", stall.Name)
	assert.True(t, deadEnd.Contains(stall.ID), "expected stall to be flagged dead-end: consumes at-a, produces no fam-group member")
	drive := task.Store.Operator(0)
	assert.False(t, deadEnd.Contains(drive.ID), "did not expect drive to be flagged dead-end: it replaces at-a with at-b")
}

func TestIrrelevantFactsAndOperators(t *testing.T) {
	s := facts.NewStore()
	a := s.AddFact("a")
	b := s.AddFact("b")
	c := s.AddFact("c")
	d := s.AddFact("d")
	static := s.AddFact("static") // in init, never touched by any operator's add/del

	s.AddOperator(&facts.Operator{Name: "op", Pre: facts.IDSetOf(a), Add: facts.IDSetOf(b), Del: facts.NewIDSet()})
	s.AddOperator(&facts.Operator{Name: "unrelated", Pre: facts.IDSetOf(c), Add: facts.IDSetOf(d), Del: facts.NewIDSet()})

	task := facts.NewTask(s, facts.IDSetOf(a, c, static), facts.IDSetOf(b))

	irrFacts := IrrelevantFacts(task)
	assert.True(t, irrFacts.Contains(static), "expected 'static' (untouched by add/del) to be irrelevant")
	assert.True(t, irrFacts.Contains(a), "expected 'a' to be irrelevant too: it's only ever a precondition, never added or deleted")
	assert.False(t, irrFacts.Contains(b), "did not expect 'b' to be irrelevant: 'op' adds it")

	irrOps := IrrelevantOperators(task)
	assert.False(t, irrOps.Contains(0), "did not expect 'op' to be irrelevant: it produces the goal fact")
	assert.True(t, irrOps.Contains(1), "expected 'unrelated' to be irrelevant: nothing it touches is needed for the goal")
}

func TestRunCascadeProducesValidTask(t *testing.T) {
	task, groups := fuelDomain()
	res := Run(task, groups, DefaultConfig())

	require.NoError(t, task.Store.ValidateRanges())
	require.NotNil(t, res.Remap, "expected a non-nil remap from the reduction stage")
}

func TestH2FixpointMarksUnreachableSelfForUnreachableFact(t *testing.T) {
	s := facts.NewStore()
	a := s.AddFact("a")
	unreachable := s.AddFact("never-true") // no operator ever adds it, not in init
	s.AddOperator(&facts.Operator{Name: "noop-ish", Pre: facts.IDSetOf(a), Add: facts.NewIDSet(), Del: facts.NewIDSet()})

	task := facts.NewTask(s, facts.IDSetOf(a), facts.IDSetOf(a))
	mutex := facts.NewMutexPairs()

	result, _ := H2Fixpoint(task, mutex)
	assert.True(t, result.Unreachable(unreachable), "expected 'never-true' to be marked unreachable by the forward h2 pass")
}
