package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/lmg"
)

// elevatorDomain grounds two locations and one object: move(o,from,to)
// deletes at(o,from) and adds at(o,to).
func elevatorDomain() Domain {
	return Domain{
		Objects: map[string]string{
			"o1": "object",
			"l1": "location",
			"l2": "location",
		},
		Actions: []ActionSchema{
			{
				Name: "move",
				Params: []Param{
					{Name: "o", Type: "object"},
					{Name: "from", Type: "location"},
					{Name: "to", Type: "location"},
				},
				Cost: 1,
				Pre: []AtomSchema{
					{Predicate: "at", Terms: []Term{{Var: "o"}, {Var: "from"}}},
				},
				Add: []AtomSchema{
					{Predicate: "at", Terms: []Term{{Var: "o"}, {Var: "to"}}},
				},
				Del: []AtomSchema{
					{Predicate: "at", Terms: []Term{{Var: "o"}, {Var: "from"}}},
				},
			},
		},
		Init: []GroundAtom{{Predicate: "at", Args: []string{"o1", "l1"}}},
		Goal: []GroundAtom{{Predicate: "at", Args: []string{"o1", "l2"}}},
	}
}

func TestGroundBasic(t *testing.T) {
	task, err := Ground(elevatorDomain(), Options{})
	require.NoError(t, err)
	require.False(t, task.GoalUnreachable, "expected goal to be reachable")
	// Both locations are type-compatible for every parameter, so all 4
	// instantiations of move/3 get generated; once move(o1,l1,l2) makes
	// at(o1,l2) reachable, the other two (and the l2->l2 self-move) become
	// reachable too and all 4 survive the fixpoint.
	assert.Equal(t, 4, task.Store.NumOperators())
	assert.Equal(t, 2, task.Store.NumFacts(), "expected 2 grounded facts (at/o1/l1, at/o1/l2)")
	assert.NoError(t, task.Store.ValidateRanges())
}

func TestGroundWithGroupsReturnsGroundProjection(t *testing.T) {
	dom := elevatorDomain()
	groups := []lmg.Group{
		{
			Candidate: lmg.Candidate{Atoms: []lmg.Atom{
				{Predicate: "at", Slots: []lmg.Slot{{Var: "o"}, {Var: "#counted", Counted: true}}},
			}},
			IsFamGroup: true,
		},
	}

	_, groundGroups, err := GroundWithGroups(dom, Options{Groups: groups})
	require.NoError(t, err)
	require.Len(t, groundGroups, 1, "expected one ground mutex group (at-o1-l1 / at-o1-l2)")
	assert.Equal(t, 2, groundGroups[0].Facts.Len(), "expected the group to cover both at(o1,*) facts")
}

func TestGroundUnreachableGoal(t *testing.T) {
	dom := elevatorDomain()
	dom.Goal = []GroundAtom{{Predicate: "held", Args: []string{"o1"}}}

	task, err := Ground(dom, Options{})
	require.NoError(t, err)
	assert.True(t, task.GoalUnreachable, "expected held(o1) to be unreachable: no action ever adds it")
}

func TestGroundMissingTypeObjectIsInputError(t *testing.T) {
	dom := elevatorDomain()
	delete(dom.Objects, "l2")
	dom.Actions[0].Params[2].Type = "nonexistent-type"

	_, err := Ground(dom, Options{})
	require.Error(t, err, "expected an error when a parameter type has no objects")
}

func TestPreconditionMutexPruning(t *testing.T) {
	dom := elevatorDomain()
	groups := []lmg.Group{
		{
			Candidate: lmg.Candidate{Atoms: []lmg.Atom{
				{Predicate: "at", Slots: []lmg.Slot{{Var: "o"}, {Var: "#counted", Counted: true}}},
			}},
			IsFamGroup: true,
		},
	}

	task, err := Ground(dom, Options{PreconditionMutexPruning: true, Groups: groups})
	require.NoError(t, err)
	// at(o1,l1) and at(o1,l2) are mutex (same fam-group instance), but no
	// grounded operator's precondition ever mentions more than one at(...)
	// fact at once, so precondition-mutex pruning removes nothing here.
	assert.Equal(t, 4, task.Store.NumOperators(), "expected precondition-mutex pruning to keep all 4 operators")
}
