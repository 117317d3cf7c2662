package lmg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// elevatorDomain recreates a lifted move action over a single-valued
// location predicate: move(o,from,to) deletes at(o,from) and adds
// at(o,to), so {at(o,?l)} counted on the location is a fam-group.
func elevatorDomain() LiftedDomain {
	return LiftedDomain{
		Predicates: map[string]int{"at": 2},
		Actions: []LiftedAction{
			{
				Name:   "move",
				Params: []string{"o", "from", "to"},
				Pre: []Atom{
					{Predicate: "at", Slots: []Slot{{Var: "o"}, {Var: "from"}}},
				},
				Add: []Atom{
					{Predicate: "at", Slots: []Slot{{Var: "o"}, {Var: "to"}}},
				},
				Del: []Atom{
					{Predicate: "at", Slots: []Slot{{Var: "o"}, {Var: "from"}}},
				},
			},
		},
	}
}

func TestInferFindsFamGroup(t *testing.T) {
	dom := elevatorDomain()
	cfg := DefaultConfig()

	res := Infer(dom, cfg)

	found := false
	for _, g := range res.Groups {
		if len(g.Candidate.Atoms) == 1 && g.Candidate.Atoms[0].Predicate == "at" && g.IsFamGroup {
			found = true
		}
	}
	require.True(t, found, "expected a fam-group over at/2, got %+v", res.Groups)
	assert.False(t, res.LimitHit, "did not expect limits to fire on a tiny domain")
}

func TestInferMaxCandidatesStopsEarly(t *testing.T) {
	dom := elevatorDomain()
	cfg := DefaultConfig()
	cfg.MaxCandidates = 1

	res := Infer(dom, cfg)

	assert.True(t, res.LimitHit, "expected LimitHit with MaxCandidates=1")
	assert.Equal(t, 1, res.CandidatesTried)
}

func TestInferTimeLimitStopsEarly(t *testing.T) {
	dom := elevatorDomain()
	cfg := DefaultConfig()
	cfg.TimeLimit = time.Nanosecond

	res := Infer(dom, cfg)

	assert.True(t, res.LimitHit, "expected LimitHit with a near-zero time budget")
}

func TestVerifyRejectsUnbalancedAction(t *testing.T) {
	// pickup(o) adds held(o) without ever deleting anything matching it,
	// so {held(?x)} is neither a fam-group nor (once something else
	// deletes it unconditionally) monotone-violating; here we check a
	// genuinely unbalanced action fails the fam-group criterion.
	dom := LiftedDomain{
		Predicates: map[string]int{"held": 1},
		Actions: []LiftedAction{
			{
				Name:   "pickup",
				Params: []string{"o"},
				Pre:    nil,
				Add: []Atom{
					{Predicate: "held", Slots: []Slot{{Var: "o"}}},
				},
				Del: nil,
			},
		},
	}
	c := Candidate{Atoms: []Atom{{Predicate: "held", Slots: []Slot{{Var: "#counted", Counted: true}}}}}

	assert.False(t, verify(c, dom, false), "expected fam-group check to reject an add-only action")
	assert.True(t, verify(c, dom, true), "expected monotonicity check to accept an add-only action")
}

func TestForEachInjectiveAssignmentVisitsAllPermutations(t *testing.T) {
	var got []map[string]string
	forEachInjectiveAssignment([]string{"x", "y"}, []string{"a", "b", "c"}, func(a map[string]string) bool {
		cp := map[string]string{}
		for k, v := range a {
			cp[k] = v
		}
		got = append(got, cp)
		return true
	})
	// 3*2 = 6 injective assignments of 2 vars into 3 params.
	require.Len(t, got, 6)
}

func TestForEachInjectiveAssignmentEmptyFreeVars(t *testing.T) {
	calls := 0
	forEachInjectiveAssignment(nil, []string{"a"}, func(a map[string]string) bool {
		calls++
		assert.Empty(t, a)
		return true
	})
	require.Equal(t, 1, calls)
}
