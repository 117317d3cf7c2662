package lmg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCandidateWithSolverAgreesWithCombinatorialVerify(t *testing.T) {
	dom := elevatorDomain()
	c := Candidate{Atoms: []Atom{{Predicate: "at", Slots: []Slot{{Var: "?o"}, {Var: "#counted", Counted: true}}}}}

	want := verify(c, dom, false)
	cfg := DefaultConfig()
	cfg.Solver = DefaultLPSolver()
	got := checkCandidate(c, dom, cfg)

	assert.Equal(t, want, got, "checkCandidate with solver should agree with verify's combinatorial answer")
}

func TestCheckCandidateWithSolverRejectsUnbalancedAction(t *testing.T) {
	dom := LiftedDomain{
		Predicates: map[string]int{"held": 1},
		Actions: []LiftedAction{
			{
				Name:   "pickup",
				Params: []string{"o"},
				Add:    []Atom{{Predicate: "held", Slots: []Slot{{Var: "o"}}}},
			},
		},
	}
	c := Candidate{Atoms: []Atom{{Predicate: "held", Slots: []Slot{{Var: "#counted", Counted: true}}}}}

	cfg := DefaultConfig()
	cfg.Solver = DefaultLPSolver()

	assert.False(t, checkCandidate(c, dom, cfg), "expected fam-group check to reject an add-only action even through the solver path")
	cfg.Monotonicity = true
	assert.True(t, checkCandidate(c, dom, cfg), "expected monotonicity check to accept an add-only action through the solver path")
}

func TestInferWithSolverFindsFamGroup(t *testing.T) {
	dom := elevatorDomain()
	cfg := DefaultConfig()
	cfg.Solver = DefaultLPSolver()

	res := Infer(dom, cfg)

	found := false
	for _, g := range res.Groups {
		if len(g.Candidate.Atoms) == 1 && g.Candidate.Atoms[0].Predicate == "at" && g.IsFamGroup {
			found = true
		}
	}
	require.True(t, found, "expected a fam-group over at/2 via the solver path, got %+v", res.Groups)
}
