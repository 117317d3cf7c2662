package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/facts"
)

// symmetricTask builds two structurally-identical operators "left" and
// "right" that each move a token between two facts of their own color,
// which are otherwise disconnected from each other — swapping
// left<->right (and their two facts each) is a genuine automorphism.
func symmetricTask() *facts.Task {
	s := facts.NewStore()
	leftA := s.AddFact("left-a")
	leftB := s.AddFact("left-b")
	rightA := s.AddFact("right-a")
	rightB := s.AddFact("right-b")

	s.AddOperator(&facts.Operator{Name: "move-left", Pre: facts.IDSetOf(leftA), Add: facts.IDSetOf(leftB), Del: facts.NewIDSet()})
	s.AddOperator(&facts.Operator{Name: "move-right", Pre: facts.IDSetOf(rightA), Add: facts.IDSetOf(rightB), Del: facts.NewIDSet()})

	return facts.NewTask(s, facts.IDSetOf(leftA, rightA), facts.IDSetOf(leftB, rightB))
}

func TestBuildGraphHasFactAndOperatorNodes(t *testing.T) {
	task := symmetricTask()
	g := BuildGraph(task)

	require.NotEmpty(t, g.Nodes, "expected a non-empty graph")
	assert.Equal(t, "fact", g.Labels["f0"])
	assert.Equal(t, "op", g.Labels["o0"])
	assert.Equal(t, "op-pre", g.Labels["o0-pre"])
}

func TestGenerateFindsTheLeftRightSwap(t *testing.T) {
	task := symmetricTask()
	generators, err := Generate(task, VF2Backend{}, Options{MaxGenerators: 50, MaxIterations: 200000})
	require.NoError(t, err)
	require.NotEmpty(t, generators, "expected at least one non-trivial automorphism (the left<->right swap)")

	for _, gen := range generators {
		for f, finv := range gen.FactInv {
			assert.Equal(t, f, gen.FactPerm[finv], "FactInv is not the inverse of FactPerm at fact %d", f)
		}
		for o, oinv := range gen.OpInv {
			assert.Equal(t, o, gen.OpPerm[oinv], "OpInv is not the inverse of OpPerm at op %d", o)
		}
	}
}

func TestGeneratorPreservesInitAndGoal(t *testing.T) {
	task := symmetricTask()
	generators, err := Generate(task, VF2Backend{}, Options{MaxGenerators: 50, MaxIterations: 200000})
	require.NoError(t, err)

	for _, gen := range generators {
		mappedInit := facts.IDSetOf(gen.ApplyFacts(task.Init.Slice())...)
		assert.True(t, mappedInit.Equals(task.Init), "expected generator to preserve init, got %v want %v", mappedInit.Slice(), task.Init.Slice())
		mappedGoal := facts.IDSetOf(gen.ApplyFacts(task.Goal.Slice())...)
		assert.True(t, mappedGoal.Equals(task.Goal), "expected generator to preserve goal, got %v want %v", mappedGoal.Slice(), task.Goal.Slice())
	}
}

func TestDecomposeCyclesIncludesFixedPoints(t *testing.T) {
	perm := map[int]int{0: 1, 1: 0, 2: 2}
	cycles := decomposeCycles(perm)
	require.Len(t, cycles, 2, "expected 2 cycles (one 2-cycle, one fixed point)")
	assert.Equal(t, []int{0, 1}, cycles[0])
	assert.Equal(t, []int{2}, cycles[1])
}

func TestFindAutomorphismsReportsCapacityWhenIterationCappedLow(t *testing.T) {
	task := symmetricTask()
	g := BuildGraph(task)
	err := VF2Backend{}.FindAutomorphisms(g, Options{MaxIterations: 1}, func(map[string]string) bool { return true })
	require.Error(t, err, "expected a capacity error when the iteration cap is hit")
}
