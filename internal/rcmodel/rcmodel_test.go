package rcmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/htnmodel"
)

// buildDeliverModel builds: task 0 "deliver" (compound), decomposed by
// method 0 into subtasks [1 "load", 2 "drive"], both declared primitive,
// grounding to a trivial one-fact-each classical task.
func buildDeliverModel() *htnmodel.Model {
	store := facts.NewStore()
	atDepot := store.AddFact("at-depot")
	loaded := store.AddFact("loaded")
	atDest := store.AddFact("at-dest")

	loadOp := &facts.Operator{Name: "load", Pre: facts.IDSetOf(atDepot), Add: facts.IDSetOf(loaded), Del: facts.NewIDSet()}
	loadOpID := store.AddOperator(loadOp)
	driveOp := &facts.Operator{Name: "drive", Pre: facts.IDSetOf(loaded), Add: facts.IDSetOf(atDest), Del: facts.NewIDSet()}
	driveOpID := store.AddOperator(driveOp)

	classical := facts.NewTask(store, facts.IDSetOf(atDepot), facts.IDSetOf(atDest))

	m := htnmodel.NewModel(classical)
	deliver := m.AddTask("deliver", nil, false, -1)
	load := m.AddTask("load", nil, true, loadOpID)
	drive := m.AddTask("drive", nil, true, driveOpID)
	m.AddMethod("deliver-by-load-drive", deliver, []int{load, drive})
	m.InitialTask = deliver
	return m
}

func TestBuildWiresTDRAndBURMarkers(t *testing.T) {
	m := buildDeliverModel()
	res, err := Build(m, Options{EnableTDR: true, MethodCost: 0})
	require.NoError(t, err)

	// 3 classical facts + 3 BUR (one per task) + 2 TDR (one per primitive).
	require.Equal(t, 3+3+2, res.Task.Store.NumFacts())
	// 2 primitive operators (augmented) + 1 method operator.
	require.Equal(t, 3, res.Task.Store.NumOperators())

	loadOp := res.Task.Store.Operator(0)
	assert.True(t, loadOp.Pre.Contains(res.TDROf[1]), "expected load's RC operator to require TDR(load) in its precondition")
	assert.True(t, loadOp.Add.Contains(res.BUROf[1]), "expected load's RC operator to add BUR(load)")

	assert.NoError(t, CheckInvariants(m, res))
}

func TestBuildInitAndGoalIncludeMarkers(t *testing.T) {
	m := buildDeliverModel()
	res, err := Build(m, Options{EnableTDR: true})
	require.NoError(t, err)

	for _, id := range res.TDROf {
		assert.True(t, res.Task.Init.Contains(id), "expected TDR fact %d to be preset in init", id)
	}
	assert.True(t, res.Task.Goal.Contains(res.BUROf[m.InitialTask]), "expected goal to require BUR(initial task)")
}

func TestBuildWithoutTDRSkipsTDRFacts(t *testing.T) {
	m := buildDeliverModel()
	res, err := Build(m, Options{EnableTDR: false})
	require.NoError(t, err)
	assert.Empty(t, res.TDROf, "expected no TDR facts when EnableTDR is false")
	// 3 classical facts + 3 BUR facts only.
	assert.Equal(t, 6, res.Task.Store.NumFacts())
}

func TestBuildRejectsMissingInitialTask(t *testing.T) {
	m := buildDeliverModel()
	m.InitialTask = -1
	_, err := Build(m, Options{})
	require.Error(t, err, "expected an error for a model with no initial task")
}

func TestMethodOperatorPreconditionMatchesSubtasks(t *testing.T) {
	m := buildDeliverModel()
	res, err := Build(m, Options{})
	require.NoError(t, err)
	methodOp := res.Task.Store.Operator(res.MethodOps[0])
	want := facts.IDSetOf(res.BUROf[1], res.BUROf[2])
	assert.True(t, methodOp.Pre.Equals(want), "expected method operator precondition to be exactly the subtasks' BUR facts")
	assert.True(t, methodOp.Add.Equals(facts.IDSetOf(res.BUROf[0])), "expected method operator to add only BUR(deliver)")
}
