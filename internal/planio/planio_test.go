package planio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/fdr"
)

func elevatorTask() (*facts.Task, []facts.MutexGroup) {
	s := facts.NewStore()
	atA := s.AddFact("at-a")
	atB := s.AddFact("at-b")
	held := s.AddFact("held")

	task := facts.NewTask(s, facts.IDSetOf(atA, held), facts.IDSetOf(atB))
	g := facts.MutexGroup{Facts: facts.IDSetOf(atA, atB), IsFamGroup: true}
	g.RecomputeExactlyOne(task.Init)
	g.RecomputeIsGoal(task.Goal)
	groups := []facts.MutexGroup{g}

	s.AddOperator(&facts.Operator{
		Name: "move-a-to-b",
		Cost: 1,
		Pre:  facts.IDSetOf(atA),
		Add:  facts.IDSetOf(atB),
		Del:  facts.IDSetOf(atA),
	})

	return task, groups
}

func TestWriteFDRProducesWellFormedBlocks(t *testing.T) {
	task, groups := elevatorTask()
	proj := fdr.Allocate(task, groups, fdr.EssentialFirst)

	var buf bytes.Buffer
	require.NoError(t, WriteFDR(&buf, task, groups, proj))
	out := buf.String()

	for _, marker := range []string{
		"begin_version", "end_version",
		"begin_metric", "end_metric",
		"begin_variable", "end_variable",
		"begin_state", "end_state",
		"begin_goal", "end_goal",
		"begin_operator", "end_operator",
	} {
		assert.Contains(t, out, marker)
	}
}

func TestWriteSTRIPSRoundTripsOperatorName(t *testing.T) {
	task, _ := elevatorTask()
	var buf bytes.Buffer
	require.NoError(t, WriteSTRIPS(&buf, task, StripsFlags{ADL: true}))
	out := buf.String()
	assert.Contains(t, out, "move-a-to-b", "expected STRIPS output to name the operator")
	assert.Contains(t, out, "adl=true", "expected STRIPS flags line to record adl=true")
}

func TestWriteMutexGroupsListsFactNames(t *testing.T) {
	task, groups := elevatorTask()
	var buf bytes.Buffer
	require.NoError(t, WriteMutexGroups(&buf, task, groups))
	out := buf.String()
	assert.Contains(t, out, "at-a")
	assert.Contains(t, out, "at-b")
}

func TestWriteDictProducesParseableYAMLWithOperator(t *testing.T) {
	task, _ := elevatorTask()
	var buf bytes.Buffer
	require.NoError(t, WriteDict(&buf, task, "domain.pddl", "problem.pddl", StripsFlags{}))

	var rec DictRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "domain.pddl", rec.DomainFile)
	assert.Equal(t, "problem.pddl", rec.ProblemFile)
	require.Len(t, rec.Operators, 1)
	assert.Equal(t, "move-a-to-b", rec.Operators[0].Name)
}
