package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOp(name string, pre, add, del []int, cost int) *Operator {
	return &Operator{
		Name: name,
		Cost: cost,
		Pre:  IDSetOf(pre...),
		Add:  IDSetOf(add...),
		Del:  IDSetOf(del...),
	}
}

func TestStoreDedup(t *testing.T) {
	s := NewStore()
	s.AddOperator(newOp("move", []int{0}, []int{1}, []int{0}, 5))
	s.AddOperator(newOp("move", []int{0}, []int{1}, []int{0}, 1))
	s.AddOperator(newOp("other", []int{0}, []int{2}, []int{0}, 3))

	survivors := s.Dedup()
	require.Len(t, survivors, 2)
	for _, op := range survivors {
		if op.Name == "move" {
			assert.Equal(t, 1, op.Cost, "expected cheapest move to survive")
		}
	}
}

func TestOperatorNormalizeCollapsesZeroPreCondEffect(t *testing.T) {
	op := newOp("a", []int{0}, []int{1}, nil, 1)
	op.CondEffects = []CondEffect{
		{Pre: NewIDSet(), Add: IDSetOf(2), Del: NewIDSet()},
	}
	op.Normalize()

	require.Empty(t, op.CondEffects)
	assert.True(t, op.Add.Contains(2), "expected collapsed add effect to merge into main add set")
}

func TestTaskReduceRemapsInitGoal(t *testing.T) {
	s := NewStore()
	a := s.AddFact("a")
	b := s.AddFact("b")
	c := s.AddFact("c")
	s.AddOperator(newOp("op", []int{a}, []int{b}, nil, 1))

	task := NewTask(s, IDSetOf(a), IDSetOf(c))
	removedFacts := IDSetOf(b)
	remap := task.Reduce(removedFacts, NewIDSet())

	require.Equal(t, 2, task.Store.NumFacts())
	nu, ok := remap[c]
	require.True(t, ok)
	assert.True(t, task.Goal.Contains(nu), "expected goal to follow remap, remap=%v goal=%v", remap, task.Goal.Slice())
	assert.NoError(t, task.Store.ValidateRanges())
}

func TestRemoveNoOps(t *testing.T) {
	s := NewStore()
	s.AddOperator(newOp("noop", []int{0}, nil, nil, 1))
	s.AddOperator(newOp("real", []int{0}, []int{1}, nil, 1))
	s.RemoveNoOps()
	require.Equal(t, 1, s.NumOperators())
	assert.Equal(t, "real", s.Operator(0).Name)
}
