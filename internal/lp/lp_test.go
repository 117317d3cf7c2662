package lp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/perr"
)

// knapsack builds: maximize 5x0+4x1 s.t. 2x0+3x1 <= 4, x binary. The
// integral optimum is x0=1,x1=0 giving 5 (x0=0,x1=1 gives 4; both gives
// infeasible at 5 > 4).
func knapsack() *Problem {
	p := NewProblem(2)
	p.Maximize = true
	p.SetObjective(0, 5)
	p.SetObjective(1, 4)
	p.AddRow(map[int]float64{0: 2, 1: 3}, LE, 4)
	p.SetBinary(0)
	p.SetBinary(1)
	return p
}

func TestGonumSolverSolvesSmallKnapsack(t *testing.T) {
	sol, err := GonumSolver{MaxNodes: 1000}.Solve(knapsack())
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.InDelta(t, 5, sol.Optimum, 1e-6)
	assert.Equal(t, 1.0, math.Round(sol.Values[0]))
	assert.Equal(t, 0.0, math.Round(sol.Values[1]))
}

func TestGonumSolverReportsCapacityWhenNodeBudgetTooLow(t *testing.T) {
	// a single node forces a cap on a problem whose relaxation isn't
	// already integral and so needs at least one branch.
	solver := GonumSolver{MaxNodes: 1}
	_, err := solver.Solve(knapsack())
	require.Error(t, err, "expected a capacity error from an exhausted node budget")
	assert.True(t, perr.IsKind(err, perr.Capacity))
}

func TestPropagationSolverDecidesSimpleEqualityChain(t *testing.T) {
	p := NewProblem(2)
	p.SetBinary(0)
	p.SetBinary(1)
	p.AddRow(map[int]float64{0: 1}, EQ, 1)
	p.AddRow(map[int]float64{0: 1, 1: 1}, EQ, 1)

	sol, err := PropagationSolver{}.Solve(p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sol.Values[0])
	assert.Equal(t, 0.0, sol.Values[1])
}

func TestPropagationSolverInconclusiveOnUnconstrainedVariable(t *testing.T) {
	p := NewProblem(1)
	p.SetBinary(0)
	_, err := PropagationSolver{}.Solve(p)
	require.Error(t, err, "expected an error: nothing pins the one free binary variable")
	assert.True(t, perr.IsKind(err, perr.Capacity))
}
