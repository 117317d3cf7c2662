// Package lp is the small LP/MIP solver adapter spec §9 Design Notes
// describes: "set objective coefficient, set row RHS/sense, set variable as
// binary, solve returning the optimum and variable assignments". The
// concrete solver backend is an external collaborator per spec §4
// Non-goals ("LP-solver bindings") — internal/lmg's bound-tightening pass
// only depends on the Solver interface below, never on a specific backend,
// and a missing/failing backend surfaces as a Capacity error rather than
// aborting the caller.
package lp

import "github.com/htnplan/htnplan/internal/perr"

// Sense is a linear constraint's comparison operator.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Row is one linear constraint: sum(Coeffs[i]*x[i]) <sense> RHS.
type Row struct {
	Coeffs map[int]float64
	Sense  Sense
	RHS    float64
}

// Problem is a mixed-integer linear program: minimize (or maximize)
// Objective . x subject to Rows, with Binary[i] marking x[i] in {0,1}
// rather than the default x[i] >= 0 continuous relaxation.
type Problem struct {
	NumVars   int
	Objective map[int]float64
	Maximize  bool
	Rows      []Row
	Binary    map[int]bool
}

// NewProblem returns an empty problem over n variables.
func NewProblem(n int) *Problem {
	return &Problem{NumVars: n, Objective: map[int]float64{}, Binary: map[int]bool{}}
}

// SetObjective sets variable i's objective coefficient.
func (p *Problem) SetObjective(i int, coeff float64) { p.Objective[i] = coeff }

// AddRow appends a linear constraint.
func (p *Problem) AddRow(coeffs map[int]float64, sense Sense, rhs float64) {
	p.Rows = append(p.Rows, Row{Coeffs: coeffs, Sense: sense, RHS: rhs})
}

// SetBinary marks variable i as a 0/1 decision variable.
func (p *Problem) SetBinary(i int) { p.Binary[i] = true }

// Status classifies a Solve outcome.
type Status int

const (
	Optimal Status = iota
	Infeasible
	Unbounded
)

// Solution is a solver's result: the objective value and every variable's
// assigned value (fractional for a continuous relaxation, integral 0/1 for
// a binary variable in a genuinely-solved MIP).
type Solution struct {
	Status   Status
	Optimum  float64
	Values   []float64
}

// Solver is the adapter surface every LP/MIP backend implements.
type Solver interface {
	Solve(p *Problem) (Solution, error)
}

// errNoBackend is the Capacity error PropagationSolver returns when
// propagation leaves some binary variable undecided.
func errNoBackend() error {
	return perr.CapacityErr("lp", "Solve", errNoSolver)
}

var errNoSolver = noSolverError{}

type noSolverError struct{}

func (noSolverError) Error() string { return "no LP/MIP solver backend configured" }
