package lp

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/htnplan/htnplan/internal/perr"
)

// GonumSolver solves the continuous relaxation of a Problem with gonum's
// two-phase simplex implementation and recovers an integral solution for
// Binary-marked variables with a depth-bounded branch-and-bound search.
// gonum's lp.Simplex only solves continuous LPs in standard equality form
// (minimize c.x s.t. Ax = b, x >= 0); GonumSolver owns the slack-variable
// conversion from Problem's mixed LE/GE/EQ rows and the 0/1 branching gonum
// itself has no notion of.
type GonumSolver struct {
	// MaxNodes bounds the branch-and-bound search tree; a problem that
	// exhausts it without reaching an integral incumbent surfaces as a
	// Capacity error rather than returning a fractional answer silently.
	MaxNodes int
	// TimeLimit additionally bounds wall-clock search time; zero means no
	// limit beyond MaxNodes.
	TimeLimit time.Duration
}

// DefaultGonumSolver returns a GonumSolver with the bounds internal/lmg's
// fam-group bound-tightening pass uses when the CLI sets none explicitly.
func DefaultGonumSolver() GonumSolver {
	return GonumSolver{MaxNodes: 5000, TimeLimit: 5 * time.Second}
}

func (s GonumSolver) Solve(p *Problem) (Solution, error) {
	deadline := time.Time{}
	if s.TimeLimit > 0 {
		deadline = time.Now().Add(s.TimeLimit)
	}
	maxNodes := s.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultGonumSolver().MaxNodes
	}

	nodes := 0
	best, bestVal, found, capped := branchAndBound(p, map[int]int{}, &nodes, maxNodes, deadline)
	if capped {
		return Solution{}, perr.CapacityErr("lp", "Solve", fmt.Errorf("branch-and-bound exhausted %d nodes without an integral solution", maxNodes))
	}
	if !found {
		return Solution{Status: Infeasible}, nil
	}
	return Solution{Status: Optimal, Optimum: bestVal, Values: best}, nil
}

// branchAndBound explores the binary variables fixed in `fixed` depth-first,
// solving the continuous relaxation at each node and branching on the most
// fractional still-free binary variable. It returns the best integral
// solution found (translated back to the caller's minimize/maximize sense),
// or capped=true if the node/time budget ran out first.
func branchAndBound(p *Problem, fixed map[int]int, nodes *int, maxNodes int, deadline time.Time) (best []float64, bestVal float64, found bool, capped bool) {
	*nodes++
	if *nodes > maxNodes {
		return nil, 0, false, true
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return nil, 0, false, true
	}

	relax, err := solveRelaxation(p, fixed)
	if err != nil {
		return nil, 0, false, false // infeasible subtree, not a cap
	}

	branchVar := mostFractionalBinary(p, relax, fixed)
	if branchVar < 0 {
		return relax, objectiveValue(p, relax), true, false
	}

	lo := map[int]int{}
	for k, v := range fixed {
		lo[k] = v
	}
	lo[branchVar] = 0
	hi := map[int]int{}
	for k, v := range fixed {
		hi[k] = v
	}
	hi[branchVar] = 1

	loSol, loVal, loFound, loCapped := branchAndBound(p, lo, nodes, maxNodes, deadline)
	hiSol, hiVal, hiFound, hiCapped := branchAndBound(p, hi, nodes, maxNodes, deadline)
	if loCapped || hiCapped {
		return nil, 0, false, true
	}

	switch {
	case loFound && hiFound:
		if betterOrEqual(p, loVal, hiVal) {
			return loSol, loVal, true, false
		}
		return hiSol, hiVal, true, false
	case loFound:
		return loSol, loVal, true, false
	case hiFound:
		return hiSol, hiVal, true, false
	default:
		return nil, 0, false, false
	}
}

func betterOrEqual(p *Problem, a, b float64) bool {
	if p.Maximize {
		return a >= b
	}
	return a <= b
}

func objectiveValue(p *Problem, x []float64) float64 {
	v := 0.0
	for i, c := range p.Objective {
		v += c * x[i]
	}
	return v
}

// mostFractionalBinary returns the Binary-marked variable whose relaxed
// value is furthest from 0 or 1 and not yet fixed, or -1 if every binary
// variable is already integral (the relaxation is the integral optimum).
func mostFractionalBinary(p *Problem, x []float64, fixed map[int]int) int {
	best := -1
	bestDist := 1e-6
	for i := range p.Binary {
		if _, ok := fixed[i]; ok {
			continue
		}
		dist := fractionalDistance(x[i])
		if dist > bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

func fractionalDistance(v float64) float64 {
	d := v - float64(int(v+0.5))
	if d < 0 {
		d = -d
	}
	return 0.5 - d
}

// solveRelaxation solves the continuous relaxation of p with fixed binary
// variables pinned to their branch values, via gonum's standard-form
// simplex. Rows become equalities over Ax = b by adding one slack (LE),
// surplus (GE), or no extra (EQ) column per row; fixed variables become
// equality rows of their own.
func solveRelaxation(p *Problem, fixed map[int]int) ([]float64, error) {
	numSlack := 0
	for _, r := range p.Rows {
		if r.Sense != EQ {
			numSlack++
		}
	}
	totalVars := p.NumVars + numSlack

	rows := len(p.Rows) + len(fixed)
	a := mat.NewDense(rows, totalVars, nil)
	b := make([]float64, rows)
	c := make([]float64, totalVars)

	sign := 1.0
	if p.Maximize {
		sign = -1.0
	}
	for i, coeff := range p.Objective {
		c[i] = sign * coeff
	}

	slackCol := p.NumVars
	for ri, r := range p.Rows {
		for i, coeff := range r.Coeffs {
			a.Set(ri, i, coeff)
		}
		switch r.Sense {
		case LE:
			a.Set(ri, slackCol, 1)
			slackCol++
		case GE:
			a.Set(ri, slackCol, -1)
			slackCol++
		}
		b[ri] = r.RHS
	}

	ri := len(p.Rows)
	for varIdx, val := range fixed {
		a.Set(ri, varIdx, 1)
		b[ri] = float64(val)
		ri++
	}

	_, x, err := lp.Simplex(nil, c, a, b, 1e-10)
	if err != nil {
		return nil, err
	}
	return x[:p.NumVars], nil
}
