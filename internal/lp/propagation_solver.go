package lp

// PropagationSolver is the stdlib-only fallback used when no real LP/MIP
// backend is configured: it does not optimize anything, it only repeats
// single-row bound propagation (a row with one free Binary variable and
// every other term already forced pins that variable) to a fixed point.
// It answers "is this problem already decided by unit propagation alone"
// rather than "what is the optimum" — callers that need a genuine
// objective value should treat Solution.Status != Optimal from this
// backend as inconclusive, not as Infeasible.
type PropagationSolver struct{}

func (PropagationSolver) Solve(p *Problem) (Solution, error) {
	values := make([]float64, p.NumVars)
	decided := make([]bool, p.NumVars)

	changed := true
	for changed {
		changed = false
		for _, r := range p.Rows {
			if fixRow(p, r, values, decided) {
				changed = true
			}
		}
	}

	allDecided := true
	for v := range p.Binary {
		if !decided[v] {
			allDecided = false
			break
		}
	}
	if !allDecided {
		return Solution{Status: Infeasible, Values: values}, errNoBackend()
	}
	return Solution{Status: Optimal, Optimum: objectiveValue(p, values), Values: values}, nil
}

// fixRow looks for a row with exactly one undecided binary term and every
// other term already fixed, and forces the undecided term to whichever 0/1
// value satisfies an EQ row exactly (LE/GE rows are left undecided — a
// single unit-propagation step isn't enough to pin an inequality).
func fixRow(p *Problem, r Row, values []float64, decided []bool) bool {
	if r.Sense != EQ {
		return false
	}
	fixedSum := 0.0
	freeVar := -1
	freeCoeff := 0.0
	for v, coeff := range r.Coeffs {
		if !p.Binary[v] {
			return false
		}
		if decided[v] {
			fixedSum += coeff * values[v]
			continue
		}
		if freeVar >= 0 {
			return false // more than one undecided term, can't propagate
		}
		freeVar = v
		freeCoeff = coeff
	}
	if freeVar < 0 || freeCoeff == 0 {
		return false
	}
	want := (r.RHS - fixedSum) / freeCoeff
	if want != 0 && want != 1 {
		return false // infeasible under propagation alone, leave to caller
	}
	values[freeVar] = want
	decided[freeVar] = true
	return true
}
