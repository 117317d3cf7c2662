package lmg

import (
	"github.com/htnplan/htnplan/internal/lp"
)

// DefaultLPSolver returns a GonumSolver with lp.DefaultGonumSolver's bounds,
// for use as Config.Solver. DefaultConfig leaves Solver nil and the CLI does
// not set it, so by default every candidate goes through the combinatorial
// check in verify.go; a nil Solver always uses that path.
func DefaultLPSolver() lp.Solver { return lp.DefaultGonumSolver() }

// boundCheck decides, for one action, whether some injective parameter
// binding violates the invariant — using a single 0/1 program per action
// instead of enumerating every binding (verify.go's combinatorial path).
// One binary variable per (free variable, parameter) pair encodes the
// binding itself; one AND/OR-linearized binary variable per effect atom
// indicates whether that atom matches the candidate under the binding
// chosen by the assignment variables. decided is false whenever solver
// itself couldn't settle the program (e.g. its node budget ran out) —
// the caller should fall back to verify.go's exhaustive check in that case.
func boundCheck(c Candidate, act LiftedAction, monotonicity bool, solver lp.Solver) (decided bool, ok bool) {
	freeVars := freeVarNamesOf(c)
	if len(freeVars) > len(act.Params) {
		// no injective binding exists at all: the invariant holds vacuously,
		// matching forEachInjectiveAssignment's "never call visit" case.
		return true, true
	}

	freeVarIndex := make(map[string]int, len(freeVars))
	for i, v := range freeVars {
		freeVarIndex[v] = i
	}
	paramIdx := make(map[string]int, len(act.Params))
	for j, p := range act.Params {
		paramIdx[p] = j
	}

	fvParamVar := make(map[[2]int]int, len(freeVars)*len(act.Params))
	b := &builder{p: lp.NewProblem(0)}
	for i := range freeVars {
		for j := range act.Params {
			v := b.newVar()
			fvParamVar[[2]int{i, j}] = v
			b.p.SetBinary(v)
		}
	}

	for i := range freeVars {
		row := map[int]float64{}
		for j := range act.Params {
			row[fvParamVar[[2]int{i, j}]] = 1
		}
		b.p.AddRow(row, lp.EQ, 1)
	}
	for j := range act.Params {
		row := map[int]float64{}
		for i := range freeVars {
			row[fvParamVar[[2]int{i, j}]] = 1
		}
		b.p.AddRow(row, lp.LE, 1)
	}

	addConst, addVars := collectEffectVars(b, c.Atoms, act.Add, freeVarIndex, paramIdx, fvParamVar)
	delConst, delVars := collectEffectVars(b, c.Atoms, act.Del, freeVarIndex, paramIdx, fvParamVar)
	b.p.NumVars = b.next

	if monotonicity {
		exceeds, d := checkImbalance(solver, b.p, delVars, addVars, delConst, addConst)
		if !d {
			return false, false
		}
		return true, !exceeds
	}

	delExceeds, d1 := checkImbalance(solver, b.p, delVars, addVars, delConst, addConst)
	if !d1 {
		return false, false
	}
	if delExceeds {
		return true, false
	}
	addExceeds, d2 := checkImbalance(solver, b.p, addVars, delVars, addConst, delConst)
	if !d2 {
		return false, false
	}
	return true, !addExceeds
}

// checkImbalance asks whether some feasible binding can make
// sum(posVars)+posConst strictly exceed sum(negVars)+negConst, by
// maximizing their difference. decided is false only when the solver
// itself failed to settle the program.
func checkImbalance(solver lp.Solver, p *lp.Problem, posVars, negVars []int, posConst, negConst int) (exceeds bool, decided bool) {
	obj := map[int]float64{}
	for _, v := range posVars {
		obj[v] += 1
	}
	for _, v := range negVars {
		obj[v] -= 1
	}
	p.Objective = obj
	p.Maximize = true

	sol, err := solver.Solve(p)
	if err != nil {
		// any solver failure (almost always perr.Capacity: an exhausted
		// branch-and-bound budget) leaves this action undecided.
		return false, false
	}
	total := sol.Optimum + float64(posConst-negConst)
	return total > 1e-6, true
}

// builder grows an lp.Problem's variable count as AND/OR helper variables
// are allocated on top of the fixed (free var, parameter) assignment
// variables.
type builder struct {
	p    *lp.Problem
	next int
}

func (b *builder) newVar() int {
	v := b.next
	b.next++
	return v
}

// collectEffectVars returns, for one effect list (an action's Add or Del),
// the count of atoms that match the candidate unconditionally (regardless
// of binding) plus one indicator variable per remaining atom whose match
// depends on the binding.
func collectEffectVars(b *builder, candAtoms []Atom, effAtoms []Atom, freeVarIndex, paramIdx map[string]int, fvParamVar map[[2]int]int) (constCount int, vars []int) {
	for _, eff := range effAtoms {
		clauses, always := clausesFor(candAtoms, eff, freeVarIndex, paramIdx, fvParamVar)
		if always {
			constCount++
			continue
		}
		if len(clauses) == 0 {
			continue
		}
		zs := make([]int, 0, len(clauses))
		for _, cl := range clauses {
			zs = append(zs, andVar(b, cl))
		}
		vars = append(vars, orVar(b, zs))
	}
	return constCount, vars
}

// clausesFor lists, for one effect atom, every candidate atom that could
// match it: each viable candidate atom contributes a clause (the set of
// assignment variables that must all be 1 for that atom to match). A
// clause with zero variables means some candidate atom matches regardless
// of binding, which makes the whole effect atom an unconditional match —
// signalled by always=true, short-circuiting the rest.
func clausesFor(candAtoms []Atom, eff Atom, freeVarIndex, paramIdx map[string]int, fvParamVar map[[2]int]int) (clauses [][]int, always bool) {
	for _, cand := range candAtoms {
		if cand.Predicate != eff.Predicate || len(cand.Slots) != len(eff.Slots) {
			continue
		}
		var clause []int
		viable := true
		for i, slot := range cand.Slots {
			if slot.Counted {
				continue
			}
			effSlot := eff.Slots[i]
			if slot.isObject() {
				if !effSlot.isObject() || effSlot.Object != slot.Object {
					viable = false
					break
				}
				continue
			}
			if effSlot.isObject() {
				viable = false
				break
			}
			pj, ok := paramIdx[effSlot.Var]
			if !ok {
				viable = false
				break
			}
			fi, ok := freeVarIndex[slot.Var]
			if !ok {
				viable = false
				break
			}
			clause = appendUnique(clause, fvParamVar[[2]int{fi, pj}])
		}
		if !viable {
			continue
		}
		if len(clause) == 0 {
			return nil, true
		}
		clauses = append(clauses, clause)
	}
	return clauses, false
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// andVar returns a variable exactly equal to the logical AND of vars: if
// there is only one, no helper variable is needed. Otherwise it allocates
// one and constrains it with the standard conjunction linearization
// (z <= x_i for every i, z >= sum(x_i) - (n-1)).
func andVar(b *builder, vars []int) int {
	if len(vars) == 1 {
		return vars[0]
	}
	z := b.newVar()
	b.p.SetBinary(z)
	for _, x := range vars {
		b.p.AddRow(map[int]float64{z: 1, x: -1}, lp.LE, 0)
	}
	row := map[int]float64{z: -1}
	for _, x := range vars {
		row[x] += 1
	}
	b.p.AddRow(row, lp.LE, float64(len(vars)-1))
	return z
}

// orVar returns a variable exactly equal to the logical OR of zs, via the
// standard disjunction linearization (y >= z_k for every k, y <= sum(z_k)).
func orVar(b *builder, zs []int) int {
	if len(zs) == 1 {
		return zs[0]
	}
	y := b.newVar()
	b.p.SetBinary(y)
	for _, z := range zs {
		b.p.AddRow(map[int]float64{y: -1, z: 1}, lp.LE, 0)
	}
	row := map[int]float64{y: 1}
	for _, z := range zs {
		row[z] -= 1
	}
	b.p.AddRow(row, lp.LE, 0)
	return y
}
