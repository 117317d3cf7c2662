// Package planio writes the ground-task output formats spec.md §6.2
// describes: Fast-Downward-compatible FDR, STRIPS text, a dictionary-style
// record for dynamically-typed consumers, and the mutex-group listing.
package planio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/fdr"
)

// fdrVersion is the translator output format version this writer emits.
const fdrVersion = 3

// WriteFDR writes task and proj in Fast-Downward's finite-domain textual
// format: version header, metric line, one variable block per FDR
// variable, the mutex-group block, init, goal, one operator block per
// ground operator (prevail/prepost pairs and cost), and an empty axiom
// block (this pipeline never introduces axioms).
func WriteFDR(w io.Writer, task *facts.Task, groups []facts.MutexGroup, proj *fdr.Projection) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "begin_version")
	fmt.Fprintln(bw, fdrVersion)
	fmt.Fprintln(bw, "end_version")

	fmt.Fprintln(bw, "begin_metric")
	fmt.Fprintln(bw, 0)
	fmt.Fprintln(bw, "end_metric")

	fmt.Fprintln(bw, len(proj.Variables))
	for _, v := range proj.Variables {
		writeVariableBlock(bw, v)
	}

	writeMutexBlock(bw, groups, proj)

	writeStateBlock(bw, "begin_state", "end_state", initValues(task, proj))
	writeGoalBlock(bw, task, proj)

	fmt.Fprintln(bw, task.Store.NumOperators())
	for _, op := range task.Store.Operators() {
		writeOperatorBlock(bw, op, proj)
	}

	fmt.Fprintln(bw, 0) // axioms: always empty

	return bw.Flush()
}

func writeVariableBlock(w *bufio.Writer, v fdr.Variable) {
	fmt.Fprintln(w, "begin_variable")
	fmt.Fprintln(w, v.Name)
	fmt.Fprintln(w, -1) // axiom layer: this pipeline emits no axioms
	fmt.Fprintln(w, len(v.ValueNames))
	for _, name := range v.ValueNames {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w, "end_variable")
}

// writeMutexBlock emits one FDR mutex group per input group that survived
// into at least two FDR values (a group fully absorbed into one variable
// needs no separate FDR mutex entry).
func writeMutexBlock(w *bufio.Writer, groups []facts.MutexGroup, proj *fdr.Projection) {
	type pair struct {
		varIdx, val int
	}
	var blocks [][]pair
	for _, g := range groups {
		var pairs []pair
		for _, f := range g.Facts.Slice() {
			for _, vv := range proj.FactOf[f] {
				pairs = append(pairs, pair{vv.Var, vv.Value})
			}
		}
		if len(pairs) >= 2 {
			blocks = append(blocks, pairs)
		}
	}

	fmt.Fprintln(w, len(blocks))
	for _, pairs := range blocks {
		fmt.Fprintln(w, "begin_mutex_group")
		fmt.Fprintln(w, len(pairs))
		for _, p := range pairs {
			fmt.Fprintln(w, p.varIdx, p.val)
		}
		fmt.Fprintln(w, "end_mutex_group")
	}
}

func writeStateBlock(w *bufio.Writer, begin, end string, values []int) {
	fmt.Fprintln(w, begin)
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
	fmt.Fprintln(w, end)
}

// initValues resolves, for every FDR variable, the value index matching
// task's init state (falling back to the variable's "none of these"
// value, always index 0, when no covered fact holds).
func initValues(task *facts.Task, proj *fdr.Projection) []int {
	values := make([]int, len(proj.Variables))
	for i, v := range proj.Variables {
		values[i] = 0
		for val, f := range v.Facts {
			if f >= 0 && task.Init.Contains(f) {
				values[i] = val
				break
			}
		}
	}
	return values
}

// writeGoalBlock emits one (var, value) pair per FDR variable that has at
// least one value implied by task's goal.
func writeGoalBlock(w *bufio.Writer, task *facts.Task, proj *fdr.Projection) {
	type pair struct {
		varIdx, val int
	}
	var pairs []pair
	for i, v := range proj.Variables {
		for val, f := range v.Facts {
			if f >= 0 && task.Goal.Contains(f) {
				pairs = append(pairs, pair{i, val})
			}
		}
	}

	fmt.Fprintln(w, "begin_goal")
	fmt.Fprintln(w, len(pairs))
	for _, p := range pairs {
		fmt.Fprintln(w, p.varIdx, p.val)
	}
	fmt.Fprintln(w, "end_goal")
}

// writeOperatorBlock emits one FDR operator: its name, prevail conditions
// (variables the operator requires but never changes), and prepost
// entries (variables whose value it transitions), each resolved from op's
// STRIPS pre/add/del against proj's fact->(var,value) mapping.
func writeOperatorBlock(w *bufio.Writer, op *facts.Operator, proj *fdr.Projection) {
	preOf := make(map[int]int) // var -> value required by op.Pre
	for _, f := range op.Pre.Slice() {
		for _, vv := range proj.FactOf[f] {
			preOf[vv.Var] = vv.Value
		}
	}
	postOf := make(map[int]int) // var -> value op.Add sets
	for _, f := range op.Add.Slice() {
		for _, vv := range proj.FactOf[f] {
			postOf[vv.Var] = vv.Value
		}
	}
	// a variable in op.Del without a corresponding Add value becomes the
	// variable's "none of these" value (index 0) post-transition.
	for _, f := range op.Del.Slice() {
		for _, vv := range proj.FactOf[f] {
			if _, ok := postOf[vv.Var]; !ok {
				postOf[vv.Var] = 0
			}
		}
	}

	var prevail [][2]int
	var prepost [][3]int // var, pre (-1 if any), post
	seen := map[int]bool{}
	for v, post := range postOf {
		seen[v] = true
		pre, ok := preOf[v]
		if !ok {
			pre = -1
		}
		prepost = append(prepost, [3]int{v, pre, post})
	}
	for v, pre := range preOf {
		if !seen[v] {
			prevail = append(prevail, [2]int{v, pre})
		}
	}

	fmt.Fprintln(w, "begin_operator")
	fmt.Fprintln(w, op.Name)
	fmt.Fprintln(w, len(prevail))
	for _, p := range prevail {
		fmt.Fprintln(w, p[0], p[1])
	}
	fmt.Fprintln(w, len(prepost))
	for _, p := range prepost {
		fmt.Fprintln(w, 0, p[0], p[1], p[2]) // 0 effect-conditions per prepost entry
	}
	fmt.Fprintln(w, op.Cost)
	fmt.Fprintln(w, "end_operator")
}
