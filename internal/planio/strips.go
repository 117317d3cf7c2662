package planio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/htnplan/htnplan/internal/facts"
)

// StripsFlags records which optional passes ran, written into the STRIPS
// text and dict-style output's flags line/field so a downstream consumer
// knows which invariants it can rely on (e.g. whether it must still handle
// conditional effects itself).
type StripsFlags struct {
	ADL         bool
	CondEffects bool
	Pruned      bool
}

// WriteSTRIPS writes task in the plain STRIPS text format: a fact block, an
// operator block (each with pre/add/del, and conditional effects if any),
// init, goal, and a flags line.
func WriteSTRIPS(w io.Writer, task *facts.Task, flags StripsFlags) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "begin_facts")
	fmt.Fprintln(bw, task.Store.NumFacts())
	for _, f := range task.Store.Facts() {
		fmt.Fprintln(bw, f.ID, f.Name)
	}
	fmt.Fprintln(bw, "end_facts")

	fmt.Fprintln(bw, "begin_operators")
	fmt.Fprintln(bw, task.Store.NumOperators())
	for _, op := range task.Store.Operators() {
		writeStripsOperator(bw, op)
	}
	fmt.Fprintln(bw, "end_operators")

	fmt.Fprintln(bw, "begin_init")
	writeIDList(bw, task.Init.Slice())
	fmt.Fprintln(bw, "end_init")

	fmt.Fprintln(bw, "begin_goal")
	writeIDList(bw, task.Goal.Slice())
	fmt.Fprintln(bw, "end_goal")

	fmt.Fprintln(bw, "begin_flags")
	fmt.Fprintf(bw, "adl=%t ce=%t pruned=%t\n", flags.ADL, flags.CondEffects, flags.Pruned)
	fmt.Fprintln(bw, "end_flags")

	return bw.Flush()
}

func writeStripsOperator(w *bufio.Writer, op *facts.Operator) {
	fmt.Fprintln(w, "begin_operator")
	fmt.Fprintln(w, op.Name)
	fmt.Fprintln(w, op.Cost)
	fmt.Fprintln(w, "pre:")
	writeIDList(w, op.Pre.Slice())
	fmt.Fprintln(w, "add:")
	writeIDList(w, op.Add.Slice())
	fmt.Fprintln(w, "del:")
	writeIDList(w, op.Del.Slice())
	fmt.Fprintln(w, len(op.CondEffects))
	for _, ce := range op.CondEffects {
		fmt.Fprintln(w, "cond_pre:")
		writeIDList(w, ce.Pre.Slice())
		fmt.Fprintln(w, "cond_add:")
		writeIDList(w, ce.Add.Slice())
		fmt.Fprintln(w, "cond_del:")
		writeIDList(w, ce.Del.Slice())
	}
	fmt.Fprintln(w, "end_operator")
}

func writeIDList(w *bufio.Writer, ids []int) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprint(id)
	}
	fmt.Fprintln(w, strings.Join(strs, " "))
}

// WriteMutexGroups writes one line per group in the format spec.md §6.2
// names: textual fact names, space-separated.
func WriteMutexGroups(w io.Writer, task *facts.Task, groups []facts.MutexGroup) error {
	bw := bufio.NewWriter(w)
	for _, g := range groups {
		names := make([]string, 0, g.Facts.Len())
		for _, id := range g.Facts.Slice() {
			names = append(names, task.Store.Fact(id).Name)
		}
		fmt.Fprintln(bw, strings.Join(names, " "))
	}
	return bw.Flush()
}
