// Package rcmodel builds the "relaxed composition" classical projection of
// an HTN model: a purely-classical facts.Task any classical heuristic can
// run over, encoding top-down reachability (TDR) and bottom-up reached
// (BUR) markers as ordinary facts and method applications as ordinary
// operators.
package rcmodel

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/htnmodel"
	"github.com/htnplan/htnplan/internal/perr"
)

// Options controls the optional TDR layer and the cost method operators
// carry.
type Options struct {
	EnableTDR  bool
	MethodCost int
}

// Result is the built classical model plus the task->marker-fact lookups,
// exposed so CheckInvariants (and callers wiring the RC-model into a
// heuristic) don't have to re-derive them from naming conventions.
type Result struct {
	Task      *facts.Task
	BUROf     map[int]int // task id -> BUR fact id
	TDROf     map[int]int // primitive task id -> TDR fact id, empty if disabled
	MethodOps map[int]int // method id -> its RC operator id
}

// Build projects h into a classical Result per spec §4.6.
func Build(h *htnmodel.Model, opts Options) (*Result, error) {
	if h.InitialTask < 0 || h.InitialTask >= len(h.Tasks) {
		return nil, perr.InputErr("rcmodel", "Build", fmt.Errorf("model has no valid initial task (got id %d)", h.InitialTask))
	}

	store := facts.NewStore()
	factRemap := make(map[int]int, h.Classical.Store.NumFacts())
	for _, f := range h.Classical.Store.Facts() {
		factRemap[f.ID] = store.AddFact(f.Name)
	}
	for _, f := range h.Classical.Store.Facts() {
		if f.NegOf >= 0 {
			store.Fact(factRemap[f.ID]).NegOf = factRemap[f.NegOf]
		}
	}

	burOf := make(map[int]int, len(h.Tasks))
	for _, t := range h.Tasks {
		burOf[t.ID] = store.AddFact(fmt.Sprintf("BUR(%s)", taskLabel(t)))
	}
	tdrOf := map[int]int{}
	if opts.EnableTDR {
		for _, t := range h.Tasks {
			if t.DeclaredPrimitive {
				tdrOf[t.ID] = store.AddFact(fmt.Sprintf("TDR(%s)", taskLabel(t)))
			}
		}
	}

	for _, t := range h.Tasks {
		if !t.DeclaredPrimitive {
			continue
		}
		base := h.Classical.Store.Operator(t.PrimitiveOpID)
		op := &facts.Operator{
			Name: base.Name,
			Cost: base.Cost,
			Pre:  remapSet(base.Pre, factRemap),
			Add:  remapSet(base.Add, factRemap),
			Del:  remapSet(base.Del, factRemap),
		}
		if opts.EnableTDR {
			op.Pre.Add(tdrOf[t.ID])
		}
		op.Add.Add(burOf[t.ID])
		store.AddOperator(op)
	}

	methodOps := make(map[int]int, len(h.Methods))
	for _, m := range h.Methods {
		pre := facts.NewIDSet()
		for _, st := range m.Subtasks {
			pre.Add(burOf[st])
		}
		op := &facts.Operator{
			Name: m.Name,
			Cost: opts.MethodCost,
			Pre:  pre,
			Add:  facts.IDSetOf(burOf[m.DecomposedTask]),
			Del:  facts.NewIDSet(),
		}
		methodOps[m.ID] = store.AddOperator(op)
	}

	init := remapSet(h.Classical.Init, factRemap)
	if opts.EnableTDR {
		for _, t := range h.Tasks {
			if t.DeclaredPrimitive {
				init.Add(tdrOf[t.ID])
			}
		}
	}
	goal := remapSet(h.Classical.Goal, factRemap)
	goal.Add(burOf[h.InitialTask])

	task := facts.NewTask(store, init, goal)

	if err := store.ValidateRanges(); err != nil {
		return nil, err
	}

	return &Result{Task: task, BUROf: burOf, TDROf: tdrOf, MethodOps: methodOps}, nil
}

func taskLabel(t *htnmodel.Task) string {
	label := t.Name
	for _, a := range t.Args {
		label += "," + a
	}
	return fmt.Sprintf("%s#%d", label, t.ID)
}

func remapSet(set *facts.IDSet, remap map[int]int) *facts.IDSet {
	out := facts.NewIDSet()
	for _, id := range set.Slice() {
		out.Add(remap[id])
	}
	return out
}

// CheckInvariants verifies the two debug invariants spec §4.6 names: every
// subtask of a method is exactly a precondition of its RC operator, and
// vice versa (no missing, no extra).
func CheckInvariants(h *htnmodel.Model, res *Result) error {
	for _, m := range h.Methods {
		op := res.Task.Store.Operator(res.MethodOps[m.ID])
		expected := facts.NewIDSet()
		for _, st := range m.Subtasks {
			expected.Add(res.BUROf[st])
		}
		if !op.Pre.Equals(expected) {
			return perr.InternalErr("rcmodel", "CheckInvariants",
				fmt.Errorf("method %q: operator precondition does not match its subtask BUR set", m.Name))
		}
	}
	return nil
}
