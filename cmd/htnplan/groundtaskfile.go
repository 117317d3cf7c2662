package main

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

// operatorFile is one ground operator named by fact strings rather than
// ids, the JSON-friendly shape a ground task file carries its classical
// core in.
type operatorFile struct {
	Name string   `json:"name"`
	Cost int      `json:"cost"`
	Pre  []string `json:"pre"`
	Add  []string `json:"add"`
	Del  []string `json:"del"`
}

// classicalTaskFile is the JSON-friendly shape of a plain ground facts.Task:
// everything the verify subcommand's "ground.json" argument carries, and
// the classical core embedded in an "htn.json" file.
type classicalTaskFile struct {
	Facts     []string       `json:"facts"`
	Operators []operatorFile `json:"operators"`
	Init      []string       `json:"init"`
	Goal      []string       `json:"goal"`
}

// loadGroundTask reads path and rebuilds the facts.Task it describes.
func loadGroundTask(path string) (*facts.Task, error) {
	var tf classicalTaskFile
	if err := readJSON(path, &tf); err != nil {
		return nil, err
	}
	return buildClassicalTask(tf)
}

// buildClassicalTask interns tf's facts/operators into a fresh store and
// wraps it as a facts.Task, resolving every fact reference by name.
func buildClassicalTask(tf classicalTaskFile) (*facts.Task, error) {
	store := facts.NewStore()
	factID := make(map[string]int, len(tf.Facts))
	for _, name := range tf.Facts {
		factID[name] = store.AddFact(name)
	}
	resolve := func(names []string) (*facts.IDSet, error) {
		set := facts.NewIDSet()
		for _, n := range names {
			id, ok := factID[n]
			if !ok {
				return nil, perr.InputErr("cli", "buildClassicalTask", fmt.Errorf("unknown fact %q", n))
			}
			set.Add(id)
		}
		return set, nil
	}

	for _, of := range tf.Operators {
		pre, err := resolve(of.Pre)
		if err != nil {
			return nil, err
		}
		add, err := resolve(of.Add)
		if err != nil {
			return nil, err
		}
		del, err := resolve(of.Del)
		if err != nil {
			return nil, err
		}
		store.AddOperator(&facts.Operator{Name: of.Name, Cost: of.Cost, Pre: pre, Add: add, Del: del})
	}

	init, err := resolve(tf.Init)
	if err != nil {
		return nil, err
	}
	goal, err := resolve(tf.Goal)
	if err != nil {
		return nil, err
	}
	return facts.NewTask(store, init, goal), nil
}

func lookupOp(store *facts.Store, name string) (int, bool) {
	for _, op := range store.Operators() {
		if op.Name == name {
			return op.ID, true
		}
	}
	return -1, false
}
