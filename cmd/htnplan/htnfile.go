package main

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/htnmodel"
	"github.com/htnplan/htnplan/internal/perr"
)

// taskFile is one htnmodel.Task, referencing its primitive operator (if
// any) by name rather than id.
type taskFile struct {
	Name              string   `json:"name"`
	Args              []string `json:"args"`
	DeclaredPrimitive bool     `json:"primitive"`
	PrimitiveOp       string   `json:"primitive_op,omitempty"`
}

// methodFile is one htnmodel.Method, referencing its decomposed task and
// subtasks by index into the htnFile's Tasks list.
type methodFile struct {
	Name           string `json:"name"`
	DecomposedTask int    `json:"decomposed_task"`
	Subtasks       []int  `json:"subtasks"`
}

// htnFile is the on-disk shape of the "htn.json" the rc-model subcommand
// consumes: a classicalTaskFile plus the method layer and task hierarchy
// layered over it.
type htnFile struct {
	classicalTaskFile
	Tasks       []taskFile   `json:"tasks"`
	Methods     []methodFile `json:"methods"`
	InitialTask int          `json:"initial_task"`
}

// loadHTNModel reads path and rebuilds the htnmodel.Model it describes.
func loadHTNModel(path string) (*htnmodel.Model, error) {
	var hf htnFile
	if err := readJSON(path, &hf); err != nil {
		return nil, err
	}

	classical, err := buildClassicalTask(hf.classicalTaskFile)
	if err != nil {
		return nil, err
	}

	model := htnmodel.NewModel(classical)
	for _, tf := range hf.Tasks {
		primitiveOpID := -1
		if tf.DeclaredPrimitive {
			id, ok := lookupOp(classical.Store, tf.PrimitiveOp)
			if !ok {
				return nil, perr.InputErr("cli", "loadHTNModel", fmt.Errorf("task %q declares primitive op %q, not found", tf.Name, tf.PrimitiveOp))
			}
			primitiveOpID = id
		}
		model.AddTask(tf.Name, tf.Args, tf.DeclaredPrimitive, primitiveOpID)
	}
	for _, mf := range hf.Methods {
		model.AddMethod(mf.Name, mf.DecomposedTask, mf.Subtasks)
	}
	model.InitialTask = hf.InitialTask

	return model, nil
}
