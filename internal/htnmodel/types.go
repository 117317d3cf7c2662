// Package htnmodel holds the HTN model types consumed by the RC-model
// builder (internal/rcmodel) and the plan decompressor (internal/decompress):
// a classical STRIPS core plus methods, decomposed-task/subtask back-
// references, and an initial (top) task.
package htnmodel

import "github.com/htnplan/htnplan/internal/facts"

// Task is one node of the task hierarchy: a name, its ground arguments, and
// whether it was declared primitive in the source domain (as opposed to
// being a compound task decomposed by some method).
type Task struct {
	ID                int
	Name              string
	Args              []string
	DeclaredPrimitive bool
	// PrimitiveOpID is the facts.Operator id this task grounds to when
	// DeclaredPrimitive is true, or -1 otherwise.
	PrimitiveOpID int
}

// Method decomposes one task into an ordered list of subtasks.
type Method struct {
	ID            int
	Name          string
	DecomposedTask int
	Subtasks      []int // ordered task ids
}

// Model is the HTN model: the classical core (task's ground STRIPS task)
// plus the method layer and task hierarchy back-references.
type Model struct {
	Classical *facts.Task

	Tasks   []*Task
	Methods []*Method

	// DecomposedBy maps a task id to the ids of methods that decompose it.
	DecomposedBy map[int][]int
	// ContainingMethods maps a task id to the ids of methods it appears as a
	// subtask of (the reverse of each Method.Subtasks membership).
	ContainingMethods map[int][]int

	InitialTask int
}

// NewModel returns an empty model wired to classical.
func NewModel(classical *facts.Task) *Model {
	return &Model{
		Classical:         classical,
		DecomposedBy:      map[int][]int{},
		ContainingMethods: map[int][]int{},
		InitialTask:       -1,
	}
}

// AddTask interns t, assigning it the next id.
func (m *Model) AddTask(name string, args []string, declaredPrimitive bool, primitiveOpID int) int {
	id := len(m.Tasks)
	m.Tasks = append(m.Tasks, &Task{
		ID:                id,
		Name:              name,
		Args:              args,
		DeclaredPrimitive: declaredPrimitive,
		PrimitiveOpID:     primitiveOpID,
	})
	return id
}

// AddMethod interns m, wiring DecomposedBy and ContainingMethods.
func (m *Model) AddMethod(name string, decomposedTask int, subtasks []int) int {
	id := len(m.Methods)
	m.Methods = append(m.Methods, &Method{
		ID:             id,
		Name:           name,
		DecomposedTask: decomposedTask,
		Subtasks:       subtasks,
	})
	m.DecomposedBy[decomposedTask] = append(m.DecomposedBy[decomposedTask], id)
	for _, st := range subtasks {
		m.ContainingMethods[st] = append(m.ContainingMethods[st], id)
	}
	return id
}

// Task returns the task with the given id.
func (m *Model) Task(id int) *Task { return m.Tasks[id] }

// Method returns the method with the given id.
func (m *Model) Method(id int) *Method { return m.Methods[id] }
