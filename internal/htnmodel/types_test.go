package htnmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/facts"
)

func TestAddMethodWiresBackReferences(t *testing.T) {
	store := facts.NewStore()
	classical := facts.NewTask(store, facts.NewIDSet(), facts.NewIDSet())
	m := NewModel(classical)

	top := m.AddTask("deliver", nil, false, -1)
	load := m.AddTask("load", nil, true, 0)
	drive := m.AddTask("drive", nil, true, 1)
	methodID := m.AddMethod("deliver-by-load-drive", top, []int{load, drive})

	require.Equal(t, []int{methodID}, m.DecomposedBy[top])
	assert.Equal(t, []int{methodID}, m.ContainingMethods[load])
	assert.Equal(t, []int{methodID}, m.ContainingMethods[drive])

	assert.Equal(t, "load", m.Task(load).Name)
	assert.Equal(t, top, m.Method(methodID).DecomposedTask)
}
