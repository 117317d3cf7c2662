package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLiftedCarriesActionsAndPredicateArities(t *testing.T) {
	dom := Domain{
		Objects: map[string]string{"a": "loc", "b": "loc"},
		Actions: []ActionSchema{
			{
				Name:   "move",
				Params: []Param{{Name: "?from", Type: "loc"}, {Name: "?to", Type: "loc"}},
				Pre:    []AtomSchema{{Predicate: "at", Terms: []Term{{Var: "?from"}}}},
				Add:    []AtomSchema{{Predicate: "at", Terms: []Term{{Var: "?to"}}}},
				Del:    []AtomSchema{{Predicate: "at", Terms: []Term{{Var: "?from"}}}},
			},
		},
		Init: []GroundAtom{{Predicate: "at", Args: []string{"a"}}},
		Goal: []GroundAtom{{Predicate: "at", Args: []string{"b"}}},
	}

	lifted := ToLifted(dom)
	require.Equal(t, 1, lifted.Predicates["at"])
	require.Len(t, lifted.Actions, 1)
	assert.Equal(t, "move", lifted.Actions[0].Name)
	assert.Len(t, lifted.Actions[0].Params, 2)
}

func TestToLiftedHandlesObjectConstantSlots(t *testing.T) {
	dom := Domain{
		Actions: []ActionSchema{
			{
				Name: "unlock-a",
				Pre:  []AtomSchema{{Predicate: "locked", Terms: []Term{{Object: "a"}}}},
				Del:  []AtomSchema{{Predicate: "locked", Terms: []Term{{Object: "a"}}}},
			},
		},
	}
	lifted := ToLifted(dom)
	assert.Equal(t, "a", lifted.Actions[0].Pre[0].Slots[0].Object)
}
