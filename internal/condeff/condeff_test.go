package condeff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

func TestCompileExpandsSubsetsAndIntroducesNegation(t *testing.T) {
	s := facts.NewStore()
	lit := s.AddFact("lit")

	press := &facts.Operator{
		Name: "press",
		Pre:  facts.NewIDSet(),
		Add:  facts.NewIDSet(),
		Del:  facts.NewIDSet(),
		CondEffects: []facts.CondEffect{
			{Pre: facts.IDSetOf(lit), Add: facts.NewIDSet(), Del: facts.IDSetOf(lit)},
		},
	}
	s.AddOperator(press)

	turnOn := &facts.Operator{Name: "turn-on", Pre: facts.NewIDSet(), Add: facts.IDSetOf(lit), Del: facts.NewIDSet()}
	s.AddOperator(turnOn)

	require.NoError(t, Compile(s))

	require.Equal(t, 2, s.NumFacts(), "expected 2 facts (lit, NOT-lit)")
	var notLit *facts.Fact
	for _, f := range s.Facts() {
		if f.Name == "NOT-lit" {
			notLit = f
		}
	}
	require.NotNil(t, notLit, "expected a NOT-lit negation fact to be created")
	assert.Equal(t, lit, notLit.NegOf)

	var sawPositive, sawNegative, sawRetrofittedTurnOn bool
	for _, op := range s.Operators() {
		switch {
		case op.Name == "press" && op.Pre.Contains(lit):
			sawPositive = true
			assert.True(t, op.Del.Contains(lit), "expected the positive-subset press to still delete lit")
			assert.True(t, op.Add.Contains(notLit.ID), "expected the positive-subset press to be retrofitted to add NOT-lit when it deletes lit")
		case op.Name == "press" && op.Pre.Contains(notLit.ID):
			sawNegative = true
		case op.Name == "turn-on":
			if op.Del.Contains(notLit.ID) {
				sawRetrofittedTurnOn = true
			}
		}
	}
	assert.True(t, sawPositive, "expected a compiled press operator whose precondition includes lit")
	assert.True(t, sawNegative, "expected a compiled press operator whose precondition includes NOT-lit")
	assert.True(t, sawRetrofittedTurnOn, "expected turn-on to be retrofitted to delete NOT-lit when it adds lit")

	for _, op := range s.Operators() {
		assert.False(t, op.HasCondEffects(), "expected no surviving conditional effects, found one on %q", op.Name)
	}
}

func TestCompileRejectsTooManyConditionalEffects(t *testing.T) {
	s := facts.NewStore()
	f := s.AddFact("f")
	op := &facts.Operator{Name: "overloaded", Pre: facts.NewIDSet(), Add: facts.NewIDSet(), Del: facts.NewIDSet()}
	for i := 0; i < WordSize; i++ {
		op.CondEffects = append(op.CondEffects, facts.CondEffect{Pre: facts.IDSetOf(f), Add: facts.NewIDSet(), Del: facts.NewIDSet()})
	}
	s.AddOperator(op)

	err := Compile(s)
	require.Error(t, err, "expected an error when an operator's conditional-effect count reaches WordSize")
	assert.True(t, perr.IsKind(err, perr.Capacity))
}
