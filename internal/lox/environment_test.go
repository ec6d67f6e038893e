package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameTok(name string) Token {
	return Token{Type: IDENTIFIER, Lexeme: name, Line: 1}
}

func TestEnvironment_DefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", 1.0)

	v, err := env.Get(nameTok("a"))
	require.Nil(t, err)
	assert.Equal(t, 1.0, v)
}

func TestEnvironment_GetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(nameTok("missing"))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Undefined variable")
}

func TestEnvironment_GetFallsThroughToEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", "outer value")
	inner := NewEnvironment(outer)

	v, err := inner.Get(nameTok("a"))
	require.Nil(t, err)
	assert.Equal(t, "outer value", v)
}

func TestEnvironment_AssignNeverCreatesNewBinding(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", 1.0)
	inner := NewEnvironment(outer)

	err := inner.Assign(nameTok("a"), 2.0)
	require.Nil(t, err)

	_, definedInInner := inner.values["a"]
	assert.False(t, definedInInner, "assign must mutate the enclosing binding, not shadow it")

	v, _ := outer.Get(nameTok("a"))
	assert.Equal(t, 2.0, v)
}

func TestEnvironment_AssignUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(nameTok("missing"), 1.0)
	require.NotNil(t, err)
}

// TestEnvironment_GetAtMatchesAncestor checks the scope-distance
// correctness property: at distance d, GetAt reads exactly the
// binding that d chain-hops up also reaches.
func TestEnvironment_GetAtMatchesAncestor(t *testing.T) {
	a := NewEnvironment(nil)
	a.Define("x", "in a")
	b := NewEnvironment(a)
	c := NewEnvironment(b)

	assert.Equal(t, "in a", c.GetAt(2, "x"))
	assert.Same(t, a, c.Ancestor(2))
}

func TestEnvironment_AssignAtWritesDirectly(t *testing.T) {
	a := NewEnvironment(nil)
	a.Define("x", 1.0)
	b := NewEnvironment(a)

	b.AssignAt(1, "x", 2.0)
	v, _ := a.Get(nameTok("x"))
	assert.Equal(t, 2.0, v)
}
