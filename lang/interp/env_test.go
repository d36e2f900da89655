package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", 1.0)

	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = env.Get("y")
	assert.False(t, ok)
}

func TestEnvironmentChildShadowsParent(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", "outer")

	child := parent.NewChild()
	child.Define("x", "inner")

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, "inner", v)

	// the parent binding is untouched
	v, ok = parent.Get("x")
	require.True(t, ok)
	assert.Equal(t, "outer", v)
}

func TestEnvironmentGetAtWalksExactHops(t *testing.T) {
	g := NewEnvironment()
	g.Define("x", "global")
	mid := g.NewChild()
	mid.Define("x", "mid")
	leaf := mid.NewChild()

	v, ok := leaf.GetAt(1, "x")
	require.True(t, ok)
	assert.Equal(t, "mid", v)

	v, ok = leaf.GetAt(2, "x")
	require.True(t, ok)
	assert.Equal(t, "global", v)

	// GetAt does not search: depth 0 is the leaf frame itself, which has
	// no binding of its own
	_, ok = leaf.GetAt(0, "x")
	assert.False(t, ok)
}

func TestEnvironmentAssignAt(t *testing.T) {
	g := NewEnvironment()
	g.Define("x", 1.0)
	leaf := g.NewChild()

	leaf.AssignAt(1, "x", 2.0)
	v, _ := g.Get("x")
	assert.Equal(t, 2.0, v)
}

func TestEnvironmentAssignSearchesOutward(t *testing.T) {
	g := NewEnvironment()
	g.Define("x", 1.0)
	leaf := g.NewChild()

	require.True(t, leaf.Assign("x", 5.0))
	v, _ := g.Get("x")
	assert.Equal(t, 5.0, v)

	assert.False(t, leaf.Assign("nope", 1.0))
}

// TestEnvironmentFrameOutlivesActivation pins the closure-capture contract:
// a frame stays live and mutable through any handle that retains it, after
// the code that created it has moved on.
func TestEnvironmentFrameOutlivesActivation(t *testing.T) {
	g := NewEnvironment()
	frame := g.NewChild()
	frame.Define("count", 0.0)

	// simulate two closures holding the same frame
	h1, h2 := frame, frame
	h1.Define("count", 1.0)

	v, ok := h2.Get("count")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}
