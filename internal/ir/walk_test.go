package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds n linear layers wired a0 -> a1 -> ... -> a(n-1).
func chain(t *testing.T, n int) []*Layer {
	t.Helper()
	layers := make([]*Layer, n)
	m := newLinear(t, "linear")
	for i := range layers {
		layers[i] = newLayer(t, m, "")
		if i > 0 {
			mustLink(t, layers[i-1], "Y", layers[i], "X")
		}
	}
	return layers
}

func TestIsFollowingFrom(t *testing.T) {
	layers := chain(t, 4)
	first, last := layers[0], layers[3]

	ok, err := last.IsFollowingFrom(first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = last.IsFollowingFrom(layers[2])
	require.NoError(t, err)
	assert.True(t, ok, "direct producer")

	ok, err = first.IsFollowingFrom(last)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = first.IsFollowedBy(last)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = first.IsFollowingFrom(first)
	require.NoError(t, err)
	assert.False(t, ok, "a source layer has no producers")
}

func TestAllPreviousLayers(t *testing.T) {
	// in -> a -> c, in -> b -> c: "in" must appear once.
	in := newLayer(t, newLinear(t, "in"), "in")
	add := NewLayerModel("add")
	require.NoError(t, add.AttachVariables(Consumer, NewConsumer("A", Dim(2), ""), NewConsumer("B", Dim(2), "")))
	require.NoError(t, add.AttachVariables(Source, NewSource("Y", Dim(2), "")))

	m := newLinear(t, "lin")
	a := newLayer(t, m, "a")
	b := newLayer(t, m, "b")
	c := newLayer(t, add, "c")
	mustLink(t, in, "Y", a, "X")
	mustLink(t, in, "Y", b, "X")
	mustLink(t, a, "Y", c, "A")
	mustLink(t, b, "Y", c, "B")

	prev, err := c.AllPreviousLayers()
	require.NoError(t, err)
	assert.ElementsMatch(t, []*Layer{a, b, in}, prev)

	prev, err = in.AllPreviousLayers()
	require.NoError(t, err)
	assert.Empty(t, prev)
}

func TestWalk_Cycle(t *testing.T) {
	m := newLinear(t, "m")
	a := newLayer(t, m, "a")
	b := newLayer(t, m, "b")
	outsider := newLayer(t, m, "outsider")
	mustLink(t, a, "Y", b, "X")
	mustLink(t, b, "Y", a, "X")

	_, err := a.IsFollowingFrom(outsider)
	require.ErrorIs(t, err, ErrCycle)

	_, err = b.AllPreviousLayers()
	require.ErrorIs(t, err, ErrCycle)
}
