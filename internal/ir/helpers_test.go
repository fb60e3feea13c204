package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newLinear returns a model with one consumer port X and one source port Y.
func newLinear(t *testing.T, name string) *LayerModel {
	t.Helper()
	m := NewLayerModel(name)
	require.NoError(t, m.AttachVariables(Consumer, NewConsumer("X", Dim(2), "")))
	require.NoError(t, m.AttachVariables(Source, NewSource("Y", Dim(2), "")))
	return m
}

func newLayer(t *testing.T, m Model, name string) *Layer {
	t.Helper()
	l, err := NewLayer(m, name)
	require.NoError(t, err)
	return l
}

func mustLink(t *testing.T, src *Layer, srcPort string, dst *Layer, dstPort string) *Link {
	t.Helper()
	k, err := NewLinkByName(src, srcPort, dst, dstPort)
	require.NoError(t, err)
	require.NoError(t, k.MakeLink())
	return k
}
