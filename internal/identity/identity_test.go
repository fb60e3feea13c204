package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	Identity
	name string
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[ID]struct{})
	for range 1000 {
		id := New()
		require.False(t, id.IsZero())
		_, dup := seen[id]
		require.False(t, dup, "identity %s handed out twice", id)
		seen[id] = struct{}{}
	}
}

func TestID_ZeroValue(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())
}

func TestID_Short(t *testing.T) {
	id := New()
	assert.Len(t, id.Short(), 8)
	assert.Equal(t, id.String()[:8], id.Short())
}

func TestSame(t *testing.T) {
	a := &thing{Identity: NewIdentity(), name: "a"}
	b := &thing{Identity: NewIdentity(), name: "a"}

	assert.True(t, Same(a, a))
	assert.False(t, Same(a, b), "equal contents must not imply equal identity")

	a.name = "renamed"
	assert.True(t, Same(a, a), "identity survives mutation")

	assert.False(t, Same(a, nil))
	assert.False(t, Same(nil, b))
	assert.True(t, Same(nil, nil))
}

func TestIdentity_MapKey(t *testing.T) {
	a := &thing{Identity: NewIdentity()}
	m := map[ID]*thing{a.ID(): a}

	a.name = "changed"
	got, ok := m[a.ID()]
	require.True(t, ok)
	assert.Same(t, a, got)
}
