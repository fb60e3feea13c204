package testutil

import (
	"testing"

	"github.com/specialistvlad/layergraph/internal/app"
	"github.com/specialistvlad/layergraph/internal/portref"
	"github.com/stretchr/testify/require"
)

// Heights maps every layer in the plan to its height.
func Heights(plan app.Plan) map[string]int {
	out := make(map[string]int, len(plan.Layers))
	for _, l := range plan.Layers {
		out[l.Name] = l.Height
	}
	return out
}

// AssertEmittedBefore checks that every producer in the plan is emitted, and
// sits lower, than each layer it feeds.
func AssertEmittedBefore(t *testing.T, plan app.Plan) {
	t.Helper()

	position := make(map[string]int, len(plan.Layers))
	for i, l := range plan.Layers {
		position[l.Name] = i
	}
	for i, l := range plan.Layers {
		for _, in := range l.Inputs {
			ref, err := portref.Parse(in.From)
			require.NoError(t, err)
			p, ok := position[ref.Layer]
			require.True(t, ok, "producer %s of %s is not in the plan", ref.Layer, l.Name)
			require.Less(t, p, i, "%s must be emitted before %s", ref.Layer, l.Name)
			require.Less(t, plan.Layers[p].Height, l.Height)
		}
	}
}
