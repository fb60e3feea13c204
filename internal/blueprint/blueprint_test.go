package blueprint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/layergraph/internal/portref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mlp = `
name = "MLP"

model "Linear_1" { template = "Linear" }
model "Linear_2" { template = "Linear" }
model "ReLU1"    { template = "ReLU" }
model "ReLU2"    { template = "ReLU" }

layer "Linear_2" {
  inputs = { X = "ReLU1.Y" }
}
layer "ReLU2" {
  inputs = { X = "Linear_2.Y" }
}
layer "Linear_1" {
  inputs = { X = "input.X" }
}
layer "ReLU1" {
  inputs = { X = "Linear_1.Y" }
}

output "Y" { from = "ReLU2.Y" }
`

func TestParse(t *testing.T) {
	bp, err := Parse("mlp.hcl", []byte(mlp))
	require.NoError(t, err)

	assert.Equal(t, "MLP", bp.Name)
	assert.Equal(t, []Model{
		{ID: "Linear_1", Template: "Linear"},
		{ID: "Linear_2", Template: "Linear"},
		{ID: "ReLU1", Template: "ReLU"},
		{ID: "ReLU2", Template: "ReLU"},
	}, bp.Models)

	require.Len(t, bp.Layers, 4)
	var ids []string
	for _, l := range bp.Layers {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"Linear_2", "ReLU2", "Linear_1", "ReLU1"}, ids, "layers keep document order")

	first := bp.Layers[2]
	assert.Equal(t, "Linear_1", first.Model, "model defaults to the layer id")
	assert.Equal(t, map[string]portref.Ref{"X": portref.FromInput("X")}, first.Inputs)

	assert.Equal(t, []Output{{Name: "Y", From: portref.New("ReLU2", "Y")}}, bp.Outputs)
}

func TestParse_SharedModel(t *testing.T) {
	src := `
model "lin" { template = "Linear" }
layer "a" {
  model  = "lin"
  inputs = { X = "input.X" }
}
layer "b" {
  model  = "lin"
  inputs = { X = "a.Y" }
}
output "Y" { from = "b.Y" }
`
	bp, err := Parse("shared.hcl", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "lin", bp.Layers[0].Model)
	assert.Equal(t, "lin", bp.Layers[1].Model)
}

func TestParse_JSON(t *testing.T) {
	src := `{
  "model": {"Linear_1": {"template": "Linear"}},
  "layer": {"Linear_1": {"inputs": {"X": "input.X"}}},
  "output": {"Y": {"from": "Linear_1.Y"}}
}`
	bp, err := Parse("mlp.json", []byte(src))
	require.NoError(t, err)
	require.Len(t, bp.Layers, 1)
	assert.Equal(t, portref.FromInput("X"), bp.Layers[0].Inputs["X"])
	assert.Equal(t, portref.New("Linear_1", "Y"), bp.Outputs[0].From)
}

func TestParse_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		errMsg string
	}{
		{
			name:   "syntax error",
			src:    `model "a" {`,
			errMsg: "failed to parse",
		},
		{
			name:   "unknown block",
			src:    `network "a" {}`,
			errMsg: "failed to decode",
		},
		{
			name: "duplicate model",
			src: `model "a" { template = "T" }
model "a" { template = "T" }
layer "a" {}
output "Y" { from = "a.Y" }`,
			errMsg: `Duplicate "model" block`,
		},
		{
			name: "duplicate layer",
			src: `model "a" { template = "T" }
layer "a" {}
layer "a" {}
output "Y" { from = "a.Y" }`,
			errMsg: `Duplicate "layer" block`,
		},
		{
			name: "reserved layer id",
			src: `model "input" { template = "T" }
layer "input" {}
output "Y" { from = "input.X" }`,
			errMsg: "Reserved layer id",
		},
		{
			name: "unknown model",
			src: `layer "a" { inputs = { X = "input.X" } }
output "Y" { from = "a.Y" }`,
			errMsg: "Unknown model",
		},
		{
			name: "bad input reference",
			src: `model "a" { template = "T" }
layer "a" { inputs = { X = "input" } }
output "Y" { from = "a.Y" }`,
			errMsg: "Invalid input reference",
		},
		{
			name: "unknown producer",
			src: `model "a" { template = "T" }
layer "a" { inputs = { X = "ghost.Y" } }
output "Y" { from = "a.Y" }`,
			errMsg: "Unknown producer",
		},
		{
			name: "output from unknown layer",
			src: `model "a" { template = "T" }
layer "a" { inputs = { X = "input.X" } }
output "Y" { from = "b.Y" }`,
			errMsg: "Unknown producer",
		},
		{
			name: "no outputs",
			src: `model "a" { template = "T" }
layer "a" { inputs = { X = "input.X" } }`,
			errMsg: "Missing output",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bp.hcl", []byte(tc.src))
			require.ErrorIs(t, err, ErrInvalidBlueprint)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestParse_DiagnosticOrder(t *testing.T) {
	src := `model "a" { template = "T" }
layer "a" {
  inputs = { Z = "input", A = "input", Q = "ghost.Y", M = "input", B = "ghost.Y" }
}
output "Y" { from = "a.Y" }`

	for range 20 {
		_, err := Parse("bp.hcl", []byte(src))
		require.ErrorIs(t, err, ErrInvalidBlueprint)

		var diags hcl.Diagnostics
		require.ErrorAs(t, err, &diags)
		details := make([]string, 0, len(diags))
		for _, d := range diags {
			details = append(details, d.Detail[:strings.Index(d.Detail, " of layer")])
		}
		assert.Equal(t, []string{`Input "A"`, `Input "M"`, `Input "Z"`, `Input "B"`, `Input "Q"`}, details)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mlp.hcl")
	require.NoError(t, os.WriteFile(path, []byte(mlp), 0o644))

	bp, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, bp.Layers, 4)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, ErrInvalidBlueprint)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
