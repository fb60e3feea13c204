package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/layergraph/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearJSON = `{
  "name": "Linear",
  "source": "linear.py",
  "variables": {
    "X": {"IO": "in", "dim": ["N", 4]},
    "Y": {"IO": "out", "dim": ["N", 2], "type": "int"}
  },
  "parameters": {
    "W": {"type": "matrix"},
    "b": {"type": "vector"}
  }
}`

const linearHCL = `
name   = "Linear"
source = "linear.py"

variables "X" {
  IO  = "in"
  dim = ["N", 4]
}

variables "Y" {
  IO   = "out"
  dim  = ["N", 2]
  type = "int"
}

parameters "W" {
  type = "matrix"
}

parameters "b" {
  type = "vector"
}
`

const linearYAML = `
name: Linear
source: linear.py
variables:
  X:
    IO: in
    dim: [N, 4]
  Y:
    IO: out
    dim: [N, 2]
    type: int
parameters:
  W:
    type: matrix
  b:
    type: vector
`

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func portNames(vars []*ir.Variable) []string {
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name())
	}
	return names
}

func TestNewModel_Syntaxes(t *testing.T) {
	testCases := []struct {
		file    string
		content string
	}{
		{"linear.json", linearJSON},
		{"linear.hcl", linearHCL},
		{"linear.yaml", linearYAML},
		{"linear.yml", linearYAML},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeTemplate(t, tc.file, tc.content)

			m, err := NewModel(context.Background(), "Linear_1", path)
			require.NoError(t, err)

			assert.Equal(t, "Linear_1", m.Name())
			assert.Equal(t, "Linear", m.TemplateName())
			assert.Equal(t, "linear.py", m.Source())
			assert.Equal(t, path, m.Locator())
			assert.Contains(t, m.String(), "TemplatedModel-")

			require.Len(t, m.Inputs(), 1)
			require.Len(t, m.Outputs(), 1)
			x, y := m.Inputs()[0], m.Outputs()[0]

			assert.Equal(t, "X", x.Name())
			assert.Equal(t, ir.Consumer, x.Direction())
			assert.Equal(t, ir.Dimension{ir.Symbolic("N"), ir.Fixed(4)}, x.Dimension())
			assert.Equal(t, ir.Float, x.ElementType(), "type defaults to float")
			assert.True(t, x.Instantiable())

			assert.Equal(t, "Y", y.Name())
			assert.Equal(t, ir.Source, y.Direction())
			assert.Equal(t, ir.ElementType("int"), y.ElementType())

			require.Len(t, m.Parameters(), 2)
			assert.Equal(t, "W", m.Parameters()[0].Name())
			assert.Equal(t, "matrix", m.Parameters()[0].Type())
			assert.Equal(t, "b", m.Parameters()[1].Name())

			found, err := m.Variable("Y")
			require.NoError(t, err)
			assert.Same(t, y, found)
		})
	}
}

func TestNewModel_DeclarationOrder(t *testing.T) {
	path := writeTemplate(t, "add.json", `{
  "name": "Add",
  "source": "add.py",
  "variables": {
    "Z": {"IO": "in", "dim": 2},
    "A": {"IO": "in", "dim": 2},
    "M": {"IO": "in", "dim": 2},
    "Y": {"IO": "out", "dim": 2}
  },
  "parameters": {}
}`)

	m, err := NewModel(context.Background(), "add", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Z", "A", "M"}, portNames(m.Inputs()))
	assert.Equal(t, ir.Dim(2), m.Inputs()[0].Dimension(), "a scalar dim is one axis")
	assert.Empty(t, m.Parameters())
}

func TestNewModel_EmptyMappings(t *testing.T) {
	testCases := []struct {
		file    string
		content string
		inputs  int
	}{
		{"relu.json", `{"name": "ReLU", "variables": {"X": {"IO": "in", "dim": "N"}, "Y": {"IO": "out", "dim": "N"}}, "parameters": {}}`, 1},
		{"relu.yaml", "name: ReLU\nvariables:\n  X: {IO: in, dim: N}\n  Y: {IO: out, dim: N}\nparameters: {}\n", 1},
		{"const.json", `{"name": "Const", "variables": {}, "parameters": {}}`, 0},
		{"const.yaml", "name: Const\nvariables: {}\nparameters: {}\n", 0},
		{"nulls.json", `{"name": "Const", "variables": null, "parameters": null}`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeTemplate(t, tc.file, tc.content)
			m, err := NewModel(context.Background(), "m", path)
			require.NoError(t, err)
			assert.Len(t, m.Inputs(), tc.inputs)
			assert.Empty(t, m.Parameters())
		})
	}
}

func TestNewModel_ScalarDims(t *testing.T) {
	path := writeTemplate(t, "relu.yaml", `
name: ReLU
variables:
  X: {IO: in, dim: N}
  Y: {IO: out, dim: 3}
`)
	m, err := NewModel(context.Background(), "relu", path)
	require.NoError(t, err)
	assert.Equal(t, ir.Dimension{ir.Symbolic("N")}, m.Inputs()[0].Dimension())
	assert.Equal(t, ir.Dim(3), m.Outputs()[0].Dimension())
	assert.Empty(t, m.Source())
}

func TestNewModel_Failures(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"malformed json", "bad.json", `{"name": "X",`, ""},
		{"malformed hcl", "bad.hcl", `variables "X" {`, ""},
		{"malformed yaml", "bad.yaml", "name: [unclosed", ""},
		{"unsupported extension", "t.toml", `name = "X"`, "unsupported template extension"},
		{"missing name", "t.json", `{"variables": {"X": {"IO": "in", "dim": 1}}}`, "Document.Name: field is required"},
		{"bad io tag", "t.json", `{"name": "T", "variables": {"X": {"IO": "both", "dim": 1}}}`, `"both" is not one of [in out]`},
		{"missing dim", "t.hcl", "name = \"T\"\nvariables \"X\" {\n  IO = \"in\"\n}\n", ""},
		{"empty dim", "t.yaml", "name: T\nvariables:\n  X: {IO: in, dim: []}\n", "must have at least 1 entries"},
		{"fractional size", "t.json", `{"name": "T", "variables": {"X": {"IO": "in", "dim": [2.5]}}}`, "dim size"},
		{"zero size", "t.json", `{"name": "T", "variables": {"X": {"IO": "in", "dim": 0}}}`, "must be positive"},
		{"bool axis", "t.json", `{"name": "T", "variables": {"X": {"IO": "in", "dim": [true]}}}`, "want number or string"},
		{"variables not a mapping", "t.yaml", "name: T\nvariables: [X]\n", "expected a mapping"},
		{"parameter without type", "t.json", `{"name": "T", "parameters": {"W": {}}}`, ""},
		{"unsupported variable property", "t.json", `{"name": "T", "variables": {"X": {"IO": "in", "dim": 1, "shape": 2}}}`, `unsupported property "shape"`},
		{"variable not an object", "t.json", `{"name": "T", "variables": {"X": 3}}`, "expected an object"},
		{"variables not an object", "t.json", `{"name": "T", "variables": ["X"]}`, "static map expression"},
		{"non-string IO", "t.json", `{"name": "T", "variables": {"X": {"IO": 1, "dim": 1}}}`, "IO"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemplate(t, tc.file, tc.content)
			_, err := NewModel(context.Background(), "m", path)
			require.ErrorIs(t, err, ErrTemplateParse)
			if tc.errMsg != "" {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}

	t.Run("unreadable file", func(t *testing.T) {
		_, err := NewModel(context.Background(), "m", filepath.Join(t.TempDir(), "missing.json"))
		require.ErrorIs(t, err, ErrTemplateParse)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFromDocument(t *testing.T) {
	doc := &Document{
		Name: "Linear",
		Variables: []VariableSpec{
			{Name: "X", IO: "in", Dim: ir.Dim(3)},
			{Name: "Y", IO: "out", Dim: ir.Dim(3)},
		},
	}

	t.Run("fresh declarations per call", func(t *testing.T) {
		a, err := FromDocument("a", "mem", doc)
		require.NoError(t, err)
		b, err := FromDocument("b", "mem", doc)
		require.NoError(t, err)

		assert.NotEqual(t, a.ID(), b.ID())
		assert.NotSame(t, a.Inputs()[0], b.Inputs()[0])
		assert.Equal(t, a.ID(), a.Inputs()[0].Model().ID())
	})

	t.Run("layers of a templated model", func(t *testing.T) {
		m, err := FromDocument("a", "mem", doc)
		require.NoError(t, err)
		l, err := ir.NewLayer(m, "a")
		require.NoError(t, err)
		assert.Equal(t, []*ir.Layer{l}, m.AttachedLayers())
		_, ok := m.Inputs()[0].Instance(l)
		assert.True(t, ok)
	})

	t.Run("duplicate names collide", func(t *testing.T) {
		dup := &Document{
			Name: "Dup",
			Variables: []VariableSpec{
				{Name: "X", IO: "in", Dim: ir.Dim(1)},
				{Name: "X", IO: "out", Dim: ir.Dim(1)},
			},
		}
		_, err := FromDocument("dup", "mem", dup)
		require.ErrorIs(t, err, ErrTemplateParse)
		assert.ErrorIs(t, err, ir.ErrNameCollision)
	})

	t.Run("duplicate parameters collide", func(t *testing.T) {
		dup := &Document{
			Name:       "Dup",
			Parameters: []ParameterSpec{{Name: "W", Type: "m"}, {Name: "W", Type: "m"}},
		}
		_, err := FromDocument("dup", "mem", dup)
		assert.ErrorIs(t, err, ir.ErrNameCollision)
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := FromDocument("nil", "mem", nil)
		assert.ErrorIs(t, err, ErrTemplateParse)
	})
}
