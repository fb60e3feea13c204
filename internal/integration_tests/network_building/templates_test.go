package integration_tests

// Templates shared by the scenarios in this package.
const (
	linearJSON = `{
  "name": "Linear",
  "source": "linear.py",
  "variables": {
    "X": {"IO": "in", "dim": ["N", 16]},
    "Y": {"IO": "out", "dim": ["N", 16]}
  },
  "parameters": {
    "W": {"type": "matrix"},
    "b": {"type": "vector"}
  }
}`

	reluYAML = `
name: ReLU
source: relu.py
variables:
  X: {IO: in, dim: [N, 16]}
  Y: {IO: out, dim: [N, 16]}
`

	addHCL = `
name   = "Add"
source = "add.py"

variables "A" {
  IO  = "in"
  dim = ["N", 16]
}
variables "B" {
  IO  = "in"
  dim = ["N", 16]
}
variables "Y" {
  IO  = "out"
  dim = ["N", 16]
}
`
)

func templates(extra map[string]string) map[string]string {
	files := map[string]string{
		"linear.json":           linearJSON,
		"activations/relu.yaml": reluYAML,
		"arithmetic/add.hcl":    addHCL,
	}
	for k, v := range extra {
		files[k] = v
	}
	return files
}
