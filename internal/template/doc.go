// Package template builds models from template documents.
//
// A template document names a reusable computation and declares its ports
// and parameters:
//
//	{
//	  "name": "Linear",
//	  "source": "linear.py",
//	  "variables": {
//	    "X": {"IO": "in", "dim": ["N", 4]},
//	    "Y": {"IO": "out", "dim": ["N", 2], "type": "float"}
//	  },
//	  "parameters": {"W": {"type": "matrix"}}
//	}
//
// Documents are read as JSON (.json), HCL native syntax (.hcl) or YAML
// (.yaml, .yml), chosen by file extension. In HCL, every entry of a mapping
// is a labeled block:
//
//	name   = "Linear"
//	source = "linear.py"
//
//	variables "X" {
//	  IO  = "in"
//	  dim = ["N", 4]
//	}
//
// Declaration order in the document is the port order of the model. Any
// failure to read, decode or validate a document is reported as
// ErrTemplateParse.
package template
