// Package blueprint decodes the declarative description of a whole network.
//
// A blueprint lists the models a network uses, the layers instantiated from
// them with the producer feeding each consumer port, and the global outputs:
//
//	name = "MLP"
//
//	model "Linear_1" { template = "Linear" }
//	model "ReLU1"    { template = "ReLU" }
//
//	layer "Linear_1" {
//	  inputs = { X = "input.X" }
//	}
//	layer "ReLU1" {
//	  inputs = { X = "Linear_1.Y" }
//	}
//
//	output "Y" { from = "ReLU1.Y" }
//
// A layer uses the model with its own id unless it names one with model.
// Layers may appear in any order. Blueprints are read as HCL native syntax
// or, for .json files, the JSON form of the same schema.
package blueprint
