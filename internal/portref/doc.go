// Package portref parses and formats port references.
//
// A reference names one port of one layer as "layer.port", for example
// "ReLU1.Y". The layer name "input" is reserved: "input.X" is the port X of
// the global input layer, which is created by the builder rather than
// declared.
package portref
