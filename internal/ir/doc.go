// Package ir is the graph data model of layergraph: the declarative
// intermediate representation a code generator walks to emit a network.
//
// # Core Concepts
//
//   - Variable: a named, directioned, typed port declared once on a model.
//     Source ports produce values, Consumer ports consume them.
//
//   - Parameter: a named hyper-configuration slot owned by a model. Every layer
//     of a model shares its parameters.
//
//   - Model: the reusable template. LayerModel is the general case; InputModel
//     and OutputModel are network boundaries that only produce or only consume.
//
//   - Layer: one use of a model inside a network. A layer owns its wiring
//     tables, the model owns the declarations. Many layers can share one model
//     without seeing each other's wiring; the per-layer side of a port is its
//     VariableInstance.
//
//   - Link: a directed edge from a source layer's port to a destination
//     layer's port. MakeLink registers it on both endpoints at once.
//
// # Consistency
//
// Every mutating operation either succeeds completely or leaves the graph
// untouched. Failures are reported with the sentinel errors in errors.go and
// can be tested with errors.Is.
//
// Nothing in this package is safe for concurrent mutation. Graphs are built by
// a single writer and then handed to the network package, which freezes the
// topology and computes emission heights.
package ir
