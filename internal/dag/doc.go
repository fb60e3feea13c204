// Package dag is a small, generic directed graph keyed by string IDs. It
// knows nothing about layers or models: callers map their objects to IDs,
// add an edge from every producer to its consumer, and ask the graph for
// cycle checks and heights.
//
// An edge from -> to means `to` depends on `from`. The height of a node is the
// length of the longest dependency path leading to it from a designated root,
// which is the order in which a code generator can emit nodes.
package dag
