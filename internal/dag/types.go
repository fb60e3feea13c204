package dag

import (
	"errors"
	"sync"
)

var (
	// ErrNodeNotFound is returned when an operation names an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrCycle is returned when a cycle is found in the dependency relation.
	ErrCycle = errors.New("cycle detected")
	// ErrUnreachable is returned by Heights for nodes that no dependency path
	// connects to the root.
	ErrUnreachable = errors.New("node unreachable from root")
)

// Graph is a collection of nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order keeps insertion order so traversals are deterministic.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the nodes that this node depends on (predecessors), in edge order.
	deps []*node
	// dependents holds the nodes that depend on this node (successors), in edge order.
	dependents []*node
}

func (n *node) hasDep(id string) bool {
	for _, d := range n.deps {
		if d.id == id {
			return true
		}
	}
	return false
}
