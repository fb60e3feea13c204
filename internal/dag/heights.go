package dag

import "fmt"

// Heights returns, for every node, the length of the longest dependency path
// from root. The root has height 0 and must not depend on anything. Any
// other node without dependencies is unreachable, and a node met again while
// its own height is still being computed closes a cycle; both are errors.
func (g *Graph) Heights(root string) (map[string]int, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	rootNode, ok := g.nodes[root]
	if !ok {
		return nil, fmt.Errorf("%w: root %s", ErrNodeNotFound, root)
	}
	if len(rootNode.deps) > 0 {
		return nil, fmt.Errorf("%w: root '%s' depends on '%s'", ErrUnreachable, root, rootNode.deps[0].id)
	}

	heights := map[string]int{root: 0}
	visiting := make(map[string]bool)

	var height func(n *node) (int, error)
	height = func(n *node) (int, error) {
		if h, ok := heights[n.id]; ok {
			return h, nil
		}
		if len(n.deps) == 0 {
			return 0, fmt.Errorf("%w: node '%s' has no dependencies and is not the root '%s'", ErrUnreachable, n.id, root)
		}
		if visiting[n.id] {
			return 0, fmt.Errorf("%w involving node '%s'", ErrCycle, n.id)
		}

		visiting[n.id] = true
		highest := -1
		for _, dep := range n.deps {
			h, err := height(dep)
			if err != nil {
				return 0, err
			}
			if h > highest {
				highest = h
			}
		}
		delete(visiting, n.id)

		heights[n.id] = highest + 1
		return highest + 1, nil
	}

	for _, id := range g.order {
		if _, err := height(g.nodes[id]); err != nil {
			return nil, err
		}
	}
	return heights, nil
}
