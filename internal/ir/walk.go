package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// walkAncestors visits every distinct transitive producer of l once, depth
// first in input order. fn returning true stops the walk. A producer that is
// reached again while still on the walk stack is a cycle.
func (l *Layer) walkAncestors(fn func(*Layer) bool) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[identity.ID]int)
	stopped := false

	var visit func(n *Layer) error
	visit = func(n *Layer) error {
		state[n.ID()] = visiting
		for _, p := range n.InputLayers() {
			switch state[p.ID()] {
			case visiting:
				return fmt.Errorf("%w: involving %s", ErrCycle, p)
			case done:
				continue
			}
			if fn(p) {
				stopped = true
				return nil
			}
			if err := visit(p); err != nil {
				return err
			}
			if stopped {
				return nil
			}
		}
		state[n.ID()] = done
		return nil
	}
	return visit(l)
}

// IsFollowingFrom reports whether other is a direct or transitive producer of l.
func (l *Layer) IsFollowingFrom(other *Layer) (bool, error) {
	found := false
	err := l.walkAncestors(func(p *Layer) bool {
		found = p == other
		return found
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// IsFollowedBy reports whether other is a direct or transitive consumer of l.
func (l *Layer) IsFollowedBy(other *Layer) (bool, error) {
	return other.IsFollowingFrom(l)
}

// AllPreviousLayers returns the deduplicated transitive closure of producers.
func (l *Layer) AllPreviousLayers() ([]*Layer, error) {
	var previous []*Layer
	err := l.walkAncestors(func(p *Layer) bool {
		previous = append(previous, p)
		return false
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}
