// Package network freezes a wired layer graph and orders it for emission.
//
// A Network is built once from every model, every layer and the two boundary
// layers. Construction validates the topology and computes a height per
// layer: the global input has height 0 and every other layer sits one above
// its highest producer. Once built, a Network does not change; wiring the
// layers afterwards does not update the cached heights, so build a new one.
package network

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/dag"
	"github.com/specialistvlad/layergraph/internal/identity"
	"github.com/specialistvlad/layergraph/internal/ir"
)

// ErrGraphMalformed is returned when the layers do not form a graph that can
// be ordered from the global input: a boundary layer missing from the set or
// wired on the wrong side, a producer outside the network, an unreachable
// layer or a cycle.
var ErrGraphMalformed = errors.New("graph malformed")

// Network is the whole graph plus its two boundary layers.
type Network struct {
	models  []ir.Model
	layers  []*ir.Layer
	input   *ir.Layer
	output  *ir.Layer
	heights map[identity.ID]int
	ordered []*ir.Layer
}

// New validates the graph and computes the height of every layer.
// Duplicate entries in models or layers are ignored.
func New(ctx context.Context, models []ir.Model, layers []*ir.Layer, input, output *ir.Layer) (*Network, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building network.", "models", len(models), "layers", len(layers))

	n := &Network{
		models: dedupe(models),
		layers: dedupe(layers),
		input:  input,
		output: output,
	}
	if input == nil || output == nil {
		return nil, fmt.Errorf("%w: both boundary layers are required", ErrGraphMalformed)
	}

	members := make(map[identity.ID]*ir.Layer, len(n.layers))
	byKey := make(map[string]*ir.Layer, len(n.layers))
	for _, l := range n.layers {
		members[l.ID()] = l
		byKey[l.ID().String()] = l
	}
	modelSet := make(map[identity.ID]struct{}, len(n.models))
	for _, m := range n.models {
		modelSet[m.ID()] = struct{}{}
	}

	if _, ok := members[input.ID()]; !ok {
		return nil, fmt.Errorf("%w: global input %s is not part of the layer set", ErrGraphMalformed, input)
	}
	if _, ok := members[output.ID()]; !ok {
		return nil, fmt.Errorf("%w: global output %s is not part of the layer set", ErrGraphMalformed, output)
	}

	g := dag.New()
	for _, l := range n.layers {
		if _, ok := modelSet[l.Model().ID()]; !ok {
			return nil, fmt.Errorf("%w: model %s of %s is not part of the model set", ErrGraphMalformed, l.Model(), l)
		}
		g.AddNode(l.ID().String())
	}
	for _, l := range n.layers {
		for _, p := range l.InputLayers() {
			if _, ok := members[p.ID()]; !ok {
				return nil, fmt.Errorf("%w: %s is fed by %s which is not part of the network", ErrGraphMalformed, l, p)
			}
			if err := g.AddEdge(p.ID().String(), l.ID().String()); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrGraphMalformed, err)
			}
		}
	}

	producers, err := g.Dependencies(input.ID().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraphMalformed, err)
	}
	if len(producers) > 0 {
		return nil, fmt.Errorf("%w: global input %s is fed by %s", ErrGraphMalformed, input, byKey[producers[0]])
	}
	consumers, err := g.Dependents(output.ID().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraphMalformed, err)
	}
	if len(consumers) > 0 {
		return nil, fmt.Errorf("%w: global output %s feeds %s", ErrGraphMalformed, output, byKey[consumers[0]])
	}

	// Cycles are reported ahead of unreachable layers.
	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraphMalformed, describe(err, g, byKey))
	}
	heights, err := g.Heights(input.ID().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraphMalformed, describe(err, g, byKey))
	}

	n.heights = make(map[identity.ID]int, len(heights))
	for _, l := range n.layers {
		n.heights[l.ID()] = heights[l.ID().String()]
	}

	n.ordered = slices.Clone(n.layers)
	slices.SortStableFunc(n.ordered, func(a, b *ir.Layer) int {
		return cmp.Compare(n.heights[a.ID()], n.heights[b.ID()])
	})

	logger.Debug("Network heights computed.", "layers", len(n.layers), "depth", n.heights[n.ordered[len(n.ordered)-1].ID()])
	return n, nil
}

// describe appends the layer behind every identity mentioned by a dag error,
// in the order the layers were given.
func describe(err error, g *dag.Graph, byKey map[string]*ir.Layer) error {
	msg := err.Error()
	var named []string
	for _, key := range g.Nodes() {
		if strings.Contains(msg, key) {
			named = append(named, byKey[key].String())
		}
	}
	if len(named) == 0 {
		return err
	}
	return fmt.Errorf("%w (layers: %v)", err, named)
}

func dedupe[T identity.Identifiable](in []T) []T {
	seen := make(map[identity.ID]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v.ID()]; ok {
			continue
		}
		seen[v.ID()] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Height returns the height of l, or false if l is not part of the network.
func (n *Network) Height(l *ir.Layer) (int, bool) {
	h, ok := n.heights[l.ID()]
	return h, ok
}

// Heights returns the height of every layer.
func (n *Network) Heights() map[*ir.Layer]int {
	out := make(map[*ir.Layer]int, len(n.layers))
	for _, l := range n.layers {
		out[l] = n.heights[l.ID()]
	}
	return out
}

// Ordered returns the layers by non-decreasing height. Layers of equal height
// keep the order they were given to New.
func (n *Network) Ordered() []*ir.Layer {
	return slices.Clone(n.ordered)
}

// Levels groups Ordered by height; Levels()[h] holds the layers of height h.
func (n *Network) Levels() [][]*ir.Layer {
	var levels [][]*ir.Layer
	for _, l := range n.ordered {
		h := n.heights[l.ID()]
		for len(levels) <= h {
			levels = append(levels, nil)
		}
		levels[h] = append(levels[h], l)
	}
	return levels
}

func (n *Network) Layers() []*ir.Layer { return slices.Clone(n.layers) }
func (n *Network) Models() []ir.Model { return slices.Clone(n.models) }
func (n *Network) InputLayer() *ir.Layer { return n.input }
func (n *Network) OutputLayer() *ir.Layer { return n.output }
