package builder

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/layergraph/internal/blueprint"
	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/ir"
	"github.com/specialistvlad/layergraph/internal/network"
	"github.com/specialistvlad/layergraph/internal/portref"
	"github.com/specialistvlad/layergraph/internal/template"
)

// ModelSource creates a fresh model from a named template.
type ModelSource interface {
	NewModel(modelName, templateName string) (*template.Model, error)
}

// Graph is a resolved blueprint.
type Graph struct {
	Name    string
	Network *network.Network

	models map[string]*template.Model
	layers map[string]*ir.Layer
}

// Model returns the model declared with id.
func (g *Graph) Model(id string) (*template.Model, bool) {
	m, ok := g.models[id]
	return m, ok
}

// Layer returns the layer declared with id. The boundary layers are found
// through the network.
func (g *Graph) Layer(id string) (*ir.Layer, bool) {
	l, ok := g.layers[id]
	return l, ok
}

// build carries the state shared by the passes.
type build struct {
	bp      *blueprint.Blueprint
	models  map[string]*template.Model
	layers  map[string]*ir.Layer
	ordered []*ir.Layer
	input   *ir.Layer
	output  *ir.Layer
}

// Build constructs the network described by bp, creating models from src.
func Build(ctx context.Context, bp *blueprint.Blueprint, src ModelSource) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting network construction.", "blueprint", bp.Name)

	b := &build{
		bp:     bp,
		models: make(map[string]*template.Model, len(bp.Models)),
		layers: make(map[string]*ir.Layer, len(bp.Layers)),
	}

	// First pass: models.
	for _, m := range bp.Models {
		model, err := src.NewModel(m.ID, m.Template)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.ID, err)
		}
		b.models[m.ID] = model
	}
	logger.Debug("Build: Model creation complete.", "model_count", len(b.models))

	// Second pass: layers, then the boundaries they imply.
	for _, l := range bp.Layers {
		model, ok := b.models[l.Model]
		if !ok {
			return nil, fmt.Errorf("%w: layer %q uses undeclared model %q", blueprint.ErrInvalidBlueprint, l.ID, l.Model)
		}
		layer, err := ir.NewLayer(model, l.ID)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.ID, err)
		}
		b.layers[l.ID] = layer
		b.ordered = append(b.ordered, layer)
	}
	if err := b.createInput(); err != nil {
		return nil, err
	}
	if err := b.createOutput(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Layer creation complete.", "layer_count", len(b.ordered))

	// Third pass: links.
	if err := b.linkLayers(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Build: Linking complete.")

	net, err := network.New(ctx, b.allModels(), b.allLayers(), b.input, b.output)
	if err != nil {
		return nil, err
	}

	logger.Info("Build: Network construction successful.", "blueprint", bp.Name, "layers", len(net.Layers()))
	return &Graph{Name: bp.Name, Network: net, models: b.models, layers: b.layers}, nil
}

// createInput declares one source port per distinct input reference. The
// port copies the declaration of the first consumer it feeds. A port only
// read by outputs has a single symbolic axis named after it.
func (b *build) createInput() error {
	var sources []*ir.Variable
	seen := make(map[string]struct{})
	for _, l := range b.bp.Layers {
		err := b.eachBinding(l, func(port *ir.Variable, ref portref.Ref) error {
			if !ref.IsInput() {
				return nil
			}
			if _, ok := seen[ref.Port]; ok {
				return nil
			}
			seen[ref.Port] = struct{}{}
			sources = append(sources, ir.NewSource(ref.Port, port.Dimension(), port.ElementType()))
			return nil
		})
		if err != nil {
			return err
		}
	}
	for _, o := range b.bp.Outputs {
		if !o.From.IsInput() {
			continue
		}
		if _, ok := seen[o.From.Port]; ok {
			continue
		}
		seen[o.From.Port] = struct{}{}
		sources = append(sources, ir.NewSource(o.From.Port, ir.Dimension{ir.Symbolic(o.From.Port)}, ir.DefaultElementType))
	}

	model, err := ir.NewInputModel(portref.Input, sources...)
	if err != nil {
		return fmt.Errorf("global input: %w", err)
	}
	b.input, err = ir.NewLayer(model, portref.Input)
	return err
}

// createOutput declares one sink per output record, copying the producer port.
func (b *build) createOutput() error {
	sinks := make([]*ir.Variable, 0, len(b.bp.Outputs))
	for _, o := range b.bp.Outputs {
		producer, err := b.resolve(o.From)
		if err != nil {
			return fmt.Errorf("output %q: %w", o.Name, err)
		}
		port, err := producer.Model().Variable(o.From.Port)
		if err != nil {
			return fmt.Errorf("output %q: %w", o.Name, err)
		}
		sinks = append(sinks, ir.NewConsumer(o.Name, port.Dimension(), port.ElementType()))
	}

	model, err := ir.NewOutputModel("output", sinks...)
	if err != nil {
		return fmt.Errorf("global output: %w", err)
	}
	b.output, err = ir.NewLayer(model, "output")
	return err
}

func (b *build) linkLayers(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, l := range b.bp.Layers {
		dst := b.layers[l.ID]
		err := b.eachBinding(l, func(port *ir.Variable, ref portref.Ref) error {
			src, err := b.resolve(ref)
			if err != nil {
				return err
			}
			link, err := ir.NewLinkByName(src, ref.Port, dst, port.Name())
			if err != nil {
				return err
			}
			return link.MakeLink()
		})
		if err != nil {
			return fmt.Errorf("layer %q: %w", l.ID, err)
		}
		for _, port := range dst.Model().Inputs() {
			if _, ok := l.Inputs[port.Name()]; !ok {
				logger.Warn("Consumer port is not bound.", "layer", l.ID, "port", port.Name())
			}
		}
	}

	for _, o := range b.bp.Outputs {
		src, err := b.resolve(o.From)
		if err != nil {
			return err
		}
		link, err := ir.NewLinkByName(src, o.From.Port, b.output, o.Name)
		if err != nil {
			return fmt.Errorf("output %q: %w", o.Name, err)
		}
		if err := link.MakeLink(); err != nil {
			return fmt.Errorf("output %q: %w", o.Name, err)
		}
	}
	return nil
}

// eachBinding visits the bound consumer ports of l in declaration order.
// Bindings naming a port the model does not declare fail with ErrUnknownPort.
func (b *build) eachBinding(l blueprint.Layer, fn func(port *ir.Variable, ref portref.Ref) error) error {
	model, ok := b.models[l.Model]
	if !ok {
		return fmt.Errorf("%w: layer %q uses undeclared model %q", blueprint.ErrInvalidBlueprint, l.ID, l.Model)
	}
	for _, name := range slices.Sorted(maps.Keys(l.Inputs)) {
		if _, err := model.Variable(name); err != nil {
			return fmt.Errorf("layer %q: %w", l.ID, err)
		}
	}
	for _, port := range model.Inputs() {
		if ref, ok := l.Inputs[port.Name()]; ok {
			if err := fn(port, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *build) resolve(ref portref.Ref) (*ir.Layer, error) {
	if ref.IsInput() {
		if b.input == nil {
			return nil, fmt.Errorf("%w: %s is not fed to any layer", blueprint.ErrInvalidBlueprint, ref)
		}
		if _, err := b.input.Model().Variable(ref.Port); err != nil {
			return nil, fmt.Errorf("%w: %s is not fed to any layer", blueprint.ErrInvalidBlueprint, ref)
		}
		return b.input, nil
	}
	l, ok := b.layers[ref.Layer]
	if !ok {
		return nil, fmt.Errorf("%w: %s references undeclared layer %q", blueprint.ErrInvalidBlueprint, ref, ref.Layer)
	}
	return l, nil
}

func (b *build) allModels() []ir.Model {
	models := make([]ir.Model, 0, len(b.models)+2)
	models = append(models, b.input.Model())
	for _, m := range b.bp.Models {
		models = append(models, b.models[m.ID])
	}
	return append(models, b.output.Model())
}

func (b *build) allLayers() []*ir.Layer {
	layers := make([]*ir.Layer, 0, len(b.ordered)+2)
	layers = append(layers, b.input)
	layers = append(layers, b.ordered...)
	return append(layers, b.output)
}
