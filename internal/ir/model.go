package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// Model is the behaviour shared by every model template: a named set of port
// and parameter declarations plus the layers instantiated from it.
type Model interface {
	ID() identity.ID
	Name() string

	// Inputs returns the consumer ports in declaration order.
	Inputs() []*Variable
	// Outputs returns the source ports in declaration order.
	Outputs() []*Variable
	Parameters() []*Parameter

	// Variable resolves a port by name, failing with ErrUnknownPort.
	Variable(name string) (*Variable, error)
	// NamedVariables returns a copy of the name to port table.
	NamedVariables() map[string]*Variable
	// Parameter resolves a parameter by name, failing with ErrUnknownParameter.
	Parameter(name string) (*Parameter, error)
	AttachParameters(params ...*Parameter) error

	// AttachLayer registers a layer and instantiates every port for it.
	// Re-attaching a registered layer is a no-op.
	AttachLayer(layer *Layer) error
	// DetachLayer unregisters a layer, removes every link it takes part in
	// and destroys its port instances. Detaching an unknown layer is a no-op.
	DetachLayer(layer *Layer)
	AttachedLayers() []*Layer

	String() string
}

var (
	_ Model = (*LayerModel)(nil)
	_ Model = (*InputModel)(nil)
	_ Model = (*OutputModel)(nil)
)

// core holds the state every model variant shares. Variants embed it and set
// self so declarations are bound to the outer value.
type core struct {
	identity.Identity
	kind string
	name string
	self Model

	inputs  []*Variable
	outputs []*Variable
	params  []*Parameter

	named       map[string]*Variable
	namedParams map[string]*Parameter

	layers []*Layer
}

func newCore(kind, name string) core {
	return core{
		Identity:    identity.NewIdentity(),
		kind:        kind,
		name:        name,
		named:       make(map[string]*Variable),
		namedParams: make(map[string]*Parameter),
	}
}

func (c *core) Name() string { return c.name }

func (c *core) Inputs() []*Variable {
	out := make([]*Variable, len(c.inputs))
	copy(out, c.inputs)
	return out
}

func (c *core) Outputs() []*Variable {
	out := make([]*Variable, len(c.outputs))
	copy(out, c.outputs)
	return out
}

func (c *core) Parameters() []*Parameter {
	out := make([]*Parameter, len(c.params))
	copy(out, c.params)
	return out
}

func (c *core) Variable(name string) (*Variable, error) {
	v, ok := c.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not declared on %s", ErrUnknownPort, name, c)
	}
	return v, nil
}

func (c *core) NamedVariables() map[string]*Variable {
	out := make(map[string]*Variable, len(c.named))
	for k, v := range c.named {
		out[k] = v
	}
	return out
}

func (c *core) Parameter(name string) (*Parameter, error) {
	p, ok := c.namedParams[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not declared on %s", ErrUnknownParameter, name, c)
	}
	return p, nil
}

// ports returns inputs followed by outputs.
func (c *core) ports() []*Variable {
	out := make([]*Variable, 0, len(c.inputs)+len(c.outputs))
	out = append(out, c.inputs...)
	return append(out, c.outputs...)
}

// attachVariables validates the whole batch before touching any state.
// fixed marks every port non-instantiable, as boundary models require.
func (c *core) attachVariables(where Direction, vars []*Variable, fixed bool) error {
	if !where.Valid() {
		return fmt.Errorf("%w: cannot attach ports as %s on %s", ErrDirectionMismatch, where, c)
	}

	batch := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if v == nil {
			return fmt.Errorf("%w: nil variable attached to %s", ErrStructuralMismatch, c)
		}
		if v.direction != where {
			return fmt.Errorf("%w: variable %q is a %s port, cannot attach it as %s on %s",
				ErrDirectionMismatch, v.name, v.direction, where, c)
		}
		if v.owner != nil && !identity.Same(v.owner, c) {
			return fmt.Errorf("%w: variable %q belongs to %s", ErrAlreadyBound, v.name, v.owner)
		}
		if _, ok := c.named[v.name]; ok {
			return fmt.Errorf("%w: variable %q already used in %s", ErrNameCollision, v.name, c)
		}
		if _, ok := batch[v.name]; ok {
			return fmt.Errorf("%w: variable %q declared twice for %s", ErrNameCollision, v.name, c)
		}
		batch[v.name] = struct{}{}
		if (fixed || !v.instantiable) && len(c.layers) > 1 {
			return fmt.Errorf("%w: %q on %s which already has %d layers", ErrNotInstantiable, v.name, c, len(c.layers))
		}
	}

	for _, v := range vars {
		if fixed {
			v.MakeInstantiable(false)
		}
		if err := v.attachModel(c.self); err != nil {
			return err
		}
		c.named[v.name] = v
		if where == Consumer {
			c.inputs = append(c.inputs, v)
		} else {
			c.outputs = append(c.outputs, v)
		}
		for _, l := range c.layers {
			if _, err := v.makeNewInstance(l); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *core) AttachParameters(params ...*Parameter) error {
	batch := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p == nil {
			return fmt.Errorf("%w: nil parameter attached to %s", ErrStructuralMismatch, c)
		}
		if p.owner != nil && !identity.Same(p.owner, c) {
			return fmt.Errorf("%w: parameter %q belongs to %s", ErrAlreadyBound, p.name, p.owner)
		}
		if _, ok := c.namedParams[p.name]; ok {
			return fmt.Errorf("%w: parameter name %q already used in %s", ErrNameCollision, p.name, c)
		}
		if _, ok := batch[p.name]; ok {
			return fmt.Errorf("%w: parameter %q declared twice for %s", ErrNameCollision, p.name, c)
		}
		batch[p.name] = struct{}{}
	}

	for _, p := range params {
		if err := p.attachParent(c.self); err != nil {
			return err
		}
		c.namedParams[p.name] = p
		c.params = append(c.params, p)
	}
	return nil
}

func (c *core) hasLayer(layer *Layer) bool {
	for _, l := range c.layers {
		if l == layer {
			return true
		}
	}
	return false
}

func (c *core) AttachLayer(layer *Layer) error {
	if layer == nil {
		return fmt.Errorf("%w: nil layer attached to %s", ErrStructuralMismatch, c)
	}
	if !identity.Same(layer.model, c) {
		return fmt.Errorf("%w: %s is not a layer of %s", ErrStructuralMismatch, layer, c)
	}
	if c.hasLayer(layer) {
		return nil
	}

	ports := c.ports()
	for _, v := range ports {
		if err := v.canInstantiate(layer); err != nil {
			return err
		}
	}
	c.layers = append(c.layers, layer)
	for _, v := range ports {
		if _, err := v.makeNewInstance(layer); err != nil {
			return err
		}
	}
	return nil
}

func (c *core) DetachLayer(layer *Layer) {
	for i, l := range c.layers {
		if l != layer {
			continue
		}
		c.layers = append(c.layers[:i], c.layers[i+1:]...)
		for _, k := range layer.links() {
			// both ends are on k, so unregistering cannot fail
			_ = k.RemoveLink()
		}
		for _, v := range c.ports() {
			v.removeInstance(layer)
		}
		return
	}
}

func (c *core) AttachedLayers() []*Layer {
	out := make([]*Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

func (c *core) String() string {
	return fmt.Sprintf("%s-%s(%s)", c.kind, c.ID().Short(), c.name)
}

// LayerModel is a general model template with ports in both directions.
type LayerModel struct {
	core
}

// ModelOption customizes a LayerModel at construction.
type ModelOption func(*LayerModel)

// WithKind overrides the kind shown by String, for types that wrap a LayerModel.
func WithKind(kind string) ModelOption {
	return func(m *LayerModel) { m.kind = kind }
}

// NewLayerModel creates an empty model template.
func NewLayerModel(name string, opts ...ModelOption) *LayerModel {
	m := &LayerModel{core: newCore("LayerModel", name)}
	m.self = m
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachVariables declares ports on the model. Every variable must be
// declared with direction where: Consumer ports become inputs, Source ports
// outputs. Nothing is attached if any variable is rejected.
func (m *LayerModel) AttachVariables(where Direction, vars ...*Variable) error {
	return m.attachVariables(where, vars, false)
}
