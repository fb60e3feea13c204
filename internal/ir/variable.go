package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// Variable is a port declared on a model template. The declaration is shared
// by every layer of the model; per-layer state lives in a VariableInstance.
type Variable struct {
	name         string
	direction    Direction
	dimension    Dimension
	elemType     ElementType
	instantiable bool

	owner     Model
	instances []*VariableInstance

	// linked is advisory: which ports this one has been wired to, in the
	// order the links were first made. No compatibility is implied.
	linked    []*Variable
	linkedSet map[*Variable]struct{}
}

// NewVariable declares a new instantiable port. An empty element type means
// DefaultElementType.
func NewVariable(name string, direction Direction, dim Dimension, elemType ElementType) *Variable {
	if elemType == "" {
		elemType = DefaultElementType
	}
	return &Variable{
		name:         name,
		direction:    direction,
		dimension:    dim.Clone(),
		elemType:     elemType,
		instantiable: true,
		linkedSet:    make(map[*Variable]struct{}),
	}
}

// NewSource declares a source port.
func NewSource(name string, dim Dimension, elemType ElementType) *Variable {
	return NewVariable(name, Source, dim, elemType)
}

// NewConsumer declares a consumer port.
func NewConsumer(name string, dim Dimension, elemType ElementType) *Variable {
	return NewVariable(name, Consumer, dim, elemType)
}

func (v *Variable) Name() string             { return v.name }
func (v *Variable) Direction() Direction     { return v.direction }
func (v *Variable) Dimension() Dimension     { return v.dimension.Clone() }
func (v *Variable) ElementType() ElementType { return v.elemType }
func (v *Variable) Instantiable() bool       { return v.instantiable }

// Model returns the owning model, or nil while the variable is unbound.
func (v *Variable) Model() Model { return v.owner }

// MakeInstantiable sets the instance policy. A non-instantiable port is a
// fixed boundary port: it still gets one instance, but a second layer of the
// same model cannot instantiate it.
func (v *Variable) MakeInstantiable(instantiable bool) {
	v.instantiable = instantiable
}

// attachModel binds the variable to its owner. Binding is permanent.
func (v *Variable) attachModel(m Model) error {
	if v.owner != nil && !identity.Same(v.owner, m) {
		return fmt.Errorf("%w: variable %q belongs to %s", ErrAlreadyBound, v.name, v.owner)
	}
	v.owner = m
	return nil
}

// canInstantiate checks whether layer may get an instance of this port.
func (v *Variable) canInstantiate(layer *Layer) error {
	if v.instantiable || len(v.instances) == 0 {
		return nil
	}
	if len(v.instances) == 1 && v.instances[0].layer == layer {
		return nil
	}
	return fmt.Errorf("%w: %q already instantiated by %s", ErrNotInstantiable, v.name, v.instances[0].layer)
}

// makeNewInstance creates the per-layer instance, or returns the existing one.
func (v *Variable) makeNewInstance(layer *Layer) (*VariableInstance, error) {
	if inst, ok := v.Instance(layer); ok {
		return inst, nil
	}
	if err := v.canInstantiate(layer); err != nil {
		return nil, err
	}
	inst := &VariableInstance{variable: v, layer: layer}
	v.instances = append(v.instances, inst)
	return inst, nil
}

// removeInstance destroys the instance belonging to layer, if any.
func (v *Variable) removeInstance(layer *Layer) {
	for i, inst := range v.instances {
		if inst.layer == layer {
			v.instances = append(v.instances[:i], v.instances[i+1:]...)
			return
		}
	}
}

// Instance returns the instance of this port held by layer.
func (v *Variable) Instance(layer *Layer) (*VariableInstance, bool) {
	for _, inst := range v.instances {
		if inst.layer == layer {
			return inst, true
		}
	}
	return nil, false
}

// Instances returns the live instances in creation order.
func (v *Variable) Instances() []*VariableInstance {
	out := make([]*VariableInstance, len(v.instances))
	copy(out, v.instances)
	return out
}

// AddLinkedVariables records that v has been connected to others.
// Re-adding a known variable is a no-op.
func (v *Variable) AddLinkedVariables(others ...*Variable) {
	for _, o := range others {
		if o == nil || o == v {
			continue
		}
		if _, ok := v.linkedSet[o]; ok {
			continue
		}
		v.linkedSet[o] = struct{}{}
		v.linked = append(v.linked, o)
	}
}

// LinkedVariables returns every port v has been connected to.
func (v *Variable) LinkedVariables() []*Variable {
	out := make([]*Variable, len(v.linked))
	copy(out, v.linked)
	return out
}

// IsLinkedTo reports whether v has been connected to other.
func (v *Variable) IsLinkedTo(other *Variable) bool {
	_, ok := v.linkedSet[other]
	return ok
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s%s:%s", v.name, v.dimension, v.elemType)
}

// VariableInstance is the state of one port on one layer.
type VariableInstance struct {
	variable *Variable
	layer    *Layer
}

// Variable returns the declaration this instance belongs to.
func (vi *VariableInstance) Variable() *Variable { return vi.variable }

// Layer returns the layer owning this instance.
func (vi *VariableInstance) Layer() *Layer { return vi.layer }
