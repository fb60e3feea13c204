package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// Endpoint is one side of a link: a layer and one of its model's ports.
type Endpoint struct {
	Layer    *Layer
	Variable *Variable
}

func (e Endpoint) String() string {
	if e.Layer == nil || e.Variable == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s.%s", e.Layer.Label(), e.Variable.Name())
}

// Layer is one instantiation of a model inside a network.
type Layer struct {
	identity.Identity
	name  string
	model Model

	// inputs maps each consumer port to its single producer.
	inputs map[*Variable]Endpoint
	// outputs maps each source port to its consumers, in link order.
	outputs map[*Variable][]Endpoint
}

// NewLayer instantiates model. The name is for display only and may be empty.
func NewLayer(model Model, name string) (*Layer, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: layer %q needs a model", ErrStructuralMismatch, name)
	}
	l := &Layer{
		Identity: identity.NewIdentity(),
		name:     name,
		model:    model,
		inputs:   make(map[*Variable]Endpoint),
		outputs:  make(map[*Variable][]Endpoint),
	}
	if err := model.AttachLayer(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layer) Name() string { return l.name }
func (l *Layer) Model() Model { return l.model }

// Label is the display name, falling back to the short identity.
func (l *Layer) Label() string {
	if l.name != "" {
		return l.name
	}
	return l.ID().Short()
}

// Input returns the producer feeding port.
func (l *Layer) Input(port *Variable) (Endpoint, bool) {
	e, ok := l.inputs[port]
	return e, ok
}

// Inputs returns a copy of the consumer port to producer table.
func (l *Layer) Inputs() map[*Variable]Endpoint {
	out := make(map[*Variable]Endpoint, len(l.inputs))
	for k, v := range l.inputs {
		out[k] = v
	}
	return out
}

// Output returns the consumers fed by port.
func (l *Layer) Output(port *Variable) []Endpoint {
	out := make([]Endpoint, len(l.outputs[port]))
	copy(out, l.outputs[port])
	return out
}

// Outputs returns a copy of the source port to consumers table.
func (l *Layer) Outputs() map[*Variable][]Endpoint {
	out := make(map[*Variable][]Endpoint, len(l.outputs))
	for k, v := range l.outputs {
		out[k] = append([]Endpoint(nil), v...)
	}
	return out
}

// InputLayers returns the distinct producer layers, ordered by the model's
// input declaration order.
func (l *Layer) InputLayers() []*Layer {
	var layers []*Layer
	seen := make(map[*Layer]struct{})
	for _, port := range l.model.Inputs() {
		e, ok := l.inputs[port]
		if !ok {
			continue
		}
		if _, dup := seen[e.Layer]; dup {
			continue
		}
		seen[e.Layer] = struct{}{}
		layers = append(layers, e.Layer)
	}
	return layers
}

// OutputLayers returns the distinct consumer layers, ordered by the model's
// output declaration order and then link order.
func (l *Layer) OutputLayers() []*Layer {
	var layers []*Layer
	seen := make(map[*Layer]struct{})
	for _, port := range l.model.Outputs() {
		for _, e := range l.outputs[port] {
			if _, dup := seen[e.Layer]; dup {
				continue
			}
			seen[e.Layer] = struct{}{}
			layers = append(layers, e.Layer)
		}
	}
	return layers
}

// checkRegister reports whether link can be registered on l without changing anything.
func (l *Layer) checkRegister(link *Link) error {
	switch l {
	case link.source.Layer:
		return nil
	case link.destination.Layer:
		existing, ok := l.inputs[link.destination.Variable]
		if ok && existing != link.source {
			return fmt.Errorf("%w: %s is fed by %s, cannot also take %s",
				ErrFanInConflict, link.destination, existing, link.source)
		}
		return nil
	}
	return fmt.Errorf("%w: trying to set io links on layer %s that does not appear on the link %s",
		ErrStructuralMismatch, l, link)
}

// Register records link on whichever end l is: the source appends the
// destination to its outputs, the destination records the source as the
// producer of its port. Both port declarations are cross-linked.
func (l *Layer) Register(link *Link) error {
	if err := l.checkRegister(link); err != nil {
		return err
	}

	if l == link.source.Layer {
		port := link.source.Variable
		if !containsEndpoint(l.outputs[port], link.destination) {
			l.outputs[port] = append(l.outputs[port], link.destination)
		}
	} else {
		l.inputs[link.destination.Variable] = link.source
	}

	link.source.Variable.AddLinkedVariables(link.destination.Variable)
	link.destination.Variable.AddLinkedVariables(link.source.Variable)
	return nil
}

// Unregister removes link from whichever end l is. Removing a link that was
// never registered is a no-op.
func (l *Layer) Unregister(link *Link) error {
	switch l {
	case link.source.Layer:
		port := link.source.Variable
		kept := l.outputs[port][:0]
		for _, e := range l.outputs[port] {
			if e != link.destination {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(l.outputs, port)
		} else {
			l.outputs[port] = kept
		}
	case link.destination.Layer:
		if l.inputs[link.destination.Variable] == link.source {
			delete(l.inputs, link.destination.Variable)
		}
	default:
		return fmt.Errorf("%w: trying to remove io links on layer %s that does not appear on the link %s",
			ErrStructuralMismatch, l, link)
	}
	return nil
}

// links returns every link l takes part in, consumer ports first, each in
// the model's declaration order.
func (l *Layer) links() []*Link {
	var out []*Link
	for _, port := range l.model.Inputs() {
		if src, ok := l.inputs[port]; ok {
			out = append(out, &Link{source: src, destination: Endpoint{Layer: l, Variable: port}})
		}
	}
	for _, port := range l.model.Outputs() {
		for _, dst := range l.outputs[port] {
			out = append(out, &Link{source: Endpoint{Layer: l, Variable: port}, destination: dst})
		}
	}
	return out
}

func containsEndpoint(list []Endpoint, e Endpoint) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer-%s(%s) using model %s", l.ID().Short(), l.name, l.model)
}
