package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// Link is a directed edge from a source layer's port to a destination
// layer's port. Constructing a link only validates it; MakeLink registers it.
type Link struct {
	source      Endpoint
	destination Endpoint
}

// NewLink validates and returns a link from src.srcPort to dst.dstPort.
// srcPort must be a source port of src's model and dstPort a consumer port
// of dst's model.
func NewLink(src *Layer, srcPort *Variable, dst *Layer, dstPort *Variable) (*Link, error) {
	if src == nil || dst == nil || srcPort == nil || dstPort == nil {
		return nil, fmt.Errorf("%w: link endpoints must be set", ErrStructuralMismatch)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: self-referential link not allowed on %s", ErrStructuralMismatch, src)
	}
	if err := checkEndpoint(src, srcPort, Source); err != nil {
		return nil, err
	}
	if err := checkEndpoint(dst, dstPort, Consumer); err != nil {
		return nil, err
	}
	return &Link{
		source:      Endpoint{Layer: src, Variable: srcPort},
		destination: Endpoint{Layer: dst, Variable: dstPort},
	}, nil
}

// NewLinkByName resolves port names against each layer's model and returns
// the link. Unknown names fail with ErrUnknownPort.
func NewLinkByName(src *Layer, srcPort string, dst *Layer, dstPort string) (*Link, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: link endpoints must be set", ErrStructuralMismatch)
	}
	sv, err := src.Model().Variable(srcPort)
	if err != nil {
		return nil, err
	}
	dv, err := dst.Model().Variable(dstPort)
	if err != nil {
		return nil, err
	}
	return NewLink(src, sv, dst, dv)
}

func checkEndpoint(l *Layer, port *Variable, want Direction) error {
	if !identity.Same(port.Model(), l.Model()) {
		return fmt.Errorf("%w: port %q is not declared by %s", ErrStructuralMismatch, port.Name(), l.Model())
	}
	if port.Direction() != want {
		return fmt.Errorf("%w: port %q of %s is a %s port, link needs a %s port",
			ErrDirectionMismatch, port.Name(), l.Model(), port.Direction(), want)
	}
	return nil
}

// Source returns the producing end.
func (k *Link) Source() Endpoint { return k.source }

// Destination returns the consuming end.
func (k *Link) Destination() Endpoint { return k.destination }

// MakeLink registers the link on both endpoints. Nothing changes if either
// side rejects it.
func (k *Link) MakeLink() error {
	if err := k.source.Layer.checkRegister(k); err != nil {
		return err
	}
	if err := k.destination.Layer.checkRegister(k); err != nil {
		return err
	}
	if err := k.source.Layer.Register(k); err != nil {
		return err
	}
	return k.destination.Layer.Register(k)
}

// RemoveLink unregisters the link from both endpoints. Port declarations keep
// their cross references since other layers of the same models may still use them.
func (k *Link) RemoveLink() error {
	if err := k.source.Layer.Unregister(k); err != nil {
		return err
	}
	return k.destination.Layer.Unregister(k)
}

func (k *Link) String() string {
	return fmt.Sprintf("Link(%s -> %s)", k.source, k.destination)
}
