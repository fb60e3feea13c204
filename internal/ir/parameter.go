package ir

import (
	"fmt"

	"github.com/specialistvlad/layergraph/internal/identity"
)

// Parameter declares a hyper-configuration slot on a model. Parameters are
// shared by all layers of the model; layers that need different values need
// different models.
type Parameter struct {
	name  string
	typ   string
	owner Model
}

// NewParameter declares a parameter of the given type name.
func NewParameter(name, typ string) *Parameter {
	return &Parameter{name: name, typ: typ}
}

func (p *Parameter) Name() string { return p.name }
func (p *Parameter) Type() string { return p.typ }

// Model returns the owning model, or nil while the parameter is unbound.
func (p *Parameter) Model() Model { return p.owner }

func (p *Parameter) attachParent(m Model) error {
	if p.owner != nil && !identity.Same(p.owner, m) {
		return fmt.Errorf("%w: parameter %q belongs to %s", ErrAlreadyBound, p.name, p.owner)
	}
	p.owner = m
	return nil
}

func (p *Parameter) String() string {
	return fmt.Sprintf("%s:%s", p.name, p.typ)
}
