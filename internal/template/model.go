package template

import (
	"context"
	"fmt"

	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/ir"
)

// Model is a LayerModel whose ports and parameters come from a template
// document.
type Model struct {
	*ir.LayerModel
	locator string
	doc     *Document
}

var _ ir.Model = (*Model)(nil)

// NewModel reads the template document at locator and builds a model named
// name from it.
func NewModel(ctx context.Context, name, locator string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading template.", "model", name, "locator", locator)

	doc, err := ReadFile(locator)
	if err != nil {
		return nil, err
	}
	m, err := FromDocument(name, locator, doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("Template loaded.", "model", m.String(), "template", doc.Name,
		"inputs", len(m.Inputs()), "outputs", len(m.Outputs()), "parameters", len(m.Parameters()))
	return m, nil
}

// FromDocument builds a model from an already decoded document. Every call
// returns a model with its own port and parameter declarations.
func FromDocument(name, locator string, doc *Document) (*Model, error) {
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, locator, err)
	}
	m := &Model{
		LayerModel: ir.NewLayerModel(name, ir.WithKind("TemplatedModel")),
		locator:    locator,
		doc:        doc,
	}

	for _, spec := range doc.Variables {
		dir, err := ir.ParseDirection(spec.IO)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: variable %q: %w", ErrTemplateParse, locator, spec.Name, err)
		}
		v := ir.NewVariable(spec.Name, dir, spec.Dim, ir.ElementType(spec.Type))
		if err := m.AttachVariables(dir, v); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, locator, err)
		}
	}
	for _, spec := range doc.Parameters {
		if err := m.AttachParameters(ir.NewParameter(spec.Name, spec.Type)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, locator, err)
		}
	}
	return m, nil
}

// TemplateName is the name declared by the document.
func (m *Model) TemplateName() string { return m.doc.Name }

// Source is the reference to the computation the template represents.
func (m *Model) Source() string { return m.doc.Source }

// Locator is where the document was read from.
func (m *Model) Locator() string { return m.locator }
