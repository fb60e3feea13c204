package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/layergraph/internal/template"
)

var (
	// ErrUnknownTemplate is returned when no loaded document has the requested name.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrDuplicateTemplate is returned when two documents declare the same name.
	ErrDuplicateTemplate = errors.New("duplicate template")
)

// Entry is one loaded template document.
type Entry struct {
	Locator  string
	Document *template.Document
}

// Registry holds the template documents available to an application instance.
type Registry struct {
	entries map[string]Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register validates doc and indexes it under its template name.
func (r *Registry) Register(locator string, doc *template.Document) error {
	if err := template.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %w", template.ErrTemplateParse, locator, err)
	}
	if prev, ok := r.entries[doc.Name]; ok {
		return fmt.Errorf("%w: %q is declared by both %s and %s", ErrDuplicateTemplate, doc.Name, prev.Locator, locator)
	}
	r.entries[doc.Name] = Entry{Locator: locator, Document: doc}
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return e, nil
}

// NewModel builds a fresh model named modelName from the template templateName.
func (r *Registry) NewModel(modelName, templateName string) (*template.Model, error) {
	e, err := r.Lookup(templateName)
	if err != nil {
		return nil, err
	}
	return template.FromDocument(modelName, e.Locator, e.Document)
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.entries) }
