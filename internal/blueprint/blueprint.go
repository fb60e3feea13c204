package blueprint

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/portref"
)

// ErrInvalidBlueprint is returned for blueprints that cannot be read, decoded
// or that reference things inconsistently.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Blueprint is a decoded network description.
type Blueprint struct {
	Name    string
	Models  []Model
	Layers  []Layer
	Outputs []Output
}

// Model binds a model id to a template name.
type Model struct {
	ID       string
	Template string
}

// Layer is one layer instantiation record.
type Layer struct {
	ID    string
	Model string
	// Inputs maps consumer port names to their producers.
	Inputs map[string]portref.Ref
}

// Output names one global output and the port producing it.
type Output struct {
	Name string
	From portref.Ref
}

type fileRoot struct {
	Name    string         `hcl:"name,optional"`
	Models  []*modelBlock  `hcl:"model,block"`
	Layers  []*layerBlock  `hcl:"layer,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

type modelBlock struct {
	ID       string    `hcl:"id,label"`
	Template string    `hcl:"template"`
	DefRange hcl.Range `hcl:",def_range"`
}

type layerBlock struct {
	ID       string            `hcl:"id,label"`
	Model    *string           `hcl:"model,optional"`
	Inputs   map[string]string `hcl:"inputs,optional"`
	DefRange hcl.Range         `hcl:",def_range"`
}

type outputBlock struct {
	Name     string    `hcl:"name,label"`
	From     string    `hcl:"from"`
	DefRange hcl.Range `hcl:",def_range"`
}

// Load reads and decodes the blueprint at path.
func Load(ctx context.Context, path string) (*Blueprint, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading blueprint.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
	}
	bp, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Blueprint loaded.", "name", bp.Name, "models", len(bp.Models), "layers", len(bp.Layers), "outputs", len(bp.Outputs))
	return bp, nil
}

// Parse decodes src. Files ending in .json use the JSON syntax, anything else
// the native syntax.
func Parse(filename string, src []byte) (*Blueprint, error) {
	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidBlueprint, filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrInvalidBlueprint, filename, diags)
	}

	bp, diags := translate(&root, file.Body.MissingItemRange())
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBlueprint, filename, diags)
	}
	return bp, nil
}

func translate(root *fileRoot, fileRange hcl.Range) (*Blueprint, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	bp := &Blueprint{Name: root.Name}

	models := make(map[string]struct{}, len(root.Models))
	for _, b := range root.Models {
		if _, dup := models[b.ID]; dup {
			diags = append(diags, duplicate("model", b.ID, b.DefRange))
			continue
		}
		models[b.ID] = struct{}{}
		if b.Template == "" {
			diags = append(diags, invalid("Missing template", fmt.Sprintf("Model %q must name a template.", b.ID), b.DefRange))
		}
		bp.Models = append(bp.Models, Model{ID: b.ID, Template: b.Template})
	}

	layers := make(map[string]hcl.Range, len(root.Layers))
	for _, b := range root.Layers {
		if _, dup := layers[b.ID]; dup {
			diags = append(diags, duplicate("layer", b.ID, b.DefRange))
			continue
		}
		layers[b.ID] = b.DefRange
		switch {
		case b.ID == portref.Input:
			diags = append(diags, invalid("Reserved layer id",
				fmt.Sprintf("The layer id %q designates the global input and cannot be declared.", portref.Input), b.DefRange))
			continue
		case !portref.ValidName(b.ID):
			diags = append(diags, invalid("Invalid layer id", fmt.Sprintf("%q is not a valid layer id.", b.ID), b.DefRange))
			continue
		}

		l := Layer{ID: b.ID, Model: b.ID, Inputs: make(map[string]portref.Ref, len(b.Inputs))}
		if b.Model != nil {
			l.Model = *b.Model
		}
		if _, ok := models[l.Model]; !ok {
			diags = append(diags, invalid("Unknown model",
				fmt.Sprintf("Layer %q uses model %q, which is not declared.", b.ID, l.Model), b.DefRange))
		}
		for _, port := range slices.Sorted(maps.Keys(b.Inputs)) {
			ref, err := portref.Parse(b.Inputs[port])
			if err != nil {
				diags = append(diags, invalid("Invalid input reference",
					fmt.Sprintf("Input %q of layer %q: %s.", port, b.ID, err), b.DefRange))
				continue
			}
			l.Inputs[port] = ref
		}
		bp.Layers = append(bp.Layers, l)
	}

	outputs := make(map[string]hcl.Range, len(root.Outputs))
	for _, b := range root.Outputs {
		if _, dup := outputs[b.Name]; dup {
			diags = append(diags, duplicate("output", b.Name, b.DefRange))
			continue
		}
		outputs[b.Name] = b.DefRange
		ref, err := portref.Parse(b.From)
		if err != nil {
			diags = append(diags, invalid("Invalid output reference",
				fmt.Sprintf("Output %q: %s.", b.Name, err), b.DefRange))
			continue
		}
		bp.Outputs = append(bp.Outputs, Output{Name: b.Name, From: ref})
	}

	// References are checked once every layer id is known.
	for _, l := range bp.Layers {
		for _, port := range slices.Sorted(maps.Keys(l.Inputs)) {
			if ref := l.Inputs[port]; !ref.IsInput() {
				if _, ok := layers[ref.Layer]; !ok {
					diags = append(diags, invalid("Unknown producer",
						fmt.Sprintf("Input %q of layer %q references undeclared layer %q.", port, l.ID, ref.Layer), layers[l.ID]))
				}
			}
		}
	}
	for _, o := range bp.Outputs {
		if o.From.IsInput() {
			continue
		}
		if _, ok := layers[o.From.Layer]; !ok {
			diags = append(diags, invalid("Unknown producer",
				fmt.Sprintf("Output %q references undeclared layer %q.", o.Name, o.From.Layer), outputs[o.Name]))
		}
	}
	if len(bp.Outputs) == 0 {
		diags = append(diags, invalid("Missing output", "A blueprint needs at least one \"output\" block.", fileRange))
	}

	return bp, diags
}

func duplicate(kind, id string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Duplicate \"" + kind + "\" block",
		Detail:   fmt.Sprintf("A %s with id %q is already declared.", kind, id),
		Subject:  rng.Ptr(),
	}
}

func invalid(summary, detail string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}
