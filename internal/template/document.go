package template

import (
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
	"github.com/specialistvlad/layergraph/internal/ir"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// ErrTemplateParse is returned when a template document cannot be read,
// decoded or validated.
var ErrTemplateParse = errors.New("template parse failure")

// Extensions lists the file extensions Decode understands.
var Extensions = []string{".json", ".hcl", ".yaml", ".yml"}

// Document is a decoded template document.
type Document struct {
	Name       string          `validate:"required"`
	Source     string
	Variables  []VariableSpec  `validate:"dive"`
	Parameters []ParameterSpec `validate:"dive"`
}

// VariableSpec declares one port.
type VariableSpec struct {
	Name string       `validate:"required"`
	IO   string       `validate:"required,oneof=in out"`
	Dim  ir.Dimension `validate:"min=1"`
	Type string
}

// ParameterSpec declares one parameter.
type ParameterSpec struct {
	Name string `validate:"required"`
	Type string `validate:"required"`
}

// hclDocument is the gohcl schema of the native syntax.
type hclDocument struct {
	Name       string          `hcl:"name,optional"`
	Source     string          `hcl:"source,optional"`
	Variables  []*hclVariable  `hcl:"variables,block"`
	Parameters []*hclParameter `hcl:"parameters,block"`
}

type hclVariable struct {
	Name string    `hcl:"name,label"`
	IO   string    `hcl:"IO"`
	Dim  cty.Value `hcl:"dim"`
	Type *string   `hcl:"type,optional"`
}

type hclParameter struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// jsonDocument keeps the two mappings as raw expressions. Decoding them as
// labeled blocks would reject an empty object.
type jsonDocument struct {
	Name       string         `hcl:"name,optional"`
	Source     string         `hcl:"source,optional"`
	Variables  hcl.Expression `hcl:"variables,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
}

type yamlDocument struct {
	Name       string    `yaml:"name"`
	Source     string    `yaml:"source"`
	Variables  yaml.Node `yaml:"variables"`
	Parameters yaml.Node `yaml:"parameters"`
}

type yamlVariable struct {
	IO   string    `yaml:"IO"`
	Dim  yaml.Node `yaml:"dim"`
	Type string    `yaml:"type"`
}

type yamlParameter struct {
	Type string `yaml:"type"`
}

// ReadFile reads, decodes and validates the document at path.
func ReadFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateParse, err)
	}
	doc, err := Decode(path, src)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, path, err)
	}
	return doc, nil
}

// Decode decodes src using the syntax implied by the extension of filename.
// The result is not validated.
func Decode(filename string, src []byte) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		doc, err = decodeJSON(filename, src)
	case ".hcl":
		doc, err = decodeHCL(filename, src)
	case ".yaml", ".yml":
		doc, err = decodeYAML(src)
	default:
		err = fmt.Errorf("unsupported template extension %q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, filename, err)
	}
	return doc, nil
}

func decodeHCL(filename string, src []byte) (*Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var raw hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diags
	}

	doc := &Document{Name: raw.Name, Source: raw.Source}
	for _, v := range raw.Variables {
		dim, err := dimension(v.Dim)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		spec := VariableSpec{Name: v.Name, IO: v.IO, Dim: dim}
		if v.Type != nil {
			spec.Type = *v.Type
		}
		doc.Variables = append(doc.Variables, spec)
	}
	for _, p := range raw.Parameters {
		doc.Parameters = append(doc.Parameters, ParameterSpec{Name: p.Name, Type: p.Type})
	}
	return doc, nil
}

func decodeJSON(filename string, src []byte) (*Document, error) {
	file, diags := hclparse.NewParser().ParseJSON(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var raw jsonDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diags
	}

	doc := &Document{Name: raw.Name, Source: raw.Source}
	err := eachProperty(raw.Variables, func(name string, obj cty.Value) error {
		attrs, err := objectAttrs(obj, "IO", "dim", "type")
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		dim, err := dimension(attrs["dim"])
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		spec := VariableSpec{Name: name, Dim: dim}
		if err := stringAttr(attrs["IO"], &spec.IO); err != nil {
			return fmt.Errorf("variable %q: IO: %w", name, err)
		}
		if err := stringAttr(attrs["type"], &spec.Type); err != nil {
			return fmt.Errorf("variable %q: type: %w", name, err)
		}
		doc.Variables = append(doc.Variables, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachProperty(raw.Parameters, func(name string, obj cty.Value) error {
		attrs, err := objectAttrs(obj, "type")
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		spec := ParameterSpec{Name: name}
		if err := stringAttr(attrs["type"], &spec.Type); err != nil {
			return fmt.Errorf("parameter %q: type: %w", name, err)
		}
		doc.Parameters = append(doc.Parameters, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// eachProperty visits the properties of a JSON object expression in source
// order. An absent or null expression has no properties.
func eachProperty(expr hcl.Expression, fn func(name string, value cty.Value) error) error {
	if expr == nil {
		return nil
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return nil
	}
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return diags
	}
	for _, pair := range pairs {
		key, diags := pair.Key.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		if key.Type() != cty.String || key.IsNull() {
			return fmt.Errorf("%s: property names must be strings", pair.Key.Range())
		}
		value, diags := pair.Value.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		if err := fn(key.AsString(), value); err != nil {
			return err
		}
	}
	return nil
}

// objectAttrs returns the attributes of obj, rejecting names outside allowed.
// Missing attributes are null.
func objectAttrs(obj cty.Value, allowed ...string) (map[string]cty.Value, error) {
	if obj.IsNull() || !obj.Type().IsObjectType() {
		return nil, errors.New("expected an object")
	}
	for _, name := range slices.Sorted(maps.Keys(obj.Type().AttributeTypes())) {
		if !slices.Contains(allowed, name) {
			return nil, fmt.Errorf("unsupported property %q", name)
		}
	}
	attrs := make(map[string]cty.Value, len(allowed))
	for _, name := range allowed {
		if obj.Type().HasAttribute(name) {
			attrs[name] = obj.GetAttr(name)
		} else {
			attrs[name] = cty.NullVal(cty.DynamicPseudoType)
		}
	}
	return attrs, nil
}

// stringAttr copies a string attribute into dst. Null leaves dst unchanged.
func stringAttr(v cty.Value, dst *string) error {
	if v.IsNull() {
		return nil
	}
	return gocty.FromCtyValue(v, dst)
}

func decodeYAML(src []byte) (*Document, error) {
	var raw yamlDocument
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, err
	}
	doc := &Document{Name: raw.Name, Source: raw.Source}

	err := eachEntry(&raw.Variables, func(name string, value *yaml.Node) error {
		var v yamlVariable
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		val, err := ctyFromYAML(&v.Dim)
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		dim, err := dimension(val)
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		doc.Variables = append(doc.Variables, VariableSpec{Name: name, IO: v.IO, Dim: dim, Type: v.Type})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachEntry(&raw.Parameters, func(name string, value *yaml.Node) error {
		var p yamlParameter
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		doc.Parameters = append(doc.Parameters, ParameterSpec{Name: name, Type: p.Type})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// eachEntry visits the pairs of a YAML mapping in document order. An absent
// or null node has no entries.
func eachEntry(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// ctyFromYAML converts the scalar or sequence forms of dim into a cty value
// so both syntaxes share one dimension decoder.
func ctyFromYAML(node *yaml.Node) (cty.Value, error) {
	switch node.Kind {
	case 0:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			n, err := cty.ParseNumberVal(node.Value)
			if err != nil {
				return cty.NilVal, fmt.Errorf("line %d: %w", node.Line, err)
			}
			return n, nil
		case "!!null":
			return cty.NullVal(cty.DynamicPseudoType), nil
		default:
			return cty.StringVal(node.Value), nil
		}
	case yaml.SequenceNode:
		elems := make([]cty.Value, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := ctyFromYAML(c)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, v)
		}
		if len(elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("line %d: dim must be a size, a symbol or a list of them", node.Line)
	}
}

// dimension accepts a single size or symbol, or a list of them.
func dimension(v cty.Value) (ir.Dimension, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, errors.New("dim is required")
	}
	ty := v.Type()
	if ty.IsTupleType() || ty.IsListType() {
		dim := make(ir.Dimension, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			a, err := axis(elem)
			if err != nil {
				return nil, err
			}
			dim = append(dim, a)
		}
		return dim, nil
	}
	a, err := axis(v)
	if err != nil {
		return nil, err
	}
	return ir.Dimension{a}, nil
}

func axis(v cty.Value) (ir.Axis, error) {
	if v.IsNull() || !v.IsKnown() {
		return ir.Axis{}, errors.New("dim entries must not be null")
	}
	switch v.Type() {
	case cty.Number:
		var size int
		if err := gocty.FromCtyValue(v, &size); err != nil {
			return ir.Axis{}, fmt.Errorf("dim size: %w", err)
		}
		if size < 1 {
			return ir.Axis{}, fmt.Errorf("dim size %d must be positive", size)
		}
		return ir.Fixed(size), nil
	case cty.String:
		s := v.AsString()
		if s == "" {
			return ir.Axis{}, errors.New("dim symbol must not be empty")
		}
		return ir.Symbolic(s), nil
	default:
		return ir.Axis{}, fmt.Errorf("dim entry of type %s, want number or string", v.Type().FriendlyName())
	}
}
