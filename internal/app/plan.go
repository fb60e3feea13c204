package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/specialistvlad/layergraph/internal/builder"
	"github.com/specialistvlad/layergraph/internal/template"
)

// Plan is the emission order of a built network.
type Plan struct {
	Name   string      `json:"name"`
	Layers []PlanLayer `json:"layers"`
}

// PlanLayer is one layer in emission order.
type PlanLayer struct {
	Name     string        `json:"name"`
	Model    string        `json:"model"`
	Template string        `json:"template,omitempty"`
	Source   string        `json:"source,omitempty"`
	Height   int           `json:"height"`
	Inputs   []PlanBinding `json:"inputs,omitempty"`
}

// PlanBinding names the producer feeding one consumer port.
type PlanBinding struct {
	Port string `json:"port"`
	From string `json:"from"`
}

// NewPlan lists the layers of g by non-decreasing height.
func NewPlan(g *builder.Graph) Plan {
	net := g.Network
	p := Plan{Name: g.Name}
	for _, l := range net.Ordered() {
		h, _ := net.Height(l)
		pl := PlanLayer{Name: l.Label(), Model: l.Model().Name(), Height: h}
		if tm, ok := l.Model().(*template.Model); ok {
			pl.Template = tm.TemplateName()
			pl.Source = tm.Source()
		}
		for _, port := range l.Model().Inputs() {
			if ep, ok := l.Input(port); ok {
				pl.Inputs = append(pl.Inputs, PlanBinding{Port: port.Name(), From: ep.String()})
			}
		}
		p.Layers = append(p.Layers, pl)
	}
	return p
}

// Depth is the height of the last layer.
func (p Plan) Depth() int {
	if len(p.Layers) == 0 {
		return 0
	}
	return p.Layers[len(p.Layers)-1].Height
}

func (p Plan) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (p Plan) WriteText(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("HEIGHT", "LAYER", "MODEL", "TEMPLATE", "INPUTS")

	for _, l := range p.Layers {
		inputs := make([]string, 0, len(l.Inputs))
		for _, b := range l.Inputs {
			inputs = append(inputs, b.Port+" <- "+b.From)
		}
		t.Row(fmt.Sprint(l.Height), l.Name, l.Model, l.Template, strings.Join(inputs, ", "))
	}

	name := p.Name
	if name == "" {
		name = "network"
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", title.Render(name), t.String())
	return err
}
