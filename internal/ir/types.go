package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is the role of a port on its model.
type Direction int

const (
	// Consumer ports take values from a producer. Templates tag them "in".
	Consumer Direction = iota + 1
	// Source ports hand values to consumers. Templates tag them "out".
	Source
)

// ParseDirection maps a template IO tag to a Direction.
func ParseDirection(tag string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "in":
		return Consumer, nil
	case "out":
		return Source, nil
	}
	return 0, fmt.Errorf("invalid IO tag %q: expected 'in' or 'out'", tag)
}

// Tag returns the template IO tag of the direction.
func (d Direction) Tag() string {
	switch d {
	case Consumer:
		return "in"
	case Source:
		return "out"
	}
	return "?"
}

func (d Direction) String() string {
	switch d {
	case Consumer:
		return "consumer"
	case Source:
		return "source"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid reports whether d is one of the declared directions.
func (d Direction) Valid() bool {
	return d == Consumer || d == Source
}

// ElementType names the element type carried by a port.
type ElementType string

const (
	Float ElementType = "float"
	Int   ElementType = "int"
	Bool  ElementType = "bool"
)

// DefaultElementType is used when a declaration does not name one.
const DefaultElementType = Float

// Axis is one entry of a Dimension: a fixed size or a symbolic name resolved
// by the code generator.
type Axis struct {
	Size   int
	Symbol string
}

// Fixed returns an axis of the given size.
func Fixed(size int) Axis { return Axis{Size: size} }

// Symbolic returns an axis named by symbol.
func Symbolic(symbol string) Axis { return Axis{Symbol: symbol} }

// IsSymbolic reports whether the axis has no fixed size.
func (a Axis) IsSymbolic() bool { return a.Symbol != "" }

func (a Axis) String() string {
	if a.IsSymbolic() {
		return a.Symbol
	}
	return strconv.Itoa(a.Size)
}

// Dimension is the ordered shape of a port.
type Dimension []Axis

// Dim builds a Dimension from fixed sizes.
func Dim(sizes ...int) Dimension {
	d := make(Dimension, len(sizes))
	for i, s := range sizes {
		d[i] = Fixed(s)
	}
	return d
}

// Equal reports whether both dimensions have the same axes in the same order.
func (d Dimension) Equal(other Dimension) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with d.
func (d Dimension) Clone() Dimension {
	if d == nil {
		return nil
	}
	out := make(Dimension, len(d))
	copy(out, d)
	return out
}

func (d Dimension) String() string {
	parts := make([]string, len(d))
	for i, a := range d {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
