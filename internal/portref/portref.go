package portref

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Input is the reserved layer name of the global input layer.
const Input = "input"

// ErrInvalidRef is returned for references that do not have the form
// "layer.port" with valid names on both sides.
var ErrInvalidRef = errors.New("invalid port reference")

// nameRegex matches a layer or port name.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_'-]+$`)

// Ref is a reference to a port on a layer.
type Ref struct {
	Layer string
	Port  string
}

// New creates a reference without validating it.
func New(layer, port string) Ref {
	return Ref{Layer: layer, Port: port}
}

// FromInput creates a reference to a port of the global input layer.
func FromInput(port string) Ref {
	return Ref{Layer: Input, Port: port}
}

// IsInput reports whether the reference points at the global input layer.
func (r Ref) IsInput() bool { return r.Layer == Input }

// String serializes the reference into its canonical "layer.port" form.
func (r Ref) String() string {
	return r.Layer + "." + r.Port
}

// ValidName reports whether name can be used as a layer or port name.
func ValidName(name string) bool {
	if name == "-" || name == "'" {
		return false
	}
	return nameRegex.MatchString(name)
}

// Parse creates a Ref by parsing its canonical string representation.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: reference cannot be empty", ErrInvalidRef)
	}
	layer, port, ok := strings.Cut(raw, ".")
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q has no port, want layer.port", ErrInvalidRef, raw)
	}
	if strings.Contains(port, ".") {
		return Ref{}, fmt.Errorf("%w: %q has more than two segments", ErrInvalidRef, raw)
	}
	if !ValidName(layer) {
		return Ref{}, fmt.Errorf("%w: invalid layer name %q in %q", ErrInvalidRef, layer, raw)
	}
	if !ValidName(port) {
		return Ref{}, fmt.Errorf("%w: invalid port name %q in %q", ErrInvalidRef, port, raw)
	}
	return Ref{Layer: layer, Port: port}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Ref {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}
