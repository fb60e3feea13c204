package ir

import "errors"

var (
	// ErrNameCollision is returned when a port or parameter name is already
	// registered on a model.
	ErrNameCollision = errors.New("name collision")

	// ErrStructuralMismatch is returned when a link or registration does not
	// fit the layers it is applied to.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrDirectionMismatch is returned when a port is attached or linked
	// against its declared direction.
	ErrDirectionMismatch = errors.New("direction mismatch")

	// ErrFanInConflict is returned when a consumer port already has a
	// different producer.
	ErrFanInConflict = errors.New("consumer port already has a producer")

	// ErrAlreadyBound is returned when a declaration is attached to a second model.
	ErrAlreadyBound = errors.New("declaration already bound to a model")

	// ErrNotInstantiable is returned when a second layer would instantiate a
	// port that allows a single instance.
	ErrNotInstantiable = errors.New("port is not instantiable")

	// ErrUnknownPort is returned when a port name is not declared on a model.
	ErrUnknownPort = errors.New("unknown port")

	// ErrUnknownParameter is returned when a parameter name is not declared on a model.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrCycle is returned by ancestor walks that run into a cycle.
	ErrCycle = errors.New("cycle detected")
)
