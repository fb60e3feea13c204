// Package identity hands out the stable, opaque identities used to key models
// and layers. Graph objects are mutable while a network is being wired, so
// equality is defined on the identity alone and never on contents.
package identity

import (
	"github.com/google/uuid"
)

// ID is the immutable identity of a graph object. The zero value is not a
// valid identity.
type ID struct {
	u uuid.UUID
}

// New returns a fresh, unique identity.
func New() ID {
	return ID{u: uuid.New()}
}

// IsZero reports whether the ID was never assigned.
func (id ID) IsZero() bool {
	return id.u == uuid.Nil
}

// String returns the full canonical form of the identity.
func (id ID) String() string {
	return id.u.String()
}

// Short returns the first eight hex digits, enough to tell objects apart in logs.
func (id ID) Short() string {
	return id.u.String()[:8]
}

// Identity is embedded by every graph object that needs an ID.
type Identity struct {
	id ID
}

// NewIdentity returns an Identity carrying a fresh ID.
func NewIdentity() Identity {
	return Identity{id: New()}
}

// ID returns the identity of the embedding object.
func (i Identity) ID() ID {
	return i.id
}

// Identifiable is implemented by anything that embeds Identity.
type Identifiable interface {
	ID() ID
}

// Same reports whether a and b are the same object. Two nil values are the same.
func Same(a, b Identifiable) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
