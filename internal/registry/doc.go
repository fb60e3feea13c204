// Package registry indexes template documents by template name.
//
// A Registry is loaded once from a directory tree at startup. Every document it
// finds is decoded and validated up front, so a malformed template fails the
// load rather than the first network that uses it. Models are then created on
// demand: each call to NewModel returns a model with its own declarations,
// since two declarative models built from the same template must not share
// parameter slots.
package registry
