// SPDX-License-Identifier: Apache-2.0

package extract

import "github.com/gemaraproj/fieldextract/internal/document"

// Transform converts a resolved value into the value stored in the result.
// Any error it returns marks the field absent; it is never surfaced.
type Transform interface {
	Apply(v document.Value) (any, error)
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(v document.Value) (any, error)

// Apply calls f(v).
func (f TransformFunc) Apply(v document.Value) (any, error) { return f(v) }

// Field declares one output field: where to read it and how to convert it.
type Field struct {
	Name      string
	Path      string
	Transform Transform
}

// Spec is an ordered field specification. The result keeps the same order.
type Spec []Field

// Rule is the untyped form of a Field, as read from spec files and tool
// input. Value must be a two element sequence of a path string and a
// transform: a Transform, a func(document.Value) (any, error), a
// func(document.Value) any, or the name of a registered transform.
type Rule struct {
	Field string
	Value any
}
