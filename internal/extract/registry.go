// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
)

// namedTransform binds a transform name usable in spec files to its
// implementation.
type namedTransform struct {
	name        string
	description string
	fn          TransformFunc
}

// builtinTransforms is the table DefaultRegistry is built from.
var builtinTransforms = []namedTransform{
	{name: "identity", description: "the resolved value unchanged", fn: func(v document.Value) (any, error) { return v, nil }},
	{name: "str", description: "scalar rendered as a string", fn: convertTo(coerce.TypeString)},
	{name: "int", description: "integer; strings must hold a base-10 integer", fn: convertTo(coerce.TypeInt)},
	{name: "float", description: "floating point number", fn: convertTo(coerce.TypeFloat)},
	{name: "bool", description: "boolean; accepts true/false, 1/0, yes/no", fn: convertTo(coerce.TypeBool)},
	{name: "list", description: "sequence; strings are split on commas", fn: convertTo(coerce.TypeList)},
	{name: "lower", description: "lower-cased string", fn: mapString(strings.ToLower)},
	{name: "upper", description: "upper-cased string", fn: mapString(strings.ToUpper)},
	{name: "trim", description: "string without surrounding whitespace", fn: mapString(strings.TrimSpace)},
	{name: "date", description: "date part of an ISO-8601 timestamp", fn: mapString(func(s string) string {
		date, _, _ := strings.Cut(s, "T")
		return date
	})},
	{name: "sum", description: "sum of a sequence of numbers", fn: sum},
	{name: "len", description: "length of a string, sequence or mapping", fn: length},
}

// Registry maps transform names to transforms. It is safe for concurrent
// lookups once populated.
type Registry struct {
	byName       map[string]Transform
	descriptions map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:       make(map[string]Transform),
		descriptions: make(map[string]string),
	}
}

// DefaultRegistry returns a new registry holding the built-in transforms.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, nt := range builtinTransforms {
		r.byName[nt.name] = nt.fn
		r.descriptions[nt.name] = nt.description
	}
	return r
}

// Register adds t under name. Names must be non-empty and unique.
func (r *Registry) Register(name string, t Transform) error {
	if name == "" {
		return errors.New("transform name must not be empty")
	}
	if isNilTransform(t) {
		return fmt.Errorf("transform %q is nil", name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("transform %q already registered", name)
	}
	r.byName[name] = t
	return nil
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Transform, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a built-in transform.
func (r *Registry) Describe(name string) string {
	return r.descriptions[name]
}

func convertTo(t coerce.Type) TransformFunc {
	return func(v document.Value) (any, error) {
		return coerce.Value(v, t, "")
	}
}

func mapString(fn func(string) string) TransformFunc {
	return func(v document.Value) (any, error) {
		s, ok := v.Text()
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", v.Kind())
		}
		return document.String(fn(s)), nil
	}
}

func sum(v document.Value) (any, error) {
	items, ok := v.Items()
	if !ok {
		return nil, fmt.Errorf("expected sequence, got %s", v.Kind())
	}

	var (
		total   float64
		itotal  int64
		integer = true
	)
	for i, item := range items {
		f, ok := item.Float()
		if !ok {
			return nil, fmt.Errorf("element %d: expected number, got %s", i, item.Kind())
		}
		total += f
		if item.IsInteger() {
			n, _ := item.Int()
			itotal += n
		} else {
			integer = false
		}
	}
	if integer {
		return document.Int(itotal), nil
	}
	return document.Float(total), nil
}

func length(v document.Value) (any, error) {
	switch v.Kind() {
	case document.KindString, document.KindSequence, document.KindMapping:
		return document.Int(int64(v.Len())), nil
	default:
		return nil, fmt.Errorf("%s has no length", v.Kind())
	}
}
