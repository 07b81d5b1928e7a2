// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"fmt"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// Validate checks a typed Spec before extraction. Entries are checked in
// order and the first violation is returned.
func Validate(spec Spec) error {
	seen := make(map[string]struct{}, len(spec))
	for _, f := range spec {
		if err := checkName(f.Name, seen); err != nil {
			return err
		}
		if isNilTransform(f.Transform) {
			return malformed(f.Name, ReasonTransform, "transform is nil")
		}
	}
	return nil
}

// Compile validates untyped rules and turns them into a Spec. Transform
// names are looked up in reg; a nil reg means DefaultRegistry.
func Compile(rules []Rule, reg *Registry) (Spec, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}

	spec := make(Spec, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if err := checkName(r.Field, seen); err != nil {
			return nil, err
		}

		rawPath, rawTransform, ok := pair(r.Value)
		if !ok {
			return nil, malformed(r.Field, ReasonShape, describeShape(r.Value))
		}

		p, ok := rawPath.(string)
		if !ok {
			return nil, malformed(r.Field, ReasonPathType, fmt.Sprintf("got %T", rawPath))
		}

		t, err := resolveTransform(r.Field, rawTransform, reg)
		if err != nil {
			return nil, err
		}

		spec = append(spec, Field{Name: r.Field, Path: p, Transform: t})
	}
	return spec, nil
}

func checkName(name string, seen map[string]struct{}) error {
	if name == "" {
		return malformed(name, ReasonName, "")
	}
	if _, dup := seen[name]; dup {
		return malformed(name, ReasonDuplicate, "")
	}
	seen[name] = struct{}{}
	return nil
}

// pair unpacks exactly two elements from the supported sequence shapes.
func pair(v any) (any, any, bool) {
	switch t := v.(type) {
	case []any:
		if len(t) == 2 {
			return t[0], t[1], true
		}
	case [2]any:
		return t[0], t[1], true
	case []string:
		if len(t) == 2 {
			return t[0], t[1], true
		}
	case document.Value:
		items, ok := t.Items()
		if ok && len(items) == 2 {
			return plainOrValue(items[0]), plainOrValue(items[1]), true
		}
	}
	return nil, nil, false
}

// plainOrValue unwraps string elements so that a decoded document rule
// behaves like its plain Go counterpart.
func plainOrValue(v document.Value) any {
	if s, ok := v.Text(); ok {
		return s
	}
	return v
}

func describeShape(v any) string {
	switch t := v.(type) {
	case []any:
		return fmt.Sprintf("got %d elements", len(t))
	case []string:
		return fmt.Sprintf("got %d elements", len(t))
	case document.Value:
		if items, ok := t.Items(); ok {
			return fmt.Sprintf("got %d elements", len(items))
		}
		return "got " + t.Kind().String()
	default:
		return fmt.Sprintf("got %T", v)
	}
}

func resolveTransform(field string, raw any, reg *Registry) (Transform, error) {
	switch t := raw.(type) {
	case string:
		named, ok := reg.Lookup(t)
		if !ok {
			return nil, malformed(field, ReasonTransform, fmt.Sprintf("unknown transform %q", t))
		}
		return named, nil
	case func(document.Value) (any, error):
		if t == nil {
			return nil, malformed(field, ReasonTransform, "transform is nil")
		}
		return TransformFunc(t), nil
	case func(document.Value) any:
		if t == nil {
			return nil, malformed(field, ReasonTransform, "transform is nil")
		}
		return TransformFunc(func(v document.Value) (any, error) { return t(v), nil }), nil
	case Transform:
		if isNilTransform(t) {
			return nil, malformed(field, ReasonTransform, "transform is nil")
		}
		return t, nil
	default:
		return nil, malformed(field, ReasonTransform, fmt.Sprintf("got %T", raw))
	}
}

func isNilTransform(t Transform) bool {
	if t == nil {
		return true
	}
	if f, ok := t.(TransformFunc); ok && f == nil {
		return true
	}
	return false
}
