// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// FieldResult is the outcome for one output field. Present is false when the
// path found nothing or the transform failed.
type FieldResult struct {
	Name    string
	Value   any
	Present bool
}

// Result is the ordered output of one extraction call.
type Result struct {
	fields []FieldResult
	index  map[string]int
}

func newResult(size int) *Result {
	return &Result{
		fields: make([]FieldResult, 0, size),
		index:  make(map[string]int, size),
	}
}

func (r *Result) add(name string, value any, present bool) {
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, FieldResult{Name: name, Value: value, Present: present})
}

// Len returns the number of declared fields.
func (r *Result) Len() int { return len(r.fields) }

// Names returns the field names in specification order.
func (r *Result) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the per-field outcomes.
func (r *Result) Fields() []FieldResult {
	out := make([]FieldResult, len(r.fields))
	copy(out, r.fields)
	return out
}

// Has reports whether name was declared in the specification.
func (r *Result) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the value of a present field. It reports false for absent and
// undeclared fields alike; use Has to tell them apart.
func (r *Result) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok || !r.fields[i].Present {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Map returns the result as a plain map. Absent fields map to nil and
// document values are converted with Interface.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		out[f.Name] = plain(f.Value)
	}
	return out
}

// Document returns the result as an ordered mapping with absent fields set
// to null.
func (r *Result) Document() (document.Value, error) {
	m := document.NewMapping()
	for _, f := range r.fields {
		v, err := document.FromAny(f.Value)
		if err != nil {
			return document.Value{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		m.Set(f.Name, v)
	}
	return document.Map(m), nil
}

// MarshalJSON writes the fields in specification order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (r *Result) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, yaml.MapItem{Key: f.Name, Value: ordered(f.Value)})
	}
	return out, nil
}

func plain(v any) any {
	if dv, ok := v.(document.Value); ok {
		return dv.Interface()
	}
	return v
}

func ordered(v any) any {
	if dv, ok := v.(document.Value); ok {
		return dv.Ordered()
	}
	return v
}
