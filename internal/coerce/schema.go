// SPDX-License-Identifier: Apache-2.0

package coerce

import (
	"fmt"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// SchemaField declares the expected type of one top-level field.
type SchemaField struct {
	Name string
	Type Type
}

// Schema is an ordered list of required fields.
type Schema []SchemaField

// Document checks that every schema field is present in doc and converts it
// to the declared type. Fields not named in the schema are dropped. The
// first failure is returned.
func Document(doc document.Value, schema Schema) (*document.Mapping, error) {
	m, ok := doc.Mapping()
	if !ok {
		return nil, &ValidationError{Path: "root", Message: "input must be a mapping", Value: doc}
	}

	out := document.NewMapping()
	for _, field := range schema {
		raw, ok := m.Get(field.Name)
		if !ok {
			return nil, &ValidationError{
				Path:    field.Name,
				Message: fmt.Sprintf("required field '%s' is missing", field.Name),
				Value:   document.Null(),
			}
		}
		v, err := Value(raw, field.Type, field.Name)
		if err != nil {
			return nil, err
		}
		out.Set(field.Name, v)
	}
	return out, nil
}
