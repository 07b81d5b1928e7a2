// SPDX-License-Identifier: Apache-2.0

// Package specfile reads extraction rules and coercion schemas from YAML or
// JSON files.
//
// A rules file is a mapping from output field to a [path, transform] pair:
//
//	user_name: [user.name, identity]
//	total:     [orders, sum]
//
// A schema file maps each required field to a type name:
//
//	age: int
//	tags: list
package specfile

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/extract"
)

// LoadRules decodes a rules file, keeping the declared field order. Entry
// values are passed through undecided; extract.Compile reports malformed
// entries.
func LoadRules(data []byte) ([]extract.Rule, error) {
	m, err := decodeMapping(data, "rules")
	if err != nil {
		return nil, err
	}

	rules := make([]extract.Rule, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		rules = append(rules, extract.Rule{Field: k, Value: v})
	}
	return rules, nil
}

// LoadSchema decodes a schema file, keeping the declared field order.
func LoadSchema(data []byte) (coerce.Schema, error) {
	m, err := decodeMapping(data, "schema")
	if err != nil {
		return nil, err
	}

	schema := make(coerce.Schema, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		name, ok := v.Text()
		if !ok {
			return nil, fmt.Errorf("schema field %q: type must be a string, got %s", k, v.Kind())
		}
		t, err := coerce.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("schema field %q: %w", k, err)
		}
		schema = append(schema, coerce.SchemaField{Name: k, Type: t})
	}
	return schema, nil
}

func decodeMapping(data []byte, what string) (*document.Mapping, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse %s file: %w", what, err)
	}
	if raw == nil {
		return document.NewMapping(), nil
	}

	v, err := document.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s file: %w", what, err)
	}
	m, ok := v.Mapping()
	if !ok {
		return nil, fmt.Errorf("%s file must contain a mapping, got %s", what, v.Kind())
	}
	return m, nil
}
