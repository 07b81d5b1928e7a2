// SPDX-License-Identifier: Apache-2.0

// Package coerce converts document values to primitive types and checks a
// document against a flat field-to-type schema.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// Type is a target type for coercion.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeList
)

var typeNames = map[Type]string{
	TypeString: "str",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeList:   "list",
}

var typeAliases = map[string]Type{
	"str":     TypeString,
	"string":  TypeString,
	"int":     TypeInt,
	"integer": TypeInt,
	"float":   TypeFloat,
	"number":  TypeFloat,
	"bool":    TypeBool,
	"boolean": TypeBool,
	"list":    TypeList,
}

// String returns the canonical name of t.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType maps a type name such as "int" or "boolean" to a Type.
func ParseType(name string) (Type, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported type %q", name)
	}
	return t, nil
}

// ValidationError carries the field path, a message and the offending value.
type ValidationError struct {
	Path    string
	Message string
	Value   document.Value
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// Value converts v to t. fieldPath is used only for error reporting.
func Value(v document.Value, t Type, fieldPath string) (document.Value, error) {
	if v.IsNull() {
		return document.Value{}, &ValidationError{Path: fieldPath, Message: "value cannot be null", Value: v}
	}

	switch t {
	case TypeString:
		s, err := ToString(v)
		if err != nil {
			return document.Value{}, wrap(fieldPath, v, err)
		}
		return document.String(s), nil
	case TypeInt:
		i, err := ToInt(v)
		if err != nil {
			return document.Value{}, wrap(fieldPath, v, err)
		}
		return document.Int(i), nil
	case TypeFloat:
		f, err := ToFloat(v)
		if err != nil {
			return document.Value{}, wrap(fieldPath, v, err)
		}
		return document.Float(f), nil
	case TypeBool:
		b, err := ToBool(v)
		if err != nil {
			return document.Value{}, wrap(fieldPath, v, err)
		}
		return document.Bool(b), nil
	case TypeList:
		items, err := ToList(v)
		if err != nil {
			return document.Value{}, wrap(fieldPath, v, err)
		}
		return document.Seq(items...), nil
	default:
		return document.Value{}, &ValidationError{
			Path:    fieldPath,
			Message: fmt.Sprintf("unsupported type conversion to %s", t),
			Value:   v,
		}
	}
}

func wrap(fieldPath string, v document.Value, err error) error {
	return &ValidationError{Path: fieldPath, Message: err.Error(), Value: v}
}

func cannotConvert(v document.Value, t Type) error {
	return fmt.Errorf("cannot convert '%s' to %s", v, t)
}

// ToString renders scalars as text. Containers are rejected.
func ToString(v document.Value) (string, error) {
	switch v.Kind() {
	case document.KindString:
		s, _ := v.Text()
		return s, nil
	case document.KindBool, document.KindNumber:
		return v.String(), nil
	default:
		return "", cannotConvert(v, TypeString)
	}
}

// ToInt accepts numbers (truncated toward zero), booleans, and strings
// holding a base-10 integer.
func ToInt(v document.Value) (int64, error) {
	switch v.Kind() {
	case document.KindNumber:
		if v.IsInteger() {
			i, _ := v.Int()
			return i, nil
		}
		f, _ := v.Float()
		i, ok := Truncate(f)
		if !ok {
			return 0, cannotConvert(v, TypeInt)
		}
		return i, nil
	case document.KindBool:
		if b, _ := v.AsBool(); b {
			return 1, nil
		}
		return 0, nil
	case document.KindString:
		s, _ := v.Text()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, cannotConvert(v, TypeInt)
		}
		return i, nil
	default:
		return 0, cannotConvert(v, TypeInt)
	}
}

// Truncate converts f to an int64, rounding toward zero. It reports false
// for NaN, infinities and values outside the int64 range.
func Truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ToFloat accepts numbers, booleans, and strings holding a decimal number.
func ToFloat(v document.Value) (float64, error) {
	switch v.Kind() {
	case document.KindNumber:
		f, _ := v.Float()
		return f, nil
	case document.KindBool:
		if b, _ := v.AsBool(); b {
			return 1, nil
		}
		return 0, nil
	case document.KindString:
		s, _ := v.Text()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, cannotConvert(v, TypeFloat)
		}
		return f, nil
	default:
		return 0, cannotConvert(v, TypeFloat)
	}
}

// ToBool accepts booleans and the strings true/1/yes and false/0/no in any
// case.
func ToBool(v document.Value) (bool, error) {
	if b, ok := v.AsBool(); ok {
		return b, nil
	}
	if s, ok := v.Text(); ok {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	}
	return false, cannotConvert(v, TypeBool)
}

// ToList passes sequences through, splits strings on commas, and returns
// the keys of a mapping. An empty string is an empty list.
func ToList(v document.Value) ([]document.Value, error) {
	switch v.Kind() {
	case document.KindSequence:
		items, _ := v.Items()
		return items, nil
	case document.KindString:
		s, _ := v.Text()
		if s == "" {
			return []document.Value{}, nil
		}
		parts := strings.Split(s, ",")
		items := make([]document.Value, len(parts))
		for i, p := range parts {
			items[i] = document.String(strings.TrimSpace(p))
		}
		return items, nil
	case document.KindMapping:
		m, _ := v.Mapping()
		keys := m.Keys()
		items := make([]document.Value, len(keys))
		for i, k := range keys {
			items[i] = document.String(k)
		}
		return items, nil
	default:
		return nil, cannotConvert(v, TypeList)
	}
}
