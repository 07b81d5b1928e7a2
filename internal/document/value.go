// SPDX-License-Identifier: Apache-2.0

// Package document models a decoded source document as a tree of tagged
// values. Every node is one of Null, Bool, Number, String, Sequence or
// Mapping; mappings keep the key order of the source.
package document

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the variant tag of a Value.
type Kind uint8

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

const (
	KindNull     Kind = iota // null
	KindBool                 // bool
	KindNumber               // number
	KindString               // string
	KindSequence             // sequence
	KindMapping              // mapping
)

// Value is a single node of a document. The zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	f     float64
	i     int64
	isInt bool
	s     string
	seq   []Value
	m     *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer number.
func Int(i int64) Value { return Value{kind: KindNumber, i: i, f: float64(i), isInt: true} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindNumber, f: f, i: int64(f)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Seq wraps a sequence of values.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

// Map wraps a mapping. A nil mapping is treated as empty.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Float returns the number held by v as a float64.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindNumber }

// Int returns the number held by v as an int64. Non-integral numbers are
// truncated toward zero.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindNumber }

// IsInteger reports whether v is a number that was decoded as an integer.
func (v Value) IsInteger() bool { return v.kind == KindNumber && v.isInt }

// Text returns the string held by v.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

// Items returns the elements of a sequence.
func (v Value) Items() ([]Value, bool) { return v.seq, v.kind == KindSequence }

// Mapping returns the mapping held by v.
func (v Value) Mapping() (*Mapping, bool) { return v.m, v.kind == KindMapping }

// Len returns the number of elements of a sequence, entries of a mapping, or
// characters of a string. Other kinds have length zero.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return utf8.RuneCountInString(v.s)
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return v.m.Len()
	default:
		return 0
	}
}

// Truthy follows the usual scripting notion of truth: null, false, zero,
// and empty strings, sequences and mappings are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.f != 0
	default:
		return v.Len() > 0
	}
}

// Equal reports deep equality. Mappings compare in key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.isInt && o.isInt {
			return v.i == o.i
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.m.Equal(o.m)
	}
	return false
}

// String renders scalars as plain text and containers in a flow style
// similar to YAML.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.isInt {
			sb.WriteString(strconv.FormatInt(v.i, 10))
		} else {
			sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
	case KindString:
		sb.WriteString(v.s)
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.render(sb)
		}
		sb.WriteByte(']')
	case KindMapping:
		sb.WriteByte('{')
		for i, key := range v.m.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			val, _ := v.m.Get(key)
			fmt.Fprintf(sb, "%s: ", key)
			val.render(sb)
		}
		sb.WriteByte('}')
	}
}
