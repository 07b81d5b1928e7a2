// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-yaml"
)

// FromAny converts decoder output into a Value. It accepts the shapes
// produced by goccy/go-yaml and encoding/json, including yaml.MapSlice for
// ordered mappings. Plain Go maps have no order, so their keys are sorted.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Mapping:
		return Map(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Seq(items...), nil
	case []Value:
		return Seq(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return Seq(items...), nil
	case yaml.MapSlice:
		m := NewMapping()
		for _, item := range t {
			v, err := FromAny(item.Value)
			if err != nil {
				return Value{}, fmt.Errorf("key %v: %w", item.Key, err)
			}
			m.Set(keyString(item.Key), v)
		}
		return Map(m), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %s: %w", k, err)
			}
			m.Set(k, v)
		}
		return Map(m), nil
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, v := range t {
			conv[keyString(k)] = v
		}
		return FromAny(conv)
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", x)
	}
}

// MustFromAny is FromAny for literals in tests and examples.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// Interface converts v into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Key order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.isInt {
			return v.i
		}
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, v.m.Len())
		for _, k := range v.m.keys {
			out[k] = v.m.vals[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// Ordered is like Interface but keeps mapping order by returning
// yaml.MapSlice for mappings.
func (v Value) Ordered() any {
	switch v.kind {
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Ordered()
		}
		return out
	case KindMapping:
		out := make(yaml.MapSlice, 0, v.m.Len())
		for _, k := range v.m.keys {
			out = append(out, yaml.MapItem{Key: k, Value: v.m.vals[k].Ordered()})
		}
		return out
	default:
		return v.Interface()
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Ordered(), nil
}

// MarshalJSON writes mappings with their keys in document order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := v.m.vals[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindNumber:
		if !v.isInt && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
			return nil, fmt.Errorf("number %v has no JSON representation", v.f)
		}
		return json.Marshal(v.Interface())
	default:
		return json.Marshal(v.Interface())
	}
}

// UnmarshalJSON decodes JSON while keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return err
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
