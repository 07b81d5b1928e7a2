// SPDX-License-Identifier: Apache-2.0

package coerce_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
)

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

func TestDocument_Basic(t *testing.T) {
	doc := document.MustFromAny(map[string]any{
		"user_id": "123",
		"active":  "true",
		"score":   "98.6",
		"tags":    "python,data,engineering",
	})
	schema := coerce.Schema{
		{Name: "user_id", Type: coerce.TypeInt},
		{Name: "active", Type: coerce.TypeBool},
		{Name: "score", Type: coerce.TypeFloat},
		{Name: "tags", Type: coerce.TypeList},
	}

	out, err := coerce.Document(doc, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "active", "score", "tags"}, out.Keys())

	want := document.MustFromAny(map[string]any{
		"user_id": 123,
		"active":  true,
		"score":   98.6,
		"tags":    []any{"python", "data", "engineering"},
	})
	wantMap, _ := want.Mapping()
	for _, k := range out.Keys() {
		got, _ := out.Get(k)
		exp, _ := wantMap.Get(k)
		assert.True(t, exp.Equal(got), "field %s: got %s want %s", k, got, exp)
	}
}

func TestDocument_Errors(t *testing.T) {
	tests := []struct {
		name        string
		doc         document.Value
		schema      coerce.Schema
		wantPath    string
		errContains string
	}{
		{
			name:        "missing field",
			doc:         document.MustFromAny(map[string]any{"user_id": "123"}),
			schema:      coerce.Schema{{Name: "user_id", Type: coerce.TypeInt}, {Name: "active", Type: coerce.TypeBool}},
			wantPath:    "active",
			errContains: "required field 'active' is missing",
		},
		{
			name:        "invalid integer",
			doc:         document.MustFromAny(map[string]any{"user_id": "not_an_integer"}),
			schema:      coerce.Schema{{Name: "user_id", Type: coerce.TypeInt}},
			wantPath:    "user_id",
			errContains: "cannot convert",
		},
		{
			name:        "null value",
			doc:         document.MustFromAny(map[string]any{"user_id": nil}),
			schema:      coerce.Schema{{Name: "user_id", Type: coerce.TypeInt}},
			wantPath:    "user_id",
			errContains: "null",
		},
		{
			name:        "root is not a mapping",
			doc:         document.String("not a dictionary"),
			schema:      coerce.Schema{{Name: "user_id", Type: coerce.TypeInt}},
			wantPath:    "root",
			errContains: "mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coerce.Document(tt.doc, tt.schema)
			require.Error(t, err)
			var ve *coerce.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantPath, ve.Path)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

// ---------------------------------------------------------------------------
// Individual conversions
// ---------------------------------------------------------------------------

func TestToBool(t *testing.T) {
	cases := map[string]bool{
		"true": true, "True": true, "1": true, "yes": true,
		"false": false, "False": false, "0": false, "no": false,
	}
	for in, want := range cases {
		got, err := coerce.ToBool(document.String(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := coerce.ToBool(document.String("maybe"))
	require.Error(t, err)
	_, err = coerce.ToBool(document.Int(1))
	require.Error(t, err)
}

func TestToList(t *testing.T) {
	tests := []struct {
		in   document.Value
		want []string
	}{
		{in: document.String("a,b,c"), want: []string{"a", "b", "c"}},
		{in: document.String("single"), want: []string{"single"}},
		{in: document.String(""), want: []string{}},
		{in: document.String(" a , b "), want: []string{"a", "b"}},
		{in: document.MustFromAny(map[string]any{"x": 1, "y": 2}), want: []string{"x", "y"}},
	}
	for _, tt := range tests {
		items, err := coerce.ToList(tt.in)
		require.NoError(t, err)
		got := make([]string, len(items))
		for i, it := range items {
			got[i] = it.String()
		}
		assert.Equal(t, tt.want, got)
	}

	_, err := coerce.ToList(document.Int(3))
	require.Error(t, err)
}

func TestToInt(t *testing.T) {
	i, err := coerce.ToInt(document.String(" 1234 "))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), i)

	i, err = coerce.ToInt(document.Float(98.6))
	require.NoError(t, err)
	assert.Equal(t, int64(98), i)

	i, err = coerce.ToInt(document.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)

	_, err = coerce.ToInt(document.String("98.6"))
	require.Error(t, err)
	_, err = coerce.ToInt(document.Seq())
	require.Error(t, err)
}

func TestToInt_OutOfRange(t *testing.T) {
	for _, f := range []float64{1e30, -1e30, math.Pow(2, 63), math.NaN(), math.Inf(1)} {
		_, err := coerce.ToInt(document.Float(f))
		require.Error(t, err, "%v", f)
	}

	i, err := coerce.ToInt(document.Float(-math.Pow(2, 63)))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)

	_, err = coerce.Document(
		document.MustFromAny(map[string]any{"big": 1e30}),
		coerce.Schema{{Name: "big", Type: coerce.TypeInt}},
	)
	require.Error(t, err)
	assert.Equal(t, "big: cannot convert '1e+30' to int", err.Error())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     float64
		want   int64
		wantOK bool
	}{
		{in: 98.6, want: 98, wantOK: true},
		{in: -2.9, want: -2, wantOK: true},
		{in: 1e30},
		{in: math.NaN()},
		{in: math.Inf(-1)},
	}
	for _, tt := range tests {
		got, ok := coerce.Truncate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestToFloat(t *testing.T) {
	f, err := coerce.ToFloat(document.String("98.6"))
	require.NoError(t, err)
	assert.InDelta(t, 98.6, f, 1e-9)

	_, err = coerce.ToFloat(document.String("abc"))
	require.Error(t, err)
}

func TestToString(t *testing.T) {
	s, err := coerce.ToString(document.Int(7))
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	_, err = coerce.ToString(document.Seq(document.Int(1)))
	require.Error(t, err)
}

func TestParseType(t *testing.T) {
	for name, want := range map[string]coerce.Type{
		"int": coerce.TypeInt, "Boolean": coerce.TypeBool, "str": coerce.TypeString,
		"float": coerce.TypeFloat, "list": coerce.TypeList,
	} {
		got, err := coerce.ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := coerce.ParseType("complex")
	require.Error(t, err)
	assert.Equal(t, "bool", coerce.TypeBool.String())
}
