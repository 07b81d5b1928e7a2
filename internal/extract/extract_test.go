// SPDX-License-Identifier: Apache-2.0

package extract_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/extract"
	"github.com/gemaraproj/fieldextract/internal/path"
)

// ---------------------------------------------------------------------------
// fixtures
// ---------------------------------------------------------------------------

func sampleData() document.Value {
	return document.MustFromAny(map[string]any{
		"user": map[string]any{
			"name": "John Doe",
			"location": map[string]any{
				"city":   "San Francisco",
				"state":  "CA",
				"postal": "94105",
			},
		},
		"metrics": map[string]any{
			"last_active": "2024-02-04T15:30:00Z",
			"visits":      "1234",
			"engagement": map[string]any{
				"likes":    "50",
				"comments": "10",
			},
		},
	})
}

var identity = extract.TransformFunc(func(v document.Value) (any, error) { return v, nil })

var toInt = extract.TransformFunc(func(v document.Value) (any, error) { return coerce.ToInt(v) })

var toStr = extract.TransformFunc(func(v document.Value) (any, error) { return coerce.ToString(v) })

var failing = extract.TransformFunc(func(document.Value) (any, error) {
	return nil, errors.New("invalid literal for int()")
})

func engagement(v document.Value) (any, error) {
	m, ok := v.Mapping()
	if !ok {
		return nil, fmt.Errorf("expected mapping")
	}
	likes, _ := m.Get("likes")
	comments, _ := m.Get("comments")
	l, err := coerce.ToInt(likes)
	if err != nil {
		return nil, err
	}
	c, err := coerce.ToInt(comments)
	if err != nil {
		return nil, err
	}
	return l + c, nil
}

func activeDate(v document.Value) (any, error) {
	s, ok := v.Text()
	if !ok {
		return nil, fmt.Errorf("expected string")
	}
	date, _, _ := strings.Cut(s, "T")
	return date, nil
}

// ---------------------------------------------------------------------------
// Fields: end-to-end behaviour
// ---------------------------------------------------------------------------

func TestFields_BasicExtraction(t *testing.T) {
	spec := extract.Spec{
		{Name: "name", Path: "user.name", Transform: toStr},
		{Name: "city", Path: "user.location.city", Transform: toStr},
		{Name: "visit_count", Path: "metrics.visits", Transform: toInt},
		{Name: "total_engagement", Path: "metrics.engagement", Transform: extract.TransformFunc(engagement)},
		{Name: "active_date", Path: "metrics.last_active", Transform: extract.TransformFunc(activeDate)},
	}

	res, err := extract.Fields(sampleData(), spec)
	require.NoError(t, err)

	want := map[string]any{
		"name":             "John Doe",
		"city":             "San Francisco",
		"visit_count":      int64(1234),
		"total_engagement": int64(60),
		"active_date":      "2024-02-04",
	}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"name", "city", "visit_count", "total_engagement", "active_date"}, res.Names())
}

func TestFields_IdentityKeepsDocumentValue(t *testing.T) {
	spec := extract.Spec{
		{Name: "name", Path: "user.name", Transform: identity},
		{Name: "city", Path: "user.location.city", Transform: identity},
		{Name: "visit_count", Path: "metrics.visits", Transform: toInt},
	}

	res, err := extract.Fields(sampleData(), spec)
	require.NoError(t, err)

	want := map[string]any{"name": "John Doe", "city": "San Francisco", "visit_count": int64(1234)}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	v, ok := res.Get("name")
	require.True(t, ok)
	assert.Equal(t, document.String("John Doe"), v)
}

func TestFields_MissingPaths(t *testing.T) {
	spec := extract.Spec{
		{Name: "name", Path: "user.name", Transform: identity},
		{Name: "missing", Path: "user.nonexistent", Transform: identity},
		{Name: "through_string", Path: "user.name.first", Transform: identity},
		{Name: "too_deep", Path: "user.location.city.block.unit", Transform: identity},
	}

	res, err := extract.Fields(sampleData(), spec)
	require.NoError(t, err)
	require.Equal(t, 4, res.Len())

	_, ok := res.Get("name")
	assert.True(t, ok)
	for _, name := range []string{"missing", "through_string", "too_deep"} {
		assert.True(t, res.Has(name), name)
		_, ok := res.Get(name)
		assert.False(t, ok, "%s should be absent", name)
	}
	assert.Nil(t, res.Map()["missing"])
}

func TestFields_TransformErrorIsIsolated(t *testing.T) {
	spec := extract.Spec{
		{Name: "bad_transform", Path: "metrics.visits", Transform: failing},
		{Name: "name", Path: "user.name", Transform: toStr},
	}

	res, err := extract.Fields(sampleData(), spec)
	require.NoError(t, err)

	want := map[string]any{"bad_transform": nil, "name": "John Doe"}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_TransformPanicIsIsolated(t *testing.T) {
	spec := extract.Spec{
		{Name: "boom", Path: "user.name", Transform: extract.TransformFunc(func(document.Value) (any, error) {
			var m map[string]int
			m["x"] = 1
			return nil, nil
		})},
		{Name: "city", Path: "user.location.city", Transform: toStr},
	}

	res, err := extract.Fields(sampleData(), spec)
	require.NoError(t, err)
	_, ok := res.Get("boom")
	assert.False(t, ok)
	city, ok := res.Get("city")
	require.True(t, ok)
	assert.Equal(t, "San Francisco", city)
}

func TestFields_TransformNotCalledForAbsentValues(t *testing.T) {
	calls := 0
	counting := extract.TransformFunc(func(v document.Value) (any, error) {
		calls++
		return v, nil
	})
	doc := document.MustFromAny(map[string]any{"a": nil})

	res, err := extract.Fields(doc, extract.Spec{
		{Name: "null", Path: "a", Transform: counting},
		{Name: "missing", Path: "b", Transform: counting},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 2, res.Len())
}

func TestFields_NestedTransformations(t *testing.T) {
	doc := document.MustFromAny(map[string]any{
		"items": map[string]any{
			"values":   []any{1, 2, 3, 4, 5},
			"metadata": map[string]any{"total": "15"},
		},
	})
	reg := extract.DefaultRegistry()
	sum, ok := reg.Lookup("sum")
	require.True(t, ok)

	res, err := extract.Fields(doc, extract.Spec{
		{Name: "sum", Path: "items.values", Transform: sum},
		{Name: "total", Path: "items.metadata.total", Transform: toInt},
	})
	require.NoError(t, err)

	want := map[string]any{"sum": int64(15), "total": int64(15)}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Fields: fatal errors
// ---------------------------------------------------------------------------

func TestFields_InvalidPathFormat(t *testing.T) {
	for _, raw := range []string{"a..b", ".a", "a.", "", "key..double.dot"} {
		t.Run(raw, func(t *testing.T) {
			res, err := extract.Fields(document.MustFromAny(map[string]any{"key": "value"}), extract.Spec{
				{Name: "good", Path: "key", Transform: identity},
				{Name: "bad", Path: raw, Transform: identity},
			})
			require.Error(t, err)
			assert.Nil(t, res, "no partial result on path syntax errors")
			assert.ErrorIs(t, err, path.ErrInvalidFormat)

			var fe *path.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, raw, fe.Path)
		})
	}
}

func TestFields_NilTransformIsMalformed(t *testing.T) {
	res, err := extract.Fields(sampleData(), extract.Spec{
		{Name: "good", Path: "user.name", Transform: identity},
		{Name: "bad", Path: "user.name"},
	})
	require.Error(t, err)
	assert.Nil(t, res)

	var me *extract.MalformedSpecificationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "bad", me.Field)
	assert.Equal(t, extract.ReasonTransform, me.Reason)
}

func TestFields_TypedNilTransformIsMalformed(t *testing.T) {
	var fn extract.TransformFunc
	_, err := extract.Fields(sampleData(), extract.Spec{{Name: "x", Path: "user.name", Transform: fn}})
	require.ErrorIs(t, err, extract.ErrMalformedSpecification)
}

func TestFields_DuplicateAndEmptyNames(t *testing.T) {
	_, err := extract.Fields(sampleData(), extract.Spec{
		{Name: "a", Path: "user.name", Transform: identity},
		{Name: "a", Path: "user.name", Transform: identity},
	})
	var me *extract.MalformedSpecificationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, extract.ReasonDuplicate, me.Reason)

	_, err = extract.Fields(sampleData(), extract.Spec{{Name: "", Path: "user.name", Transform: identity}})
	require.True(t, errors.As(err, &me))
	assert.Equal(t, extract.ReasonName, me.Reason)
}

func TestFields_EmptySpec(t *testing.T) {
	res, err := extract.Fields(sampleData(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

// ---------------------------------------------------------------------------
// Compile / FieldsFromRules
// ---------------------------------------------------------------------------

func TestCompile_InvalidMappingFormat(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		reason extract.Reason
	}{
		{name: "not a tuple", value: "not_a_tuple", reason: extract.ReasonShape},
		{name: "missing transform", value: []any{"path"}, reason: extract.ReasonShape},
		{name: "too many elements", value: []any{"path", "str", "extra"}, reason: extract.ReasonShape},
		{name: "transform not callable", value: []any{"path", 42}, reason: extract.ReasonTransform},
		{name: "unknown transform name", value: []any{"path", "not_callable"}, reason: extract.ReasonTransform},
		{name: "path not a string", value: []any{123, "str"}, reason: extract.ReasonPathType},
		{name: "nil func", value: []any{"path", (func(document.Value) (any, error))(nil)}, reason: extract.ReasonTransform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := []extract.Rule{
				{Field: "good", Value: []any{"key", "identity"}},
				{Field: "bad", Value: tt.value},
			}
			res, err := extract.FieldsFromRules(document.MustFromAny(map[string]any{"key": "value"}), rules, nil)
			require.Error(t, err)
			assert.Nil(t, res, "the good field must not produce output")
			assert.ErrorIs(t, err, extract.ErrMalformedSpecification)

			var me *extract.MalformedSpecificationError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, "bad", me.Field)
			assert.Equal(t, tt.reason, me.Reason)
			assert.Contains(t, err.Error(), `"bad"`)
		})
	}
}

func TestCompile_FirstViolationWins(t *testing.T) {
	_, err := extract.Compile([]extract.Rule{
		{Field: "first", Value: []any{1, "str"}},
		{Field: "second", Value: "nope"},
	}, nil)
	var me *extract.MalformedSpecificationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "first", me.Field)
	assert.Equal(t, extract.ReasonPathType, me.Reason)
}

func TestCompile_AcceptedTransformShapes(t *testing.T) {
	rules := []extract.Rule{
		{Field: "named", Value: []any{"user.name", "upper"}},
		{Field: "func", Value: []any{"user.location.city", func(v document.Value) (any, error) { return v.String(), nil }}},
		{Field: "plain_func", Value: []any{"user.location.state", func(v document.Value) any { return "state:" + v.String() }}},
		{Field: "iface", Value: [2]any{"metrics.visits", toInt}},
		{Field: "strings", Value: []string{"user.location.postal", "int"}},
	}

	res, err := extract.FieldsFromRules(sampleData(), rules, extract.DefaultRegistry())
	require.NoError(t, err)

	want := map[string]any{
		"named":      "JOHN DOE",
		"func":       "San Francisco",
		"plain_func": "state:CA",
		"iface":      int64(1234),
		"strings":    int64(94105),
	}
	if diff := cmp.Diff(want, res.Map()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_DocumentValueRules(t *testing.T) {
	rule := document.Seq(document.String("user.name"), document.String("lower"))
	spec, err := extract.Compile([]extract.Rule{{Field: "name", Value: rule}}, nil)
	require.NoError(t, err)
	require.Len(t, spec, 1)
	assert.Equal(t, "user.name", spec[0].Path)

	_, err = extract.Compile([]extract.Rule{{Field: "n", Value: document.Seq(document.Int(1), document.String("lower"))}}, nil)
	var me *extract.MalformedSpecificationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, extract.ReasonPathType, me.Reason)
}

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

func TestFields_LogsTransformFailuresAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := extract.Fields(sampleData(), extract.Spec{
		{Name: "bad", Path: "metrics.visits", Transform: failing},
	}, extract.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "field=bad")
	assert.Contains(t, buf.String(), "invalid literal")
}

// ---------------------------------------------------------------------------
// Result encoding
// ---------------------------------------------------------------------------

func TestResult_Encoding(t *testing.T) {
	res, err := extract.Fields(sampleData(), extract.Spec{
		{Name: "visit_count", Path: "metrics.visits", Transform: toInt},
		{Name: "missing", Path: "user.nonexistent", Transform: identity},
		{Name: "location", Path: "user.location", Transform: identity},
	})
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"visit_count":1234,"missing":null,"location":{"city":"San Francisco","postal":"94105","state":"CA"}}`, string(b))

	y, err := yaml.Marshal(res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(y), "visit_count: 1234\nmissing: null\nlocation:\n"), string(y))

	doc, err := res.Document()
	require.NoError(t, err)
	m, _ := doc.Mapping()
	assert.Equal(t, []string{"visit_count", "missing", "location"}, m.Keys())
}
