// SPDX-License-Identifier: Apache-2.0

package specfile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/extract"
	"github.com/gemaraproj/fieldextract/internal/specfile"
)

// ---------------------------------------------------------------------------
// LoadRules
// ---------------------------------------------------------------------------

func TestLoadRules(t *testing.T) {
	data := []byte("user_name: [user.name, identity]\ntotal: [orders, sum]\nage:\n  - user.age\n  - int\n")

	rules, err := specfile.LoadRules(data)
	require.NoError(t, err)

	var names []string
	for _, r := range rules {
		names = append(names, r.Field)
	}
	assert.Equal(t, []string{"user_name", "total", "age"}, names)

	spec, err := extract.Compile(rules, nil)
	require.NoError(t, err)
	require.Len(t, spec, 3)
	assert.Equal(t, "orders", spec[1].Path)
}

func TestLoadRules_JSON(t *testing.T) {
	rules, err := specfile.LoadRules([]byte(`{"b": ["x.y", "upper"], "a": ["z", "len"]}`))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "b", rules[0].Field)
	assert.Equal(t, "a", rules[1].Field)
}

func TestLoadRules_MalformedEntryIsReportedByCompile(t *testing.T) {
	rules, err := specfile.LoadRules([]byte("bad: [only.one]\n"))
	require.NoError(t, err)

	_, err = extract.Compile(rules, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrMalformedSpecification))
}

func TestLoadRules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "sequence at top level", data: "- a\n- b\n", wantErr: "rules file must contain a mapping"},
		{name: "scalar at top level", data: "just text", wantErr: "rules file must contain a mapping"},
		{name: "invalid yaml", data: "a: [unclosed", wantErr: "failed to parse rules file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := specfile.LoadRules([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRules_Empty(t *testing.T) {
	rules, err := specfile.LoadRules(nil)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

// ---------------------------------------------------------------------------
// LoadSchema
// ---------------------------------------------------------------------------

func TestLoadSchema(t *testing.T) {
	schema, err := specfile.LoadSchema([]byte("name: str\nage: int\nactive: boolean\ntags: list\nscore: float\n"))
	require.NoError(t, err)

	assert.Equal(t, coerce.Schema{
		{Name: "name", Type: coerce.TypeString},
		{Name: "age", Type: coerce.TypeInt},
		{Name: "active", Type: coerce.TypeBool},
		{Name: "tags", Type: coerce.TypeList},
		{Name: "score", Type: coerce.TypeFloat},
	}, schema)

	doc := document.Map(document.NewMapping().
		Set("name", document.String("John")).
		Set("age", document.String("42")).
		Set("active", document.String("yes")).
		Set("tags", document.String("a, b")).
		Set("score", document.Int(3)))
	out, err := coerce.Document(doc, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "active", "tags", "score"}, out.Keys())
}

func TestLoadSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "unknown type", data: "age: integer128\n", wantErr: `schema field "age": unsupported type`},
		{name: "non-string type", data: "age: 3\n", wantErr: `schema field "age": type must be a string`},
		{name: "sequence at top level", data: "- age\n", wantErr: "schema file must contain a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := specfile.LoadSchema([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
