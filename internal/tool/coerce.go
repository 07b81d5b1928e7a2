// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/telemetry"
)

// MetadataCoerceDocument describes the coerce_document tool.
var MetadataCoerceDocument = &mcp.Tool{
	Name: "coerce_document",
	Description: "Check that a document has every field of a schema and convert each field to its declared type. " +
		"Types: str, int, float, bool, list. Strings are parsed (\"42\" -> 42, \"yes\" -> true, \"a, b\" -> [a, b]). " +
		"Fields not named in the schema are dropped. The first failure is reported with its field path.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content", "schema"},
		"properties": withProperties(map[string]interface{}{
			"schema": map[string]interface{}{
				"type":        "array",
				"description": "Ordered list of required fields and their types.",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"name", "type"},
					"properties": map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Top-level field name",
						},
						"type": map[string]interface{}{
							"type":        "string",
							"description": "Target type",
							"enum":        []string{"str", "string", "int", "integer", "float", "number", "bool", "boolean", "list"},
						},
					},
				},
			},
		}),
	},
}

// SchemaEntry is one entry of the coerce_document schema.
type SchemaEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// InputCoerceDocument is the input for the CoerceDocument tool.
type InputCoerceDocument struct {
	Content  string        `json:"content"`
	Format   string        `json:"format"`
	SourceID string        `json:"source_id"`
	Schema   []SchemaEntry `json:"schema"`
}

// CoercedField is a single converted field.
type CoercedField struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Issue describes the first field that failed validation.
type Issue struct {
	Path    string      `json:"path"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// OutputCoerceDocument is the output for the CoerceDocument tool.
type OutputCoerceDocument struct {
	Valid bool `json:"valid"`
	// Fields are the converted fields in schema order. Empty when invalid.
	Fields      []CoercedField `json:"fields"`
	Issue       *Issue         `json:"issue,omitempty"`
	DecoderUsed string         `json:"decoder_used"`
}

// CoerceDocument validates the document against the schema and converts
// its fields.
func CoerceDocument(ctx context.Context, _ *mcp.CallToolRequest, input InputCoerceDocument) (_ *mcp.CallToolResult, _ OutputCoerceDocument, err error) {
	ctx, span := telemetry.StartTool(ctx, MetadataCoerceDocument.Name)
	defer func() { telemetry.End(span, err) }()

	if len(input.Schema) == 0 {
		return nil, OutputCoerceDocument{}, fmt.Errorf("schema is required")
	}
	schema := make(coerce.Schema, len(input.Schema))
	for i, e := range input.Schema {
		t, err := coerce.ParseType(e.Type)
		if err != nil {
			return nil, OutputCoerceDocument{}, fmt.Errorf("schema field %q: %w", e.Name, err)
		}
		schema[i] = coerce.SchemaField{Name: e.Name, Type: t}
	}

	loaded, err := loadDocument(ctx, input.Content, input.Format, input.SourceID)
	if err != nil {
		return nil, OutputCoerceDocument{}, err
	}

	out := OutputCoerceDocument{Fields: []CoercedField{}, DecoderUsed: loaded.DecoderUsed}
	m, err := coerce.Document(loaded.Document, schema)
	if err != nil {
		var verr *coerce.ValidationError
		if !errors.As(err, &verr) {
			return nil, OutputCoerceDocument{}, err
		}
		out.Issue = &Issue{Path: verr.Path, Message: verr.Message, Value: verr.Value.Interface()}
		return nil, out, nil
	}

	out.Valid = true
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out.Fields = append(out.Fields, CoercedField{Name: k, Value: v.Interface()})
	}
	return nil, out, nil
}
