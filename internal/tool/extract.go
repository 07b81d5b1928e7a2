// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gemaraproj/fieldextract/internal/constraint"
	"github.com/gemaraproj/fieldextract/internal/extract"
	"github.com/gemaraproj/fieldextract/internal/telemetry"
)

// MetadataExtractFields describes the extract_fields tool.
var MetadataExtractFields = &mcp.Tool{
	Name: "extract_fields",
	Description: "Extract named fields from a YAML, JSON, Markdown or Kubernetes document. " +
		"Each field is read from a dot-separated path (for example user.address.city) and " +
		"converted by a named transform. Fields whose path does not resolve, or whose transform " +
		"fails, are reported as absent; a malformed field list or path fails the whole call. " +
		"Transforms: " + transformList() + ". " +
		"An optional CUE constraint can be given to check the extracted fields.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content", "fields"},
		"properties": withProperties(map[string]interface{}{
			"fields": map[string]interface{}{
				"type":        "array",
				"description": "Ordered list of fields to extract.",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"field", "rule"},
					"properties": map[string]interface{}{
						"field": map[string]interface{}{
							"type":        "string",
							"description": "Name of the output field",
						},
						"rule": map[string]interface{}{
							"type":        "array",
							"description": "A [path, transform] pair, for example [\"user.age\", \"int\"].",
						},
					},
				},
			},
			"constraint": map[string]interface{}{
				"type":        "string",
				"description": "Optional CUE source with a definition the extracted fields must satisfy. Absent fields are checked as null.",
			},
			"definition": map[string]interface{}{
				"type":        "string",
				"description": "Name of the CUE definition to check against. Defaults to #Result.",
			},
		}),
	},
}

// FieldRule is one entry of the extract_fields field list.
type FieldRule struct {
	Field string        `json:"field"`
	Rule  []interface{} `json:"rule"`
}

// InputExtractFields is the input for the ExtractFields tool.
type InputExtractFields struct {
	Content    string      `json:"content"`
	Format     string      `json:"format"`
	SourceID   string      `json:"source_id"`
	Fields     []FieldRule `json:"fields"`
	Constraint string      `json:"constraint,omitempty"`
	Definition string      `json:"definition,omitempty"`
}

// ExtractedField is a single field of the extraction result.
type ExtractedField struct {
	Name string `json:"name"`
	// Value is null when the field is absent.
	Value   interface{} `json:"value"`
	Present bool        `json:"present"`
}

// OutputExtractFields is the output for the ExtractFields tool.
type OutputExtractFields struct {
	// Fields are listed in the order they were requested.
	Fields []ExtractedField `json:"fields"`
	// Missing names the fields that are absent from the result.
	Missing []string `json:"missing"`
	// DecoderUsed is the name of the decoder that read the document.
	DecoderUsed string `json:"decoder_used"`
	// Violations lists failed constraints when a constraint was given.
	Violations []constraint.Violation `json:"violations,omitempty"`
}

// ExtractFields decodes the document and extracts the requested fields.
func ExtractFields(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractFields) (_ *mcp.CallToolResult, _ OutputExtractFields, err error) {
	ctx, span := telemetry.StartTool(ctx, MetadataExtractFields.Name,
		attribute.Int("fields.requested", len(input.Fields)))
	defer func() { telemetry.End(span, err) }()

	if len(input.Fields) == 0 {
		return nil, OutputExtractFields{}, fmt.Errorf("fields is required")
	}

	rules := make([]extract.Rule, len(input.Fields))
	for i, f := range input.Fields {
		rules[i] = extract.Rule{Field: f.Field, Value: f.Rule}
	}
	spec, err := extract.Compile(rules, nil)
	if err != nil {
		return nil, OutputExtractFields{}, err
	}

	var checker *constraint.Checker
	if input.Constraint != "" {
		checker, err = constraint.Compile(input.Constraint, input.Definition)
		if err != nil {
			return nil, OutputExtractFields{}, err
		}
	}

	loaded, err := loadDocument(ctx, input.Content, input.Format, input.SourceID)
	if err != nil {
		return nil, OutputExtractFields{}, err
	}

	res, err := extract.Fields(loaded.Document, spec, extract.WithLogger(slog.Default()))
	if err != nil {
		return nil, OutputExtractFields{}, err
	}

	out := OutputExtractFields{
		Fields:      make([]ExtractedField, 0, res.Len()),
		Missing:     []string{},
		DecoderUsed: loaded.DecoderUsed,
	}
	plain := res.Map()
	for _, f := range res.Fields() {
		out.Fields = append(out.Fields, ExtractedField{Name: f.Name, Value: plain[f.Name], Present: f.Present})
		if !f.Present {
			out.Missing = append(out.Missing, f.Name)
		}
	}
	span.SetAttributes(attribute.Int("fields.missing", len(out.Missing)))

	if checker != nil {
		var verr *constraint.ViolationError
		if err := checker.Check(res); err != nil {
			if !errors.As(err, &verr) {
				return nil, OutputExtractFields{}, err
			}
			out.Violations = verr.Violations
		}
	}

	return nil, out, nil
}

func transformList() string {
	reg := extract.DefaultRegistry()
	names := reg.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " (" + reg.Describe(name) + ")"
	}
	return strings.Join(parts, ", ")
}
