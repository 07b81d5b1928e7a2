// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/source"
	"github.com/gemaraproj/fieldextract/internal/source/decoders"
)

// documentProperties are the input properties shared by every tool that
// reads a document.
func documentProperties() map[string]interface{} {
	return map[string]interface{}{
		"content": map[string]interface{}{
			"type":        "string",
			"description": "Raw content of the document",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"description": "Format hint for the document. One of: yaml, json, markdown, kubernetes. If omitted, auto-detection is used.",
			"enum":        []string{"yaml", "yml", "json", "markdown", "md", "kubernetes", "k8s", "manifest"},
		},
		"source_id": map[string]interface{}{
			"type":        "string",
			"description": "Optional identifier for the document (file path, URL, etc.) used in error messages.",
		},
	}
}

// loadDocument decodes content with the default decoders.
func loadDocument(ctx context.Context, content, format, sourceID string) (source.LoadResult, error) {
	if content == "" {
		return source.LoadResult{}, fmt.Errorf("content is required")
	}
	if sourceID == "" {
		sourceID = "unknown"
	}
	return decoders.Default().LoadWithMeta(ctx, source.Source{
		Content: []byte(content),
		Format:  format,
		ID:      sourceID,
	})
}

// withProperties merges extra properties into the document properties.
func withProperties(extra map[string]interface{}) map[string]interface{} {
	props := documentProperties()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// records turns a decoded document into a list of records: a sequence is
// used as is, anything else is a single record.
func records(doc document.Value) []document.Value {
	if items, ok := doc.Items(); ok {
		return items
	}
	return []document.Value{doc}
}
