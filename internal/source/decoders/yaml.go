// SPDX-License-Identifier: Apache-2.0

package decoders

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/source"
)

// YAMLDecoder decodes YAML and JSON documents. Mapping key order is kept.
type YAMLDecoder struct{}

func NewYAMLDecoder() *YAMLDecoder {
	return &YAMLDecoder{}
}

func (d *YAMLDecoder) Name() string {
	return "yaml"
}

func (d *YAMLDecoder) CanHandle(src source.Source) bool {
	switch strings.ToLower(src.Format) {
	case "yaml", "yml", "json":
		return true
	case "":
	default:
		return false
	}
	content := strings.TrimSpace(string(src.Content))
	// JSON object or array
	if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
		return true
	}
	// YAML sequence
	if strings.HasPrefix(content, "- ") {
		return true
	}
	// Plain YAML: key: value on the first line
	if len(content) > 0 && strings.Contains(strings.SplitN(content, "\n", 2)[0], ":") {
		// Leave Markdown to the front matter decoder
		if !strings.HasPrefix(content, "#") {
			return true
		}
	}
	return false
}

func (d *YAMLDecoder) Decode(_ context.Context, src source.Source) (document.Value, error) {
	return decodeOrdered(src.Content)
}

// decodeOrdered decodes a single YAML or JSON document into a Value.
func decodeOrdered(content []byte) (document.Value, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(content, &raw, yaml.UseOrderedMap()); err != nil {
		return document.Value{}, fmt.Errorf("failed to unmarshal YAML/JSON: %w", err)
	}
	return document.FromAny(raw)
}
