// SPDX-License-Identifier: Apache-2.0

package decoders

import (
	"context"
	"fmt"
	"strings"

	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/path"
	"github.com/gemaraproj/fieldextract/internal/source"
)

var (
	kindPath = path.MustParse("kind")
	namePath = path.MustParse("metadata.name")
)

// ManifestDecoder decodes multi-document Kubernetes manifests. The result is
// a mapping with one entry per document, keyed "<kind>/<metadata.name>", so
// that a path like "Deployment/web.spec.replicas" reaches into a specific
// resource. Documents without a kind are keyed "document-<index>". Dots in
// kinds and names become underscores so that every key is a single path
// segment.
type ManifestDecoder struct{}

// NewManifestDecoder creates a new ManifestDecoder.
func NewManifestDecoder() *ManifestDecoder {
	return &ManifestDecoder{}
}

func (d *ManifestDecoder) Name() string {
	return "manifest"
}

// CanHandle returns true for sources with a "kubernetes", "k8s" or
// "manifest" format hint, or whose content contains the characteristic
// apiVersion/kind fields.
func (d *ManifestDecoder) CanHandle(src source.Source) bool {
	switch strings.ToLower(src.Format) {
	case "kubernetes", "k8s", "manifest":
		return true
	case "":
	default:
		return false
	}
	content := string(src.Content)
	return strings.Contains(content, "apiVersion:") && strings.Contains(content, "kind:")
}

// Decode splits the content on '---' separators and decodes each document.
func (d *ManifestDecoder) Decode(_ context.Context, src source.Source) (document.Value, error) {
	out := document.NewMapping()

	for i, raw := range splitDocuments(string(src.Content)) {
		doc, err := decodeOrdered([]byte(raw))
		if err != nil {
			return document.Value{}, fmt.Errorf("document %d: %w", i, err)
		}
		if doc.IsNull() {
			continue
		}

		key := manifestKey(doc, i)
		if out.Has(key) {
			key = fmt.Sprintf("%s-%d", key, i)
		}
		out.Set(key, doc)
	}
	return document.Map(out), nil
}

func splitDocuments(content string) []string {
	content = strings.TrimPrefix(strings.TrimSpace(content), "---")
	parts := strings.Split(content, "\n---")

	docs := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		docs = append(docs, p)
	}
	return docs
}

func manifestKey(doc document.Value, index int) string {
	kind, ok := kindPath.Resolve(doc)
	k, isText := kind.Text()
	if !ok || !isText || k == "" {
		return fmt.Sprintf("document-%d", index)
	}
	if name, ok := namePath.Resolve(doc); ok {
		if n, isText := name.Text(); isText && n != "" {
			return segment(k) + "/" + segment(n)
		}
	}
	return segment(k)
}

func segment(s string) string {
	return strings.ReplaceAll(s, path.Separator, "_")
}
