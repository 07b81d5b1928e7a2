// SPDX-License-Identifier: Apache-2.0

package decoders

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/source"
)

// FrontMatterDecoder decodes Markdown documents with optional YAML front
// matter. The front matter keys become top-level keys of the result; the
// Markdown itself is exposed as "body" and split on headings into
// "sections", keyed by a slug of the heading text ("preamble" for text
// before the first heading).
type FrontMatterDecoder struct{}

// NewFrontMatterDecoder creates a new FrontMatterDecoder.
func NewFrontMatterDecoder() *FrontMatterDecoder {
	return &FrontMatterDecoder{}
}

func (d *FrontMatterDecoder) Name() string {
	return "frontmatter"
}

// CanHandle returns true for sources that use the "markdown" or "md" format
// hint, whose content opens a front matter block, or that contain a
// Markdown heading.
func (d *FrontMatterDecoder) CanHandle(src source.Source) bool {
	switch strings.ToLower(src.Format) {
	case "markdown", "md":
		return true
	case "":
	default:
		return false
	}
	content := strings.TrimSpace(string(src.Content))
	return strings.HasPrefix(content, "---\n") ||
		strings.HasPrefix(content, "#") ||
		strings.Contains(content, "\n#")
}

func (d *FrontMatterDecoder) Decode(_ context.Context, src source.Source) (document.Value, error) {
	front, body, err := splitFrontMatter(string(src.Content))
	if err != nil {
		return document.Value{}, err
	}

	out := document.NewMapping()
	if front != "" {
		fm, err := decodeOrdered([]byte(front))
		if err != nil {
			return document.Value{}, fmt.Errorf("front matter: %w", err)
		}
		if !fm.IsNull() {
			m, ok := fm.Mapping()
			if !ok {
				return document.Value{}, fmt.Errorf("front matter must be a mapping, got %s", fm.Kind())
			}
			for _, k := range m.Keys() {
				v, _ := m.Get(k)
				out.Set(k, v)
			}
		}
	}

	out.Set("body", document.String(strings.TrimSpace(body)))
	out.Set("sections", document.Map(sections(body)))
	return document.Map(out), nil
}

// splitFrontMatter separates a leading "---" delimited block from the rest.
func splitFrontMatter(content string) (string, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", normalized, nil
	}

	rest := normalized[len("---\n"):]
	if strings.HasPrefix(rest, "---\n") || rest == "---" {
		return "", strings.TrimPrefix(rest, "---"), nil
	}
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return "", "", fmt.Errorf("front matter is not terminated")
	}

	front := rest[:end]
	body := rest[end+len("\n---"):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return front, body, nil
}

func sections(body string) *document.Mapping {
	out := document.NewMapping()

	var currentHeading string
	var currentLines []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if text == "" {
			return
		}
		key := slug(currentHeading)
		if key == "" {
			key = "preamble"
		}
		if prev, ok := out.Get(key); ok {
			p, _ := prev.Text()
			text = p + "\n\n" + text
		}
		out.Set(key, document.String(text))
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "#") {
			flush()
			currentHeading = strings.TrimSpace(strings.TrimLeft(line, "#"))
			currentLines = nil
		} else {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return out
}

// slug lower-cases a heading and replaces every run of characters other
// than letters and digits with a single underscore, so that the result is
// a valid path segment.
func slug(heading string) string {
	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(heading) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return sb.String()
}
