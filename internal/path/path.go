// SPDX-License-Identifier: Apache-2.0

// Package path parses dot-separated path expressions and resolves them
// against a document.
//
// A path is one or more non-empty segments joined by ".", for example
// "user.location.city". Each segment names a mapping key; there is no
// indexing into sequences and no escaping of dots inside keys.
package path

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// Separator joins the segments of a path.
const Separator = "."

// ErrInvalidFormat is matched by every *FormatError.
var ErrInvalidFormat = errors.New("invalid path format")

// FormatError reports a path string that violates the segment syntax.
type FormatError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid path format %q: %s", e.Path, e.Reason)
}

// Is lets errors.Is match ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Path is a parsed path expression.
type Path struct {
	raw      string
	segments []string
}

// Parse validates raw and splits it into segments.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, &FormatError{Path: raw, Reason: "empty path"}
	}
	if strings.Contains(raw, Separator+Separator) {
		return Path{}, &FormatError{Path: raw, Reason: "consecutive separators"}
	}

	segments := strings.Split(raw, Separator)
	for _, seg := range segments {
		if seg == "" {
			return Path{}, &FormatError{Path: raw, Reason: "empty segment"}
		}
	}
	return Path{raw: raw, segments: segments}, nil
}

// MustParse is Parse for paths known at compile time.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path as written.
func (p Path) String() string { return p.raw }

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Resolve walks p through root. It reports false when a key is missing or
// when an intermediate value is not a mapping.
func (p Path) Resolve(root document.Value) (document.Value, bool) {
	current := root
	for _, seg := range p.segments {
		m, ok := current.Mapping()
		if !ok {
			return document.Value{}, false
		}
		next, ok := m.Get(seg)
		if !ok {
			return document.Value{}, false
		}
		current = next
	}
	return current, true
}

// Lookup parses raw and resolves it against root. Only syntax errors are
// returned as errors; a missing value is reported through the bool.
func Lookup(root document.Value, raw string) (document.Value, bool, error) {
	p, err := Parse(raw)
	if err != nil {
		return document.Value{}, false, err
	}
	v, ok := p.Resolve(root)
	return v, ok, nil
}

// First resolves each path in turn and returns the first present value for
// which keep returns true. A nil keep accepts any present value.
func First(root document.Value, keep func(document.Value) bool, paths ...Path) (document.Value, bool) {
	for _, p := range paths {
		v, ok := p.Resolve(root)
		if !ok {
			continue
		}
		if keep == nil || keep(v) {
			return v, true
		}
	}
	return document.Value{}, false
}
