// SPDX-License-Identifier: Apache-2.0

// Package source turns raw document bytes into a document.Value by picking
// the first registered decoder that recognizes the input.
package source

import (
	"context"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// Source describes the raw input to the loader.
type Source struct {
	// Content is the raw document content.
	Content []byte
	// Format is an optional hint such as "yaml", "json" or "kubernetes".
	Format string
	ID     string
}

type Decoder interface {
	CanHandle(src Source) bool
	Decode(ctx context.Context, src Source) (document.Value, error)
	Name() string
}
