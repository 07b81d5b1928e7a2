// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/gemaraproj/fieldextract/internal/document"
)

// ErrUnsupportedFormat is returned when no decoder accepts a source.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type Loader struct {
	decoders []Decoder
}

// NewLoader creates a Loader that tries decoders in the given order.
func NewLoader(decoders ...Decoder) *Loader {
	return &Loader{decoders: decoders}
}

// LoadResult is the output of a successful load.
type LoadResult struct {
	Document    document.Value
	DecoderUsed string
}

func (l *Loader) Load(ctx context.Context, src Source) (document.Value, error) {
	result, err := l.LoadWithMeta(ctx, src)
	if err != nil {
		return document.Value{}, err
	}
	return result.Document, nil
}

func (l *Loader) LoadWithMeta(ctx context.Context, src Source) (LoadResult, error) {
	dec, err := l.selectDecoder(src)
	if err != nil {
		return LoadResult{}, err
	}

	doc, err := dec.Decode(ctx, src)
	if err != nil {
		return LoadResult{}, fmt.Errorf("decoder %q failed on %q: %w", dec.Name(), src.ID, err)
	}

	return LoadResult{
		Document:    doc,
		DecoderUsed: dec.Name(),
	}, nil
}

// selectDecoder returns the first registered decoder that can handle src.
func (l *Loader) selectDecoder(src Source) (Decoder, error) {
	for _, dec := range l.decoders {
		if dec.CanHandle(src) {
			return dec, nil
		}
	}
	return nil, fmt.Errorf("%w: no decoder found for source %q (format hint: %q)", ErrUnsupportedFormat, src.ID, src.Format)
}

// RegisteredDecoders returns the names of all registered decoders.
func (l *Loader) RegisteredDecoders() []string {
	names := make([]string, len(l.decoders))
	for i, dec := range l.decoders {
		names[i] = dec.Name()
	}
	return names
}
