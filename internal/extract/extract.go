// SPDX-License-Identifier: Apache-2.0

// Package extract pulls fields out of a nested document according to a
// field specification of (path, transform) pairs.
//
// Failures come in two tiers. A malformed specification or a path with bad
// syntax aborts the whole call and no result is returned. A path that finds
// nothing, or a transform that fails, only affects its own field, which is
// marked absent while the others are extracted normally.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/path"
)

type options struct {
	logger *slog.Logger
}

// Option configures a single extraction call.
type Option func(*options)

// WithLogger sets the logger that receives per-field transform failures at
// debug level. By default they are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fields extracts every field of spec from doc, in spec order.
func Fields(doc document.Value, spec Spec, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	if err := Validate(spec); err != nil {
		return nil, err
	}

	res := newResult(len(spec))
	for _, f := range spec {
		p, err := path.Parse(f.Path)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		v, ok := p.Resolve(doc)
		if !ok || v.IsNull() {
			res.add(f.Name, nil, false)
			continue
		}

		out, err := apply(f.Transform, v)
		if err != nil {
			o.logger.Debug("transform failed; field left absent",
				slog.String("field", f.Name),
				slog.String("path", f.Path),
				slog.Any("error", err))
			res.add(f.Name, nil, false)
			continue
		}
		res.add(f.Name, out, true)
	}
	return res, nil
}

// FieldsFromRules compiles rules against reg and runs Fields.
func FieldsFromRules(doc document.Value, rules []Rule, reg *Registry, opts ...Option) (*Result, error) {
	spec, err := Compile(rules, reg)
	if err != nil {
		return nil, err
	}
	return Fields(doc, spec, opts...)
}

// apply is the fault boundary around a single transform call. Panics are
// converted to errors.
func apply(t Transform, v document.Value) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()
	return t.Apply(v)
}
