// SPDX-License-Identifier: Apache-2.0

// Package normalize folds product records from heterogeneous sources into
// one flat shape. Each output field is read from the first source path that
// holds a truthy value.
package normalize

import (
	"math"
	"strings"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/path"
)

// Product is the normalized record.
type Product struct {
	Name  string   `json:"name" yaml:"name"`
	Price float64  `json:"price" yaml:"price"`
	Stock int64    `json:"stock" yaml:"stock"`
	Tags  []string `json:"tags" yaml:"tags"`
}

// fallbacks lists, per output field, the source paths tried in order.
var (
	namePaths  = paths("name", "product.name")
	pricePaths = paths("details.price", "product.details.price", "pricing.amount")
	stockPaths = paths("details.stock", "product.details.stock", "inventory")
	tagPaths   = paths("tags", "product.tags", "categories")
)

func paths(raw ...string) []path.Path {
	out := make([]path.Path, len(raw))
	for i, r := range raw {
		out[i] = path.MustParse(r)
	}
	return out
}

func truthy(v document.Value) bool { return v.Truthy() }

// Products normalizes every record. Records that are not mappings yield a
// zero Product.
func Products(records []document.Value) []Product {
	out := make([]Product, 0, len(records))
	for _, rec := range records {
		out = append(out, Record(rec))
	}
	return out
}

// Record normalizes a single record.
func Record(rec document.Value) Product {
	p := Product{Tags: []string{}}

	if v, ok := path.First(rec, truthy, namePaths...); ok {
		p.Name, _ = coerce.ToString(v)
	}

	if v, ok := path.First(rec, truthy, pricePaths...); ok {
		if f, err := coerce.ToFloat(v); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			p.Price = f
		}
	}

	if v, ok := path.First(rec, truthy, stockPaths...); ok {
		if f, err := coerce.ToFloat(v); err == nil {
			p.Stock, _ = coerce.Truncate(f)
		}
	}

	if v, ok := path.First(rec, truthy, tagPaths...); ok {
		p.Tags = Tags(v)
	}

	return p
}

// Tags converts a comma separated string or a sequence into a list of
// strings. Empty entries of a string are dropped; anything else yields an
// empty list.
func Tags(v document.Value) []string {
	if s, ok := v.Text(); ok {
		tags := []string{}
		for _, part := range strings.Split(s, ",") {
			if t := strings.TrimSpace(part); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	if items, ok := v.Items(); ok {
		tags := make([]string, len(items))
		for i, item := range items {
			tags[i] = item.String()
		}
		return tags
	}
	return []string{}
}
