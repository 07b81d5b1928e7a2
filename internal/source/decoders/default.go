// SPDX-License-Identifier: Apache-2.0

// Package decoders provides the built-in source.Decoder implementations.
package decoders

import "github.com/gemaraproj/fieldextract/internal/source"

// Default returns a Loader with every built-in decoder registered. Manifests
// are tried before Markdown and plain YAML, since a manifest is also valid
// YAML.
func Default() *source.Loader {
	return source.NewLoader(
		NewManifestDecoder(),
		NewFrontMatterDecoder(),
		NewYAMLDecoder(),
	)
}
