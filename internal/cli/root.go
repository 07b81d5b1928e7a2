// SPDX-License-Identifier: Apache-2.0

// Package cli implements the fieldextract command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/config"
	"github.com/gemaraproj/fieldextract/internal/source"
	"github.com/gemaraproj/fieldextract/internal/source/decoders"
)

// app carries state shared by the subcommands.
type app struct {
	cfg     config.Config
	version string
	logger  *slog.Logger
}

// NewRootCommand builds the fieldextract command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{cfg: config.Default(), version: version, logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "fieldextract",
		Short:         "Extract, coerce and normalize fields of structured documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindEnv(cmd.Flags()); err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			logger, err := a.cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}
	a.cfg.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newExtractCommand(a),
		newCoerceCommand(a),
		newNormalizeCommand(a),
		newTransformsCommand(a),
		newServeCommand(a),
	)
	return root
}

// readInput reads a file, or standard input when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// formatHint guesses a decoder hint from the file extension. YAML files
// that look like Kubernetes manifests go to the manifest decoder.
func formatHint(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if decoders.NewManifestDecoder().CanHandle(source.Source{Content: data}) {
			return "manifest"
		}
		return "yaml"
	case ".json":
		return "json"
	case ".md", ".markdown":
		return "markdown"
	default:
		return ""
	}
}

// loadDocument reads and decodes the document named by --document.
func (a *app) loadDocument(cmd *cobra.Command, name, format string) (source.LoadResult, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return source.LoadResult{}, err
	}
	if format == "" {
		format = formatHint(name, data)
	}
	res, err := decoders.Default().LoadWithMeta(cmd.Context(), source.Source{Content: data, Format: format, ID: name})
	if err != nil {
		return source.LoadResult{}, err
	}
	a.logger.Debug("document loaded", slog.String("source", name), slog.String("decoder", res.DecoderUsed))
	return res, nil
}

// write encodes v in the configured output format.
func (a *app) write(w io.Writer, v any) error {
	switch a.cfg.Output {
	case config.OutputYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}
