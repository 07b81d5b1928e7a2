// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/coerce"
	"github.com/gemaraproj/fieldextract/internal/document"
	"github.com/gemaraproj/fieldextract/internal/specfile"
)

type coerceOptions struct {
	document string
	schema   string
	format   string
}

func newCoerceCommand(a *app) *cobra.Command {
	o := &coerceOptions{}
	cmd := &cobra.Command{
		Use:   "coerce",
		Short: "Validate a document against a schema and convert field types",
		Long: `Validate a document against a schema and convert field types.

The schema file maps each required top-level field to a type
(str, int, float, bool or list):

  name: str
  age:  int
  tags: list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCoerce(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.document, "document", "d", "", "document to read (- for standard input)")
	fs.StringVar(&o.schema, "schema", "", "schema file")
	fs.StringVarP(&o.format, "format", "f", "", "document format hint: yaml, json, markdown or kubernetes")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) runCoerce(cmd *cobra.Command, o *coerceOptions) error {
	data, err := os.ReadFile(o.schema)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", o.schema, err)
	}
	schema, err := specfile.LoadSchema(data)
	if err != nil {
		return fmt.Errorf("%s: %w", o.schema, err)
	}

	loaded, err := a.loadDocument(cmd, o.document, o.format)
	if err != nil {
		return err
	}

	m, err := coerce.Document(loaded.Document, schema)
	if err != nil {
		return err
	}
	return a.write(cmd.OutOrStdout(), document.Map(m))
}
