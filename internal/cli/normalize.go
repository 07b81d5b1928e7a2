// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/normalize"
)

func newNormalizeCommand(a *app) *cobra.Command {
	var documentName, format string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize product records into name, price, stock and tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := a.loadDocument(cmd, documentName, format)
			if err != nil {
				return err
			}
			records, ok := loaded.Document.Items()
			if !ok {
				records = append(records, loaded.Document)
			}
			return a.write(cmd.OutOrStdout(), normalize.Products(records))
		},
	}

	cmd.Flags().StringVarP(&documentName, "document", "d", "", "document to read (- for standard input)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format hint: yaml or json")
	_ = cmd.MarkFlagRequired("document")
	return cmd
}
