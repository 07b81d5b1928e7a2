// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/extract"
)

func newTransformsCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List the transforms available to rules files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := extract.DefaultRegistry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range reg.Names() {
				fmt.Fprintf(tw, "%s\t%s\n", name, reg.Describe(name))
			}
			return tw.Flush()
		},
	}
}
