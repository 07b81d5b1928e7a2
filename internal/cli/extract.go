// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gemaraproj/fieldextract/internal/constraint"
	"github.com/gemaraproj/fieldextract/internal/extract"
	"github.com/gemaraproj/fieldextract/internal/specfile"
)

type extractOptions struct {
	document   string
	spec       string
	format     string
	constraint string
	definition string
}

func newExtractCommand(a *app) *cobra.Command {
	o := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract fields from a document using a rules file",
		Long: `Extract fields from a document using a rules file.

The rules file maps each output field to a [path, transform] pair:

  user_name: [user.name, identity]
  total:     [orders, sum]

Fields whose path does not resolve, or whose transform fails, are written
as null. A malformed rules file or path fails the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExtract(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.document, "document", "d", "", "document to read (- for standard input)")
	fs.StringVarP(&o.spec, "spec", "s", "", "rules file")
	fs.StringVarP(&o.format, "format", "f", "", "document format hint: yaml, json, markdown or kubernetes")
	fs.StringVar(&o.constraint, "constraint", "", "CUE file the result must satisfy")
	fs.StringVar(&o.definition, "definition", constraint.DefaultDefinition, "CUE definition to check the result against")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, o *extractOptions) error {
	specData, err := os.ReadFile(o.spec)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", o.spec, err)
	}
	rules, err := specfile.LoadRules(specData)
	if err != nil {
		return fmt.Errorf("%s: %w", o.spec, err)
	}
	spec, err := extract.Compile(rules, nil)
	if err != nil {
		return err
	}

	var checker *constraint.Checker
	if o.constraint != "" {
		src, err := os.ReadFile(o.constraint)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", o.constraint, err)
		}
		checker, err = constraint.Compile(string(src), o.definition)
		if err != nil {
			return fmt.Errorf("%s: %w", o.constraint, err)
		}
	}

	loaded, err := a.loadDocument(cmd, o.document, o.format)
	if err != nil {
		return err
	}

	res, err := extract.Fields(loaded.Document, spec, extract.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if err := a.write(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	if checker != nil {
		return checker.Check(res)
	}
	return nil
}
