package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"amfcore/internal/cli"
	"amfcore/internal/xmlimport"
)

var importOutput string

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate an AMF configuration XML file without starting a core",
		Long: `import runs the §6 XML importer's validations (unknown class,
duplicate object name, DN length, cyclic CSI dependency) against file and
reports the objects that would be loaded, without building an Entity Model.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().StringVarP(&importOutput, "output", "o", "table", "output format: table or yaml")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(importOutput)
	if err != nil {
		return cli.UsageError{Err: err}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	result, err := xmlimport.Import(f)
	if err != nil {
		return err
	}

	if format == cli.OutputFormatYAML {
		return cli.RenderImportResultYAML(result)
	}
	cli.RenderImportResultTable(result)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d class(es), %d object(s) validated OK\n", len(result.Classes), len(result.Objects))
	return nil
}
