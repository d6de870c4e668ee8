package cmd

import (
	"github.com/spf13/cobra"

	"amfcore/internal/cli"
)

var (
	getImportPath string
	getOutput     string
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <type> <dn>",
		Short: "Print every field of a single named object",
		Args:  cobra.ExactArgs(2),
		RunE:  runGet,
	}
	cmd.Flags().StringVar(&getImportPath, "import", "", "AMF configuration XML file to build the core from")
	cmd.Flags().StringVarP(&getOutput, "output", "o", "table", "output format: table or yaml")
	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	kind, err := cli.ParseKind(args[0])
	if err != nil {
		return cli.UsageError{Err: err}
	}
	format, err := cli.ParseOutputFormat(getOutput)
	if err != nil {
		return cli.UsageError{Err: err}
	}

	actx, err := loadContext(getImportPath)
	if err != nil {
		return err
	}
	defer actx.Shutdown()

	return cli.RenderDetail(actx.Model.Snapshot(), kind, args[1], format)
}
