package cmd

import (
	"github.com/spf13/cobra"

	"amfcore/internal/cli"
)

var (
	listImportPath string
	listOutput     string
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List every object of a given entity type (node, sg, su, si, component)",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}
	cmd.Flags().StringVar(&listImportPath, "import", "", "AMF configuration XML file to build the core from")
	cmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table or yaml")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := cli.ParseKind(args[0])
	if err != nil {
		return cli.UsageError{Err: err}
	}
	format, err := cli.ParseOutputFormat(listOutput)
	if err != nil {
		return cli.UsageError{Err: err}
	}

	actx, err := loadContext(listImportPath)
	if err != nil {
		return err
	}
	defer actx.Shutdown()

	return cli.RenderList(actx.Model.Snapshot(), kind, format)
}
