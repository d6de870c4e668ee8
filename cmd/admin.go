package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"amfcore/internal/cli"
)

var (
	adminImportPath string
	adminOp         string
	adminTimeout    time.Duration
	adminQuiet      bool
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin <dn>",
		Short: "Invoke an administrative operation on a target object",
		Long: `admin runs one spec §4.4 admin operation (UNLOCK, LOCK, SHUTDOWN,
LOCK-INSTANTIATION, UNLOCK-INSTANTIATION, RESTART, SI-SWAP) against a single
target DN and reports the result code the Admin Operation Engine returned.`,
		Args: cobra.ExactArgs(1),
		RunE: runAdmin,
	}
	cmd.Flags().StringVar(&adminImportPath, "import", "", "AMF configuration XML file to build the core from")
	cmd.Flags().StringVar(&adminOp, "op", "", "admin operation: unlock|lock|shutdown|lock-instantiation|unlock-instantiation|restart|si-swap")
	cmd.Flags().DurationVar(&adminTimeout, "timeout", 30*time.Second, "time to wait for the operation's secondary effects to settle")
	cmd.Flags().BoolVarP(&adminQuiet, "quiet", "q", false, "suppress the progress spinner")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func runAdmin(cmd *cobra.Command, args []string) error {
	op, err := cli.ParseAdminOperation(adminOp)
	if err != nil {
		return cli.UsageError{Err: err}
	}
	targetDN := args[0]

	actx, err := loadContext(adminImportPath)
	if err != nil {
		return err
	}
	defer actx.Shutdown()

	ctx, cancel := contextWithTimeout(cmd, adminTimeout)
	defer cancel()

	var s *spinner.Spinner
	if !adminQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = fmt.Sprintf(" %s %s...", adminOp, targetDN)
		s.Start()
		defer s.Stop()
	}

	execErr := actx.AdminOp.Execute(ctx, targetDN, op, adminTimeout)
	if execErr != nil {
		if s != nil {
			s.FinalMSG = text.FgRed.Sprint("admin operation failed") + "\n"
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.ExplainFault(execErr))
		return execErr
	}
	if s != nil {
		s.FinalMSG = text.FgGreen.Sprint("admin operation succeeded") + "\n"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: OK\n", adminOp, targetDN)
	return nil
}
