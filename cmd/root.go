package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"amfcore/internal/cli"
)

// Exit codes, matching the spec §7 error-kind groupings cli.ExitCode derives.
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeDataError  = 65
	ExitCodeRetryLater = 75
)

// rootCmd is the entry point when amfcored is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "amfcored",
	Short: "Run and administer an AMF core: Availability Director over a cluster of nodes",
	Long: `amfcored hosts the Availability Management Framework core described in
the Entity Model, Assignment Engine, Admin Operation Engine, Component
Lifecycle Driver and Checkpoint Replicator packages of this module.

Use 'amfcored serve' to run the core's event loop, and 'amfcored list'/'get'/
'admin' to load an --import file into a one-shot in-process core and inspect
or administer that core.`,
	SilenceUsage: true,
}

// SetVersion injects the build-time version string.
func SetVersion(v string) { rootCmd.Version = v }

// Execute runs the root command, translating returned faults into the
// process exit code cli.ExitCode derives from their ErrorKind.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "amfcored version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var uerr cli.UsageError
	if errors.As(err, &uerr) {
		return ExitCodeDataError
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newImportCmd())
}
