package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"amfcore/internal/amfctx"
	"amfcore/internal/xmlimport"
)

// contextWithTimeout derives a cancelable context from cmd's own context
// (falling back to Background when cobra has not set one, e.g. in tests),
// bounded by timeout.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, timeout)
}

// loadContext builds a one-shot, single-node amfctx.Context from an AMF
// configuration XML file, for the list/get/admin commands to operate
// against in-process (spec §9: "internal/cli, thin in-process client used
// by cmd/" — there is no separate wire protocol to a running serve process,
// since the bus this core runs on is itself in-process per Design Note
// "LocalTransport").
func loadContext(importPath string) (*amfctx.Context, error) {
	if importPath == "" {
		return nil, fmt.Errorf("--import is required: this command builds its own one-shot core from a configuration file")
	}
	f, err := os.Open(importPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", importPath, err)
	}
	defer f.Close()

	result, err := xmlimport.Import(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", importPath, err)
	}

	return amfctx.New(amfctx.Config{
		SelfDest:          "amfcored-cli",
		Role:              amfctx.RoleActive,
		CLDWorkerCapacity: 16,
		InitialObjects:    result.Objects,
	})
}
