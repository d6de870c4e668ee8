package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"amfcore/internal/amfctx"
	"amfcore/internal/cli"
	"amfcore/internal/xmlimport"
	"amfcore/pkg/logging"
)

var (
	serveSelfDest      string
	servePeerDest      string
	serveRole          string
	serveImportPath    string
	serveCLDCapacity   int64
	serveWarmSyncEvery time.Duration
	serveDebug         bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the AMF core's event loop",
		Long: `serve brings up the Entity Model, Assignment Engine, Admin Operation
Engine, Component Lifecycle Driver and Checkpoint Replicator/Standby, then
blocks until SIGINT/SIGTERM.

Under systemd, serve reports readiness via sd_notify and, if WatchdogSec is
set on the unit, pets the watchdog for as long as the process is healthy.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&serveSelfDest, "self-dest", "amf-active", "this node's virtual bus destination")
	cmd.Flags().StringVar(&servePeerDest, "peer-dest", "", "the peer Director's virtual bus destination (empty: no peer, single-node)")
	cmd.Flags().StringVar(&serveRole, "role", "active", "this process's role: active or standby")
	cmd.Flags().StringVar(&serveImportPath, "import", "", "path to an AMF configuration XML file to load at startup (active role only)")
	cmd.Flags().Int64Var(&serveCLDCapacity, "cld-capacity", 64, "Component Lifecycle Driver bounded worker pool size")
	cmd.Flags().DurationVar(&serveWarmSyncEvery, "warm-sync-interval", 5*time.Second, "active role with --peer-dest: interval between warm-sync counter ticks sent to the standby")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	role := amfctx.RoleActive
	if serveRole == "standby" {
		role = amfctx.RoleStandby
	} else if serveRole != "active" {
		return cli.UsageError{Err: fmt.Errorf("--role must be active or standby, got %q", serveRole)}
	}

	cfg := amfctx.Config{
		SelfDest:          serveSelfDest,
		PeerDest:          servePeerDest,
		Role:              role,
		CLDWorkerCapacity: serveCLDCapacity,
	}

	if serveImportPath != "" {
		if role != amfctx.RoleActive {
			return cli.UsageError{Err: fmt.Errorf("--import is only valid with --role active")}
		}
		f, err := os.Open(serveImportPath)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		result, err := xmlimport.Import(f)
		if err != nil {
			return fmt.Errorf("import %s: %w", serveImportPath, err)
		}
		cfg.InitialObjects = result.Objects
	}

	actx, err := amfctx.New(cfg)
	if err != nil {
		return err
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if servePeerDest != "" {
		if err := actx.ConnectPeer(ctx); err != nil {
			logging.Warn("serve", "peer connect failed: %v", err)
		}
	}

	if role == amfctx.RoleActive && servePeerDest != "" {
		go runWarmSyncTicker(ctx, actx, serveWarmSyncEvery)
	}

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Debug("serve", "sd_notify ready failed: %v", err)
	} else if sent {
		logging.Info("serve", "reported READY=1 to systemd")
	}
	go runWatchdog(ctx)

	logging.Info("serve", "amf core running: role=%s self=%s peer=%s", role, serveSelfDest, servePeerDest)
	<-ctx.Done()
	logging.Info("serve", "shutting down")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	actx.Shutdown()
	return nil
}

func runWarmSyncTicker(ctx context.Context, actx *amfctx.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			actx.Replicator.WarmSyncTick(ctx)
		}
	}
}

func runWatchdog(ctx context.Context) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
