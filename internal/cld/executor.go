// Package cld implements the Component Lifecycle Driver (spec §4.5): the
// presence-state machine, CLC-CLI command execution, instantiation/
// termination retry policy, and per-component healthcheck ticking.
package cld

import (
	"context"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"

	"amfcore/internal/model"
	"amfcore/internal/template"
	"amfcore/pkg/logging"
)

// CommandRunner executes one CLC-CLI command and reports its exit code.
// Segregated as an interface so tests substitute a fake runner instead of
// forking real processes.
type CommandRunner interface {
	Run(ctx context.Context, cmd model.CLCCommand, tctx template.Context) (exitCode int, err error)
}

// ProcessRunner execs the CLC-CLI command directly via os/exec, used for
// SA-aware and non-SAF components (spec §4.5 "non-SAF components fork/exec
// directly"). A proxied component instead routes through ProxyInvoker
// (standing in for the AMF agent library boundary, out of scope per §1).
type ProcessRunner struct{}

func (ProcessRunner) Run(ctx context.Context, cc model.CLCCommand, tctx template.Context) (int, error) {
	args, err := template.RenderArgs(cc.Args, tctx)
	if err != nil {
		return -1, model.Wrap(model.KindValidation, cc.Command, err)
	}
	cmdCtx := ctx
	var cancel context.CancelFunc
	if cc.Timeout > 0 {
		cmdCtx, cancel = context.WithTimeout(ctx, time.Duration(int64(cc.Timeout))*time.Millisecond)
		defer cancel()
	}
	cmd := exec.CommandContext(cmdCtx, cc.Command, args...)
	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	if cmdCtx.Err() != nil {
		return -1, model.NewFault(model.KindTimeout, cc.Command, "CLC-CLI command timed out")
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, model.Wrap(model.KindUnrecoverable, cc.Command, err)
}

// ProxyInvoker routes a proxied component's lifecycle commands through the
// proxy component named by Component.CurrentProxyName (spec §3 "proxied
// components"), standing in for the AMF agent library boundary that §1
// places out of scope. This implementation only validates that a proxy is
// named and logs the delegation; it does not speak any real agent protocol.
type ProxyInvoker struct{}

func (ProxyInvoker) Run(ctx context.Context, cc model.CLCCommand, tctx template.Context) (int, error) {
	proxy := tctx["proxyName"]
	if proxy == "" {
		return -1, model.NewFault(model.KindPrecondition, cc.Command, "proxied component has no current proxy assigned")
	}
	logging.Debug("cld", "delegating %s to proxy %s", cc.Command, proxy)
	return 0, nil
}

// workerPool bounds how many CLC-CLI commands may execute concurrently, so
// the main event loop is never blocked by fork/exec/wait regardless of how
// many components are instantiating at once (spec §5 "unbounded-looking-
// but-actually-bounded CLD worker pool"). The bound is large and fixed at
// startup rather than truly unbounded, since Go cannot safely promise an
// unbounded goroutine pool under adversarial load (Design Note, resolved in
// DESIGN.md).
type workerPool struct {
	sem *semaphore.Weighted
}

func newWorkerPool(capacity int64) *workerPool {
	return &workerPool{sem: semaphore.NewWeighted(capacity)}
}

func (p *workerPool) run(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer p.sem.Release(1)
		fn()
	}()
	return nil
}
