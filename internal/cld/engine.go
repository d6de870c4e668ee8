package cld

import (
	"context"
	"fmt"
	"time"

	"amfcore/internal/model"
	"amfcore/internal/ntf"
	"amfcore/internal/template"
	"amfcore/pkg/logging"
)

// Engine drives component instantiation/termination/restart through the
// presence-state machine, executing CLC-CLI commands on a bounded
// background worker pool (spec §5) so the single event-loop goroutine
// never blocks on fork/exec/wait.
type Engine struct {
	m       *model.Model
	pool    *workerPool
	saRun   CommandRunner // SA-aware / non-SAF components
	proxied CommandRunner // proxied components
	policy  RetryPolicy
	notif   ntf.Notifier
}

// New builds an Engine with the default process-exec and proxy runners and
// a worker pool sized by capacity (the "large bounded semaphore" the
// Design Note calls for).
func New(m *model.Model, capacity int64) *Engine {
	return &Engine{
		m:       m,
		pool:    newWorkerPool(capacity),
		saRun:   ProcessRunner{},
		proxied: ProxyInvoker{},
		policy:  RetryPolicy{MaxWithoutDelay: 2, MaxWithDelay: 1, DelayBetween: 5 * time.Second},
		notif:   ntf.Null,
	}
}

// SetNotifier wires the NTF alarm fan-out once the Message Bus Adapter
// exists (init order, Design Note "global singletons"); until then alarms
// are only logged, never broadcast.
func (e *Engine) SetNotifier(n ntf.Notifier) {
	if n == nil {
		n = ntf.Null
	}
	e.notif = n
}

// transitionPresence validates the edge against the presence-state machine
// (spec §4.5) before writing it, so a programming error elsewhere in this
// package surfaces as an Unrecoverable fault instead of a silently corrupt
// state machine.
func (e *Engine) transitionPresence(componentDN string, to model.PresenceState) error {
	comp, ok := e.m.GetComponent(componentDN)
	if !ok {
		return model.NewFault(model.KindNotExist, componentDN, "component does not exist")
	}
	if !validTransition(comp.PresenceState, to) {
		return model.NewFault(model.KindUnrecoverable, componentDN, "invalid presence transition %s -> %s", comp.PresenceState, to)
	}
	return e.m.SetComponentPresenceState(componentDN, to)
}

func (e *Engine) runnerFor(c *model.Component) CommandRunner {
	if c.ProxyStatus == model.ProxyProxied {
		return e.proxied
	}
	return e.saRun
}

func templateContext(c *model.Component, su *model.SU) template.Context {
	ctx := template.Context{
		"componentName": c.DN,
		"suName":        su.DN,
		"nodeName":      su.ParentNodeDN,
		"proxyName":     c.CurrentProxyName,
	}
	return ctx
}

// instantiateComponent runs Component.Instantiate, applying the retry
// ladder (spec §4.5), and transitions presence state accordingly. It is
// synchronous from the worker-pool goroutine's point of view; callers
// invoke it via the pool so the main loop stays unblocked.
func (e *Engine) instantiateComponent(ctx context.Context, componentDN string) error {
	comp, ok := e.m.GetComponent(componentDN)
	if !ok {
		return model.NewFault(model.KindNotExist, componentDN, "component does not exist")
	}
	su, ok := e.m.GetSU(comp.ParentSUDN)
	if !ok {
		return model.NewFault(model.KindNotExist, comp.ParentSUDN, "parent SU does not exist")
	}
	if err := e.transitionPresence(componentDN, model.PresenceInstantiating); err != nil {
		return err
	}
	runner := e.runnerFor(comp)
	tctx := templateContext(comp, su)

	attempt := 1
	for {
		if delay := e.policy.NextDelay(attempt); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		code, err := runner.Run(ctx, comp.Instantiate, tctx)
		if err == nil && code == 0 {
			if err := e.transitionPresence(componentDN, model.PresenceInstantiated); err != nil {
				return err
			}
			if err := e.m.SetComponentOperState(componentDN, model.OperEnabled); err != nil {
				return err
			}
			return nil
		}
		logging.Warn("cld", "instantiate attempt %d for %s failed: code=%d err=%v", attempt, componentDN, code, err)
		attempt++
		if e.policy.Exhausted(attempt) {
			logging.Notice("cld", model.AsFault(err), "component %s exhausted instantiation attempts, alarming", componentDN)
			e.notif.Raise(ntf.Notification{
				Severity:      ntf.SeverityMajor,
				ProbableCause: ntf.CauseInstantiationFailed,
				ObjectDN:      componentDN,
				Message:       fmt.Sprintf("exhausted instantiation attempts: %v", err),
			})
			if ferr := e.transitionPresence(componentDN, model.PresenceInstantiationFailed); ferr != nil {
				return ferr
			}
			e.maybeRequestNodeReboot(comp, su)
			return nil
		}
	}
}

// terminateComponent runs Component.Terminate (falling back to Cleanup on
// failure, per spec §4.5's terminal-repair semantics) and transitions
// presence state.
func (e *Engine) terminateComponent(ctx context.Context, componentDN string) error {
	comp, ok := e.m.GetComponent(componentDN)
	if !ok {
		return model.NewFault(model.KindNotExist, componentDN, "component does not exist")
	}
	su, ok := e.m.GetSU(comp.ParentSUDN)
	if !ok {
		return model.NewFault(model.KindNotExist, comp.ParentSUDN, "parent SU does not exist")
	}
	if err := e.transitionPresence(componentDN, model.PresenceTerminating); err != nil {
		return err
	}
	runner := e.runnerFor(comp)
	tctx := templateContext(comp, su)

	code, err := runner.Run(ctx, comp.Terminate, tctx)
	if err == nil && code == 0 {
		return e.transitionPresence(componentDN, model.PresenceUninstantiated)
	}
	logging.Warn("cld", "terminate for %s failed, running cleanup: code=%d err=%v", componentDN, code, err)
	if ccode, cerr := runner.Run(ctx, comp.Cleanup, tctx); cerr != nil || ccode != 0 {
		logging.Notice("cld", cerr, "cleanup for %s also failed: code=%d", componentDN, ccode)
		e.notif.Raise(ntf.Notification{
			Severity:      ntf.SeverityMajor,
			ProbableCause: ntf.CauseTerminationFailed,
			ObjectDN:      componentDN,
			Message:       fmt.Sprintf("terminate and cleanup both failed: code=%d err=%v", ccode, cerr),
		})
		if ferr := e.transitionPresence(componentDN, model.PresenceTerminationFailed); ferr != nil {
			return ferr
		}
		e.maybeRequestNodeReboot(comp, su)
		return nil
	}
	return e.transitionPresence(componentDN, model.PresenceUninstantiated)
}

// maybeRequestNodeReboot implements spec §4.5's failfast escalation: "if
// the hosting node has failfast-on-termination-failure OR
// failfast-on-instantiation-failure set AND auto-repair is enabled on both
// node and SG, a node-reboot request is emitted." Node reboot execution
// itself is out of this core's scope (§1 — no user-thread/process
// supervision); the request is only raised as a notification for whatever
// node supervisor subscribes.
func (e *Engine) maybeRequestNodeReboot(comp *model.Component, su *model.SU) {
	node, ok := e.m.GetNode(su.ParentNodeDN)
	if !ok {
		return
	}
	if !node.FailfastOnTerminationFailure && !node.FailfastOnInstantiationFailure {
		return
	}
	if !node.AutoRepair {
		return
	}
	sg, ok := e.m.GetSG(su.ParentSGDN)
	if !ok || !sg.AutoRepair {
		return
	}
	e.notif.Raise(ntf.Notification{
		Severity:      ntf.SeverityCritical,
		ProbableCause: ntf.CauseNodeFailfast,
		ObjectDN:      node.DN,
		Message:       fmt.Sprintf("node-reboot requested after lifecycle failure on component %s", comp.DN),
	})
}

// Instantiate instantiates every component on suDN, in insertion order,
// implementing the adminop.LifecycleDriver contract.
func (e *Engine) Instantiate(ctx context.Context, suDN string) error {
	su, ok := e.m.GetSU(suDN)
	if !ok {
		return model.NewFault(model.KindNotExist, suDN, "SU does not exist")
	}
	for _, cdn := range su.ComponentDNs {
		cdn := cdn
		done := make(chan error, 1)
		if err := e.pool.run(ctx, func() { done <- e.instantiateComponent(ctx, cdn) }); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return err
		}
	}
	return e.m.SetSUPresence(suDN, model.PresenceInstantiated)
}

// Terminate terminates every component on suDN in reverse insertion order
// (spec §4.5 lifecycle ordering mirrors containment-depth ordering used
// elsewhere in this core).
func (e *Engine) Terminate(ctx context.Context, suDN string) error {
	su, ok := e.m.GetSU(suDN)
	if !ok {
		return model.NewFault(model.KindNotExist, suDN, "SU does not exist")
	}
	for i := len(su.ComponentDNs) - 1; i >= 0; i-- {
		cdn := su.ComponentDNs[i]
		done := make(chan error, 1)
		if err := e.pool.run(ctx, func() { done <- e.terminateComponent(ctx, cdn) }); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return err
		}
	}
	return e.m.SetSUPresence(suDN, model.PresenceUninstantiated)
}

// Restart terminates then re-instantiates a single component, implementing
// the adminop.LifecycleDriver contract's RESTART operation.
func (e *Engine) Restart(ctx context.Context, componentDN string) error {
	if err := e.transitionPresence(componentDN, model.PresenceRestarting); err != nil {
		return err
	}
	if err := e.terminateComponent(ctx, componentDN); err != nil {
		return err
	}
	return e.instantiateComponent(ctx, componentDN)
}
