package adminop

import (
	"context"
	"fmt"
	"time"

	"amfcore/internal/model"
	"amfcore/internal/ntf"
	"amfcore/pkg/logging"
)

// unlock sets the target's admin state to UNLOCKED and lets the Entity
// Model's readiness recompute cascade do the rest; for an SI it also
// triggers the Assignment Engine to place it.
func (e *Engine) unlock(dn string) error {
	switch e.resolveKind(dn) {
	case kindNode:
		return e.m.SetNodeAdminState(dn, model.AdminUnlocked)
	case kindNodeGroup:
		return e.m.SetNodeGroupAdminState(dn, model.AdminUnlocked)
	case kindSU:
		if err := e.m.SetSUAdminState(dn, model.AdminUnlocked); err != nil {
			return err
		}
		su, _ := e.m.GetSU(dn)
		return e.asgn.SUInService(su.DN)
	case kindSI:
		return e.asgn.SINew(dn)
	case kindSG:
		return e.m.SetSGFSMState(dn, model.SGStable)
	}
	return nil
}

// lock sets the target's admin state to LOCKED and drives every affected
// SI/SU to unassigned, per spec §4.4 (LOCK is not graceful — SHUTDOWN is).
// Fan-out targets (node, node group, SG) use a Task to track per-SU
// completions against timeout (spec §4.4 multi-step completion counter).
func (e *Engine) lock(ctx context.Context, dn string, timeout time.Duration) error {
	switch e.resolveKind(dn) {
	case kindNode:
		if err := e.m.SetNodeAdminState(dn, model.AdminLocked); err != nil {
			return err
		}
		n, _ := e.m.GetNode(dn)
		return e.fanOutSUAdminDown(ctx, dn, "LOCK", n.AllSUDNs(), timeout)
	case kindNodeGroup:
		if err := e.m.SetNodeGroupAdminState(dn, model.AdminLocked); err != nil {
			return err
		}
		g, _ := e.m.GetNodeGroup(dn)
		var suDNs []string
		for _, ndn := range g.NodeDNs {
			n, ok := e.m.GetNode(ndn)
			if !ok {
				continue
			}
			suDNs = append(suDNs, n.AllSUDNs()...)
		}
		return e.fanOutSUAdminDown(ctx, dn, "LOCK", suDNs, timeout)
	case kindSU:
		if err := e.m.SetSUAdminState(dn, model.AdminLocked); err != nil {
			return err
		}
		return e.asgn.SUAdminDown(dn)
	case kindSI:
		if err := e.asgn.SIAdminDown(dn); err != nil {
			return err
		}
		return nil
	case kindSG:
		suDNs := mustSG(e.m, dn).SUDNs
		for _, suDN := range suDNs {
			if err := e.m.SetSUAdminState(suDN, model.AdminLocked); err != nil {
				return err
			}
		}
		return e.fanOutSUAdminDown(ctx, dn, "LOCK", suDNs, timeout)
	}
	return nil
}

// fanOutSUAdminDown drives asgn.SUAdminDown across suDNs concurrently,
// tracking outstanding completions with a Task (spec §4.4: "increments a
// per-target completion counter … as replies arrive, decrements … when it
// reaches zero, the pending callback is completed").
func (e *Engine) fanOutSUAdminDown(ctx context.Context, targetDN, opName string, suDNs []string, timeout time.Duration) error {
	if len(suDNs) == 0 {
		return nil
	}
	t := NewTask(targetDN, model.OpLock, len(suDNs), timeout)
	for _, suDN := range suDNs {
		suDN := suDN
		go func() {
			if err := e.asgn.SUAdminDown(suDN); err != nil {
				t.Fail(err)
				return
			}
			t.Ack()
		}()
	}
	if err := t.Wait(ctx); err != nil {
		return e.repairPending(targetDN, opName, len(suDNs)-t.Remaining(), len(suDNs), err)
	}
	return nil
}

// shutdown performs the graceful variant of lock: SUs are first quiesced
// (readiness STOPPING) so in-flight work can drain, logged at NOTICE since
// the quiesce-then-lock sequence has no further automatic continuation in
// this simplified admin-op flow — a production driver would wait for a
// quiescing-complete ack from the Component Lifecycle Driver before calling
// SUAdminDown.
func (e *Engine) shutdown(ctx context.Context, dn string, timeout time.Duration) error {
	switch e.resolveKind(dn) {
	case kindSU:
		if err := e.m.SetSUReadiness(dn, model.ReadinessStopping); err != nil {
			return err
		}
		logging.Notice("adminop", nil, "SU %s shutting down: quiescing before lock", dn)
		if err := e.asgn.SUAdminDown(dn); err != nil {
			return err
		}
		return e.m.SetSUAdminState(dn, model.AdminShuttingDown)
	default:
		return e.lock(ctx, dn, timeout)
	}
}

// lockInstantiation sets LOCKED-INSTANTIATION and requests the Component
// Lifecycle Driver terminate every component hosted on the target SU(s)
// (spec §4.4/§4.5), fanning the per-SU terminate requests out concurrently
// and tracking completions with a Task bounded by timeout.
func (e *Engine) lockInstantiation(ctx context.Context, dn string, timeout time.Duration) error {
	switch e.resolveKind(dn) {
	case kindNode:
		if err := e.m.SetNodeAdminState(dn, model.AdminLockedInstantiation); err != nil {
			return err
		}
		n, _ := e.m.GetNode(dn)
		return e.fanOutTerminate(ctx, dn, n.AllSUDNs(), timeout)
	case kindSU:
		if err := e.m.SetSUAdminState(dn, model.AdminLockedInstantiation); err != nil {
			return err
		}
		return e.terminateSU(ctx, dn)
	}
	return nil
}

// fanOutTerminate drives terminateSU across suDNs concurrently, tracking
// outstanding completions with a Task (spec §4.4 completion counter).
func (e *Engine) fanOutTerminate(ctx context.Context, targetDN string, suDNs []string, timeout time.Duration) error {
	if len(suDNs) == 0 {
		return nil
	}
	t := NewTask(targetDN, model.OpLockInstantiation, len(suDNs), timeout)
	for _, suDN := range suDNs {
		suDN := suDN
		go func() {
			if err := e.terminateSU(ctx, suDN); err != nil {
				t.Fail(err)
				return
			}
			t.Ack()
		}()
	}
	if err := t.Wait(ctx); err != nil {
		return e.repairPending(targetDN, "LOCK-INSTANTIATION", len(suDNs)-t.Remaining(), len(suDNs), err)
	}
	return nil
}

// repairPending implements spec §4.4's multi-step partial-failure path: when
// fewer than total secondary effects (here, per-SU terminate confirmations)
// complete before one fails, the operation returns a REPAIR-PENDING error
// and a notification is raised so the auto-repair rules in §3 can decide
// whether to order a node reboot.
func (e *Engine) repairPending(targetDN, opName string, completed, total int, cause error) error {
	e.notif.Raise(ntf.Notification{
		Severity:      ntf.SeverityMajor,
		ProbableCause: ntf.CauseRepairPending,
		ObjectDN:      targetDN,
		Message:       fmt.Sprintf("%s completed %d/%d secondary effects before failing: %v", opName, completed, total, cause),
	})
	return model.NewFault(model.KindPrecondition, targetDN, "REPAIR-PENDING: %s", cause)
}

func (e *Engine) terminateSU(ctx context.Context, suDN string) error {
	if e.cld == nil {
		return model.NewFault(model.KindPrecondition, suDN, "component lifecycle driver not wired")
	}
	return e.cld.Terminate(ctx, suDN)
}

// unlockInstantiation reverses lockInstantiation, requesting instantiation.
func (e *Engine) unlockInstantiation(ctx context.Context, dn string) error {
	switch e.resolveKind(dn) {
	case kindNode:
		if err := e.m.SetNodeAdminState(dn, model.AdminUnlocked); err != nil {
			return err
		}
		n, _ := e.m.GetNode(dn)
		for _, suDN := range n.AllSUDNs() {
			if err := e.instantiateSU(ctx, suDN); err != nil {
				return err
			}
		}
		return nil
	case kindSU:
		if err := e.m.SetSUAdminState(dn, model.AdminUnlocked); err != nil {
			return err
		}
		return e.instantiateSU(ctx, dn)
	}
	return nil
}

func (e *Engine) instantiateSU(ctx context.Context, suDN string) error {
	if e.cld == nil {
		return model.NewFault(model.KindPrecondition, suDN, "component lifecycle driver not wired")
	}
	return e.cld.Instantiate(ctx, suDN)
}

// restart requests a component-scoped restart (spec §4.4: RESTART is
// component only). Open Question (§9 OQ #2) resolution: SA_AMF_ADMIN_RESTART
// is rejected outright on any SU whose SG is 2N or N-way-active, since both
// models define a single shared active/standby or multi-active arrangement
// where a bare component-level restart cannot be reconciled against the
// SG-wide assignment state without the full SU-level restart the spec
// already provides through LOCK-INSTANTIATION/UNLOCK-INSTANTIATION; N+M,
// N-way and NO-REDUNDANCY allow it since each SU's assignment set there is
// already independent per-SI.
func (e *Engine) restart(ctx context.Context, componentDN string) error {
	comp, ok := e.m.GetComponent(componentDN)
	if !ok {
		return model.NewFault(model.KindNotExist, componentDN, "component does not exist")
	}
	su, ok := e.m.GetSU(comp.ParentSUDN)
	if ok {
		if sg, ok := e.m.GetSG(su.ParentSGDN); ok {
			if sg.RedundancyModel == model.Redundancy2N || sg.RedundancyModel == model.RedundancyNWayActive {
				return model.NewFault(model.KindPrecondition, componentDN, "RESTART is rejected on %s SGs; use SU-level LOCK-INSTANTIATION/UNLOCK-INSTANTIATION instead", sg.RedundancyModel)
			}
		}
	}
	if e.cld == nil {
		return model.NewFault(model.KindPrecondition, componentDN, "component lifecycle driver not wired")
	}
	return e.cld.Restart(ctx, componentDN)
}

func mustSG(m interface {
	GetSG(string) (*model.SG, bool)
}, dn string) *model.SG {
	sg, _ := m.GetSG(dn)
	return sg
}
