// Package adminop implements the Admin Operation Engine (spec §4.4):
// administrative state transitions on Node, NodeGroup, SG, SU, SI and
// Component objects, validated against the target-state acceptance matrix
// and enclosing-entity exclusivity, and forwarded to the Assignment Engine
// or Component Lifecycle Driver as the operation requires.
package adminop

import (
	"context"
	"time"

	"amfcore/internal/assignment"
	"amfcore/internal/model"
	"amfcore/internal/ntf"
)

// LifecycleDriver is the subset of the Component Lifecycle Driver the
// Admin Operation Engine calls into for RESTART and instantiation-admin
// operations, segregated as its own interface so this package does not
// import internal/cld directly (mirrors the teacher's HealthChecker/
// StateUpdater capability segregation in internal/services/interfaces.go).
type LifecycleDriver interface {
	Restart(ctx context.Context, componentDN string) error
	Instantiate(ctx context.Context, suDN string) error
	Terminate(ctx context.Context, suDN string) error
}

// Engine validates and executes admin operations (spec §4.4).
type Engine struct {
	m     *model.Model
	asgn  *assignment.Engine
	cld   LifecycleDriver
	notif ntf.Notifier
}

// New builds an Engine. cld may be nil until the Component Lifecycle Driver
// is constructed (init order, Design Note "global singletons"); operations
// that need it fail KindPrecondition until it is wired via SetLifecycleDriver.
func New(m *model.Model, asgn *assignment.Engine) *Engine {
	return &Engine{m: m, asgn: asgn, notif: ntf.Null}
}

// SetLifecycleDriver wires the Component Lifecycle Driver once constructed.
func (e *Engine) SetLifecycleDriver(cld LifecycleDriver) { e.cld = cld }

// SetNotifier wires the NTF alarm fan-out for REPAIR-PENDING notifications
// raised on partial multi-step operation failure (spec §4.4).
func (e *Engine) SetNotifier(n ntf.Notifier) {
	if n == nil {
		n = ntf.Null
	}
	e.notif = n
}

// Execute validates and runs op against targetDN, blocking up to timeout for
// multi-step operations to finish draining (spec §4.4 Task pattern).
func (e *Engine) Execute(ctx context.Context, targetDN string, op model.AdminOperation, timeout time.Duration) error {
	if err := e.validate(targetDN, op); err != nil {
		return err
	}
	switch op {
	case model.OpUnlock:
		return e.unlock(targetDN)
	case model.OpLock:
		return e.lock(ctx, targetDN, timeout)
	case model.OpShutdown:
		return e.shutdown(ctx, targetDN, timeout)
	case model.OpLockInstantiation:
		return e.lockInstantiation(ctx, targetDN, timeout)
	case model.OpUnlockInstantiation:
		return e.unlockInstantiation(ctx, targetDN)
	case model.OpRestart:
		return e.restart(ctx, targetDN)
	case model.OpSISwap:
		return e.asgn.Swap(targetDN)
	case model.OpEAMStart, model.OpEAMStop:
		return model.NewFault(model.KindPrecondition, targetDN, "%s is not supported", op)
	case model.OpChangeFilter:
		return model.NewFault(model.KindPrecondition, targetDN, "CHANGE-FILTER is out of this core's scope; the log-stream owner is an external collaborator")
	default:
		return model.NewFault(model.KindValidation, targetDN, "unknown admin operation")
	}
}
