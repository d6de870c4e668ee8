package cld

import (
	"context"
	"time"

	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

// StartHealthcheck runs comp.Healthcheck on a ticker for as long as ctx is
// alive, matching the teacher's HealthChecker failure/success-threshold
// tracking (internal/services/instance.go) narrowed to a single boolean:
// any non-zero exit routes through the component's configured
// DefaultRecovery (spec §4.5 ADD note). It returns nothing; cancelling ctx
// stops the check.
func (e *Engine) StartHealthcheck(ctx context.Context, componentDN string, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.runHealthcheckOnce(ctx, componentDN)
			}
		}
	}()
}

func (e *Engine) runHealthcheckOnce(ctx context.Context, componentDN string) {
	comp, ok := e.m.GetComponent(componentDN)
	if !ok || comp.PresenceState != model.PresenceInstantiated {
		return
	}
	su, ok := e.m.GetSU(comp.ParentSUDN)
	if !ok {
		return
	}
	runner := e.runnerFor(comp)
	tctx := templateContext(comp, su)
	code, err := runner.Run(ctx, comp.Healthcheck, tctx)
	if err == nil && code == 0 {
		return
	}
	logging.Notice("cld", model.AsFault(err), "healthcheck failed for %s (code=%d), applying recovery %s", componentDN, code, comp.DefaultRecovery)
	e.applyRecovery(ctx, comp)
}

// applyRecovery routes a healthcheck (or other lifecycle) failure through
// the component's configured recovery type (spec §3/§4.5). Only the
// component-local recoveries are handled here; node/cluster-scope
// recoveries (NODE-SWITCHOVER, NODE-FAILOVER, NODE-FAILFAST, CLUSTER-RESET)
// are logged and left for the Admin Operation Engine / node supervisor,
// which this core does not own (§1 scope).
func (e *Engine) applyRecovery(ctx context.Context, comp *model.Component) {
	switch comp.DefaultRecovery {
	case model.RecoveryComponentRestart:
		if err := e.Restart(ctx, comp.DN); err != nil {
			logging.Warn("cld", "recovery restart failed for %s: %v", comp.DN, err)
		}
	case model.RecoveryComponentFailover:
		if err := e.terminateComponent(ctx, comp.DN); err != nil {
			logging.Warn("cld", "recovery failover terminate failed for %s: %v", comp.DN, err)
			return
		}
		if err := e.instantiateComponent(ctx, comp.DN); err != nil {
			logging.Warn("cld", "recovery failover re-instantiate failed for %s: %v", comp.DN, err)
		}
	default:
		logging.Notice("cld", nil, "recovery %s for %s is out of this core's scope (node/cluster supervisor)", comp.DefaultRecovery, comp.DN)
	}
}
