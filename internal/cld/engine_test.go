package cld

import (
	"context"
	"testing"
	"time"

	"amfcore/internal/model"
	"amfcore/internal/template"
)

// fakeRunner lets tests script a sequence of exit codes/errors per command
// name without forking real processes.
type fakeRunner struct {
	results map[string][]result
	calls   []string
}

type result struct {
	code int
	err  error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string][]result)}
}

func (f *fakeRunner) script(command string, rs ...result) {
	f.results[command] = append(f.results[command], rs...)
}

func (f *fakeRunner) Run(ctx context.Context, cc model.CLCCommand, tctx template.Context) (int, error) {
	f.calls = append(f.calls, cc.Command)
	queue := f.results[cc.Command]
	if len(queue) == 0 {
		return 0, nil
	}
	next := queue[0]
	f.results[cc.Command] = queue[1:]
	return next.code, next.err
}

func setupComponent(t *testing.T) (*model.Model, *Engine, *fakeRunner) {
	t.Helper()
	m := model.New()
	if err := m.CreateNode(&model.Node{DN: "safAmfNode=node1", AdminState: model.AdminUnlocked, OperState: model.OperEnabled}); err != nil {
		t.Fatal(err)
	}
	if err := m.CreateSG(&model.SG{DN: "safSg=sg1", RedundancyModel: model.RedundancyNoRedundancy}); err != nil {
		t.Fatal(err)
	}
	su := &model.SU{DN: "safSu=su1", ParentSGDN: "safSg=sg1", ParentNodeDN: "safAmfNode=node1", Rank: 1, OperState: model.OperEnabled, AdminState: model.AdminUnlocked}
	if err := m.CreateSU(su); err != nil {
		t.Fatal(err)
	}
	ct := &model.ComponentType{
		DN:                 "safCompType=web",
		DefaultInstantiate: model.CLCCommand{Command: "instantiate"},
		DefaultTerminate:   model.CLCCommand{Command: "terminate"},
		DefaultCleanup:     model.CLCCommand{Command: "cleanup"},
	}
	if err := m.CreateComponentType(ct); err != nil {
		t.Fatal(err)
	}
	comp := model.NewComponentFromType("safComp=c1", su.DN, ct)
	if err := m.CreateComponent(comp); err != nil {
		t.Fatal(err)
	}
	e := New(m, 4)
	fr := newFakeRunner()
	e.saRun = fr
	e.policy = RetryPolicy{MaxWithoutDelay: 2, MaxWithDelay: 1, DelayBetween: time.Millisecond}
	return m, e, fr
}

func TestInstantiateComponentSucceeds(t *testing.T) {
	m, e, _ := setupComponent(t)
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceInstantiated {
		t.Fatalf("presence = %v, want INSTANTIATED", c.PresenceState)
	}
	if c.OperState != model.OperEnabled {
		t.Fatalf("oper = %v, want ENABLED", c.OperState)
	}
}

func TestInstantiateComponentRetriesThenSucceeds(t *testing.T) {
	m, e, fr := setupComponent(t)
	fr.script("instantiate", result{code: 1}, result{code: 0})
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceInstantiated {
		t.Fatalf("presence = %v, want INSTANTIATED", c.PresenceState)
	}
	if len(fr.calls) < 2 {
		t.Fatalf("expected at least 2 attempts, got %d", len(fr.calls))
	}
}

func TestInstantiateComponentExhaustsToInstantiationFailed(t *testing.T) {
	m, e, fr := setupComponent(t)
	fr.script("instantiate", result{code: 1}, result{code: 1}, result{code: 1}, result{code: 1})
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("instantiate returned unexpected error: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceInstantiationFailed {
		t.Fatalf("presence = %v, want INSTANTIATION-FAILED", c.PresenceState)
	}
}

func TestTerminateComponentSucceeds(t *testing.T) {
	m, e, _ := setupComponent(t)
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatal(err)
	}
	if err := e.terminateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceUninstantiated {
		t.Fatalf("presence = %v, want UNINSTANTIATED", c.PresenceState)
	}
}

func TestTerminateComponentFallsBackToCleanupThenFails(t *testing.T) {
	m, e, fr := setupComponent(t)
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatal(err)
	}
	fr.script("terminate", result{code: 1})
	fr.script("cleanup", result{code: 1})
	if err := e.terminateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("terminate returned unexpected error: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceTerminationFailed {
		t.Fatalf("presence = %v, want TERMINATION-FAILED", c.PresenceState)
	}
	found := false
	for _, call := range fr.calls {
		if call == "cleanup" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected cleanup to be invoked after failed terminate")
	}
}

func TestRestartRoundTrips(t *testing.T) {
	m, e, _ := setupComponent(t)
	if err := e.instantiateComponent(context.Background(), "safComp=c1"); err != nil {
		t.Fatal(err)
	}
	if err := e.Restart(context.Background(), "safComp=c1"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	c, _ := m.GetComponent("safComp=c1")
	if c.PresenceState != model.PresenceInstantiated {
		t.Fatalf("presence = %v, want INSTANTIATED after restart", c.PresenceState)
	}
}

func TestTransitionPresenceRejectsInvalidEdge(t *testing.T) {
	_, e, _ := setupComponent(t)
	err := e.transitionPresence("safComp=c1", model.PresenceTerminating)
	if err == nil {
		t.Fatal("expected error transitioning UNINSTANTIATED -> TERMINATING")
	}
	if model.AsFault(err).Kind != model.KindUnrecoverable {
		t.Fatalf("kind = %v, want Unrecoverable", model.AsFault(err).Kind)
	}
}

func TestSUInstantiateAndTerminate(t *testing.T) {
	m, e, _ := setupComponent(t)
	if err := e.Instantiate(context.Background(), "safSu=su1"); err != nil {
		t.Fatalf("SU instantiate: %v", err)
	}
	su, _ := m.GetSU("safSu=su1")
	if su.Presence != model.PresenceInstantiated {
		t.Fatalf("SU presence = %v, want INSTANTIATED", su.Presence)
	}
	if err := e.Terminate(context.Background(), "safSu=su1"); err != nil {
		t.Fatalf("SU terminate: %v", err)
	}
	su, _ = m.GetSU("safSu=su1")
	if su.Presence != model.PresenceUninstantiated {
		t.Fatalf("SU presence = %v, want UNINSTANTIATED", su.Presence)
	}
}
