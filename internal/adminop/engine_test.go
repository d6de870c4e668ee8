package adminop

import (
	"context"
	"testing"
	"time"

	"amfcore/internal/assignment"
	"amfcore/internal/model"
)

type fakeCLD struct {
	terminated []string
	instantiated []string
	restarted  []string
}

func (f *fakeCLD) Restart(ctx context.Context, dn string) error {
	f.restarted = append(f.restarted, dn)
	return nil
}
func (f *fakeCLD) Terminate(ctx context.Context, dn string) error {
	f.terminated = append(f.terminated, dn)
	return nil
}
func (f *fakeCLD) Instantiate(ctx context.Context, dn string) error {
	f.instantiated = append(f.instantiated, dn)
	return nil
}

func setup(t *testing.T) (*model.Model, *Engine, *fakeCLD) {
	t.Helper()
	m := model.New()
	m.SetCluster(&model.Cluster{DN: "safAmfCluster=c1"})
	if err := m.CreateNode(&model.Node{DN: "safAmfNode=node1", OperState: model.OperEnabled, AdminState: model.AdminUnlocked}); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	sg := &model.SG{DN: "safSg=sg1", RedundancyModel: model.RedundancyNoRedundancy}
	if err := m.CreateSG(sg); err != nil {
		t.Fatalf("CreateSG: %v", err)
	}
	su := &model.SU{DN: "safSu=su1", ParentSGDN: sg.DN, ParentNodeDN: "safAmfNode=node1", OperState: model.OperEnabled, AdminState: model.AdminUnlocked}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	asgn := assignment.New(m)
	eng := New(m, asgn)
	cld := &fakeCLD{}
	eng.SetLifecycleDriver(cld)
	return m, eng, cld
}

func TestLockSUUnassignsIts(t *testing.T) {
	m, eng, _ := setup(t)
	si := &model.SI{DN: "safSi=si1", ParentSGDN: "safSg=sg1"}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	a := &model.Assignment{DN: model.AssignmentDN("safSu=su1", si.DN), SUDN: "safSu=su1", SIDN: si.DN, HAState: model.HAActive}
	if err := m.CreateAssignment(a); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if err := eng.Execute(context.Background(), "safSu=su1", model.OpLock, time.Second); err != nil {
		t.Fatalf("Execute LOCK: %v", err)
	}
	gotSU, _ := m.GetSU("safSu=su1")
	if gotSU.AdminState != model.AdminLocked {
		t.Fatalf("expected SU LOCKED, got %s", gotSU.AdminState)
	}
	if len(gotSU.AssignmentDNs) != 0 {
		t.Fatalf("expected assignments cleared, got %v", gotSU.AssignmentDNs)
	}
}

func TestLockInstantiationCallsTerminate(t *testing.T) {
	m, eng, cld := setup(t)
	if err := eng.Execute(context.Background(), "safSu=su1", model.OpLockInstantiation, time.Second); err != nil {
		t.Fatalf("Execute LOCK-INSTANTIATION: %v", err)
	}
	if len(cld.terminated) != 1 || cld.terminated[0] != "safSu=su1" {
		t.Fatalf("expected Terminate called on safSu=su1, got %v", cld.terminated)
	}
	gotSU, _ := m.GetSU("safSu=su1")
	if gotSU.AdminState != model.AdminLockedInstantiation {
		t.Fatalf("expected LOCKED-INSTANTIATION, got %s", gotSU.AdminState)
	}
}

func TestRestartRejectedOnTwoN(t *testing.T) {
	m, eng, _ := setup(t)
	sg, _ := m.GetSG("safSg=sg1")
	sg.RedundancyModel = model.Redundancy2N
	ct := &model.ComponentType{DN: "safCompType=ct1"}
	if err := m.CreateComponentType(ct); err != nil {
		t.Fatalf("CreateComponentType: %v", err)
	}
	comp := model.NewComponentFromType("safComp=comp1", "safSu=su1", ct)
	if err := m.CreateComponent(comp); err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}
	err := eng.Execute(context.Background(), "safComp=comp1", model.OpRestart, time.Second)
	if err == nil {
		t.Fatal("expected RESTART to be rejected on a 2N SG")
	}
}

func TestEAMStartNotSupported(t *testing.T) {
	m, eng, _ := setup(t)
	_ = m
	err := eng.Execute(context.Background(), "safSu=su1", model.OpEAMStart, time.Second)
	if err == nil {
		t.Fatal("expected EAM-START to be rejected")
	}
}
