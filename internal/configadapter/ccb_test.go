package configadapter

import (
	"testing"

	"amfcore/internal/assignment"
	"amfcore/internal/model"
)

func TestLoadInitialCreatesTopDown(t *testing.T) {
	m := model.New()
	reg := Registry(assignment.New(m))
	objs := []Object{
		{Class: ClassCluster, DN: "safAmfCluster=1", Attrs: RawObject{}},
		{Class: ClassNode, DN: "safAmfNode=node1", Attrs: RawObject{"saAmfNodeAdminState": "UNLOCKED"}},
		{Class: ClassSG, DN: "safSg=sg1", Attrs: RawObject{"saAmfSGRedundancyModel": "NO-REDUNDANCY"}},
		{Class: ClassSU, DN: "safSu=su1", ParentDN: "safSg=sg1", Attrs: RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"}},
		{Class: ClassComponentType, DN: "safCompType=web", Attrs: RawObject{"saAmfCtDefaultClcCliInstantiate": "/bin/true"}},
		{Class: ClassComponent, DN: "safComp=c1", ParentDN: "safSu=su1", Attrs: RawObject{"saAmfCompType": "safCompType=web"}},
	}
	if err := LoadInitial(m, reg, objs); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if _, ok := m.GetSU("safSu=su1"); !ok {
		t.Fatal("expected SU to exist")
	}
	if _, ok := m.GetComponent("safComp=c1"); !ok {
		t.Fatal("expected component to exist")
	}
}

func TestLoadInitialOrdersCreatesByDepthRegardlessOfInputOrder(t *testing.T) {
	m := model.New()
	reg := Registry(assignment.New(m))
	// Deliberately out of dependency order: component and SU precede their
	// parents in the input slice.
	objs := []Object{
		{Class: ClassComponent, DN: "safComp=c1", ParentDN: "safSu=su1", Attrs: RawObject{"saAmfCompType": "safCompType=web"}},
		{Class: ClassSU, DN: "safSu=su1", ParentDN: "safSg=sg1", Attrs: RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"}},
		{Class: ClassComponentType, DN: "safCompType=web", Attrs: RawObject{}},
		{Class: ClassSG, DN: "safSg=sg1", Attrs: RawObject{"saAmfSGRedundancyModel": "NO-REDUNDANCY"}},
		{Class: ClassNode, DN: "safAmfNode=node1", Attrs: RawObject{}},
	}
	if err := LoadInitial(m, reg, objs); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if _, ok := m.GetComponent("safComp=c1"); !ok {
		t.Fatal("expected component to exist once parents are created first")
	}
}

func TestCCBValidateRejectsUnknownClass(t *testing.T) {
	ccb := New("ccb1", Registry(assignment.New(model.New())))
	ccb.AddCreate(ObjectClass("NotARealClass"), "x=1", "", RawObject{})
	if err := ccb.Validate(); err == nil {
		t.Fatal("expected validate to reject an unknown class")
	}
}

func TestCCBValidateRejectsCreateWithoutParent(t *testing.T) {
	ccb := New("ccb1", Registry(assignment.New(model.New())))
	ccb.AddCreate(ClassSU, "safSu=su1", "", RawObject{})
	if err := ccb.Validate(); err == nil {
		t.Fatal("expected validate to reject a non-root create without a parent DN")
	}
}

func TestCCBModifyUpdatesSGTunables(t *testing.T) {
	m := model.New()
	reg := Registry(assignment.New(m))
	ccb := New("ccb1", reg)
	ccb.AddCreate(ClassSG, "safSg=sg1", "", RawObject{"saAmfSGRedundancyModel": "2N"})
	if err := ccb.Apply(m); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ccb2 := New("ccb2", reg)
	ccb2.AddModify(ClassSG, "safSg=sg1", RawObject{"saAmfSGNumPrefActiveSUs": "3"})
	if err := ccb2.Apply(m); err != nil {
		t.Fatalf("apply modify: %v", err)
	}
	g, _ := m.GetSG("safSg=sg1")
	if g.PreferredNumActiveSUs != 3 {
		t.Fatalf("PreferredNumActiveSUs = %d, want 3", g.PreferredNumActiveSUs)
	}
}

// TestCCBModifySGShrinkPreferredActiveRealigns covers the N-way-active
// shrink scenario (spec §8 scenario 2): lowering PreferredNumActiveSUs from
// 3 to 2 must quiesce one of the three existing assignments, converging the
// SI's active count to 2, without the caller driving the Assignment Engine
// itself.
func TestCCBModifySGShrinkPreferredActiveRealigns(t *testing.T) {
	m := model.New()
	asgn := assignment.New(m)
	reg := Registry(asgn)
	ccb := New("ccb1", reg)
	ccb.AddCreate(ClassSG, "safSg=sg1", "", RawObject{
		"saAmfSGRedundancyModel":   "N-WAY-ACTIVE",
		"saAmfSGNumPrefActiveSUs":  "3",
		"saAmfSGNumPrefStandbySUs": "0",
	})
	ccb.AddCreate(ClassNode, "safAmfNode=node1", "", RawObject{"saAmfNodeAdminState": "UNLOCKED"})
	ccb.AddCreate(ClassSU, "safSu=su1", "safSg=sg1", RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"})
	ccb.AddCreate(ClassSU, "safSu=su2", "safSg=sg1", RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"})
	ccb.AddCreate(ClassSU, "safSu=su3", "safSg=sg1", RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"})
	ccb.AddCreate(ClassSI, "safSi=si1", "safSg=sg1", RawObject{"saAmfSIPrefStandbyAssignments": "0"})
	if err := ccb.Apply(m); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := m.SetNodeOperState("safAmfNode=node1", model.OperEnabled); err != nil {
		t.Fatalf("SetNodeOperState: %v", err)
	}
	for _, suDN := range []string{"safSu=su1", "safSu=su2", "safSu=su3"} {
		if err := m.SetSUOperState(suDN, model.OperEnabled); err != nil {
			t.Fatalf("SetSUOperState(%s): %v", suDN, err)
		}
	}

	if err := asgn.SINew("safSi=si1"); err != nil {
		t.Fatalf("SINew: %v", err)
	}
	si, _ := m.GetSI("safSi=si1")
	if len(si.AssignmentDNs) != 3 {
		t.Fatalf("expected 3 initial active assignments, got %d", len(si.AssignmentDNs))
	}

	ccb2 := New("ccb2", reg)
	ccb2.AddModify(ClassSG, "safSg=sg1", RawObject{"saAmfSGNumPrefActiveSUs": "2"})
	if err := ccb2.Apply(m); err != nil {
		t.Fatalf("apply shrink modify: %v", err)
	}

	si, _ = m.GetSI("safSi=si1")
	if len(si.AssignmentDNs) != 2 {
		t.Fatalf("expected realign to converge to 2 active assignments, got %d", len(si.AssignmentDNs))
	}
	if si.AssignmentState != model.SIFullyAssigned {
		t.Fatalf("expected SI to be FULLY-ASSIGNED after realign, got %s", si.AssignmentState)
	}
}

func TestCCBDeletesBottomUp(t *testing.T) {
	m := model.New()
	reg := Registry(assignment.New(m))
	load := New("load", reg)
	load.AddCreate(ClassSG, "safSg=sg1", "", RawObject{"saAmfSGRedundancyModel": "NO-REDUNDANCY"})
	load.AddCreate(ClassNode, "safAmfNode=node1", "", RawObject{})
	load.AddCreate(ClassSU, "safSu=su1", "safSg=sg1", RawObject{"saAmfSUHostedByNode": "safAmfNode=node1"})
	if err := load.Apply(m); err != nil {
		t.Fatalf("load: %v", err)
	}

	del := New("del", reg)
	del.AddDelete(ClassSG, "safSg=sg1")
	del.AddDelete(ClassSU, "safSu=su1")
	if err := del.Apply(m); err != nil {
		t.Fatalf("delete SU-then-SG (bottom-up) should succeed: %v", err)
	}
	if _, ok := m.GetSU("safSu=su1"); ok {
		t.Fatal("expected SU to be deleted")
	}
	if _, ok := m.GetSG("safSg=sg1"); ok {
		t.Fatal("expected SG to be deleted")
	}
}

// TestCSIModifyRejectedButRecreateRecomputesRank covers spec §8 scenario 3
// (add saAmfCSIDependencies to an existing csi2, rank -> 2) via the
// delete-then-recreate path csiHandler.Modify forces: an in-place dependency
// change is rejected, but deleting and recreating csi2 with the new
// dependency reaches the same end state.
func TestCSIModifyRejectedButRecreateRecomputesRank(t *testing.T) {
	m := model.New()
	reg := Registry(assignment.New(m))
	ccb := New("ccb1", reg)
	ccb.AddCreate(ClassSG, "safSg=sg1", "", RawObject{"saAmfSGRedundancyModel": "NO-REDUNDANCY"})
	ccb.AddCreate(ClassSI, "safSi=si1", "safSg=sg1", RawObject{})
	ccb.AddCreate(ClassCSI, "safCsi=csi1", "safSi=si1", RawObject{"saAmfCSType": "csType=1"})
	ccb.AddCreate(ClassCSI, "safCsi=csi2", "safSi=si1", RawObject{"saAmfCSType": "csType=1"})
	if err := ccb.Apply(m); err != nil {
		t.Fatalf("apply: %v", err)
	}
	csi2, _ := m.GetCSI("safCsi=csi2")
	if csi2.Rank != 1 {
		t.Fatalf("expected csi2 rank 1 with no dependencies, got %d", csi2.Rank)
	}

	rejected := New("ccb2", reg)
	rejected.AddModify(ClassCSI, "safCsi=csi2", RawObject{"saAmfCSIDependencies": "safCsi=csi1"})
	if err := rejected.Apply(m); err == nil {
		t.Fatal("expected in-place CSI dependency modify to be rejected")
	}

	// A CCB applies every create before any delete regardless of submission
	// order, so the delete and the recreate must be two separate bundles.
	del := New("ccb3", reg)
	del.AddDelete(ClassCSI, "safCsi=csi2")
	if err := del.Apply(m); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	recreate := New("ccb4", reg)
	recreate.AddCreate(ClassCSI, "safCsi=csi2", "safSi=si1", RawObject{
		"saAmfCSType":          "csType=1",
		"saAmfCSIDependencies": "safCsi=csi1",
	})
	if err := recreate.Apply(m); err != nil {
		t.Fatalf("apply recreate: %v", err)
	}
	csi2, ok := m.GetCSI("safCsi=csi2")
	if !ok {
		t.Fatal("expected csi2 to exist after recreate")
	}
	if csi2.Rank != 2 {
		t.Fatalf("expected csi2 rank 2 after depending on csi1, got %d", csi2.Rank)
	}
}

func TestEnvFallbackPrefersAttrOverEnv(t *testing.T) {
	env := EnvFallback{Lookup: func(key string) (string, bool) { return "99", true }}
	got := env.Int(RawObject{"saAmfNodeSuFailOverMax": "5"}, "saAmfNodeSuFailOverMax", "AMF_NODE_SU_FAIL_OVER_MAX", 0)
	if got != 5 {
		t.Fatalf("got %d, want 5 (attribute should win over env)", got)
	}
}

func TestEnvFallbackUsesEnvWhenAttrMissing(t *testing.T) {
	env := EnvFallback{Lookup: func(key string) (string, bool) {
		if key == "AMF_NODE_SU_FAIL_OVER_MAX" {
			return "7", true
		}
		return "", false
	}}
	got := env.Int(RawObject{}, "saAmfNodeSuFailOverMax", "AMF_NODE_SU_FAIL_OVER_MAX", 0)
	if got != 7 {
		t.Fatalf("got %d, want 7 from env fallback", got)
	}
}

func TestEnvFallbackKeepsDefaultOnUnparseable(t *testing.T) {
	env := EnvFallback{Lookup: func(key string) (string, bool) { return "not-a-number", true }}
	got := env.Int(RawObject{}, "saAmfNodeSuFailOverMax", "AMF_NODE_SU_FAIL_OVER_MAX", 3)
	if got != 3 {
		t.Fatalf("got %d, want default 3 when env value fails to parse", got)
	}
}

func TestServiceParamNameDerivation(t *testing.T) {
	got := ServiceParamName("saAmfNodeSuFailOverMax")
	want := "AMF_NODE_SU_FAIL_OVER_MAX"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
