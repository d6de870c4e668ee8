package checkpoint

import (
	"context"
	"testing"
	"time"

	"amfcore/internal/bus"
	"amfcore/internal/model"
)

// buildActive constructs a small but non-trivial populated Model covering
// every coldSyncOrder kind, so a cold sync exercises every applyCreate
// branch on the standby side.
func buildActive(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	m.SetCluster(&model.Cluster{DN: "safAmfCluster=c1"})
	if err := m.CreateComponentType(&model.ComponentType{DN: "safCompType=ct1"}); err != nil {
		t.Fatalf("CreateComponentType: %v", err)
	}
	if err := m.CreateNode(&model.Node{DN: "safAmfNode=node1", AdminState: model.AdminUnlocked, OperState: model.OperEnabled}); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if err := m.CreateNodeGroup(&model.NodeGroup{DN: "safAmfNodeGroup=ng1", NodeDNs: []string{"safAmfNode=node1"}}); err != nil {
		t.Fatalf("CreateNodeGroup: %v", err)
	}
	sg := &model.SG{DN: "safSg=sg1", RedundancyModel: model.RedundancyNoRedundancy}
	if err := m.CreateSG(sg); err != nil {
		t.Fatalf("CreateSG: %v", err)
	}
	su := &model.SU{DN: "safSu=su1", ParentSGDN: sg.DN, ParentNodeDN: "safAmfNode=node1"}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	ct, _ := m.GetComponentType("safCompType=ct1")
	comp := model.NewComponentFromType("safComp=comp1", su.DN, ct)
	if err := m.CreateComponent(comp); err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}
	si := &model.SI{DN: "safSi=si1", ParentSGDN: sg.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	if err := m.CreateCSI(&model.CSI{DN: "safCsi=csi1", ParentSIDN: si.DN, CSTypeDN: "safCsType=cst1"}); err != nil {
		t.Fatalf("CreateCSI: %v", err)
	}
	return m
}

func waitForStandbyState(t *testing.T, s *Standby, want StandbyState, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("standby did not reach %s within %s (last state %s)", want, timeout, s.State())
}

// TestColdSyncReachesSteadyInSync covers the mandatory end-to-end scenario
// "cold sync: standby ends STEADY-IN-SYNC, every entity create processed
// once, sync-counters equal" (spec §8).
func TestColdSyncReachesSteadyInSync(t *testing.T) {
	active := buildActive(t)
	transport := bus.NewLocalTransport()
	rep := NewReplicator(active, transport, "active1")
	active.SetChangeSink(rep)

	standbyModel := model.New()
	standby := NewStandby(standbyModel, transport)
	unsub := transport.Subscribe("standby1", standby.HandlerFunc())
	defer unsub()

	ctx := context.Background()
	rep.AddSession(ctx, "standby1")
	waitForStandbyState(t, standby, SteadyInSync, time.Second)

	if standby.Counter() != rep.Counter() {
		t.Fatalf("sync counters diverged: standby=%d active=%d", standby.Counter(), rep.Counter())
	}

	wantSnap := active.Snapshot()
	gotSnap := standbyModel.Snapshot()
	if len(gotSnap.Nodes) != len(wantSnap.Nodes) {
		t.Fatalf("node count mismatch: want %d got %d", len(wantSnap.Nodes), len(gotSnap.Nodes))
	}
	if _, ok := gotSnap.Nodes["safAmfNode=node1"]; !ok {
		t.Fatal("node1 missing from standby after cold sync")
	}
	if _, ok := gotSnap.NodeGroups["safAmfNodeGroup=ng1"]; !ok {
		t.Fatal("node group missing from standby after cold sync")
	}
	if _, ok := gotSnap.SGs["safSg=sg1"]; !ok {
		t.Fatal("SG missing from standby after cold sync")
	}
	if _, ok := gotSnap.SUs["safSu=su1"]; !ok {
		t.Fatal("SU missing from standby after cold sync")
	}
	if _, ok := gotSnap.Components["safComp=comp1"]; !ok {
		t.Fatal("component missing from standby after cold sync")
	}
	if _, ok := gotSnap.SIs["safSi=si1"]; !ok {
		t.Fatal("SI missing from standby after cold sync")
	}
	if _, ok := gotSnap.CSIs["safCsi=csi1"]; !ok {
		t.Fatal("CSI missing from standby after cold sync")
	}
	if gotSnap.Cluster == nil || gotSnap.Cluster.DN != "safAmfCluster=c1" {
		t.Fatal("cluster missing from standby after cold sync")
	}
}

// TestColdSyncApplyColdSyncProducesIdenticalSnapshots covers the round-trip
// property "cold-sync → apply → cold-sync produces identical snapshots"
// (spec §8): a live mutation streamed to an already-synced standby must be
// reflected identically in a second standby that only joins afterward via
// its own cold sync.
func TestColdSyncApplyColdSyncProducesIdenticalSnapshots(t *testing.T) {
	active := buildActive(t)
	transport := bus.NewLocalTransport()
	rep := NewReplicator(active, transport, "active1")
	active.SetChangeSink(rep)

	firstModel := model.New()
	first := NewStandby(firstModel, transport)
	unsubFirst := transport.Subscribe("standby1", first.HandlerFunc())
	defer unsubFirst()

	ctx := context.Background()
	rep.AddSession(ctx, "standby1")
	waitForStandbyState(t, first, SteadyInSync, time.Second)

	if err := active.SetNodeOperState("safAmfNode=node1", model.OperDisabled); err != nil {
		t.Fatalf("SetNodeOperState: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if n, ok := firstModel.GetNode("safAmfNode=node1"); ok && n.OperState == model.OperDisabled {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	firstNode, _ := firstModel.GetNode("safAmfNode=node1")
	if firstNode.OperState != model.OperDisabled {
		t.Fatalf("live update never reached first standby, state=%s", firstNode.OperState)
	}

	secondModel := model.New()
	second := NewStandby(secondModel, transport)
	unsubSecond := transport.Subscribe("standby2", second.HandlerFunc())
	defer unsubSecond()

	rep.AddSession(ctx, "standby2")
	waitForStandbyState(t, second, SteadyInSync, time.Second)

	secondNode, ok := secondModel.GetNode("safAmfNode=node1")
	if !ok {
		t.Fatal("second standby missing node1 after its cold sync")
	}
	if secondNode.OperState != model.OperDisabled {
		t.Fatalf("second standby's cold sync did not reflect the prior live update: got %s", secondNode.OperState)
	}
	if len(secondModel.Snapshot().Nodes) != len(firstModel.Snapshot().Nodes) {
		t.Fatal("the two standbys' snapshots disagree on node count")
	}
}
