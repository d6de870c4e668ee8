package model

import "testing"

func newTestModel(t *testing.T) (*Model, *Node, *SG) {
	t.Helper()
	m := New()
	m.SetCluster(&Cluster{DN: "safAmfCluster=myAmf"})

	n := &Node{DN: "safAmfNode=node1", OperState: OperEnabled, AdminState: AdminUnlocked}
	if err := m.CreateNode(n); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	g := &SG{DN: "safSg=sg1", RedundancyModel: Redundancy2N, AdminState: AdminUnlocked}
	if err := m.CreateSG(g); err != nil {
		t.Fatalf("CreateSG: %v", err)
	}
	return m, n, g
}

func TestCreateSUDerivesReadinessInService(t *testing.T) {
	m, _, _ := newTestModel(t)
	su := &SU{DN: "safSu=su1", ParentSGDN: "safSg=sg1", ParentNodeDN: "safAmfNode=node1", Rank: 1, OperState: OperEnabled, AdminState: AdminUnlocked}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	got, _ := m.GetSU("safSu=su1")
	if got.Readiness != ReadinessInService {
		t.Fatalf("expected IN-SERVICE, got %s", got.Readiness)
	}
}

func TestLockingNodeDrivesSUOutOfService(t *testing.T) {
	m, _, _ := newTestModel(t)
	su := &SU{DN: "safSu=su1", ParentSGDN: "safSg=sg1", ParentNodeDN: "safAmfNode=node1", Rank: 1, OperState: OperEnabled, AdminState: AdminUnlocked}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	if err := m.SetNodeAdminState("safAmfNode=node1", AdminLocked); err != nil {
		t.Fatalf("SetNodeAdminState: %v", err)
	}
	got, _ := m.GetSU("safSu=su1")
	if got.Readiness != ReadinessOutOfService {
		t.Fatalf("expected OUT-OF-SERVICE after node lock, got %s", got.Readiness)
	}
}

func TestLockedNodeGroupDrivesSUOutOfService(t *testing.T) {
	m, _, _ := newTestModel(t)
	su := &SU{DN: "safSu=su1", ParentSGDN: "safSg=sg1", ParentNodeDN: "safAmfNode=node1", Rank: 1, OperState: OperEnabled, AdminState: AdminUnlocked}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	grp := &NodeGroup{DN: "safAmfNodeGroup=ng1", AdminState: AdminUnlocked, NodeDNs: []string{"safAmfNode=node1"}}
	if err := m.CreateNodeGroup(grp); err != nil {
		t.Fatalf("CreateNodeGroup: %v", err)
	}
	if err := m.SetNodeGroupAdminState("safAmfNodeGroup=ng1", AdminLocked); err != nil {
		t.Fatalf("SetNodeGroupAdminState: %v", err)
	}
	got, _ := m.GetSU("safSu=su1")
	if got.Readiness != ReadinessOutOfService {
		t.Fatalf("expected OUT-OF-SERVICE after node-group lock, got %s", got.Readiness)
	}
}

func TestCSIRankDerivedFromSponsors(t *testing.T) {
	m, _, g := newTestModel(t)
	si := &SI{DN: "safSi=si1", ParentSGDN: g.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	base := NewCSI("safCsi=base", si.DN, "csType=1")
	if err := m.CreateCSI(base); err != nil {
		t.Fatalf("CreateCSI base: %v", err)
	}
	dependent := NewCSI("safCsi=dep", si.DN, "csType=1")
	dependent.DependencyDNs = []string{base.DN}
	if err := m.CreateCSI(dependent); err != nil {
		t.Fatalf("CreateCSI dependent: %v", err)
	}
	got, _ := m.GetCSI("safCsi=dep")
	if got.Rank != 2 {
		t.Fatalf("expected rank 2, got %d", got.Rank)
	}
}

func TestCSIDependencyCycleRejected(t *testing.T) {
	m, _, g := newTestModel(t)
	si := &SI{DN: "safSi=si1", ParentSGDN: g.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	a := NewCSI("safCsi=a", si.DN, "csType=1")
	if err := m.CreateCSI(a); err != nil {
		t.Fatalf("CreateCSI a: %v", err)
	}
	b := NewCSI("safCsi=b", si.DN, "csType=1")
	b.DependencyDNs = []string{a.DN}
	if err := m.CreateCSI(b); err != nil {
		t.Fatalf("CreateCSI b: %v", err)
	}
	// a now tries to depend on b, which would close a cycle a->b->a.
	cyclic := m.csiDependencyCycleLocked(a.DN, []string{b.DN})
	if !cyclic {
		t.Fatalf("expected cycle detection to reject a->b dependency")
	}
}

func TestDeleteCSIRecomputesDependentRank(t *testing.T) {
	m, _, g := newTestModel(t)
	si := &SI{DN: "safSi=si1", ParentSGDN: g.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	base := NewCSI("safCsi=base", si.DN, "csType=1")
	if err := m.CreateCSI(base); err != nil {
		t.Fatalf("CreateCSI base: %v", err)
	}
	mid := NewCSI("safCsi=mid", si.DN, "csType=1")
	mid.DependencyDNs = []string{base.DN}
	if err := m.CreateCSI(mid); err != nil {
		t.Fatalf("CreateCSI mid: %v", err)
	}
	leaf := NewCSI("safCsi=leaf", si.DN, "csType=1")
	leaf.DependencyDNs = []string{mid.DN}
	if err := m.CreateCSI(leaf); err != nil {
		t.Fatalf("CreateCSI leaf: %v", err)
	}
	if err := m.DeleteCSI(mid.DN); err != nil {
		t.Fatalf("DeleteCSI mid: %v", err)
	}
	got, _ := m.GetCSI(leaf.DN)
	// leaf depended on mid (now gone); DeleteCSI drops mid from leaf's
	// DependencyDNs and recomputes leaf's rank, and with no dependency left
	// leaf falls back to rank 1.
	if got.Rank != 1 {
		t.Fatalf("expected leaf rank to fall back to 1 after sponsor deletion, got %d", got.Rank)
	}
}

func TestDeleteNodeWithHostedSURejected(t *testing.T) {
	m, _, _ := newTestModel(t)
	su := &SU{DN: "safSu=su1", ParentSGDN: "safSg=sg1", ParentNodeDN: "safAmfNode=node1", Rank: 1}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	err := m.DeleteNode("safAmfNode=node1")
	if err == nil {
		t.Fatalf("expected delete of node hosting SU to fail")
	}
	if AsFault(err).Kind != KindPrecondition {
		t.Fatalf("expected KindPrecondition, got %v", AsFault(err).Kind)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	m, _, g := newTestModel(t)
	si := &SI{DN: "safSi=si1", ParentSGDN: g.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	snap := m.Snapshot()
	live := snap.SIs["safSi=si1"]
	live.AssignmentState = SIFullyAssigned

	got, _ := m.GetSI("safSi=si1")
	if got.AssignmentState == SIFullyAssigned {
		t.Fatalf("mutating a snapshot value must not affect the live model")
	}
}

func TestAssignmentDNRoundTrip(t *testing.T) {
	m, _, g := newTestModel(t)
	su := &SU{DN: "safSu=su1", ParentSGDN: g.DN, ParentNodeDN: "safAmfNode=node1", Rank: 1}
	if err := m.CreateSU(su); err != nil {
		t.Fatalf("CreateSU: %v", err)
	}
	si := &SI{DN: "safSi=si1", ParentSGDN: g.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	dn := AssignmentDN(su.DN, si.DN)
	a := &Assignment{DN: dn, SUDN: su.DN, SIDN: si.DN, HAState: HAActive}
	if err := m.CreateAssignment(a); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	gotSU, _ := m.GetSU(su.DN)
	if len(gotSU.AssignmentDNs) != 1 || gotSU.AssignmentDNs[0] != dn {
		t.Fatalf("expected SU to list assignment %s, got %v", dn, gotSU.AssignmentDNs)
	}
	if err := m.DeleteAssignment(dn); err != nil {
		t.Fatalf("DeleteAssignment: %v", err)
	}
	gotSU, _ = m.GetSU(su.DN)
	if len(gotSU.AssignmentDNs) != 0 {
		t.Fatalf("expected assignment unlinked from SU after delete, got %v", gotSU.AssignmentDNs)
	}
}
