package assignment

import (
	"testing"

	"amfcore/internal/model"
)

func setupSG(t *testing.T, rm model.RedundancyModel, numSUs int) (*model.Model, *Engine, *model.SG, []*model.SU) {
	t.Helper()
	m := model.New()
	m.SetCluster(&model.Cluster{DN: "safAmfCluster=c1"})
	sg := &model.SG{DN: "safSg=sg1", RedundancyModel: rm, PreferredNumActiveSUs: 2, PreferredNumStandbySUs: 1}
	if err := m.CreateSG(sg); err != nil {
		t.Fatalf("CreateSG: %v", err)
	}
	var sus []*model.SU
	for i := 0; i < numSUs; i++ {
		nodeDN := "safAmfNode=node" + string(rune('1'+i))
		if err := m.CreateNode(&model.Node{DN: nodeDN, OperState: model.OperEnabled, AdminState: model.AdminUnlocked}); err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		su := &model.SU{DN: "safSu=su" + string(rune('1'+i)), ParentSGDN: sg.DN, ParentNodeDN: nodeDN, Rank: i + 1, OperState: model.OperEnabled, AdminState: model.AdminUnlocked}
		if err := m.CreateSU(su); err != nil {
			t.Fatalf("CreateSU: %v", err)
		}
		got, _ := m.GetSU(su.DN)
		sus = append(sus, got)
	}
	return m, New(m), sg, sus
}

func TestTwoNAssignsOneActiveOneStandby(t *testing.T) {
	m, eng, sg, _ := setupSG(t, model.Redundancy2N, 2)
	si := &model.SI{DN: "safSi=si1", ParentSGDN: sg.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	if err := eng.SINew(si.DN); err != nil {
		t.Fatalf("SINew: %v", err)
	}
	got, _ := m.GetSI(si.DN)
	if got.AssignmentState != model.SIFullyAssigned && got.AssignmentState != model.SIPartiallyAssigned {
		t.Fatalf("expected SI to be assigned, got %s", got.AssignmentState)
	}
	if len(got.AssignmentDNs) != 2 {
		t.Fatalf("expected 2 assignment edges for 2N, got %d", len(got.AssignmentDNs))
	}
}

func TestNoRedundancyAssignsSingleActive(t *testing.T) {
	m, eng, sg, _ := setupSG(t, model.RedundancyNoRedundancy, 1)
	si := &model.SI{DN: "safSi=si1", ParentSGDN: sg.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	if err := eng.SINew(si.DN); err != nil {
		t.Fatalf("SINew: %v", err)
	}
	got, _ := m.GetSI(si.DN)
	if len(got.AssignmentDNs) != 1 {
		t.Fatalf("expected exactly 1 assignment, got %d", len(got.AssignmentDNs))
	}
	a, _ := m.GetAssignment(got.AssignmentDNs[0])
	if a.HAState != model.HAActive {
		t.Fatalf("expected ACTIVE, got %s", a.HAState)
	}
}

func TestSIAssignmentDeferredWhenSponsorUnsatisfied(t *testing.T) {
	m, eng, sg, _ := setupSG(t, model.Redundancy2N, 2)
	sponsor := &model.SI{DN: "safSi=sponsor", ParentSGDN: sg.DN}
	if err := m.CreateSI(sponsor); err != nil {
		t.Fatalf("CreateSI sponsor: %v", err)
	}
	dependent := &model.SI{DN: "safSi=dependent", ParentSGDN: sg.DN, DependencyDNs: []string{sponsor.DN}}
	if err := m.CreateSI(dependent); err != nil {
		t.Fatalf("CreateSI dependent: %v", err)
	}
	if err := eng.SINew(dependent.DN); err != nil {
		t.Fatalf("SINew: %v", err)
	}
	got, _ := m.GetSI(dependent.DN)
	if len(got.AssignmentDNs) != 0 {
		t.Fatalf("expected dependent SI to stay unassigned while sponsor is unsatisfied, got %d edges", len(got.AssignmentDNs))
	}
}

func TestSUFaultReassignsSI(t *testing.T) {
	m, eng, sg, sus := setupSG(t, model.RedundancyNoRedundancy, 2)
	si := &model.SI{DN: "safSi=si1", ParentSGDN: sg.DN}
	if err := m.CreateSI(si); err != nil {
		t.Fatalf("CreateSI: %v", err)
	}
	if err := eng.SINew(si.DN); err != nil {
		t.Fatalf("SINew: %v", err)
	}
	faultedSU := sus[0]
	if err := m.SetSUOperState(faultedSU.DN, model.OperDisabled); err != nil {
		t.Fatalf("SetSUOperState: %v", err)
	}
	if err := eng.SUFault(faultedSU.DN); err != nil {
		t.Fatalf("SUFault: %v", err)
	}
	got, _ := m.GetSI(si.DN)
	if len(got.AssignmentDNs) != 1 {
		t.Fatalf("expected SI reassigned to the surviving SU, got %d edges", len(got.AssignmentDNs))
	}
	a, _ := m.GetAssignment(got.AssignmentDNs[0])
	if a.SUDN != sus[1].DN {
		t.Fatalf("expected reassignment to su2, got %s", a.SUDN)
	}
}
