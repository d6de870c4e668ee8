// Package assignment implements the Assignment Engine (spec §4.3): the SG
// FSM (STABLE/SG-REALIGN/SU-OPER/SI-OPER/ADMIN) and the per-redundancy-model
// SU-SI placement rules dispatched through Ruleset.
package assignment

import (
	"sort"

	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

// Engine drives SI placement for every SG in the Entity Model. It never
// holds SG/SU/SI state itself — every decision reads the Model fresh and
// writes back through the Model's mutation primitives, matching the
// Config Adapter's stateless-handler discipline (spec §4.2 note) applied to
// the Assignment Engine.
type Engine struct {
	m *model.Model
}

// New builds an Engine bound to m.
func New(m *model.Model) *Engine {
	return &Engine{m: m}
}

// requireStable enforces the FSM precondition: the operation may only start
// from STABLE, else it fails TRY-AGAIN. SINew, RealignSG and SUInService
// check it; SUFault, SIAdminDown, SUAdminDown and Swap run without it.
func (e *Engine) requireStable(sg *model.SG) error {
	if sg.FSMState != model.SGStable {
		return model.NewFault(model.KindBusy, sg.DN, "SG is not STABLE, operation rejected")
	}
	return nil
}

// candidatesFor returns sg's member SUs that are currently eligible to
// receive a new assignment: IN-SERVICE readiness, admin UNLOCKED, sorted
// by rank then DN (spec §4.3 "SU candidates by rank then name").
func (e *Engine) candidatesFor(sg *model.SG) []*model.SU {
	var out []*model.SU
	for _, dn := range sg.SUDNs {
		su, ok := e.m.GetSU(dn)
		if !ok {
			continue
		}
		if su.Readiness != model.ReadinessInService || su.AdminState != model.AdminUnlocked {
			continue
		}
		suCopy := su
		out = append(out, suCopy)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].DN < out[j].DN
	})
	return out
}

func (e *Engine) existingAssignments(si *model.SI) map[string]model.HAState {
	out := map[string]model.HAState{}
	for _, adn := range si.AssignmentDNs {
		a, ok := e.m.GetAssignment(adn)
		if !ok {
			continue
		}
		out[a.SUDN] = a.HAState
	}
	return out
}

// applyPlacements diffs the ruleset's desired placement against si's
// current assignments: creates missing edges, updates HA state on changed
// ones, and unassigns (marks UNASSIGNING and deletes) edges no longer
// wanted.
func (e *Engine) applyPlacements(si *model.SI, placements []Placement) error {
	existing := e.existingAssignments(si)
	wanted := map[string]model.HAState{}
	for _, p := range placements {
		wanted[p.SUDN] = p.HA
	}

	for suDN, ha := range wanted {
		dn := model.AssignmentDN(suDN, si.DN)
		if curHA, ok := existing[suDN]; ok {
			if curHA != ha {
				if err := e.m.SetAssignmentHAState(dn, ha); err != nil {
					return err
				}
			}
			continue
		}
		a := &model.Assignment{DN: dn, SUDN: suDN, SIDN: si.DN, HAState: ha, EdgeState: model.EdgeAssigning}
		if err := e.m.CreateAssignment(a); err != nil {
			return err
		}
		if err := e.m.SetAssignmentEdgeState(dn, model.EdgeAssigned); err != nil {
			return err
		}
	}
	for suDN := range existing {
		if _, stillWanted := wanted[suDN]; !stillWanted {
			dn := model.AssignmentDN(suDN, si.DN)
			if err := e.m.SetAssignmentEdgeState(dn, model.EdgeUnassigning); err != nil {
				return err
			}
			if err := e.m.DeleteAssignment(dn); err != nil {
				return err
			}
		}
	}
	return e.recomputeSIState(si.DN)
}

// recomputeSIState derives AssignmentState from the edges now present,
// using the per-model active/standby expectation on the parent SG (spec
// §4.3 "derived counters and AssignmentState recomputed on every edge
// change using the per-model mapping table").
func (e *Engine) recomputeSIState(siDN string) error {
	si, ok := e.m.GetSI(siDN)
	if !ok {
		return nil
	}
	active, standby := 0, 0
	for _, adn := range si.AssignmentDNs {
		a, ok := e.m.GetAssignment(adn)
		if !ok {
			continue
		}
		switch a.HAState {
		case model.HAActive:
			active++
		case model.HAStandby:
			standby++
		}
	}
	state := model.SIUnassigned
	switch {
	case active > 0 && (si.PreferredStandbyAssignments == 0 || standby >= si.PreferredStandbyAssignments):
		state = model.SIFullyAssigned
	case active > 0 || standby > 0:
		state = model.SIPartiallyAssigned
	}
	return e.m.SetSIAssignmentState(siDN, state)
}

// SINew places a newly-created SI for the first time (spec §4.3 operation
// si_new).
func (e *Engine) SINew(siDN string) error {
	si, ok := e.m.GetSI(siDN)
	if !ok {
		return model.NewFault(model.KindNotExist, siDN, "SI does not exist")
	}
	sg, ok := e.m.GetSG(si.ParentSGDN)
	if !ok {
		return model.NewFault(model.KindNotExist, si.ParentSGDN, "parent SG does not exist")
	}
	if err := e.requireStable(sg); err != nil {
		return err
	}
	if !DependenciesSatisfied(e.m, si) {
		logging.Notice("assignment", nil, "SI %s deferred: sponsor dependency not satisfied", siDN)
		return nil
	}
	rs := RulesetFor(sg.RedundancyModel)
	placements := rs.PlaceSI(sg, si, e.candidatesFor(sg), e.existingAssignments(si))
	return e.applyPlacements(si, placements)
}

// RealignSG re-derives placement for every SI in sgDN from scratch, the same
// re-selection SUInService drives after an SU recovers. The Config Adapter
// calls this after a PreferredNumActiveSUs/PreferredNumStandbySUs change
// (spec §8 scenario 2: shrinking a PrefActive count must quiesce the excess
// assignment and converge the counters), since a preference change has no
// SU/SI edge of its own to react to otherwise.
func (e *Engine) RealignSG(sgDN string) error {
	sg, ok := e.m.GetSG(sgDN)
	if !ok {
		return model.NewFault(model.KindNotExist, sgDN, "SG does not exist")
	}
	if err := e.requireStable(sg); err != nil {
		return err
	}
	return e.realignSG(sg)
}

// SUInService re-evaluates every SI in sg's group once a previously
// out-of-service SU becomes eligible again (spec §4.3 operation su_insvc),
// picking up SIs that were left partially/unassigned for lack of capacity.
func (e *Engine) SUInService(suDN string) error {
	su, ok := e.m.GetSU(suDN)
	if !ok {
		return model.NewFault(model.KindNotExist, suDN, "SU does not exist")
	}
	sg, ok := e.m.GetSG(su.ParentSGDN)
	if !ok {
		return model.NewFault(model.KindNotExist, su.ParentSGDN, "parent SG does not exist")
	}
	if err := e.requireStable(sg); err != nil {
		return err
	}
	return e.realignSG(sg)
}

// SUFault reassigns every SI currently served by a faulted SU (spec §4.3
// operation su_fault), using the partial-failure rollback-and-operation-list
// protocol: the SG enters SU-OPER while outstanding reassignments drain.
func (e *Engine) SUFault(suDN string) error {
	su, ok := e.m.GetSU(suDN)
	if !ok {
		return model.NewFault(model.KindNotExist, suDN, "SU does not exist")
	}
	sg, ok := e.m.GetSG(su.ParentSGDN)
	if !ok {
		return model.NewFault(model.KindNotExist, su.ParentSGDN, "parent SG does not exist")
	}
	if err := e.m.SetSGFSMState(sg.DN, model.SGSUOper); err != nil {
		return err
	}
	affected := append([]string(nil), su.AssignmentDNs...)
	for _, adn := range affected {
		a, ok := e.m.GetAssignment(adn)
		if !ok {
			continue
		}
		siDN := a.SIDN
		if err := e.m.DeleteAssignment(adn); err != nil {
			return err
		}
		if err := e.recomputeSIState(siDN); err != nil {
			return err
		}
	}
	if err := e.realignSG(sg); err != nil {
		return err
	}
	return e.m.SetSGFSMState(sg.DN, model.SGStable)
}

// realignSG re-derives placement for every SI in sg, highest rank first
// (spec §4.3 "SI rank high-to-low"), leaving the SG in SG-REALIGN for the
// duration.
func (e *Engine) realignSG(sg *model.SG) error {
	if err := e.m.SetSGFSMState(sg.DN, model.SGRealign); err != nil {
		return err
	}
	sis := append([]string(nil), sg.SIDNs...)
	sort.SliceStable(sis, func(i, j int) bool {
		si1, _ := e.m.GetSI(sis[i])
		si2, _ := e.m.GetSI(sis[j])
		if si1 == nil || si2 == nil {
			return false
		}
		return si1.RankOrZeroLowest() < si2.RankOrZeroLowest() // lowest numeric rank first, rank 0 last
	})
	for _, siDN := range sis {
		si, ok := e.m.GetSI(siDN)
		if !ok || !DependenciesSatisfied(e.m, si) {
			continue
		}
		rs := RulesetFor(sg.RedundancyModel)
		placements := rs.PlaceSI(sg, si, e.candidatesFor(sg), e.existingAssignments(si))
		if err := e.applyPlacements(si, placements); err != nil {
			return err
		}
	}
	return e.m.SetSGFSMState(sg.DN, model.SGStable)
}

// SIAdminDown unassigns every edge for si (spec §4.3 operation
// si_admin_down), used by the Admin Operation Engine's LOCK handling.
func (e *Engine) SIAdminDown(siDN string) error {
	si, ok := e.m.GetSI(siDN)
	if !ok {
		return model.NewFault(model.KindNotExist, siDN, "SI does not exist")
	}
	for _, adn := range append([]string(nil), si.AssignmentDNs...) {
		if err := e.m.SetAssignmentEdgeState(adn, model.EdgeUnassigning); err != nil {
			return err
		}
		if err := e.m.DeleteAssignment(adn); err != nil {
			return err
		}
	}
	return e.recomputeSIState(siDN)
}

// SUAdminDown unassigns every edge hosted on su (spec §4.3 operation
// su_admin_down), used by the Admin Operation Engine's per-SU LOCK/SHUTDOWN
// handling; SHUTDOWN should instead drive SUs through QUIESCING first —
// that transition is owned by internal/adminop, which calls SetSUReadiness
// before invoking this once draining completes.
func (e *Engine) SUAdminDown(suDN string) error {
	su, ok := e.m.GetSU(suDN)
	if !ok {
		return model.NewFault(model.KindNotExist, suDN, "SU does not exist")
	}
	for _, adn := range append([]string(nil), su.AssignmentDNs...) {
		a, ok := e.m.GetAssignment(adn)
		if !ok {
			continue
		}
		siDN := a.SIDN
		if err := e.m.DeleteAssignment(adn); err != nil {
			return err
		}
		if err := e.recomputeSIState(siDN); err != nil {
			return err
		}
	}
	return nil
}

// Swap performs SA_AMF_ADMIN_SI_SWAP (2N only per spec §4.4): the active
// and standby SUs for si trade HA state.
func (e *Engine) Swap(siDN string) error {
	si, ok := e.m.GetSI(siDN)
	if !ok {
		return model.NewFault(model.KindNotExist, siDN, "SI does not exist")
	}
	sg, ok := e.m.GetSG(si.ParentSGDN)
	if !ok {
		return model.NewFault(model.KindNotExist, si.ParentSGDN, "parent SG does not exist")
	}
	if sg.RedundancyModel != model.Redundancy2N {
		return model.NewFault(model.KindPrecondition, siDN, "SI-SWAP is only supported for 2N redundancy")
	}
	var activeSU, standbySU string
	for suDN, ha := range e.existingAssignments(si) {
		switch ha {
		case model.HAActive:
			activeSU = suDN
		case model.HAStandby:
			standbySU = suDN
		}
	}
	if activeSU == "" || standbySU == "" {
		return model.NewFault(model.KindPrecondition, siDN, "SI-SWAP requires both an active and a standby assignment")
	}
	if err := e.m.SetAssignmentHAState(model.AssignmentDN(activeSU, siDN), model.HAStandby); err != nil {
		return err
	}
	return e.m.SetAssignmentHAState(model.AssignmentDN(standbySU, siDN), model.HAActive)
}
