package model

// Readiness and rank derivation (spec §4.1 "any time operational-state,
// admin-state, hosting node's admin/oper-state, or any containing
// node-group's admin-state changes, every affected SU's readiness is
// recomputed") and dependency-graph helpers (spec §3 CSI/SI invariants).
// These are called only from within the locked CRUD setters in crud.go, so
// they assume m.mu is already held for writing.

// recomputeReadinessForNodeLocked recomputes readiness for every SU hosted
// on the node, since a node-level admin/oper change can flip all of them.
func (m *Model) recomputeReadinessForNodeLocked(nodeDN string) {
	n, ok := m.nodes[nodeDN]
	if !ok {
		return
	}
	for _, suDN := range n.AllSUDNs() {
		m.recomputeReadinessForSULocked(suDN)
	}
}

// recomputeReadinessForSULocked derives SU.Readiness from the SU's own
// admin/oper state plus its hosting Node's admin/oper state and any
// NodeGroup the node belongs to (spec §3 SU invariant, §4.1 ADD note).
//
// IN-SERVICE requires: SU oper=ENABLED, SU admin=UNLOCKED, hosting node
// oper=ENABLED, hosting node admin=UNLOCKED, and no membership NodeGroup
// LOCKED. Anything else is OUT-OF-SERVICE, except the transitional STOPPING
// state which the Assignment Engine sets explicitly during a quiescing
// admin operation and which this recompute must not clobber while a
// quiesce is in flight (callers that need STOPPING call SetSUReadiness
// directly instead of going through an admin/oper setter).
func (m *Model) recomputeReadinessForSULocked(suDN string) {
	su, ok := m.sus[suDN]
	if !ok {
		return
	}
	if su.Readiness == ReadinessStopping {
		return
	}
	ready := su.localReadinessOK()
	if ready {
		if n, ok := m.nodes[su.ParentNodeDN]; ok {
			if n.OperState != OperEnabled || n.AdminState != AdminUnlocked {
				ready = false
			}
			for _, gdn := range n.NodeGroupDNs {
				if g, ok := m.nodeGroups[gdn]; ok && g.AdminState == AdminLocked {
					ready = false
				}
			}
		} else {
			ready = false
		}
	}
	next := ReadinessOutOfService
	if ready {
		next = ReadinessInService
	}
	if su.Readiness != next {
		su.Readiness = next
		m.emitUpdate(KindSU, suDN, "Readiness", Int32(int32(next)))
		m.notifyRuntime(KindSU, suDN, "saAmfSUReadinessState", Int32(int32(next)))
	}
}

// SetSUReadiness is the explicit override used by the Assignment Engine to
// drive the transitional STOPPING readiness during a quiescing admin
// operation (spec §4.4); ordinary admin/oper changes never set it directly.
func (m *Model) SetSUReadiness(suDN string, r ReadinessState) error {
	m.lock()
	defer m.unlock()
	su, ok := m.sus[suDN]
	if !ok {
		return NewFault(KindNotExist, suDN, "SU does not exist")
	}
	su.Readiness = r
	m.emitUpdate(KindSU, suDN, "Readiness", Int32(int32(r)))
	m.notifyRuntime(KindSU, suDN, "saAmfSUReadinessState", Int32(int32(r)))
	return nil
}

// computeCSIRankLocked returns 1 + max(sponsor rank), or 1 if depDNs is
// empty (spec §3 CSI invariant).
func (m *Model) computeCSIRankLocked(depDNs []string) int {
	max := 0
	for _, dep := range depDNs {
		if csi, ok := m.csis[dep]; ok && csi.Rank > max {
			max = csi.Rank
		}
	}
	return max + 1
}

// recomputeCSIRankLocked recomputes one CSI's rank after one of its
// dependencies changed (added or removed), and cascades to every CSI that
// in turn depends on it, since rank is transitively derived.
func (m *Model) recomputeCSIRankLocked(dn string) {
	csi, ok := m.csis[dn]
	if !ok {
		return
	}
	newRank := m.computeCSIRankLocked(csi.DependencyDNs)
	if newRank == csi.Rank {
		return
	}
	csi.Rank = newRank
	if si, ok := m.sis[csi.ParentSIDN]; ok {
		si.CSIDNs = removeStr(si.CSIDNs, dn)
		si.CSIDNs = insertByRank(si.CSIDNs, dn, func(d string) int { return m.csis[d].Rank })
	}
	for odn, other := range m.csis {
		if containsStr(other.DependencyDNs, dn) {
			m.recomputeCSIRankLocked(odn)
		}
		_ = odn
	}
}

// csiDependencyCycleLocked reports whether adding a CSI named newDN with
// dependencies newDeps would create a cycle in the CSI dependency graph
// (spec §8 testable property: "dependency graphs among CSIs/SIs never
// contain a cycle"). It walks from each proposed dependency's own
// dependencies looking for a path back to newDN.
func (m *Model) csiDependencyCycleLocked(newDN string, newDeps []string) bool {
	visited := map[string]bool{}
	var walk func(dn string) bool
	walk = func(dn string) bool {
		if dn == newDN {
			return true
		}
		if visited[dn] {
			return false
		}
		visited[dn] = true
		csi, ok := m.csis[dn]
		if !ok {
			return false
		}
		for _, d := range csi.DependencyDNs {
			if walk(d) {
				return true
			}
		}
		return false
	}
	for _, d := range newDeps {
		if walk(d) {
			return true
		}
	}
	return false
}

// siDependencyCycleLocked is the SI-level analogue used by CreateSI.
func (m *Model) siDependencyCycleLocked(newDN string, newDeps []string) bool {
	visited := map[string]bool{}
	var walk func(dn string) bool
	walk = func(dn string) bool {
		if dn == newDN {
			return true
		}
		if visited[dn] {
			return false
		}
		visited[dn] = true
		si, ok := m.sis[dn]
		if !ok {
			return false
		}
		for _, d := range si.DependencyDNs {
			if walk(d) {
				return true
			}
		}
		return false
	}
	for _, d := range newDeps {
		if walk(d) {
			return true
		}
	}
	return false
}
