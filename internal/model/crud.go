package model

// This file holds the typed Create/Get/Delete primitives for every entity
// kind. Each Create validates parent references exist and the DN is unique,
// stores the entity, cross-links it into its parent's collection, and emits
// a checkpoint create record. Each Delete checks the spec's "no orphan
// references" precondition before unlinking and emitting a checkpoint delete.
// Field-level Update helpers used by the Config Adapter and engines live
// alongside each Create/Delete pair.

// ---- Cluster ----

func (m *Model) SetCluster(c *Cluster) {
	m.lock()
	defer m.unlock()
	m.cluster = c
	m.emitCreate(KindCluster, c.DN, nil)
}

func (m *Model) Cluster() *Cluster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cluster == nil {
		return nil
	}
	cp := *m.cluster
	return &cp
}

// ---- Node ----

func (m *Model) CreateNode(n *Node) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.nodes[n.DN]; ok {
		if existing.sameConfig(n) {
			return nil
		}
		return NewFault(KindExist, n.DN, "node already exists")
	}
	m.nodes[n.DN] = n
	if m.cluster != nil {
		m.cluster.NodeDNs = append(m.cluster.NodeDNs, n.DN)
	}
	m.emitCreate(KindNode, n.DN, nil)
	return nil
}

func (m *Model) GetNode(dn string) (*Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[dn]
	return n, ok
}

// DeleteNode enforces the spec §3 Node lifecycle invariant: a node hosting
// any SU cannot be deleted.
func (m *Model) DeleteNode(dn string) error {
	m.lock()
	defer m.unlock()
	n, ok := m.nodes[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "node does not exist")
	}
	if n.HostsSUs() {
		return NewFault(KindPrecondition, dn, "node hosts SUs, cannot delete")
	}
	delete(m.nodes, dn)
	m.emitDelete(KindNode, dn)
	return nil
}

func (m *Model) SetNodeAdminState(dn string, s AdminState) error {
	m.lock()
	defer m.unlock()
	n, ok := m.nodes[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "node does not exist")
	}
	n.AdminState = s
	m.emitUpdate(KindNode, dn, "AdminState", Int32(int32(s)))
	m.recomputeReadinessForNodeLocked(dn)
	return nil
}

func (m *Model) SetNodeOperState(dn string, s OperState) error {
	m.lock()
	defer m.unlock()
	n, ok := m.nodes[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "node does not exist")
	}
	n.OperState = s
	m.emitUpdate(KindNode, dn, "OperState", Int32(int32(s)))
	m.notifyRuntime(KindNode, dn, "saAmfNodeOperState", Int32(int32(s)))
	m.recomputeReadinessForNodeLocked(dn)
	return nil
}

// ---- NodeGroup ----

func (m *Model) CreateNodeGroup(g *NodeGroup) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.nodeGroups[g.DN]; ok {
		if existing.sameConfig(g) {
			return nil
		}
		return NewFault(KindExist, g.DN, "node group already exists")
	}
	for _, ndn := range g.NodeDNs {
		n, ok := m.nodes[ndn]
		if !ok {
			return NewFault(KindNotExist, ndn, "member node does not exist")
		}
		n.NodeGroupDNs = append(n.NodeGroupDNs, g.DN)
	}
	m.nodeGroups[g.DN] = g
	m.emitCreate(KindNodeGroup, g.DN, nil)
	return nil
}

func (m *Model) GetNodeGroup(dn string) (*NodeGroup, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.nodeGroups[dn]
	return g, ok
}

func (m *Model) SetNodeGroupAdminState(dn string, s AdminState) error {
	m.lock()
	defer m.unlock()
	g, ok := m.nodeGroups[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "node group does not exist")
	}
	g.AdminState = s
	m.emitUpdate(KindNodeGroup, dn, "AdminState", Int32(int32(s)))
	for _, ndn := range g.NodeDNs {
		m.recomputeReadinessForNodeLocked(ndn)
	}
	return nil
}

// ---- ComponentType ----

func (m *Model) CreateComponentType(ct *ComponentType) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.compTypes[ct.DN]; ok {
		if existing.sameConfig(ct) {
			return nil
		}
		return NewFault(KindExist, ct.DN, "component type already exists")
	}
	m.compTypes[ct.DN] = ct
	m.emitCreate(KindComponentType, ct.DN, nil)
	return nil
}

func (m *Model) GetComponentType(dn string) (*ComponentType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ct, ok := m.compTypes[dn]
	return ct, ok
}

func (m *Model) DeleteComponentType(dn string) error {
	m.lock()
	defer m.unlock()
	ct, ok := m.compTypes[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "component type does not exist")
	}
	if len(ct.InstanceDNs) > 0 {
		return NewFault(KindPrecondition, dn, "component type has instances, cannot delete")
	}
	delete(m.compTypes, dn)
	m.emitDelete(KindComponentType, dn)
	return nil
}

// ---- Component ----

func (m *Model) CreateComponent(c *Component) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.components[c.DN]; ok {
		if existing.sameConfig(c) {
			return nil
		}
		return NewFault(KindExist, c.DN, "component already exists")
	}
	su, ok := m.sus[c.ParentSUDN]
	if !ok {
		return NewFault(KindNotExist, c.ParentSUDN, "parent SU does not exist")
	}
	ct, ok := m.compTypes[c.ComponentTypeDN]
	if !ok {
		return NewFault(KindNotExist, c.ComponentTypeDN, "component type does not exist")
	}
	m.components[c.DN] = c
	su.ComponentDNs = append(su.ComponentDNs, c.DN)
	ct.InstanceDNs = append(ct.InstanceDNs, c.DN)
	m.emitCreate(KindComponent, c.DN, nil)
	return nil
}

func (m *Model) GetComponent(dn string) (*Component, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.components[dn]
	return c, ok
}

func (m *Model) DeleteComponent(dn string) error {
	m.lock()
	defer m.unlock()
	c, ok := m.components[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "component does not exist")
	}
	if c.PresenceState != PresenceUninstantiated {
		return NewFault(KindPrecondition, dn, "component is not uninstantiated, cannot delete")
	}
	if len(c.AssignedCSIDNs) > 0 {
		return NewFault(KindPrecondition, dn, "component has CSI assignments, cannot delete")
	}
	if su, ok := m.sus[c.ParentSUDN]; ok {
		su.ComponentDNs = removeStr(su.ComponentDNs, dn)
	}
	if ct, ok := m.compTypes[c.ComponentTypeDN]; ok {
		ct.InstanceDNs = removeStr(ct.InstanceDNs, dn)
	}
	delete(m.components, dn)
	m.emitDelete(KindComponent, dn)
	return nil
}

func (m *Model) SetComponentPresenceState(dn string, s PresenceState) error {
	m.lock()
	defer m.unlock()
	c, ok := m.components[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "component does not exist")
	}
	c.PresenceState = s
	m.emitUpdate(KindComponent, dn, "PresenceState", Int32(int32(s)))
	m.notifyRuntime(KindComponent, dn, "saAmfCompPresenceState", Int32(int32(s)))
	m.recomputeReadinessForSULocked(c.ParentSUDN)
	return nil
}

func (m *Model) SetComponentOperState(dn string, s OperState) error {
	m.lock()
	defer m.unlock()
	c, ok := m.components[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "component does not exist")
	}
	c.OperState = s
	m.emitUpdate(KindComponent, dn, "OperState", Int32(int32(s)))
	m.notifyRuntime(KindComponent, dn, "saAmfCompOperState", Int32(int32(s)))
	return nil
}

// ---- SG ----

func (m *Model) CreateSG(g *SG) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.sgs[g.DN]; ok {
		if existing.sameConfig(g) {
			return nil
		}
		return NewFault(KindExist, g.DN, "SG already exists")
	}
	m.sgs[g.DN] = g
	m.emitCreate(KindSG, g.DN, nil)
	return nil
}

func (m *Model) GetSG(dn string) (*SG, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.sgs[dn]
	return g, ok
}

func (m *Model) DeleteSG(dn string) error {
	m.lock()
	defer m.unlock()
	g, ok := m.sgs[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SG does not exist")
	}
	if len(g.SUDNs) > 0 || len(g.SIDNs) > 0 {
		return NewFault(KindPrecondition, dn, "SG has members, cannot delete")
	}
	delete(m.sgs, dn)
	m.emitDelete(KindSG, dn)
	return nil
}

func (m *Model) SetSGFSMState(dn string, s SGFSMState) error {
	m.lock()
	defer m.unlock()
	g, ok := m.sgs[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SG does not exist")
	}
	g.FSMState = s
	m.emitUpdate(KindSG, dn, "FSMState", Int32(int32(s)))
	m.notifyRuntime(KindSG, dn, "saAmfSGFsmState", Int32(int32(s)))
	return nil
}

// SetSGPreferredCounts updates the N-way-active/N+M preferred active/standby
// SU counts (spec §8 scenario 2: "PreferredNumActiveSUs shrink 3→2"). Callers
// still need to drive a realign afterward themselves; this only persists the
// new targets under the Model's own lock, the way every other Set* primitive
// does, instead of the Config Adapter mutating the pointer GetSG returns.
func (m *Model) SetSGPreferredCounts(dn string, active, standby int) error {
	m.lock()
	defer m.unlock()
	g, ok := m.sgs[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SG does not exist")
	}
	g.PreferredNumActiveSUs = active
	g.PreferredNumStandbySUs = standby
	m.emitUpdate(KindSG, dn, "PreferredNumActiveSUs", Int32(int32(active)))
	m.emitUpdate(KindSG, dn, "PreferredNumStandbySUs", Int32(int32(standby)))
	return nil
}

// ---- SU ----

func (m *Model) CreateSU(su *SU) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.sus[su.DN]; ok {
		if existing.sameConfig(su) {
			return nil
		}
		return NewFault(KindExist, su.DN, "SU already exists")
	}
	g, ok := m.sgs[su.ParentSGDN]
	if !ok {
		return NewFault(KindNotExist, su.ParentSGDN, "parent SG does not exist")
	}
	n, ok := m.nodes[su.ParentNodeDN]
	if !ok {
		return NewFault(KindNotExist, su.ParentNodeDN, "parent node does not exist")
	}
	m.sus[su.DN] = su
	g.SUDNs = insertByRank(g.SUDNs, su.DN, func(dn string) int { return m.sus[dn].Rank })
	suRank := func(dn string) int { return m.sus[dn].Rank }
	if su.PreInstantiable {
		n.MiddlewareSUDNs = insertByRank(n.MiddlewareSUDNs, su.DN, suRank)
	} else {
		n.ApplicationSUDNs = insertByRank(n.ApplicationSUDNs, su.DN, suRank)
	}
	m.emitCreate(KindSU, su.DN, nil)
	m.recomputeReadinessForSULocked(su.DN)
	return nil
}

func (m *Model) GetSU(dn string) (*SU, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	su, ok := m.sus[dn]
	return su, ok
}

func (m *Model) DeleteSU(dn string) error {
	m.lock()
	defer m.unlock()
	su, ok := m.sus[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SU does not exist")
	}
	if len(su.ComponentDNs) > 0 || len(su.AssignmentDNs) > 0 {
		return NewFault(KindPrecondition, dn, "SU has components or assignments, cannot delete")
	}
	if g, ok := m.sgs[su.ParentSGDN]; ok {
		g.SUDNs = removeStr(g.SUDNs, dn)
	}
	if n, ok := m.nodes[su.ParentNodeDN]; ok {
		n.MiddlewareSUDNs = removeStr(n.MiddlewareSUDNs, dn)
		n.ApplicationSUDNs = removeStr(n.ApplicationSUDNs, dn)
	}
	delete(m.sus, dn)
	m.emitDelete(KindSU, dn)
	return nil
}

func (m *Model) SetSUPresence(dn string, p PresenceState) error {
	m.lock()
	defer m.unlock()
	su, ok := m.sus[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SU does not exist")
	}
	su.Presence = p
	m.emitUpdate(KindSU, dn, "Presence", Int32(int32(p)))
	m.notifyRuntime(KindSU, dn, "saAmfSUPresenceState", Int32(int32(p)))
	return nil
}

func (m *Model) SetSUAdminState(dn string, s AdminState) error {
	m.lock()
	defer m.unlock()
	su, ok := m.sus[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SU does not exist")
	}
	su.AdminState = s
	m.emitUpdate(KindSU, dn, "AdminState", Int32(int32(s)))
	m.recomputeReadinessForSULocked(dn)
	return nil
}

func (m *Model) SetSUOperState(dn string, s OperState) error {
	m.lock()
	defer m.unlock()
	su, ok := m.sus[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SU does not exist")
	}
	su.OperState = s
	m.emitUpdate(KindSU, dn, "OperState", Int32(int32(s)))
	m.notifyRuntime(KindSU, dn, "saAmfSUOperState", Int32(int32(s)))
	m.recomputeReadinessForSULocked(dn)
	return nil
}

// ---- SI ----

func (m *Model) CreateSI(si *SI) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.sis[si.DN]; ok {
		if existing.sameConfig(si) {
			return nil
		}
		return NewFault(KindExist, si.DN, "SI already exists")
	}
	g, ok := m.sgs[si.ParentSGDN]
	if !ok {
		return NewFault(KindNotExist, si.ParentSGDN, "parent SG does not exist")
	}
	for _, dep := range si.DependencyDNs {
		if _, ok := m.sis[dep]; !ok {
			return NewFault(KindNotExist, dep, "dependency SI does not exist")
		}
	}
	if cycle := m.siDependencyCycleLocked(si.DN, si.DependencyDNs); cycle {
		return NewFault(KindValidation, si.DN, "SI dependency graph would contain a cycle")
	}
	m.sis[si.DN] = si
	g.SIDNs = insertByRank(g.SIDNs, si.DN, func(dn string) int { return m.sis[dn].RankOrZeroLowest() })
	m.emitCreate(KindSI, si.DN, nil)
	return nil
}

func (m *Model) GetSI(dn string) (*SI, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	si, ok := m.sis[dn]
	return si, ok
}

func (m *Model) DeleteSI(dn string) error {
	m.lock()
	defer m.unlock()
	si, ok := m.sis[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SI does not exist")
	}
	if len(si.CSIDNs) > 0 || len(si.AssignmentDNs) > 0 {
		return NewFault(KindPrecondition, dn, "SI has CSIs or assignments, cannot delete")
	}
	for _, other := range m.sis {
		other.DependencyDNs = removeStr(other.DependencyDNs, dn)
	}
	if g, ok := m.sgs[si.ParentSGDN]; ok {
		g.SIDNs = removeStr(g.SIDNs, dn)
	}
	delete(m.sis, dn)
	m.emitDelete(KindSI, dn)
	return nil
}

// SetSIDependencyWaitSince records (or clears, with 0) when si began
// waiting on an unsatisfied sponsor dependency (spec §4.3 tolerance-timer
// handling).
func (m *Model) SetSIDependencyWaitSince(dn string, millis int64) error {
	m.lock()
	defer m.unlock()
	si, ok := m.sis[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SI does not exist")
	}
	si.DependencyWaitSince = millis
	m.emitUpdate(KindSI, dn, "DependencyWaitSince", Int64(millis))
	return nil
}

func (m *Model) SetSIAssignmentState(dn string, s AssignmentState) error {
	m.lock()
	defer m.unlock()
	si, ok := m.sis[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "SI does not exist")
	}
	si.AssignmentState = s
	m.emitUpdate(KindSI, dn, "AssignmentState", Int32(int32(s)))
	m.notifyRuntime(KindSI, dn, "saAmfSIAssignmentState", Int32(int32(s)))
	return nil
}

// ---- CSI ----

func (m *Model) CreateCSI(csi *CSI) error {
	m.lock()
	defer m.unlock()
	if existing, ok := m.csis[csi.DN]; ok {
		if existing.sameConfig(csi) {
			return nil
		}
		return NewFault(KindExist, csi.DN, "CSI already exists")
	}
	si, ok := m.sis[csi.ParentSIDN]
	if !ok {
		return NewFault(KindNotExist, csi.ParentSIDN, "parent SI does not exist")
	}
	for _, dep := range csi.DependencyDNs {
		if _, ok := m.csis[dep]; !ok {
			return NewFault(KindNotExist, dep, "dependency CSI does not exist")
		}
	}
	if cycle := m.csiDependencyCycleLocked(csi.DN, csi.DependencyDNs); cycle {
		return NewFault(KindValidation, csi.DN, "CSI dependency graph would contain a cycle")
	}
	csi.Rank = m.computeCSIRankLocked(csi.DependencyDNs)
	m.csis[csi.DN] = csi
	si.CSIDNs = insertByRank(si.CSIDNs, csi.DN, func(dn string) int { return m.csis[dn].Rank })
	m.emitCreate(KindCSI, csi.DN, nil)
	return nil
}

func (m *Model) GetCSI(dn string) (*CSI, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	csi, ok := m.csis[dn]
	return csi, ok
}

// DeleteCSI removes a CSI and recomputes rank for any CSI that sponsored on
// it, per spec §3's CSI-rank invariant ("1 + max(sponsor rank)").
func (m *Model) DeleteCSI(dn string) error {
	m.lock()
	defer m.unlock()
	csi, ok := m.csis[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "CSI does not exist")
	}
	if len(csi.ComponentAssignments) > 0 {
		return NewFault(KindPrecondition, dn, "CSI has component assignments, cannot delete")
	}
	if si, ok := m.sis[csi.ParentSIDN]; ok {
		si.CSIDNs = removeStr(si.CSIDNs, dn)
	}
	delete(m.csis, dn)
	m.emitDelete(KindCSI, dn)
	var affected []string
	for odn, other := range m.csis {
		if containsStr(other.DependencyDNs, dn) {
			other.DependencyDNs = removeStr(other.DependencyDNs, dn)
			affected = append(affected, odn)
		}
	}
	for _, odn := range affected {
		m.recomputeCSIRankLocked(odn)
	}
	return nil
}

// ---- Assignment ----

func (m *Model) CreateAssignment(a *Assignment) error {
	m.lock()
	defer m.unlock()
	if _, ok := m.assignments[a.DN]; ok {
		return NewFault(KindExist, a.DN, "assignment already exists")
	}
	su, ok := m.sus[a.SUDN]
	if !ok {
		return NewFault(KindNotExist, a.SUDN, "SU does not exist")
	}
	si, ok := m.sis[a.SIDN]
	if !ok {
		return NewFault(KindNotExist, a.SIDN, "SI does not exist")
	}
	m.assignments[a.DN] = a
	su.AssignmentDNs = append(su.AssignmentDNs, a.DN)
	si.AssignmentDNs = append(si.AssignmentDNs, a.DN)
	m.emitCreate(KindAssignment, a.DN, nil)
	return nil
}

func (m *Model) GetAssignment(dn string) (*Assignment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[dn]
	return a, ok
}

func (m *Model) DeleteAssignment(dn string) error {
	m.lock()
	defer m.unlock()
	a, ok := m.assignments[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "assignment does not exist")
	}
	if su, ok := m.sus[a.SUDN]; ok {
		su.AssignmentDNs = removeStr(su.AssignmentDNs, dn)
	}
	if si, ok := m.sis[a.SIDN]; ok {
		si.AssignmentDNs = removeStr(si.AssignmentDNs, dn)
	}
	delete(m.assignments, dn)
	m.emitDelete(KindAssignment, dn)
	return nil
}

func (m *Model) SetAssignmentHAState(dn string, s HAState) error {
	m.lock()
	defer m.unlock()
	a, ok := m.assignments[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "assignment does not exist")
	}
	a.HAState = s
	m.emitUpdate(KindAssignment, dn, "HAState", Int32(int32(s)))
	m.notifyRuntime(KindAssignment, dn, "saAmfSUSIHAState", Int32(int32(s)))
	return nil
}

func (m *Model) SetAssignmentEdgeState(dn string, s AssignmentEdgeState) error {
	m.lock()
	defer m.unlock()
	a, ok := m.assignments[dn]
	if !ok {
		return NewFault(KindNotExist, dn, "assignment does not exist")
	}
	a.EdgeState = s
	m.emitUpdate(KindAssignment, dn, "EdgeState", Int32(int32(s)))
	return nil
}

// ---- small helpers shared across this file ----

func removeStr(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func containsStr(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// insertByRank inserts dn into a slice kept sorted ascending by rankOf,
// preserving insertion order among equal ranks (spec's "sorted by rank,
// then insertion order" requirement for SU/SI/CSI listings).
func insertByRank(s []string, dn string, rankOf func(string) int) []string {
	r := rankOf(dn)
	i := 0
	for ; i < len(s); i++ {
		if rankOf(s[i]) > r {
			break
		}
	}
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = dn
	return s
}
