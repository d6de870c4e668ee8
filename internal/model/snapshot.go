package model

// Snapshot is a point-in-time, independently-owned copy of the whole Entity
// Model, safe to read from any goroutine without touching Model's mutex
// again. It backs the CLI's list/get commands and the healthcheck reporter,
// which both run off the event-loop goroutine (spec §4.1 ADD note: "read
// accessors taken by other goroutines ... go through a Snapshot() that
// copies out from behind a sync.RWMutex guard at the model boundary").
type Snapshot struct {
	Cluster     *Cluster
	Nodes       map[string]Node
	NodeGroups  map[string]NodeGroup
	SGs         map[string]SG
	SUs         map[string]SU
	CompTypes   map[string]ComponentType
	Components  map[string]Component
	SIs         map[string]SI
	CSIs        map[string]CSI
	Assignments map[string]Assignment
}

// Snapshot copies every entity map under a single read-lock acquisition, so
// a caller never observes a graph that mixes pre- and post-mutation state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Nodes:       make(map[string]Node, len(m.nodes)),
		NodeGroups:  make(map[string]NodeGroup, len(m.nodeGroups)),
		SGs:         make(map[string]SG, len(m.sgs)),
		SUs:         make(map[string]SU, len(m.sus)),
		CompTypes:   make(map[string]ComponentType, len(m.compTypes)),
		Components:  make(map[string]Component, len(m.components)),
		SIs:         make(map[string]SI, len(m.sis)),
		CSIs:        make(map[string]CSI, len(m.csis)),
		Assignments: make(map[string]Assignment, len(m.assignments)),
	}
	if m.cluster != nil {
		c := *m.cluster
		c.NodeDNs = append([]string(nil), m.cluster.NodeDNs...)
		snap.Cluster = &c
	}
	for dn, n := range m.nodes {
		cp := *n
		cp.MiddlewareSUDNs = append([]string(nil), n.MiddlewareSUDNs...)
		cp.ApplicationSUDNs = append([]string(nil), n.ApplicationSUDNs...)
		cp.NodeGroupDNs = append([]string(nil), n.NodeGroupDNs...)
		snap.Nodes[dn] = cp
	}
	for dn, g := range m.nodeGroups {
		cp := *g
		cp.NodeDNs = append([]string(nil), g.NodeDNs...)
		cp.OperationNodeDNs = append([]string(nil), g.OperationNodeDNs...)
		snap.NodeGroups[dn] = cp
	}
	for dn, g := range m.sgs {
		cp := *g
		cp.SUDNs = append([]string(nil), g.SUDNs...)
		cp.SIDNs = append([]string(nil), g.SIDNs...)
		cp.OperationSUDNs = append([]string(nil), g.OperationSUDNs...)
		snap.SGs[dn] = cp
	}
	for dn, su := range m.sus {
		cp := *su
		cp.ComponentDNs = append([]string(nil), su.ComponentDNs...)
		cp.AssignmentDNs = append([]string(nil), su.AssignmentDNs...)
		snap.SUs[dn] = cp
	}
	for dn, ct := range m.compTypes {
		cp := *ct
		cp.InstanceDNs = append([]string(nil), ct.InstanceDNs...)
		snap.CompTypes[dn] = cp
	}
	for dn, c := range m.components {
		cp := *c
		cp.AssignedCSIDNs = append([]string(nil), c.AssignedCSIDNs...)
		snap.Components[dn] = cp
	}
	for dn, si := range m.sis {
		cp := *si
		cp.DependencyDNs = append([]string(nil), si.DependencyDNs...)
		cp.PreferredSUDNs = append([]string(nil), si.PreferredSUDNs...)
		cp.CSIDNs = append([]string(nil), si.CSIDNs...)
		cp.AssignmentDNs = append([]string(nil), si.AssignmentDNs...)
		snap.SIs[dn] = cp
	}
	for dn, csi := range m.csis {
		cp := *csi
		cp.DependencyDNs = append([]string(nil), csi.DependencyDNs...)
		cp.ListenerDNs = append([]string(nil), csi.ListenerDNs...)
		cp.Attributes = csi.Attributes.Clone()
		cp.ComponentAssignments = make(map[string]HAState, len(csi.ComponentAssignments))
		for k, v := range csi.ComponentAssignments {
			cp.ComponentAssignments[k] = v
		}
		snap.CSIs[dn] = cp
	}
	for dn, a := range m.assignments {
		cp := *a
		cp.PendingCSIAdd = append([]string(nil), a.PendingCSIAdd...)
		cp.PendingCSIRemove = append([]string(nil), a.PendingCSIRemove...)
		cp.ComponentCSIEdges = append([]ComponentCSIEdge(nil), a.ComponentCSIEdges...)
		snap.Assignments[dn] = cp
	}
	return snap
}
