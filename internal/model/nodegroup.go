package model

import "slices"

// NodeGroup is a named set of Node references (spec §3). A LOCKED group
// takes its member nodes' SUs out of service; Model.DeleteSU does not
// consult node-group membership.
type NodeGroup struct {
	DN         string
	AdminState AdminState
	NodeDNs    []string

	// OperationNodeDNs tracks nodes currently undergoing a group-wide admin
	// operation (spec §3); drained as per-node completions arrive.
	OperationNodeDNs []string
}

// sameConfig reports whether g and other carry identical configured
// attributes, ignoring the derived OperationNodeDNs admin-op working set.
// Used by CreateNodeGroup for spec §7 EXIST "idempotent import" semantics.
func (g *NodeGroup) sameConfig(other *NodeGroup) bool {
	return g.AdminState == other.AdminState && slices.Equal(g.NodeDNs, other.NodeDNs)
}

// Contains reports whether the node is a member of this group.
func (g *NodeGroup) Contains(nodeDN string) bool {
	for _, dn := range g.NodeDNs {
		if dn == nodeDN {
			return true
		}
	}
	return false
}
