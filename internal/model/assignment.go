package model

// Assignment is the SU-SI edge entity (spec §3). Edges are owned by the
// Assignment Engine, not by either endpoint (Design Note: "cyclic references
// between SU, SG, Node, and assignment edges").
type Assignment struct {
	DN    string // synthetic: SU-DN "#" SI-DN
	SUDN  string
	SIDN  string

	HAState   HAState
	EdgeState AssignmentEdgeState

	// PendingCSIAdd/PendingCSIRemove track in-flight CSI delta operations on
	// this edge (spec §3 "pending add/remove marker").
	PendingCSIAdd    []string
	PendingCSIRemove []string

	// ComponentCSIEdges lists the per-component-CSI edges this assignment
	// fans out to (spec §3 "contains a list of per-component-CSI edges").
	ComponentCSIEdges []ComponentCSIEdge
}

// ComponentCSIEdge is one (component, CSI, HA state) leaf of an Assignment.
type ComponentCSIEdge struct {
	ComponentDN string
	CSIDN       string
	HAState     HAState
}

// AssignmentDN builds the synthetic key for an SU-SI pair.
func AssignmentDN(suDN, siDN string) string { return suDN + "#" + siDN }
