package model

import "slices"

// CSI is the atomic workload unit (spec §3).
type CSI struct {
	DN         string
	ParentSIDN string
	CSTypeDN   string

	DependencyDNs []string // intra-SI dependencies on other CSIs
	Rank          int      // 1 + max(sponsor rank), or 1 if no sponsors

	Attributes AttrSet

	ListenerDNs []string // protection-group listeners

	// ComponentAssignments maps component DN -> HA state for this CSI,
	// mirroring "list of (component, HA state) assignments" (spec §3).
	ComponentAssignments map[string]HAState
}

// sameConfig reports whether csi and other carry identical configured
// attributes, ignoring the derived Rank, Attributes and ComponentAssignments.
// Used by CreateCSI for spec §7 EXIST "idempotent import" semantics.
func (csi *CSI) sameConfig(other *CSI) bool {
	return csi.CSTypeDN == other.CSTypeDN &&
		slices.Equal(csi.DependencyDNs, other.DependencyDNs) &&
		slices.Equal(csi.ListenerDNs, other.ListenerDNs)
}

// NewCSI constructs a CSI with rank 1 (no sponsors) and empty collections.
func NewCSI(dn, parentSI, csType string) *CSI {
	return &CSI{
		DN:                   dn,
		ParentSIDN:           parentSI,
		CSTypeDN:             csType,
		Rank:                 1,
		Attributes:           AttrSet{},
		ComponentAssignments: map[string]HAState{},
	}
}
