package model

import "slices"

// SI is a unit of workload (spec §3).
type SI struct {
	DN          string
	ParentSGDN  string
	ServiceType string
	Rank        int // saAmfSIRank; 0 is treated as lowest priority (spec §4.3)

	PreferredActiveAssignments  int
	PreferredStandbyAssignments int

	CurrentActiveAssignments  int // derived
	CurrentStandbyAssignments int // derived

	AdminState      AdminState
	AssignmentState AssignmentState

	// DependencyDNs are sponsor SIs that must be ACTIVE+FULLY-ASSIGNED before
	// this SI may be assigned ACTIVE (spec §3, §4.3).
	DependencyDNs []string

	PreferredSUDNs []string // ranked preferred SUs
	CSIDNs         []string // ordered by CSI rank

	// AssignmentDNs are this SI's current SU-SI assignment edges.
	AssignmentDNs []string

	// dependencyWaitSince is set when a sponsor becomes UNASSIGNED, starting
	// the tolerance-timer wait before this SI is forcibly unassigned
	// (spec §4.3 "SI-SI dependency enforcement"); zero means not waiting.
	DependencyWaitSince int64
}

// RankOrZeroLowest returns a sort key that treats rank 0 as lowest priority
// (spec §4.3: "saAmfSIRank=0 treated as lowest priority"), so ordinary sorts
// by this key naturally place unranked SIs last.
func (si *SI) RankOrZeroLowest() int {
	if si.Rank == 0 {
		return int(^uint(0) >> 1) // max int
	}
	return si.Rank
}

// sameConfig reports whether si and other carry identical configured
// attributes, ignoring derived CurrentActive/StandbyAssignments, CSIDNs,
// AssignmentDNs and the runtime AssignmentState/DependencyWaitSince. Used by
// CreateSI for spec §7 EXIST "idempotent import" semantics.
func (si *SI) sameConfig(other *SI) bool {
	return si.ServiceType == other.ServiceType &&
		si.Rank == other.Rank &&
		si.PreferredActiveAssignments == other.PreferredActiveAssignments &&
		si.PreferredStandbyAssignments == other.PreferredStandbyAssignments &&
		si.AdminState == other.AdminState &&
		slices.Equal(si.DependencyDNs, other.DependencyDNs) &&
		slices.Equal(si.PreferredSUDNs, other.PreferredSUDNs)
}
