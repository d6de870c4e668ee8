package model

// SU is a failure unit (spec §3).
type SU struct {
	DN       string
	ParentSGDN string
	ParentNodeDN string
	Rank     int

	PreInstantiable bool // derived from contained component types

	AdminState AdminState
	OperState  OperState
	Presence   PresenceState
	Readiness  ReadinessState

	RestartCount int
	TermState    bool
	SuRestart    bool // transient mid-restart marker ("surestart")

	ComponentDNs []string // insertion order

	// AssignmentDNs lists the SU-SI assignment edges that reference this SU,
	// for enumeration only; edges are owned by the assignment engine (spec §3
	// "Ownership").
	AssignmentDNs []string
}

// localReadinessOK reports the SU-local half of the readiness precondition
// spec §3 defines for SU: operational=ENABLED and admin=UNLOCKED.
// recomputeReadinessForSULocked in invariants.go combines it with the
// hosting Node and NodeGroup state.
func (s *SU) localReadinessOK() bool {
	return s.OperState == OperEnabled && s.AdminState == AdminUnlocked
}

// sameConfig reports whether s and other carry identical configured
// attributes, ignoring derived membership (ComponentDNs, AssignmentDNs) and
// runtime state (OperState, Presence, Readiness, RestartCount) that only
// exist once lifecycle activity has begun. Used by CreateSU for spec §7
// EXIST "idempotent import" semantics.
func (s *SU) sameConfig(other *SU) bool {
	return s.ParentSGDN == other.ParentSGDN &&
		s.ParentNodeDN == other.ParentNodeDN &&
		s.Rank == other.Rank &&
		s.PreInstantiable == other.PreInstantiable &&
		s.AdminState == other.AdminState
}
