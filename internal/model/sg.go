package model

// SG is a redundancy domain (spec §3).
type SG struct {
	DN              string
	RedundancyModel RedundancyModel

	PreferredInServiceSUs  int
	PreferredAssignedSUs   int
	PreferredNumActiveSUs  int
	PreferredNumStandbySUs int

	SURestartProbation        durationMillis
	SURestartMax              int
	ComponentRestartProbation durationMillis
	ComponentRestartMax       int

	AutoAdjust bool
	AutoRepair bool
	AdminState AdminState
	FSMState   SGFSMState

	SUDNs []string // sorted by rank
	SIDNs []string // sorted by rank

	// OperationSUDNs is the SG's operation list (spec §4.3 "Tie-break and
	// partial-failure policy"): SUs the engine is waiting to hear back from
	// before the SG may leave SG-REALIGN.
	OperationSUDNs []string
}

// IsStable reports the FSM-state=STABLE invariant (spec §3 invariant a).
func (g *SG) IsStable() bool { return g.FSMState == SGStable }

// sameConfig reports whether g and other carry identical configured
// attributes, ignoring the derived SUDNs/SIDNs/OperationSUDNs membership and
// runtime FSMState. Used by CreateSG for spec §7 EXIST "idempotent import"
// semantics.
func (g *SG) sameConfig(other *SG) bool {
	return g.RedundancyModel == other.RedundancyModel &&
		g.PreferredInServiceSUs == other.PreferredInServiceSUs &&
		g.PreferredAssignedSUs == other.PreferredAssignedSUs &&
		g.PreferredNumActiveSUs == other.PreferredNumActiveSUs &&
		g.PreferredNumStandbySUs == other.PreferredNumStandbySUs &&
		g.SURestartProbation == other.SURestartProbation &&
		g.SURestartMax == other.SURestartMax &&
		g.ComponentRestartProbation == other.ComponentRestartProbation &&
		g.ComponentRestartMax == other.ComponentRestartMax &&
		g.AutoAdjust == other.AutoAdjust &&
		g.AutoRepair == other.AutoRepair &&
		g.AdminState == other.AdminState
}
