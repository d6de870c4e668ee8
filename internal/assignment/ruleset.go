package assignment

import "amfcore/internal/model"

// Placement is one SU a Ruleset wants to hold an HA role for a given SI.
type Placement struct {
	SUDN string
	HA   model.HAState
}

// Ruleset is the per-redundancy-model SU selection policy (spec §4.3).
// Implementations are stateless: every decision is a pure function of the
// SG, the SI being placed, the currently-eligible candidate SUs (already
// filtered to IN-SERVICE readiness, sorted by rank then DN), and the SI's
// already-existing assignments — mirroring the Config Adapter's "handler
// bodies are stateless" note (spec §4.2), generalized to the Assignment
// Engine's per-model dispatch (teacher: internal/reconciler/manager.go
// routes by ResourceType; here by RedundancyModel).
type Ruleset interface {
	// PlaceSI returns the full target placement for si given the current
	// candidate pool; the caller (engine.go) diffs this against si's
	// existing assignments to know what to create/leave/remove.
	PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement
}

// RulesetFor returns the Ruleset implementation for an SG's configured
// redundancy model.
func RulesetFor(rm model.RedundancyModel) Ruleset {
	switch rm {
	case model.Redundancy2N:
		return twoNRuleset{}
	case model.RedundancyNPlusM:
		return nPlusMRuleset{}
	case model.RedundancyNWay:
		return nWayRuleset{}
	case model.RedundancyNWayActive:
		return nWayActiveRuleset{}
	default:
		return noRedundancyRuleset{}
	}
}
