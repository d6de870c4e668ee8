package assignment

import "amfcore/internal/model"

// noRedundancyRuleset implements NO-REDUNDANCY (spec §4.3): each SI is
// assigned active to exactly one SU, with no standby and no failover
// target — a fault simply leaves the SI unassigned until an operator or
// the Config Adapter relocates it.
type noRedundancyRuleset struct{}

func (noRedundancyRuleset) PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement {
	for dn, ha := range existing {
		if ha == model.HAActive {
			return []Placement{{SUDN: dn, HA: model.HAActive}}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return []Placement{{SUDN: candidates[0].DN, HA: model.HAActive}}
}
