package assignment

import "amfcore/internal/model"

// twoNRuleset implements the 2N redundancy model (spec §4.3): exactly one
// SU in the whole SG is active, exactly one is standby, and every SI in the
// SG shares that same pair — the canonical active/standby failover pair.
type twoNRuleset struct{}

func (twoNRuleset) PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement {
	if len(candidates) == 0 {
		return nil
	}
	// Keep the roles this SI already holds; a missing active is the first
	// candidate in rank order and a missing standby the next other one.
	var activeDN, standbyDN string
	for dn, ha := range existing {
		if ha == model.HAActive {
			activeDN = dn
		} else if ha == model.HAStandby {
			standbyDN = dn
		}
	}
	if activeDN == "" {
		activeDN = candidates[0].DN
	}
	if standbyDN == "" && len(candidates) > 1 {
		for _, su := range candidates {
			if su.DN != activeDN {
				standbyDN = su.DN
				break
			}
		}
	}
	var out []Placement
	if activeDN != "" {
		out = append(out, Placement{SUDN: activeDN, HA: model.HAActive})
	}
	if standbyDN != "" {
		out = append(out, Placement{SUDN: standbyDN, HA: model.HAStandby})
	}
	return out
}
