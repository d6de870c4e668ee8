package assignment

import "amfcore/internal/model"

// nPlusMRuleset implements N+M (spec §4.3): N SUs each host one SI active
// (no standby under normal operation), M SUs sit as spares that only take
// over on a fault (handled by Engine.SUFault, which deletes the faulted
// SU's edges and re-runs PlaceSI over the SUs still IN-SERVICE — the spare
// gets picked up once the deterministic rank ordering makes it next in
// line).
type nPlusMRuleset struct{}

func (nPlusMRuleset) PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement {
	if len(candidates) == 0 {
		return nil
	}
	n := sg.PreferredNumActiveSUs
	if n <= 0 {
		n = 1
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	activePool := candidates[:n]

	for dn, ha := range existing {
		if ha == model.HAActive {
			for _, su := range activePool {
				if su.DN == dn {
					return []Placement{{SUDN: dn, HA: model.HAActive}}
				}
			}
		}
	}
	// Place a new SI on the least-loaded SU of the active pool (the first in
	// rank order on a tie).
	best := activePool[0]
	bestLoad := len(best.AssignmentDNs)
	for _, su := range activePool[1:] {
		if len(su.AssignmentDNs) < bestLoad {
			best = su
			bestLoad = len(su.AssignmentDNs)
		}
	}
	return []Placement{{SUDN: best.DN, HA: model.HAActive}}
}
