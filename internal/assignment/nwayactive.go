package assignment

import "amfcore/internal/model"

// nWayActiveRuleset implements N-way-active (spec §4.3): an SI is assigned
// ACTIVE to multiple SUs simultaneously and never has a standby — every
// assignee serves live traffic, matching components with an X-Active
// capability.
type nWayActiveRuleset struct{}

func (nWayActiveRuleset) PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement {
	want := sg.PreferredNumActiveSUs
	if want <= 0 {
		want = 1
	}
	if want > len(candidates) {
		want = len(candidates)
	}
	var out []Placement
	count := 0
	for dn := range existing {
		if count >= want {
			break
		}
		out = append(out, Placement{SUDN: dn, HA: model.HAActive})
		count++
	}
	for _, su := range candidates {
		if count >= want {
			break
		}
		if _, already := existing[su.DN]; already {
			continue
		}
		out = append(out, Placement{SUDN: su.DN, HA: model.HAActive})
		count++
	}
	return out
}
