package assignment

import "amfcore/internal/model"

// nWayRuleset implements N-way (spec §4.3): each SI gets exactly one active
// SU and up to SG.PreferredNumStandbySUs standby SUs, all drawn
// independently per SI (unlike 2N, different SIs may use different SU
// pairs).
type nWayRuleset struct{}

func (nWayRuleset) PlaceSI(sg *model.SG, si *model.SI, candidates []*model.SU, existing map[string]model.HAState) []Placement {
	if len(candidates) == 0 {
		return nil
	}
	var out []Placement
	activeDN := ""
	for dn, ha := range existing {
		if ha == model.HAActive {
			activeDN = dn
		}
	}
	if activeDN == "" {
		activeDN = candidates[0].DN
	}
	out = append(out, Placement{SUDN: activeDN, HA: model.HAActive})

	wantStandby := sg.PreferredNumStandbySUs
	if wantStandby <= 0 {
		wantStandby = 1
	}
	count := 0
	for dn, ha := range existing {
		if ha == model.HAStandby && count < wantStandby {
			out = append(out, Placement{SUDN: dn, HA: model.HAStandby})
			count++
		}
	}
	for _, su := range candidates {
		if count >= wantStandby {
			break
		}
		if su.DN == activeDN {
			continue
		}
		if _, already := existing[su.DN]; already {
			continue
		}
		out = append(out, Placement{SUDN: su.DN, HA: model.HAStandby})
		count++
	}
	return out
}
