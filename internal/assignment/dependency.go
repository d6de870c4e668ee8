package assignment

import "amfcore/internal/model"

// DependenciesSatisfied reports whether every sponsor SI named in
// si.DependencyDNs is ACTIVE and FULLY-ASSIGNED, the precondition the
// Assignment Engine requires before assigning si active (spec §3, §4.3 "SI
// dependency enforcement").
func DependenciesSatisfied(m *model.Model, si *model.SI) bool {
	for _, dep := range si.DependencyDNs {
		sponsor, ok := m.GetSI(dep)
		if !ok {
			continue
		}
		if sponsor.AssignmentState != model.SIFullyAssigned {
			return false
		}
	}
	return true
}

// ToleranceTimerExpiredFunc abstracts "now" so tests can drive the clock
// deterministically; production callers pass time.Now().UnixMilli.
type ToleranceTimerExpiredFunc func(waitSinceMillis int64, toleranceMillis int64, nowMillis int64) bool

// ToleranceExpired reports whether an SI that has been waiting on a sponsor
// since waitSinceMillis has exceeded toleranceMillis as of nowMillis (spec
// §4.3 "SI-SI dependency tolerance-timer handling"). A waitSinceMillis of
// zero means the SI is not currently waiting.
func ToleranceExpired(waitSinceMillis, toleranceMillis, nowMillis int64) bool {
	if waitSinceMillis == 0 {
		return false
	}
	return nowMillis-waitSinceMillis >= toleranceMillis
}

// StartDependencyWait records that si began waiting on an unmet sponsor at
// nowMillis, unless it is already waiting (the timer is not restarted by
// every re-evaluation, only by the sponsor first going unsatisfied).
func StartDependencyWait(m *model.Model, siDN string, nowMillis int64) error {
	si, ok := m.GetSI(siDN)
	if !ok {
		return model.NewFault(model.KindNotExist, siDN, "SI does not exist")
	}
	if si.DependencyWaitSince != 0 {
		return nil
	}
	return m.SetSIDependencyWaitSince(siDN, nowMillis)
}

// ClearDependencyWait resets the wait marker once the sponsor becomes
// satisfied again or the tolerance timer has fired and the SI was forcibly
// unassigned.
func ClearDependencyWait(m *model.Model, siDN string) error {
	return m.SetSIDependencyWaitSince(siDN, 0)
}
