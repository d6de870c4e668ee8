package cld

import "amfcore/internal/model"

// validTransition reports whether the presence-state machine (spec §4.5)
// permits moving from from to to. UNINSTANTIATED and the two terminal
// *-FAILED states allow a repair transition back into the active machine;
// every other edge follows the documented diagram directly.
func validTransition(from, to model.PresenceState) bool {
	switch from {
	case model.PresenceUninstantiated:
		return to == model.PresenceInstantiating
	case model.PresenceInstantiating:
		return to == model.PresenceInstantiated || to == model.PresenceInstantiationFailed
	case model.PresenceInstantiated:
		return to == model.PresenceTerminating || to == model.PresenceRestarting
	case model.PresenceTerminating:
		return to == model.PresenceUninstantiated || to == model.PresenceTerminationFailed
	case model.PresenceRestarting:
		return to == model.PresenceInstantiated || to == model.PresenceInstantiationFailed || to == model.PresenceTerminating
	case model.PresenceInstantiationFailed:
		return to == model.PresenceInstantiating || to == model.PresenceUninstantiated
	case model.PresenceTerminationFailed:
		return to == model.PresenceTerminating || to == model.PresenceUninstantiated
	default:
		return false
	}
}
