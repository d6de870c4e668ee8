package configadapter

import (
	"strconv"
	"strings"

	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

// attrString returns attrs[key], falling back to def if unset or blank.
func attrString(attrs RawObject, key, def string) string {
	if v, ok := attrs[key]; ok && v != "" {
		return v
	}
	return def
}

func attrInt(attrs RawObject, key string, def int) int {
	v, ok := attrs[key]
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logging.Warn("configadapter", "attribute %s=%q is not an integer, keeping default %d", key, v, def)
		return def
	}
	return n
}

func attrInt64(attrs RawObject, key string, def int64) int64 {
	v, ok := attrs[key]
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logging.Warn("configadapter", "attribute %s=%q is not an integer, keeping default %d", key, v, def)
		return def
	}
	return n
}

func attrBool(attrs RawObject, key string, def bool) bool {
	v, ok := attrs[key]
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logging.Warn("configadapter", "attribute %s=%q is not a boolean, keeping default %v", key, v, def)
		return def
	}
	return b
}

// attrList splits a comma-separated DN list attribute, trimming whitespace
// and dropping empty entries.
func attrList(attrs RawObject, key string) []string {
	v, ok := attrs[key]
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseRedundancyModel(attrs RawObject, key string) model.RedundancyModel {
	switch strings.ToUpper(attrString(attrs, key, "2N")) {
	case "2N":
		return model.Redundancy2N
	case "N+M":
		return model.RedundancyNPlusM
	case "N-WAY":
		return model.RedundancyNWay
	case "N-WAY-ACTIVE":
		return model.RedundancyNWayActive
	case "NO-REDUNDANCY":
		return model.RedundancyNoRedundancy
	default:
		logging.Warn("configadapter", "unrecognized %s=%q, defaulting to 2N", key, attrs[key])
		return model.Redundancy2N
	}
}

func parseAdminState(attrs RawObject, key string, def model.AdminState) model.AdminState {
	switch strings.ToUpper(attrString(attrs, key, def.String())) {
	case "UNLOCKED":
		return model.AdminUnlocked
	case "LOCKED":
		return model.AdminLocked
	case "LOCKED-INSTANTIATION":
		return model.AdminLockedInstantiation
	case "SHUTTING-DOWN":
		return model.AdminShuttingDown
	default:
		return def
	}
}

func parseCategory(attrs RawObject, key string) model.ComponentCategory {
	switch strings.ToUpper(attrString(attrs, key, "SA-AWARE")) {
	case "SA-AWARE":
		return model.CategorySAAware
	case "PROXIED-PREINSTANTIABLE":
		return model.CategoryProxiedLocalPreInst
	case "PROXIED-NON-PREINSTANTIABLE":
		return model.CategoryProxiedLocalNonPreInst
	case "EXTERNAL-PREINSTANTIABLE":
		return model.CategoryExternalPreInst
	case "EXTERNAL-NON-PREINSTANTIABLE":
		return model.CategoryExternalNonPreInst
	case "NON-SAF":
		return model.CategoryNonSAF
	default:
		logging.Warn("configadapter", "unrecognized %s=%q, defaulting to SA-AWARE", key, attrs[key])
		return model.CategorySAAware
	}
}

func parseCapability(attrs RawObject, key string) model.ComponentCapability {
	switch strings.ToUpper(attrString(attrs, key, "X_ACTIVE_AND_Y_STANDBY")) {
	case "1_ACTIVE_OR_1_STANDBY":
		return model.Cap1ActiveOr1Standby
	case "1_ACTIVE_OR_Y_STANDBY":
		return model.Cap1ActiveOrYStandby
	case "X_ACTIVE_AND_Y_STANDBY":
		return model.CapXActiveAndYStandby
	case "1_ACTIVE":
		return model.Cap1Active
	case "X_ACTIVE":
		return model.CapXActive
	case "NON_PRE_INSTANTIABLE":
		return model.CapNonPreInst
	default:
		logging.Warn("configadapter", "unrecognized %s=%q, defaulting to X_ACTIVE_AND_Y_STANDBY", key, attrs[key])
		return model.CapXActiveAndYStandby
	}
}

// parseRecovery parses a recovery attribute, applying the NO-RECOMMENDATION
// to COMPONENT-FAILOVER rewrite the same way model.promoteRecovery does at
// object-construction time (spec §3 invariant; see model.NewComponentFromType).
func parseRecovery(attrs RawObject, key string) model.RecoveryType {
	switch strings.ToUpper(attrString(attrs, key, "NO-RECOMMENDATION")) {
	case "COMPONENT-RESTART":
		return model.RecoveryComponentRestart
	case "COMPONENT-FAILOVER":
		return model.RecoveryComponentFailover
	case "NODE-SWITCHOVER":
		return model.RecoveryNodeSwitchover
	case "NODE-FAILOVER":
		return model.RecoveryNodeFailover
	case "NODE-FAILFAST":
		return model.RecoveryNodeFailfast
	case "CLUSTER-RESET":
		return model.RecoveryClusterReset
	case "NO-RECOMMENDATION":
		return model.RecoveryComponentFailover
	default:
		logging.Warn("configadapter", "unrecognized %s=%q, defaulting to COMPONENT-FAILOVER", key, attrs[key])
		return model.RecoveryComponentFailover
	}
}

func parseClcCommand(attrs RawObject, prefix string) model.CLCCommand {
	cmd := attrString(attrs, prefix+"Cmd", "")
	if cmd == "" {
		return model.CLCCommand{}
	}
	return model.CLCCommand{
		Command: cmd,
		Args:    attrList(attrs, prefix+"Args"),
		Timeout: model.Millis(attrInt64(attrs, prefix+"Timeout", 0)),
	}
}
