package cli

import (
	"fmt"
	"strings"

	"amfcore/internal/model"
)

// ParseAdminOperation maps a --op flag value onto a model.AdminOperation
// using the spec §4.4 operation names, case-insensitively and tolerant of
// either hyphen or underscore separators (so "lock-instantiation" and
// "LOCK_INSTANTIATION" both resolve).
func ParseAdminOperation(s string) (model.AdminOperation, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	switch norm {
	case "UNLOCK":
		return model.OpUnlock, nil
	case "LOCK":
		return model.OpLock, nil
	case "SHUTDOWN":
		return model.OpShutdown, nil
	case "LOCK-INSTANTIATION":
		return model.OpLockInstantiation, nil
	case "UNLOCK-INSTANTIATION":
		return model.OpUnlockInstantiation, nil
	case "RESTART":
		return model.OpRestart, nil
	case "SI-SWAP":
		return model.OpSISwap, nil
	case "EAM-START":
		return model.OpEAMStart, nil
	case "EAM-STOP":
		return model.OpEAMStop, nil
	case "CHANGE-FILTER":
		return model.OpChangeFilter, nil
	default:
		return 0, fmt.Errorf("unknown admin operation %q", s)
	}
}
