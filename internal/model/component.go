package model

// InheritedAttr identifies a single Component attribute that may be inherited
// from its ComponentType (spec §3 "Component Type").
type InheritedAttr uint32

const (
	InheritInstantiate InheritedAttr = 1 << iota
	InheritTerminate
	InheritCleanup
	InheritAmStart
	InheritAmStop
	InheritHealthcheck
	InheritCategory
	InheritRecovery
	InheritQuiescingTimeout
	InheritDisableRestart

	inheritAll = InheritInstantiate | InheritTerminate | InheritCleanup |
		InheritAmStart | InheritAmStop | InheritHealthcheck | InheritCategory |
		InheritRecovery | InheritQuiescingTimeout | InheritDisableRestart
)

// Component is the thing AMF instantiates (spec §3).
type Component struct {
	DN            string
	ParentSUDN    string
	ComponentTypeDN string

	Category   ComponentCategory
	Capability ComponentCapability

	Instantiate CLCCommand
	Terminate   CLCCommand
	Cleanup     CLCCommand
	AmStart     CLCCommand
	AmStop      CLCCommand
	Healthcheck CLCCommand

	InstantiationLevel           int
	MaxInstantiateWithoutDelay   int
	MaxInstantiateWithDelay      int
	DelayBetweenInstantiateAttempts durationMillis

	DefaultRecovery  RecoveryType
	DisableRestart   bool
	QuiescingTimeout durationMillis

	PresenceState  PresenceState
	OperState      OperState
	Readiness      ReadinessState
	RestartCount   int
	ProxyStatus    ProxyStatus
	CurrentProxyName string

	// InheritedMask records which attributes are NOT overridden on this
	// instance and therefore still track the ComponentType (spec §3, §4.2).
	InheritedMask InheritedAttr

	AssignedCSIDNs []string // set, enumerated in CSI rank order by caller
}

// IsInherited reports whether attr still tracks the component type.
func (c *Component) IsInherited(attr InheritedAttr) bool {
	return c.InheritedMask&attr != 0
}

// sameConfig reports whether c and other carry identical configured
// attributes, ignoring derived AssignedCSIDNs and runtime lifecycle state
// (PresenceState, OperState, Readiness, RestartCount, ProxyStatus,
// CurrentProxyName). Used by CreateComponent for spec §7 EXIST "idempotent
// import" semantics.
func (c *Component) sameConfig(other *Component) bool {
	return c.ComponentTypeDN == other.ComponentTypeDN &&
		c.Category == other.Category &&
		c.Capability == other.Capability &&
		c.InheritedMask == other.InheritedMask
}

// NewComponentFromType builds a Component whose fields all come from ct,
// with every InheritedMask bit set. The Config Adapter rejects Component
// modifies, so no bit is cleared afterwards.
func NewComponentFromType(dn, parentSU string, ct *ComponentType) *Component {
	return &Component{
		DN:               dn,
		ParentSUDN:       parentSU,
		ComponentTypeDN:  ct.DN,
		Category:         ct.DefaultCategory,
		Instantiate:      ct.DefaultInstantiate,
		Terminate:        ct.DefaultTerminate,
		Cleanup:          ct.DefaultCleanup,
		AmStart:          ct.DefaultAmStart,
		AmStop:           ct.DefaultAmStop,
		Healthcheck:      ct.DefaultHealthcheck,
		DefaultRecovery:  promoteRecovery(ct.DefaultRecovery),
		DisableRestart:   ct.DefaultDisableRestart,
		QuiescingTimeout: ct.DefaultQuiescingTimeout,
		PresenceState:    PresenceUninstantiated,
		OperState:        OperDisabled,
		Readiness:        ReadinessOutOfService,
		InheritedMask:    inheritAll,
	}
}

// promoteRecovery silently rewrites NO-RECOMMENDATION to COMPONENT-FAILOVER at
// load time, per spec §3 invariant. Open Question (§9) resolved in DESIGN.md:
// the rewrite is applied at class-create and instance-create time only, not on
// in-place modify, matching the only behavior the spec text proves.
func promoteRecovery(r RecoveryType) RecoveryType {
	if r == RecoveryNoRecommendation {
		return RecoveryComponentFailover
	}
	return r
}
