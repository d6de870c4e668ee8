package model

import "slices"

// CLCCommand is a CLC-CLI command string with its arguments and timeout
// (spec §3). Arguments may contain template placeholders resolved by
// internal/template at execution time (node name, instantiation-level, etc.).
type CLCCommand struct {
	Command string
	Args    []string
	Timeout durationMillis
}

func (c CLCCommand) equal(other CLCCommand) bool {
	return c.Command == other.Command && c.Timeout == other.Timeout && slices.Equal(c.Args, other.Args)
}

// ComponentType is the template a Component inherits unset attributes from
// (spec §3). Component.InheritedMask records which attributes a given
// instance has NOT overridden. The Config Adapter rejects ComponentType
// modifies, so a type change never cascades to its instances.
type ComponentType struct {
	DN string

	DefaultInstantiate    CLCCommand
	DefaultTerminate      CLCCommand
	DefaultCleanup        CLCCommand
	DefaultAmStart        CLCCommand
	DefaultAmStop         CLCCommand
	DefaultHealthcheck     CLCCommand
	DefaultCategory        ComponentCategory
	DefaultRecovery        RecoveryType
	DefaultQuiescingTimeout durationMillis
	DefaultDisableRestart  bool

	// InstanceDNs lists components created from this type;
	// DeleteComponentType refuses to delete the type while it is non-empty.
	InstanceDNs []string
}

// sameConfig reports whether ct and other carry identical configured
// attributes, ignoring the derived InstanceDNs list. Used by
// CreateComponentType for spec §7 EXIST "idempotent import" semantics.
func (ct *ComponentType) sameConfig(other *ComponentType) bool {
	return ct.DefaultInstantiate.equal(other.DefaultInstantiate) &&
		ct.DefaultTerminate.equal(other.DefaultTerminate) &&
		ct.DefaultCleanup.equal(other.DefaultCleanup) &&
		ct.DefaultAmStart.equal(other.DefaultAmStart) &&
		ct.DefaultAmStop.equal(other.DefaultAmStop) &&
		ct.DefaultHealthcheck.equal(other.DefaultHealthcheck) &&
		ct.DefaultCategory == other.DefaultCategory &&
		ct.DefaultRecovery == other.DefaultRecovery &&
		ct.DefaultQuiescingTimeout == other.DefaultQuiescingTimeout &&
		ct.DefaultDisableRestart == other.DefaultDisableRestart
}
