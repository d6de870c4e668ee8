package model

// sameConfig reports whether n and other carry identical configured
// attributes (everything set by the Config Adapter at create time), ignoring
// the derived cross-reference lists populated by CreateSU/CreateNodeGroup.
// Used by CreateNode to turn a re-import of an unchanged node into a no-op
// (spec §7 EXIST "idempotent import").
func (n *Node) sameConfig(other *Node) bool {
	return n.CLMRef == other.CLMRef &&
		n.AdminState == other.AdminState &&
		n.SUFailoverProbation == other.SUFailoverProbation &&
		n.SUFailoverMax == other.SUFailoverMax &&
		n.AutoRepair == other.AutoRepair &&
		n.FailfastOnTerminationFailure == other.FailfastOnTerminationFailure &&
		n.FailfastOnInstantiationFailure == other.FailfastOnInstantiationFailure
}

// Node is keyed by distinguished name (spec §3). SUs it hosts are tracked as
// two rank-ordered DN lists — middleware SUs first, then application SUs —
// per the spec's "two such lists" requirement; ownership of the SU itself
// stays with the SU's parent SG map, these are logical references.
type Node struct {
	DN    string
	CLMRef string

	OperState  OperState
	AdminState AdminState
	NodeState  NodeState

	SUFailoverProbation          durationMillis
	SUFailoverMax                int
	AutoRepair                   bool
	FailfastOnTerminationFailure bool
	FailfastOnInstantiationFailure bool

	MiddlewareSUDNs  []string // sorted by SU rank, then insertion order
	ApplicationSUDNs []string

	NodeGroupDNs []string // node groups this node is a member of
}

// durationMillis keeps the model package free of a hard dependency on
// time.Duration semantics bleeding into comparisons; it is a plain int64 of
// milliseconds, matching how the configuration store would hand over a
// SaTimeT-shaped attribute.
type durationMillis int64

// Millis lets callers outside this package (the Config Adapter, mainly)
// build a durationMillis value from a parsed attribute without needing to
// name the unexported type themselves.
func Millis(ms int64) durationMillis { return durationMillis(ms) }

// HostsSUs reports whether the node currently hosts any SU, used by the
// delete-on-lock-instantiation invariant (spec §3 Node lifecycle).
func (n *Node) HostsSUs() bool {
	return len(n.MiddlewareSUDNs) > 0 || len(n.ApplicationSUDNs) > 0
}

// AllSUDNs returns middleware SUs followed by application SUs, the ordering
// the spec calls out explicitly.
func (n *Node) AllSUDNs() []string {
	out := make([]string, 0, len(n.MiddlewareSUDNs)+len(n.ApplicationSUDNs))
	out = append(out, n.MiddlewareSUDNs...)
	out = append(out, n.ApplicationSUDNs...)
	return out
}
