// Package model implements the Entity Model (spec §4.1): the in-memory typed
// graph of cluster, node, node-group, SG, SU, component, SI, CSI and their
// relations. It is the sole owner of every entity; all cross-references are
// DN strings resolved through this package's maps (Design Note: "cyclic
// references between SU, SG, Node, and assignment edges").
//
// Every mutation follows the four-step contract from spec §4.1: validate,
// apply, checkpoint-emit if state-affecting, schedule a runtime-object update
// if runtime-visible. The Model itself is driven exclusively from the single
// cooperative event-loop goroutine (spec §5); Snapshot is the only method
// safe to call from another goroutine.
package model

import "sync"

// EntityKind tags which owning map an operation concerns, used by ChangeSink
// and RuntimeNotifier to label records without requiring reflection.
type EntityKind int

const (
	KindCluster EntityKind = iota
	KindNode
	KindNodeGroup
	KindSG
	KindSU
	KindComponentType
	KindComponent
	KindSI
	KindCSI
	KindAssignment
)

func (k EntityKind) String() string {
	switch k {
	case KindCluster:
		return "Cluster"
	case KindNode:
		return "Node"
	case KindNodeGroup:
		return "NodeGroup"
	case KindSG:
		return "SG"
	case KindSU:
		return "SU"
	case KindComponentType:
		return "ComponentType"
	case KindComponent:
		return "Component"
	case KindSI:
		return "SI"
	case KindCSI:
		return "CSI"
	case KindAssignment:
		return "Assignment"
	default:
		return "Unknown"
	}
}

// ChangeSink receives checkpoint-worthy mutations (spec §4.1 step 3). The
// Checkpoint Replicator implements this and enqueues records on its per-
// session FIFO (spec §4.6).
type ChangeSink interface {
	EmitCreate(kind EntityKind, dn string, snapshot AttrSet)
	EmitUpdate(kind EntityKind, dn string, field string, value AttrValue)
	EmitDelete(kind EntityKind, dn string)
}

// RuntimeNotifier receives runtime-visible attribute changes (spec §4.1 step
// 4). The Config Adapter implements this to push saAmf* runtime attribute
// updates toward the configuration object store.
type RuntimeNotifier interface {
	NotifyRuntimeUpdate(kind EntityKind, dn string, field string, value AttrValue)
}

// nullSink/nullNotifier let a Model be constructed before the Replicator and
// Config Adapter exist yet (bootstrap ordering, Design Note "global
// singletons"), without nil-checking at every call site.
type nullSink struct{}

func (nullSink) EmitCreate(EntityKind, string, AttrSet)          {}
func (nullSink) EmitUpdate(EntityKind, string, string, AttrValue) {}
func (nullSink) EmitDelete(EntityKind, string)                   {}

type nullNotifier struct{}

func (nullNotifier) NotifyRuntimeUpdate(EntityKind, string, string, AttrValue) {}

// Model owns every entity map. Fields are unexported; all access goes through
// typed methods so every mutation passes through the validate/apply/emit
// pipeline.
type Model struct {
	mu sync.RWMutex // guards reads from non-event-loop goroutines only

	changeSink ChangeSink
	notifier   RuntimeNotifier

	cluster     *Cluster
	nodes       map[string]*Node
	nodeGroups  map[string]*NodeGroup
	sgs         map[string]*SG
	sus         map[string]*SU
	compTypes   map[string]*ComponentType
	components  map[string]*Component
	sis         map[string]*SI
	csis        map[string]*CSI
	assignments map[string]*Assignment
}

// New creates an empty Model. SetChangeSink/SetRuntimeNotifier are called
// once the Replicator and Config Adapter exist (init order: bus → store →
// replicator → entity-model → engines, Design Note "global singletons").
func New() *Model {
	return &Model{
		changeSink:  nullSink{},
		notifier:    nullNotifier{},
		nodes:       map[string]*Node{},
		nodeGroups:  map[string]*NodeGroup{},
		sgs:         map[string]*SG{},
		sus:         map[string]*SU{},
		compTypes:   map[string]*ComponentType{},
		components:  map[string]*Component{},
		sis:         map[string]*SI{},
		csis:        map[string]*CSI{},
		assignments: map[string]*Assignment{},
	}
}

// SetChangeSink wires the Checkpoint Replicator.
func (m *Model) SetChangeSink(s ChangeSink) {
	if s == nil {
		s = nullSink{}
	}
	m.changeSink = s
}

// SetRuntimeNotifier wires the Config Adapter.
func (m *Model) SetRuntimeNotifier(n RuntimeNotifier) {
	if n == nil {
		n = nullNotifier{}
	}
	m.notifier = n
}

func (m *Model) emitCreate(kind EntityKind, dn string, snap AttrSet) {
	m.changeSink.EmitCreate(kind, dn, snap)
}

func (m *Model) emitUpdate(kind EntityKind, dn, field string, v AttrValue) {
	m.changeSink.EmitUpdate(kind, dn, field, v)
}

func (m *Model) emitDelete(kind EntityKind, dn string) {
	m.changeSink.EmitDelete(kind, dn)
}

func (m *Model) notifyRuntime(kind EntityKind, dn, field string, v AttrValue) {
	m.notifier.NotifyRuntimeUpdate(kind, dn, field, v)
}

// lock/unlock bracket mutation methods called from the event-loop goroutine;
// they exist so that Snapshot-style readers from other goroutines (CLI
// queries, healthcheck reporters) never observe a torn write, per spec §5
// ("every entity map is owned by the main thread only" — we still guard with
// a mutex because the CLI's read path intentionally runs off-loop).
func (m *Model) lock()   { m.mu.Lock() }
func (m *Model) unlock() { m.mu.Unlock() }
