// Package checkpoint implements the AvD-AvD Checkpoint Replicator (spec
// §4.6): an active-side Replicator that mirrors every state-affecting Entity
// Model mutation to one or more standby sessions over the Message Bus
// Adapter, and a standby-side state machine that applies what it receives
// and recovers from cold sync, warm sync, and data-request.
package checkpoint

import "amfcore/internal/model"

// RecordKind tags a Record's payload shape (spec §4.6 "each has a tag byte
// and a payload"). The spec names more record kinds than this core's entity
// set needs distinct wire shapes for (e.g. "component configuration record"
// and "full-entity create" carry the same Component snapshot here); they are
// collapsed onto EntityCreate/EntityUpdate/EntityDelete plus the sync
// protocol's own control records.
type RecordKind int

const (
	RecordEntityCreate RecordKind = iota
	RecordEntityUpdate
	RecordEntityDelete
	RecordColdSyncComplete
	RecordWarmSyncCounter
	RecordDataRequest
)

func (k RecordKind) String() string {
	switch k {
	case RecordEntityCreate:
		return "ENTITY-CREATE"
	case RecordEntityUpdate:
		return "ENTITY-UPDATE"
	case RecordEntityDelete:
		return "ENTITY-DELETE"
	case RecordColdSyncComplete:
		return "COLD-SYNC-COMPLETE"
	case RecordWarmSyncCounter:
		return "WARM-SYNC-COUNTER"
	case RecordDataRequest:
		return "DATA-REQUEST"
	default:
		return "UNKNOWN"
	}
}

// ProtocolVersion is this build's checkpoint wire version; MinCompatVersion
// is the oldest peer version it still accepts (spec §4.6 "pair of
// {peer-version, minimum-compatible-version}").
const (
	ProtocolVersion  = 1
	MinCompatVersion = 1
)

// Record is one checkpoint message (spec §4.6). Only the fields relevant to
// Kind are populated; Payload carries a JSON-encoded *model.<Kind type> for
// EntityCreate, letting the standby decode straight into the same Go type
// the active holds without a parallel schema.
type Record struct {
	Kind       RecordKind
	EntityKind model.EntityKind
	DN         string

	// EntityUpdate only.
	Field     string
	ValueText string

	// EntityCreate only: JSON-encoded concrete entity (*model.Node, *model.SU, ...).
	Payload []byte

	// ColdSyncComplete / WarmSyncCounter only.
	SyncCounter uint64

	PeerVersion      int
	MinCompatVersion int
}

// stampVersion fills in this build's version pair, called just before a
// Record is handed to the bus.
func stampVersion(r Record) Record {
	r.PeerVersion = ProtocolVersion
	r.MinCompatVersion = MinCompatVersion
	return r
}
