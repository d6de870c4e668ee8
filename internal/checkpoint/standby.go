package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"amfcore/internal/bus"
	"amfcore/internal/model"
	"amfcore/internal/ntf"
	"amfcore/pkg/logging"
)

// StandbyState is the standby-side session state (spec §4.6 state diagram).
type StandbyState int

const (
	WaitForColdSync StandbyState = iota
	ColdSyncInProgress
	SteadyInSync
	WaitToWarmSync
	VerifyWarmSyncData
	WaitForDataResp
)

func (s StandbyState) String() string {
	switch s {
	case WaitForColdSync:
		return "WAIT-FOR-COLD-SYNC"
	case ColdSyncInProgress:
		return "COLD-SYNC-IN-PROGRESS"
	case SteadyInSync:
		return "STEADY-IN-SYNC"
	case WaitToWarmSync:
		return "WAIT-TO-WARM-SYNC"
	case VerifyWarmSyncData:
		return "VERIFY-WARM-SYNC-DATA"
	case WaitForDataResp:
		return "WAIT-FOR-DATA-RESP"
	default:
		return "UNKNOWN"
	}
}

// Standby is the standby-side half of the Checkpoint Replicator. It mirrors
// an active session's Entity Model by applying the Records it receives and
// drives the recovery state machine on loss of sync (spec §4.6).
type Standby struct {
	mu       sync.Mutex
	m        *model.Model
	adapter  bus.Adapter
	codec    bus.Encoder
	state    StandbyState
	counter  uint64
	activeDN string
	notif    ntf.Notifier

	// DataRespTimeout bounds the send of a data request to the active; zero
	// uses a 30s default. No timer runs while in WaitForDataResp, and the
	// active is never declared unreachable.
	DataRespTimeout time.Duration
}

// NewStandby builds a Standby mirroring into m, talking to the active over
// adapter.
func NewStandby(m *model.Model, adapter bus.Adapter) *Standby {
	return &Standby{
		m:       m,
		adapter: adapter,
		codec:   bus.JSONCodec{},
		state:   WaitForColdSync,
		notif:   ntf.Null,
	}
}

// SetNotifier wires the NTF alarm fan-out for version-mismatch resyncs
// (spec §4.6 "a log entry is emitted" on incompatible peer version).
func (s *Standby) SetNotifier(n ntf.Notifier) {
	if n == nil {
		n = ntf.Null
	}
	s.notif = n
}

// State reports the current standby state (tests and CLI status reporting).
func (s *Standby) State() StandbyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Counter reports the last sync counter value this standby has observed.
func (s *Standby) Counter() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// HandlerFunc adapts Standby for bus.Adapter.Subscribe: decode the wire
// frame, then dispatch.
func (s *Standby) HandlerFunc() bus.Handler {
	return func(ctx context.Context, rec bus.Record) error {
		var cr Record
		if err := s.codec.Decode(wireTag, rec.Payload, &cr); err != nil {
			logging.Error("checkpoint", err, "failed to decode checkpoint record from %s", rec.Source)
			s.requestResync(ctx, rec.Source)
			return nil
		}
		s.activeDN = rec.Source
		s.HandleRecord(ctx, cr)
		return nil
	}
}

// HandleRecord applies one Record, advancing the state machine as needed.
func (s *Standby) HandleRecord(ctx context.Context, rec Record) {
	if rec.PeerVersion != 0 && rec.PeerVersion < MinCompatVersion {
		logging.Warn("checkpoint", "dropping record from incompatible peer version %d (need >= %d), requesting resync", rec.PeerVersion, MinCompatVersion)
		s.notif.Raise(ntf.Notification{
			Severity:      ntf.SeverityWarning,
			ProbableCause: ntf.CauseVersionMismatch,
			ObjectDN:      s.activeDN,
			Message:       fmt.Sprintf("peer version %d below minimum compatible %d", rec.PeerVersion, MinCompatVersion),
		})
		s.requestResync(ctx, s.activeDN)
		return
	}

	switch rec.Kind {
	case RecordEntityCreate:
		s.mu.Lock()
		if s.state == WaitForColdSync {
			s.state = ColdSyncInProgress
		}
		s.mu.Unlock()
		if err := s.applyCreate(rec); err != nil {
			logging.Error("checkpoint", err, "applying create for %s %s failed, requesting resync", rec.EntityKind, rec.DN)
			s.requestResync(ctx, s.activeDN)
			return
		}
	case RecordEntityUpdate:
		if err := s.applyUpdate(rec); err != nil {
			logging.Error("checkpoint", err, "applying update %s.%s for %s failed, requesting resync", rec.EntityKind, rec.Field, rec.DN)
			s.requestResync(ctx, s.activeDN)
			return
		}
	case RecordEntityDelete:
		if err := s.applyDelete(rec); err != nil {
			logging.Error("checkpoint", err, "applying delete for %s %s failed, requesting resync", rec.EntityKind, rec.DN)
			s.requestResync(ctx, s.activeDN)
			return
		}
	case RecordColdSyncComplete:
		s.mu.Lock()
		s.state = SteadyInSync
		s.counter = rec.SyncCounter
		s.mu.Unlock()
		logging.Info("checkpoint", "cold sync complete, counter=%d", rec.SyncCounter)
	case RecordWarmSyncCounter:
		s.handleWarmSyncCounter(ctx, rec)
	case RecordDataRequest:
		// Standby never receives a data request; only the active does.
	}

	// Count each live record applied in steady state, matching the active's
	// one increment per delivered record.
	switch rec.Kind {
	case RecordEntityCreate, RecordEntityUpdate, RecordEntityDelete:
		s.mu.Lock()
		if s.state == SteadyInSync {
			s.counter++
		}
		s.mu.Unlock()
	}
}

// handleWarmSyncCounter compares the active's reported counter against what
// this standby has observed; a mismatch means records were lost in transit
// (the bus delegates reliability to AsyncSend's best effort) and the
// standby must fall back to a full cold resync (spec §4.6 step 5).
func (s *Standby) handleWarmSyncCounter(ctx context.Context, rec Record) {
	s.mu.Lock()
	s.state = VerifyWarmSyncData
	mine := s.counter
	s.mu.Unlock()

	if rec.SyncCounter == mine {
		s.mu.Lock()
		s.state = SteadyInSync
		s.mu.Unlock()
		return
	}
	logging.Warn("checkpoint", "warm sync counter mismatch (have %d, active has %d), requesting full resync", mine, rec.SyncCounter)
	s.requestResync(ctx, s.activeDN)
}

// requestResync asks dest for a fresh cold sync and resets local state to
// WaitForColdSync so records arriving before the resync lands are replayed
// into a ColdSyncInProgress pass (spec §4.6 "on mismatch, standby resyncs").
func (s *Standby) requestResync(ctx context.Context, dest string) {
	s.mu.Lock()
	s.state = WaitForDataResp
	s.mu.Unlock()

	if dest == "" || s.adapter == nil {
		return
	}
	timeout := s.DataRespTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body, err := s.codec.Encode(wireTag, stampVersion(Record{Kind: RecordDataRequest}))
	if err != nil {
		logging.Error("checkpoint", err, "failed to encode data request to %s", dest)
		return
	}
	if err := s.adapter.AsyncSend(sendCtx, dest, bus.Record{Tag: wireTag, Destination: dest, Payload: body}); err != nil {
		logging.Error("checkpoint", err, "data request to %s failed", dest)
		return
	}
	s.mu.Lock()
	s.state = WaitForColdSync
	s.mu.Unlock()
}

// applyCreate decodes Payload into the concrete entity type and replays it
// through this core's own Create* primitive, the same one the active uses —
// the standby's mirror is built by the identical validation/cross-linking
// path as a live create, not a side-door bulk loader.
func (s *Standby) applyCreate(rec Record) error {
	switch rec.EntityKind {
	case model.KindCluster:
		var v model.Cluster
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		s.m.SetCluster(&v)
		return nil
	case model.KindNode:
		var v model.Node
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateNode(&v)
	case model.KindNodeGroup:
		var v model.NodeGroup
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateNodeGroup(&v)
	case model.KindSG:
		var v model.SG
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateSG(&v)
	case model.KindSU:
		var v model.SU
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateSU(&v)
	case model.KindComponentType:
		var v model.ComponentType
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateComponentType(&v)
	case model.KindComponent:
		var v model.Component
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateComponent(&v)
	case model.KindSI:
		var v model.SI
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateSI(&v)
	case model.KindCSI:
		var v model.CSI
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateCSI(&v)
	case model.KindAssignment:
		var v model.Assignment
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return err
		}
		return s.m.CreateAssignment(&v)
	default:
		return model.NewFault(model.KindValidation, rec.DN, "unknown entity kind %s on create", rec.EntityKind)
	}
}

func (s *Standby) applyDelete(rec Record) error {
	switch rec.EntityKind {
	case model.KindNode:
		return s.m.DeleteNode(rec.DN)
	case model.KindComponentType:
		return s.m.DeleteComponentType(rec.DN)
	case model.KindComponent:
		return s.m.DeleteComponent(rec.DN)
	case model.KindSG:
		return s.m.DeleteSG(rec.DN)
	case model.KindSU:
		return s.m.DeleteSU(rec.DN)
	case model.KindSI:
		return s.m.DeleteSI(rec.DN)
	case model.KindCSI:
		return s.m.DeleteCSI(rec.DN)
	case model.KindAssignment:
		return s.m.DeleteAssignment(rec.DN)
	default:
		return model.NewFault(model.KindValidation, rec.DN, "unknown entity kind %s on delete", rec.EntityKind)
	}
}

// updateDispatch enumerates every (EntityKind, field) pair the Entity Model
// actually emits via EmitUpdate (grep of every emitUpdate call site), since
// AttrValue cannot be generically reconstructed from ValueText without
// knowing the field's Go type ahead of time. Every field below is an
// int-backed enum or a millisecond count, rendered by AttrValue.AsString()
// as a plain decimal — so replay is an Atoi followed by the matching
// setter, never a string-keyed enum parse.
var updateDispatch = map[model.EntityKind]map[string]func(m *model.Model, dn string, i int64) error{
	model.KindNode: {
		"AdminState": func(m *model.Model, dn string, i int64) error {
			return m.SetNodeAdminState(dn, model.AdminState(i))
		},
		"OperState": func(m *model.Model, dn string, i int64) error {
			return m.SetNodeOperState(dn, model.OperState(i))
		},
	},
	model.KindNodeGroup: {
		"AdminState": func(m *model.Model, dn string, i int64) error {
			return m.SetNodeGroupAdminState(dn, model.AdminState(i))
		},
	},
	model.KindComponent: {
		"PresenceState": func(m *model.Model, dn string, i int64) error {
			return m.SetComponentPresenceState(dn, model.PresenceState(i))
		},
		"OperState": func(m *model.Model, dn string, i int64) error {
			return m.SetComponentOperState(dn, model.OperState(i))
		},
	},
	model.KindSG: {
		"FSMState": func(m *model.Model, dn string, i int64) error {
			return m.SetSGFSMState(dn, model.SGFSMState(i))
		},
	},
	model.KindSU: {
		"Presence": func(m *model.Model, dn string, i int64) error {
			return m.SetSUPresence(dn, model.PresenceState(i))
		},
		"AdminState": func(m *model.Model, dn string, i int64) error {
			return m.SetSUAdminState(dn, model.AdminState(i))
		},
		"OperState": func(m *model.Model, dn string, i int64) error {
			return m.SetSUOperState(dn, model.OperState(i))
		},
		"Readiness": func(m *model.Model, dn string, i int64) error {
			return m.SetSUReadiness(dn, model.ReadinessState(i))
		},
	},
	model.KindSI: {
		"DependencyWaitSince": func(m *model.Model, dn string, i int64) error {
			return m.SetSIDependencyWaitSince(dn, i)
		},
		"AssignmentState": func(m *model.Model, dn string, i int64) error {
			return m.SetSIAssignmentState(dn, model.AssignmentState(i))
		},
	},
	model.KindAssignment: {
		"HAState": func(m *model.Model, dn string, i int64) error {
			return m.SetAssignmentHAState(dn, model.HAState(i))
		},
		"EdgeState": func(m *model.Model, dn string, i int64) error {
			return m.SetAssignmentEdgeState(dn, model.AssignmentEdgeState(i))
		},
	},
}

func (s *Standby) applyUpdate(rec Record) error {
	byField, ok := updateDispatch[rec.EntityKind]
	if !ok {
		return model.NewFault(model.KindValidation, rec.DN, "no update dispatch registered for entity kind %s", rec.EntityKind)
	}
	fn, ok := byField[rec.Field]
	if !ok {
		return model.NewFault(model.KindValidation, rec.DN, "no update dispatch registered for %s.%s", rec.EntityKind, rec.Field)
	}
	i, err := strconv.ParseInt(rec.ValueText, 10, 64)
	if err != nil {
		return model.Wrap(model.KindValidation, rec.DN, err)
	}
	return fn(s.m, rec.DN, i)
}
