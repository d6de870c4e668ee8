package checkpoint

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"amfcore/internal/bus"
	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

const wireTag = "checkpoint.Record"

// coldSyncOrder is the sequence classDepth-like ordering cold sync replays
// entities in (spec §4.6 "leaves first: component types... before
// instances; then nodes; then SGs; SUs; SIs; CSIs; assignments"). This
// core's entity set has one type-catalog (ComponentType, no separate SU/SG
// type catalogs), so Cluster and ComponentType are sent first as the two
// parentless objects, followed by the spec's literal containment order.
var coldSyncOrder = []model.EntityKind{
	model.KindCluster,
	model.KindComponentType,
	model.KindNode,
	model.KindNodeGroup,
	model.KindSG,
	model.KindSU,
	model.KindComponent,
	model.KindSI,
	model.KindCSI,
	model.KindAssignment,
}

// session is one peer's replication state on the active side: a FIFO queue
// of records awaiting delivery (spec §4.6 "enqueued on a per-session FIFO")
// and the sync counter value the active believes the standby has observed.
type session struct {
	dest        string
	queue       chan Record
	lastAcked   uint64
	cancel      context.CancelFunc
}

// Replicator is the active-side half of the Checkpoint Replicator (spec
// §4.6). It implements model.ChangeSink, so the Entity Model can be wired
// to call it directly; every state-affecting mutation becomes a Record
// enqueued to every registered standby session and drained over the bus
// using AsyncSend, incrementing the active's single sync counter (shared by
// all sessions) once for each record the transport accepts. The standby
// sends no per-record acknowledgement.
type Replicator struct {
	mu       sync.Mutex
	m        *model.Model
	adapter  bus.Adapter
	codec    bus.Encoder
	sessions map[string]*session
	counter  uint64
	selfDest string
}

// NewReplicator builds a Replicator bound to m and adapter. selfDest is this
// node's virtual bus destination, used as the Source on outbound records.
func NewReplicator(m *model.Model, adapter bus.Adapter, selfDest string) *Replicator {
	return &Replicator{
		m:        m,
		adapter:  adapter,
		codec:    bus.JSONCodec{},
		sessions: map[string]*session{},
		selfDest: selfDest,
	}
}

// Counter reports the active's current sync counter (tests and status
// reporting), mirroring Standby.Counter() on the other side of the session.
func (r *Replicator) Counter() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

// EmitCreate implements model.ChangeSink. The Model's own create primitives
// pass a nil snapshot (they never populate one), so the Replicator re-reads
// the entity via Snapshot() instead of trusting the argument — Snapshot()
// already gives a deep, race-safe copy, which a passed-in AttrSet would not
// improve on.
func (r *Replicator) EmitCreate(kind model.EntityKind, dn string, _ model.AttrSet) {
	payload, err := r.encodeEntity(kind, dn)
	if err != nil {
		logging.Error("checkpoint", err, "failed to encode %s %s for replication", kind, dn)
		return
	}
	r.enqueue(Record{Kind: RecordEntityCreate, EntityKind: kind, DN: dn, Payload: payload})
}

// EmitUpdate implements model.ChangeSink.
func (r *Replicator) EmitUpdate(kind model.EntityKind, dn string, field string, value model.AttrValue) {
	r.enqueue(Record{Kind: RecordEntityUpdate, EntityKind: kind, DN: dn, Field: field, ValueText: value.AsString()})
}

// EmitDelete implements model.ChangeSink.
func (r *Replicator) EmitDelete(kind model.EntityKind, dn string) {
	r.enqueue(Record{Kind: RecordEntityDelete, EntityKind: kind, DN: dn})
}

func (r *Replicator) enqueue(rec Record) {
	r.mu.Lock()
	sessions := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()
	// A dropped record is never resent. The standby sees the counter gap at
	// its next warm sync and sends a data request, which the Replicator has
	// no handler for.
	for _, s := range sessions {
		select {
		case s.queue <- rec:
		default:
			logging.Warn("checkpoint", "session %s queue full, dropping %s record for %s (the standby's next warm sync reports the counter gap)", s.dest, rec.Kind, rec.DN)
		}
	}
}

// AddSession registers dest as a standby and starts its cold sync and drain
// loops. ctx bounds the session's lifetime; cancel it (or call
// RemoveSession) to tear the session down.
func (r *Replicator) AddSession(ctx context.Context, dest string) {
	sctx, cancel := context.WithCancel(ctx)
	s := &session{dest: dest, queue: make(chan Record, 1024), cancel: cancel}
	r.mu.Lock()
	r.sessions[dest] = s
	r.mu.Unlock()

	go r.drainLoop(sctx, s)
	go func() {
		if err := r.ColdSync(sctx, dest); err != nil {
			logging.Error("checkpoint", err, "cold sync to %s failed", dest)
		}
	}()
}

// RemoveSession tears a standby session down.
func (r *Replicator) RemoveSession(dest string) {
	r.mu.Lock()
	s, ok := r.sessions[dest]
	delete(r.sessions, dest)
	r.mu.Unlock()
	if ok {
		s.cancel()
	}
}

// drainLoop delivers queued records to dest in order using send (AsyncSend).
// A record the transport rejects is logged and skipped, and the counter is
// not incremented for it.
func (r *Replicator) drainLoop(ctx context.Context, s *session) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-s.queue:
			if err := r.send(ctx, s.dest, rec); err != nil {
				logging.Warn("checkpoint", "delivering %s record for %s to %s failed: %v", rec.Kind, rec.DN, s.dest, err)
				continue
			}
			r.mu.Lock()
			r.counter++
			s.lastAcked = r.counter
			r.mu.Unlock()
		}
	}
}

// send uses AsyncSend, matching the Adapter's own guidance that AsyncSend is
// "used for checkpoint record streaming" (spec §4.7) — the replicator relies
// on sync-counter reconciliation, not a per-record reply, to detect loss.
func (r *Replicator) send(ctx context.Context, dest string, rec Record) error {
	rec = stampVersion(rec)
	body, err := r.codec.Encode(wireTag, rec)
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.adapter.AsyncSend(sendCtx, dest, bus.Record{Tag: wireTag, Source: r.selfDest, Destination: dest, Payload: body})
}

// ColdSync replays every entity to dest in coldSyncOrder, then sends a
// cold-sync-complete record carrying the active's current counter (spec
// §4.6 step 3).
func (r *Replicator) ColdSync(ctx context.Context, dest string) error {
	snap := r.m.Snapshot()
	for _, kind := range coldSyncOrder {
		dns, err := entityDNsInKind(snap, kind)
		if err != nil {
			return err
		}
		for _, dn := range dns {
			payload, err := r.encodeEntity(kind, dn)
			if err != nil {
				return err
			}
			if err := r.send(ctx, dest, Record{Kind: RecordEntityCreate, EntityKind: kind, DN: dn, Payload: payload}); err != nil {
				return err
			}
		}
	}
	r.mu.Lock()
	counter := r.counter
	r.mu.Unlock()
	return r.send(ctx, dest, Record{Kind: RecordColdSyncComplete, SyncCounter: counter})
}

// WarmSyncTick sends every session its current counter (spec §4.6 step 4).
// Callers run this on a periodic timer off the main loop's own ticking
// (cmd/serve.go wires it).
func (r *Replicator) WarmSyncTick(ctx context.Context) {
	r.mu.Lock()
	counter := r.counter
	dests := make([]string, 0, len(r.sessions))
	for dest := range r.sessions {
		dests = append(dests, dest)
	}
	r.mu.Unlock()
	for _, dest := range dests {
		if err := r.send(ctx, dest, Record{Kind: RecordWarmSyncCounter, SyncCounter: counter}); err != nil {
			logging.Warn("checkpoint", "warm sync to %s failed: %v", dest, err)
		}
	}
}

// encodeEntity looks the entity up by kind/dn and JSON-marshals the
// concrete pointer, so the standby can decode straight into the same Go
// type without a parallel wire schema.
func (r *Replicator) encodeEntity(kind model.EntityKind, dn string) ([]byte, error) {
	switch kind {
	case model.KindCluster:
		return json.Marshal(r.m.Cluster())
	case model.KindNode:
		n, _ := r.m.GetNode(dn)
		return json.Marshal(n)
	case model.KindNodeGroup:
		g, _ := r.m.GetNodeGroup(dn)
		return json.Marshal(g)
	case model.KindSG:
		g, _ := r.m.GetSG(dn)
		return json.Marshal(g)
	case model.KindSU:
		su, _ := r.m.GetSU(dn)
		return json.Marshal(su)
	case model.KindComponentType:
		ct, _ := r.m.GetComponentType(dn)
		return json.Marshal(ct)
	case model.KindComponent:
		c, _ := r.m.GetComponent(dn)
		return json.Marshal(c)
	case model.KindSI:
		si, _ := r.m.GetSI(dn)
		return json.Marshal(si)
	case model.KindCSI:
		csi, _ := r.m.GetCSI(dn)
		return json.Marshal(csi)
	case model.KindAssignment:
		a, _ := r.m.GetAssignment(dn)
		return json.Marshal(a)
	default:
		return nil, model.NewFault(model.KindValidation, dn, "unknown entity kind %s", kind)
	}
}

func entityDNsInKind(snap model.Snapshot, kind model.EntityKind) ([]string, error) {
	switch kind {
	case model.KindCluster:
		if snap.Cluster == nil {
			return nil, nil
		}
		return []string{snap.Cluster.DN}, nil
	case model.KindNode:
		return keysOf(snap.Nodes), nil
	case model.KindNodeGroup:
		return keysOf(snap.NodeGroups), nil
	case model.KindSG:
		return keysOf(snap.SGs), nil
	case model.KindSU:
		return keysOf(snap.SUs), nil
	case model.KindComponentType:
		return keysOf(snap.CompTypes), nil
	case model.KindComponent:
		return keysOf(snap.Components), nil
	case model.KindSI:
		return keysOf(snap.SIs), nil
	case model.KindCSI:
		return keysOf(snap.CSIs), nil
	case model.KindAssignment:
		return keysOf(snap.Assignments), nil
	default:
		return nil, model.NewFault(model.KindValidation, "", "unknown entity kind %s", kind)
	}
}

func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
