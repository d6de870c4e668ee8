// Package bus implements the Message Bus Adapter (spec §4.7): sync-send
// (deadline-bounded, may block the caller), async-send (fire-and-forget,
// reliable to one virtual destination), and broadcast (best-effort to every
// subscriber of a service id). It stands in for the reliable-datagram bus
// the core delegates away as an external collaborator (spec §1); the
// adapter interface is the real contract, and LocalTransport is the only
// concrete implementation this repo ships.
package bus

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"amfcore/internal/model"
)

// Record is one message on the bus, tagged so an Encoder can dispatch on
// kind without reflecting into the payload (spec §4.7 "pluggable encoder
// keyed by record tag").
type Record struct {
	Tag         string
	Source      string
	Destination string // virtual destination name; empty for broadcast
	Payload     []byte
}

// Encoder turns a typed payload into bus-wire bytes and back. The default
// implementation (JSONCodec in encoder.go) frames records as length-prefixed,
// tag-prefixed binary, matching §4.7's "encoder interface driven by record
// kind tag" language.
type Encoder interface {
	Encode(tag string, v interface{}) ([]byte, error)
	Decode(tag string, data []byte, out interface{}) error
}

// Handler processes one inbound Record, delivered on the subscriber's own
// goroutine; the adapter never blocks a sender waiting for a handler.
type Handler func(ctx context.Context, rec Record) error

// Adapter is the contract every caller in the core programs against —
// the Assignment Engine, Admin Operation Engine, and Checkpoint Replicator
// never talk to a transport directly.
type Adapter interface {
	// SyncSend blocks until ctx's deadline or a reply arrives, whichever is
	// first, and returns the reply payload. The checkpoint replicator does
	// not use it; its records go over AsyncSend.
	SyncSend(ctx context.Context, dest string, rec Record) (Record, error)
	// AsyncSend enqueues rec for reliable delivery to dest and returns
	// immediately. Used for checkpoint record streaming.
	AsyncSend(ctx context.Context, dest string, rec Record) error
	// Broadcast delivers rec best-effort to every current subscriber of
	// serviceID. Used for cluster-wide notifications.
	Broadcast(ctx context.Context, serviceID string, rec Record) error
	// Subscribe registers h to receive records sent to dest (or broadcast
	// on serviceID, when dest is a service id rather than a point name).
	Subscribe(dest string, h Handler) (unsubscribe func())
}

// LocalTransport is the in-process channel-backed Adapter (spec §4.7 ADD
// note). It gives the rest of the core something concrete to run against —
// used by cmd/serve.go in single-node mode and by every package's tests —
// without pulling in a real network stack, which §1 explicitly delegates
// away.
type LocalTransport struct {
	mu          sync.Mutex
	subscribers map[string][]Handler
	replyWaiters map[string]chan Record
}

// NewLocalTransport constructs an empty transport.
func NewLocalTransport() *LocalTransport {
	return &LocalTransport{
		subscribers:  map[string][]Handler{},
		replyWaiters: map[string]chan Record{},
	}
}

func (t *LocalTransport) Subscribe(dest string, h Handler) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers[dest] = append(t.subscribers[dest], h)
	idx := len(t.subscribers[dest]) - 1
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		hs := t.subscribers[dest]
		if idx < len(hs) {
			hs[idx] = nil
		}
	}
}

// SyncSend delivers rec synchronously to every subscriber of dest and
// blocks for a reply sent back via Reply, bounded by ctx. If no subscriber
// replies before ctx is done, it returns a Fault of kind Timeout (spec §7).
func (t *LocalTransport) SyncSend(ctx context.Context, dest string, rec Record) (Record, error) {
	replyCh := make(chan Record, 1)
	waitKey := fmt.Sprintf("%s:%s", dest, rec.Tag)
	t.mu.Lock()
	t.replyWaiters[waitKey] = replyCh
	handlers := append([]Handler(nil), t.subscribers[dest]...)
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.replyWaiters, waitKey)
		t.mu.Unlock()
	}()

	for _, h := range handlers {
		if h == nil {
			continue
		}
		if err := h(ctx, rec); err != nil {
			return Record{}, model.Wrap(model.KindTransient, dest, err)
		}
	}
	select {
	case reply := <-replyCh:
		return reply, nil
	case <-ctx.Done():
		return Record{}, model.NewFault(model.KindTimeout, dest, "sync-send timed out waiting for reply")
	}
}

// Reply delivers a reply Record to whichever SyncSend is waiting on
// dest/tag; it is a no-op if nothing is waiting (late or duplicate reply).
func (t *LocalTransport) Reply(dest, tag string, rec Record) {
	waitKey := fmt.Sprintf("%s:%s", dest, tag)
	t.mu.Lock()
	ch, ok := t.replyWaiters[waitKey]
	t.mu.Unlock()
	if ok {
		select {
		case ch <- rec:
		default:
		}
	}
}

// AsyncSend delivers rec to dest's subscribers without waiting for a reply.
func (t *LocalTransport) AsyncSend(ctx context.Context, dest string, rec Record) error {
	t.mu.Lock()
	handlers := append([]Handler(nil), t.subscribers[dest]...)
	t.mu.Unlock()
	for _, h := range handlers {
		if h == nil {
			continue
		}
		if err := h(ctx, rec); err != nil {
			return model.Wrap(model.KindTransient, dest, err)
		}
	}
	return nil
}

// Broadcast fans rec out to every subscriber of serviceID concurrently,
// using an errgroup so one slow subscriber cannot block delivery to the
// rest (spec §4.7 "best-effort to all subscribers").
func (t *LocalTransport) Broadcast(ctx context.Context, serviceID string, rec Record) error {
	t.mu.Lock()
	handlers := append([]Handler(nil), t.subscribers[serviceID]...)
	t.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handlers {
		if h == nil {
			continue
		}
		h := h
		g.Go(func() error { return h(gctx, rec) })
	}
	return g.Wait()
}
