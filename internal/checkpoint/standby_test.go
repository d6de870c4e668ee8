package checkpoint

import (
	"context"
	"testing"
	"time"

	"amfcore/internal/bus"
	"amfcore/internal/model"
)

// TestWarmSyncMismatchTriggersResync covers the standby's resync-on-mismatch
// path (spec §4.6 step 5): a WARM-SYNC-COUNTER record reporting a counter
// ahead of what the standby has observed must drop it back to
// WAIT-FOR-COLD-SYNC and issue a DATA-REQUEST to the active.
func TestWarmSyncMismatchTriggersResync(t *testing.T) {
	standbyModel := model.New()
	transport := bus.NewLocalTransport()
	standby := NewStandby(standbyModel, transport)
	standby.activeDN = "active1"
	standby.state = SteadyInSync
	standby.counter = 3

	dataRequests := make(chan bus.Record, 1)
	unsub := transport.Subscribe("active1", func(ctx context.Context, rec bus.Record) error {
		dataRequests <- rec
		return nil
	})
	defer unsub()

	standby.HandleRecord(context.Background(), Record{Kind: RecordWarmSyncCounter, SyncCounter: 7})

	select {
	case rec := <-dataRequests:
		var decoded Record
		if err := (bus.JSONCodec{}).Decode(wireTag, rec.Payload, &decoded); err != nil {
			t.Fatalf("decode data request: %v", err)
		}
		if decoded.Kind != RecordDataRequest {
			t.Fatalf("expected a DATA-REQUEST record, got %s", decoded.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("active never received a resync data request")
	}

	if got := standby.State(); got != WaitForColdSync {
		t.Fatalf("expected standby to fall back to WAIT-FOR-COLD-SYNC, got %s", got)
	}
}

// TestWarmSyncMatchStaysSteady covers the non-mismatch path: a
// WARM-SYNC-COUNTER record that agrees with what the standby has observed
// leaves it in STEADY-IN-SYNC without requesting a resync.
func TestWarmSyncMatchStaysSteady(t *testing.T) {
	standbyModel := model.New()
	transport := bus.NewLocalTransport()
	standby := NewStandby(standbyModel, transport)
	standby.activeDN = "active1"
	standby.state = SteadyInSync
	standby.counter = 5

	resynced := make(chan struct{}, 1)
	unsub := transport.Subscribe("active1", func(ctx context.Context, rec bus.Record) error {
		resynced <- struct{}{}
		return nil
	})
	defer unsub()

	standby.HandleRecord(context.Background(), Record{Kind: RecordWarmSyncCounter, SyncCounter: 5})

	select {
	case <-resynced:
		t.Fatal("did not expect a resync request on a matching warm sync counter")
	case <-time.After(50 * time.Millisecond):
	}

	if got := standby.State(); got != SteadyInSync {
		t.Fatalf("expected standby to remain STEADY-IN-SYNC, got %s", got)
	}
}
