package bus

import (
	"context"
	"testing"
	"time"
)

func TestAsyncSendDeliversToSubscriber(t *testing.T) {
	tr := NewLocalTransport()
	got := make(chan Record, 1)
	unsub := tr.Subscribe("checkpoint.standby1", func(ctx context.Context, rec Record) error {
		got <- rec
		return nil
	})
	defer unsub()

	if err := tr.AsyncSend(context.Background(), "checkpoint.standby1", Record{Tag: "cold-sync", Payload: []byte("x")}); err != nil {
		t.Fatalf("AsyncSend: %v", err)
	}
	select {
	case rec := <-got:
		if rec.Tag != "cold-sync" {
			t.Fatalf("expected tag cold-sync, got %s", rec.Tag)
		}
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestSyncSendTimesOutWithNoReply(t *testing.T) {
	tr := NewLocalTransport()
	unsub := tr.Subscribe("dest1", func(ctx context.Context, rec Record) error { return nil })
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := tr.SyncSend(ctx, "dest1", Record{Tag: "ping"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSyncSendReceivesReply(t *testing.T) {
	tr := NewLocalTransport()
	unsub := tr.Subscribe("dest1", func(ctx context.Context, rec Record) error {
		go tr.Reply("dest1", rec.Tag, Record{Tag: rec.Tag, Payload: []byte("pong")})
		return nil
	})
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := tr.SyncSend(ctx, "dest1", Record{Tag: "ping"})
	if err != nil {
		t.Fatalf("SyncSend: %v", err)
	}
	if string(reply.Payload) != "pong" {
		t.Fatalf("expected pong, got %s", reply.Payload)
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	tr := NewLocalTransport()
	n := 3
	hits := make(chan string, n)
	for i := 0; i < n; i++ {
		name := string(rune('a' + i))
		tr.Subscribe("svc.all", func(ctx context.Context, rec Record) error {
			hits <- name
			return nil
		})
	}
	if err := tr.Broadcast(context.Background(), "svc.all", Record{Tag: "announce"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	for i := 0; i < n; i++ {
		select {
		case <-hits:
		case <-time.After(time.Second):
			t.Fatal("broadcast did not reach all subscribers")
		}
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := JSONCodec{}
	type payload struct{ Name string }
	enc, err := c.Encode("greet", payload{Name: "standby1"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out payload
	if err := c.Decode("greet", enc, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "standby1" {
		t.Fatalf("expected standby1, got %s", out.Name)
	}
}
