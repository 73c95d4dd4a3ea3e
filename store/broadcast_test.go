package store_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/linanwx/chatfeed/store"
)

func TestEverySubscriberReceivesAllOpsInOrder(t *testing.T) {
	s := store.New()
	first := s.Subscribe()
	second := s.Subscribe()

	s.Insert(textAt("a", "ada", t0))
	s.Insert(textAt("b", "ada", t0.Add(time.Minute)))
	s.Remove(textAt("a", "ada", t0))
	s.Dispose()

	for name, sub := range map[string]*store.Subscription{"first": first, "second": second} {
		ops := drain(sub)
		if len(ops) != 3 {
			t.Fatalf("%s: got %d ops, want 3", name, len(ops))
		}
		wantKinds := []string{"insert", "insert", "remove"}
		for i, op := range ops {
			if op.Kind() != wantKinds[i] {
				t.Fatalf("%s: ops[%d] = %s, want %s", name, i, op.Kind(), wantKinds[i])
			}
		}
	}
}

func TestLateSubscriberGetsNoReplay(t *testing.T) {
	s := store.New()
	s.Insert(textAt("a", "ada", t0))

	late := s.Subscribe()
	s.Insert(textAt("b", "ada", t0.Add(time.Minute)))
	s.Dispose()

	ops := drain(late)
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1 (no replay of earlier ops)", len(ops))
	}
	ins, ok := ops[0].(store.InsertOp)
	if !ok || ins.Message.ID() != "b" {
		t.Fatalf("op = %+v, want InsertOp for b", ops[0])
	}
}

func TestUnsubscribeStopsDeliveryWithoutAffectingStore(t *testing.T) {
	s := store.New()
	quitter := s.Subscribe()
	stayer := s.Subscribe()

	quitter.Unsubscribe()
	quitter.Unsubscribe() // safe to repeat

	s.Insert(textAt("a", "ada", t0))
	s.Dispose()

	if ops := drain(quitter); len(ops) != 0 {
		t.Fatalf("unsubscribed consumer got %d ops, want none", len(ops))
	}
	if ops := drain(stayer); len(ops) != 1 {
		t.Fatalf("remaining consumer got %d ops, want 1", len(ops))
	}
	if s.Current().Len() != 1 {
		t.Fatal("unsubscribe must not affect the store")
	}
}

func TestDisposeClosesChannelAndIsIdempotent(t *testing.T) {
	s := store.New()
	sub := s.Subscribe()

	s.Dispose()
	s.Dispose()

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatal("expected closed channel, got an op")
		}
	case <-time.After(time.Second):
		t.Fatal("channel did not close after dispose")
	}
}

func TestDisposeFlushesPendingOps(t *testing.T) {
	s := store.New()
	sub := s.Subscribe()

	// Emit without reading, then dispose: queued ops must still arrive
	// before the close.
	for i := 0; i < 10; i++ {
		s.Insert(textAt(string(rune('a'+i)), "ada", t0.Add(time.Duration(i)*time.Minute)))
	}
	s.Dispose()

	if ops := drain(sub); len(ops) != 10 {
		t.Fatalf("got %d ops, want all 10 flushed before close", len(ops))
	}
}

func TestSubscribeAfterDisposeYieldsClosedStream(t *testing.T) {
	s := store.New()
	s.Dispose()

	sub := s.Subscribe()
	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatal("expected immediate close, got an op")
		}
	case <-time.After(time.Second):
		t.Fatal("channel did not close")
	}
}

func TestSlowSubscriberNeverBlocksWriter(t *testing.T) {
	s := store.New()
	sub := s.Subscribe()

	// Far more ops than the delivery buffer, with nobody reading.
	const n = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			s.Insert(textAt(strconv.Itoa(i), "ada", t0.Add(time.Duration(i)*time.Second)))
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("writer blocked on a slow subscriber")
	}

	s.Dispose()
	ops := drain(sub)
	if len(ops) != n {
		t.Fatalf("got %d ops, want %d, in order, exactly once", len(ops), n)
	}
	for i, op := range ops {
		ins := op.(store.InsertOp)
		if ins.Message.ID() != strconv.Itoa(i) {
			t.Fatalf("ops[%d] carries %s, want %s (order lost)", i, ins.Message.ID(), strconv.Itoa(i))
		}
	}
}
