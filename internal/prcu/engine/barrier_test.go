package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kolkov/prcu/internal/prcu/cblist"
)

// TestBarrierWaitsForAllShards verifies that Barrier does not return
// until callbacks enqueued on every shard beforehand have run, even with
// no concurrent Synchronize in flight (DESIGN.md's Open Question
// resolution: Barrier drives its own grace period).
func TestBarrierWaitsForAllShards(t *testing.T) {
	d := NewWithOptions(Options{Shards: 4})

	var ran int32
	for i := 0; i < d.Shards(); i++ {
		head := &cblist.Head{}
		callOnShard(d, i, head, func(*cblist.Head) { atomic.AddInt32(&ran, 1) })
	}

	done := make(chan struct{})
	go func() {
		d.Barrier()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Barrier did not return")
	}

	if got := atomic.LoadInt32(&ran); got != int32(d.Shards()) {
		t.Errorf("callbacks run = %d, want %d", got, d.Shards())
	}
}

// TestBarrierIsSerialized verifies barrierMtx's role: two overlapping
// Barrier calls each complete, proving the second waiter is not
// deadlocked behind the first's reuse of each shard's barrierHead.
func TestBarrierIsSerialized(t *testing.T) {
	d := NewWithOptions(Options{Shards: 2})

	done1 := make(chan struct{})
	done2 := make(chan struct{})
	go func() { d.Barrier(); close(done1) }()
	go func() { d.Barrier(); close(done2) }()

	timeout := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-done1:
			done1 = nil
		case <-done2:
			done2 = nil
		case <-timeout:
			t.Fatal("overlapping Barrier calls did not both complete")
		}
	}
}

// TestBarrierWithNoPendingCallbacksReturnsPromptly verifies Barrier is
// cheap on the common path where nothing is enqueued anywhere.
func TestBarrierWithNoPendingCallbacksReturnsPromptly(t *testing.T) {
	d := NewWithOptions(Options{Shards: 3})

	done := make(chan struct{})
	go func() {
		d.Barrier()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Barrier blocked with nothing enqueued")
	}
}

// callOnShard enqueues head on shard i directly, bypassing the
// goroutine-affinity hash in Call, so tests can deterministically spread
// callbacks across every shard from a single goroutine.
func callOnShard(d *Domain, i int, head *cblist.Head, fn func(*cblist.Head)) {
	head.Func = fn
	s := d.table.At(i)
	s.Lock()
	s.List().Append(head, s.Version())
	s.Unlock()
}
