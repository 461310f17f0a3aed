package engine

import (
	"github.com/kolkov/prcu/internal/prcu/cblist"
	"github.com/kolkov/prcu/internal/prcu/depot"
)

// Call stamps cb with the calling shard's currently-acknowledged version
// and appends it to that shard's callback list. fn is invoked once the
// callback's grace period has elapsed.
//
// Never blocks beyond the shard lock and never returns an error to the
// caller, per spec §7: the one failure kind, AllocationFailure, is
// reported in-band through internal/prcu/depot (deduped by call site) and
// the callback is dropped, leaving both chains consistent.
func (d *Domain) Call(cb *cblist.Head, fn func(*cblist.Head)) {
	if cb == nil {
		return
	}
	cb.Func = fn

	if d.disabled {
		// No readers to wait for: aliasing Call to immediate invocation is
		// the reasonable no-op for a PRCU-disabled Domain.
		if fn != nil {
			fn(cb)
		}
		return
	}

	s := d.table.At(d.currentShardIndex())
	s.Lock()
	v := s.Version()
	ok := s.List().Append(cb, v)
	s.Unlock()

	if !ok {
		depot.Warn("callback dropped: version-head allocation failed")
	}
}

// Pending reports whether the calling goroutine's shard has seen a more
// recent callback version than it last drained, and still has callbacks
// enqueued.
func (d *Domain) Pending() bool {
	if d.disabled {
		return false
	}
	return d.pendingFor(d.currentShardIndex())
}

func (d *Domain) pendingFor(i int) bool {
	s := d.table.At(i)
	s.Lock()
	defer s.Unlock()
	return s.CBVersion() < d.cbVersion.Load() && !s.List().Empty()
}

// CheckCallbacks drains the calling goroutine's shard if Pending. In the
// absence of a host-provided periodic tick, callers invoke this directly,
// or launch one via Init.
func (d *Domain) CheckCallbacks() {
	if d.disabled {
		return
	}
	d.checkCallbacksFor(d.currentShardIndex())
}

func (d *Domain) checkCallbacksFor(i int) {
	if d.pendingFor(i) {
		d.drainShard(i)
	}
}

// drainShard is the callback drainer: it dequeues and invokes every
// callback on shard i whose stamped enqueue-time version has been
// authorized by the current callback version.
//
// Spec §4.6 step 1 ("if the current processor is offline, return") is a
// kernel-CPU-hot-unplug concern this port has no counterpart for: a
// shard's online flag here tracks only whether its goroutine has
// recently taken a read lock (see percpu.State's doc comment), not
// whether the shard itself still exists — every shard in the table lives
// for the Domain's entire lifetime, per PerCpuState's spec'd lifecycle.
// Gating the drainer on that flag would strand the backlog of any
// goroutine that only ever calls Call, never ReadLock (a pure
// writer/reclaimer), since nothing would ever set such a shard online.
// Pending callbacks are therefore always drained once pendingFor
// confirms there is a backlog to clear, regardless of read-lock
// activity.
func (d *Domain) drainShard(i int) {
	s := d.table.At(i)
	cb := d.cbVersion.Load()

	s.Lock()
	defer s.Unlock()
	for {
		v, ok := s.List().PeekVersion()
		if !ok || v >= cb {
			break
		}
		head, _, _ := s.List().Pop()
		if head.Func != nil {
			head.Func(head)
		}
		d.callbacksInvoked.Add(1)
	}
	s.SetCBVersion(cb)
}
