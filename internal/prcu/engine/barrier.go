package engine

import (
	"github.com/kolkov/prcu/internal/prcu/cblist"
	"github.com/kolkov/prcu/internal/prcu/depot"
)

// Barrier blocks until every callback enqueued by Call before this
// invocation has run, on every shard, anywhere.
//
// Nothing requires a grace period to already be in flight when Barrier is
// called, so Barrier drives its own rather than assume one is underway
// (see DESIGN.md's Open Question log). The sentinel callbacks are
// enqueued on every shard *before* that grace period runs, so the single
// Synchronize call authorizes all of them at once — enqueuing after the
// fact would require a second grace period before they could be released.
//
// barrierMtx serializes Barrier calls because each shard's barrierHead is
// a single reusable node, not one allocated per call.
func (d *Domain) Barrier() {
	if d.disabled {
		return
	}

	d.barrierMtx.Lock()
	defer d.barrierMtx.Unlock()

	done := make(chan struct{})
	d.barrierCpuCount.Store(1)

	for i := 0; i < d.table.N(); i++ {
		s := d.table.At(i)
		s.Lock()
		v := s.Version()
		head := s.BarrierHead()
		head.Func = func(*cblist.Head) { d.barrierArrive(done) }
		d.barrierCpuCount.Add(1)
		ok := s.List().Append(head, v)
		s.Unlock()

		if !ok {
			// The sentinel never got enqueued, so it can never fire and
			// decrement the latch itself; count its arrival immediately
			// so a version-head allocation failure cannot wedge Barrier
			// forever.
			depot.Warn("barrier sentinel dropped: version-head allocation failed")
			d.barrierArrive(done)
		}
	}

	// One grace period authorizes every sentinel enqueued above, since
	// each was stamped with its shard's version from before this call.
	d.Synchronize()

	// Deliver every shard's sentinel: drainShard no longer gates on
	// read-lock activity (see its doc comment), so this is the same drain
	// CheckCallbacks would eventually run, just unconditional across
	// every shard instead of only the calling goroutine's own.
	for i := 0; i < d.table.N(); i++ {
		d.drainShard(i)
	}

	d.barrierArrive(done)

	<-done
}

// barrierArrive decrements the latch and closes done exactly once, on
// whichever arrival drives the count to zero.
func (d *Domain) barrierArrive(done chan struct{}) {
	if d.barrierCpuCount.Add(-1) == 0 {
		close(done)
	}
}
