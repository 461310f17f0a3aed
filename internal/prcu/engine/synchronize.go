package engine

import (
	"runtime"

	"github.com/kolkov/prcu/internal/prcu/gid"
)

// Synchronize is the writer: advance the global version, probe every
// shard, synchronously deliver the IPI-equivalent handler to any shard
// that is behind, then drain any reader nesting donated to the active
// counter by NoteContextSwitch. Blocks until the grace period ends;
// never fails.
func (d *Domain) Synchronize() {
	if d.disabled {
		return
	}

	// The version is taken before the lock, so concurrent synchronizers
	// still get distinct, monotonically increasing versions.
	v := d.globalVersion.Add(1)

	d.mtx.Lock()
	defer d.mtx.Unlock()

	// The caller itself is a trivial "passed" processor.
	d.table.At(d.currentShardIndex()).Report(v)

	// Probe phase.
	var stragglers []int
	for i := 0; i < d.table.N(); i++ {
		s := d.table.At(i)
		if !s.Online() {
			// A context switch already observed the quiescent state.
			continue
		}
		if s.Version() < v {
			s.Handler(v)
			stragglers = append(stragglers, i)
		}
	}

	// Await phase.
	for _, i := range stragglers {
		s := d.table.At(i)
		for s.Version() < v {
			runtime.Gosched()
		}
	}

	// Drain phase: wait for any reader nesting donated by NoteContextSwitch.
	for d.activeCtr.Load() != 0 {
		<-d.wakeCh
	}

	// Authorize callbacks enqueued at versions < v to run.
	d.cbVersion.Store(v)

	d.gracePeriods.Add(1)
}

// NoteContextSwitch tells the Domain that the calling goroutine is about
// to be preempted or parked, possibly mid-critical-section. Go exposes no
// scheduler hook library code can install, so this is called by the host
// program at its own preemption points for the goroutine it is about to
// preempt or park.
//
// The nesting depth, if any, is donated to the global active counter so
// Synchronize can wait for its eventual ReadUnlock without this shard
// needing to stay online, the shard goes offline, and the goroutine's
// affinity is rotated to the next shard — modeling a migration, since Go
// gives no other observable signal that one might have happened.
func (d *Domain) NoteContextSwitch() {
	if d.disabled {
		return
	}

	g := gid.Current()
	idx := d.currentShardIndex()
	s := d.table.At(idx)

	s.Lock()
	if locked := s.Locked(); locked > 0 {
		d.activeCtr.Add(int32(locked))
		s.SetLocked(0)
	}
	s.SetOnline(false)
	s.Report(d.globalVersion.Load())
	s.Unlock()

	next := (idx + 1) % d.table.N()
	if next == d.table.IndexFor(g) {
		// Rotation landed back on this goroutine's default hash-based
		// shard: nothing diverges from what currentShardIndex would
		// already recompute, so drop the entry instead of keeping it
		// forever.
		d.affinity.Delete(g)
	} else {
		d.affinity.Store(g, next)
	}
}
