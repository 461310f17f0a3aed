package engine

// ReadLock publishes this shard online if this is its first reader since
// its last context switch, then increments the nesting depth. Never
// blocks.
//
// The shard's lock stands in for "disable preemption, obtain an exclusive
// borrow of its PerCpuState" (see percpu.State's doc comment): it is held
// only across these two field updates, never across anything that could
// block.
func (d *Domain) ReadLock() {
	if d.disabled {
		return
	}

	s := d.table.At(d.currentShardIndex())
	s.Lock()
	if !s.Online() {
		// The 0->1 transition must be visible to a concurrent writer
		// before the subsequent increment is; atomic.Uint32.Store already
		// provides that as a sequentially consistent store on every
		// memory model Go targets.
		s.SetOnline(true)
	}
	s.IncLocked()
	s.Unlock()
}

// ReadUnlock is the read_unlock fast path. If this shard's own nesting
// depth is nonzero, decrementing it to zero reports the current global
// version into the shard's acknowledged version. If the depth was
// already zero, this critical section's nesting was donated to the
// global pool by NoteContextSwitch while this reader was away; draining
// that donation is this unlock's job instead, and a drain that reaches
// zero wakes any Synchronize blocked on it.
//
// It is a caller error to call ReadUnlock without a matching ReadLock on
// the same logical reader; like the original, this is not detected here.
func (d *Domain) ReadUnlock() {
	if d.disabled {
		return
	}

	s := d.table.At(d.currentShardIndex())
	s.Lock()
	if s.Locked() > 0 {
		if s.DecLocked() == 0 {
			s.Report(d.globalVersion.Load())
		}
		s.Unlock()
		return
	}
	s.Unlock()

	if d.activeCtr.Add(-1) == 0 {
		d.wake()
	}
}

// wake performs a non-blocking send to wakeCh. The channel has capacity
// one, so a pending-but-unconsumed wake token is preserved rather than
// dropped; Synchronize's drain phase always rechecks the condition after
// waking, so at most one spurious wake is ever observed. Grounded on
// joeycumines-go-utilpkg/eventloop/loop.go's fastWakeupCh: a buffered
// channel used as a non-blocking wake signal rather than a condition
// variable.
func (d *Domain) wake() {
	select {
	case d.wakeCh <- struct{}{}:
	default:
	}
}
