// Package percpu implements PerCpuState, the per-processor slot PRCU keeps
// reader counters, an online flag, version stamps, and a callback list in.
//
// Go gives no way to truly pin a goroutine to a processor, so "owned by
// one processor" here means "guarded by this shard's own lock", held only
// across the handful of instructions the original algorithm would run with
// preemption disabled. See SPEC_FULL.md §0 for why a lock plays that role
// instead of true CPU affinity.
package percpu

import (
	"sync"
	"sync/atomic"

	"github.com/kolkov/prcu/internal/prcu/cblist"
)

// State is one processor's slot. The zero value is ready to use.
//
// Fields fall into two groups:
//   - online and version are published with atomic operations and are
//     read cross-shard by the writer's probe phase without acquiring mu.
//   - locked, cbVersion, list and barrierHead are mutated only while mu is
//     held, which is always the owning shard's "preemption disabled"
//     window (see ReadLock/ReadUnlock/NoteContextSwitch callers).
//
// The leading and trailing padding keeps adjacent shards in a shard table
// off each other's cache lines, matching the padding eventloop.FastState
// uses around its own atomic word.
type State struct {
	_ [64]byte //nolint:unused

	locked      uint32
	online      atomic.Uint32
	version     atomic.Uint64
	mu          sync.Mutex
	cbVersion   uint64
	list        cblist.List
	barrierHead cblist.Head

	_ [64]byte //nolint:unused
}

// New returns a freshly initialized State: offline, version 0, unlocked.
func New() *State {
	return &State{}
}

// Lock acquires the shard's critical section. Callers hold it only across
// the reader fast path, note_context_switch, call, or the drainer — never
// across Synchronize's await/drain phases, which must not block a shard's
// own readers.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the shard's critical section.
func (s *State) Unlock() { s.mu.Unlock() }

// Locked returns the current nesting depth. Caller must hold the lock.
func (s *State) Locked() uint32 { return s.locked }

// SetLocked overwrites the nesting depth. Caller must hold the lock.
func (s *State) SetLocked(v uint32) { s.locked = v }

// IncLocked increments the nesting depth by one and returns the new value.
// Caller must hold the lock.
func (s *State) IncLocked() uint32 {
	s.locked++
	return s.locked
}

// DecLocked decrements the nesting depth by one and returns the new value.
// Caller must hold the lock and must have verified Locked() > 0 first.
func (s *State) DecLocked() uint32 {
	s.locked--
	return s.locked
}

// Online reports whether this shard has observed a ReadLock since its last
// NoteContextSwitch. Safe to call without holding the lock: used by the
// writer's probe phase to decide whether a shard needs an IPI.
func (s *State) Online() bool { return s.online.Load() != 0 }

// SetOnline publishes the online flag. The 0->1 transition must be
// followed by a full barrier before the subsequent locked increment
// becomes visible, which atomic.Uint32.Store already provides on every
// memory model Go targets (sequentially consistent store).
func (s *State) SetOnline(v bool) {
	if v {
		s.online.Store(1)
	} else {
		s.online.Store(0)
	}
}

// Version returns the grace-period version this shard has acknowledged.
// Safe to call without holding the lock.
func (s *State) Version() uint64 { return s.version.Load() }

// SetVersion publishes a new acknowledged version. Used by the IPI
// handler; the writer advances its own shard through Report.
func (s *State) SetVersion(v uint64) { s.version.Store(v) }

// CompareAndSwapVersion advances version from old to newV only if it still
// reads as old.
func (s *State) CompareAndSwapVersion(old, newV uint64) bool {
	return s.version.CompareAndSwap(old, newV)
}

// Report publishes globalVersion into this shard's version if it is
// strictly greater than the currently observed value. A failed
// compare-exchange means a concurrent writer already advanced this shard
// past the load, which is fine and is not retried.
func (s *State) Report(globalVersion uint64) {
	cur := s.Version()
	if globalVersion > cur {
		s.CompareAndSwapVersion(cur, globalVersion)
	}
}

// Handler is the IPI target: the writer acquires this shard's lock to
// deliver it synchronously — a Go mutex may be locked from any goroutine,
// so this reproduces "a short synchronous handler delivered to a named
// processor" without real interrupts. If the shard is not currently
// inside a critical section, globalVersion is published into this
// shard's version; otherwise the shard is left untouched and the reader
// will report itself on unlock.
func (s *State) Handler(globalVersion uint64) {
	s.Lock()
	if s.locked == 0 {
		s.SetVersion(globalVersion)
	}
	s.Unlock()
}

// CBVersion returns the most recent callback version the drainer has
// observed. Caller must hold the lock.
func (s *State) CBVersion() uint64 { return s.cbVersion }

// SetCBVersion records the callback version the drainer last observed.
// Caller must hold the lock.
func (s *State) SetCBVersion(v uint64) { s.cbVersion = v }

// List returns this shard's callback FIFO. Caller must hold the lock for
// the duration of any access.
func (s *State) List() *cblist.List { return &s.list }

// BarrierHead returns the reusable callback node barrier enqueues on this
// shard. Caller must hold the lock.
func (s *State) BarrierHead() *cblist.Head { return &s.barrierHead }
