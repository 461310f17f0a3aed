// Package engine implements the PRCU core: the writer, reader,
// context-switch, and callback operations. Domain is the single
// orchestrating type other packages call into, grounded on
// internal/race/detector/detector.go's Detector: the struct that wires the
// narrower per-concern packages (percpu, cblist, xcpu) together and
// exposes the public-shaped operations.
package engine

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kolkov/prcu/internal/prcu/gid"
	"github.com/kolkov/prcu/internal/prcu/xcpu"
)

// Options configures a Domain: the single compile/boot-time choice of
// PRCU enabled vs. disabled. Grounded on
// internal/race/detector/detector.go's DetectorOptions: a plain struct,
// no environment variables, no config files.
type Options struct {
	// Disabled makes every operation a no-op (ReadLock/ReadUnlock) or an
	// immediate return (Synchronize/Barrier) — the reasonable alias to
	// "the host RCU equivalent" when PRCU itself is compiled out.
	Disabled bool

	// Shards overrides the shard count, which otherwise defaults to
	// runtime.GOMAXPROCS(0) at construction time (see DESIGN.md's Open
	// Question log). Mainly useful for tests that want deterministic,
	// small shard counts independent of the host's core count.
	Shards int
}

// Stats is a read-only snapshot of Domain's bookkeeping counters, grounded
// on internal/race/detector/detector.go's PromotionStats: internal
// counters exposed for tests and operators, with no effect on behavior.
type Stats struct {
	GracePeriods     uint64
	CallbacksInvoked uint64
	CallbacksPending uint64
}

// ShardStatus is a read-only snapshot of one shard, mirroring the
// original implementation's per-CPU /proc-visible RCU state and the
// teacher's own GetInfo()/Info exposure (race/version.go).
type ShardStatus struct {
	Index     int
	Online    bool
	Version   uint64
	CBVersion uint64
	Pending   int
}

// Domain is one PRCU instance: the GlobalState singleton plus the shard
// table it coordinates. Non-copyable once constructed (embeds a
// sync.Mutex); callers share one *Domain rather than copying it.
type Domain struct {
	disabled bool
	table    *xcpu.Table

	globalVersion atomic.Uint64
	cbVersion     atomic.Uint64
	activeCtr     atomic.Int32

	mtx    sync.Mutex
	wakeCh chan struct{}

	barrierMtx      sync.Mutex
	barrierCpuCount atomic.Int32

	// affinity holds, per goroutine id, the shard index NoteContextSwitch
	// has rotated that goroutine onto when it diverges from the
	// goroutine's default hash-based shard (internal/prcu/gid.Shard). Go
	// has no true processor affinity for a context switch to disturb, so
	// NoteContextSwitch is the explicit signal that a migration may have
	// happened, and the round-robin rotation gives that signal an
	// observable, testable effect exactly the way a real migration would:
	// the next ReadLock/ReadUnlock for this goroutine lands on a
	// different shard than before.
	//
	// A goroutine that only ever reads or only ever calls Call never
	// rotates, so currentShardIndex never stores anything for it —
	// storing the unrotated hash would buy nothing over recomputing it
	// and would otherwise leak one entry per distinct goroutine id a
	// long-lived Domain ever sees. NoteContextSwitch deletes the entry
	// again once rotation brings a goroutine back to its default shard,
	// which bounds the map to goroutines currently mid-rotation.
	affinity sync.Map // int64 goroutine id -> int shard index

	gracePeriods     atomic.Uint64
	callbacksInvoked atomic.Uint64
}

// New constructs a Domain with default options (enabled, GOMAXPROCS shards).
func New() *Domain { return NewWithOptions(Options{}) }

// NewWithOptions constructs a Domain per opts.
func NewWithOptions(opts Options) *Domain {
	n := opts.Shards
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Domain{
		disabled: opts.Disabled,
		table:    xcpu.NewTable(n),
		wakeCh:   make(chan struct{}, 1),
	}
}

// Shards returns the number of shards this Domain was built with.
func (d *Domain) Shards() int { return d.table.N() }

// Stats returns a snapshot of this Domain's bookkeeping counters.
func (d *Domain) Stats() Stats {
	pending := 0
	for i := 0; i < d.table.N(); i++ {
		s := d.table.At(i)
		s.Lock()
		pending += s.List().Len()
		s.Unlock()
	}
	return Stats{
		GracePeriods:     d.gracePeriods.Load(),
		CallbacksInvoked: d.callbacksInvoked.Load(),
		CallbacksPending: uint64(pending),
	}
}

// ShardStatus returns a snapshot of shard i's state. i must be in
// [0, Shards()).
func (d *Domain) ShardStatus(i int) ShardStatus {
	s := d.table.At(i)
	s.Lock()
	defer s.Unlock()
	return ShardStatus{
		Index:     i,
		Online:    s.Online(),
		Version:   s.Version(),
		CBVersion: s.CBVersion(),
		Pending:   s.List().Len(),
	}
}

// currentShardIndex resolves the calling goroutine to its currently
// assigned shard index: the rotated shard NoteContextSwitch recorded for
// it, if any, otherwise its default hash-based shard. Never stores —
// only NoteContextSwitch's rotation ever needs remembering.
func (d *Domain) currentShardIndex() int {
	g := gid.Current()
	if v, ok := d.affinity.Load(g); ok {
		return v.(int)
	}
	return d.table.IndexFor(g)
}
