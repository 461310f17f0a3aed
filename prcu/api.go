// Package prcu provides the public API for the Preemptible Read-Copy-Update
// primitive.
//
// See doc.go for detailed documentation and examples.
package prcu

import (
	"time"

	"github.com/kolkov/prcu/internal/prcu/cblist"
	"github.com/kolkov/prcu/internal/prcu/engine"
)

// Callback is an enqueued deferred-reclamation record; see Call.
type Callback = cblist.Head

// Options configures a Domain. The zero value is the default: PRCU
// enabled, one shard per runtime.GOMAXPROCS(0).
type Options = engine.Options

// Stats is a read-only snapshot of a Domain's bookkeeping counters.
type Stats = engine.Stats

// ShardStatus is a read-only snapshot of one processor shard's state.
type ShardStatus = engine.ShardStatus

// Domain is one independent PRCU instance. The zero value is not usable;
// construct one with New or NewWithOptions. A *Domain is safe for
// concurrent use by any number of readers and writers.
type Domain struct {
	d *engine.Domain
}

// New constructs a Domain with default options.
func New() *Domain {
	return &Domain{d: engine.New()}
}

// NewWithOptions constructs a Domain per opts.
func NewWithOptions(opts Options) *Domain {
	return &Domain{d: engine.NewWithOptions(opts)}
}

// Init starts a periodic background tick, one per shard, that drains
// pending callbacks without the caller having to call CheckCallbacks
// itself. It returns a function that stops every tick; callers that
// drive CheckCallbacks from their own scheduler loop do not need this.
//
// Init is safe to call at most once per Domain; calling it again without
// first calling the returned stop function leaks the earlier tickers.
func (dm *Domain) Init(tickInterval time.Duration) (stop func()) {
	return dm.d.Init(tickInterval)
}

// ReadLock begins a read-side critical section for the calling goroutine.
// Never blocks. Must be paired with a ReadUnlock from the same goroutine
// before that goroutine parks or is preempted; if it cannot be, call
// NoteContextSwitch first (see doc.go).
func (dm *Domain) ReadLock() { dm.d.ReadLock() }

// ReadUnlock ends a read-side critical section begun by ReadLock on the
// same goroutine. Never blocks.
func (dm *Domain) ReadUnlock() { dm.d.ReadUnlock() }

// Synchronize blocks until every reader that could have observed the
// pre-call state has called ReadUnlock. Safe to call concurrently from
// multiple goroutines.
func (dm *Domain) Synchronize() { dm.d.Synchronize() }

// NoteContextSwitch tells the Domain that the calling goroutine is about
// to be preempted or parked while possibly still inside a read-side
// critical section. Programs that never preempt readers mid-critical-
// section do not need to call this.
func (dm *Domain) NoteContextSwitch() { dm.d.NoteContextSwitch() }

// Call schedules fn to run once a grace period has elapsed for every
// read-side critical section active when Call was invoked. cb is the
// record Call uses to track fn through the callback queue; it must not
// be reused until fn has run.
func (dm *Domain) Call(cb *Callback, fn func(*Callback)) { dm.d.Call(cb, fn) }

// Barrier blocks until every Call made before this invocation, on every
// shard, has run.
func (dm *Domain) Barrier() { dm.d.Barrier() }

// Pending reports whether the calling goroutine's shard has callbacks
// enqueued and has not yet drained since the most recent grace period
// ended. It does not check whether the enqueued callbacks' own grace
// periods have elapsed.
func (dm *Domain) Pending() bool { return dm.d.Pending() }

// CheckCallbacks drains the calling goroutine's shard if Pending.
func (dm *Domain) CheckCallbacks() { dm.d.CheckCallbacks() }

// Shards returns the number of processor shards this Domain was built with.
func (dm *Domain) Shards() int { return dm.d.Shards() }

// DomainStats returns a snapshot of this Domain's bookkeeping counters.
func (dm *Domain) DomainStats() Stats { return dm.d.Stats() }

// Shard returns a snapshot of shard i's state. i must be in [0, Shards()).
func (dm *Domain) Shard(i int) ShardStatus { return dm.d.ShardStatus(i) }

// def is the package-level Domain the top-level functions below
// operate on, for programs that need only one PRCU-protected domain and
// prefer the package-level calling convention the rest of this module's
// ambient stack uses.
var def = New()

// Init starts the default Domain's periodic background tick. See
// (*Domain).Init.
func Init(tickInterval time.Duration) (stop func()) { return def.Init(tickInterval) }

// ReadLock begins a read-side critical section on the default Domain.
func ReadLock() { def.ReadLock() }

// ReadUnlock ends a read-side critical section on the default Domain.
func ReadUnlock() { def.ReadUnlock() }

// Synchronize blocks until a grace period elapses on the default Domain.
func Synchronize() { def.Synchronize() }

// NoteContextSwitch notes a preemption point on the default Domain.
func NoteContextSwitch() { def.NoteContextSwitch() }

// Call schedules fn on the default Domain. See (*Domain).Call.
func Call(cb *Callback, fn func(*Callback)) { def.Call(cb, fn) }

// Barrier blocks until every Call on the default Domain has run.
func Barrier() { def.Barrier() }

// Pending reports whether the default Domain has undrained callbacks for
// the calling goroutine's shard.
func Pending() bool { return def.Pending() }

// CheckCallbacks drains the default Domain's current shard if Pending.
func CheckCallbacks() { def.CheckCallbacks() }
