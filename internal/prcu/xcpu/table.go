// Package xcpu provides the per-processor infrastructure the PRCU core
// consumes but does not implement itself: a storage facility with stable
// slots indexed by processor id, and a periodic per-processor tick.
// Cross-processor signaling needs no dedicated package here — see
// percpu.State.Handler, which the writer calls directly.
package xcpu

import (
	"github.com/kolkov/prcu/internal/prcu/gid"
	"github.com/kolkov/prcu/internal/prcu/percpu"
)

// Table is a fixed-size, pre-allocated set of processor slots. Slots are
// stable for the table's lifetime: none are ever created or destroyed
// after NewTable, matching PerCpuState's lifecycle.
//
// Grounded on internal/race/syncshadow/syncshadow.go's GetOrCreate shape,
// sized down from an unbounded sync.Map to a flat slice since the shard
// count (GOMAXPROCS at construction time) is known upfront.
type Table struct {
	shards []*percpu.State
}

// NewTable builds a table of n stable shards. An n below 1 builds a
// single shard.
func NewTable(n int) *Table {
	if n <= 0 {
		n = 1
	}
	t := &Table{shards: make([]*percpu.State, n)}
	for i := range t.shards {
		t.shards[i] = percpu.New()
	}
	return t
}

// N returns the number of shards in the table.
func (t *Table) N() int { return len(t.shards) }

// At returns the shard at index i. i must be in [0, N()).
func (t *Table) At(i int) *percpu.State { return t.shards[i] }

// IndexFor resolves a goroutine id onto a shard index via the
// processor-affinity hash (internal/prcu/gid).
func (t *Table) IndexFor(id int64) int {
	return gid.Shard(id, t.N())
}

// CurrentIndex resolves the calling goroutine onto a shard index via its
// default processor-affinity hint, with no migration tracking. engine.Domain
// layers migration tracking on top of this (see its affinity map) since
// that requires coordinating with NoteContextSwitch; callers that just need
// a stateless shard pick (e.g. tests) can use this directly.
func (t *Table) CurrentIndex() int {
	return t.IndexFor(gid.Current())
}

// Current returns the shard for the calling goroutine's current
// processor-affinity hint.
func (t *Table) Current() *percpu.State {
	return t.At(t.CurrentIndex())
}
