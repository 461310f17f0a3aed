// Package prcu provides a Preemptible Read-Copy-Update synchronization
// primitive for cooperatively scheduled Go programs.
//
// PRCU lets many concurrent readers traverse a data structure while a
// writer publishes a new version and waits, via Synchronize, until every
// reader that could have observed the old version has finished with it.
// It is read-mostly synchronization: readers never wait for a grace
// period, writers pay the cost of waiting one out. The read side is not
// lock-free: ReadLock and ReadUnlock each look up the calling goroutine's
// id and hold that goroutine's shard mutex across a counter update.
//
// # Quick Start
//
//	var counters = prcu.New()
//
//	func read() {
//		counters.ReadLock()
//		defer counters.ReadUnlock()
//		// ... dereference a shared pointer here; it will not be freed
//		// out from under this critical section.
//	}
//
//	func write(next *Config) {
//		old := swapConfigPointer(next)
//		counters.Synchronize() // blocks until every in-flight read() above returns
//		free(old)
//	}
//
// # API Overview
//
// The package provides functions for:
//   - Read-side critical sections: [Domain.ReadLock], [Domain.ReadUnlock]
//   - Publishing a new version and waiting out a grace period: [Domain.Synchronize]
//   - Deferred reclamation: [Domain.Call], [Domain.Barrier]
//   - Cooperative scheduling hooks: [Domain.NoteContextSwitch]
//   - Diagnostics: [Domain.DomainStats], [Domain.Shard], [GetInfo]
//
// # How It Works
//
// Each Domain shards its per-processor bookkeeping across GOMAXPROCS
// slots, the same way the kernel PRCU this package is modeled on shards
// across physical CPUs. A reader hashes onto a shard by goroutine id; a
// writer's Synchronize walks every shard, forces it forward with a
// synchronous handler if it is behind, and waits for any reader caught
// mid-critical-section to finish.
//
// Go gives library code no way to disable preemption or pin a goroutine
// to a CPU, so programs that rely on PRCU's grace-period guarantee under
// heavy preemption should call [Domain.NoteContextSwitch] at their own
// scheduling checkpoints; programs that never preempt readers
// mid-critical-section do not need to.
package prcu
