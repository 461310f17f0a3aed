// Package cblist implements the paired callback / version-head FIFO a
// PerCpuState owns.
//
// A List is NOT safe for concurrent use. The owning shard serializes all
// access to its own List the same way the algorithm serializes access to
// the rest of its PerCpuState: by disabling preemption/interrupts around
// the critical section. In this Go port that role is played by the shard
// lock in internal/prcu/percpu, not by anything in this package.
package cblist

import "sync"

// Head is an enqueued callback record. Callers embed it (or allocate one
// directly and pass it to Call) and supply Func, the function to invoke once the
// callback's grace period has elapsed. Func receives the Head itself back,
// mirroring the spec's "function of (cb) -> ()" signature.
type Head struct {
	Func func(*Head)
	next *Head
}

// versionNode is the parallel FIFO entry stamping one Head with the
// grace-period version its owning shard had last acknowledged at enqueue
// time. Pooled because it is allocated and freed once per Call, on what is
// otherwise a zero-allocation reader-side system.
type versionNode struct {
	version uint64
	next    *versionNode
}

var versionNodePool = sync.Pool{
	New: func() any { return &versionNode{} },
}

// List is a paired singly-linked FIFO: one chain of callback nodes, one
// chain of version stamps. Both chains are always the same length;
// Append and Pop maintain that in lockstep.
type List struct {
	head, tail   *Head
	vhead, vtail *versionNode
	length       int
}

// Len returns the number of enqueued callbacks.
func (l *List) Len() int { return l.length }

// Empty reports whether the list has no pending callbacks.
func (l *List) Empty() bool { return l.head == nil }

// Append adds cb to the tail of the callback chain and version to the
// tail of the version-head chain. O(1). ok is false if a version-head
// node could not be obtained, in which case neither chain is touched and
// the caller must treat cb as not enqueued (spec's AllocationFailure: the
// lists are left consistent, the callback is the caller's to drop or
// retry).
func (l *List) Append(cb *Head, version uint64) (ok bool) {
	vn, ok := allocVersionNode()
	if !ok {
		return false
	}
	vn.version = version
	vn.next = nil

	cb.next = nil
	if l.tail == nil {
		l.head = cb
	} else {
		l.tail.next = cb
	}
	l.tail = cb

	if l.vtail == nil {
		l.vhead = vn
	} else {
		l.vtail.next = vn
	}
	l.vtail = vn

	l.length++
	return true
}

// allocVersionNode obtains a versionNode from the pool. The pool's own
// New never returns nil, but the call is guarded with recover anyway:
// the spec's AllocationFailure kind must be representable even though an
// ordinary Go allocation failure is an unrecoverable fatal error rather
// than a panic. Var, not func, so tests can substitute a failing
// allocator and exercise the AllocationFailure path without waiting on
// real memory pressure.
var allocVersionNode = func() (vn *versionNode, ok bool) {
	defer func() {
		if recover() != nil {
			vn, ok = nil, false
		}
	}()
	return versionNodePool.Get().(*versionNode), true
}

// PeekVersion returns the version stamp of the head-of-line callback
// without dequeuing it. ok is false if the list is empty.
func (l *List) PeekVersion() (version uint64, ok bool) {
	if l.vhead == nil {
		return 0, false
	}
	return l.vhead.version, true
}

// Pop dequeues the head-of-line callback and its version stamp. ok is
// false if the list was empty.
func (l *List) Pop() (cb *Head, version uint64, ok bool) {
	if l.head == nil {
		return nil, 0, false
	}

	cb = l.head
	l.head = cb.next
	cb.next = nil
	if l.head == nil {
		l.tail = nil
	}

	vn := l.vhead
	version = vn.version
	l.vhead = vn.next
	if l.vhead == nil {
		l.vtail = nil
	}
	vn.next = nil
	versionNodePool.Put(vn)

	l.length--
	return cb, version, true
}
