// Package depot deduplicates the one diagnostic PRCU ever emits on its
// own: the AllocationFailure warning Call logs when a version-head node
// cannot be obtained.
//
// Adapted from internal/race/stackdepot/stackdepot.go's hash-keyed
// sync.Map dedup scheme, narrowed from an 8-frame captured stack down to
// a single call site (the file and line runtime.Caller reports for one
// frame): a repeated identical warning is the failure mode here, not a
// forest of distinct stacks needing a fixed-depth trace to tell apart.
// The program counter is not used as the key, because it differs at every
// place an inlined caller has been expanded into.
package depot

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

// seen maps a call site to the number of times Warn has been invoked
// from it.
var seen sync.Map // callSite -> *atomicCounter

type callSite struct {
	file string
	line int
}

type atomicCounter struct {
	mu sync.Mutex
	n  uint64
}

// Warn reports msg, attributed to its caller's call site, to stderr the
// first time that call site reports it, and silently counts every
// repeat. This keeps a version-head allocator failing under sustained
// memory pressure from flooding stderr with an identical line once per
// Call.
func Warn(msg string) {
	_, file, line, ok := runtime.Caller(1)

	var c *atomicCounter
	if ok {
		v, _ := seen.LoadOrStore(callSite{file, line}, &atomicCounter{})
		c = v.(*atomicCounter)
	} else {
		c = &atomicCounter{}
	}

	c.mu.Lock()
	first := c.n == 0
	c.n++
	c.mu.Unlock()

	if !first {
		return
	}

	if ok {
		fmt.Fprintf(os.Stderr, "prcu: %s (%s:%d)\n", msg, file, line)
		return
	}
	fmt.Fprintf(os.Stderr, "prcu: %s\n", msg)
}

// Len returns the number of distinct call sites Warn has recorded.
// Test-only.
func Len() int {
	n := 0
	seen.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Reset clears all recorded call sites. Test-only.
func Reset() {
	seen = sync.Map{}
}
