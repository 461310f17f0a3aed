package prcu_test

import (
	"fmt"

	"github.com/kolkov/prcu"
)

// Example demonstrates the basic reader/writer pattern: a reader wraps
// its access in ReadLock/ReadUnlock, and a writer calls Synchronize
// after publishing a new version to wait out any in-flight reads of the
// old one.
func Example() {
	dm := prcu.New()

	shared := 0

	dm.ReadLock()
	fmt.Println("read:", shared)
	dm.ReadUnlock()

	shared = 1
	dm.Synchronize()
	fmt.Println("after synchronize:", shared)

	// Output:
	// read: 0
	// after synchronize: 1
}

// Example_call demonstrates deferred reclamation: fn runs once every
// reader active at the time of Call has finished.
func Example_call() {
	dm := prcu.New()

	dm.Call(&prcu.Callback{}, func(*prcu.Callback) {
		fmt.Println("reclaimed")
	})

	dm.Synchronize()
	dm.CheckCallbacks()

	// Output:
	// reclaimed
}

// Example_barrier demonstrates Barrier: unlike CheckCallbacks, which
// only drains the calling goroutine's own shard, Barrier waits for every
// callback enqueued anywhere to finish running.
func Example_barrier() {
	dm := prcu.New()

	dm.Call(&prcu.Callback{}, func(*prcu.Callback) {
		fmt.Println("done")
	})

	dm.Barrier()

	// Output:
	// done
}
