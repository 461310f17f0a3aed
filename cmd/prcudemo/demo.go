// demo.go implements the 'prcudemo demo' command.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kolkov/prcu"
)

// demoCommand runs a small reader/writer/callback workload against a
// freshly constructed Domain and prints a summary of what happened.
//
// Example:
//
//	prcudemo demo -readers 8 -iterations 2000 -shards 4
func demoCommand(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	shards := fs.Int("shards", 0, "processor shards (0 = GOMAXPROCS)")
	readers := fs.Int("readers", 4, "concurrent reader goroutines")
	iterations := fs.Int("iterations", 1000, "read-side iterations per reader")
	fs.Parse(args)

	dm := prcu.NewWithOptions(prcu.Options{Shards: *shards})

	var shared atomic.Int64
	var reads atomic.Int64

	var wg sync.WaitGroup
	wg.Add(*readers)
	for i := 0; i < *readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < *iterations; j++ {
				dm.ReadLock()
				_ = shared.Load()
				reads.Add(1)
				dm.ReadUnlock()
			}
		}()
	}

	start := time.Now()
	shared.Store(1)
	dm.Synchronize()
	elapsed := time.Since(start)

	var reclaimed int32
	dm.Call(&prcu.Callback{}, func(*prcu.Callback) {
		atomic.AddInt32(&reclaimed, 1)
	})
	dm.Barrier()

	wg.Wait()

	fmt.Fprintf(os.Stdout, "shards:            %d\n", dm.Shards())
	fmt.Fprintf(os.Stdout, "reads completed:   %d\n", reads.Load())
	fmt.Fprintf(os.Stdout, "synchronize took:  %s\n", elapsed)
	fmt.Fprintf(os.Stdout, "callbacks reclaimed: %d\n", reclaimed)

	stats := dm.DomainStats()
	fmt.Fprintf(os.Stdout, "grace periods:     %d\n", stats.GracePeriods)
	fmt.Fprintf(os.Stdout, "callbacks invoked: %d\n", stats.CallbacksInvoked)
}
