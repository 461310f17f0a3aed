package xcpu

import (
	"sync"
	"time"
)

// Ticker stands in for a periodic per-processor tick that may invoke the
// callback drainer. Go has no per-CPU timer interrupt library code can
// hook, so this emulates it with a time.Ticker-fed goroutine that calls
// fn once per tick. engine.Domain.Init starts one Ticker per shard, each
// calling check_callbacks for its own shard.
type Ticker struct {
	t       *time.Ticker
	done    chan struct{}
	wg      sync.WaitGroup
	stopMu  sync.Mutex
	stopped bool
}

// StartTicker launches a Ticker that calls fn every interval until Stop is
// called.
func StartTicker(interval time.Duration, fn func()) *Ticker {
	tk := &Ticker{
		t:    time.NewTicker(interval),
		done: make(chan struct{}),
	}
	tk.wg.Add(1)
	go func() {
		defer tk.wg.Done()
		for {
			select {
			case <-tk.t.C:
				fn()
			case <-tk.done:
				return
			}
		}
	}()
	return tk
}

// Stop halts the ticker and waits for its goroutine to exit. Safe to call
// more than once.
func (tk *Ticker) Stop() {
	tk.stopMu.Lock()
	if tk.stopped {
		tk.stopMu.Unlock()
		return
	}
	tk.stopped = true
	tk.stopMu.Unlock()

	tk.t.Stop()
	close(tk.done)
	tk.wg.Wait()
}
