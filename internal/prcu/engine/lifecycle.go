package engine

import (
	"time"

	"github.com/kolkov/prcu/internal/prcu/xcpu"
)

// Init launches one periodic tick per shard, each driving that shard's
// own CheckCallbacks the way a real per-processor timer interrupt would.
// Returns a stop function that halts
// every tick and waits for its goroutine to exit; callers that never want
// a background tick (e.g. tests driving CheckCallbacks by hand, or a host
// that already has its own scheduler hook) are free to never call Init.
func (d *Domain) Init(tickInterval time.Duration) (stop func()) {
	if d.disabled {
		return func() {}
	}

	tickers := make([]*xcpu.Ticker, d.table.N())
	for i := range tickers {
		shard := i
		tickers[i] = xcpu.StartTicker(tickInterval, func() { d.checkCallbacksFor(shard) })
	}

	return func() {
		for _, tk := range tickers {
			tk.Stop()
		}
	}
}
