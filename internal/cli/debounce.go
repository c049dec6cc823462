package cli

import (
	"sync"
	"time"
)

// resizeQuiet is how long the window must hold still before the engine
// buffer reallocates.
const resizeQuiet = 150 * time.Millisecond

// debouncer coalesces rapid events into one callback after a quiet
// period. Each call replaces the pending callback, so the last one wins.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	wait  time.Duration
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait}
}

// call schedules fn after the quiet period, cancelling any pending call.
func (d *debouncer) call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, fn)
}

// stop cancels any pending call.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
