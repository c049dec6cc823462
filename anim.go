package halo

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDuration is the stock reveal animation length.
const DefaultDuration = 550 * time.Millisecond

// animator drives the reveal animation: eased progress from 0 to 1 over a
// fixed duration, one frame callback per scheduler tick. Progress follows
// ease.OutCubic, so radii and opacities decelerate into place.
//
// The animator is either idle or running. start cancels an in-flight run
// before beginning a new one; stop is idempotent. Termination is bounded by
// the duration: the tween finishes once the accumulated wall-clock time
// reaches it, and the final frame renders at exactly 1.
type animator struct {
	sched   Scheduler
	onFrame func(eased float64)
	onDone  func(completed bool)

	tween   *gween.Tween
	cancel  func()
	running bool
	last    time.Time
	eased   float64
}

func newAnimator(sched Scheduler, onFrame func(float64), onDone func(bool)) *animator {
	return &animator{sched: sched, onFrame: onFrame, onDone: onDone}
}

// start begins a run of the given duration, cancelling any run in flight.
// now anchors the wall clock for frame deltas. The first frame fires
// immediately at progress 0.
func (a *animator) start(d time.Duration, now time.Time) {
	a.stop()
	if d <= 0 {
		// Degenerate duration: jump straight to the settled frame.
		a.eased = 1
		a.onFrame(1)
		a.onDone(true)
		return
	}
	a.tween = gween.New(0, 1, float32(d.Seconds()), ease.OutCubic)
	a.running = true
	a.last = now
	a.eased = 0
	a.onFrame(0)
	a.cancel = a.sched.ScheduleFrame(a.tick)
}

// tick advances the tween by the wall-clock delta since the previous frame
// and reschedules itself until the tween finishes.
func (a *animator) tick(now time.Time) {
	if !a.running {
		return
	}
	dt := now.Sub(a.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.last = now

	v, done := a.tween.Update(float32(dt))
	a.eased = float64(v)
	if done {
		a.eased = 1
	}
	a.onFrame(a.eased)

	if done {
		a.running = false
		a.cancel = nil
		a.onDone(true)
		return
	}
	a.cancel = a.sched.ScheduleFrame(a.tick)
}

// stop cancels the in-flight run, if any. Idempotent; a stopped run never
// fires another frame.
func (a *animator) stop() {
	if !a.running {
		return
	}
	a.running = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.onDone(false)
}

// active reports whether a run is in flight.
func (a *animator) active() bool {
	return a.running
}

// progress returns the current eased progress: the live value while running,
// 1 when settled.
func (a *animator) progress() float64 {
	if a.running {
		return a.eased
	}
	return 1
}
