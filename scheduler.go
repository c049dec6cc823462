package halo

import (
	"sync"
	"time"
)

// Scheduler schedules one-shot frame callbacks for the animation controller
// and the refresh pipeline. Implementations decide when "the next frame"
// happens: on the host's game loop tick, on a wall-clock timer, or under a
// test's manual control.
type Scheduler interface {
	// ScheduleFrame registers fn to run once on the next frame and returns
	// a cancel function. Cancel is idempotent and is a no-op after the
	// callback has fired.
	ScheduleFrame(fn func(now time.Time)) (cancel func())
}

// framePump is implemented by schedulers that need an external pump.
// Engine.Update pumps its scheduler when it can.
type framePump interface {
	Step(now time.Time) int
}

// FrameScheduler runs callbacks when the host pumps Step, once per game
// loop update. Callbacks scheduled while a Step is running are deferred to
// the next Step, so a frame callback that reschedules itself advances
// exactly one frame per pump. Safe for concurrent use.
type FrameScheduler struct {
	mu      sync.Mutex
	seq     uint64
	pending []frameEntry
}

type frameEntry struct {
	id uint64
	fn func(now time.Time)
}

// NewFrameScheduler returns an empty host-pumped scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// ScheduleFrame queues fn for the next Step.
func (s *FrameScheduler) ScheduleFrame(fn func(now time.Time)) (cancel func()) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.pending = append(s.pending, frameEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.pending {
			if s.pending[i].id == id {
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				return
			}
		}
	}
}

// Step runs every callback queued before this call, in schedule order, and
// returns how many ran. Callbacks run outside the scheduler lock.
func (s *FrameScheduler) Step(now time.Time) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range batch {
		e.fn(now)
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ClockScheduler runs callbacks on wall-clock timers at a fixed frame
// interval. It serves headless uses with no game loop to pump, such as
// settling an animation before an export. Callbacks fire on timer
// goroutines; the engine serializes internally, so this is safe to inject.
type ClockScheduler struct {
	interval time.Duration
}

// DefaultFrameInterval approximates a 60 Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// NewClockScheduler returns a timer-driven scheduler. A non-positive
// interval defaults to DefaultFrameInterval.
func NewClockScheduler(interval time.Duration) *ClockScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &ClockScheduler{interval: interval}
}

// ScheduleFrame arms a timer for one frame interval.
func (s *ClockScheduler) ScheduleFrame(fn func(now time.Time)) (cancel func()) {
	t := time.AfterFunc(s.interval, func() {
		fn(time.Now())
	})
	return func() { t.Stop() }
}
