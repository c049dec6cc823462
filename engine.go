package halo

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Source supplies snapshots for Refresh. Implementations live in the source
// package; hosts may bring their own.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Default sizing for Attach.
const (
	DefaultLogicalSize = 700
	DefaultMaxSize     = 1024
)

// Options configure Attach. Zero values select the defaults.
type Options struct {
	LogicalSize float64       // square side in logical pixels; default DefaultLogicalSize
	MaxSize     float64       // logical size ceiling; default DefaultMaxSize
	Duration    time.Duration // reveal animation length; default DefaultDuration
	Scheduler   Scheduler     // frame callback origin; default a host-pumped FrameScheduler
	Theme       *Theme        // colors and metrics; default DefaultTheme
	Font        *Font         // label face; default the built-in Go Regular
	Logger      *log.Logger   // default discards
	Source      Source        // snapshot origin for Refresh; optional
	Route       RouteStrategy // connection routing; default RadialRoutes
	Debug       bool          // paint the frame stats line
}

// setDefaults fills zero values in place.
func (o *Options) setDefaults() error {
	if o.LogicalSize == 0 {
		o.LogicalSize = DefaultLogicalSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.Scheduler == nil {
		o.Scheduler = NewFrameScheduler()
	}
	if o.Theme == nil {
		o.Theme = DefaultTheme()
	}
	if o.Font == nil {
		f, err := DefaultFont()
		if err != nil {
			return err
		}
		o.Font = f
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Route == nil {
		o.Route = RadialRoutes{}
	}
	return nil
}

// Engine is the diagram facade. It owns the drawing buffer, the data state
// machine, and the reveal animation; hosts drive it from their game loop
// (Update, Draw) or headlessly through a ClockScheduler.
//
// All methods are safe for concurrent use. Internally the engine serializes
// on one mutex; listeners registered through the On* methods fire outside
// that lock, so they may call back into the engine.
type Engine struct {
	mu sync.Mutex

	state   State
	lastErr error

	snap    Snapshot
	res     resolved
	hasData bool

	canvas   *canvas
	sched    Scheduler
	lsched   lockedScheduler
	pump     framePump
	pipe     *pipeline
	rast     *rasterizer
	anim     *animator
	theme    *Theme
	logger   *log.Logger
	source   Source
	duration time.Duration
	debug    bool

	fetchGen    uint64
	fetchCancel context.CancelFunc

	stats     FrameStats
	listeners listenerRegistry
	events    []func()
}

// NewEngine returns an unbound engine in StateUninitialized. Call Attach
// before anything else.
func NewEngine() *Engine {
	return &Engine{
		state:  StateUninitialized,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Attach binds the engine to a surface, allocates the buffer, and paints
// the placeholder wheel. It may be called once; the engine stays in
// StateUninitialized until data arrives. A surface that cannot back a
// buffer fails with ErrSurfaceUnavailable and leaves the engine unbound.
func (e *Engine) Attach(s Surface, opts Options) error {
	e.mu.Lock()
	if e.state == StateDestroyed {
		e.mu.Unlock()
		return nil
	}
	if e.canvas != nil {
		e.mu.Unlock()
		return errors.New("halo: engine already attached")
	}
	if err := opts.setDefaults(); err != nil {
		e.mu.Unlock()
		return err
	}
	c, err := newCanvas(s, opts.LogicalSize, opts.MaxSize)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.canvas = c
	e.sched = opts.Scheduler
	e.lsched = lockedScheduler{e: e, inner: opts.Scheduler}
	e.pump, _ = opts.Scheduler.(framePump)
	e.theme = opts.Theme
	e.pipe = newPipeline(opts.Theme, opts.Route)
	e.rast = newRasterizer(opts.Font)
	e.logger = opts.Logger
	e.source = opts.Source
	e.duration = opts.Duration
	e.debug = opts.Debug
	e.res = resolve(Snapshot{})
	e.anim = newAnimator(e.lsched, e.animFrame, e.animDone)

	e.paint(1)
	e.logger.Debug("attached", "logical", c.logical, "pixels", c.pixelSize(), "scale", c.scale)
	q := e.drain()
	e.mu.Unlock()
	runEvents(q)
	return nil
}

// SetData applies a snapshot directly and starts the reveal animation. Any
// in-flight refresh is superseded; any running animation restarts.
func (e *Engine) SetData(s Snapshot) {
	e.mu.Lock()
	if e.state == StateDestroyed || e.canvas == nil {
		e.mu.Unlock()
		return
	}
	e.supersedeFetch()
	e.applySnapshot(s)
	q := e.drain()
	e.mu.Unlock()
	runEvents(q)
}

// Refresh pulls a snapshot from the configured source. The engine enters
// StateLoading immediately and settles in StateReady or StateError when the
// fetch lands on a scheduled frame. Rapid refreshes supersede each other;
// only the latest result is applied. Refresh from StateError retries. With
// no source configured, the empty snapshot applies immediately.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	if e.state == StateDestroyed || e.canvas == nil {
		e.mu.Unlock()
		return
	}
	if e.source == nil {
		e.logger.Debug("refresh without a source, applying the empty snapshot")
		e.supersedeFetch()
		e.applySnapshot(Snapshot{})
		q := e.drain()
		e.mu.Unlock()
		runEvents(q)
		return
	}

	e.anim.stop()
	e.supersedeFetch()
	gen := e.fetchGen
	fctx, cancel := context.WithCancel(ctx)
	e.fetchCancel = cancel
	src := e.source

	e.transition(StateLoading, nil)
	e.paint(1)
	q := e.drain()
	e.mu.Unlock()
	runEvents(q)

	go func() {
		snap, err := src.Fetch(fctx)
		cancel()
		e.lsched.ScheduleFrame(func(time.Time) {
			if gen != e.fetchGen {
				return
			}
			e.fetchCancel = nil
			if err != nil {
				e.logger.Error("refresh failed", "err", err)
				e.transition(StateError, &FetchError{Cause: err})
				e.paint(1)
				return
			}
			e.applySnapshot(snap)
		})
	}()
}

// Resize reallocates the buffer for a new logical width, clamped to the
// attach-time maximum, and repaints at the current reveal progress. No new
// animation starts. Debouncing bursts of host resize events is the
// caller's job.
func (e *Engine) Resize(width float64) {
	e.mu.Lock()
	if e.state == StateDestroyed || e.canvas == nil || width <= 0 {
		e.mu.Unlock()
		return
	}
	e.canvas.resize(width)
	e.paint(e.anim.progress())
	ev := ResizeEvent{LogicalSize: e.canvas.logical, PixelSize: e.canvas.pixelSize()}
	e.pend(func() { e.listeners.emitResize(ev) })
	e.logger.Debug("resized", "logical", e.canvas.logical, "pixels", e.canvas.pixelSize())
	q := e.drain()
	e.mu.Unlock()
	runEvents(q)
}

// ToImage encodes the current buffer contents. It only works in StateReady;
// any failure comes back as an *ExportError.
func (e *Engine) ToImage(format ImageFormat) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady || e.canvas == nil || e.canvas.image == nil {
		return nil, &ExportError{Cause: ErrNotReady}
	}
	return encodeImage(e.canvas.image, format)
}

// Destroy stops the animation, cancels any in-flight fetch, and releases
// the buffer. Idempotent; every later call on the engine is a no-op.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.state == StateDestroyed {
		e.mu.Unlock()
		return
	}
	if e.anim != nil {
		e.anim.stop()
	}
	e.supersedeFetch()
	if e.canvas != nil {
		e.canvas.dispose()
	}
	e.transition(StateDestroyed, nil)
	e.logger.Debug("destroyed")
	q := e.drain()
	e.mu.Unlock()
	runEvents(q)
}

// Update advances scheduled frame work. Game-loop hosts call this once per
// tick; it pumps a host-driven scheduler and is a no-op for timer-driven
// ones.
func (e *Engine) Update() {
	e.mu.Lock()
	pump := e.pump
	destroyed := e.state == StateDestroyed
	e.mu.Unlock()
	if destroyed || pump == nil {
		return
	}
	pump.Step(time.Now())
}

// Draw composes the buffer onto dst with its top-left corner at the logical
// position (x, y).
func (e *Engine) Draw(dst *ebiten.Image, x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateDestroyed || e.canvas == nil {
		return
	}
	e.canvas.compose(dst, x, y)
}

// --- Accessors ---

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the captured failure while in StateError, nil otherwise.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Data returns the last applied snapshot and whether one has been applied.
func (e *Engine) Data() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, e.hasData
}

// Progress returns the eased reveal progress: the live value while
// animating, 1 when settled.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.anim == nil {
		return 1
	}
	return e.anim.progress()
}

// Stats returns the timings of the most recent paint.
func (e *Engine) Stats() FrameStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Image returns the engine-owned buffer. It is valid until the next resize
// or Destroy; treat it as read-only.
func (e *Engine) Image() *ebiten.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.canvas == nil {
		return nil
	}
	return e.canvas.image
}

// --- Listeners ---

// OnStateChange registers fn for lifecycle transitions.
func (e *Engine) OnStateChange(fn func(StateChange)) ListenerHandle {
	return e.listeners.addState(fn)
}

// OnAnimation registers fn for reveal animation milestones.
func (e *Engine) OnAnimation(fn func(AnimationEvent)) ListenerHandle {
	return e.listeners.addAnimation(fn)
}

// OnDataQuality registers fn for recovered data inconsistencies.
func (e *Engine) OnDataQuality(fn func(DataQualityEvent)) ListenerHandle {
	return e.listeners.addQuality(fn)
}

// OnResize registers fn for completed buffer resizes.
func (e *Engine) OnResize(fn func(ResizeEvent)) ListenerHandle {
	return e.listeners.addResize(fn)
}

// OnFrame registers fn for completed paints.
func (e *Engine) OnFrame(fn func(FrameEvent)) ListenerHandle {
	return e.listeners.addFrame(fn)
}

// --- Internals (caller holds e.mu) ---

// applySnapshot resolves and paints a snapshot, transitions to StateReady,
// and starts the reveal.
func (e *Engine) applySnapshot(s Snapshot) {
	e.snap = s
	e.res = resolve(s)
	e.hasData = true

	if len(e.res.issues) > 0 {
		for _, is := range e.res.issues {
			e.logger.Warn("data issue", "code", is.Code, "node", is.NodeID, "detail", is.Detail)
		}
		issues := append([]Issue(nil), e.res.issues...)
		e.pend(func() { e.listeners.emitQuality(DataQualityEvent{Issues: issues}) })
	}

	e.anim.stop()
	e.transition(StateReady, nil)
	e.pend(func() { e.listeners.emitAnimation(AnimationEvent{Phase: AnimationStarted}) })
	e.anim.start(e.duration, time.Now())
}

// supersedeFetch invalidates any in-flight refresh so its completion is
// dropped.
func (e *Engine) supersedeFetch() {
	e.fetchGen++
	if e.fetchCancel != nil {
		e.fetchCancel()
		e.fetchCancel = nil
	}
}

// transition moves the state machine and queues the change event. Cause is
// non-nil only for StateError.
func (e *Engine) transition(to State, cause error) {
	if e.state == to {
		return
	}
	from := e.state
	e.state = to
	e.lastErr = cause
	e.logger.Debug("state change", "from", from, "to", to)
	ev := StateChange{From: from, To: to, Err: cause}
	e.pend(func() { e.listeners.emitState(ev) })
}

// paint rebuilds the display list for the current state and submits it to
// the buffer.
func (e *Engine) paint(eased float64) {
	if e.canvas == nil || e.canvas.image == nil {
		return
	}
	start := time.Now()
	f := frame{size: e.canvas.logical, mode: modeDiagram, res: &e.res, eased: eased}
	switch e.state {
	case StateLoading:
		f.mode = modeLoading
	case StateError:
		f.mode = modeError
		var fe *FetchError
		if errors.As(e.lastErr, &fe) && fe.Cause != nil {
			f.errText = fe.Cause.Error()
		}
	}
	ops := e.pipe.build(f)
	if e.debug {
		ops = append(ops, e.debugOp(f.size))
	}
	built := time.Now()
	e.rast.submit(e.canvas.image, ops, e.canvas.scale)
	e.stats = FrameStats{Ops: len(ops), Build: built.Sub(start), Submit: time.Since(built)}
	ev := FrameEvent{Stats: e.stats}
	e.pend(func() { e.listeners.emitFrame(ev) })
}

// debugOp is the stats line in the top-left corner. It shows the previous
// frame's timings; this frame's submit time isn't known until after it.
func (e *Engine) debugOp(size float64) op {
	return op{
		kind: opText, tag: tagStatus,
		p0:   Point{X: size * 0.012, Y: size * 0.025},
		text: e.stats.String(),
		size: e.theme.CaptionSize, align: alignLeft,
		color: e.theme.Caption,
	}
}

// animFrame repaints at the given eased progress.
func (e *Engine) animFrame(eased float64) {
	e.paint(eased)
}

// animDone queues the terminal animation event.
func (e *Engine) animDone(completed bool) {
	phase := AnimationCanceled
	if completed {
		phase = AnimationFinished
	}
	ev := AnimationEvent{Phase: phase, Progress: e.anim.eased}
	e.pend(func() { e.listeners.emitAnimation(ev) })
}

// pend queues an event emission to run after the engine lock is released,
// so listeners can call back into the engine without deadlocking.
func (e *Engine) pend(fire func()) {
	e.events = append(e.events, fire)
}

// drain takes the queued emissions.
func (e *Engine) drain() []func() {
	q := e.events
	e.events = nil
	return q
}

func runEvents(q []func()) {
	for _, fire := range q {
		fire()
	}
}

// lockedScheduler wraps the injected scheduler so frame callbacks run under
// the engine lock and queued events are emitted after it is released.
// Callbacks scheduled after Destroy are dropped.
type lockedScheduler struct {
	e     *Engine
	inner Scheduler
}

// ScheduleFrame implements Scheduler.
func (s lockedScheduler) ScheduleFrame(fn func(now time.Time)) (cancel func()) {
	return s.inner.ScheduleFrame(func(now time.Time) {
		s.e.mu.Lock()
		if s.e.state == StateDestroyed {
			s.e.mu.Unlock()
			return
		}
		fn(now)
		q := s.e.drain()
		s.e.mu.Unlock()
		runEvents(q)
	})
}
