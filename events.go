package halo

import "sync"

// EventKind identifies a listener channel on the engine.
type EventKind uint8

const (
	EventStateChange EventKind = iota
	EventAnimation
	EventDataQuality
	EventResize
	EventFrame
)

// StateChange reports an engine state transition.
type StateChange struct {
	From State
	To   State
	Err  error // set when To is StateError
}

// AnimationPhase marks a milestone in the reveal animation.
type AnimationPhase uint8

const (
	AnimationStarted AnimationPhase = iota
	AnimationFinished
	AnimationCanceled
)

// AnimationEvent reports a reveal animation milestone.
type AnimationEvent struct {
	Phase    AnimationPhase
	Progress float64 // eased progress at the time of the event
}

// DataQualityEvent carries the issues logged while resolving a snapshot.
// The slice is only valid for the duration of the callback.
type DataQualityEvent struct {
	Issues []Issue
}

// ResizeEvent reports a completed surface resize.
type ResizeEvent struct {
	LogicalSize float64
	PixelSize   int
}

// FrameEvent reports a completed paint.
type FrameEvent struct {
	Stats FrameStats
}

// --- Listener registry ---

type stateListener struct {
	id uint32
	fn func(StateChange)
}

type animationListener struct {
	id uint32
	fn func(AnimationEvent)
}

type qualityListener struct {
	id uint32
	fn func(DataQualityEvent)
}

type resizeListener struct {
	id uint32
	fn func(ResizeEvent)
}

type frameListener struct {
	id uint32
	fn func(FrameEvent)
}

// listenerRegistry holds the engine's typed listeners. It carries its own
// lock so handles can be removed from any goroutine; emission snapshots the
// listener slice and calls outside the lock, so a listener may remove
// itself or register new listeners without deadlocking.
type listenerRegistry struct {
	mu          sync.Mutex
	stateChange []stateListener
	animation   []animationListener
	dataQuality []qualityListener
	resize      []resizeListener
	frame       []frameListener
	nextID      uint32
}

// ListenerHandle allows removing a registered engine listener.
type ListenerHandle struct {
	id    uint32
	reg   *listenerRegistry
	event EventKind
}

// Remove unregisters this listener so it no longer fires. Safe to call more
// than once.
func (h ListenerHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.mu.Lock()
	defer h.reg.mu.Unlock()
	switch h.event {
	case EventStateChange:
		h.reg.stateChange = removeStateListener(h.reg.stateChange, h.id)
	case EventAnimation:
		h.reg.animation = removeAnimationListener(h.reg.animation, h.id)
	case EventDataQuality:
		h.reg.dataQuality = removeQualityListener(h.reg.dataQuality, h.id)
	case EventResize:
		h.reg.resize = removeResizeListener(h.reg.resize, h.id)
	case EventFrame:
		h.reg.frame = removeFrameListener(h.reg.frame, h.id)
	}
}

func removeStateListener(s []stateListener, id uint32) []stateListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = stateListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeAnimationListener(s []animationListener, id uint32) []animationListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = animationListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeQualityListener(s []qualityListener, id uint32) []qualityListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = qualityListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeResizeListener(s []resizeListener, id uint32) []resizeListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = resizeListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeFrameListener(s []frameListener, id uint32) []frameListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = frameListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Registration ---

func (r *listenerRegistry) addState(fn func(StateChange)) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.stateChange = append(r.stateChange, stateListener{id: r.nextID, fn: fn})
	return ListenerHandle{id: r.nextID, reg: r, event: EventStateChange}
}

func (r *listenerRegistry) addAnimation(fn func(AnimationEvent)) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.animation = append(r.animation, animationListener{id: r.nextID, fn: fn})
	return ListenerHandle{id: r.nextID, reg: r, event: EventAnimation}
}

func (r *listenerRegistry) addQuality(fn func(DataQualityEvent)) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.dataQuality = append(r.dataQuality, qualityListener{id: r.nextID, fn: fn})
	return ListenerHandle{id: r.nextID, reg: r, event: EventDataQuality}
}

func (r *listenerRegistry) addResize(fn func(ResizeEvent)) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.resize = append(r.resize, resizeListener{id: r.nextID, fn: fn})
	return ListenerHandle{id: r.nextID, reg: r, event: EventResize}
}

func (r *listenerRegistry) addFrame(fn func(FrameEvent)) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.frame = append(r.frame, frameListener{id: r.nextID, fn: fn})
	return ListenerHandle{id: r.nextID, reg: r, event: EventFrame}
}

// --- Dispatch ---

func (r *listenerRegistry) emitState(ev StateChange) {
	r.mu.Lock()
	ls := append([]stateListener(nil), r.stateChange...)
	r.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}

func (r *listenerRegistry) emitAnimation(ev AnimationEvent) {
	r.mu.Lock()
	ls := append([]animationListener(nil), r.animation...)
	r.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}

func (r *listenerRegistry) emitQuality(ev DataQualityEvent) {
	r.mu.Lock()
	ls := append([]qualityListener(nil), r.dataQuality...)
	r.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}

func (r *listenerRegistry) emitResize(ev ResizeEvent) {
	r.mu.Lock()
	ls := append([]resizeListener(nil), r.resize...)
	r.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}

func (r *listenerRegistry) emitFrame(ev FrameEvent) {
	r.mu.Lock()
	ls := append([]frameListener(nil), r.frame...)
	r.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}
