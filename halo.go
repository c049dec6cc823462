package halo

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Lerp linearly interpolates between c and other by t in [0, 1].
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: lerp(c.R, other.R, t),
		G: lerp(c.G, other.G, t),
		B: lerp(c.B, other.B, t),
		A: lerp(c.A, other.A, t),
	}
}

// RGBA implements color.Color, premultiplying per that contract. A Theme
// color can go straight into Fill and friends.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(clamp01(c.R*c.A) * 0xffff)
	g = uint32(clamp01(c.G*c.A) * 0xffff)
	b = uint32(clamp01(c.B*c.A) * 0xffff)
	a = uint32(clamp01(c.A) * 0xffff)
	return
}

// Point is a 2D position in logical coordinates. The coordinate system has
// its origin at the top-left, with Y increasing downward.
type Point struct {
	X, Y float64
}

// State is the engine lifecycle state.
type State uint8

const (
	// StateUninitialized means no data has been applied yet. A bound engine
	// paints the placeholder frame in this state.
	StateUninitialized State = iota
	// StateLoading means a refresh is in flight.
	StateLoading
	// StateReady means a snapshot is applied and the diagram is drawable.
	StateReady
	// StateError means the last refresh failed; retry via Refresh.
	StateError
	// StateDestroyed is terminal. Every call on a destroyed engine is a no-op.
	StateDestroyed
)

// String returns the state name for logs and events.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
