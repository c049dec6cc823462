package halo

import "math"

// TopAngle is the canonical start angle for ring segmentation: straight up
// (12 o'clock). Angles are in radians and increase clockwise on a Y-down
// surface.
const TopAngle = -math.Pi / 2

// DefaultSlots is the ring capacity of the journey wheel. Both rings expose
// this many angular segments unless the input overflows the middle ring.
const DefaultSlots = 5

// Segment is one angular range of a ring. Start is inclusive, End exclusive;
// End-Start equals the full turn divided by the segment count.
type Segment struct {
	Index      int
	Start, End float64
}

// Mid returns the segment's middle angle, where node markers sit.
func (s Segment) Mid() float64 {
	return (s.Start + s.End) / 2
}

// SegmentsFor divides the full turn into count equal clockwise segments
// beginning at startAngle. count must be positive; a non-positive count
// returns nil.
func SegmentsFor(count int, startAngle float64) []Segment {
	if count <= 0 {
		return nil
	}
	step := 2 * math.Pi / float64(count)
	segs := make([]Segment, count)
	for i := range segs {
		segs[i] = Segment{
			Index: i,
			Start: startAngle + float64(i)*step,
			End:   startAngle + float64(i+1)*step,
		}
	}
	return segs
}

// WrapSlot clamps a slot index into [0, count) using floored modulo, so
// out-of-range and negative slots wrap instead of failing. WrapSlot(-1, 5)
// is 4.
func WrapSlot(slot, count int) int {
	if count <= 0 {
		return 0
	}
	m := slot % count
	if m < 0 {
		m += count
	}
	return m
}

// Polar returns the point at distance r from the origin along angle.
func Polar(r, angle float64) Point {
	return Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// NodePointFor returns the node marker position for a segment on a ring:
// the segment's mid-angle at the ring's mid-radius. ringRadius is the outer
// edge of the ring band and ringWidth its thickness. The point is relative
// to the ring center.
func NodePointFor(seg Segment, ringRadius, ringWidth float64) Point {
	return Polar(ringRadius-ringWidth/2, seg.Mid())
}

// Wheel is the resolved radial layout of one diagram: the center point and
// the edges of the two ring bands and the hub circle, all in logical units.
type Wheel struct {
	Center       Point
	OuterRadius  float64 // outer edge of the outer ring band
	OuterWidth   float64
	MiddleRadius float64 // outer edge of the middle ring band
	MiddleWidth  float64
	HubRadius    float64 // center circle
}

// OuterInnerEdge returns the radius of the outer ring's inner edge.
func (w Wheel) OuterInnerEdge() float64 { return w.OuterRadius - w.OuterWidth }

// MiddleInnerEdge returns the radius of the middle ring's inner edge.
func (w Wheel) MiddleInnerEdge() float64 { return w.MiddleRadius - w.MiddleWidth }

// OuterNode returns the absolute node point for a segment on the outer ring.
func (w Wheel) OuterNode(seg Segment) Point {
	return w.Center.add(NodePointFor(seg, w.OuterRadius, w.OuterWidth))
}

// MiddleNode returns the absolute node point for a segment on the middle ring.
func (w Wheel) MiddleNode(seg Segment) Point {
	return w.Center.add(NodePointFor(seg, w.MiddleRadius, w.MiddleWidth))
}

// At returns the absolute point at radius r along angle from the wheel center.
func (w Wheel) At(r, angle float64) Point {
	return w.Center.add(Polar(r, angle))
}

// scaled returns the wheel with every radius multiplied by f. The center is
// unchanged. Used by the reveal animation, where radii grow linearly with
// progress.
func (w Wheel) scaled(f float64) Wheel {
	w.OuterRadius *= f
	w.OuterWidth *= f
	w.MiddleRadius *= f
	w.MiddleWidth *= f
	w.HubRadius *= f
	return w
}

func (p Point) add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// dashSpans splits the segment p0→p1 into alternating on/off spans and
// appends the "on" spans to dst. Both dash lengths must be positive or the
// whole segment is appended as a single span.
func dashSpans(dst [][2]Point, p0, p1 Point, on, off float64) [][2]Point {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return dst
	}
	if on <= 0 || off <= 0 {
		return append(dst, [2]Point{p0, p1})
	}
	ux := dx / length
	uy := dy / length
	for pos := 0.0; pos < length; pos += on + off {
		end := pos + on
		if end > length {
			end = length
		}
		dst = append(dst, [2]Point{
			{X: p0.X + ux*pos, Y: p0.Y + uy*pos},
			{X: p0.X + ux*end, Y: p0.Y + uy*end},
		})
	}
	return dst
}
