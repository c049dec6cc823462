package halo

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- SegmentsFor ---

func TestSegmentsForEvenDivision(t *testing.T) {
	segs := SegmentsFor(5, TopAngle)
	if len(segs) != 5 {
		t.Fatalf("len(segs) = %d, want 5", len(segs))
	}
	step := 2 * math.Pi / 5
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segs[%d].Index = %d, want %d", i, s.Index, i)
		}
		assertNear(t, "start", s.Start, TopAngle+float64(i)*step)
		assertNear(t, "width", s.End-s.Start, step)
	}
}

func TestSegmentsForContiguous(t *testing.T) {
	segs := SegmentsFor(7, TopAngle)
	for i := 1; i < len(segs); i++ {
		assertNear(t, "boundary", segs[i].Start, segs[i-1].End)
	}
	assertNear(t, "full turn", segs[len(segs)-1].End, TopAngle+2*math.Pi)
}

func TestSegmentsForInvalidCount(t *testing.T) {
	if segs := SegmentsFor(0, TopAngle); segs != nil {
		t.Errorf("SegmentsFor(0) = %v, want nil", segs)
	}
	if segs := SegmentsFor(-3, TopAngle); segs != nil {
		t.Errorf("SegmentsFor(-3) = %v, want nil", segs)
	}
}

func TestSegmentMid(t *testing.T) {
	s := Segment{Start: 1, End: 3}
	assertNear(t, "mid", s.Mid(), 2)
}

// --- WrapSlot ---

func TestWrapSlot(t *testing.T) {
	cases := []struct {
		slot, count, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{7, 5, 2},
		{-1, 5, 4},
		{-6, 5, 4},
		{3, 0, 0},
	}
	for _, c := range cases {
		if got := WrapSlot(c.slot, c.count); got != c.want {
			t.Errorf("WrapSlot(%d, %d) = %d, want %d", c.slot, c.count, got, c.want)
		}
	}
}

// --- NodePointFor ---

func TestNodePointForMidRadius(t *testing.T) {
	// Segment centered exactly on TopAngle: the node point sits straight up
	// at the ring's mid-radius.
	seg := Segment{Start: TopAngle - 0.3, End: TopAngle + 0.3}
	p := NodePointFor(seg, 100, 20)
	assertNear(t, "x", p.X, 0)
	assertNear(t, "y", p.Y, -90)
}

func TestNodePointForAngle(t *testing.T) {
	segs := SegmentsFor(5, TopAngle)
	p := NodePointFor(segs[1], 200, 40)
	mid := TopAngle + 1.5*(2*math.Pi/5)
	assertNear(t, "x", p.X, 180*math.Cos(mid))
	assertNear(t, "y", p.Y, 180*math.Sin(mid))
}

// --- Wheel ---

func testWheel() Wheel {
	return Wheel{
		Center:       Point{X: 350, Y: 350},
		OuterRadius:  308,
		OuterWidth:   63,
		MiddleRadius: 210,
		MiddleWidth:  63,
		HubRadius:    91,
	}
}

func TestWheelEdges(t *testing.T) {
	w := testWheel()
	assertNear(t, "outer inner edge", w.OuterInnerEdge(), 245)
	assertNear(t, "middle inner edge", w.MiddleInnerEdge(), 147)
}

func TestWheelNodePoints(t *testing.T) {
	w := testWheel()
	seg := Segment{Start: TopAngle - 0.1, End: TopAngle + 0.1}
	p := w.OuterNode(seg)
	assertNear(t, "outer x", p.X, 350)
	assertNear(t, "outer y", p.Y, 350-(308-63.0/2))
	q := w.MiddleNode(seg)
	assertNear(t, "middle x", q.X, 350)
	assertNear(t, "middle y", q.Y, 350-(210-63.0/2))
}

func TestWheelScaled(t *testing.T) {
	w := testWheel().scaled(0.5)
	assertNear(t, "outer", w.OuterRadius, 154)
	assertNear(t, "outer width", w.OuterWidth, 31.5)
	assertNear(t, "hub", w.HubRadius, 45.5)
	assertNear(t, "center x", w.Center.X, 350)
	assertNear(t, "center y", w.Center.Y, 350)
}

// --- dashSpans ---

func TestDashSpansCoverage(t *testing.T) {
	spans := dashSpans(nil, Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, 6, 4)
	if len(spans) != 10 {
		t.Fatalf("len(spans) = %d, want 10", len(spans))
	}
	assertNear(t, "first start", spans[0][0].X, 0)
	assertNear(t, "first end", spans[0][1].X, 6)
	assertNear(t, "last start", spans[9][0].X, 90)
	assertNear(t, "last end", spans[9][1].X, 96)
}

func TestDashSpansClampsFinalSpan(t *testing.T) {
	// 0..8 with on=6 off=4: second span starts at 10, past the end.
	spans := dashSpans(nil, Point{}, Point{X: 8}, 6, 4)
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	assertNear(t, "end", spans[0][1].X, 6)

	// 0..12: second span is clamped at the line end.
	spans = dashSpans(nil, Point{}, Point{X: 12}, 6, 4)
	if len(spans) != 2 {
		t.Fatalf("len(spans) = %d, want 2", len(spans))
	}
	assertNear(t, "clamped end", spans[1][1].X, 12)
}

func TestDashSpansDegenerate(t *testing.T) {
	if spans := dashSpans(nil, Point{X: 5, Y: 5}, Point{X: 5, Y: 5}, 6, 4); len(spans) != 0 {
		t.Errorf("zero-length line produced %d spans", len(spans))
	}
	spans := dashSpans(nil, Point{}, Point{X: 50}, 0, 4)
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1 solid span", len(spans))
	}
	assertNear(t, "solid end", spans[0][1].X, 50)
}

func TestDashSpansReusesBuffer(t *testing.T) {
	buf := make([][2]Point, 0, 32)
	spans := dashSpans(buf[:0], Point{}, Point{X: 100}, 6, 4)
	if &spans[0] != &buf[:1][0] {
		t.Error("dashSpans did not reuse the provided buffer")
	}
}
