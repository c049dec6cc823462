package halo

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Reveal staging thresholds. These are fixed policy of the reveal animation,
// not configuration: ring radii scale linearly with eased progress the whole
// way, node markers appear past revealNodesAt, connections and the center
// numeral past revealLinesAt, and label opacity ramps in over the final
// stretch.
const (
	revealNodesAt   = 0.4
	revealLinesAt   = 0.5
	revealNumeralAt = 0.5
	revealLabelFrom = 0.7
)

// labelAlpha maps eased progress to label opacity: 0 until revealLabelFrom,
// then a linear ramp to 1.
func labelAlpha(eased float64) float64 {
	return clamp01((eased - revealLabelFrom) / (1 - revealLabelFrom))
}

// opKind distinguishes display-list operations.
type opKind uint8

const (
	opClear   opKind = iota
	opFill           // full-surface fill
	opArcBand        // filled annulus sector (ring segment)
	opDisc           // filled circle
	opRing           // stroked circle outline
	opLine           // stroked line, optionally dashed
	opText
)

// opTag records which pass produced an op, for the debug overlay and per-pass
// assertions.
type opTag uint8

const (
	tagClear opTag = iota
	tagBackground
	tagOuterRing
	tagMiddleRing
	tagHub
	tagConnection
	tagNode
	tagLabel
	tagStatus // loading and error overlays
)

type textAlignment uint8

const (
	alignCenter textAlignment = iota
	alignLeft
	alignRight
)

// op is one display-list entry. A flat struct with a kind discriminator
// keeps the list a single reusable allocation across frames.
type op struct {
	kind  opKind
	tag   opTag
	color Color

	center         Point   // arc band, disc, ring
	rInner, rOuter float64 // arc band; disc and ring use rOuter
	a0, a1         float64 // arc band sweep

	p0, p1          Point   // line endpoints; p0 doubles as the text anchor
	width           float64 // stroke width
	dashOn, dashOff float64 // 0 = solid

	text  string
	size  float64
	align textAlignment
}

// frameMode selects the pipeline variant for one paint.
type frameMode uint8

const (
	modeDiagram frameMode = iota
	modeLoading
	modeError
)

// frame bundles the inputs of one paint.
type frame struct {
	size    float64 // logical surface size
	mode    frameMode
	res     *resolved
	eased   float64
	errText string
}

// FrameStats reports the cost of one paint. Surfaced through the frame
// listener after every paint; the Debug option additionally draws the stats
// line onto the frame.
type FrameStats struct {
	Ops    int
	Build  time.Duration
	Submit time.Duration
}

// String formats the stats for the debug overlay.
func (s FrameStats) String() string {
	return fmt.Sprintf("ops %d  build %s  submit %s",
		s.Ops, s.Build.Round(time.Microsecond), s.Submit.Round(time.Microsecond))
}

// pipeline turns a frame into a flat display list in fixed pass order:
// clear, background, outer ring, middle ring, hub, connections, nodes,
// labels. All staging decisions happen here, so the op list is the complete,
// display-free description of a frame.
type pipeline struct {
	theme *Theme
	route RouteStrategy

	ops        []op
	outerSegs  []Segment
	middleSegs []Segment
	outerOcc   []bool
	middleOcc  []bool
	probPts    []RoutePoint
	solPts     []RoutePoint
	conns      []Connection
}

func newPipeline(theme *Theme, route RouteStrategy) *pipeline {
	if route == nil {
		route = RadialRoutes{}
	}
	return &pipeline{theme: theme, route: route}
}

// build produces the display list for one frame. The returned slice is
// owned by the pipeline and valid until the next build.
func (p *pipeline) build(f frame) []op {
	p.ops = p.ops[:0]
	p.ops = append(p.ops,
		op{kind: opClear, tag: tagClear},
		op{kind: opFill, tag: tagBackground, color: p.theme.Background},
	)
	switch f.mode {
	case modeLoading:
		p.buildLoading(f)
	case modeError:
		p.buildError(f)
	default:
		p.buildDiagram(f)
	}
	return p.ops
}

func (p *pipeline) buildDiagram(f frame) {
	th := p.theme
	res := f.res
	w := th.wheel(f.size).scaled(f.eased)
	outer := ringSegments(&p.outerSegs, res.outerSlots)
	middle := ringSegments(&p.middleSegs, res.middleSlots)
	p.outerOcc = occupancy(p.outerOcc, res.outerSlots, res.problems)
	p.middleOcc = occupancy(p.middleOcc, res.middleSlots, res.solutions)

	p.appendRing(outer, p.outerOcc, w.Center, w.OuterRadius, w.OuterWidth, th.RingProblem, tagOuterRing)
	p.appendRing(middle, p.middleOcc, w.Center, w.MiddleRadius, w.MiddleWidth, th.RingSolution, tagMiddleRing)

	hub := th.HubEmpty
	if res.offers > 0 {
		hub = th.HubFilled
	}
	p.ops = append(p.ops, op{kind: opDisc, tag: tagHub, center: w.Center, rOuter: w.HubRadius, color: hub})

	if f.eased > revealLinesAt {
		p.conns = p.route.Route(p.routeInput(res, w, outer, middle), p.conns[:0])
		for _, c := range p.conns {
			col := th.Connection
			if c.Faint {
				col = th.ConnectionFaint
			}
			p.ops = append(p.ops, op{
				kind: opLine, tag: tagConnection,
				p0: c.From, p1: c.To,
				width: th.ConnectionWidth, dashOn: th.DashOn, dashOff: th.DashOff,
				color: col,
			})
		}
	}

	if f.eased > revealNodesAt {
		nodeR := th.nodeRadius(f.size)
		for _, n := range res.solutions {
			p.appendNode(w.MiddleNode(middle[n.slot]), nodeR, n.slot+1)
		}
		for i, n := range res.problems {
			pt := w.OuterNode(outer[n.slot])
			p.appendNode(pt, nodeR, n.slot+1)
			if i == res.primary {
				p.ops = append(p.ops, op{
					kind: opRing, tag: tagNode,
					center: pt, rOuter: th.primaryRingRadius(f.size),
					width: th.PrimaryRingWidth, color: th.PrimaryRing,
				})
			}
		}
	}

	if f.eased > revealNumeralAt {
		p.ops = append(p.ops, op{
			kind: opText, tag: tagHub,
			p0: w.Center, text: strconv.Itoa(res.offers),
			size: th.NumeralSize, align: alignCenter, color: th.NodeFill,
		})
	}

	if la := labelAlpha(f.eased); la > 0 {
		empty := len(res.problems) == 0 && len(res.solutions) == 0 && res.offers == 0
		if empty {
			// Placeholder ordinals on the vacant outer segments.
			for _, s := range outer {
				p.ops = append(p.ops, op{
					kind: opText, tag: tagLabel,
					p0: w.OuterNode(s), text: strconv.Itoa(s.Index + 1),
					size: th.NodeTextSize, align: alignCenter,
					color: th.Caption.WithAlpha(la),
				})
			}
		}
		pad := f.size * 0.035
		p.ops = append(p.ops,
			op{
				kind: opText, tag: tagLabel,
				p0:   Point{X: pad, Y: f.size - pad},
				text: fmt.Sprintf("%d/%d Problems", len(res.problems), DefaultSlots),
				size: th.LabelSize, align: alignLeft, color: th.Label.WithAlpha(la),
			},
			op{
				kind: opText, tag: tagLabel,
				p0:   Point{X: f.size - pad, Y: f.size - pad},
				text: fmt.Sprintf("%d/%d Solutions", len(res.solutions), res.middleSlots),
				size: th.LabelSize, align: alignRight, color: th.Label.WithAlpha(la),
			},
		)
		if empty {
			p.ops = append(p.ops, op{
				kind: opText, tag: tagLabel,
				p0:   Point{X: f.size / 2, Y: f.size - pad - th.LabelSize*1.8},
				text: th.HelperCaption,
				size: th.CaptionSize, align: alignCenter, color: th.Caption.WithAlpha(la),
			})
		}
	}
}

// buildLoading paints the in-flight frame: a spinner track around the hub
// radius with a three-quarter sweep and a caption.
func (p *pipeline) buildLoading(f frame) {
	th := p.theme
	w := th.wheel(f.size)
	track := th.ConnectionWidth * 2
	p.ops = append(p.ops,
		op{
			kind: opRing, tag: tagStatus,
			center: w.Center, rOuter: w.HubRadius, width: track, color: th.RingGhost,
		},
		op{
			kind: opArcBand, tag: tagStatus,
			center: w.Center,
			rInner: w.HubRadius - track/2, rOuter: w.HubRadius + track/2,
			a0: TopAngle, a1: TopAngle + 3*math.Pi/2,
			color: th.RingProblem,
		},
		op{
			kind: opText, tag: tagStatus,
			p0:   Point{X: w.Center.X, Y: w.Center.Y + w.HubRadius + th.LabelSize*2},
			text: "Loading journey data", size: th.LabelSize, align: alignCenter, color: th.Label,
		},
	)
}

// buildError paints the failure frame: the ghost wheel with the failure
// message over the hub.
func (p *pipeline) buildError(f frame) {
	th := p.theme
	w := th.wheel(f.size)
	outer := ringSegments(&p.outerSegs, DefaultSlots)
	p.outerOcc = occupancy(p.outerOcc, DefaultSlots, nil)
	p.appendRing(outer, p.outerOcc, w.Center, w.OuterRadius, w.OuterWidth, th.RingProblem, tagOuterRing)
	p.appendRing(outer, p.outerOcc, w.Center, w.MiddleRadius, w.MiddleWidth, th.RingSolution, tagMiddleRing)
	p.ops = append(p.ops,
		op{kind: opDisc, tag: tagHub, center: w.Center, rOuter: w.HubRadius, color: th.HubEmpty},
		op{
			kind: opText, tag: tagStatus,
			p0:   Point{X: w.Center.X, Y: w.Center.Y - th.LabelSize},
			text: "Couldn't load journey data", size: th.LabelSize, align: alignCenter, color: th.Label,
		},
	)
	if f.errText != "" {
		p.ops = append(p.ops, op{
			kind: opText, tag: tagStatus,
			p0:   Point{X: w.Center.X, Y: w.Center.Y + th.CaptionSize},
			text: f.errText, size: th.CaptionSize, align: alignCenter, color: th.Caption,
		})
	}
}

// appendRing emits one arc band per segment, solid where occupied and ghost
// elsewhere. The theme's segment gap is trimmed off both ends of every band;
// it is purely visual and does not move node points.
func (p *pipeline) appendRing(segs []Segment, occ []bool, center Point, rOuter, width float64, solid Color, tag opTag) {
	th := p.theme
	gap := th.SegmentGap / 2
	for i, s := range segs {
		col := th.RingGhost
		if occ[i] {
			col = solid
		}
		p.ops = append(p.ops, op{
			kind: opArcBand, tag: tag,
			center: center, rInner: rOuter - width, rOuter: rOuter,
			a0: s.Start + gap, a1: s.End - gap,
			color: col,
		})
	}
}

// appendNode emits a numbered node marker.
func (p *pipeline) appendNode(pt Point, r float64, ordinal int) {
	th := p.theme
	p.ops = append(p.ops,
		op{kind: opDisc, tag: tagNode, center: pt, rOuter: r, color: th.NodeFill},
		op{
			kind: opText, tag: tagNode,
			p0: pt, text: strconv.Itoa(ordinal),
			size: th.NodeTextSize, align: alignCenter, color: th.NodeText,
		},
	)
}

// routeInput assembles the strategy input, reusing the pipeline's buffers.
func (p *pipeline) routeInput(res *resolved, w Wheel, outer, middle []Segment) RouteInput {
	p.probPts = p.probPts[:0]
	for i, n := range res.problems {
		p.probPts = append(p.probPts, RoutePoint{
			ID: n.id, Slot: n.slot, Matched: res.matched[i], Problem: -1,
		})
	}
	p.solPts = p.solPts[:0]
	for i, n := range res.solutions {
		p.solPts = append(p.solPts, RoutePoint{
			ID: n.id, Slot: n.slot, Problem: res.solutionOf[i],
		})
	}
	return RouteInput{
		Wheel:     w,
		Outer:     outer,
		Middle:    middle,
		Problems:  p.probPts,
		Solutions: p.solPts,
	}
}

// ringSegments returns the cached segmentation for a slot count, rebuilding
// only when the count changes.
func ringSegments(cache *[]Segment, count int) []Segment {
	if len(*cache) != count {
		*cache = SegmentsFor(count, TopAngle)
	}
	return *cache
}

// occupancy marks which slots hold at least one entry.
func occupancy(buf []bool, slots int, nodes []resolvedNode) []bool {
	if cap(buf) < slots {
		buf = make([]bool, slots)
	} else {
		buf = buf[:slots]
		for i := range buf {
			buf[i] = false
		}
	}
	for _, n := range nodes {
		if n.slot >= 0 && n.slot < slots {
			buf[n.slot] = true
		}
	}
	return buf
}
