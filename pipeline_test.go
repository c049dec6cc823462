package halo

import (
	"strings"
	"testing"
)

func buildOps(t *testing.T, snap Snapshot, eased float64) []op {
	t.Helper()
	res := resolve(snap)
	p := newPipeline(DefaultTheme(), nil)
	return p.build(frame{size: 700, res: &res, eased: eased})
}

func opsWithTag(ops []op, tag opTag) []op {
	var out []op
	for _, o := range ops {
		if o.tag == tag {
			out = append(out, o)
		}
	}
	return out
}

func opsOfKind(ops []op, kind opKind) []op {
	var out []op
	for _, o := range ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func findText(ops []op, contains string) (op, bool) {
	for _, o := range ops {
		if o.kind == opText && strings.Contains(o.text, contains) {
			return o, true
		}
	}
	return op{}, false
}

func firstIndexWithTag(ops []op, tag opTag) int {
	for i, o := range ops {
		if o.tag == tag {
			return i
		}
	}
	return -1
}

// --- pass order ---

func TestPipelinePassOrder(t *testing.T) {
	ops := buildOps(t, Snapshot{
		Problems: []Problem{
			{ID: "p1", Slot: 0},
			{ID: "p2", Slot: 1},
			{ID: "p3", Slot: 2},
		},
		Solutions: []Solution{
			{ID: "s1", Slot: 0, ProblemID: "p1"},
		},
		OfferCount: 2,
	}, 1)

	if ops[0].kind != opClear {
		t.Fatalf("ops[0].kind = %v, want clear", ops[0].kind)
	}
	if ops[1].kind != opFill || ops[1].tag != tagBackground {
		t.Fatalf("ops[1] = %+v, want background fill", ops[1])
	}

	order := []opTag{tagOuterRing, tagMiddleRing, tagHub, tagConnection, tagNode, tagLabel}
	last := -1
	for _, tag := range order {
		i := firstIndexWithTag(ops, tag)
		if i < 0 {
			t.Fatalf("no ops with tag %d", tag)
		}
		if i < last {
			t.Errorf("tag %d begins at %d, before previous pass at %d", tag, i, last)
		}
		last = i
	}
}

// --- ring segmentation ---

func TestPipelineRingSegmentCounts(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		problems := make([]Problem, n)
		for i := range problems {
			problems[i] = Problem{ID: string(rune('a' + i)), Slot: i}
		}
		ops := buildOps(t, Snapshot{Problems: problems}, 1)

		outer := opsWithTag(ops, tagOuterRing)
		if len(outer) != 5 {
			t.Fatalf("%d problems: outer segments = %d, want always 5", n, len(outer))
		}
		solid := 0
		for _, o := range outer {
			if o.color == DefaultTheme().RingProblem {
				solid++
			}
		}
		if solid != n {
			t.Errorf("%d problems: solid = %d", n, solid)
		}
		if ghost := len(outer) - solid; ghost != 5-n {
			t.Errorf("%d problems: ghost = %d, want %d", n, ghost, 5-n)
		}
	}
}

func TestPipelineMiddleRingGrowsPastCapacity(t *testing.T) {
	sols := make([]Solution, 7)
	for i := range sols {
		sols[i] = Solution{ID: string(rune('a' + i)), Slot: i}
	}
	ops := buildOps(t, Snapshot{Solutions: sols}, 1)
	if middle := opsWithTag(ops, tagMiddleRing); len(middle) != 7 {
		t.Errorf("middle segments = %d, want 7", len(middle))
	}
	if outer := opsWithTag(ops, tagOuterRing); len(outer) != 5 {
		t.Errorf("outer segments = %d, want 5", len(outer))
	}
}

func TestPipelineRingRadiiScaleWithEased(t *testing.T) {
	snap := Snapshot{Problems: []Problem{{ID: "p1", Slot: 0}}}
	full := opsWithTag(buildOps(t, snap, 1), tagOuterRing)
	half := opsWithTag(buildOps(t, snap, 0.5), tagOuterRing)
	assertNear(t, "outer radius at 0.5", half[0].rOuter, full[0].rOuter/2)
	assertNear(t, "band width at 0.5", half[0].rOuter-half[0].rInner, (full[0].rOuter-full[0].rInner)/2)
}

// --- staging thresholds ---

func TestPipelineRevealStaging(t *testing.T) {
	snap := Snapshot{
		Problems:   []Problem{{ID: "p1", Slot: 0}},
		Solutions:  []Solution{{ID: "s1", Slot: 0, ProblemID: "p1"}},
		OfferCount: 3,
	}
	cases := []struct {
		eased   float64
		nodes   bool
		lines   bool
		numeral bool
		labels  bool
	}{
		{0.2, false, false, false, false},
		{0.45, true, false, false, false},
		{0.6, true, true, true, false},
		{0.85, true, true, true, true},
		{1.0, true, true, true, true},
	}
	for _, c := range cases {
		ops := buildOps(t, snap, c.eased)
		if got := len(opsWithTag(ops, tagNode)) > 0; got != c.nodes {
			t.Errorf("eased %v: nodes visible = %v, want %v", c.eased, got, c.nodes)
		}
		if got := len(opsWithTag(ops, tagConnection)) > 0; got != c.lines {
			t.Errorf("eased %v: connections visible = %v, want %v", c.eased, got, c.lines)
		}
		_, numeral := findText(ops, "3")
		if numeral != c.numeral {
			t.Errorf("eased %v: numeral visible = %v, want %v", c.eased, numeral, c.numeral)
		}
		_, labels := findText(ops, "Problems")
		if labels != c.labels {
			t.Errorf("eased %v: labels visible = %v, want %v", c.eased, labels, c.labels)
		}
	}
}

func TestPipelineLabelAlphaRamp(t *testing.T) {
	assertNear(t, "alpha at 0.7", labelAlpha(0.7), 0)
	assertNear(t, "alpha at 0.85", labelAlpha(0.85), 0.5)
	assertNear(t, "alpha at 1", labelAlpha(1), 1)
	assertNear(t, "alpha below ramp", labelAlpha(0.3), 0)
}

// --- scenarios ---

func TestPipelineScenarioFullOuterRing(t *testing.T) {
	// Five problems at shuffled slots: outer ring fully solid, five numbered
	// nodes, middle ring fully ghost.
	slots := []int{0, 2, 4, 1, 3}
	problems := make([]Problem, 5)
	for i, s := range slots {
		problems[i] = Problem{ID: string(rune('a' + i)), Slot: s}
	}
	ops := buildOps(t, Snapshot{Problems: problems}, 1)

	th := DefaultTheme()
	for _, o := range opsWithTag(ops, tagOuterRing) {
		if o.color != th.RingProblem {
			t.Errorf("outer segment not solid: %+v", o)
		}
	}
	for _, o := range opsWithTag(ops, tagMiddleRing) {
		if o.color != th.RingGhost {
			t.Errorf("middle segment not ghost: %+v", o)
		}
	}
	if discs := opsOfKind(opsWithTag(ops, tagNode), opDisc); len(discs) != 5 {
		t.Errorf("node discs = %d, want 5", len(discs))
	}
	// Each unmatched problem also sends a faint line to the hub.
	conns := opsWithTag(ops, tagConnection)
	if len(conns) != 5 {
		t.Errorf("connections = %d, want 5 faint lines", len(conns))
	}
	for _, c := range conns {
		if c.color != th.ConnectionFaint {
			t.Errorf("expected faint style, got %+v", c.color)
		}
	}
}

func TestPipelineScenarioMatchedPairs(t *testing.T) {
	// Three problems, two matched solutions: two connection pairs plus one
	// faint line; rings 3 solid / 2 ghost and 2 solid / 3 ghost.
	ops := buildOps(t, Snapshot{
		Problems: []Problem{
			{ID: "p1", Slot: 0},
			{ID: "p2", Slot: 1},
			{ID: "p3", Slot: 2},
		},
		Solutions: []Solution{
			{ID: "s1", Slot: 0, ProblemID: "p1"},
			{ID: "s2", Slot: 2, ProblemID: "p3"},
		},
	}, 1)

	th := DefaultTheme()
	conns := opsWithTag(ops, tagConnection)
	full, faint := 0, 0
	for _, c := range conns {
		if c.color == th.ConnectionFaint {
			faint++
		} else {
			full++
		}
	}
	if full != 4 {
		t.Errorf("matched segments = %d, want 4 (two pairs)", full)
	}
	if faint != 1 {
		t.Errorf("faint lines = %d, want 1", faint)
	}

	countSolid := func(tag opTag, col Color) int {
		n := 0
		for _, o := range opsWithTag(ops, tag) {
			if o.color == col {
				n++
			}
		}
		return n
	}
	if got := countSolid(tagOuterRing, th.RingProblem); got != 3 {
		t.Errorf("solid outer = %d, want 3", got)
	}
	if got := countSolid(tagMiddleRing, th.RingSolution); got != 2 {
		t.Errorf("solid middle = %d, want 2", got)
	}
}

func TestPipelineScenarioEmpty(t *testing.T) {
	ops := buildOps(t, Snapshot{}, 1)
	th := DefaultTheme()

	for _, o := range opsWithTag(ops, tagOuterRing) {
		if o.color != th.RingGhost {
			t.Errorf("outer segment not ghost in empty state")
		}
	}
	if conns := opsWithTag(ops, tagConnection); len(conns) != 0 {
		t.Errorf("connections = %d, want 0", len(conns))
	}
	numeral, ok := findText(opsWithTag(ops, tagHub), "0")
	if !ok {
		t.Fatal("center numeral missing")
	}
	if numeral.text != "0" {
		t.Errorf("numeral = %q, want 0", numeral.text)
	}
	if _, ok := findText(ops, th.HelperCaption); !ok {
		t.Error("helper caption missing in empty state")
	}
	// Placeholder ordinals 1..5 on the ghost segments.
	labels := opsWithTag(ops, tagLabel)
	for _, want := range []string{"1", "2", "3", "4", "5"} {
		found := false
		for _, o := range labels {
			if o.kind == opText && o.text == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("placeholder ordinal %s missing", want)
		}
	}
	// Hub uses the empty-state fill.
	hub := opsOfKind(opsWithTag(ops, tagHub), opDisc)
	if len(hub) != 1 || hub[0].color != th.HubEmpty {
		t.Errorf("hub fill = %+v, want empty-state color", hub)
	}
}

func TestPipelineScenarioZeroOffersFullRings(t *testing.T) {
	// Full rings with offerCount zero: everything renders, but the hub keeps
	// the empty-state fill and shows "0".
	problems := make([]Problem, 5)
	solutions := make([]Solution, 5)
	for i := range problems {
		id := string(rune('a' + i))
		problems[i] = Problem{ID: id, Slot: i}
		solutions[i] = Solution{ID: "s" + id, Slot: i, ProblemID: id}
	}
	ops := buildOps(t, Snapshot{Problems: problems, Solutions: solutions, OfferCount: 0}, 1)

	th := DefaultTheme()
	hub := opsOfKind(opsWithTag(ops, tagHub), opDisc)
	if len(hub) != 1 || hub[0].color != th.HubEmpty {
		t.Errorf("hub fill = %+v, want empty-state color despite full rings", hub)
	}
	if numeral, ok := findText(opsWithTag(ops, tagHub), "0"); !ok || numeral.text != "0" {
		t.Error("center numeral should read 0")
	}
	if conns := opsWithTag(ops, tagConnection); len(conns) != 10 {
		t.Errorf("connections = %d, want 10 (five pairs)", len(conns))
	}
	// No helper caption: the wheel is populated.
	if _, ok := findText(ops, th.HelperCaption); ok {
		t.Error("helper caption should not appear with populated rings")
	}
}

// --- primary indicator ---

func TestPipelinePrimaryIndicator(t *testing.T) {
	ops := buildOps(t, Snapshot{
		Problems: []Problem{
			{ID: "p1", Slot: 0},
			{ID: "p2", Slot: 2, Primary: true},
		},
	}, 1)
	rings := opsOfKind(opsWithTag(ops, tagNode), opRing)
	if len(rings) != 1 {
		t.Fatalf("primary rings = %d, want 1", len(rings))
	}
	th := DefaultTheme()
	if rings[0].color != th.PrimaryRing {
		t.Errorf("primary ring color = %+v", rings[0].color)
	}
	// The indicator sits on the primary problem's node point.
	w := th.wheel(700)
	segs := SegmentsFor(5, TopAngle)
	assertPointNear(t, "primary ring center", rings[0].center, w.OuterNode(segs[2]))
	if rings[0].rOuter <= th.nodeRadius(700) {
		t.Error("primary ring should be offset outside the node circle")
	}
}

func TestPipelineCollisionLastWins(t *testing.T) {
	// Two problems on the same resolved slot: both emit node markers, the
	// later one last so it overdraws.
	ops := buildOps(t, Snapshot{
		Problems: []Problem{
			{ID: "p1", Slot: 1},
			{ID: "p2", Slot: 6},
		},
	}, 1)
	discs := opsOfKind(opsWithTag(ops, tagNode), opDisc)
	if len(discs) != 2 {
		t.Fatalf("node discs = %d, want 2", len(discs))
	}
	assertPointNear(t, "shared node point", discs[0].center, discs[1].center)
}

// --- loading and error frames ---

func TestPipelineLoadingFrame(t *testing.T) {
	p := newPipeline(DefaultTheme(), nil)
	ops := p.build(frame{size: 700, mode: modeLoading})
	if len(opsWithTag(ops, tagStatus)) == 0 {
		t.Fatal("loading frame emitted no status ops")
	}
	if _, ok := findText(ops, "Loading"); !ok {
		t.Error("loading caption missing")
	}
	if len(opsWithTag(ops, tagOuterRing)) != 0 {
		t.Error("loading frame should not draw the wheel")
	}
}

func TestPipelineErrorFrame(t *testing.T) {
	p := newPipeline(DefaultTheme(), nil)
	ops := p.build(frame{size: 700, mode: modeError, errText: "journey feed: 502"})
	if _, ok := findText(ops, "Couldn't load"); !ok {
		t.Error("error headline missing")
	}
	if _, ok := findText(ops, "journey feed: 502"); !ok {
		t.Error("error detail missing")
	}
	// The ghost wheel stays visible behind the message.
	th := DefaultTheme()
	for _, o := range opsWithTag(ops, tagOuterRing) {
		if o.color != th.RingGhost {
			t.Errorf("error frame outer segment not ghost")
		}
	}
}

// --- buffers ---

func TestPipelineReusesOps(t *testing.T) {
	res := resolve(Snapshot{Problems: []Problem{{ID: "p1", Slot: 0}}})
	p := newPipeline(DefaultTheme(), nil)
	f := frame{size: 700, res: &res, eased: 1}
	p.build(f)

	allocs := testing.AllocsPerRun(50, func() {
		p.build(f)
	})
	// Steady-state rebuilds reuse the op list and scratch buffers. The only
	// churn is the two count labels formatted per frame.
	if allocs > 6 {
		t.Errorf("allocs per build = %v, want few", allocs)
	}
}

func TestPipelineCustomStrategy(t *testing.T) {
	res := resolve(Snapshot{
		Problems:  []Problem{{ID: "p1", Slot: 0}},
		Solutions: []Solution{{ID: "s1", Slot: 0, ProblemID: "p1"}},
	})
	p := newPipeline(DefaultTheme(), noRoutes{})
	ops := p.build(frame{size: 700, res: &res, eased: 1})
	if conns := opsWithTag(ops, tagConnection); len(conns) != 0 {
		t.Errorf("connections = %d, want 0 with the no-op strategy", len(conns))
	}
}

type noRoutes struct{}

func (noRoutes) Route(RouteInput, []Connection) []Connection { return nil }
