package halo

// Connection is one routed line of the diagram, in logical coordinates.
// A matched solution yields two connections at its problem's angle (outer
// ring to middle ring, middle ring to hub); an unmatched problem yields a
// single faint connection from the outer ring to the hub.
type Connection struct {
	ProblemID  string
	SolutionID string // empty for an unmatched-problem connection
	Faint      bool
	From, To   Point
}

// RoutePoint is one ring entry as seen by a route strategy: its resolved
// slot plus its linkage.
type RoutePoint struct {
	ID      string
	Slot    int
	Matched bool // problems: at least one solution links here
	Problem int  // solutions: index into Problems, -1 when dangling or unlinked
}

// RouteInput is everything a strategy needs to route connections: the
// current wheel geometry, both ring segmentations, and the resolved entries.
// The wheel reflects the animation state, so routed endpoints track the
// growing rings during a reveal.
type RouteInput struct {
	Wheel     Wheel
	Outer     []Segment
	Middle    []Segment
	Problems  []RoutePoint
	Solutions []RoutePoint
}

// RouteStrategy turns resolved ring entries into connection lines. The
// engine takes its strategy at construction, so hosts can swap the routing
// style without touching the pipeline. Route appends to dst and returns it,
// letting callers reuse the backing array across frames.
type RouteStrategy interface {
	Route(in RouteInput, dst []Connection) []Connection
}

// RadialRoutes is the stock strategy: straight radial lines at each
// problem's resolved angle. Matched solutions connect in two hops, outer
// ring inner edge to middle ring outer edge, then middle ring inner edge to
// the hub. Problems with no solution get a single faint line all the way
// from the outer ring to the hub. Dangling solutions route nothing.
type RadialRoutes struct{}

// Route implements RouteStrategy.
func (RadialRoutes) Route(in RouteInput, dst []Connection) []Connection {
	w := in.Wheel
	for _, sol := range in.Solutions {
		if sol.Problem < 0 {
			continue
		}
		p := in.Problems[sol.Problem]
		if p.Slot < 0 || p.Slot >= len(in.Outer) {
			continue
		}
		angle := in.Outer[p.Slot].Mid()
		dst = append(dst,
			Connection{
				ProblemID:  p.ID,
				SolutionID: sol.ID,
				From:       w.At(w.OuterInnerEdge(), angle),
				To:         w.At(w.MiddleRadius, angle),
			},
			Connection{
				ProblemID:  p.ID,
				SolutionID: sol.ID,
				From:       w.At(w.MiddleInnerEdge(), angle),
				To:         w.At(w.HubRadius, angle),
			},
		)
	}
	for _, p := range in.Problems {
		if p.Matched {
			continue
		}
		if p.Slot < 0 || p.Slot >= len(in.Outer) {
			continue
		}
		angle := in.Outer[p.Slot].Mid()
		dst = append(dst, Connection{
			ProblemID: p.ID,
			Faint:     true,
			From:      w.At(w.OuterInnerEdge(), angle),
			To:        w.At(w.HubRadius, angle),
		})
	}
	return dst
}
