package cli

import "github.com/glowfork/halo"

// Canned journeys behind the viewer's number keys. Each exercises a
// distinct wheel state: a full problem ring, a partly solved journey, the
// empty placeholder, and occupied rings with nothing on offer.
var scenarios = []halo.Snapshot{
	{
		Problems: []halo.Problem{
			{ID: "p1", Title: "Slow onboarding", Slot: 0, Primary: true},
			{ID: "p2", Title: "Churn risk", Slot: 2},
			{ID: "p3", Title: "Support backlog", Slot: 4},
			{ID: "p4", Title: "Billing confusion", Slot: 1},
			{ID: "p5", Title: "Feature discovery", Slot: 3},
		},
		OfferCount: 2,
	},
	{
		Problems: []halo.Problem{
			{ID: "p1", Title: "Slow onboarding", Slot: 0, Primary: true},
			{ID: "p2", Title: "Churn risk", Slot: 2},
			{ID: "p3", Title: "Support backlog", Slot: 4},
		},
		Solutions: []halo.Solution{
			{ID: "s1", Title: "Guided setup", Slot: 0, ProblemID: "p1"},
			{ID: "s2", Title: "Win-back campaign", Slot: 2, ProblemID: "p2"},
		},
		OfferCount: 3,
	},
	{},
	{
		Problems: []halo.Problem{
			{ID: "p1", Title: "Slow onboarding", Slot: 0, Primary: true},
			{ID: "p2", Title: "Churn risk", Slot: 1},
			{ID: "p3", Title: "Support backlog", Slot: 2},
			{ID: "p4", Title: "Billing confusion", Slot: 3},
			{ID: "p5", Title: "Feature discovery", Slot: 4},
		},
		Solutions: []halo.Solution{
			{ID: "s1", Title: "Guided setup", Slot: 0, ProblemID: "p1"},
			{ID: "s2", Title: "Win-back campaign", Slot: 1, ProblemID: "p2"},
			{ID: "s3", Title: "Help center revamp", Slot: 2, ProblemID: "p3"},
			{ID: "s4", Title: "Pricing simplifier", Slot: 3, ProblemID: "p4"},
			{ID: "s5", Title: "In-app tours", Slot: 4, ProblemID: "p5"},
		},
		OfferCount: 0,
	},
}

// scenario returns the fixture for a 1-based key number.
func scenario(n int) (halo.Snapshot, bool) {
	if n < 1 || n > len(scenarios) {
		return halo.Snapshot{}, false
	}
	return scenarios[n-1], true
}
