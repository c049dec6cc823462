package halo

import "fmt"

// Problem is one outer-ring entry of a journey snapshot. Slot is the
// intended ring position in [0, 5); out-of-range values wrap at render time.
type Problem struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Slot    int    `json:"slot" yaml:"slot"`
	Primary bool   `json:"isPrimary" yaml:"isPrimary"`
}

// Solution is one middle-ring entry. ProblemID names the problem this
// solution serves; empty means not linked yet.
type Solution struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Slot      int    `json:"slot" yaml:"slot"`
	ProblemID string `json:"problemId" yaml:"problemId"`
}

// Snapshot is the complete input to one render: the journey's problems,
// solutions, and aggregate offer count. It is plain data; the engine never
// mutates it.
//
// PrimaryProblemID is a legacy field kept for older feeds. The per-node
// Primary flag is canonical; a disagreement between the two is reported as
// a data-quality issue and the flag wins.
type Snapshot struct {
	Problems         []Problem  `json:"problems" yaml:"problems"`
	Solutions        []Solution `json:"solutions" yaml:"solutions"`
	OfferCount       int        `json:"offerCount" yaml:"offerCount"`
	PrimaryProblemID string     `json:"primaryProblemId,omitempty" yaml:"primaryProblemId,omitempty"`
}

// Empty reports whether the snapshot has nothing to show: no problems, no
// solutions, and a zero offer count. An empty snapshot renders the
// placeholder wheel.
func (s Snapshot) Empty() bool {
	return len(s.Problems) == 0 && len(s.Solutions) == 0 && s.OfferCount <= 0
}

// IssueCode classifies a data-quality finding.
type IssueCode string

const (
	// IssueSlotWrapped: a slot outside the ring range was wrapped by modulo.
	IssueSlotWrapped IssueCode = "slot-wrapped"
	// IssueSlotCollision: two entries resolved to the same slot; the later
	// one overdraws the earlier.
	IssueSlotCollision IssueCode = "slot-collision"
	// IssuePrimaryConflict: more than one primary candidate; the first
	// flagged problem wins.
	IssuePrimaryConflict IssueCode = "primary-conflict"
	// IssuePrimaryUnknown: the snapshot-level primary id matches no problem.
	IssuePrimaryUnknown IssueCode = "primary-unknown"
	// IssueDanglingSolution: a solution references a nonexistent problem.
	// Its node still renders; it just gets no connection.
	IssueDanglingSolution IssueCode = "dangling-solution"
	// IssueOfferNegative: a negative offer count was clamped to zero.
	IssueOfferNegative IssueCode = "offer-negative"
	// IssueCapacityExceeded: more entries than ring slots.
	IssueCapacityExceeded IssueCode = "capacity-exceeded"
)

// Issue is one recovered data inconsistency. Issues never fail a render;
// they surface through the logger and the DataQuality hook.
type Issue struct {
	Code   IssueCode
	NodeID string
	Detail string
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Detail)
	}
	return fmt.Sprintf("%s %s: %s", i.Code, i.NodeID, i.Detail)
}

// resolvedNode is a ring entry after slot resolution.
type resolvedNode struct {
	id    string
	title string
	slot  int // wrapped into the ring's slot range
	raw   int // slot as provided
}

// resolved is a snapshot normalized for rendering. Building it never fails;
// everything questionable becomes an Issue.
type resolved struct {
	problems    []resolvedNode
	solutions   []resolvedNode
	outerSlots  int
	middleSlots int
	primary     int    // index into problems, -1 when none
	matched     []bool // per problem: has at least one linked solution
	solutionOf  []int  // per solution: index into problems, -1 when none
	offers      int
	issues      []Issue
}

// resolve normalizes a snapshot. The outer ring always exposes DefaultSlots
// segments; the middle ring grows its slot count when the input overflows.
func resolve(s Snapshot) resolved {
	r := resolved{
		outerSlots:  DefaultSlots,
		middleSlots: DefaultSlots,
		primary:     -1,
	}
	if n := len(s.Solutions); n > r.middleSlots {
		r.middleSlots = n
	}
	if n := len(s.Problems); n > r.middleSlots {
		r.middleSlots = n
	}
	if len(s.Problems) > DefaultSlots {
		r.issues = append(r.issues, Issue{
			Code:   IssueCapacityExceeded,
			Detail: fmt.Sprintf("%d problems on a %d-slot ring", len(s.Problems), DefaultSlots),
		})
	}
	if len(s.Solutions) > DefaultSlots {
		r.issues = append(r.issues, Issue{
			Code:   IssueCapacityExceeded,
			Detail: fmt.Sprintf("%d solutions on a %d-slot ring", len(s.Solutions), DefaultSlots),
		})
	}

	r.problems = resolveRing(s.Problems, r.outerSlots, &r.issues, func(p Problem) (string, string, int) {
		return p.ID, p.Title, p.Slot
	})
	r.solutions = resolveRing(s.Solutions, r.middleSlots, &r.issues, func(sol Solution) (string, string, int) {
		return sol.ID, sol.Title, sol.Slot
	})

	// Primary election. The per-node flag is canonical and the first flagged
	// problem wins; the snapshot-level id only breaks a total absence of
	// flags.
	for i, p := range s.Problems {
		if !p.Primary {
			continue
		}
		if r.primary < 0 {
			r.primary = i
			continue
		}
		r.issues = append(r.issues, Issue{
			Code:   IssuePrimaryConflict,
			NodeID: p.ID,
			Detail: fmt.Sprintf("also flagged primary; %s won", s.Problems[r.primary].ID),
		})
	}
	if s.PrimaryProblemID != "" {
		at := -1
		for i, p := range s.Problems {
			if p.ID == s.PrimaryProblemID {
				at = i
				break
			}
		}
		switch {
		case at < 0:
			r.issues = append(r.issues, Issue{
				Code:   IssuePrimaryUnknown,
				NodeID: s.PrimaryProblemID,
				Detail: "primaryProblemId matches no problem",
			})
		case r.primary < 0:
			r.primary = at
		case r.primary != at:
			r.issues = append(r.issues, Issue{
				Code:   IssuePrimaryConflict,
				NodeID: s.PrimaryProblemID,
				Detail: fmt.Sprintf("primaryProblemId disagrees with flag on %s", s.Problems[r.primary].ID),
			})
		}
	}

	// Link solutions to problems by id. Duplicate problem ids resolve to the
	// first occurrence.
	index := make(map[string]int, len(s.Problems))
	for i, p := range s.Problems {
		if _, ok := index[p.ID]; !ok {
			index[p.ID] = i
		}
	}
	r.matched = make([]bool, len(s.Problems))
	r.solutionOf = make([]int, len(s.Solutions))
	for i, sol := range s.Solutions {
		r.solutionOf[i] = -1
		if sol.ProblemID == "" {
			continue
		}
		at, ok := index[sol.ProblemID]
		if !ok {
			r.issues = append(r.issues, Issue{
				Code:   IssueDanglingSolution,
				NodeID: sol.ID,
				Detail: fmt.Sprintf("references unknown problem %s", sol.ProblemID),
			})
			continue
		}
		r.solutionOf[i] = at
		r.matched[at] = true
	}

	r.offers = s.OfferCount
	if r.offers < 0 {
		r.issues = append(r.issues, Issue{
			Code:   IssueOfferNegative,
			Detail: fmt.Sprintf("offer count %d clamped to 0", s.OfferCount),
		})
		r.offers = 0
	}
	return r
}

// resolveRing wraps every entry's slot into the ring range and records wrap
// and collision issues. Collisions keep all entries; painters draw in input
// order so the last one wins visually.
func resolveRing[T any](entries []T, slots int, issues *[]Issue, fields func(T) (id, title string, slot int)) []resolvedNode {
	if len(entries) == 0 {
		return nil
	}
	nodes := make([]resolvedNode, len(entries))
	taken := make(map[int]string, len(entries))
	for i, e := range entries {
		id, title, raw := fields(e)
		slot := WrapSlot(raw, slots)
		if slot != raw {
			*issues = append(*issues, Issue{
				Code:   IssueSlotWrapped,
				NodeID: id,
				Detail: fmt.Sprintf("slot %d wrapped to %d", raw, slot),
			})
		}
		if prev, ok := taken[slot]; ok {
			*issues = append(*issues, Issue{
				Code:   IssueSlotCollision,
				NodeID: id,
				Detail: fmt.Sprintf("slot %d already held by %s", slot, prev),
			})
		}
		taken[slot] = id
		nodes[i] = resolvedNode{id: id, title: title, slot: slot, raw: raw}
	}
	return nodes
}
