// Package source provides snapshot origins for the halo engine: fixed
// values, local files, HTTP endpoints, live websocket feeds, and seeded
// demo data. Every type implements [halo.Source].
package source

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/glowfork/halo"
)

// Static serves the same snapshot on every fetch.
type Static struct {
	Snapshot halo.Snapshot
}

// Fetch implements halo.Source.
func (s Static) Fetch(context.Context) (halo.Snapshot, error) {
	return s.Snapshot, nil
}

// Func adapts a function to halo.Source.
type Func func(ctx context.Context) (halo.Snapshot, error)

// Fetch implements halo.Source.
func (f Func) Fetch(ctx context.Context) (halo.Snapshot, error) {
	return f(ctx)
}

var demoProblems = []string{
	"Slow onboarding",
	"Churn risk",
	"Support backlog",
	"Billing confusion",
	"Feature discovery",
}

var demoSolutions = []string{
	"Guided setup",
	"Win-back campaign",
	"Help center revamp",
	"Pricing simplifier",
	"In-app tours",
}

// Generator produces seeded demo journeys. The sequence is deterministic
// per seed, and successive fetches vary the journey so refreshes visibly
// change the wheel.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a demo source for the given seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

// Fetch implements halo.Source.
func (g *Generator) Fetch(context.Context) (halo.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	nProblems := 1 + g.rng.IntN(len(demoProblems))
	slots := g.rng.Perm(len(demoProblems))

	var snap halo.Snapshot
	for i := 0; i < nProblems; i++ {
		snap.Problems = append(snap.Problems, halo.Problem{
			ID:      demoID('p', i),
			Title:   demoProblems[i],
			Slot:    slots[i],
			Primary: i == 0,
		})
	}

	// Solve a random subset of the problems, one solution each.
	for i := 0; i < nProblems; i++ {
		if g.rng.IntN(3) == 0 {
			continue
		}
		snap.Solutions = append(snap.Solutions, halo.Solution{
			ID:        demoID('s', i),
			Title:     demoSolutions[i],
			Slot:      slots[i],
			ProblemID: demoID('p', i),
		})
	}

	snap.OfferCount = g.rng.IntN(6)
	return snap, nil
}

func demoID(prefix byte, i int) string {
	return string(prefix) + string(rune('1'+i))
}
