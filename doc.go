// Package halo renders animated journey wheels with [Ebitengine].
//
// A journey wheel is a radial diagram of a customer journey: up to five
// problems on the outer ring, up to five solutions on the middle ring, and
// the number of active offers in the hub. Connection lines tie each solved
// problem to its solution; unsolved problems fall away as faint spokes.
// Applying data plays a reveal animation that grows the rings outward and
// fades the labels in.
//
// # Quick start
//
// Create an [Engine], attach it to a surface, and feed it snapshots:
//
//	engine := halo.NewEngine()
//	err := engine.Attach(halo.DisplaySurface{}, halo.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.SetData(halo.Snapshot{
//		Problems:   []halo.Problem{{ID: "p1", Title: "Onboarding", Slot: 0}},
//		OfferCount: 2,
//	})
//
// Inside an [ebiten.Game], pump and compose the engine every tick:
//
//	func (g *Game) Update() error         { g.engine.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)  { g.engine.Draw(s, 0, 0) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Data lifecycle
//
// The engine is a small state machine: uninitialized until the first
// snapshot, loading while a [Source] fetch is in flight, then ready or
// error. [Engine.SetData] applies a snapshot directly; [Engine.Refresh]
// pulls one from the configured source, and rapid refreshes settle on the
// latest result. Malformed data never fails a render: out-of-range slots
// wrap, colliding slots keep the last entry, and every recovered
// inconsistency surfaces through the data-quality listener.
//
// # Headless rendering
//
// The engine never needs the host's window or loop. Pass a [FixedSurface]
// and a [ClockScheduler] and the reveal settles on wall-clock timers:
//
//	engine.Attach(halo.FixedSurface(2), halo.Options{
//		Scheduler: halo.NewClockScheduler(0),
//	})
//	engine.SetData(snap)
//	// ... wait for AnimationFinished ...
//	png, err := engine.ToImage(halo.FormatPNG)
//
// Reading pixels back does need ebiten's graphics context, so call
// [Engine.ToImage] from inside a running game. The halo CLI's export
// command shows the pattern: a one-shot game that idles until the reveal
// settles, writes the file, and terminates.
//
// # Customization
//
// Colors, ring metrics, and label sizes live in [Theme]; load one from TOML
// with [LoadTheme]. Connection routing is pluggable through
// [RouteStrategy], the animation clock through [Scheduler], and lifecycle
// observation through the typed On* listener methods on [Engine].
//
// [Ebitengine]: https://ebitengine.org
package halo
