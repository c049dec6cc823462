package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/glowfork/halo"
)

func newViewCmd() *cobra.Command {
	var (
		flags sourceFlags
		size  float64
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window showing the journey wheel",
		Long:  "view opens a resizable window on the wheel. Keys: R refreshes from the source, E exports the frame as PNG, 1 to 4 load canned scenarios, Esc quits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), &flags, size, debug)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().Float64Var(&size, "size", halo.DefaultLogicalSize, "initial window side in logical pixels")
	cmd.Flags().BoolVar(&debug, "debug", false, "draw the frame stats line")
	return cmd
}

func runView(ctx context.Context, flags *sourceFlags, size float64, debug bool) error {
	logger := loggerFromContext(ctx)
	theme := themeFromContext(ctx)

	engine := halo.NewEngine()

	// Feed pushes and file reloads funnel through a debouncer so a chatty
	// origin does not restart the reveal every few milliseconds.
	pushes := newDebouncer(resizeQuiet)
	defer pushes.stop()
	src, feed, err := flags.resolve(logger, func(snap halo.Snapshot) {
		pushes.call(func() { engine.SetData(snap) })
	})
	if err != nil {
		return err
	}

	if err := engine.Attach(halo.DisplaySurface{}, halo.Options{
		LogicalSize: size,
		Theme:       theme,
		Logger:      logger,
		Source:      src,
		Debug:       debug,
	}); err != nil {
		return err
	}
	defer engine.Destroy()

	if feed != nil {
		if err := feed.Start(ctx); err != nil {
			return err
		}
		defer feed.Close()
	}
	engine.Refresh(ctx)

	side := int(math.Round(size))
	ebiten.SetWindowTitle("halo viewer")
	ebiten.SetWindowSize(side, side)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{
		ctx:      ctx,
		engine:   engine,
		logger:   logger,
		resize:   newDebouncer(resizeQuiet),
		keys:     make(map[ebiten.Key]bool),
		bg:       theme.Background,
		lastSide: wheelSide(side, side),
	}
	defer g.resize.stop()

	return ebiten.RunGame(g)
}

// scenarioKeys maps number keys to the canned journeys.
var scenarioKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
}

// game adapts the engine to the ebiten game loop and handles shortcuts.
type game struct {
	ctx      context.Context
	engine   *halo.Engine
	logger   *log.Logger
	resize   *debouncer
	keys     map[ebiten.Key]bool
	bg       halo.Color
	lastSide float64
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	g.engine.Update()

	if g.pressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.pressed(ebiten.KeyR) {
		g.engine.Refresh(g.ctx)
	}
	if g.pressed(ebiten.KeyE) {
		g.export()
	}
	for i, key := range scenarioKeys {
		if !g.pressed(key) {
			continue
		}
		if snap, ok := scenario(i + 1); ok {
			g.engine.SetData(snap)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	side := wheelSide(w, h)
	g.engine.Draw(screen, (float64(w)-side)/2, (float64(h)-side)/2)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if side := wheelSide(outsideWidth, outsideHeight); side != g.lastSide {
		g.lastSide = side
		g.resize.call(func() { g.engine.Resize(side) })
	}
	return outsideWidth, outsideHeight
}

// pressed reports a press edge for key, tracking state across updates.
func (g *game) pressed(key ebiten.Key) bool {
	down := ebiten.IsKeyPressed(key)
	was := g.keys[key]
	g.keys[key] = down
	return down && !was
}

// export writes the current frame into the working directory with a
// timestamped name. Failures are logged, not fatal; the window stays up.
func (g *game) export() {
	data, err := g.engine.ToImage(halo.FormatPNG)
	if err != nil {
		g.logger.Warn("export failed", "err", err)
		return
	}
	name := fmt.Sprintf("halo-%s.png", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		g.logger.Error("export write failed", "path", name, "err", err)
		return
	}
	g.logger.Info("exported frame", "path", name, "bytes", len(data))
}

// wheelSide is the engine buffer side for a window: the shorter window
// edge, capped at the engine's size ceiling.
func wheelSide(w, h int) float64 {
	side := math.Min(float64(w), float64(h))
	return math.Min(side, halo.DefaultMaxSize)
}
