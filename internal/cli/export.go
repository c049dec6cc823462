package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/glowfork/halo"
)

// defaultSettle bounds how long export waits for the reveal to finish.
const defaultSettle = 10 * time.Second

func newExportCmd() *cobra.Command {
	var (
		flags   sourceFlags
		out     string
		format  string
		size    float64
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the wheel to an image file",
		Long:  "export loads one snapshot, renders it at full reveal, and writes the frame to --out. The window never takes focus; it exists only because the GPU does.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pickFormat(format, out)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), &flags, out, f, size, timeout)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVarP(&out, "out", "o", "halo.png", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "image format: png or jpeg (default from --out extension)")
	cmd.Flags().Float64Var(&size, "size", halo.DefaultLogicalSize, "rendered side in pixels")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultSettle, "maximum wait for the reveal to settle")
	return cmd
}

// pickFormat resolves the image format from the flag or the output
// extension.
func pickFormat(flag, out string) (halo.ImageFormat, error) {
	s := flag
	if s == "" {
		s = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	switch strings.ToLower(s) {
	case "png":
		return halo.FormatPNG, nil
	case "jpg", "jpeg":
		return halo.FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (use png or jpeg)", s)
}

func runExport(ctx context.Context, flags *sourceFlags, out string, format halo.ImageFormat, size float64, timeout time.Duration) error {
	logger := loggerFromContext(ctx)
	theme := themeFromContext(ctx)

	src, _, err := flags.resolve(logger, nil)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	snap, err := src.Fetch(fetchCtx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	engine := halo.NewEngine()
	if err := engine.Attach(halo.FixedSurface(1), halo.Options{
		LogicalSize: size,
		MaxSize:     size,
		Theme:       theme,
		Logger:      logger,
		Scheduler:   halo.NewClockScheduler(0),
	}); err != nil {
		return err
	}
	defer engine.Destroy()

	settled := make(chan struct{})
	handle := engine.OnAnimation(func(ev halo.AnimationEvent) {
		if ev.Phase == halo.AnimationFinished {
			close(settled)
		}
	})
	defer handle.Remove()

	engine.SetData(snap)

	// Reading pixels back needs a live graphics context, which ebiten only
	// provides inside a running game. The game below idles in a bare 1x1
	// window until the reveal settles, then writes the file and quits.
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowSize(1, 1)
	g := &exportGame{
		ctx:      ctx,
		engine:   engine,
		logger:   logger,
		settled:  settled,
		deadline: time.Now().Add(timeout),
		timeout:  timeout,
		out:      out,
		format:   format,
	}
	if err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		InitUnfocused: true,
		SkipTaskbar:   true,
	}); err != nil {
		return err
	}
	return g.err
}

// exportGame is the one-shot game loop behind the export command.
type exportGame struct {
	ctx      context.Context
	engine   *halo.Engine
	logger   *log.Logger
	settled  <-chan struct{}
	deadline time.Time
	timeout  time.Duration
	out      string
	format   halo.ImageFormat
	err      error
}

func (g *exportGame) Update() error {
	g.engine.Update()

	select {
	case <-g.ctx.Done():
		g.err = g.ctx.Err()
		return ebiten.Termination
	case <-g.settled:
		g.err = g.finish()
		return ebiten.Termination
	default:
	}
	if time.Now().After(g.deadline) {
		g.err = fmt.Errorf("render did not settle within %s", g.timeout)
		return ebiten.Termination
	}
	return nil
}

func (g *exportGame) Draw(*ebiten.Image) {}

func (g *exportGame) Layout(_, _ int) (int, int) { return 1, 1 }

func (g *exportGame) finish() error {
	data, err := g.engine.ToImage(g.format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(g.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", g.out, err)
	}
	g.logger.Info("exported", "path", g.out, "bytes", len(data), "format", g.format)
	return nil
}
