package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/glowfork/halo"
	"github.com/glowfork/halo/source"
)

// withTheme returns a new context carrying the resolved theme.
func withTheme(ctx context.Context, t *halo.Theme) context.Context {
	return context.WithValue(ctx, themeKey, t)
}

// themeFromContext retrieves the theme, falling back to the default.
func themeFromContext(ctx context.Context) *halo.Theme {
	if t, ok := ctx.Value(themeKey).(*halo.Theme); ok {
		return t
	}
	return halo.DefaultTheme()
}

// sourceFlags are the snapshot origin flags shared by view and export.
type sourceFlags struct {
	file  string
	url   string
	feed  string
	watch bool
	demo  bool
	seed  uint64
}

// snapshotFeed is a source with a background delivery loop.
type snapshotFeed interface {
	Start(context.Context) error
	Close()
}

// register adds the origin flags to cmd. withFeed controls whether the
// push-style flags are offered; export renders a single settled frame, so
// a feed has nothing to push to there.
func (f *sourceFlags) register(cmd *cobra.Command, withFeed bool) {
	cmd.Flags().StringVar(&f.file, "file", "", "snapshot file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&f.url, "url", "", "snapshot HTTP endpoint")
	if withFeed {
		cmd.Flags().StringVar(&f.feed, "live", "", "websocket snapshot feed URL")
		cmd.Flags().BoolVar(&f.watch, "watch", false, "reload --file when it changes on disk")
	}
	cmd.Flags().BoolVar(&f.demo, "demo", false, "use seeded demo journeys")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "demo generator seed")
}

// resolve picks the snapshot source. Exactly one origin may be set; with
// none, the demo generator serves. The returned feed, when non-nil, still
// needs Start and Close; its updates arrive through onUpdate.
func (f *sourceFlags) resolve(logger *log.Logger, onUpdate func(halo.Snapshot)) (halo.Source, snapshotFeed, error) {
	set := 0
	for _, on := range []bool{f.file != "", f.url != "", f.feed != "", f.demo} {
		if on {
			set++
		}
	}
	if set > 1 {
		return nil, nil, errors.New("pick one of --file, --url, --live, --demo")
	}
	if f.watch && f.file == "" {
		return nil, nil, errors.New("--watch needs --file")
	}

	switch {
	case f.file != "" && f.watch:
		w := source.NewWatch(f.file, source.WatchOptions{Logger: logger, OnChange: onUpdate})
		return w, w, nil
	case f.file != "":
		return source.File{Path: f.file}, nil, nil
	case f.url != "":
		return source.NewHTTP(f.url), nil, nil
	case f.feed != "":
		live := source.NewLive(f.feed, source.LiveOptions{Logger: logger, OnPush: onUpdate})
		return live, live, nil
	default:
		return source.NewGenerator(f.seed), nil, nil
	}
}
