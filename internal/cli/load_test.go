package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/glowfork/halo"
	"github.com/glowfork/halo/source"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestResolveFile(t *testing.T) {
	flags := sourceFlags{file: "journey.json"}
	src, feed, err := flags.resolve(quietLogger(), nil)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if feed != nil {
		t.Fatal("file source came with a feed handle")
	}
	f, ok := src.(source.File)
	if !ok {
		t.Fatalf("source = %T, want source.File", src)
	}
	if f.Path != "journey.json" {
		t.Fatalf("path = %q, want journey.json", f.Path)
	}
}

func TestResolveURL(t *testing.T) {
	flags := sourceFlags{url: "http://example.test/journey"}
	src, feed, err := flags.resolve(quietLogger(), nil)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if feed != nil {
		t.Fatal("http source came with a feed handle")
	}
	if _, ok := src.(*source.HTTP); !ok {
		t.Fatalf("source = %T, want *source.HTTP", src)
	}
}

func TestResolveFeed(t *testing.T) {
	flags := sourceFlags{feed: "ws://example.test/feed"}
	src, feed, err := flags.resolve(quietLogger(), func(halo.Snapshot) {})
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	live, ok := feed.(*source.Live)
	if !ok {
		t.Fatalf("feed = %T, want *source.Live", feed)
	}
	if got, ok := src.(*source.Live); !ok || got != live {
		t.Fatalf("source = %T, want the same live handle", src)
	}
}

func TestResolveDefaultsToDemo(t *testing.T) {
	var flags sourceFlags
	src, feed, err := flags.resolve(quietLogger(), nil)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if feed != nil {
		t.Fatal("demo source came with a feed handle")
	}
	if _, ok := src.(*source.Generator); !ok {
		t.Fatalf("source = %T, want *source.Generator", src)
	}
}

func TestResolveWatch(t *testing.T) {
	flags := sourceFlags{file: "journey.json", watch: true}
	src, feed, err := flags.resolve(quietLogger(), func(halo.Snapshot) {})
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	watch, ok := feed.(*source.Watch)
	if !ok {
		t.Fatalf("feed = %T, want *source.Watch", feed)
	}
	if got, ok := src.(*source.Watch); !ok || got != watch {
		t.Fatalf("source = %T, want the same watch handle", src)
	}
}

func TestResolveRejectsConflicts(t *testing.T) {
	flags := sourceFlags{file: "a.json", demo: true}
	if _, _, err := flags.resolve(quietLogger(), nil); err == nil {
		t.Fatal("resolve accepted two origins")
	}
}

func TestResolveWatchNeedsFile(t *testing.T) {
	flags := sourceFlags{demo: true, watch: true}
	if _, _, err := flags.resolve(quietLogger(), nil); err == nil {
		t.Fatal("resolve accepted --watch without --file")
	}
}

func TestThemeContextRoundTrip(t *testing.T) {
	theme := halo.DefaultTheme()
	theme.HelperCaption = "custom"

	ctx := withTheme(context.Background(), theme)
	if got := themeFromContext(ctx); got != theme {
		t.Error("themeFromContext returned a different theme")
	}
}

func TestThemeFromContextDefault(t *testing.T) {
	theme := themeFromContext(context.Background())
	if theme == nil {
		t.Fatal("themeFromContext returned nil without a theme in context")
	}
	if theme.HelperCaption == "" {
		t.Error("fallback theme looks empty")
	}
}
