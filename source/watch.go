package source

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/glowfork/halo"
)

// watchQuiet is how long the file must stay unchanged before a reload.
const watchQuiet = 100 * time.Millisecond

// Watch reads snapshots from a file like File and additionally reloads it
// whenever it changes on disk, delivering each parsed result through
// OnChange. Wiring OnChange to Engine.SetData turns a snapshot file into a
// live-editable wheel.
type Watch struct {
	file     File
	logger   *log.Logger
	onChange func(halo.Snapshot)
	quiet    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// WatchOptions configure a Watch source. Zero values select the defaults.
type WatchOptions struct {
	Logger   *log.Logger         // default discards
	OnChange func(halo.Snapshot) // called after each successful reload
	Quiet    time.Duration       // settle window between change and reload
}

// NewWatch returns a watch source for the given snapshot file. Call Start
// to begin watching; Fetch works either way.
func NewWatch(path string, opts WatchOptions) *Watch {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Quiet <= 0 {
		opts.Quiet = watchQuiet
	}
	return &Watch{
		file:     File{Path: path},
		logger:   opts.Logger,
		onChange: opts.OnChange,
		quiet:    opts.Quiet,
	}
}

// Fetch implements halo.Source by reading the file as it is right now.
func (w *Watch) Fetch(ctx context.Context) (halo.Snapshot, error) {
	return w.file.Fetch(ctx)
}

// Start begins watching and returns immediately. Editors commonly replace
// files by rename, which silently ends a watch on the file itself, so the
// parent directory is watched and events are filtered to the target path.
// Starting twice is a no-op.
func (w *Watch) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch snapshot: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.file.Path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch snapshot: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	if w.done != nil {
		w.mu.Unlock()
		cancel()
		fw.Close()
		return nil
	}
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		w.run(ctx, fw)
	}()
	return nil
}

// Close stops watching and waits for the event loop to exit. Idempotent.
func (w *Watch) Close() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (w *Watch) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()

	target := filepath.Clean(w.file.Path)
	reload := time.NewTimer(w.quiet)
	if !reload.Stop() {
		<-reload.C
	}
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Create | fsnotify.Write | fsnotify.Rename) {
				continue
			}
			reload.Reset(w.quiet)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("snapshot watch error", "path", target, "err", err)
		case <-reload.C:
			w.reload(ctx)
		}
	}
}

// reload re-reads the file after a quiet period. A half-written or
// malformed file is skipped; the next change tries again.
func (w *Watch) reload(ctx context.Context) {
	snap, err := w.file.Fetch(ctx)
	if err != nil {
		w.logger.Warn("snapshot reload skipped", "path", w.file.Path, "err", err)
		return
	}
	w.logger.Info("snapshot reloaded", "path", w.file.Path)
	if w.onChange != nil {
		w.onChange(snap)
	}
}
