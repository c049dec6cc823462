package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/glowfork/halo"
)

// Reconnect backoff bounds for the live feed.
const (
	initialBackoff = time.Second
	maxBackoff     = 60 * time.Second
)

// Live maintains a websocket subscription to a snapshot feed. The feed
// pushes complete snapshots as JSON text messages; Live keeps the newest
// one and serves it from Fetch, so wiring Live into an engine and calling
// Refresh on every push keeps the wheel current. The connection reconnects
// with exponential backoff until Close.
type Live struct {
	url    string
	logger *log.Logger
	onPush func(halo.Snapshot)

	mu        sync.Mutex
	latest    halo.Snapshot
	cancel    context.CancelFunc
	done      chan struct{}
	first     chan struct{}
	firstOnce sync.Once
}

// LiveOptions configure a Live source. Zero values select the defaults.
type LiveOptions struct {
	Logger *log.Logger         // default discards
	OnPush func(halo.Snapshot) // called after each received snapshot
}

// NewLive returns a live source for the given websocket URL. Call Start to
// open the subscription.
func NewLive(url string, opts LiveOptions) *Live {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Live{
		url:    url,
		logger: opts.Logger,
		onPush: opts.OnPush,
		first:  make(chan struct{}),
	}
}

// Start opens the subscription and returns immediately. The read loop runs
// until Close or ctx cancellation. Dial failures are retried, but a URL
// that can never dial is reported here. Starting twice is a no-op.
func (l *Live) Start(ctx context.Context) error {
	u, err := url.Parse(l.url)
	if err != nil {
		return fmt.Errorf("feed url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("feed url %q: scheme must be ws or wss", l.url)
	}

	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.done != nil {
		l.mu.Unlock()
		cancel()
		return nil
	}
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		l.run(ctx)
	}()
	return nil
}

// Fetch implements halo.Source. It returns the newest pushed snapshot,
// waiting for the first one when none has arrived yet.
func (l *Live) Fetch(ctx context.Context) (halo.Snapshot, error) {
	select {
	case <-l.first:
	case <-ctx.Done():
		return halo.Snapshot{}, ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest, nil
}

// Close tears the subscription down and waits for the read loop to exit.
// Idempotent.
func (l *Live) Close() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (l *Live) run(ctx context.Context) {
	backoff := initialBackoff
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("feed dial failed", "url", l.url, "retry_in", backoff, "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff
		l.logger.Info("feed connected", "url", l.url)

		l.read(ctx, conn)
		if ctx.Err() != nil {
			return
		}
	}
}

// read consumes messages until the connection drops or ctx ends.
func (l *Live) read(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	// ReadMessage has no context form; closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Warn("feed read failed, reconnecting", "err", err)
			}
			return
		}
		var snap halo.Snapshot
		if err := json.Unmarshal(message, &snap); err != nil {
			l.logger.Warn("feed message ignored", "err", err)
			continue
		}
		l.store(snap)
	}
}

func (l *Live) store(snap halo.Snapshot) {
	l.mu.Lock()
	l.latest = snap
	l.mu.Unlock()
	l.firstOnce.Do(func() { close(l.first) })
	if l.onPush != nil {
		l.onPush(snap)
	}
}
