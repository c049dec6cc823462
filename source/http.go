package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glowfork/halo"
)

// DefaultHTTPTimeout bounds one snapshot request.
const DefaultHTTPTimeout = 10 * time.Second

// HTTP pulls snapshots from a JSON endpoint. Each request carries a fresh
// X-Request-Id header so feed logs can be correlated with engine
// refreshes.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns a source that GETs the given URL.
func NewHTTP(url string) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// WithTimeout sets a custom timeout for snapshot requests.
func (h *HTTP) WithTimeout(timeout time.Duration) *HTTP {
	h.client.Timeout = timeout
	return h
}

// Fetch implements halo.Source.
func (h *HTTP) Fetch(ctx context.Context) (halo.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return halo.Snapshot{}, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := h.client.Do(req)
	if err != nil {
		return halo.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return halo.Snapshot{}, fmt.Errorf("fetch snapshot: %s returned %s", h.url, resp.Status)
	}

	var snap halo.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return halo.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
