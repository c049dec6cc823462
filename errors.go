package halo

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrSurfaceUnavailable reports that the host surface cannot back a
	// drawing buffer. Attach returns it synchronously; the engine is not
	// bound afterward.
	ErrSurfaceUnavailable = errors.New("halo: surface unavailable")

	// ErrNotReady reports an operation that requires an applied snapshot,
	// such as exporting before the first SetData.
	ErrNotReady = errors.New("halo: engine not ready")

	// ErrUnknownFormat reports an unsupported image export format.
	ErrUnknownFormat = errors.New("halo: unknown image format")
)

// FetchError wraps a failure from the configured snapshot source. It is
// captured into StateError and surfaced through the state change hook; it
// never escapes Refresh as a return value.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("halo: fetch: %v", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ExportError wraps any failure from ToImage: wrong state, unknown format,
// or an encoder error.
type ExportError struct {
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("halo: export: %v", e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
