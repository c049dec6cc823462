package halo

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font renders diagram labels through Ebitengine's text/v2. A single Font
// serves every label size; faces are derived per size and cached, so the
// glyph atlas is shared across the ring labels, the hub numeral, and the
// helper caption.
type Font struct {
	source *text.GoTextFaceSource

	mu    sync.Mutex
	faces map[float64]*text.GoTextFace
}

// LoadFont parses raw TTF/OTF data into a Font.
func LoadFont(data []byte) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("halo: failed to parse font data: %w", err)
	}
	return &Font{source: source, faces: make(map[float64]*text.GoTextFace)}, nil
}

var (
	defaultFontOnce sync.Once
	defaultFont     *Font
	defaultFontErr  error
)

// DefaultFont returns the built-in face (Go Regular), parsed once per
// process.
func DefaultFont() (*Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = LoadFont(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// face returns the cached GoTextFace for the given pixel size.
func (f *Font) face(size float64) *text.GoTextFace {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{
		Source: f.source,
		Size:   size,
	}
	f.faces[size] = face
	return face
}

// lineHeight returns the vertical distance between baselines at the given
// size.
func (f *Font) lineHeight(size float64) float64 {
	m := f.face(size).Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// MeasureString returns the width and height of the rendered text at the
// given pixel size.
func (f *Font) MeasureString(s string, size float64) (width, height float64) {
	return text.Measure(s, f.face(size), f.lineHeight(size))
}
