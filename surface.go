package halo

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface describes the host drawing environment the engine binds to. The
// engine owns its buffer; the surface only has to report how dense the
// host's pixels are so logical coordinates stay crisp on high-DPI displays.
type Surface interface {
	// DeviceScaleFactor is the ratio of physical to logical pixels.
	DeviceScaleFactor() float64
}

// DisplaySurface reports the density of the active monitor. This is the
// surface a windowed host passes to Attach.
type DisplaySurface struct{}

// DeviceScaleFactor implements Surface.
func (DisplaySurface) DeviceScaleFactor() float64 {
	return ebiten.Monitor().DeviceScaleFactor()
}

// FixedSurface is a Surface with a constant scale factor, for headless
// rendering and tests.
type FixedSurface float64

// DeviceScaleFactor implements Surface.
func (s FixedSurface) DeviceScaleFactor() float64 { return float64(s) }

// canvas is the engine's owned offscreen buffer. The buffer is allocated in
// physical pixels (logical size times the device scale) and persists across
// frames; painting happens in logical coordinates and the rasterizer
// multiplies by scale on the way in.
type canvas struct {
	image   *ebiten.Image
	logical float64
	max     float64
	scale   float64
}

// newCanvas binds to a surface and allocates the buffer. It fails with
// ErrSurfaceUnavailable when the surface is nil, reports a non-positive
// scale, or the logical size is non-positive.
func newCanvas(s Surface, logical, max float64) (*canvas, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrSurfaceUnavailable)
	}
	scale := s.DeviceScaleFactor()
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: device scale %v", ErrSurfaceUnavailable, scale)
	}
	if logical <= 0 {
		return nil, fmt.Errorf("%w: logical size %v", ErrSurfaceUnavailable, logical)
	}
	c := &canvas{max: max, scale: scale}
	c.allocate(logical)
	return c, nil
}

// allocate sizes the square buffer for the given logical side, clamped to
// the canvas maximum.
func (c *canvas) allocate(logical float64) {
	if c.max > 0 && logical > c.max {
		logical = c.max
	}
	c.logical = logical
	px := int(math.Round(logical * c.scale))
	if px < 1 {
		px = 1
	}
	if c.image != nil {
		c.image.Deallocate()
	}
	c.image = ebiten.NewImage(px, px)
}

// resize reallocates the buffer for a new logical width. The buffer stays
// square: min(logical, max) a side. Contents are lost; the caller repaints.
func (c *canvas) resize(logical float64) {
	if logical <= 0 {
		return
	}
	c.allocate(logical)
}

// compose draws the buffer onto dst with its top-left corner at the logical
// position (x, y), scaling back down so one buffer pixel covers one
// physical pixel regardless of density.
func (c *canvas) compose(dst *ebiten.Image, x, y float64) {
	if c.image == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(1/c.scale, 1/c.scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(c.image, &op)
}

// pixelSize returns the buffer side in physical pixels.
func (c *canvas) pixelSize() int {
	if c.image == nil {
		return 0
	}
	return c.image.Bounds().Dx()
}

// dispose deallocates the buffer. The canvas is unusable afterward.
func (c *canvas) dispose() {
	if c.image != nil {
		c.image.Deallocate()
		c.image = nil
	}
}
