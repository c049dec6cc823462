package halo

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var whiteSubImage *ebiten.Image

// ensureWhiteSub returns the lazily-initialized white source image for
// untextured triangle fills. The 1x1 region sits inside a 3x3 image so
// anti-aliased sampling never reads past the texel.
func ensureWhiteSub() *ebiten.Image {
	if whiteSubImage == nil {
		whole := ebiten.NewImage(3, 3)
		whole.Fill(color.White)
		whiteSubImage = whole.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// rasterizer turns a display list into triangles on an Ebitengine image.
// Geometry arrives in logical coordinates and is multiplied by the buffer
// scale here. Vertex and index buffers are reused across ops and frames.
type rasterizer struct {
	font *Font

	verts []ebiten.Vertex
	inds  []uint16
	dash  [][2]Point
}

func newRasterizer(font *Font) *rasterizer {
	return &rasterizer{font: font}
}

// submit draws the ops onto dst in order.
func (r *rasterizer) submit(dst *ebiten.Image, ops []op, scale float64) {
	for i := range ops {
		o := &ops[i]
		switch o.kind {
		case opClear:
			dst.Clear()
		case opFill:
			dst.Fill(o.color)
		case opArcBand:
			r.arcBand(dst, o, scale)
		case opDisc:
			r.disc(dst, o, scale)
		case opRing:
			r.ring(dst, o, scale)
		case opLine:
			r.line(dst, o, scale)
		case opText:
			r.text(dst, o, scale)
		}
	}
}

// arcBand fills an annulus sector: outer edge swept clockwise, inner edge
// back counter-clockwise.
func (r *rasterizer) arcBand(dst *ebiten.Image, o *op, scale float64) {
	rOuter := float32(o.rOuter * scale)
	rInner := float32(o.rInner * scale)
	if rOuter <= 0 || o.a1 <= o.a0 || o.color.A <= 0 {
		return
	}
	if rInner < 0 {
		rInner = 0
	}
	cx := float32(o.center.X * scale)
	cy := float32(o.center.Y * scale)

	var p vector.Path
	p.Arc(cx, cy, rOuter, float32(o.a0), float32(o.a1), vector.Clockwise)
	p.Arc(cx, cy, rInner, float32(o.a1), float32(o.a0), vector.CounterClockwise)
	p.Close()
	r.fill(dst, &p, o.color)
}

// disc fills a full circle.
func (r *rasterizer) disc(dst *ebiten.Image, o *op, scale float64) {
	radius := float32(o.rOuter * scale)
	if radius <= 0 || o.color.A <= 0 {
		return
	}
	var p vector.Path
	p.Arc(float32(o.center.X*scale), float32(o.center.Y*scale), radius, 0, 2*math.Pi, vector.Clockwise)
	p.Close()
	r.fill(dst, &p, o.color)
}

// ring strokes a circle outline.
func (r *rasterizer) ring(dst *ebiten.Image, o *op, scale float64) {
	radius := float32(o.rOuter * scale)
	width := float32(o.width * scale)
	if radius <= 0 || width <= 0 || o.color.A <= 0 {
		return
	}
	var p vector.Path
	p.Arc(float32(o.center.X*scale), float32(o.center.Y*scale), radius, 0, 2*math.Pi, vector.Clockwise)
	p.Close()
	r.stroke(dst, &p, width, o.color)
}

// line strokes a segment, split into dash spans when the op carries a dash
// pattern.
func (r *rasterizer) line(dst *ebiten.Image, o *op, scale float64) {
	width := float32(o.width * scale)
	if width <= 0 || o.color.A <= 0 {
		return
	}
	r.dash = dashSpans(r.dash[:0], o.p0, o.p1, o.dashOn, o.dashOff)
	if len(r.dash) == 0 {
		return
	}
	var p vector.Path
	for _, span := range r.dash {
		p.MoveTo(float32(span[0].X*scale), float32(span[0].Y*scale))
		p.LineTo(float32(span[1].X*scale), float32(span[1].Y*scale))
	}
	r.stroke(dst, &p, width, o.color)
}

// text draws a label anchored at p0. The anchor is the vertical midpoint;
// horizontal alignment follows the op.
func (r *rasterizer) text(dst *ebiten.Image, o *op, scale float64) {
	if o.text == "" || o.size <= 0 || o.color.A <= 0 || r.font == nil {
		return
	}
	face := r.font.face(o.size * scale)

	top := &text.DrawOptions{}
	top.GeoM.Translate(o.p0.X*scale, o.p0.Y*scale)
	top.ColorScale.Scale(
		float32(o.color.R),
		float32(o.color.G),
		float32(o.color.B),
		float32(o.color.A),
	)
	top.LineSpacing = r.font.lineHeight(o.size * scale)
	switch o.align {
	case alignLeft:
		top.PrimaryAlign = text.AlignStart
	case alignRight:
		top.PrimaryAlign = text.AlignEnd
	default:
		top.PrimaryAlign = text.AlignCenter
	}
	top.SecondaryAlign = text.AlignCenter
	text.Draw(dst, o.text, face, top)
}

// fill triangulates the path and draws it with the shared white source.
func (r *rasterizer) fill(dst *ebiten.Image, p *vector.Path, c Color) {
	r.verts, r.inds = p.AppendVerticesAndIndicesForFilling(r.verts[:0], r.inds[:0])
	r.colorize(c)
	dst.DrawTriangles(r.verts, r.inds, ensureWhiteSub(), &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	})
}

// stroke outlines the path and draws it with the shared white source.
func (r *rasterizer) stroke(dst *ebiten.Image, p *vector.Path, width float32, c Color) {
	opts := &vector.StrokeOptions{
		Width:   width,
		LineCap: vector.LineCapRound,
	}
	r.verts, r.inds = p.AppendVerticesAndIndicesForStroke(r.verts[:0], r.inds[:0], opts)
	r.colorize(c)
	dst.DrawTriangles(r.verts, r.inds, ensureWhiteSub(), &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

// colorize applies the color to every pending vertex and points the source
// coordinates at the white texel.
func (r *rasterizer) colorize(c Color) {
	cr := float32(c.R)
	cg := float32(c.G)
	cb := float32(c.B)
	ca := float32(c.A)
	for i := range r.verts {
		r.verts[i].SrcX = 1
		r.verts[i].SrcY = 1
		r.verts[i].ColorR = cr
		r.verts[i].ColorG = cg
		r.verts[i].ColorB = cb
		r.verts[i].ColorA = ca
	}
}
