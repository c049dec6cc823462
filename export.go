package halo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageFormat selects the encoding for exported diagram images.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

const jpegQuality = 92

// encodeImage reads the rendered buffer back from the GPU and encodes it.
// Every failure path returns an *ExportError. The format is validated
// before the pixel read so an unknown format fails cheaply.
func encodeImage(src *ebiten.Image, format ImageFormat) ([]byte, error) {
	var enc func(w io.Writer, m image.Image) error
	switch format {
	case FormatPNG:
		enc = png.Encode
	case FormatJPEG:
		enc = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: jpegQuality})
		}
	default:
		return nil, &ExportError{Cause: fmt.Errorf("%w: %q", ErrUnknownFormat, format)}
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}

	buf := new(bytes.Buffer)
	if err := enc(buf, img); err != nil {
		return nil, &ExportError{Cause: fmt.Errorf("encode %s: %w", format, err)}
	}
	return buf.Bytes(), nil
}
