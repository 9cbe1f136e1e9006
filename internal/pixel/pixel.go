// Package pixel provides the raw RGBA frame buffer used throughout the
// enhancement engine, plus pure statistical analysis over its pixels.
package pixel

import (
	"fmt"
	"image"
	"math"
)

// Buffer is a decoded video frame: a flat RGBA byte sequence, row-major,
// top-left origin. len(Pix) is always Width*Height*4. CPU enhancers mutate
// Pix in place; GPU enhancers allocate a fresh Buffer from framebuffer
// readback.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Validate checks the buffer's structural invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("pixel data length %d does not match %dx%d RGBA", len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// FromImage converts any image.Image into a Buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			// RGBA() returns 16-bit values; scale to 8-bit
			b.Pix[i] = uint8(r >> 8)
			b.Pix[i+1] = uint8(g >> 8)
			b.Pix[i+2] = uint8(bl >> 8)
			b.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return b
}

// ToRGBA wraps the buffer's pixel data as an *image.RGBA sharing the same
// backing array.
func (b *Buffer) ToRGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Luma returns the perceptual brightness of one pixel (ITU-R BT.601 weights).
func Luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// AverageBrightness computes the mean luma over all pixels, in [0, 255].
func AverageBrightness(b *Buffer) float64 {
	n := b.Width * b.Height
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < len(b.Pix); i += 4 {
		sum += Luma(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
	}
	return sum / float64(n)
}

// Contrast computes the standard deviation of per-pixel luma normalized to a
// 0-100 scale: min(100, stddev/64*100).
func Contrast(b *Buffer) float64 {
	n := b.Width * b.Height
	if n == 0 {
		return 0
	}

	mean := AverageBrightness(b)

	var sumSq float64
	for i := 0; i < len(b.Pix); i += 4 {
		d := Luma(b.Pix[i], b.Pix[i+1], b.Pix[i+2]) - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(n))

	return math.Min(100, stddev/64*100)
}

// ClampByte clamps a float value to the [0, 255] byte range.
func ClampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
