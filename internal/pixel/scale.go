package pixel

// scale.go provides frame resampling for the export resolution presets and
// for the REDUCE_QUALITY recovery strategy: dropping to a lower resolution
// is how the host reacts to memory-pressure errors from the pipeline.

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Resolution names an export resolution preset.
type Resolution string

const (
	Resolution4K       Resolution = "4k"
	Resolution1080p    Resolution = "1080p"
	Resolution720p     Resolution = "720p"
	Resolution480p     Resolution = "480p"
	ResolutionOriginal Resolution = "original"
)

// resolutionHeights maps each preset to its target frame height.
var resolutionHeights = map[Resolution]int{
	Resolution4K:    2160,
	Resolution1080p: 1080,
	Resolution720p:  720,
	Resolution480p:  480,
}

// Scale resamples the buffer to the given dimensions using Catmull-Rom
// interpolation. Returns a new buffer; the input is not modified.
func Scale(b *Buffer, width, height int) *Buffer {
	if width == b.Width && height == b.Height {
		return b.Clone()
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), b.ToRGBA(), b.ToRGBA().Bounds(), draw.Over, nil)

	return &Buffer{Width: width, Height: height, Pix: dst.Pix}
}

// FitResolution resamples the buffer to the named resolution preset,
// preserving aspect ratio (the preset fixes the height; width follows).
// ResolutionOriginal returns a clone at the source dimensions.
func FitResolution(b *Buffer, r Resolution) (*Buffer, error) {
	if r == ResolutionOriginal || r == "" {
		return b.Clone(), nil
	}

	h, ok := resolutionHeights[r]
	if !ok {
		return nil, fmt.Errorf("unknown resolution preset %q", r)
	}

	w := b.Width * h / b.Height
	if w < 2 {
		w = 2
	}
	// Keep dimensions even for downstream codecs.
	w -= w % 2

	return Scale(b, w, h), nil
}
