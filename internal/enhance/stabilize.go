package enhance

import (
	"math"

	"github.com/kemo-beep/snip-enhance/internal/motion"
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// ApplyStabilization compensates detected camera shake by translating the
// frame against the average motion vector, scaled by strength (0-100).
// Frames whose motion analysis did not classify as shake pass through
// unchanged — intentional pans must not be fought. Edge pixels exposed by
// the translation are filled by replicating the nearest source pixel.
// Mutates and returns the same buffer.
//
// Returns the magnitude of the correction that was applied, for metrics.
func ApplyStabilization(b *pixel.Buffer, analysis motion.Analysis, strength float64) float64 {
	if !analysis.IsShake || strength <= 0 {
		return 0
	}

	scale := math.Min(strength, 100) / 100
	shiftX := int(math.Round(-analysis.Average.X * scale))
	shiftY := int(math.Round(-analysis.Average.Y * scale))
	if shiftX == 0 && shiftY == 0 {
		return 0
	}

	src := b.Clone()
	w, h := b.Width, b.Height

	for y := 0; y < h; y++ {
		srcY := clampInt(y-shiftY, 0, h-1)
		for x := 0; x < w; x++ {
			srcX := clampInt(x-shiftX, 0, w-1)
			di := (y*w + x) * 4
			si := (srcY*w + srcX) * 4
			copy(b.Pix[di:di+4], src.Pix[si:si+4])
		}
	}

	return math.Hypot(float64(shiftX), float64(shiftY))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
