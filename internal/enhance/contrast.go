package enhance

import (
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// DefaultContrastTarget is the normalized contrast value auto-contrast
// steers toward (see pixel.Contrast for the 0-100 scale).
const DefaultContrastTarget = 50.0

// contrastFactor computes the classic 8-bit contrast gain for an adjustment
// in [-100, 100]: 259*(adj+255) / (255*(259-adj)).
func contrastFactor(adjustment float64) float64 {
	return 259 * (adjustment + 255) / (255 * (259 - adjustment))
}

// ApplyContrast stretches each RGB channel around the 128 midpoint:
// out = factor*(in-128)+128, clamped. adjustment 0 is a no-op (factor 1).
// Mutates and returns the same buffer; alpha is untouched.
func ApplyContrast(b *pixel.Buffer, adjustment float64) *pixel.Buffer {
	if adjustment == 0 {
		return b
	}

	factor := contrastFactor(adjustment)
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = pixel.ClampByte(factor*(float64(b.Pix[i])-128) + 128)
		b.Pix[i+1] = pixel.ClampByte(factor*(float64(b.Pix[i+1])-128) + 128)
		b.Pix[i+2] = pixel.ClampByte(factor*(float64(b.Pix[i+2])-128) + 128)
	}
	return b
}

// OptimalContrast estimates the adjustment that moves the frame's measured
// contrast toward target, as a linear function of the difference, clamped
// to [-100, 100].
func OptimalContrast(b *pixel.Buffer, target float64) float64 {
	current := pixel.Contrast(b)
	return clampAdjustment((target - current) * 2)
}

// AutoContrast estimates and applies the optimal contrast adjustment.
// Returns the adjustment that was applied.
func AutoContrast(b *pixel.Buffer, target float64) float64 {
	adj := OptimalContrast(b, target)
	ApplyContrast(b, adj)
	return adj
}
