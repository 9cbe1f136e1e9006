package enhance

import (
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// maxTemperatureShift is the channel shift (in 8-bit levels) applied at the
// extreme temperature adjustments ±100.
const maxTemperatureShift = 50.0

// ApplyWhiteBalance shifts the red and blue channels oppositely based on a
// temperature adjustment in [-100, 100]. Positive is warmer (R up, B down),
// negative is cooler, with a smaller secondary shift on green. Mutates and
// returns the same buffer; alpha is untouched.
func ApplyWhiteBalance(b *pixel.Buffer, temperature float64) *pixel.Buffer {
	if temperature == 0 {
		return b
	}

	shift := temperature / 100 * maxTemperatureShift
	gShift := shift * 0.2
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = pixel.ClampByte(float64(b.Pix[i]) + shift)
		b.Pix[i+1] = pixel.ClampByte(float64(b.Pix[i+1]) + gShift)
		b.Pix[i+2] = pixel.ClampByte(float64(b.Pix[i+2]) - shift)
	}
	return b
}

// OptimalWhiteBalance estimates a temperature adjustment from the frame's
// red/blue channel imbalance: a blue-heavy frame (cool cast) gets a positive
// warming adjustment and vice versa. Clamped to [-100, 100].
func OptimalWhiteBalance(b *pixel.Buffer) float64 {
	n := b.Width * b.Height
	if n == 0 {
		return 0
	}

	var sumR, sumB float64
	for i := 0; i < len(b.Pix); i += 4 {
		sumR += float64(b.Pix[i])
		sumB += float64(b.Pix[i+2])
	}
	imbalance := (sumB - sumR) / float64(n)

	return clampAdjustment(imbalance * 0.5)
}

// AutoWhiteBalance estimates and applies the optimal temperature adjustment.
// Returns the adjustment that was applied.
func AutoWhiteBalance(b *pixel.Buffer) float64 {
	adj := OptimalWhiteBalance(b)
	ApplyWhiteBalance(b, adj)
	return adj
}
