// Package enhance implements the per-effect image enhancers: brightness,
// contrast, white balance, the combined single-pass color correction, and
// motion-compensated stabilization. Each effect has a CPU path that mutates
// the buffer in place, an optimal-parameter estimator driven by the frame's
// measured statistics, and an auto variant composing the two. GPU twins live
// in gpu.go and produce numerically equivalent output via the shader manager.
package enhance

import (
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// DefaultBrightnessTarget is the luma value auto-brightness steers toward:
// the midpoint of the 8-bit range.
const DefaultBrightnessTarget = 128.0

// ApplyBrightness adds adjustment/100*255 to each RGB channel, clamped to
// [0, 255]. The alpha channel is never touched. adjustment is in [-100, 100];
// 0 is a no-op. Mutates and returns the same buffer.
func ApplyBrightness(b *pixel.Buffer, adjustment float64) *pixel.Buffer {
	if adjustment == 0 {
		return b
	}

	delta := adjustment / 100 * 255
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = pixel.ClampByte(float64(b.Pix[i]) + delta)
		b.Pix[i+1] = pixel.ClampByte(float64(b.Pix[i+1]) + delta)
		b.Pix[i+2] = pixel.ClampByte(float64(b.Pix[i+2]) + delta)
	}
	return b
}

// OptimalBrightness estimates the adjustment that moves the frame's average
// luma to target. The returned value is clamped to [-100, 100]; applying it
// shifts every channel by exactly target-current (until the clamp bites).
func OptimalBrightness(b *pixel.Buffer, target float64) float64 {
	current := pixel.AverageBrightness(b)
	return clampAdjustment((target - current) / 255 * 100)
}

// AutoBrightness estimates and applies the optimal brightness adjustment.
// Returns the adjustment that was applied.
func AutoBrightness(b *pixel.Buffer, target float64) float64 {
	adj := OptimalBrightness(b, target)
	ApplyBrightness(b, adj)
	return adj
}

// clampAdjustment bounds an adjustment to the documented [-100, 100] range.
func clampAdjustment(v float64) float64 {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}
