package enhance

import (
	"math"
	"testing"

	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// uniform builds a w×h buffer where every pixel is (r, g, b, 255).
func uniform(w, h int, r, g, b uint8) *pixel.Buffer {
	buf := pixel.New(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = 255
	}
	return buf
}

// gradient builds a buffer with a horizontal luma ramp and mixed alpha.
func gradient(w, h int) *pixel.Buffer {
	buf := pixel.New(w, h)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			buf.Pix[i] = v
			buf.Pix[i+1] = v / 2
			buf.Pix[i+2] = 255 - v
			buf.Pix[i+3] = uint8(50 + y)
			i += 4
		}
	}
	return buf
}

func alphaBytes(b *pixel.Buffer) []uint8 {
	out := make([]uint8, 0, b.Width*b.Height)
	for i := 3; i < len(b.Pix); i += 4 {
		out = append(out, b.Pix[i])
	}
	return out
}

func TestApplyBrightnessEndToEnd(t *testing.T) {
	// 10×10 all-(100,100,100,255), +20 → every pixel 100 + 0.2*255 = 151.
	buf := uniform(10, 10, 100, 100, 100)
	ApplyBrightness(buf, 20)

	for i := 0; i < len(buf.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if buf.Pix[i+c] != 151 {
				t.Fatalf("pixel channel = %d, want 151", buf.Pix[i+c])
			}
		}
		if buf.Pix[i+3] != 255 {
			t.Fatalf("alpha = %d, want 255 (must never change)", buf.Pix[i+3])
		}
	}
}

func TestApplyBrightnessClamping(t *testing.T) {
	tests := []struct {
		name       string
		adjustment float64
	}{
		{"strong positive", 100},
		{"strong negative", -100},
		{"moderate", 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := gradient(16, 8)
			wantAlpha := alphaBytes(buf)

			ApplyBrightness(buf, tt.adjustment)

			// Channel range is guaranteed by the byte type; verify alpha
			// is byte-identical.
			gotAlpha := alphaBytes(buf)
			for i := range wantAlpha {
				if gotAlpha[i] != wantAlpha[i] {
					t.Fatalf("alpha[%d] = %d, want %d", i, gotAlpha[i], wantAlpha[i])
				}
			}
		})
	}
}

func TestApplyBrightnessNeutral(t *testing.T) {
	buf := gradient(16, 8)
	want := buf.Clone()

	ApplyBrightness(buf, 0)

	for i := range want.Pix {
		if buf.Pix[i] != want.Pix[i] {
			t.Fatalf("byte %d changed on zero adjustment", i)
		}
	}
}

func TestApplyBrightnessMonotonic(t *testing.T) {
	base := gradient(16, 8)
	prev := -1.0
	for _, adj := range []float64{-80, -40, -10, 0, 10, 40, 80} {
		buf := base.Clone()
		ApplyBrightness(buf, adj)
		luma := pixel.AverageBrightness(buf)
		if luma < prev {
			t.Fatalf("average luma %.2f decreased at adjustment %.0f", luma, adj)
		}
		prev = luma
	}
}

func TestOptimalBrightnessRange(t *testing.T) {
	tests := []struct {
		name string
		buf  *pixel.Buffer
	}{
		{"all black", uniform(8, 8, 0, 0, 0)},
		{"all white", uniform(8, 8, 255, 255, 255)},
		{"mid gray", uniform(8, 8, 128, 128, 128)},
		{"gradient", gradient(16, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := OptimalBrightness(tt.buf, DefaultBrightnessTarget)
			if adj < -100 || adj > 100 {
				t.Errorf("OptimalBrightness() = %.2f, outside [-100, 100]", adj)
			}
		})
	}
}

func TestAutoBrightnessConverges(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
	}{
		{"dark frame", 40, 40, 40},
		{"bright frame", 220, 220, 220},
		{"tinted frame", 60, 90, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := uniform(12, 12, tt.r, tt.g, tt.b)
			before := math.Abs(pixel.AverageBrightness(buf) - DefaultBrightnessTarget)
			if before <= 5 {
				t.Skip("already within tolerance of target")
			}

			AutoBrightness(buf, DefaultBrightnessTarget)
			after := math.Abs(pixel.AverageBrightness(buf) - DefaultBrightnessTarget)

			if after >= before {
				t.Errorf("distance to target after = %.2f, before = %.2f; must move strictly closer", after, before)
			}
		})
	}
}
