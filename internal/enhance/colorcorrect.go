package enhance

import (
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// ColorSettings bundles the three color-correction parameters, each in
// [-100, 100]. The zero value is a no-op correction.
type ColorSettings struct {
	Brightness  float64
	Contrast    float64
	Temperature float64
}

// IsZero reports whether the settings describe a no-op correction.
func (s ColorSettings) IsZero() bool {
	return s.Brightness == 0 && s.Contrast == 0 && s.Temperature == 0
}

// ApplyColorCorrection applies contrast, brightness, and temperature in a
// single pass over the pixel buffer. The order is load-bearing: contrast is
// applied to the unshifted values first, so brightness and temperature act
// as linear offsets on top of the contrast-stretched image. The formulas are
// identical to the per-effect enhancers; clamping happens once per channel
// at the end of the combined computation. Mutates and returns the same
// buffer; alpha is untouched.
func ApplyColorCorrection(b *pixel.Buffer, s ColorSettings) *pixel.Buffer {
	if s.IsZero() {
		return b
	}

	factor := contrastFactor(s.Contrast)
	delta := s.Brightness / 100 * 255
	shift := s.Temperature / 100 * maxTemperatureShift
	gShift := shift * 0.2

	for i := 0; i < len(b.Pix); i += 4 {
		r := factor*(float64(b.Pix[i])-128) + 128
		g := factor*(float64(b.Pix[i+1])-128) + 128
		bl := factor*(float64(b.Pix[i+2])-128) + 128

		b.Pix[i] = pixel.ClampByte(r + delta + shift)
		b.Pix[i+1] = pixel.ClampByte(g + delta + gShift)
		b.Pix[i+2] = pixel.ClampByte(bl + delta - shift)
	}
	return b
}

// OptimalColorCorrection independently estimates brightness, contrast, and
// temperature adjustments for the frame and returns them as one settings
// record. Estimation happens against the unmodified frame; the combined
// apply pass then executes them in the documented order.
func OptimalColorCorrection(b *pixel.Buffer) ColorSettings {
	return ColorSettings{
		Brightness:  OptimalBrightness(b, DefaultBrightnessTarget),
		Contrast:    OptimalContrast(b, DefaultContrastTarget),
		Temperature: OptimalWhiteBalance(b),
	}
}

// AutoColorCorrection estimates and applies the optimal combined correction.
// Returns the settings that were applied.
func AutoColorCorrection(b *pixel.Buffer) ColorSettings {
	s := OptimalColorCorrection(b)
	ApplyColorCorrection(b, s)
	return s
}
