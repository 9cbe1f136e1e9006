package enhance

// gpu.go holds the shader-pass twins of the CPU enhancers. Semantics are
// identical to the CPU paths within rounding tolerance; unlike the CPU
// paths, each returns a freshly allocated buffer read back from the GPU.
// Any GPU failure surfaces as a GPU_NOT_AVAILABLE error for the caller to
// map onto a CPU fallback.

import (
	"github.com/kemo-beep/snip-enhance/internal/pixel"
	"github.com/kemo-beep/snip-enhance/internal/shader"
)

// ApplyBrightnessGPU is the shader-pass equivalent of ApplyBrightness.
func ApplyBrightnessGPU(m *shader.Manager, b *pixel.Buffer, adjustment float64) (*pixel.Buffer, error) {
	return m.Apply("brightness", shader.BrightnessSource, b, map[string]float32{
		"adjustment": float32(adjustment),
	})
}

// ApplyContrastGPU is the shader-pass equivalent of ApplyContrast.
func ApplyContrastGPU(m *shader.Manager, b *pixel.Buffer, adjustment float64) (*pixel.Buffer, error) {
	return m.Apply("contrast", shader.ContrastSource, b, map[string]float32{
		"adjustment": float32(adjustment),
	})
}

// ApplyWhiteBalanceGPU is the shader-pass equivalent of ApplyWhiteBalance.
func ApplyWhiteBalanceGPU(m *shader.Manager, b *pixel.Buffer, temperature float64) (*pixel.Buffer, error) {
	return m.Apply("whitebalance", shader.WhiteBalanceSource, b, map[string]float32{
		"temperature": float32(temperature),
	})
}

// ApplyColorCorrectionGPU is the shader-pass equivalent of
// ApplyColorCorrection: one fragment pass doing contrast, then brightness,
// then temperature.
func ApplyColorCorrectionGPU(m *shader.Manager, b *pixel.Buffer, s ColorSettings) (*pixel.Buffer, error) {
	return m.Apply("colorcorrection", shader.ColorCorrectionSource, b, map[string]float32{
		"brightness":  float32(s.Brightness),
		"contrast":    float32(s.Contrast),
		"temperature": float32(s.Temperature),
	})
}
