package pixel

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// uniform builds a w×h buffer where every pixel is (r, g, b, 255).
func uniform(w, h int, r, g, b uint8) *Buffer {
	buf := New(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = 255
	}
	return buf
}

func TestAverageBrightness(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"mid gray", 128, 128, 128, 128},
		{"pure red", 255, 0, 0, 0.299 * 255},
		{"pure green", 0, 255, 0, 0.587 * 255},
		{"pure blue", 0, 0, 255, 0.114 * 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := uniform(8, 8, tt.r, tt.g, tt.b)
			got := AverageBrightness(buf)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("AverageBrightness() = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestContrastUniformIsZero(t *testing.T) {
	buf := uniform(16, 16, 100, 100, 100)
	if got := Contrast(buf); got != 0 {
		t.Errorf("Contrast(uniform) = %.3f, want 0", got)
	}
}

func TestContrastCappedAt100(t *testing.T) {
	// Half black, half white: stddev = 127.5, normalized well above 100.
	buf := New(16, 16)
	for i := 0; i < len(buf.Pix); i += 4 {
		v := uint8(0)
		if (i/4)%2 == 0 {
			v = 255
		}
		buf.Pix[i] = v
		buf.Pix[i+1] = v
		buf.Pix[i+2] = v
		buf.Pix[i+3] = 255
	}

	got := Contrast(buf)
	if got != 100 {
		t.Errorf("Contrast(checker) = %.3f, want capped 100", got)
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 60), uint8(y * 80), 7, 255})
		}
	}

	buf := FromImage(src)
	if buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("dimensions = %dx%d, want 4x3", buf.Width, buf.Height)
	}

	back := buf.ToRGBA()
	for i := range src.Pix {
		if src.Pix[i] != back.Pix[i] {
			t.Fatalf("pixel byte %d = %d, want %d", i, back.Pix[i], src.Pix[i])
		}
	}
}

func TestValidate(t *testing.T) {
	good := New(4, 4)
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() on well-formed buffer: %v", err)
	}

	bad := &Buffer{Width: 4, Height: 4, Pix: make([]uint8, 7)}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted truncated pixel data")
	}
}

func TestScaleDimensions(t *testing.T) {
	buf := uniform(64, 36, 120, 130, 140)
	out := Scale(buf, 32, 18)
	if out.Width != 32 || out.Height != 18 {
		t.Errorf("Scale() = %dx%d, want 32x18", out.Width, out.Height)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("scaled buffer invalid: %v", err)
	}
	// Uniform input stays uniform (allowing interpolation rounding).
	if d := math.Abs(AverageBrightness(out) - AverageBrightness(buf)); d > 1.5 {
		t.Errorf("brightness drifted by %.2f during scale", d)
	}
}

func TestFitResolution(t *testing.T) {
	buf := uniform(192, 108, 50, 50, 50)

	tests := []struct {
		preset     Resolution
		wantHeight int
	}{
		{Resolution480p, 480},
		{Resolution720p, 720},
		{ResolutionOriginal, 108},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			out, err := FitResolution(buf, tt.preset)
			if err != nil {
				t.Fatalf("FitResolution() error: %v", err)
			}
			if out.Height != tt.wantHeight {
				t.Errorf("height = %d, want %d", out.Height, tt.wantHeight)
			}
			if out.Width%2 != 0 {
				t.Errorf("width %d is odd", out.Width)
			}
		})
	}

	if _, err := FitResolution(buf, Resolution("8k")); err == nil {
		t.Error("FitResolution() accepted unknown preset")
	}
}
