package enhance

import (
	"testing"
)

func TestApplyWhiteBalanceDirection(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		wantRUp     bool
	}{
		{"warmer", 50, true},
		{"cooler", -50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := uniform(8, 8, 128, 128, 128)
			ApplyWhiteBalance(buf, tt.temperature)

			r, b := buf.Pix[0], buf.Pix[2]
			if tt.wantRUp && !(r > 128 && b < 128) {
				t.Errorf("warm shift: R=%d B=%d, want R>128 and B<128", r, b)
			}
			if !tt.wantRUp && !(r < 128 && b > 128) {
				t.Errorf("cool shift: R=%d B=%d, want R<128 and B>128", r, b)
			}
		})
	}
}

func TestOptimalWhiteBalanceCounteractsCast(t *testing.T) {
	// Blue-heavy frame should get a warming (positive) adjustment.
	cool := uniform(8, 8, 80, 100, 180)
	if adj := OptimalWhiteBalance(cool); adj <= 0 {
		t.Errorf("OptimalWhiteBalance(blue cast) = %.2f, want > 0", adj)
	}

	warm := uniform(8, 8, 180, 100, 80)
	if adj := OptimalWhiteBalance(warm); adj >= 0 {
		t.Errorf("OptimalWhiteBalance(red cast) = %.2f, want < 0", adj)
	}

	neutral := uniform(8, 8, 120, 120, 120)
	if adj := OptimalWhiteBalance(neutral); adj != 0 {
		t.Errorf("OptimalWhiteBalance(neutral) = %.2f, want 0", adj)
	}
}

func TestColorCorrectionMatchesSequentialOrder(t *testing.T) {
	// The combined pass must equal contrast, then brightness, then
	// temperature — up to the single final clamp. Use moderate values on a
	// mid-range frame so no intermediate clamping occurs and the paths are
	// exactly comparable.
	s := ColorSettings{Brightness: 10, Contrast: 15, Temperature: 20}

	combined := uniform(8, 8, 110, 120, 130)
	ApplyColorCorrection(combined, s)

	sequential := uniform(8, 8, 110, 120, 130)
	ApplyContrast(sequential, s.Contrast)
	ApplyBrightness(sequential, s.Brightness)
	ApplyWhiteBalance(sequential, s.Temperature)

	for i := range combined.Pix {
		if d := int(combined.Pix[i]) - int(sequential.Pix[i]); d < -2 || d > 2 {
			t.Fatalf("byte %d: combined=%d sequential=%d (tolerance ±2)", i, combined.Pix[i], sequential.Pix[i])
		}
	}
}

func TestApplyColorCorrectionZeroIsNoop(t *testing.T) {
	buf := gradient(16, 8)
	want := buf.Clone()

	ApplyColorCorrection(buf, ColorSettings{})

	for i := range want.Pix {
		if buf.Pix[i] != want.Pix[i] {
			t.Fatalf("byte %d changed on zero settings", i)
		}
	}
}

func TestAutoColorCorrectionDimensionsAndAlpha(t *testing.T) {
	buf := gradient(24, 10)
	wantAlpha := alphaBytes(buf)

	s := AutoColorCorrection(buf)

	if buf.Width != 24 || buf.Height != 10 {
		t.Errorf("dimensions changed to %dx%d", buf.Width, buf.Height)
	}
	for _, v := range []float64{s.Brightness, s.Contrast, s.Temperature} {
		if v < -100 || v > 100 {
			t.Errorf("estimated setting %.2f outside [-100, 100]", v)
		}
	}
	gotAlpha := alphaBytes(buf)
	for i := range wantAlpha {
		if gotAlpha[i] != wantAlpha[i] {
			t.Fatalf("alpha[%d] changed", i)
		}
	}
}
