package audiofx

// filter.go implements the biquad filter node (RBJ audio EQ cookbook
// designs) used by the noise-reduction, voice, and echo chains.

import "math"

// Biquad is a second-order IIR filter node, Direct Form I, with
// per-channel state.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	x1, x2 []float32
	y1, y2 []float32
}

// NewBiquad creates an identity biquad for the given channel count.
// Configure it with one of the Set* designs before use.
func NewBiquad(channels int) *Biquad {
	return &Biquad{
		b0: 1,
		x1: make([]float32, channels),
		x2: make([]float32, channels),
		y1: make([]float32, channels),
		y2: make([]float32, channels),
	}
}

// Reset clears the delay-line state.
func (f *Biquad) Reset() {
	for i := range f.x1 {
		f.x1[i], f.x2[i], f.y1[i], f.y2[i] = 0, 0, 0, 0
	}
}

// setCoefficients normalizes by a0 and stores the design.
func (f *Biquad) setCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	inv := 1 / a0
	f.b0 = float32(b0 * inv)
	f.b1 = float32(b1 * inv)
	f.b2 = float32(b2 * inv)
	f.a1 = float32(a1 * inv)
	f.a2 = float32(a2 * inv)
}

// SetHighpass configures the filter as a highpass at the given cutoff.
func (f *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	omega := 2 * math.Pi * frequency / sampleRate
	sin, cos := math.Sin(omega), math.Cos(omega)
	alpha := sin / (2 * q)

	f.setCoefficients(
		(1+cos)/2, -(1 + cos), (1+cos)/2,
		1+alpha, -2*cos, 1-alpha,
	)
}

// SetLowpass configures the filter as a lowpass at the given cutoff.
func (f *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	omega := 2 * math.Pi * frequency / sampleRate
	sin, cos := math.Sin(omega), math.Cos(omega)
	alpha := sin / (2 * q)

	f.setCoefficients(
		(1-cos)/2, 1-cos, (1-cos)/2,
		1+alpha, -2*cos, 1-alpha,
	)
}

// SetPeakingEQ configures the filter as a peaking EQ with the given gain.
func (f *Biquad) SetPeakingEQ(sampleRate, frequency, q, gainDB float64) {
	omega := 2 * math.Pi * frequency / sampleRate
	sin, cos := math.Sin(omega), math.Cos(omega)
	a := math.Pow(10, gainDB/40)
	alpha := sin / (2 * q)

	f.setCoefficients(
		1+alpha*a, -2*cos, 1-alpha*a,
		1+alpha/a, -2*cos, 1-alpha/a,
	)
}

// Process filters each channel of the block in place.
func (f *Biquad) Process(block [][]float32) {
	for ch, samples := range block {
		if ch >= len(f.x1) {
			break
		}
		x1, x2 := f.x1[ch], f.x2[ch]
		y1, y2 := f.y1[ch], f.y2[ch]

		for i, x0 := range samples {
			y0 := f.b0*x0 + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
			x2, x1 = x1, x0
			y2, y1 = y1, y0
			samples[i] = y0
		}

		f.x1[ch], f.x2[ch] = x1, x2
		f.y1[ch], f.y2[ch] = y1, y2
	}
}
