package audiofx

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

// sine builds a mono buffer with a sine tone at the given frequency and
// amplitude.
func sine(sampleRate, length int, freq, amplitude float64) *Buffer {
	b := New(1, length, sampleRate)
	for i := 0; i < length; i++ {
		b.Data[0][i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return b
}

func TestGraphRenderIdentity(t *testing.T) {
	in := sine(8000, 8192, 440, 0.5)
	snapshot := in.Clone()

	out, err := NewGraph(&Gain{Linear: 1}).Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for i := range in.Data[0] {
		if in.Data[0][i] != snapshot.Data[0][i] {
			t.Fatal("Render() modified the input buffer")
		}
		if out.Data[0][i] != in.Data[0][i] {
			t.Fatal("unity gain changed samples")
		}
	}
}

func TestGraphRenderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGraph(&Gain{Linear: 1}).Render(ctx, sine(8000, 8192, 440, 0.5))
	if err == nil {
		t.Fatal("Render() succeeded with a cancelled context")
	}
}

func TestBiquadHighpassRemovesDC(t *testing.T) {
	// Constant (DC) input through a 200Hz highpass decays toward zero.
	b := New(1, 8000, 8000)
	for i := range b.Data[0] {
		b.Data[0][i] = 0.8
	}

	hp := NewBiquad(1)
	hp.SetHighpass(8000, 200, 0.707)

	out, err := NewGraph(hp).Render(context.Background(), b)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	tail := RMS(out, 6000, 8000)
	if tail > 0.01 {
		t.Errorf("highpass DC tail RMS = %.4f, want near 0", tail)
	}
}

func TestBiquadLowpassPassesDC(t *testing.T) {
	b := New(1, 8000, 8000)
	for i := range b.Data[0] {
		b.Data[0][i] = 0.5
	}

	lp := NewBiquad(1)
	lp.SetLowpass(8000, 4000, 0.707)

	out, err := NewGraph(lp).Render(context.Background(), b)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	tail := RMS(out, 6000, 8000)
	if math.Abs(tail-0.5) > 0.05 {
		t.Errorf("lowpass DC tail RMS = %.4f, want ~0.5", tail)
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	loud := sine(8000, 16000, 440, 0.9)
	comp := NewCompressor(8000, -20, 8, 0.001, 0.050)

	out, err := NewGraph(comp).Render(context.Background(), loud)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	// Compare steady-state levels, past the attack transient.
	before := RMS(loud, 8000, 16000)
	after := RMS(out, 8000, 16000)
	if after >= before {
		t.Errorf("RMS after compression = %.4f, before = %.4f; want reduction", after, before)
	}
}

func TestCompressorLeavesQuietSignal(t *testing.T) {
	quiet := sine(8000, 16000, 440, 0.01) // ~-40dB, below -20dB threshold
	comp := NewCompressor(8000, -20, 8, 0.001, 0.050)

	out, err := NewGraph(comp).Render(context.Background(), quiet)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	before := RMS(quiet, 8000, 16000)
	after := RMS(out, 8000, 16000)
	if math.Abs(after-before)/before > 0.02 {
		t.Errorf("quiet signal RMS %.5f -> %.5f; should pass through", before, after)
	}
}

func TestGateSilencesQuietSignal(t *testing.T) {
	quiet := sine(8000, 16000, 440, 0.005) // ~-46dB
	gate := NewGate(8000, -30, 24, 0.001, 0.050)

	out, err := NewGraph(gate).Render(context.Background(), quiet)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	before := RMS(quiet, 8000, 16000)
	after := RMS(out, 8000, 16000)
	if after > before*0.2 {
		t.Errorf("gated RMS = %.5f of original %.5f; want strong attenuation", after, before)
	}
}

func TestNormalizeVolumeRaisesPeak(t *testing.T) {
	quiet := sine(8000, 8000, 440, 0.1)

	out, err := NormalizeVolume(context.Background(), quiet, 100)
	if err != nil {
		t.Fatalf("NormalizeVolume() error: %v", err)
	}

	peak := Peak(out)
	if peak <= 0.1 {
		t.Errorf("peak after normalization = %.3f, want boost above 0.1", peak)
	}
	if peak > 1 {
		t.Errorf("peak after normalization = %.3f, exceeds full scale", peak)
	}
}

func TestNormalizeVolumeSilentInput(t *testing.T) {
	silent := New(2, 4000, 8000)
	out, err := NormalizeVolume(context.Background(), silent, 100)
	if err != nil {
		t.Fatalf("NormalizeVolume() error: %v", err)
	}
	if Peak(out) != 0 {
		t.Error("silence was amplified")
	}
}

func TestEnhancersPreserveDimensions(t *testing.T) {
	in := sine(16000, 24000, 300, 0.4)
	in.Data = append(in.Data, in.Data[0]) // make it stereo

	type enhancer struct {
		name string
		run  func() (*Buffer, error)
	}
	ctx := context.Background()
	tests := []enhancer{
		{"ReduceNoise", func() (*Buffer, error) { return ReduceNoise(ctx, in, 60) }},
		{"NormalizeVolume", func() (*Buffer, error) { return NormalizeVolume(ctx, in, 60) }},
		{"EnhanceVoice", func() (*Buffer, error) { return EnhanceVoice(ctx, in, 60) }},
		{"CancelEcho", func() (*Buffer, error) { return CancelEcho(ctx, in, 60, EchoOptions{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			if err != nil {
				t.Fatalf("%s error: %v", tt.name, err)
			}
			if out.Channels() != in.Channels() {
				t.Errorf("channels = %d, want %d", out.Channels(), in.Channels())
			}
			if out.Len() != in.Len() {
				t.Errorf("length = %d, want %d", out.Len(), in.Len())
			}
			if out.SampleRate != in.SampleRate {
				t.Errorf("sample rate = %d, want %d", out.SampleRate, in.SampleRate)
			}
		})
	}
}

func TestEnhancerZeroStrengthIsClone(t *testing.T) {
	in := sine(8000, 4000, 440, 0.5)
	out, err := ReduceNoise(context.Background(), in, 0)
	if err != nil {
		t.Fatalf("ReduceNoise() error: %v", err)
	}
	for i := range in.Data[0] {
		if out.Data[0][i] != in.Data[0][i] {
			t.Fatal("zero strength modified samples")
		}
	}
}

func TestDetectEchoDelaySilence(t *testing.T) {
	if d := DetectEchoDelay(New(1, 16000, 8000)); d != 0 {
		t.Errorf("DetectEchoDelay(silence) = %d, want 0", d)
	}
}

func TestDetectEchoDelaySyntheticEcho(t *testing.T) {
	// Noise burst plus a single 200ms echo at 0.8 gain.
	const sr = 8000
	const delay = sr / 5 // 1600 samples = 200ms
	rng := rand.New(rand.NewSource(11))

	b := New(1, 2*sr, sr)
	burst := make([]float32, sr/2)
	for i := range burst {
		burst[i] = float32(rng.Float64() - 0.5)
	}
	for i, v := range burst {
		b.Data[0][i] += v
		b.Data[0][i+delay] += 0.8 * v
	}

	got := DetectEchoDelay(b)
	if got < 190 || got > 210 {
		t.Errorf("DetectEchoDelay() = %dms, want ~200ms", got)
	}
}

func TestDetectEchoDelayUncorrelatedNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b := New(1, 16000, 8000)
	for i := range b.Data[0] {
		b.Data[0][i] = float32(rng.Float64() - 0.5)
	}

	if d := DetectEchoDelay(b); d != 0 {
		t.Errorf("DetectEchoDelay(white noise) = %d, want 0 (below significance)", d)
	}
}

func TestEstimateEchoReductionBounds(t *testing.T) {
	orig := sine(8000, 8000, 440, 0.5)

	tests := []struct {
		name      string
		processed *Buffer
	}{
		{"full tail cut", New(1, 8000, 8000)},
		{"unchanged", orig.Clone()},
		{"louder tail", sine(8000, 8000, 440, 0.9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateEchoReduction(orig, tt.processed)
			if got < 0 || got > 100 {
				t.Errorf("EstimateEchoReduction() = %.2f, outside [0, 100]", got)
			}
		})
	}

	if got := EstimateEchoReduction(orig, New(1, 8000, 8000)); got < 99 {
		t.Errorf("silenced tail reduction = %.2f, want ~100", got)
	}
}

func TestEstimateEchoReductionSilentOriginal(t *testing.T) {
	silent := New(1, 8000, 8000)
	if got := EstimateEchoReduction(silent, silent.Clone()); got != 0 {
		t.Errorf("EstimateEchoReduction(silent original) = %.2f, want 0", got)
	}
}
