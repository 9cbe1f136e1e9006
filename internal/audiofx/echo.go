package audiofx

// echo.go implements echo/reverb cancellation and its two analysis
// helpers: autocorrelation-based delay detection and a tail-energy
// estimate of how much reverb a processing pass removed.

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
)

// EchoOptions tunes CancelEcho beyond the strength parameter.
type EchoOptions struct {
	// DetectDelay runs autocorrelation delay detection first and, when an
	// echo is found, stretches the gate release to cover the measured
	// tail instead of the fixed default.
	DetectDelay bool
}

// echo delay detection bounds, in milliseconds. Room reverb tails live in
// this window; anything shorter is comb coloration, anything longer is a
// distinct repeat.
const (
	minEchoDelayMS = 50
	maxEchoDelayMS = 500
)

// echoAnalysisSeconds is how much leading audio DetectEchoDelay inspects.
const echoAnalysisSeconds = 2

// echoCorrelationFloor is the minimum normalized autocorrelation peak for
// a delay to count as a real echo.
const echoCorrelationFloor = 0.1

// CancelEcho suppresses room echo with a three-stage chain: a highpass
// (cutoff 100-200Hz with strength) removes low-frequency reverb buildup, a
// compressor (ratio 4:1 to 12:1 with strength) tames the echo tail, and an
// aggressive gate (threshold -40 to -60dB with strength) cuts the quiet
// reverb remnants between phrases.
func CancelEcho(ctx context.Context, b *Buffer, strength float64, opts EchoOptions) (*Buffer, error) {
	s := clampStrength(strength)
	if s == 0 {
		return b.Clone(), nil
	}

	highpass := NewBiquad(b.Channels())
	highpass.SetHighpass(float64(b.SampleRate), 100+s, 0.707)

	comp := NewCompressor(b.SampleRate, -30, 4+s/100*8, 0.003, 0.080)

	gate := NewGate(b.SampleRate, -40-s/100*20, 30, 0.001, 0.150)

	if opts.DetectDelay {
		if delayMS := DetectEchoDelay(b); delayMS > 0 {
			// Hold the gate open just past the measured tail so the echo
			// decays under the closing gate instead of being chopped.
			gate.SetRelease(float64(delayMS)/1000*1.2, b.SampleRate)
			log.Debug().Int("delay_ms", delayMS).Msg("Echo delay detected, gate release tuned")
		}
	}

	out, err := NewGraph(highpass, comp, gate).Render(ctx, b)
	if err != nil {
		return nil, err
	}

	log.Debug().Float64("strength", s).Msg("Echo cancellation rendered")
	return out, nil
}

// DetectEchoDelay estimates the dominant echo delay in milliseconds via
// normalized autocorrelation over a 50-500ms lag window, analyzing up to
// the first 2 seconds of audio (mixed to mono). Returns 0 when no lag
// reaches the significance floor — including for silent input.
func DetectEchoDelay(b *Buffer) int {
	if b.Len() == 0 || b.Channels() == 0 {
		return 0
	}

	sampleCount := minInt(b.Len(), echoAnalysisSeconds*b.SampleRate)
	samples := b.mono()[:sampleCount]

	var energy float64
	for _, v := range samples {
		energy += float64(v) * float64(v)
	}
	if energy < 1e-12 {
		return 0
	}

	minLag := minEchoDelayMS * b.SampleRate / 1000
	maxLag := maxEchoDelayMS * b.SampleRate / 1000
	if maxLag >= sampleCount {
		maxLag = sampleCount - 1
	}
	if minLag < 1 || minLag > maxLag {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < sampleCount; i++ {
			corr += float64(samples[i]) * float64(samples[i+lag])
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestCorr < echoCorrelationFloor {
		return 0
	}
	return bestLag * 1000 / b.SampleRate
}

// EstimateEchoReduction reports how much reverb-tail energy a processing
// pass removed, as a percentage in [0, 100]. The comparison uses RMS
// energy over the trailing 20% of each buffer, where the reverb tail
// lives. Returns 0 when the original's tail is effectively silent.
func EstimateEchoReduction(original, processed *Buffer) float64 {
	n := original.Len()
	if n == 0 {
		return 0
	}

	tailStart := n - n/5
	origRMS := RMS(original, tailStart, n)
	if origRMS < 1e-6 {
		return 0
	}

	procEnd := processed.Len()
	procRMS := RMS(processed, procEnd-procEnd/5, procEnd)

	origEnergy := origRMS * origRMS
	procEnergy := procRMS * procRMS
	reduction := (1 - procEnergy/origEnergy) * 100

	return math.Max(0, math.Min(100, reduction))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
