package motion

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// Options configures Analyze. Zero values select the package defaults.
type Options struct {
	BlockSize      int
	ShakeThreshold float64
}

// Analysis is the full motion report for one frame pair, consumed by the
// stabilization enhancer to decide correction strength. Derived per frame
// pair, never persisted.
type Analysis struct {
	Vectors []Vector
	Average Vector
	Shake
}

// Analyze runs block matching over the frame pair, averages the vector
// field, and classifies shake, returning one combined report.
func Analyze(frame1, frame2 *pixel.Buffer, opts Options) Analysis {
	started := time.Now()

	vectors := Vectors(frame1, frame2, opts.BlockSize)
	avg := Average(vectors)
	shake := DetectShake(vectors, opts.ShakeThreshold)

	log.Debug().
		Int("blocks", len(vectors)).
		Float64("avg_dx", avg.X).
		Float64("avg_dy", avg.Y).
		Bool("is_shake", shake.IsShake).
		Float64("intensity", shake.Intensity).
		Dur("elapsed", time.Since(started)).
		Msg("Motion analysis complete")

	return Analysis{Vectors: vectors, Average: avg, Shake: shake}
}
