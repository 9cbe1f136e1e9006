package pipeline

import (
	"context"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/kemo-beep/snip-enhance/internal/audiofx"
	"github.com/kemo-beep/snip-enhance/internal/enhance"
	"github.com/kemo-beep/snip-enhance/internal/enherr"
	"github.com/kemo-beep/snip-enhance/internal/motion"
	"github.com/kemo-beep/snip-enhance/internal/perf"
	"github.com/kemo-beep/snip-enhance/internal/pixel"
	"github.com/kemo-beep/snip-enhance/internal/shader"
)

// State is the pipeline's batch lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Options configures pipeline construction.
type Options struct {
	// Shaders enables the GPU paths. Nil means CPU-only.
	Shaders *shader.Manager
	// DisableCPUFallback makes GPU-path failures fatal instead of
	// silently retrying the effect on the CPU.
	DisableCPUFallback bool
	// MemoryThresholdMB is the heap ceiling for batch backpressure.
	// Zero uses perf.DefaultMemoryThresholdMB.
	MemoryThresholdMB float64
}

// Pipeline runs the enabled effects over frames and audio in a fixed
// order: color correction, then the audio chain (noise reduction, volume
// normalization, voice clarity, echo cancellation), then stabilization.
// The order is load-bearing and not configurable.
//
// A pipeline is single-goroutine: it never spawns workers, and batch runs
// yield cooperatively between frames.
type Pipeline struct {
	cfg  Config
	set  Settings
	opts Options

	// gpuOK is probed once at construction; effects never re-probe.
	gpuOK bool

	mon     *perf.Monitor
	state   State
	metrics Metrics
}

// New validates the settings and builds a pipeline. The GPU is probed
// once here; if the probe fails every effect uses its CPU path.
func New(cfg Config, set Settings, opts Options) (*Pipeline, error) {
	if err := set.Validate(); err != nil {
		return nil, enherr.Wrap(err, enherr.CodeProcessingFailed, "invalid enhancement settings")
	}

	p := &Pipeline{
		cfg:  cfg,
		set:  set,
		opts: opts,
		mon:  perf.NewMonitor(),
	}
	if opts.Shaders != nil {
		p.gpuOK = opts.Shaders.Probe()
	}

	log.Debug().Bool("gpu", p.gpuOK).Msg("Enhancement pipeline ready")
	return p, nil
}

// State returns the batch lifecycle state.
func (p *Pipeline) State() State { return p.state }

// Metrics returns the adjustment summary of the most recent processing.
func (p *Pipeline) Metrics() Metrics { return p.metrics }

// Monitor exposes the performance monitor for progress and ETA queries
// during a batch run.
func (p *Pipeline) Monitor() *perf.Monitor { return p.mon }

// ProcessFrame enhances one frame. prev may be nil for the first frame of
// a sequence; stabilization is skipped without it. CPU paths mutate cur in
// place; a GPU path returns a new buffer. Either way the returned buffer
// is the enhanced frame.
func (p *Pipeline) ProcessFrame(ctx context.Context, prev, cur *pixel.Buffer) (*pixel.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, enherr.Wrap(err, enherr.CodeCancelled, "frame processing cancelled")
	}
	if err := cur.Validate(); err != nil {
		return nil, enherr.Wrap(err, enherr.CodeInvalidVideoFormat, "invalid frame buffer")
	}

	frame := cur

	if cs := p.colorSettings(frame); !cs.IsZero() {
		out, err := p.applyColorCorrection(frame, cs)
		if err != nil {
			return nil, err
		}
		frame = out
		p.metrics.BrightnessAdjustment = cs.Brightness
		p.metrics.ContrastAdjustment = cs.Contrast
		p.metrics.ColorTemperatureShift = cs.Temperature
	}

	if p.cfg.AutoStabilization && prev != nil {
		analysis := motion.Analyze(prev, frame, motion.Options{})
		p.metrics.ShakeReduction = enhance.ApplyStabilization(frame, analysis, float64(p.set.StabilizationStrength))
	}

	return frame, nil
}

// colorSettings resolves the per-channel adjustments: the full-auto toggle
// estimates everything, otherwise each channel uses its own auto toggle or
// the manual setting.
func (p *Pipeline) colorSettings(b *pixel.Buffer) enhance.ColorSettings {
	if p.cfg.AutoColorCorrection {
		return enhance.OptimalColorCorrection(b)
	}

	var cs enhance.ColorSettings
	if p.cfg.AutoBrightnessAdjust {
		cs.Brightness = enhance.OptimalBrightness(b, enhance.DefaultBrightnessTarget)
	} else {
		cs.Brightness = float64(p.set.Brightness)
	}
	if p.cfg.AutoContrast {
		cs.Contrast = enhance.OptimalContrast(b, enhance.DefaultContrastTarget)
	} else {
		cs.Contrast = float64(p.set.Contrast)
	}
	if p.cfg.AutoWhiteBalance {
		cs.Temperature = enhance.OptimalWhiteBalance(b)
	} else {
		cs.Temperature = float64(p.set.Temperature)
	}
	return cs
}

// applyColorCorrection tries the GPU path when available and falls back
// to the CPU path on failure, unless fallback is disabled.
func (p *Pipeline) applyColorCorrection(b *pixel.Buffer, cs enhance.ColorSettings) (*pixel.Buffer, error) {
	if p.gpuOK {
		out, err := enhance.ApplyColorCorrectionGPU(p.opts.Shaders, b, cs)
		if err == nil {
			return out, nil
		}
		if p.opts.DisableCPUFallback {
			return nil, enherr.Classify(err)
		}
		log.Warn().Err(err).Msg("GPU color correction failed, falling back to CPU")
	}
	return enhance.ApplyColorCorrection(b, cs), nil
}

// ProcessAudio runs the enabled audio effects in order: noise reduction,
// volume normalization, voice clarity, echo cancellation. The input is
// never modified.
func (p *Pipeline) ProcessAudio(ctx context.Context, b *audiofx.Buffer) (*audiofx.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, enherr.Wrap(err, enherr.CodeInvalidAudioFormat, "invalid audio buffer")
	}

	out := b
	var err error

	if p.cfg.AutoNoiseReduction {
		before := audiofx.RMS(out, 0, out.Len())
		out, err = audiofx.ReduceNoise(ctx, out, float64(p.set.NoiseReduction))
		if err != nil {
			return nil, enherr.Classify(err)
		}
		p.metrics.NoiseReductionDB = levelDeltaDB(before, audiofx.RMS(out, 0, out.Len()))
	}

	if p.cfg.AutoVolumeNormalization {
		before := audiofx.RMS(out, 0, out.Len())
		out, err = audiofx.NormalizeVolume(ctx, out, float64(p.set.VolumeBoost))
		if err != nil {
			return nil, enherr.Classify(err)
		}
		p.metrics.VolumeAdjustmentDB = levelDeltaDB(before, audiofx.RMS(out, 0, out.Len()))
	}

	if p.cfg.AutoVoiceEnhancement {
		out, err = audiofx.EnhanceVoice(ctx, out, float64(p.set.VoiceClarity))
		if err != nil {
			return nil, enherr.Classify(err)
		}
	}

	if p.cfg.AutoEchoCancel {
		out, err = audiofx.CancelEcho(ctx, out, float64(p.set.EchoReduction), audiofx.EchoOptions{DetectDelay: true})
		if err != nil {
			return nil, enherr.Classify(err)
		}
	}

	if out == b {
		// No effect enabled; hand back a copy so the ownership contract
		// matches the processed case.
		out = b.Clone()
	}
	return out, nil
}

// levelDeltaDB converts a before/after RMS pair into a dB change.
func levelDeltaDB(before, after float64) float64 {
	if before <= 0 || after <= 0 {
		return 0
	}
	return 20 * math.Log10(after/before)
}

// ProcessFrames enhances a batch of consecutive frames with per-frame
// performance recording. Cancellation is honored between frames, never
// mid-frame: a cancelled run returns the frames finished so far together
// with a Cancelled error, and the monitor keeps the partial metrics.
func (p *Pipeline) ProcessFrames(ctx context.Context, frames []*pixel.Buffer) ([]*pixel.Buffer, error) {
	p.state = StateRunning
	p.mon.Start()
	defer p.mon.Stop()

	out := make([]*pixel.Buffer, 0, len(frames))
	var prev *pixel.Buffer

	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			p.state = StateCancelled
			return out, enherr.Wrap(err, enherr.CodeCancelled, "batch cancelled at frame %d of %d", i, len(frames))
		}

		if p.mon.MemoryUsageHigh(p.opts.MemoryThresholdMB) {
			p.state = StateFailed
			return out, enherr.New(enherr.CodeMemoryLimitExceeded,
				"memory limit exceeded at frame %d of %d", i, len(frames))
		}

		enhanced, err := p.ProcessFrame(ctx, prev, frame)
		if err != nil {
			p.state = StateFailed
			return out, enherr.Classify(err)
		}

		out = append(out, enhanced)
		prev = enhanced
		p.mon.RecordFrame(i)

		// Yield between frames so long batches do not starve the host.
		runtime.Gosched()
	}

	p.state = StateSucceeded
	m := p.mon.Metrics()
	log.Info().
		Int("frames", m.FramesProcessed).
		Dur("elapsed", m.ProcessingTime).
		Float64("avg_fps", m.AverageFPS).
		Float64("peak_mb", m.PeakMemoryMB).
		Msg("Batch enhancement complete")
	return out, nil
}
