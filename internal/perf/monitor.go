// Package perf tracks per-frame processing performance: timings, FPS,
// memory usage, and progress estimates for batch enhancement runs. The
// monitor is the sole mutator of its metrics and never returns an error;
// where memory introspection is unavailable the memory figures are 0.
package perf

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultMemoryThresholdMB is the heap size above which MemoryUsageHigh
// reports true when no explicit threshold is given.
const DefaultMemoryThresholdMB = 500

// currentFPSSample is how many trailing frames CurrentFPS averages over.
const currentFPSSample = 10

// FrameMetrics records the processing of a single frame.
type FrameMetrics struct {
	Index          int
	ProcessingTime time.Duration
	MemoryUsageMB  float64
}

// Metrics is a snapshot of a monitoring run.
type Metrics struct {
	MemoryUsageMB   float64
	ProcessingTime  time.Duration
	FramesProcessed int
	AverageFPS      float64
	PeakMemoryMB    float64
	StartTime       time.Time
	// EndTime is zero until Stop is called; Stop sets it exactly once.
	EndTime time.Time
}

// Monitor accumulates frame metrics between Start and Stop. It is not
// safe for concurrent use; the pipeline drives it from a single
// goroutine.
type Monitor struct {
	startTime time.Time
	endTime   time.Time
	lastFrame time.Time
	frames    []FrameMetrics
	peakMB    float64
}

// NewMonitor creates an idle monitor. Call Start before recording frames.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Start resets all counters and records a baseline memory snapshot.
func (m *Monitor) Start() {
	now := time.Now()
	m.startTime = now
	m.endTime = time.Time{}
	m.lastFrame = now
	m.frames = m.frames[:0]
	m.peakMB = heapMB()

	log.Debug().Float64("baseline_mb", m.peakMB).Msg("Performance monitoring started")
}

// RecordFrame appends a frame entry using the elapsed time since the
// previous recorded frame (or since Start for the first frame) and
// updates the peak memory figure.
func (m *Monitor) RecordFrame(index int) {
	now := time.Now()
	mem := heapMB()
	if mem > m.peakMB {
		m.peakMB = mem
	}

	m.frames = append(m.frames, FrameMetrics{
		Index:          index,
		ProcessingTime: now.Sub(m.lastFrame),
		MemoryUsageMB:  mem,
	})
	m.lastFrame = now
}

// Stop freezes the end time. Further calls have no effect.
func (m *Monitor) Stop() {
	if m.endTime.IsZero() {
		m.endTime = time.Now()
	}
}

// Metrics returns a snapshot of the run so far.
func (m *Monitor) Metrics() Metrics {
	return Metrics{
		MemoryUsageMB:   heapMB(),
		ProcessingTime:  m.ProcessingTime(),
		FramesProcessed: len(m.frames),
		AverageFPS:      m.AverageFPS(),
		PeakMemoryMB:    m.peakMB,
		StartTime:       m.startTime,
		EndTime:         m.endTime,
	}
}

// Frames returns the recorded per-frame entries.
func (m *Monitor) Frames() []FrameMetrics {
	return m.frames
}

// ProcessingTime returns the elapsed wall time of the run: Start to Stop,
// or Start to now while still running.
func (m *Monitor) ProcessingTime() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	if m.endTime.IsZero() {
		return time.Since(m.startTime)
	}
	return m.endTime.Sub(m.startTime)
}

// AverageFPS returns frames processed divided by elapsed time.
func (m *Monitor) AverageFPS() float64 {
	elapsed := m.ProcessingTime().Seconds()
	if elapsed <= 0 || len(m.frames) == 0 {
		return 0
	}
	return float64(len(m.frames)) / elapsed
}

// CurrentFPS returns the inverse of the mean per-frame processing time
// over the last few recorded frames.
func (m *Monitor) CurrentFPS() float64 {
	n := len(m.frames)
	if n == 0 {
		return 0
	}
	from := n - currentFPSSample
	if from < 0 {
		from = 0
	}

	var total time.Duration
	for _, f := range m.frames[from:] {
		total += f.ProcessingTime
	}
	mean := total.Seconds() / float64(n-from)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}

// EstimatedTimeRemaining projects the time left for a batch of totalFrames
// from the average time per processed frame. Returns 0 before the first
// frame or once the batch is complete.
func (m *Monitor) EstimatedTimeRemaining(totalFrames int) time.Duration {
	done := len(m.frames)
	if done == 0 || done >= totalFrames {
		return 0
	}

	var total time.Duration
	for _, f := range m.frames {
		total += f.ProcessingTime
	}
	perFrame := total / time.Duration(done)
	return perFrame * time.Duration(totalFrames-done)
}

// Progress returns the completed fraction of a batch, clamped to [0, 1].
func (m *Monitor) Progress(totalFrames int) float64 {
	if totalFrames <= 0 {
		return 0
	}
	p := float64(len(m.frames)) / float64(totalFrames)
	if p > 1 {
		return 1
	}
	return p
}

// MemoryUsageHigh reports whether the current heap exceeds the threshold
// in megabytes. A threshold of 0 or less uses DefaultMemoryThresholdMB.
func (m *Monitor) MemoryUsageHigh(thresholdMB float64) bool {
	if thresholdMB <= 0 {
		thresholdMB = DefaultMemoryThresholdMB
	}
	return heapMB() > thresholdMB
}

// heapMB reads the current heap allocation in megabytes.
func heapMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1024 * 1024)
}
