// Package audiofx implements the audio enhancers — noise reduction, volume
// normalization, voice clarity, and echo cancellation — on top of an
// offline processing graph: source buffer → a chain of filter/dynamics
// nodes parameterized by a 0-100 strength value → rendered output. The
// graph runs to completion faster than real time; rendering is the only
// suspension point and honors context cancellation between blocks.
package audiofx

import (
	"fmt"

	"github.com/go-audio/audio"
)

// Buffer is a non-interleaved multi-channel audio segment. All channels
// have equal length, samples are nominally in [-1, 1] (transient clipping
// during processing is allowed), and SampleRate is immutable for the
// buffer's lifetime.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// New allocates a silent buffer.
func New(channels, length, sampleRate int) *Buffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, length)
	}
	return &Buffer{SampleRate: sampleRate, Data: data}
}

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.Data) }

// Len returns the per-channel sample count.
func (b *Buffer) Len() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := New(b.Channels(), b.Len(), b.SampleRate)
	for ch := range b.Data {
		copy(c.Data[ch], b.Data[ch])
	}
	return c
}

// Validate checks the buffer's structural invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer")
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.SampleRate)
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("no channels")
	}
	want := len(b.Data[0])
	for ch, samples := range b.Data {
		if len(samples) != want {
			return fmt.Errorf("channel %d has %d samples, channel 0 has %d", ch, len(samples), want)
		}
	}
	return nil
}

// mono mixes all channels down to a single averaged channel.
func (b *Buffer) mono() []float32 {
	n := b.Len()
	out := make([]float32, n)
	scale := 1 / float32(b.Channels())
	for _, ch := range b.Data {
		for i, s := range ch {
			out[i] += s * scale
		}
	}
	return out
}

// FromFloatBuffer converts an interleaved go-audio FloatBuffer into a
// Buffer.
func FromFloatBuffer(fb *audio.FloatBuffer) (*Buffer, error) {
	if fb == nil || fb.Format == nil {
		return nil, fmt.Errorf("nil float buffer")
	}
	channels := fb.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	frames := len(fb.Data) / channels
	b := New(channels, frames, fb.Format.SampleRate)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.Data[ch][i] = float32(fb.Data[i*channels+ch])
		}
	}
	return b, nil
}

// AsFloatBuffer converts the buffer to go-audio's interleaved FloatBuffer.
func (b *Buffer) AsFloatBuffer() *audio.FloatBuffer {
	channels := b.Channels()
	frames := b.Len()
	data := make([]float64, channels*frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = float64(b.Data[ch][i])
		}
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: b.SampleRate},
		Data:   data,
	}
}
