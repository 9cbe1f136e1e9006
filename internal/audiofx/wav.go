package audiofx

// wav.go bridges Buffers to WAV files for the host CLI: decode via
// go-audio/wav into float samples, and encode back as 16-bit PCM.

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a WAV stream into a Buffer, normalizing integer PCM to
// [-1, 1] floats.
func ReadWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode WAV: %w", err)
	}

	scale := 1.0 / float64(int(1)<<(dec.BitDepth-1))
	channels := ib.Format.NumChannels
	frames := len(ib.Data) / channels

	b := New(channels, frames, ib.Format.SampleRate)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.Data[ch][i] = float32(float64(ib.Data[i*channels+ch]) * scale)
		}
	}
	return b, nil
}

// WriteWAV encodes the buffer as 16-bit PCM WAV. Samples outside [-1, 1]
// are hard-clipped at the conversion boundary.
func WriteWAV(w io.WriteSeeker, b *Buffer) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}

	channels := b.Channels()
	frames := b.Len()
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: b.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, channels*frames),
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := math.Max(-1, math.Min(1, float64(b.Data[ch][i])))
			ib.Data[i*channels+ch] = int(s * 32767)
		}
	}

	enc := wav.NewEncoder(w, b.SampleRate, 16, channels, 1)
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("write WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize WAV: %w", err)
	}
	return nil
}
