// Package pipeline orchestrates the enhancement run: it selects enabled
// effects from a config, sequences them in a fixed order over video frames
// and audio buffers, chooses GPU or CPU paths, and reports metrics. It also
// owns the preset catalog and the custom preset store.
package pipeline

import (
	"fmt"
)

// Config toggles each enhancement effect on or off.
type Config struct {
	AutoColorCorrection     bool `json:"autoColorCorrection"`
	AutoBrightnessAdjust    bool `json:"autoBrightnessAdjust"`
	AutoContrast            bool `json:"autoContrast"`
	AutoWhiteBalance        bool `json:"autoWhiteBalance"`
	AutoNoiseReduction      bool `json:"autoNoiseReduction"`
	AutoVolumeNormalization bool `json:"autoVolumeNormalization"`
	AutoVoiceEnhancement    bool `json:"autoVoiceEnhancement"`
	AutoEchoCancel          bool `json:"autoEchoCancel"`
	AutoStabilization       bool `json:"autoStabilization"`
}

// Settings holds the bounded numeric parameters for each effect.
// Brightness, contrast, saturation, and temperature are adjustments in
// [-100, 100]; the rest are strengths in [0, 100].
type Settings struct {
	Brightness            int `json:"brightness"`
	Contrast              int `json:"contrast"`
	Saturation            int `json:"saturation"`
	Temperature           int `json:"temperature"`
	NoiseReduction        int `json:"noiseReduction"`
	VolumeBoost           int `json:"volumeBoost"`
	VoiceClarity          int `json:"voiceClarity"`
	EchoReduction         int `json:"echoReduction"`
	StabilizationStrength int `json:"stabilizationStrength"`
}

// Validate checks every settings value against its documented range.
func (s Settings) Validate() error {
	adjustments := []struct {
		name  string
		value int
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
		{"temperature", s.Temperature},
	}
	for _, a := range adjustments {
		if a.value < -100 || a.value > 100 {
			return fmt.Errorf("%s %d out of range [-100, 100]", a.name, a.value)
		}
	}

	strengths := []struct {
		name  string
		value int
	}{
		{"noiseReduction", s.NoiseReduction},
		{"volumeBoost", s.VolumeBoost},
		{"voiceClarity", s.VoiceClarity},
		{"echoReduction", s.EchoReduction},
		{"stabilizationStrength", s.StabilizationStrength},
	}
	for _, a := range strengths {
		if a.value < 0 || a.value > 100 {
			return fmt.Errorf("%s %d out of range [0, 100]", a.name, a.value)
		}
	}
	return nil
}
