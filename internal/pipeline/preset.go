package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// Preset is a named bundle of effect toggles and settings. Default presets
// are process-wide constants; custom presets are snapshots of a user's
// current config, validated and persisted through a Store.
type Preset struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Config      Config   `json:"config"`
	Settings    Settings `json:"settings"`
}

// DefaultPresets returns the built-in preset catalog. IDs are stable
// across releases; custom preset IDs must not collide with them.
func DefaultPresets() []Preset {
	return []Preset{
		{
			ID:          "auto",
			Name:        "Auto Enhance",
			Description: "All effects enabled with moderate strengths",
			Category:    "general",
			Config: Config{
				AutoColorCorrection:     true,
				AutoBrightnessAdjust:    true,
				AutoContrast:            true,
				AutoWhiteBalance:        true,
				AutoNoiseReduction:      true,
				AutoVolumeNormalization: true,
				AutoVoiceEnhancement:    true,
				AutoEchoCancel:          true,
				AutoStabilization:       true,
			},
			Settings: Settings{
				NoiseReduction:        50,
				VolumeBoost:           50,
				VoiceClarity:          50,
				EchoReduction:         50,
				StabilizationStrength: 50,
			},
		},
		{
			ID:          "minimal",
			Name:        "Minimal Touch-up",
			Description: "Brightness, contrast, noise, and volume only",
			Category:    "general",
			Config: Config{
				AutoBrightnessAdjust:    true,
				AutoContrast:            true,
				AutoNoiseReduction:      true,
				AutoVolumeNormalization: true,
			},
			Settings: Settings{
				NoiseReduction: 30,
				VolumeBoost:    40,
			},
		},
		{
			ID:          "presentation",
			Name:        "Presentation",
			Description: "Crisp screen content with clear narration",
			Category:    "screen",
			Config: Config{
				AutoBrightnessAdjust:    true,
				AutoContrast:            true,
				AutoNoiseReduction:      true,
				AutoVolumeNormalization: true,
				AutoVoiceEnhancement:    true,
			},
			Settings: Settings{
				Contrast:       10,
				NoiseReduction: 40,
				VolumeBoost:    60,
				VoiceClarity:   70,
			},
		},
		{
			ID:          "podcast",
			Name:        "Podcast Voice",
			Description: "Voice-first audio cleanup with echo control",
			Category:    "audio",
			Config: Config{
				AutoNoiseReduction:      true,
				AutoVolumeNormalization: true,
				AutoVoiceEnhancement:    true,
				AutoEchoCancel:          true,
			},
			Settings: Settings{
				NoiseReduction: 60,
				VolumeBoost:    70,
				VoiceClarity:   80,
				EchoReduction:  60,
			},
		},
	}
}

// FindPreset looks up a preset by ID in the default catalog and, when a
// store is given, among custom presets.
func FindPreset(id string, store Store) (Preset, error) {
	for _, p := range DefaultPresets() {
		if p.ID == id {
			return p, nil
		}
	}
	if store != nil {
		custom, err := store.CustomPresets()
		if err != nil {
			return Preset{}, fmt.Errorf("load custom presets: %w", err)
		}
		for _, p := range custom {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", id)
}

// NewCustomPreset validates the snapshot and wraps it in a preset record
// with a fresh unique ID.
func NewCustomPreset(name, description string, cfg Config, set Settings) (Preset, error) {
	p := Preset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Category:    "custom",
		Config:      cfg,
		Settings:    set,
	}
	if err := ValidatePreset(p); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// ValidatePreset checks a preset's identity fields and settings ranges.
func ValidatePreset(p Preset) error {
	if p.ID == "" {
		return fmt.Errorf("preset has no id")
	}
	if p.Name == "" {
		return fmt.Errorf("preset %q has no name", p.ID)
	}
	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.ID, err)
	}
	return nil
}
