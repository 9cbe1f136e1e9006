package pipeline

// Metrics summarizes what one pipeline run actually changed: the applied
// video adjustments and the measured audio level deltas.
type Metrics struct {
	BrightnessAdjustment  float64 `json:"brightnessAdjustment"`
	ContrastAdjustment    float64 `json:"contrastAdjustment"`
	ColorTemperatureShift float64 `json:"colorTemperatureShift"`
	NoiseReductionDB      float64 `json:"noiseReductionDb"`
	VolumeAdjustmentDB    float64 `json:"volumeAdjustmentDb"`
	ShakeReduction        float64 `json:"shakeReduction"`
}
