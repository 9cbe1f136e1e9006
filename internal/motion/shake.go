package motion

import "math"

// DefaultShakeThreshold is the vector-field variance above which motion is
// considered shake rather than noise.
const DefaultShakeThreshold = 2.0

// Shake is the result of classifying a motion-vector field.
type Shake struct {
	IsShake    bool
	Intensity  float64 // [0, 1]
	Confidence float64 // [0, 1]
}

// DetectShake classifies a vector field as camera shake or intentional
// motion. Shake is high variance around a near-zero mean (jitter); a pan is
// the opposite — low variance with a large net displacement. The field is
// shake when variance exceeds threshold AND the mean magnitude stays below
// 2*threshold.
//
// Intensity is the variance normalized by 10 and clamped to [0, 1];
// confidence grows with sample count, clamped to [0, 1].
func DetectShake(vectors []Vector, threshold float64) Shake {
	if threshold <= 0 {
		threshold = DefaultShakeThreshold
	}
	if len(vectors) == 0 {
		return Shake{}
	}

	mean := Average(vectors)

	var variance float64
	for _, v := range vectors {
		dx := v.X - mean.X
		dy := v.Y - mean.Y
		variance += dx*dx + dy*dy
	}
	variance /= float64(len(vectors))

	isShake := variance > threshold && mean.Magnitude < 2*threshold

	return Shake{
		IsShake:    isShake,
		Intensity:  math.Min(1, variance/10),
		Confidence: math.Min(1, float64(len(vectors))/20),
	}
}
