package audiofx

// dynamics.go implements the compressor and noise-gate nodes. Detection is
// channel-linked: one envelope follows the loudest channel and the same
// gain applies to all channels, preserving stereo image.

import "math"

const silenceFloorDB = -96.0

// Compressor is a feed-forward compressor node with hard knee.
type Compressor struct {
	sampleRate  int
	thresholdDB float64
	ratio       float64
	makeupDB    float64

	attackCoeff  float64
	releaseCoeff float64
	envelope     float64
}

// NewCompressor creates a compressor. ratio is the compression ratio (4 for
// 4:1); attack and release are in seconds.
func NewCompressor(sampleRate int, thresholdDB, ratio, attack, release float64) *Compressor {
	c := &Compressor{
		sampleRate:  sampleRate,
		thresholdDB: thresholdDB,
		ratio:       math.Max(1, ratio),
	}
	c.attackCoeff = envCoeff(attack, sampleRate)
	c.releaseCoeff = envCoeff(release, sampleRate)
	return c
}

// SetMakeupGain sets the post-compression makeup gain in dB.
func (c *Compressor) SetMakeupGain(db float64) { c.makeupDB = db }

// SetRelease retunes the release time in seconds.
func (c *Compressor) SetRelease(seconds float64) {
	c.releaseCoeff = envCoeff(seconds, c.sampleRate)
}

// Reset clears the envelope state.
func (c *Compressor) Reset() { c.envelope = 0 }

// Process applies linked compression to the block in place.
func (c *Compressor) Process(block [][]float32) {
	if len(block) == 0 {
		return
	}
	n := len(block[0])

	for i := 0; i < n; i++ {
		peak := 0.0
		for _, ch := range block {
			if a := math.Abs(float64(ch[i])); a > peak {
				peak = a
			}
		}

		coeff := c.releaseCoeff
		if peak > c.envelope {
			coeff = c.attackCoeff
		}
		c.envelope = peak + coeff*(c.envelope-peak)

		levelDB := silenceFloorDB
		if c.envelope > 0 {
			levelDB = 20 * math.Log10(c.envelope)
		}

		reductionDB := 0.0
		if levelDB > c.thresholdDB {
			reductionDB = (levelDB - c.thresholdDB) * (1 - 1/c.ratio)
		}

		gain := float32(math.Pow(10, (c.makeupDB-reductionDB)/20))
		for _, ch := range block {
			ch[i] *= gain
		}
	}
}

// Gate is a downward expander: signal below the threshold is attenuated
// toward silence, cutting quiet reverb remnants and background noise.
type Gate struct {
	thresholdDB float64
	rangeDB     float64

	attackCoeff  float64
	releaseCoeff float64
	envelope     float64
}

// NewGate creates a gate. rangeDB is the maximum attenuation applied to
// signal fully below the threshold.
func NewGate(sampleRate int, thresholdDB, rangeDB, attack, release float64) *Gate {
	return &Gate{
		thresholdDB:  thresholdDB,
		rangeDB:      math.Abs(rangeDB),
		attackCoeff:  envCoeff(attack, sampleRate),
		releaseCoeff: envCoeff(release, sampleRate),
	}
}

// SetRelease retunes the release time in seconds.
func (g *Gate) SetRelease(seconds float64, sampleRate int) {
	g.releaseCoeff = envCoeff(seconds, sampleRate)
}

// Reset clears the envelope state.
func (g *Gate) Reset() { g.envelope = 0 }

// Process applies linked gating to the block in place.
func (g *Gate) Process(block [][]float32) {
	if len(block) == 0 {
		return
	}
	n := len(block[0])

	for i := 0; i < n; i++ {
		peak := 0.0
		for _, ch := range block {
			if a := math.Abs(float64(ch[i])); a > peak {
				peak = a
			}
		}

		coeff := g.releaseCoeff
		if peak > g.envelope {
			coeff = g.attackCoeff
		}
		g.envelope = peak + coeff*(g.envelope-peak)

		levelDB := silenceFloorDB
		if g.envelope > 0 {
			levelDB = 20 * math.Log10(g.envelope)
		}

		attenDB := 0.0
		if levelDB < g.thresholdDB {
			attenDB = math.Min(g.thresholdDB-levelDB, g.rangeDB)
		}

		gain := float32(math.Pow(10, -attenDB/20))
		for _, ch := range block {
			ch[i] *= gain
		}
	}
}

// Gain is a constant linear gain node with soft clipping above unity to
// keep normalized output inside [-1, 1] without hard distortion.
type Gain struct {
	Linear    float32
	SoftLimit bool
}

// Reset is a no-op; Gain is stateless.
func (g *Gain) Reset() {}

// Process scales the block in place.
func (g *Gain) Process(block [][]float32) {
	for _, ch := range block {
		for i := range ch {
			v := ch[i] * g.Linear
			if g.SoftLimit && (v > 0.95 || v < -0.95) {
				v = float32(math.Tanh(float64(v)))
			}
			ch[i] = v
		}
	}
}

// envCoeff derives a one-pole envelope coefficient from a time constant.
func envCoeff(seconds float64, sampleRate int) float64 {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * float64(sampleRate)))
}
