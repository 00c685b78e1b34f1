package filters

import (
	"math"
)

// DefaultDCCutoffHz is the DC blocker corner used when none is given
const DefaultDCCutoffHz = 1.0

// DCBlocker removes electrode offset and slow baseline wander with the
// one-pole, one-zero high-pass
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// It is far cheaper than a Butterworth section and suited to per-sample use
// ahead of the band-pass.
type DCBlocker struct {
	pole float64

	x1 float64
	y1 float64
}

// NewDCBlocker places the pole for a -3 dB corner near cutoffHz using
// R = 1 - 2*pi*fc/fs. A non-positive cutoff selects DefaultDCCutoffHz; a
// non-positive sample rate gives R = 0.995.
func NewDCBlocker(sampleRate, cutoffHz float64) *DCBlocker {
	if cutoffHz <= 0 {
		cutoffHz = DefaultDCCutoffHz
	}
	pole := 0.995
	if sampleRate > 0 {
		pole = 1 - 2*math.Pi*cutoffHz/sampleRate
	}
	// clamp to a stable pole
	pole = min(max(pole, 0.001), 0.9999)
	return &DCBlocker{pole: pole}
}

// ProcessSample filters one sample
func (dc *DCBlocker) ProcessSample(x float64) float64 {
	y := x - dc.x1 + dc.pole*dc.y1
	dc.x1 = x
	dc.y1 = y
	return y
}

// Process filters a block, keeping state across calls
func (dc *DCBlocker) Process(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = dc.ProcessSample(v)
	}
	return out
}

// Reset clears the filter state
func (dc *DCBlocker) Reset() {
	dc.x1, dc.y1 = 0, 0
}

// Pole returns R
func (dc *DCBlocker) Pole() float64 {
	return dc.pole
}

// CutoffHz returns the approximate -3 dB corner, (1-R)*fs/(2*pi)
func (dc *DCBlocker) CutoffHz(sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1 - dc.pole) * sampleRate / (2 * math.Pi)
}

// Magnitude returns |H| at frequency hz, from H(e^jw) = (1 - e^-jw) / (1 - R e^-jw)
func (dc *DCBlocker) Magnitude(hz, sampleRate float64) float64 {
	w := 2 * math.Pi * hz / sampleRate
	cosW, sinW := math.Cos(w), math.Sin(w)

	num := math.Hypot(1-cosW, sinW)
	den := math.Hypot(1-dc.pole*cosW, dc.pole*sinW)
	if den == 0 {
		return 0
	}
	return num / den
}
