// Package artifacts flags common EMG contamination in a single window:
// low-frequency motion, amplitude clipping and isolated spikes.
//
// The detectors are heuristics with no state carried between windows.
package artifacts

import (
	"math"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
)

// Detector defaults
const (
	DefaultMotionCutoffHz = 20.0
	DefaultMotionFactor   = 3.0
	DefaultSpikeZ         = 6.0
	motionFilterOrder     = 2
)

// Report holds the per-window artifact flags
type Report struct {
	Motion   bool `json:"motion"`
	Clipping bool `json:"clipping"`
	Spikes   bool `json:"spikes"`
}

// Any reports whether at least one artifact was flagged
func (r Report) Any() bool {
	return r.Motion || r.Clipping || r.Spikes
}

// Detector runs all three heuristics with shared parameters
type Detector struct {
	SampleRate     float64 `json:"sample_rate" toml:"-"`
	MotionCutoffHz float64 `json:"motion_cutoff_hz" toml:"motion_cutoff_hz"`
	MotionFactor   float64 `json:"motion_factor" toml:"motion_factor"`
	// ClipValue <= 0 uses each window's own peak magnitude
	ClipValue float64 `json:"clip_value" toml:"clip_value"`
	SpikeZ    float64 `json:"spike_z" toml:"spike_z"`
}

// NewDetector creates a detector with default thresholds
func NewDetector(sampleRate float64) *Detector {
	return &Detector{
		SampleRate:     sampleRate,
		MotionCutoffHz: DefaultMotionCutoffHz,
		MotionFactor:   DefaultMotionFactor,
		SpikeZ:         DefaultSpikeZ,
	}
}

// Detect evaluates window. Empty windows report nothing.
func (d *Detector) Detect(window []float64) Report {
	if len(window) == 0 {
		return Report{}
	}
	return Report{
		Motion:   Motion(window, d.SampleRate, d.MotionCutoffHz, d.MotionFactor),
		Clipping: Clipping(window, d.ClipValue),
		Spikes:   Spikes(window, d.SpikeZ),
	}
}

// Motion reports low-frequency contamination: the standard deviation of a
// zero-phase second-order low-pass of window exceeds factor times the raw
// standard deviation. Windows the filter cannot process compare the raw
// signal against itself and so never trigger for factor >= 1.
func Motion(window []float64, sampleRate, cutoffHz, factor float64) bool {
	if len(window) == 0 {
		return false
	}
	if cutoffHz <= 0 {
		cutoffHz = DefaultMotionCutoffHz
	}
	if factor <= 0 {
		factor = DefaultMotionFactor
	}
	low, _ := filters.ApplyLowpass(window, cutoffHz, sampleRate, motionFilterOrder)
	return common.PopStdDev(low) > factor*(common.PopStdDev(window)+common.Epsilon)
}

// Clipping reports whether any sample magnitude reaches clipValue. A
// clipValue <= 0 uses the window's peak magnitude, which always matches
// and is only meaningful when several samples sit on that peak.
func Clipping(window []float64, clipValue float64) bool {
	if len(window) == 0 {
		return false
	}
	if clipValue <= 0 {
		clipValue = common.MaxAbs(window)
	}
	for _, v := range window {
		if math.Abs(v) >= clipValue {
			return true
		}
	}
	return false
}

// ClippedFraction returns the share of samples at or beyond clipValue
func ClippedFraction(window []float64, clipValue float64) float64 {
	if len(window) == 0 || clipValue <= 0 {
		return 0
	}
	n := 0
	for _, v := range window {
		if math.Abs(v) >= clipValue {
			n++
		}
	}
	return float64(n) / float64(len(window))
}

// Spikes reports whether any sample's z-score magnitude exceeds z
func Spikes(window []float64, z float64) bool {
	if len(window) == 0 {
		return false
	}
	if z <= 0 {
		z = DefaultSpikeZ
	}
	mean := common.Mean(window)
	std := common.PopStdDev(window) + common.Epsilon
	for _, v := range window {
		if math.Abs((v-mean)/std) > z {
			return true
		}
	}
	return false
}
