// Package normalization scales envelopes and features against calibration
// references: a rest baseline (mean and standard deviation) and a maximum
// voluntary contraction.
package normalization

import (
	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
)

// Calibration holds optional stored references. Nil fields are not
// calibrated.
type Calibration struct {
	MVC          *float64 `json:"mvc_value,omitempty" toml:"mvc_value,omitempty"`
	BaselineMean *float64 `json:"baseline_mean,omitempty" toml:"baseline_mean,omitempty"`
	BaselineStd  *float64 `json:"baseline_std,omitempty" toml:"baseline_std,omitempty"`
}

// Normalizer applies baseline and MVC scaling. Every apply method returns
// the input values unchanged until the matching calibration exists.
//
// A Normalizer is not safe for concurrent fitting; concurrent applies after
// fitting are fine.
type Normalizer struct {
	baselineMean float64
	baselineStd  float64
	hasBaseline  bool
	hasStd       bool

	mvc    float64
	hasMVC bool
}

// NewNormalizer returns an uncalibrated normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// FromCalibration restores stored references. A baseline needs its mean;
// without a positive std only SubtractBaseline is calibrated and ZScore
// returns its input unchanged.
func FromCalibration(c Calibration) *Normalizer {
	n := NewNormalizer()
	if c.BaselineMean != nil {
		n.baselineMean = *c.BaselineMean
		n.hasBaseline = true
		if c.BaselineStd != nil && *c.BaselineStd > 0 {
			n.baselineStd = *c.BaselineStd
			n.hasStd = true
		}
	}
	if c.MVC != nil {
		n.mvc = *c.MVC
		n.hasMVC = true
	}
	return n
}

// FitBaseline records the mean and population standard deviation of a rest
// segment. An empty segment leaves the baseline unchanged.
func (n *Normalizer) FitBaseline(segment []float64) *Normalizer {
	if len(segment) == 0 {
		return n
	}
	n.baselineMean = common.Mean(segment)
	n.baselineStd = common.PopStdDev(segment) + common.Epsilon
	n.hasBaseline = true
	n.hasStd = true
	return n
}

// FitMVC records the maximum of a contraction segment. An empty segment
// leaves the reference unchanged.
func (n *Normalizer) FitMVC(segment []float64) *Normalizer {
	if len(segment) == 0 {
		return n
	}
	n.mvc = common.Max(segment)
	n.hasMVC = true
	return n
}

// HasBaseline reports whether a baseline is available
func (n *Normalizer) HasBaseline() bool {
	return n.hasBaseline
}

// HasMVC reports whether a usable (positive) MVC reference is available
func (n *Normalizer) HasMVC() bool {
	return n.hasMVC && n.mvc > 0
}

// State returns the current references for storage
func (n *Normalizer) State() Calibration {
	var c Calibration
	if n.hasBaseline {
		mean := n.baselineMean
		c.BaselineMean = &mean
	}
	if n.hasStd {
		std := n.baselineStd
		c.BaselineStd = &std
	}
	if n.hasMVC {
		mvc := n.mvc
		c.MVC = &mvc
	}
	return c
}

// SubtractBaseline removes the baseline mean
func (n *Normalizer) SubtractBaseline(x []float64) []float64 {
	if !n.hasBaseline {
		return clone(x)
	}
	return mapValues(x, func(v float64) float64 { return v - n.baselineMean })
}

// ZScore scales by the baseline mean and standard deviation. It needs both.
func (n *Normalizer) ZScore(x []float64) []float64 {
	if !n.hasBaseline || !n.hasStd {
		return clone(x)
	}
	return mapValues(x, n.zscore)
}

// ToPercentMVC expresses x as a percentage of the MVC reference
func (n *Normalizer) ToPercentMVC(x []float64) []float64 {
	if !n.HasMVC() {
		return clone(x)
	}
	return mapValues(x, n.percentMVC)
}

// PercentMVC is the single-value form of ToPercentMVC
func (n *Normalizer) PercentMVC(v float64) float64 {
	if !n.HasMVC() {
		return v
	}
	return n.percentMVC(v)
}

func (n *Normalizer) zscore(v float64) float64 {
	return (v - n.baselineMean) / n.baselineStd
}

func (n *Normalizer) percentMVC(v float64) float64 {
	return v / n.mvc * 100
}

func mapValues(x []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = f(v)
	}
	return out
}

func clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
