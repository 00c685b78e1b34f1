package spectral

import (
	"math"
)

// MeanFrequency returns sum(f*P)/sum(P). Empty input or non-positive total
// power gives 0. Mismatched lengths use the shorter one.
func MeanFrequency(freqs, power []float64) float64 {
	n := min(len(freqs), len(power))
	if n == 0 {
		return 0
	}

	numerator := 0.0
	total := 0.0
	for i := range n {
		numerator += freqs[i] * power[i]
		total += power[i]
	}
	if !(total > 0) {
		return 0
	}
	return numerator / total
}

// MedianFrequency returns the first frequency at which cumulative power
// reaches half the total. The index is clamped to the last bin, and empty
// input or non-positive total power gives 0.
func MedianFrequency(freqs, power []float64) float64 {
	n := min(len(freqs), len(power))
	if n == 0 {
		return 0
	}

	cumulative := make([]float64, n)
	running := 0.0
	for i := range n {
		running += power[i]
		cumulative[i] = running
	}
	total := cumulative[n-1]
	if !(total > 0) {
		return 0
	}

	half := total / 2
	// cumulative power only grows, so a binary search finds the first crossing
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cumulative[mid] < half {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return freqs[min(lo, n-1)]
}

// BandLimit keeps the bins with fmin <= f <= fmax, preserving order. A NaN
// or infinite bound leaves that side open. An empty intersection yields an
// empty estimate.
func BandLimit(est Estimate, fmin, fmax float64) Estimate {
	if math.IsNaN(fmin) || math.IsInf(fmin, 0) {
		fmin = math.Inf(-1)
	}
	if math.IsNaN(fmax) || math.IsInf(fmax, 0) {
		fmax = math.Inf(1)
	}

	n := min(len(est.Frequencies), len(est.Power))
	out := Estimate{Frequencies: []float64{}, Power: []float64{}}
	for i := range n {
		f := est.Frequencies[i]
		if f >= fmin && f <= fmax {
			out.Frequencies = append(out.Frequencies, f)
			out.Power = append(out.Power, est.Power[i])
		}
	}
	return out
}

// Unbounded marks an open side of a BandLimit range
var Unbounded = math.NaN()

// TotalPower sums the power of every bin
func (e Estimate) TotalPower() float64 {
	total := 0.0
	for _, p := range e.Power {
		total += p
	}
	return total
}
