// Package features computes per-window EMG descriptors: the classic
// time-domain set (RMS, MAV, WL, ZC, SSC, WAMP), spectral summaries and
// whole-segment activation metrics.
//
// Every function is total. Windows shorter than two samples give trivial
// results (zero counts, |x| for the amplitude measures) and empty windows
// give zero.
package features

import (
	"math"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
)

// Default thresholds for the count features
const (
	DefaultZCThreshold       = 0.01
	DefaultSSCThreshold      = 0.01
	DefaultWillisonThreshold = 0.02
)

// RMS is sqrt(mean(x^2))
func RMS(window []float64) float64 {
	return common.RMS(window)
}

// MAV is mean(|x|)
func MAV(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range window {
		sum += math.Abs(v)
	}
	return sum / float64(len(window))
}

// WaveformLength is sum(|x[i+1] - x[i]|)
func WaveformLength(window []float64) float64 {
	wl := 0.0
	for i := 1; i < len(window); i++ {
		wl += math.Abs(window[i] - window[i-1])
	}
	return wl
}

// ZeroCrossings counts sign changes between adjacent samples, where zero is
// its own sign. With threshold > 0 both samples around a change must exceed
// the threshold in magnitude.
func ZeroCrossings(window []float64, threshold float64) int {
	count := 0
	for i := 1; i < len(window); i++ {
		a, b := window[i-1], window[i]
		if common.Sign(a) == common.Sign(b) {
			continue
		}
		if threshold > 0 && (math.Abs(a) <= threshold || math.Abs(b) <= threshold) {
			continue
		}
		count++
	}
	return count
}

// SlopeSignChanges counts samples where the slope changes sign and the
// second difference exceeds threshold in magnitude.
func SlopeSignChanges(window []float64, threshold float64) int {
	count := 0
	for i := 1; i+1 < len(window); i++ {
		left := window[i] - window[i-1]
		right := window[i+1] - window[i]
		if common.Sign(left) == common.Sign(right) {
			continue
		}
		if math.Abs(right-left) > threshold {
			count++
		}
	}
	return count
}

// WillisonAmplitude counts adjacent differences larger than threshold
func WillisonAmplitude(window []float64, threshold float64) int {
	count := 0
	for i := 1; i < len(window); i++ {
		if math.Abs(window[i]-window[i-1]) > threshold {
			count++
		}
	}
	return count
}
