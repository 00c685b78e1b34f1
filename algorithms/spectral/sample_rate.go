package spectral

import (
	"math"
	"time"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
)

// DefaultSampleRate is returned by InferSampleRate when the timestamps are
// unusable and no fallback was given
const DefaultSampleRate = 1000.0

// outlierFactor bounds usable deltas to [median/10, median*10]
const outlierFactor = 10.0

// InferSampleRate estimates a sample rate from timestamps in seconds as the
// reciprocal of the median positive inter-sample interval. Non-finite and
// non-positive intervals are dropped, as are intervals more than ten times
// away from the first median. Fewer than two usable intervals return
// fallback (DefaultSampleRate when fallback <= 0).
func InferSampleRate(timestamps []float64, fallback float64) float64 {
	if !(fallback > 0) {
		fallback = DefaultSampleRate
	}
	if len(timestamps) < 3 {
		return fallback
	}

	deltas := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		d := timestamps[i] - timestamps[i-1]
		if d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) < 2 {
		return fallback
	}

	median := common.Median(deltas)
	kept := deltas[:0]
	for _, d := range deltas {
		if d >= median/outlierFactor && d <= median*outlierFactor {
			kept = append(kept, d)
		}
	}
	if len(kept) < 2 {
		return fallback
	}

	median = common.Median(kept)
	if !(median > 0) {
		return fallback
	}
	return 1 / median
}

// InferSampleRateFromTimes is InferSampleRate over wall-clock timestamps
func InferSampleRateFromTimes(times []time.Time, fallback float64) float64 {
	if len(times) == 0 {
		return InferSampleRate(nil, fallback)
	}
	secs := make([]float64, len(times))
	for i, t := range times {
		secs[i] = t.Sub(times[0]).Seconds()
	}
	return InferSampleRate(secs, fallback)
}
