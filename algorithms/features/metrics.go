package features

import (
	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
)

// MinMetricsLength is the shortest segment ComputeMetrics summarizes
const MinMetricsLength = 3

// Metrics summarizes one contraction segment
type Metrics struct {
	// PeakEnvelope is the largest RMS envelope value
	PeakEnvelope float64 `json:"peak_env"`
	// IEMG is the area under the envelope, sum(env) * dt
	IEMG float64 `json:"iemg"`
	// TimeToPeak is seconds from the first sample to the envelope peak
	TimeToPeak float64 `json:"time_to_peak_s"`
	// MedianFrequency of the raw segment's FFT periodogram
	MedianFrequency float64 `json:"median_freq_hz"`
	// MeanFrequency of the same periodogram
	MeanFrequency float64   `json:"mean_freq_hz"`
	Envelope      []float64 `json:"-"`
}

// ComputeMetrics summarizes a segment. times holds per-sample timestamps in
// seconds and may be nil, in which case sample indices over sampleRate are
// used. The envelope is a sliding RMS of the mean-removed signal over
// rmsWindowSeconds. Segments shorter than MinMetricsLength give ok == false.
func ComputeMetrics(times, signal []float64, sampleRate, rmsWindowSeconds float64) (m Metrics, ok bool) {
	if len(signal) < MinMetricsLength {
		return Metrics{}, false
	}

	mean := common.Mean(signal)
	centred := make([]float64, len(signal))
	for i, v := range signal {
		centred[i] = v - mean
	}

	var env []float64
	dt := 0.0
	if sampleRate > 0 {
		env = temporal.SlidingRMSSeconds(centred, sampleRate, rmsWindowSeconds)
		dt = 1 / sampleRate
	} else {
		env = temporal.Rectify(centred)
	}

	peakIdx := common.ArgMax(env)
	m = Metrics{
		PeakEnvelope: env[peakIdx],
		IEMG:         common.Sum(env) * dt,
		Envelope:     env,
	}

	switch {
	case len(times) == len(signal):
		m.TimeToPeak = times[peakIdx] - times[0]
	case sampleRate > 0:
		m.TimeToPeak = float64(peakIdx) * dt
	}

	est := spectral.EstimatePSD(signal, sampleRate, spectral.MethodFFT, spectral.WelchParams{})
	m.MeanFrequency = est.MeanFrequency()
	m.MedianFrequency = est.MedianFrequency()
	return m, true
}
