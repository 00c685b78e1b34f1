package features

import (
	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
)

// Thresholds configures the count features
type Thresholds struct {
	ZeroCrossing      float64 `json:"zc" toml:"zc_threshold"`
	SlopeSignChange   float64 `json:"ssc" toml:"ssc_threshold"`
	WillisonAmplitude float64 `json:"willison" toml:"willison_threshold"`
}

// DefaultThresholds returns the default count thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZeroCrossing:      DefaultZCThreshold,
		SlopeSignChange:   DefaultSSCThreshold,
		WillisonAmplitude: DefaultWillisonThreshold,
	}
}

// Vector holds the features of one window
type Vector struct {
	RMS  float64 `json:"rms"`
	MAV  float64 `json:"mav"`
	WL   float64 `json:"wl"`
	ZC   int     `json:"zc"`
	SSC  int     `json:"ssc"`
	WAMP int     `json:"wamp"`
	MNF  float64 `json:"mnf_hz"`
	MDF  float64 `json:"mdf_hz"`
}

// Extractor computes feature vectors with fixed thresholds and spectral
// settings.
type Extractor struct {
	thresholds Thresholds
	sampleRate float64
	method     spectral.Method
	welch      spectral.WelchParams
	band       [2]float64
}

// NewExtractor creates an extractor. Spectral features use an FFT
// periodogram over the whole window unless SetSpectral says otherwise.
func NewExtractor(sampleRate float64, thresholds Thresholds) *Extractor {
	return &Extractor{
		thresholds: thresholds,
		sampleRate: sampleRate,
		method:     spectral.MethodFFT,
		band:       [2]float64{spectral.Unbounded, spectral.Unbounded},
	}
}

// SetSpectral selects the PSD estimator and the band the mean and median
// frequency are computed over. Pass spectral.Unbounded for an open side.
func (e *Extractor) SetSpectral(method spectral.Method, params spectral.WelchParams, fmin, fmax float64) {
	e.method = method
	e.welch = params
	e.band = [2]float64{fmin, fmax}
}

// TimeDomain computes only the time-domain features of window
func (e *Extractor) TimeDomain(window []float64) Vector {
	return Vector{
		RMS:  RMS(window),
		MAV:  MAV(window),
		WL:   WaveformLength(window),
		ZC:   ZeroCrossings(window, e.thresholds.ZeroCrossing),
		SSC:  SlopeSignChanges(window, e.thresholds.SlopeSignChange),
		WAMP: WillisonAmplitude(window, e.thresholds.WillisonAmplitude),
	}
}

// Extract computes the full feature vector of window
func (e *Extractor) Extract(window []float64) Vector {
	v := e.TimeDomain(window)
	v.MNF, v.MDF = e.Frequency(window)
	return v
}

// Frequency returns the mean and median frequency of window
func (e *Extractor) Frequency(window []float64) (mnf, mdf float64) {
	est := spectral.EstimatePSD(window, e.sampleRate, e.method, e.welch)
	est = spectral.BandLimit(est, e.band[0], e.band[1])
	return est.MeanFrequency(), est.MedianFrequency()
}
