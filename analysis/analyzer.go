// Package analysis runs the offline EMG chain over whole recordings:
// band-pass, optional notch, rectification and envelope, then windowed
// features, artifact flags and contraction metrics.
package analysis

import (
	"math"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/features"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
	"github.com/Llewarchick7/emg-force-bridge/config"
	"github.com/Llewarchick7/emg-force-bridge/export"
	"github.com/Llewarchick7/emg-force-bridge/logging"
)

// Processed holds the intermediate signals of one channel, all the length of
// the input.
type Processed struct {
	SampleRate float64
	// Raw is the input with missing samples set to zero
	Raw       []float64
	Filtered  []float64
	Rectified []float64
	Envelope  []float64
	// Valid is false when the band-pass could not run and Filtered is a copy
	// of Raw
	Valid bool
	// Notched reports whether the power-line notch was applied
	Notched bool
}

// Len returns the number of samples
func (p *Processed) Len() int {
	return len(p.Raw)
}

// Analyzer applies one configuration to any number of channels. It holds no
// per-channel state and is safe for concurrent use.
type Analyzer struct {
	cfg    *config.Config
	logger logging.Logger
}

// New creates an analyzer. A nil cfg uses config.Default and a nil logger
// discards output.
func New(cfg *config.Config, logger logging.Logger) *Analyzer {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logger.WithFields(logging.Fields{"component": "analysis"}),
	}
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() *config.Config {
	return a.cfg
}

// Preprocess runs band-pass, notch, rectification and envelope over signal
// sampled at sampleRate. sampleRate <= 0 uses signal.sample_rate_hz.
func (a *Analyzer) Preprocess(signal []float64, sampleRate float64) Processed {
	if sampleRate <= 0 {
		sampleRate = a.cfg.Signal.SampleRateHz
	}

	raw := make([]float64, len(signal))
	for i, v := range signal {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			raw[i] = v
		}
	}

	p := Processed{SampleRate: sampleRate, Raw: raw}
	p.Filtered, p.Valid = filters.Apply(raw, filters.BandpassSpec(
		a.cfg.Signal.BandpassLowHz, a.cfg.Signal.BandpassHighHz, sampleRate, a.cfg.Signal.FilterOrder))
	if !p.Valid && len(raw) > 0 {
		a.logger.Warn("Band-pass skipped, using raw signal", logging.Fields{
			"samples":     len(raw),
			"sample_rate": sampleRate,
		})
	}

	if a.cfg.Signal.NotchHz > 0 {
		p.Filtered, p.Notched = filters.Apply(p.Filtered, filters.NotchSpec(
			a.cfg.Signal.NotchHz, a.cfg.Signal.NotchQ, sampleRate))
	}

	p.Rectified = temporal.Rectify(p.Filtered)
	p.Envelope = a.cfg.EnvelopeExtractor(sampleRate).Compute(p.Rectified)
	return p
}

// Features extracts one row per window of the filtered signal. Artifact flags
// look at the raw window; the envelope mean covers the same samples.
func (a *Analyzer) Features(channel string, p Processed) []export.FeatureRow {
	length := windowing.MillisToSamples(a.cfg.Features.WindowMs, p.SampleRate)
	step := windowing.MillisToSamples(a.cfg.Features.StepMs, p.SampleRate)

	extractor := a.cfg.Extractor(p.SampleRate)
	detector := a.cfg.Detector(p.SampleRate)

	rows := make([]export.FeatureRow, 0, windowing.Count(p.Len(), length, step))
	for start, window := range windowing.Segments(p.Filtered, length, step) {
		end := start + length
		v := extractor.Extract(window)
		flags := detector.Detect(p.Raw[start:end])

		rows = append(rows, export.FeatureRow{
			Channel:      channel,
			Start:        int64(start),
			RMS:          v.RMS,
			MAV:          v.MAV,
			WL:           v.WL,
			ZC:           int64(v.ZC),
			SSC:          int64(v.SSC),
			WAMP:         int64(v.WAMP),
			MNF:          v.MNF,
			MDF:          v.MDF,
			EnvelopeMean: common.Mean(p.Envelope[start:end]),
			Motion:       flags.Motion,
			Clipping:     flags.Clipping,
			Spikes:       flags.Spikes,
		})
	}
	return rows
}

// Metrics summarizes a contraction segment with the configured RMS window.
// times may be nil.
func (a *Analyzer) Metrics(times, signal []float64, sampleRate float64) (features.Metrics, bool) {
	if sampleRate <= 0 {
		sampleRate = a.cfg.Signal.SampleRateHz
	}
	return features.ComputeMetrics(times, signal, sampleRate, a.cfg.RMSWindowSeconds())
}

// Activation returns the percentage of envelope samples at or above
// analysis.activation_threshold and the number of threshold crossings.
func (a *Analyzer) Activation(envelope []float64) (percent float64, crossings int) {
	thr := a.cfg.Analysis.ActivationThreshold
	percent, _ = ActivationPercent(envelope, thr)
	return percent, ThresholdCrossings(envelope, thr)
}

// ActivationPercent is the share of envelope samples at or above threshold,
// in percent, and the number of samples inspected.
func ActivationPercent(envelope []float64, threshold float64) (float64, int) {
	return temporal.ActivationPercent(envelope, threshold)
}

// ThresholdCrossings counts transitions across threshold
func ThresholdCrossings(envelope []float64, threshold float64) int {
	return temporal.ThresholdCrossings(envelope, threshold)
}
