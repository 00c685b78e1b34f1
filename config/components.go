package config

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/artifacts"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/features"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/normalization"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
	"github.com/Llewarchick7/emg-force-bridge/logging"
)

// The accessors below assume a validated Config.

// BandpassSpec returns the offline band-pass at the signal sample rate.
func (c *Config) BandpassSpec() filters.Spec {
	return filters.BandpassSpec(c.Signal.BandpassLowHz, c.Signal.BandpassHighHz, c.Signal.SampleRateHz, c.Signal.FilterOrder)
}

// NotchSpec returns the power-line notch and whether it is enabled.
func (c *Config) NotchSpec() (filters.Spec, bool) {
	if c.Signal.NotchHz <= 0 {
		return filters.Spec{}, false
	}
	return filters.NotchSpec(c.Signal.NotchHz, c.Signal.NotchQ, c.Signal.SampleRateHz), true
}

// EnvelopeMethod resolves envelope.method.
func (c *Config) EnvelopeMethod() temporal.EnvelopeMethod {
	return c.Envelope.Method
}

// EnvelopeExtractor builds the configured envelope at sampleRate.
func (c *Config) EnvelopeExtractor(sampleRate float64) *temporal.Envelope {
	env := temporal.NewEnvelope(c.EnvelopeMethod(), sampleRate)
	env.WindowSeconds = c.RMSWindowSeconds()
	env.CutoffHz = c.Envelope.LowpassCutHz
	env.Order = c.Envelope.LowpassOrder
	return env
}

// RMSWindowSeconds returns envelope.rms_window_ms in seconds.
func (c *Config) RMSWindowSeconds() float64 {
	return c.Envelope.RMSWindowMs / 1000
}

// Thresholds returns the count-feature thresholds.
func (c *Config) Thresholds() features.Thresholds {
	return features.Thresholds{
		ZeroCrossing:      c.Features.ZCThreshold,
		SlopeSignChange:   c.Features.SSCThreshold,
		WillisonAmplitude: c.Features.WillisonThreshold,
	}
}

// WindowSamples returns the feature window length at the signal rate.
func (c *Config) WindowSamples() int {
	return windowing.MillisToSamples(c.Features.WindowMs, c.Signal.SampleRateHz)
}

// StepSamples returns the feature step at the signal rate.
func (c *Config) StepSamples() int {
	return windowing.MillisToSamples(c.Features.StepMs, c.Signal.SampleRateHz)
}

// SpectralMethod resolves spectral.method.
func (c *Config) SpectralMethod() spectral.Method {
	return c.Spectral.Method
}

// WelchParams returns the Welch estimator options.
func (c *Config) WelchParams() spectral.WelchParams {
	return spectral.WelchParams{
		SegmentLength: c.Spectral.SegmentLength,
		Overlap:       c.Spectral.Overlap,
		Window:        c.Spectral.Window,
		Detrend:       c.Spectral.Detrend,
		Average:       c.Spectral.Average,
	}
}

// SpectralBand returns the MNF/MDF band with open sides as
// spectral.Unbounded.
func (c *Config) SpectralBand() (fmin, fmax float64) {
	fmin, fmax = spectral.Unbounded, spectral.Unbounded
	if c.Spectral.BandMinHz > 0 {
		fmin = c.Spectral.BandMinHz
	}
	if c.Spectral.BandMaxHz > 0 {
		fmax = c.Spectral.BandMaxHz
	}
	return fmin, fmax
}

// Extractor builds a feature extractor at sampleRate with the configured
// thresholds and PSD settings.
func (c *Config) Extractor(sampleRate float64) *features.Extractor {
	e := features.NewExtractor(sampleRate, c.Thresholds())
	fmin, fmax := c.SpectralBand()
	e.SetSpectral(c.SpectralMethod(), c.WelchParams(), fmin, fmax)
	return e
}

// Detector builds an artifact detector at sampleRate.
func (c *Config) Detector(sampleRate float64) *artifacts.Detector {
	d := artifacts.NewDetector(sampleRate)
	d.MotionCutoffHz = c.Artifacts.MotionCutoffHz
	d.MotionFactor = c.Artifacts.MotionFactor
	d.ClipValue = c.Artifacts.ClipValue
	d.SpikeZ = c.Artifacts.SpikeZ
	return d
}

// Normalizer restores the stored calibration references.
func (c *Config) Normalizer() *normalization.Normalizer {
	return normalization.FromCalibration(c.Calibration)
}

// LoggerOptions maps [logging] onto logging.Options. Colour is enabled only
// when stderr is a terminal.
func (c *Config) LoggerOptions() logging.Options {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return logging.Options{
		Level:  level,
		Format: logging.Format(c.Logging.Format),
		Color:  isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}
