package config

import (
	"fmt"
	"math"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
	"github.com/Llewarchick7/emg-force-bridge/logging"
)

// Validate ensures the configuration is usable. Band edges above Nyquist are
// accepted because filter design clamps them.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateSignal,
		c.validateEnvelope,
		c.validateFeatures,
		c.validateCalibration,
		c.validateSpectral,
		c.validateArtifacts,
		c.validateStream,
		c.validateAnalysis,
		c.validateExport,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (c *Config) validateSignal() error {
	s := c.Signal
	if !positive(s.SampleRateHz) {
		return invalid("signal.sample_rate_hz must be positive, got %v", s.SampleRateHz)
	}
	if s.BandpassLowHz < 0 {
		return invalid("signal.bandpass_low_hz must not be negative")
	}
	if s.BandpassLowHz >= s.BandpassHighHz {
		return invalid("signal.bandpass_low_hz (%v) must be below bandpass_high_hz (%v)", s.BandpassLowHz, s.BandpassHighHz)
	}
	if s.FilterOrder < 1 || s.FilterOrder > 10 {
		return invalid("signal.filter_order must be between 1 and 10, got %d", s.FilterOrder)
	}
	if s.NotchHz < 0 {
		return invalid("signal.notch_hz must not be negative")
	}
	if s.NotchHz > 0 && !positive(s.NotchQ) {
		return invalid("signal.notch_q must be positive when the notch is enabled")
	}
	return nil
}

func (c *Config) validateEnvelope() error {
	switch c.Envelope.Method {
	case temporal.EnvelopeRMS, temporal.EnvelopeLowpass:
	default:
		return invalid("envelope.method %d is not a known method", int(c.Envelope.Method))
	}
	if !positive(c.Envelope.LowpassCutHz) {
		return invalid("envelope.lp_cut_hz must be positive")
	}
	if c.Envelope.LowpassOrder < 1 {
		return invalid("envelope.lp_order must be at least 1")
	}
	if !positive(c.Envelope.RMSWindowMs) {
		return invalid("envelope.rms_window_ms must be positive")
	}
	return nil
}

func (c *Config) validateFeatures() error {
	f := c.Features
	if !positive(f.WindowMs) || !positive(f.StepMs) {
		return invalid("features.window_ms and features.step_ms must be positive")
	}
	if c.WindowSamples() < 1 || c.StepSamples() < 1 {
		return invalid("features window %v ms / step %v ms is shorter than one sample at %v Hz", f.WindowMs, f.StepMs, c.Signal.SampleRateHz)
	}
	if f.ZCThreshold < 0 || f.SSCThreshold < 0 || f.WillisonThreshold < 0 {
		return invalid("features thresholds must not be negative")
	}
	return nil
}

func (c *Config) validateCalibration() error {
	if std := c.Calibration.BaselineStd; std != nil && *std <= 0 {
		return invalid("calibration.baseline_std must be positive")
	}
	if c.Calibration.BaselineStd != nil && c.Calibration.BaselineMean == nil {
		return invalid("calibration.baseline_std requires baseline_mean")
	}
	if mvc := c.Calibration.MVC; mvc != nil && *mvc <= 0 {
		return invalid("calibration.mvc_value must be positive")
	}
	return nil
}

func (c *Config) validateSpectral() error {
	s := c.Spectral
	switch s.Method {
	case spectral.MethodWelch, spectral.MethodFFT:
	default:
		return invalid("spectral.method %d is not a known estimator", int(s.Method))
	}
	switch s.Window {
	case windowing.Hann, windowing.Hamming, windowing.Blackman, windowing.Rectangular:
	default:
		return invalid("spectral.window %d is not a known window", int(s.Window))
	}
	switch s.Detrend {
	case spectral.DetrendConstant, spectral.DetrendNone:
	default:
		return invalid("spectral.detrend %d is not a known detrend", int(s.Detrend))
	}
	switch s.Average {
	case spectral.AverageMean, spectral.AverageMedian:
	default:
		return invalid("spectral.average %d is not a known average", int(s.Average))
	}
	if s.SegmentLength < 0 {
		return invalid("spectral.segment_length must not be negative")
	}
	if s.Overlap < spectral.NoOverlap {
		return invalid("spectral.overlap must be -1 or more")
	}
	if s.BandMinHz < 0 || s.BandMaxHz < 0 {
		return invalid("spectral band limits must not be negative")
	}
	if s.BandMinHz > 0 && s.BandMaxHz > 0 && s.BandMinHz >= s.BandMaxHz {
		return invalid("spectral.band_min_hz must be below band_max_hz")
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	a := c.Artifacts
	if !positive(a.MotionCutoffHz) || !positive(a.MotionFactor) || !positive(a.SpikeZ) {
		return invalid("artifacts motion_cutoff_hz, motion_factor and spike_z must be positive")
	}
	if a.ClipValue < 0 {
		return invalid("artifacts.clip_value must not be negative")
	}
	return nil
}

func (c *Config) validateStream() error {
	if !positive(c.Stream.SampleRateHz) {
		return invalid("stream.sample_rate_hz must be positive")
	}
	if !positive(c.Stream.BufferSeconds) {
		return invalid("stream.buffer_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Workers < 0 {
		return invalid("analysis.workers must not be negative")
	}
	if c.Analysis.ActivationThreshold < 0 {
		return invalid("analysis.activation_threshold must not be negative")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Format {
	case "", "csv", "parquet":
	default:
		return invalid("export.format must be csv or parquet, got %q", c.Export.Format)
	}
	switch c.Export.Compression {
	case "none", "snappy", "gzip", "zstd":
	default:
		return invalid("export.compression must be none, snappy, gzip or zstd, got %q", c.Export.Compression)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch logging.Format(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return invalid("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level: %v", err)
	}
	return nil
}
