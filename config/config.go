package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/normalization"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Signal contains acquisition and software filter settings.
type Signal struct {
	SampleRateHz   float64 `toml:"sample_rate_hz"`
	BandpassLowHz  float64 `toml:"bandpass_low_hz"`
	BandpassHighHz float64 `toml:"bandpass_high_hz"`
	FilterOrder    int     `toml:"filter_order"`
	// NotchHz of 0 disables the power-line notch
	NotchHz float64 `toml:"notch_hz"`
	NotchQ  float64 `toml:"notch_q"`
}

// Envelope contains envelope extraction settings.
type Envelope struct {
	Method       temporal.EnvelopeMethod `toml:"method"` // "rms" or "lowpass"
	LowpassCutHz float64                 `toml:"lp_cut_hz"`
	LowpassOrder int                     `toml:"lp_order"`
	RMSWindowMs  float64                 `toml:"rms_window_ms"`
}

// Features contains windowing and count-feature thresholds.
type Features struct {
	WindowMs          float64 `toml:"window_ms"`
	StepMs            float64 `toml:"step_ms"`
	ZCThreshold       float64 `toml:"zc_threshold"`
	SSCThreshold      float64 `toml:"ssc_threshold"`
	WillisonThreshold float64 `toml:"willison_threshold"`
}

// Spectral contains PSD estimation settings for MNF/MDF. The named options
// are resolved to their variants while decoding.
type Spectral struct {
	Method        spectral.Method `toml:"method"` // "welch" or "fft"
	SegmentLength int             `toml:"segment_length"`
	// Overlap in samples; 0 selects half a segment, -1 none
	Overlap int              `toml:"overlap"`
	Window  windowing.Type   `toml:"window"`
	Detrend spectral.Detrend `toml:"detrend"` // "constant" or "none"
	Average spectral.Average `toml:"average"`
	// Band limits in Hz; 0 leaves a side open
	BandMinHz float64 `toml:"band_min_hz"`
	BandMaxHz float64 `toml:"band_max_hz"`
}

// Artifacts contains artifact detector thresholds.
type Artifacts struct {
	MotionCutoffHz float64 `toml:"motion_cutoff_hz"`
	MotionFactor   float64 `toml:"motion_factor"`
	// ClipValue of 0 uses each window's peak
	ClipValue float64 `toml:"clip_value"`
	SpikeZ    float64 `toml:"spike_z"`
}

// Stream contains live channel processing settings. Band edges, order and
// envelope parameters come from [signal] and [envelope].
type Stream struct {
	SampleRateHz  float64 `toml:"sample_rate_hz"`
	BufferSeconds float64 `toml:"buffer_seconds"`
}

// Analysis contains offline batch settings.
type Analysis struct {
	// Workers of 0 uses GOMAXPROCS
	Workers             int     `toml:"workers"`
	ActivationThreshold float64 `toml:"activation_threshold"`
}

// Export contains feature table output settings.
type Export struct {
	// Format is "csv" or "parquet"; empty picks by file extension
	Format      string `toml:"format"`
	Compression string `toml:"compression"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"` // "text" or "json"
	Level  string `toml:"level"`
}

// Config encapsulates every processing option.
//
// Configuration sections:
//   - Signal: sampling rate, band-pass and notch
//   - Envelope: method and its window or cutoff
//   - Features: window length, step and count thresholds
//   - Calibration: optional stored baseline and MVC references
//   - Spectral: PSD estimator for mean and median frequency
//   - Artifacts: motion, clipping and spike thresholds
//   - Stream: live per-channel processing
//   - Analysis: offline batch processing
//   - Export: feature table output
//   - Logging: log format and level
type Config struct {
	Signal      Signal                    `toml:"signal"`
	Envelope    Envelope                  `toml:"envelope"`
	Features    Features                  `toml:"features"`
	Calibration normalization.Calibration `toml:"calibration"`
	Spectral    Spectral                  `toml:"spectral"`
	Artifacts   Artifacts                 `toml:"artifacts"`
	Stream      Stream                    `toml:"stream"`
	Analysis    Analysis                  `toml:"analysis"`
	Export      Export                    `toml:"export"`
	Logging     Logging                   `toml:"logging"`
}

// Load parses and validates a configuration file on top of the defaults. An
// empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes TOML text on top of the defaults, then normalizes and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %w: %s", ErrInvalid, strict.String())
		}
		// unknown variant names fail here, inside UnmarshalText
		return fmt.Errorf("parse config: %w: %w", ErrInvalid, err)
	}
	return nil
}

// Save writes c as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return nil
}
