// Package transcode decodes recorded EMG sessions into per-channel sample
// slices ready for offline analysis.
package transcode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/logging"
)

// ErrNoChannels is returned when no value column can be found
var ErrNoChannels = errors.New("no value columns")

// ErrDuplicateColumn is returned when two selected value columns share a name
var ErrDuplicateColumn = errors.New("duplicate value column")

// Recording is a decoded multi-channel session
type Recording struct {
	SampleRate float64              `json:"sample_rate"`
	Channels   map[string][]float64 `json:"-"`
	// Names lists channels in file column order
	Names []string `json:"channels"`
	// Times holds per-sample timestamps in seconds from the first sample,
	// nil when the file has none
	Times  []float64 `json:"-"`
	Source string    `json:"source,omitempty"`
}

// Len returns the number of samples per channel
func (r *Recording) Len() int {
	if len(r.Names) == 0 {
		return 0
	}
	return len(r.Channels[r.Names[0]])
}

// Duration returns the recording length implied by the sample rate
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(r.Len()) / r.SampleRate * float64(time.Second))
}

// Channel returns the samples of one channel
func (r *Recording) Channel(name string) ([]float64, bool) {
	x, ok := r.Channels[name]
	return x, ok
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// ValueColumns selects channels by header name. Empty selects "value"
	// when present, otherwise every column except the timestamp.
	ValueColumns    []string `json:"value_columns"`
	TimestampColumn string   `json:"timestamp_column"`
	// TimestampScale converts numeric timestamps to seconds (0.001 for ms)
	TimestampScale float64 `json:"timestamp_scale"`
	// SampleRate of 0 infers the rate from timestamps
	SampleRate         float64 `json:"sample_rate"`
	FallbackSampleRate float64 `json:"fallback_sample_rate"`
	MaxSamples         int     `json:"max_samples"` // 0 for no limit
	Comma              rune    `json:"-"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TimestampColumn:    "timestamp",
		TimestampScale:     1,
		FallbackSampleRate: spectral.DefaultSampleRate,
		Comma:              ',',
	}
}

// Decoder reads column-oriented CSV recordings
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a decoder; nil uses the defaults
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeCSV decodes r with config
func DecodeCSV(r io.Reader, config *DecoderConfig) (*Recording, error) {
	return NewDecoder(config).DecodeReader(r)
}

// DecodeFile decodes a CSV file
func (d *Decoder) DecodeFile(filename string) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	rec, err := d.DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	rec.Source = filename
	return rec, nil
}

// DecodeReader decodes CSV from reader. Empty value cells decode as NaN.
func (d *Decoder) DecodeReader(reader io.Reader) (*Recording, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "csv_decoder",
		"function":  "DecodeReader",
	})

	cr := csv.NewReader(reader)
	if d.config.Comma != 0 {
		cr.Comma = d.config.Comma
	}
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", ErrNoChannels)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = slices.Clone(header)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tsIdx := slices.Index(header, d.config.TimestampColumn)
	valueIdx, err := d.selectColumns(header, tsIdx)
	if err != nil {
		return nil, err
	}

	rec := &Recording{
		Channels: make(map[string][]float64, len(valueIdx)),
	}
	for _, i := range valueIdx {
		rec.Names = append(rec.Names, header[i])
	}

	var (
		times   []float64
		t0      time.Time
		rawTime []float64
		// wall-clock stamps, kept while every timestamp is RFC 3339
		stamps []time.Time
	)
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if d.config.MaxSamples > 0 && rec.Len() >= d.config.MaxSamples {
			break
		}

		for k, i := range valueIdx {
			v, err := parseValue(record[i])
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, rec.Names[k], err)
			}
			name := rec.Names[k]
			rec.Channels[name] = append(rec.Channels[name], v)
		}

		if tsIdx >= 0 {
			ts, wall, err := d.parseTimestamp(record[tsIdx], &t0)
			if err != nil {
				return nil, fmt.Errorf("line %d timestamp: %w", line, err)
			}
			if !wall.IsZero() && len(stamps) == len(rawTime) {
				stamps = append(stamps, wall)
			}
			rawTime = append(rawTime, ts)
		}
	}

	if len(rawTime) > 0 {
		times = make([]float64, len(rawTime))
		for i, ts := range rawTime {
			times[i] = ts - rawTime[0]
		}
		rec.Times = times
	}

	rec.SampleRate = d.config.SampleRate
	if rec.SampleRate <= 0 {
		fallback := d.config.FallbackSampleRate
		if fallback <= 0 {
			fallback = spectral.DefaultSampleRate
		}
		if len(stamps) > 0 && len(stamps) == len(rawTime) {
			rec.SampleRate = spectral.InferSampleRateFromTimes(stamps, fallback)
		} else {
			rec.SampleRate = spectral.InferSampleRate(times, fallback)
		}
	}

	logger.Debug("Recording decoded", logging.Fields{
		"channels":    len(rec.Names),
		"samples":     rec.Len(),
		"sample_rate": rec.SampleRate,
		"timestamps":  len(times) > 0,
	})
	return rec, nil
}

func (d *Decoder) selectColumns(header []string, tsIdx int) ([]int, error) {
	var idx []int
	switch {
	case len(d.config.ValueColumns) > 0:
		for _, name := range d.config.ValueColumns {
			i := slices.Index(header, name)
			if i < 0 {
				return nil, fmt.Errorf("%w: column %q not in header", ErrNoChannels, name)
			}
			idx = append(idx, i)
		}
	case slices.Contains(header, "value"):
		idx = []int{slices.Index(header, "value")}
	default:
		for i := range header {
			if i != tsIdx {
				idx = append(idx, i)
			}
		}
	}
	if len(idx) == 0 {
		return nil, ErrNoChannels
	}

	seen := make(map[string]bool, len(idx))
	for _, i := range idx {
		if seen[header[i]] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, header[i])
		}
		seen[header[i]] = true
	}
	return idx, nil
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// parseTimestamp accepts numbers (scaled to seconds) or RFC 3339 times,
// which are measured from the first one seen.
// parseTimestamp returns seconds, plus the wall-clock time for RFC 3339
// cells. Wall-clock seconds count from the first such cell, t0.
func (d *Decoder) parseTimestamp(cell string, t0 *time.Time) (float64, time.Time, error) {
	cell = strings.TrimSpace(cell)
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		scale := d.config.TimestampScale
		if scale <= 0 {
			scale = 1
		}
		return v * scale, time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, cell)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("unrecognized timestamp %q", cell)
	}
	if t0.IsZero() {
		*t0 = t
	}
	return t.Sub(*t0).Seconds(), t, nil
}
