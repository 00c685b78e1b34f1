package temporal

import (
	"fmt"
	"math"
	"strings"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
)

// Defaults for envelope extraction
const (
	DefaultRMSWindowSeconds = 0.100
	DefaultLowpassCutoffHz  = 5.0
	DefaultLowpassOrder     = 2
)

// Rectify returns the full-wave rectified signal |x|
func Rectify(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = math.Abs(v)
	}
	return out
}

// SlidingRMS computes a centered moving RMS over windowSize samples.
//
// The window for output i covers [i-(N-1-off), i+off] with off = (N-1)/2,
// treating samples outside the signal as zero, so the output has the input's
// length. windowSize <= 1 returns |x|.
func SlidingRMS(signal []float64, windowSize int) []float64 {
	if windowSize <= 1 {
		return Rectify(signal)
	}

	n := len(signal)
	prefix := make([]float64, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v*v
	}

	off := (windowSize - 1) / 2
	before := windowSize - 1 - off
	inv := 1 / float64(windowSize)

	out := make([]float64, n)
	for i := range out {
		lo := max(i-before, 0)
		hi := min(i+off+1, n)
		// prefix differences can dip below zero by rounding
		out[i] = math.Sqrt(math.Max((prefix[hi]-prefix[lo])*inv, 0))
	}
	return out
}

// WindowSamples converts a window length in seconds to samples, at least 1
func WindowSamples(sampleRate, seconds float64) int {
	n := int(math.Round(sampleRate * seconds))
	return max(n, 1)
}

// SlidingRMSSeconds is SlidingRMS with the window given in seconds
func SlidingRMSSeconds(signal []float64, sampleRate, seconds float64) []float64 {
	return SlidingRMS(signal, WindowSamples(sampleRate, seconds))
}

// LowpassEnvelope rectifies the signal and smooths it with a zero-phase
// Butterworth low-pass. It needs the whole signal, so it is offline only.
// Inputs the filter cannot handle come back rectified but unsmoothed.
func LowpassEnvelope(signal []float64, sampleRate, cutoffHz float64, order int) []float64 {
	if order <= 0 {
		order = DefaultLowpassOrder
	}
	env, _ := filters.ApplyLowpass(Rectify(signal), cutoffHz, sampleRate, order)
	return env
}

// EnvelopeMethod selects how Envelope.Compute smooths a signal
type EnvelopeMethod int

const (
	// EnvelopeRMS is a centered sliding RMS
	EnvelopeRMS EnvelopeMethod = iota
	// EnvelopeLowpass is rectification followed by a zero-phase low-pass
	EnvelopeLowpass
)

func (m EnvelopeMethod) String() string {
	switch m {
	case EnvelopeRMS:
		return "rms"
	case EnvelopeLowpass:
		return "lowpass"
	default:
		return "unknown"
	}
}

// ParseEnvelopeMethod resolves a configuration string once
func ParseEnvelopeMethod(s string) (EnvelopeMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rms":
		return EnvelopeRMS, nil
	case "lowpass", "lp":
		return EnvelopeLowpass, nil
	default:
		return EnvelopeRMS, fmt.Errorf("unknown envelope method %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m EnvelopeMethod) MarshalText() ([]byte, error) {
	if m != EnvelopeRMS && m != EnvelopeLowpass {
		return nil, fmt.Errorf("unknown envelope method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *EnvelopeMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvelopeMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Envelope extracts an amplitude envelope with a fixed method and parameters
type Envelope struct {
	Method        EnvelopeMethod
	SampleRate    float64
	WindowSeconds float64
	CutoffHz      float64
	Order         int
}

// NewEnvelope creates an envelope extractor with default parameters
func NewEnvelope(method EnvelopeMethod, sampleRate float64) *Envelope {
	return &Envelope{
		Method:        method,
		SampleRate:    sampleRate,
		WindowSeconds: DefaultRMSWindowSeconds,
		CutoffHz:      DefaultLowpassCutoffHz,
		Order:         DefaultLowpassOrder,
	}
}

// Compute returns an envelope the same length as signal
func (e *Envelope) Compute(signal []float64) []float64 {
	switch e.Method {
	case EnvelopeLowpass:
		return LowpassEnvelope(signal, e.SampleRate, e.CutoffHz, e.Order)
	default:
		if e.SampleRate <= 0 {
			return Rectify(signal)
		}
		return SlidingRMSSeconds(signal, e.SampleRate, e.WindowSeconds)
	}
}
