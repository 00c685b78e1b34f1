package filters

import (
	"errors"
	"fmt"
	"math"
)

// MinSignalLength is the shortest signal the offline helpers will filter.
// Anything shorter is returned unchanged.
const MinSignalLength = 10

// Normalized cutoffs (fraction of Nyquist) are clamped into this open band.
const (
	minNormalized = 1e-6
	maxNormalized = 0.999999
	// the notch centre is kept a little further from Nyquist
	maxNotchNormalized = 0.999
)

// DefaultNotchQ is the quality factor used when a notch spec leaves Q unset.
const DefaultNotchQ = 30.0

// ErrInvalidSpec is wrapped by Spec.Validate. Invalid specs design to a
// passthrough; the error only explains why.
var ErrInvalidSpec = errors.New("invalid filter spec")

// Kind selects the filter response
type Kind int

const (
	// Lowpass keeps content below HighHz
	Lowpass Kind = iota
	// Highpass keeps content above LowHz
	Highpass
	// Bandpass keeps content between LowHz and HighHz
	Bandpass
	// Notch rejects a narrow band around CenterHz
	Notch
)

func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Notch:
		return "notch"
	default:
		return "unknown"
	}
}

// DefaultOrder returns the Butterworth order used when a spec leaves Order
// at zero: 4 for band/low-pass, 2 for high-pass. Notches are always second
// order.
func DefaultOrder(k Kind) int {
	switch k {
	case Highpass, Notch:
		return 2
	default:
		return 4
	}
}

// Spec describes a filter design request.
//
// Butterworth kinds read LowHz/HighHz as the passband edges: Lowpass uses
// HighHz, Highpass uses LowHz, Bandpass uses both. Notch uses CenterHz and Q.
type Spec struct {
	Kind       Kind
	LowHz      float64
	HighHz     float64
	CenterHz   float64
	Order      int
	Q          float64
	SampleRate float64
}

// BandpassSpec is shorthand for a Butterworth band-pass spec.
func BandpassSpec(lowHz, highHz, sampleRate float64, order int) Spec {
	return Spec{Kind: Bandpass, LowHz: lowHz, HighHz: highHz, SampleRate: sampleRate, Order: order}
}

// LowpassSpec is shorthand for a Butterworth low-pass spec.
func LowpassSpec(cutoffHz, sampleRate float64, order int) Spec {
	return Spec{Kind: Lowpass, HighHz: cutoffHz, SampleRate: sampleRate, Order: order}
}

// HighpassSpec is shorthand for a Butterworth high-pass spec.
func HighpassSpec(cutoffHz, sampleRate float64, order int) Spec {
	return Spec{Kind: Highpass, LowHz: cutoffHz, SampleRate: sampleRate, Order: order}
}

// NotchSpec is shorthand for a notch spec.
func NotchSpec(centerHz, q, sampleRate float64) Spec {
	return Spec{Kind: Notch, CenterHz: centerHz, Q: q, SampleRate: sampleRate}
}

func (s Spec) order() int {
	if s.Order > 0 {
		return s.Order
	}
	return DefaultOrder(s.Kind)
}

func (s Spec) notchQ() float64 {
	if s.Q > 0 {
		return s.Q
	}
	return DefaultNotchQ
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Validate reports why a spec would design to a passthrough, nil otherwise.
func (s Spec) Validate() error {
	if !finitePositive(s.SampleRate) {
		return fmt.Errorf("%w: sample rate %v must be positive", ErrInvalidSpec, s.SampleRate)
	}
	switch s.Kind {
	case Lowpass:
		if !finitePositive(s.HighHz) {
			return fmt.Errorf("%w: low-pass cutoff %v must be positive", ErrInvalidSpec, s.HighHz)
		}
	case Highpass:
		if !finitePositive(s.LowHz) {
			return fmt.Errorf("%w: high-pass cutoff %v must be positive", ErrInvalidSpec, s.LowHz)
		}
	case Bandpass:
		if math.IsNaN(s.LowHz) || math.IsNaN(s.HighHz) || math.IsInf(s.LowHz, 0) || math.IsInf(s.HighHz, 0) {
			return fmt.Errorf("%w: band edges must be finite", ErrInvalidSpec)
		}
		if s.LowHz >= s.HighHz {
			return fmt.Errorf("%w: low edge %v Hz must be below high edge %v Hz", ErrInvalidSpec, s.LowHz, s.HighHz)
		}
		lo, hi := s.normalizedBand()
		if !(lo < hi) {
			return fmt.Errorf("%w: band %v-%v Hz collapses at %v Hz sampling", ErrInvalidSpec, s.LowHz, s.HighHz, s.SampleRate)
		}
	case Notch:
		if !finitePositive(s.CenterHz) {
			return fmt.Errorf("%w: notch frequency %v must be positive", ErrInvalidSpec, s.CenterHz)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidSpec, int(s.Kind))
	}
	return nil
}

func (s Spec) nyquist() float64 {
	return 0.5 * s.SampleRate
}

func (s Spec) normalizedBand() (lo, hi float64) {
	nyq := s.nyquist()
	lo = math.Max(math.Max(s.LowHz, 0)/nyq, minNormalized)
	hi = math.Min(math.Max(s.HighHz, 0)/nyq, maxNormalized)
	return lo, hi
}

func (s Spec) normalizedCutoff(hz float64) float64 {
	return math.Min(math.Max(hz/s.nyquist(), minNormalized), maxNormalized)
}

// Design turns a spec into a cascade of second-order sections. An invalid
// spec yields an empty cascade, which filters as a passthrough.
func Design(s Spec) SOS {
	if s.Validate() != nil {
		return nil
	}
	switch s.Kind {
	case Lowpass:
		return butterworthLowpass(s.normalizedCutoff(s.HighHz), s.order())
	case Highpass:
		return butterworthHighpass(s.normalizedCutoff(s.LowHz), s.order())
	case Bandpass:
		lo, hi := s.normalizedBand()
		return butterworthBandpass(lo, hi, s.order())
	case Notch:
		w0 := math.Min(math.Max(s.CenterHz/s.nyquist(), minNormalized), maxNotchNormalized)
		return SOS{notch(w0, s.notchQ())}
	}
	return nil
}
