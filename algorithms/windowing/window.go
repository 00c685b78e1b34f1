package windowing

import (
	"fmt"
	"math"
	"strings"
)

// Type names a window function
type Type int

const (
	Hann Type = iota
	Hamming
	Blackman
	Rectangular
)

func (t Type) String() string {
	switch t {
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Blackman:
		return "blackman"
	case Rectangular:
		return "rectangular"
	default:
		return "unknown"
	}
}

// ParseType resolves a window name; "boxcar" is accepted for Rectangular
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "blackman":
		return Blackman, nil
	case "rectangular", "boxcar", "none":
		return Rectangular, nil
	default:
		return Hann, fmt.Errorf("unknown window %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window holds precomputed coefficients for one window function and size.
//
// Periodic windows (symmetric == false) divide by size rather than size-1,
// which is what spectral averaging expects.
type Window struct {
	kind         Type
	size         int
	symmetric    bool
	coefficients []float64
}

// New creates a window of the given type and size
func New(kind Type, size int, symmetric bool) *Window {
	w := &Window{
		kind:      kind,
		size:      max(size, 0),
		symmetric: symmetric,
	}
	w.generate()
	return w
}

// NewHann creates a Hann window
func NewHann(size int, symmetric bool) *Window {
	return New(Hann, size, symmetric)
}

// cosine-sum weights a0 - a1 cos(x) + a2 cos(2x)
func (w *Window) weights() (a0, a1, a2 float64) {
	switch w.kind {
	case Hamming:
		return 0.54, 0.46, 0
	case Blackman:
		return 0.42, 0.5, 0.08
	case Rectangular:
		return 1, 0, 0
	default:
		return 0.5, 0.5, 0
	}
}

func (w *Window) generate() {
	w.coefficients = make([]float64, w.size)
	if w.size == 1 {
		w.coefficients[0] = 1
		return
	}

	denominator := float64(w.size)
	if w.symmetric {
		denominator = float64(w.size - 1)
	}

	a0, a1, a2 := w.weights()
	for i := range w.size {
		arg := 2 * math.Pi * float64(i) / denominator
		w.coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) []float64 {
	if len(signal) != w.size {
		return nil
	}

	windowed := make([]float64, w.size)
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}
	return nil
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// SumSquares returns the window energy, used for density scaling
func (w *Window) SumSquares() float64 {
	s := 0.0
	for _, c := range w.coefficients {
		s += c * c
	}
	return s
}

// Size returns the window size
func (w *Window) Size() int {
	return w.size
}

// Type returns the window function
func (w *Window) Type() Type {
	return w.kind
}
