package spectral

import (
	"fmt"
	"math"
	"strings"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
)

// DefaultSegmentLength is the Welch segment length used when none is given
const DefaultSegmentLength = 256

// NoOverlap requests adjacent, non-overlapping Welch segments
const NoOverlap = -1

// Estimate is a one-sided power spectrum. Frequencies ascend and Power has
// the same length.
type Estimate struct {
	Frequencies []float64 `json:"frequencies"`
	Power       []float64 `json:"power"`
}

// Empty reports whether the estimate holds no bins
func (e Estimate) Empty() bool {
	return len(e.Frequencies) == 0
}

// MeanFrequency is the power-weighted centroid of the estimate
func (e Estimate) MeanFrequency() float64 {
	return MeanFrequency(e.Frequencies, e.Power)
}

// MedianFrequency is the frequency splitting the estimate's power in half
func (e Estimate) MedianFrequency() float64 {
	return MedianFrequency(e.Frequencies, e.Power)
}

// Method selects the PSD estimator
type Method int

const (
	// MethodWelch averages windowed, overlapping segment periodograms
	MethodWelch Method = iota
	// MethodFFT is a single unnormalized periodogram of the zero-mean signal
	MethodFFT
)

func (m Method) String() string {
	switch m {
	case MethodFFT:
		return "fft"
	case MethodWelch:
		return "welch"
	default:
		return "unknown"
	}
}

// ParseMethod resolves "fft" or "welch"
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "welch":
		return MethodWelch, nil
	case "fft", "periodogram":
		return MethodFFT, nil
	default:
		return MethodWelch, fmt.Errorf("unknown psd method %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Detrend selects per-segment trend removal for Welch
type Detrend int

const (
	DetrendConstant Detrend = iota
	DetrendNone
)

func (d Detrend) String() string {
	if d == DetrendNone {
		return "none"
	}
	return "constant"
}

// MarshalText implements encoding.TextMarshaler
func (d Detrend) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Detrend) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "constant", "mean":
		*d = DetrendConstant
	case "none", "false":
		*d = DetrendNone
	default:
		return fmt.Errorf("unknown detrend %q", text)
	}
	return nil
}

// Average selects how Welch combines segment periodograms
type Average int

const (
	AverageMean Average = iota
	AverageMedian
)

func (a Average) String() string {
	if a == AverageMedian {
		return "median"
	}
	return "mean"
}

// MarshalText implements encoding.TextMarshaler
func (a Average) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Average) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "mean":
		*a = AverageMean
	case "median":
		*a = AverageMedian
	default:
		return fmt.Errorf("unknown average %q", text)
	}
	return nil
}

// WelchParams tunes the Welch estimator. The zero value means: 256-sample
// Hann segments, half overlap, constant detrend, mean averaging.
type WelchParams struct {
	// SegmentLength is clamped to the signal length; <= 0 selects 256
	SegmentLength int
	// Overlap in samples; 0 selects half a segment, NoOverlap selects none
	Overlap int
	Window  windowing.Type
	Detrend Detrend
	Average Average
}

func (p WelchParams) resolve(n int) (length, overlap int) {
	length = p.SegmentLength
	if length <= 0 {
		length = DefaultSegmentLength
	}
	length = min(length, n)

	switch {
	case p.Overlap == 0:
		overlap = length / 2
	case p.Overlap < 0:
		overlap = 0
	default:
		overlap = min(p.Overlap, length-1)
	}
	return length, overlap
}

// EstimatePSD computes a one-sided power spectrum of signal sampled at
// sampleRate. Empty signals, single samples and non-positive rates give an
// empty estimate.
func EstimatePSD(signal []float64, sampleRate float64, method Method, params WelchParams) Estimate {
	if len(signal) < 2 || !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Estimate{Frequencies: []float64{}, Power: []float64{}}
	}
	if method == MethodFFT {
		return Periodogram(signal, sampleRate)
	}
	return Welch(signal, sampleRate, params)
}

// Periodogram is |rfft(x - mean(x))|^2 without scaling, on bins k*fs/n
func Periodogram(signal []float64, sampleRate float64) Estimate {
	if len(signal) < 2 || !(sampleRate > 0) {
		return Estimate{Frequencies: []float64{}, Power: []float64{}}
	}
	mean := common.Mean(signal)
	centred := make([]float64, len(signal))
	for i, v := range signal {
		centred[i] = v - mean
	}
	return Estimate{
		Frequencies: RFFTFrequencies(len(signal), sampleRate),
		Power:       NewFFT().OneSidedPower(centred),
	}
}

// Welch averages density-scaled periodograms of windowed segments
func Welch(signal []float64, sampleRate float64, params WelchParams) Estimate {
	if len(signal) < 2 || !(sampleRate > 0) {
		return Estimate{Frequencies: []float64{}, Power: []float64{}}
	}

	length, overlap := params.resolve(len(signal))
	step := length - overlap
	segments := (len(signal) - overlap) / step

	win := windowing.New(params.Window, length, false)
	scale := 1.0
	if ss := win.SumSquares(); ss > 0 {
		scale = 1 / (sampleRate * ss)
	}

	f := NewFFT()
	bins := length/2 + 1
	periodograms := make([][]float64, 0, segments)
	buf := make([]float64, length)
	for s := range segments {
		copy(buf, signal[s*step:s*step+length])
		if params.Detrend == DetrendConstant {
			m := common.Mean(buf)
			for i := range buf {
				buf[i] -= m
			}
		}
		_ = win.ApplyInPlace(buf)

		p := f.OneSidedPower(buf)
		for k := range p {
			p[k] *= scale
			// fold negative frequencies, except DC and an even-length Nyquist bin
			if k > 0 && !(length%2 == 0 && k == bins-1) {
				p[k] *= 2
			}
		}
		periodograms = append(periodograms, p)
	}

	power := make([]float64, bins)
	switch params.Average {
	case AverageMedian:
		bias := medianBias(len(periodograms))
		column := make([]float64, len(periodograms))
		for k := range power {
			for s, p := range periodograms {
				column[s] = p[k]
			}
			power[k] = common.Median(column) / bias
		}
	default:
		for _, p := range periodograms {
			for k, v := range p {
				power[k] += v
			}
		}
		for k := range power {
			power[k] /= float64(len(periodograms))
		}
	}

	return Estimate{
		Frequencies: RFFTFrequencies(length, sampleRate),
		Power:       power,
	}
}

// medianBias corrects the median of n chi-squared(2) periodograms towards
// their mean
func medianBias(n int) float64 {
	bias := 1.0
	for i := 1; i <= (n-1)/2; i++ {
		ii := 2 * float64(i)
		bias += 1/(ii+1) - 1/ii
	}
	return bias
}

// Peak returns the frequency of the strongest bin, 0 for an empty estimate
func (e Estimate) Peak() float64 {
	n := min(len(e.Frequencies), len(e.Power))
	if n == 0 {
		return 0
	}
	return e.Frequencies[common.ArgMax(e.Power[:n])]
}
