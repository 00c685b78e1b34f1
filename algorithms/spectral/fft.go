package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps mjibson/go-dsp for real-valued input
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the full complex spectrum of x. go-dsp handles any length,
// not only powers of two.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// OneSidedPower returns |X[k]|^2 for k = 0..n/2, unnormalized
func (f *FFT) OneSidedPower(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}
	spectrum := f.Compute(x)
	bins := len(x)/2 + 1
	power := make([]float64, bins)
	for k := range bins {
		re, im := real(spectrum[k]), imag(spectrum[k])
		power[k] = re*re + im*im
	}
	return power
}

// RFFTFrequencies returns the n/2+1 bin centres k*fs/n of a real FFT of
// length n
func RFFTFrequencies(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	freqs := make([]float64, n/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * sampleRate / float64(n)
	}
	return freqs
}
