package filters

// Apply designs spec and runs it zero-phase over signal. It never fails: too
// short a signal, a non-positive sample rate, missing cutoffs or an inverted
// band all return an unchanged copy. The bool reports whether filtering
// actually happened.
func Apply(signal []float64, spec Spec) ([]float64, bool) {
	if len(signal) < MinSignalLength {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out, false
	}
	return ZeroPhase(signal, Design(spec))
}

// ApplyBandpass filters between lowHz and highHz. An order of zero selects
// the default of 4.
func ApplyBandpass(signal []float64, lowHz, highHz, sampleRate float64, order int) ([]float64, bool) {
	return Apply(signal, BandpassSpec(lowHz, highHz, sampleRate, order))
}

// ApplyLowpass keeps content below cutoffHz (default order 4).
func ApplyLowpass(signal []float64, cutoffHz, sampleRate float64, order int) ([]float64, bool) {
	return Apply(signal, LowpassSpec(cutoffHz, sampleRate, order))
}

// ApplyHighpass keeps content above cutoffHz (default order 2).
func ApplyHighpass(signal []float64, cutoffHz, sampleRate float64, order int) ([]float64, bool) {
	return Apply(signal, HighpassSpec(cutoffHz, sampleRate, order))
}

// ApplyNotch rejects a narrow band around centerHz. q <= 0 selects
// DefaultNotchQ.
func ApplyNotch(signal []float64, centerHz, q, sampleRate float64) ([]float64, bool) {
	return Apply(signal, NotchSpec(centerHz, q, sampleRate))
}
