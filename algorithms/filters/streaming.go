package filters

// StreamingFilter is a causal cascade that carries its delay lines across
// calls, so a signal split into chunks of any size filters exactly like the
// whole signal in one call. It is not safe for concurrent use; give each
// channel its own instance.
type StreamingFilter struct {
	sos    SOS
	states []state
}

// NewStreamingFilter creates a filter in the zero state. An empty cascade
// gives a passthrough filter.
func NewStreamingFilter(sos SOS) *StreamingFilter {
	cp := make(SOS, len(sos))
	copy(cp, sos)
	return &StreamingFilter{
		sos:    cp,
		states: make([]state, len(cp)),
	}
}

// NewStreamingFromSpec designs spec and wraps it in a StreamingFilter.
func NewStreamingFromSpec(spec Spec) *StreamingFilter {
	return NewStreamingFilter(Design(spec))
}

// ProcessSample filters one sample
func (f *StreamingFilter) ProcessSample(x float64) float64 {
	y := x
	for i, c := range f.sos {
		y = c.process(&f.states[i], y)
	}
	return y
}

// Process filters a chunk and returns a new slice of the same length
func (f *StreamingFilter) Process(chunk []float64) []float64 {
	out := make([]float64, len(chunk))
	for i, x := range chunk {
		out[i] = f.ProcessSample(x)
	}
	return out
}

// Reset clears the delay lines back to the zero-input steady state
func (f *StreamingFilter) Reset() {
	clear(f.states)
}

// Passthrough reports whether the filter was built from an invalid spec
func (f *StreamingFilter) Passthrough() bool {
	return f.sos.Passthrough()
}

// Sections returns a copy of the cascade coefficients
func (f *StreamingFilter) Sections() SOS {
	cp := make(SOS, len(f.sos))
	copy(cp, f.sos)
	return cp
}
