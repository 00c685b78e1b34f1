package windowing

import "iter"

// Segment locates one window inside a signal
type Segment struct {
	Start  int `json:"start"`
	Length int `json:"length"`
	Step   int `json:"step"`
}

// End returns the index one past the segment
func (s Segment) End() int {
	return s.Start + s.Length
}

// Count returns how many full windows of length fit a signal of n samples
// when advancing by step. Invalid lengths or steps give 0.
func Count(n, length, step int) int {
	if length <= 0 || step <= 0 || n < length {
		return 0
	}
	return (n-length)/step + 1
}

// Segments yields (start index, window) pairs over signal. Windows are
// sub-slices of signal, not copies. The sequence stops once fewer than length
// samples remain, is empty for length or step <= 0, and can be ranged over
// any number of times.
func Segments(signal []float64, length, step int) iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		n := Count(len(signal), length, step)
		for i := range n {
			start := i * step
			if !yield(start, signal[start:start+length:start+length]) {
				return
			}
		}
	}
}

// Layout lists the segments Segments would yield for a signal of n samples
func Layout(n, length, step int) []Segment {
	count := Count(n, length, step)
	out := make([]Segment, count)
	for i := range out {
		out[i] = Segment{Start: i * step, Length: length, Step: step}
	}
	return out
}

// MillisToSamples converts a duration in milliseconds to whole samples,
// truncating.
func MillisToSamples(ms, sampleRate float64) int {
	return int(ms * sampleRate / 1000)
}
