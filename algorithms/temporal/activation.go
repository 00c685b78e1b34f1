package temporal

// Activation analytics over an envelope. A sample is active when its envelope
// value is at or above the threshold.

// Segment is a half-open sample range [Start, End)
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of samples in the segment
func (s Segment) Len() int {
	return s.End - s.Start
}

// ActivationPercent returns the share of active samples in percent (0 for an
// empty envelope) and the number of samples inspected.
func ActivationPercent(envelope []float64, threshold float64) (percent float64, n int) {
	if len(envelope) == 0 {
		return 0, 0
	}
	active := 0
	for _, v := range envelope {
		if v >= threshold {
			active++
		}
	}
	return float64(active) / float64(len(envelope)) * 100, len(envelope)
}

// ThresholdCrossings counts transitions between active and inactive samples
func ThresholdCrossings(envelope []float64, threshold float64) int {
	if len(envelope) < 2 {
		return 0
	}
	crossings := 0
	prev := envelope[0] >= threshold
	for _, v := range envelope[1:] {
		above := v >= threshold
		if above != prev {
			crossings++
		}
		prev = above
	}
	return crossings
}

// ActiveSegments groups consecutive active samples into segments, dropping
// runs shorter than minSamples.
func ActiveSegments(envelope []float64, threshold float64, minSamples int) []Segment {
	segments := []Segment{}
	start := -1
	for i, v := range envelope {
		active := v >= threshold
		switch {
		case active && start == -1:
			start = i
		case !active && start != -1:
			if i-start >= minSamples {
				segments = append(segments, Segment{Start: start, End: i})
			}
			start = -1
		}
	}

	// run reaching the end of the envelope
	if start != -1 && len(envelope)-start >= minSamples {
		segments = append(segments, Segment{Start: start, End: len(envelope)})
	}
	return segments
}
