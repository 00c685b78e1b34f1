package filters

// ZeroPhase runs the cascade forward then backward so the net phase shift is
// zero and the magnitude response is squared.
//
// The signal is extended at both ends by an odd reflection of 3*taps samples
// and each pass starts from the steady state of its first sample, which keeps
// edge transients out of the result. Signals too short to extend, and empty
// cascades, come back as an unchanged copy with ok == false.
func ZeroPhase(signal []float64, sos SOS) (out []float64, ok bool) {
	out = make([]float64, len(signal))
	copy(out, signal)
	if sos.Passthrough() {
		return out, false
	}

	padlen := 3 * sos.taps()
	if len(signal) <= padlen {
		return out, false
	}

	ext := oddExtend(signal, padlen)
	zi := sos.initialStates()

	forward := runCascade(sos, ext, zi, ext[0])
	reverse(forward)
	backward := runCascade(sos, forward, zi, forward[0])
	reverse(backward)

	copy(out, backward[padlen:padlen+len(signal)])
	return out, true
}

// oddExtend reflects n samples about each endpoint: 2*x[0] - x[n..1] before
// the signal and 2*x[last] - x[last-1..last-n] after it.
func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, 0, len(x)+2*n)
	for i := n; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= n; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}
	return ext
}

// runCascade filters x through every section, seeding each delay line with
// the unit steady state zi scaled by x0.
func runCascade(sos SOS, x []float64, zi []state, x0 float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	for i, c := range sos {
		st := state{d0: zi[i].d0 * x0, d1: zi[i].d1 * x0}
		for n, v := range y {
			y[n] = c.process(&st, v)
		}
	}
	return y
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
