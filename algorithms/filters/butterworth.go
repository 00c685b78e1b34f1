package filters

import (
	"math"
)

// Butterworth low/high-pass cascades built from cookbook biquads. Each biquad
// takes one conjugate pole pair of the analog prototype; odd orders add a
// first-order section for the real pole. Cutoffs are normalized to Nyquist.

// butterworthQ returns the quality factor of biquad index i (0 <= i < order/2)
func butterworthQ(order, i int) float64 {
	theta := math.Pi * float64(2*i+1) / (2 * float64(order))
	return 1 / (2 * math.Sin(theta))
}

func butterworthLowpass(wn float64, order int) SOS {
	sections := make(SOS, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, cookbookLowpass(wn, butterworthQ(order, i)))
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * wn / 2)
		norm := 1 / (1 + k)
		sections = append(sections, Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm})
	}
	return sections
}

func butterworthHighpass(wn float64, order int) SOS {
	sections := make(SOS, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, cookbookHighpass(wn, butterworthQ(order, i)))
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * wn / 2)
		norm := 1 / (1 + k)
		sections = append(sections, Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm})
	}
	return sections
}

// cookbookLowpass uses the RBJ cookbook formulas with w0 = pi*wn
func cookbookLowpass(wn, q float64) Coefficients {
	w0 := math.Pi * wn
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	alpha := sinW0 / (2 * q)
	a0 := 1 + alpha
	return Coefficients{
		B0: (1 - cosW0) / 2 / a0,
		B1: (1 - cosW0) / a0,
		B2: (1 - cosW0) / 2 / a0,
		A1: -2 * cosW0 / a0,
		A2: (1 - alpha) / a0,
	}
}

func cookbookHighpass(wn, q float64) Coefficients {
	w0 := math.Pi * wn
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	alpha := sinW0 / (2 * q)
	a0 := 1 + alpha
	return Coefficients{
		B0: (1 + cosW0) / 2 / a0,
		B1: -(1 + cosW0) / a0,
		B2: (1 + cosW0) / 2 / a0,
		A1: -2 * cosW0 / a0,
		A2: (1 - alpha) / a0,
	}
}

// notch designs a second-order reject at normalized frequency w0 with
// bandwidth w0/q.
func notch(w0, q float64) Coefficients {
	w := math.Pi * w0
	bw := w / q
	beta := math.Tan(bw / 2)
	gain := 1 / (1 + beta)
	cosW := math.Cos(w)
	return Coefficients{
		B0: gain,
		B1: -2 * gain * cosW,
		B2: gain,
		A1: -2 * gain * cosW,
		A2: 2*gain - 1,
	}
}
