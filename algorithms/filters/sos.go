package filters

import (
	"math"
	"math/cmplx"
)

// Coefficients holds one second-order section with a0 normalized to 1.
//
// Sections run in Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// SOS is a cascade of second-order sections applied in order. An empty
// cascade is the identity filter.
type SOS []Coefficients

// Passthrough reports whether the cascade leaves signals unchanged.
func (s SOS) Passthrough() bool {
	return len(s) == 0
}

// state is the DF2T delay line of one section
type state struct {
	d0, d1 float64
}

func (c Coefficients) process(st *state, x float64) float64 {
	y := c.B0*x + st.d0
	st.d0 = c.B1*x - c.A1*y + st.d1
	st.d1 = c.B2*x - c.A2*y
	return y
}

// steadyState returns the delay line a section settles into under a constant
// unit input, along with the section's DC gain. A section with a pole at
// z = 1 has no steady state and gets the zero state with unit gain.
func (c Coefficients) steadyState() (state, float64) {
	den := 1 + c.A1 + c.A2
	if den == 0 {
		return state{}, 1
	}
	g := (c.B0 + c.B1 + c.B2) / den
	d1 := c.B2 - c.A2*g
	d0 := c.B1 - c.A1*g + d1
	return state{d0: d0, d1: d1}, g
}

// initialStates returns per-section delay lines for a cascade that has seen a
// constant unit input forever. Scale by the actual edge value before use.
func (s SOS) initialStates() []state {
	states := make([]state, len(s))
	scale := 1.0
	for i, c := range s {
		st, g := c.steadyState()
		states[i] = state{d0: st.d0 * scale, d1: st.d1 * scale}
		scale *= g
	}
	return states
}

// taps counts the impulse-response taps of the cascade, ignoring trailing
// zero coefficients of first-order sections.
func (s SOS) taps() int {
	zb, za := 0, 0
	for _, c := range s {
		if c.B2 == 0 {
			zb++
		}
		if c.A2 == 0 {
			za++
		}
	}
	return 2*len(s) + 1 - min(zb, za)
}

// Response evaluates the cascade's magnitude and phase at frequency hz.
func (s SOS) Response(hz, sampleRate float64) (magnitude, phase float64) {
	h := s.transfer(2 * math.Pi * hz / sampleRate)
	return cmplx.Abs(h), cmplx.Phase(h)
}

func (s SOS) transfer(w float64) complex128 {
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	h := complex(1, 0)
	for _, c := range s {
		num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
		den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
		h *= num / den
	}
	return h
}

// Stable reports whether every section's poles lie strictly inside the unit
// circle.
func (s SOS) Stable() bool {
	for _, c := range s {
		// Jury conditions for z^2 + a1 z + a2
		if math.Abs(c.A2) >= 1 || math.Abs(c.A1) >= 1+c.A2 {
			return false
		}
	}
	return true
}
