package filters

import (
	"math"
	"math/cmplx"
	"sort"
)

// butterworthBandpass designs an order-N Butterworth band-pass (2N poles)
// between normalized edges lo < hi, returned as N second-order sections.
//
// The analog low-pass prototype is shifted to the band with the usual
// s -> (s^2 + w0^2)/(s*bw) substitution on prewarped edges, then mapped to
// z with the bilinear transform. Every section carries one zero at z = 1
// and one at z = -1. The cascade is scaled to unit gain at the band centre.
func butterworthBandpass(lo, hi float64, order int) SOS {
	// bilinear transform on a normalized frequency axis (Nyquist = 1)
	const fs = 2.0
	wl := 2 * fs * math.Tan(math.Pi*lo/fs)
	wh := 2 * fs * math.Tan(math.Pi*hi/fs)
	bw := wh - wl
	w0sq := wl * wh

	bilinear := func(s complex128) complex128 {
		return (complex(2*fs, 0) + s) / (complex(2*fs, 0) - s)
	}

	// each prototype pole p yields the band pair s^2 - p*bw*s + w0^2 = 0
	bandPoles := func(p complex128) (complex128, complex128) {
		pb := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pb*pb - complex(w0sq, 0))
		s1 := pb + d
		if cmplx.Abs(pb-d) > cmplx.Abs(s1) {
			s1 = pb - d
		}
		return s1, complex(w0sq, 0) / s1
	}

	conjugateSection := func(z complex128) Coefficients {
		return Coefficients{B0: 1, B2: -1, A1: -2 * real(z), A2: real(z * cmplx.Conj(z))}
	}

	sections := make(SOS, 0, order)
	for k := range order / 2 {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		p := cmplx.Rect(1, theta)
		s1, s2 := bandPoles(p)
		sections = append(sections, conjugateSection(bilinear(s1)), conjugateSection(bilinear(s2)))
	}
	if order%2 != 0 {
		s1, s2 := bandPoles(complex(-1, 0))
		z1, z2 := bilinear(s1), bilinear(s2)
		sections = append(sections, Coefficients{
			B0: 1,
			B2: -1,
			A1: -real(z1 + z2),
			A2: real(z1 * z2),
		})
	}

	// poles nearest the unit circle go last
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].A2 < sections[j].A2
	})

	center := 2 * math.Atan(math.Sqrt(w0sq)/(2*fs))
	if mag := cmplx.Abs(sections.transfer(center)); mag > 0 {
		sections[0].B0 /= mag
		sections[0].B2 /= mag
	}
	return sections
}
