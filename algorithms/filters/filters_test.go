package filters

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Llewarchick7/emg-force-bridge/internal/testutil"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"bandpass", BandpassSpec(20, 450, 1000, 4), false},
		{"bandpass above nyquist clamps", BandpassSpec(20, 450, 860, 4), false},
		{"inverted band", BandpassSpec(450, 20, 1000, 4), true},
		{"equal edges", BandpassSpec(50, 50, 1000, 4), true},
		{"nan edge", BandpassSpec(math.NaN(), 450, 1000, 4), true},
		{"zero sample rate", BandpassSpec(20, 450, 0, 4), true},
		{"negative sample rate", LowpassSpec(5, -1, 2), true},
		{"missing lowpass cutoff", LowpassSpec(0, 1000, 2), true},
		{"missing highpass cutoff", HighpassSpec(math.NaN(), 1000, 2), true},
		{"notch", NotchSpec(60, 30, 1000), false},
		{"notch without frequency", NotchSpec(0, 30, 1000), true},
		{"unknown kind", Spec{Kind: Kind(42), SampleRate: 1000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSpec))
				assert.True(t, Design(tt.spec).Passthrough())
				return
			}
			require.NoError(t, err)
			assert.False(t, Design(tt.spec).Passthrough())
		})
	}
}

func TestDesignSectionCounts(t *testing.T) {
	assert.Len(t, Design(BandpassSpec(20, 450, 1000, 4)), 4)
	assert.Len(t, Design(BandpassSpec(20, 450, 1000, 3)), 3)
	assert.Len(t, Design(BandpassSpec(20, 450, 1000, 0)), 4)
	assert.Len(t, Design(LowpassSpec(5, 1000, 2)), 1)
	assert.Len(t, Design(LowpassSpec(5, 1000, 3)), 2)
	assert.Len(t, Design(HighpassSpec(20, 1000, 0)), 1)
	assert.Len(t, Design(NotchSpec(60, 0, 1000)), 1)
}

func TestBandpassResponse(t *testing.T) {
	const fs = 1000.0
	sos := Design(BandpassSpec(20, 450, fs, 4))
	require.True(t, sos.Stable())

	mag, _ := sos.Response(100, fs)
	assert.InDelta(t, 1.0, mag, 0.01)

	mag, _ = sos.Response(1, fs)
	assert.Less(t, mag, 1e-3)

	mag, _ = sos.Response(0, fs)
	assert.Less(t, mag, 1e-9)

	// the clamped upper edge at 860 Hz still yields a stable design
	clamped := Design(BandpassSpec(20, 450, 860, 4))
	require.Len(t, clamped, 4)
	assert.True(t, clamped.Stable())
	mag, _ = clamped.Response(100, 860)
	assert.InDelta(t, 1.0, mag, 0.01)
}

func TestLowHighpassCutoffIsHalfPower(t *testing.T) {
	const fs = 1000.0
	for _, order := range []int{1, 2, 3, 4, 5} {
		lp := Design(LowpassSpec(50, fs, order))
		mag, _ := lp.Response(50, fs)
		assert.InDeltaf(t, 1/math.Sqrt2, mag, 1e-9, "lowpass order %d", order)
		mag, _ = lp.Response(0, fs)
		assert.InDeltaf(t, 1.0, mag, 1e-9, "lowpass DC order %d", order)

		hp := Design(HighpassSpec(50, fs, order))
		mag, _ = hp.Response(50, fs)
		assert.InDeltaf(t, 1/math.Sqrt2, mag, 1e-9, "highpass order %d", order)
		mag, _ = hp.Response(0, fs)
		assert.InDeltaf(t, 0.0, mag, 1e-9, "highpass DC order %d", order)
	}
}

func TestNotchResponse(t *testing.T) {
	const fs = 1000.0
	sos := Design(NotchSpec(60, 30, fs))
	mag, _ := sos.Response(60, fs)
	assert.Less(t, mag, 1e-9)

	mag, _ = sos.Response(200, fs)
	assert.InDelta(t, 1.0, mag, 0.01)

	// higher Q narrows the null
	wide := Design(NotchSpec(60, 5, fs))
	narrow := Design(NotchSpec(60, 50, fs))
	wMag, _ := wide.Response(55, fs)
	nMag, _ := narrow.Response(55, fs)
	assert.Less(t, wMag, nMag)
}

func TestZeroInputGivesZeroOutput(t *testing.T) {
	zeros := make([]float64, 500)
	out, ok := ApplyBandpass(zeros, 20, 450, 1000, 4)
	require.True(t, ok)
	assert.Equal(t, zeros, out)

	sf := NewStreamingFromSpec(BandpassSpec(20, 450, 1000, 4))
	assert.Equal(t, zeros, sf.Process(zeros))
}

func TestPassthroughContract(t *testing.T) {
	x := testutil.Add(testutil.Sine(300, 50, 1, 1000), testutil.Noise(300, 0.2, 1))

	cases := []struct {
		name string
		run  func() ([]float64, bool)
	}{
		{"low >= high", func() ([]float64, bool) { return ApplyBandpass(x, 300, 100, 1000, 4) }},
		{"zero fs", func() ([]float64, bool) { return ApplyBandpass(x, 20, 450, 0, 4) }},
		{"short signal", func() ([]float64, bool) { return ApplyLowpass(x[:9], 5, 1000, 2) }},
		{"missing cutoff", func() ([]float64, bool) { return ApplyHighpass(x, 0, 1000, 2) }},
		{"missing notch", func() ([]float64, bool) { return ApplyNotch(x, -60, 30, 1000) }},
		{"too short to extend", func() ([]float64, bool) { return ApplyBandpass(x[:20], 20, 450, 1000, 4) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := tc.run()
			assert.False(t, ok)
			assert.Equal(t, x[:len(out)], out)
		})
	}
}

func TestPassthroughReturnsCopy(t *testing.T) {
	x := []float64{1, 2, 3}
	out, ok := ApplyLowpass(x, 5, 1000, 2)
	require.False(t, ok)
	out[0] = 99
	assert.Equal(t, 1.0, x[0])
}

func TestZeroPhaseHasNoDelay(t *testing.T) {
	const fs = 1000.0
	x := testutil.Sine(2000, 100, 1, fs)
	y, ok := ApplyBandpass(x, 20, 450, fs, 4)
	require.True(t, ok)
	require.Len(t, y, len(x))
	testutil.RequireSliceNearlyEqual(t, y[500:1500], x[500:1500], 0.01)

	slow := testutil.Sine(2000, 5, 1, fs)
	y, ok = ApplyLowpass(slow, 50, fs, 4)
	require.True(t, ok)
	testutil.RequireSliceNearlyEqual(t, y[200:1800], slow[200:1800], 1e-3)
}

func TestZeroPhaseKeepsConstantThroughLowpass(t *testing.T) {
	x := testutil.Constant(200, 3.5)
	y, ok := ApplyLowpass(x, 5, 1000, 2)
	require.True(t, ok)
	testutil.RequireSliceNearlyEqual(t, y, x, 1e-9)
}

func TestNotchRemovesPowerLine(t *testing.T) {
	const fs = 1000.0
	hum := testutil.Sine(3000, 60, 1, fs)
	y, ok := ApplyNotch(hum, 60, 30, fs)
	require.True(t, ok)
	assert.Less(t, testutil.MaxAbs(y[1000:2000]), 0.05)
}

func TestStreamingChunkInvariance(t *testing.T) {
	const fs = 860.0
	x := testutil.Add(testutil.Sine(1000, 80, 1, fs), testutil.Sine(1000, 140, 0.5, fs), testutil.Noise(1000, 0.1, 7))
	spec := BandpassSpec(20, 450, fs, 4)

	whole := NewStreamingFromSpec(spec).Process(x)

	chunked := NewStreamingFromSpec(spec)
	var got []float64
	sizes := []int{1, 7, 64, 3, 200, 13}
	for i, pos := 0, 0; pos < len(x); i++ {
		end := min(pos+sizes[i%len(sizes)], len(x))
		got = append(got, chunked.Process(x[pos:end])...)
		pos = end
	}
	assert.Equal(t, whole, got)
	testutil.RequireFinite(t, got)
}

func TestStreamingReset(t *testing.T) {
	spec := LowpassSpec(10, 1000, 2)
	x := testutil.Noise(100, 1, 3)

	f := NewStreamingFromSpec(spec)
	first := f.Process(x)
	f.Process(testutil.Noise(50, 1, 4))
	f.Reset()
	assert.Equal(t, first, f.Process(x))
}

func TestStreamingPassthrough(t *testing.T) {
	f := NewStreamingFromSpec(BandpassSpec(100, 10, 1000, 4))
	assert.True(t, f.Passthrough())
	x := []float64{1, -2, 3}
	assert.Equal(t, x, f.Process(x))
	assert.Empty(t, f.Sections())
}

func TestStreamingIsCausal(t *testing.T) {
	f := NewStreamingFromSpec(LowpassSpec(10, 1000, 2))
	impulse := make([]float64, 50)
	impulse[10] = 1
	y := f.Process(impulse)
	for i := range 10 {
		assert.Equal(t, 0.0, y[i])
	}
	assert.NotEqual(t, 0.0, y[10])
}

func TestTaps(t *testing.T) {
	assert.Equal(t, 9, Design(BandpassSpec(20, 450, 1000, 4)).taps())
	assert.Equal(t, 4, Design(LowpassSpec(20, 1000, 3)).taps())
	assert.Equal(t, 3, Design(NotchSpec(60, 30, 1000)).taps())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bandpass", Bandpass.String())
	assert.Equal(t, "notch", Notch.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
