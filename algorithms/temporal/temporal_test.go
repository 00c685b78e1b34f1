package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Llewarchick7/emg-force-bridge/internal/testutil"
)

func TestRectify(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 2.5}, Rectify([]float64{-1, 0, 2.5}))
	assert.Equal(t, []float64{}, Rectify(nil))
}

func TestSlidingRMSMatchesCenteredWindow(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	// N = 3: window [i-1, i+1], zero padded
	got := SlidingRMS(x, 3)
	want := []float64{
		math.Sqrt((0 + 1 + 4) / 3.0),
		math.Sqrt((1 + 4 + 9) / 3.0),
		math.Sqrt((4 + 9 + 16) / 3.0),
		math.Sqrt((9 + 16 + 25) / 3.0),
		math.Sqrt((16 + 25 + 0) / 3.0),
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	// N = 4: window [i-2, i+1]
	got = SlidingRMS(x, 4)
	want = []float64{
		math.Sqrt((1 + 4) / 4.0),
		math.Sqrt((1 + 4 + 9) / 4.0),
		math.Sqrt((1 + 4 + 9 + 16) / 4.0),
		math.Sqrt((4 + 9 + 16 + 25) / 4.0),
		math.Sqrt((9 + 16 + 25) / 4.0),
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestSlidingRMSDegenerateWindow(t *testing.T) {
	x := []float64{-1, 2, -3}
	assert.Equal(t, []float64{1, 2, 3}, SlidingRMS(x, 1))
	assert.Equal(t, []float64{1, 2, 3}, SlidingRMS(x, 0))
	assert.Equal(t, []float64{}, SlidingRMS(nil, 10))

	// window longer than the signal still preserves length
	assert.Len(t, SlidingRMS(x, 50), 3)
}

func TestSlidingRMSOfSineConverges(t *testing.T) {
	const fs, amp = 1000.0, 2.0
	x := testutil.Sine(5000, 50, amp, fs)

	// whole periods (20 samples) give A/sqrt(2) exactly
	for _, win := range []int{200, 400, 1000} {
		assert.InDelta(t, amp/math.Sqrt2, SlidingRMS(x, win)[2500], 1e-9, "window %d", win)
	}
	// partial periods only perturb by O(1/N)
	assert.InDelta(t, amp/math.Sqrt2, SlidingRMS(x, 401)[2500], 0.01)
	assert.InDelta(t, amp/math.Sqrt2, SlidingRMS(x, 1001)[2500], 0.005)
}

func TestWindowSamples(t *testing.T) {
	assert.Equal(t, 86, WindowSamples(860, 0.1))
	assert.Equal(t, 100, WindowSamples(1000, 0.1))
	assert.Equal(t, 1, WindowSamples(1000, 0))
	assert.Equal(t, 1, WindowSamples(-5, 0.1))
}

func TestLowpassEnvelope(t *testing.T) {
	const fs = 1000.0
	x := testutil.Sine(3000, 80, 1, fs)
	env := LowpassEnvelope(x, fs, 5, 2)
	require.Len(t, env, len(x))
	// mean of |sin| is 2/pi
	assert.InDelta(t, 2/math.Pi, env[1500], 0.02)

	// too short to filter: rectified passthrough
	assert.Equal(t, []float64{1, 2}, LowpassEnvelope([]float64{-1, 2}, fs, 5, 2))
}

func TestEnvelopeMethodParsing(t *testing.T) {
	m, err := ParseEnvelopeMethod("LowPass")
	require.NoError(t, err)
	assert.Equal(t, EnvelopeLowpass, m)

	var decoded EnvelopeMethod
	require.NoError(t, decoded.UnmarshalText([]byte("rms")))
	assert.Equal(t, EnvelopeRMS, decoded)

	assert.Error(t, decoded.UnmarshalText([]byte("hilbert")))

	text, err := EnvelopeLowpass.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lowpass", string(text))
}

func TestEnvelopeComputePreservesLength(t *testing.T) {
	x := testutil.Noise(250, 1, 11)
	for _, m := range []EnvelopeMethod{EnvelopeRMS, EnvelopeLowpass} {
		e := NewEnvelope(m, 1000)
		env := e.Compute(x)
		assert.Len(t, env, len(x), m.String())
		testutil.RequireFinite(t, env)
	}
	assert.Equal(t, []float64{}, NewEnvelope(EnvelopeRMS, 1000).Compute(nil))
}

func TestActivationAnalytics(t *testing.T) {
	env := []float64{0, 0.2, 0.6, 0.7, 0.1, 0.8, 0.9, 0.95}

	pct, n := ActivationPercent(env, 0.5)
	assert.Equal(t, 8, n)
	assert.InDelta(t, 62.5, pct, 1e-12)

	assert.Equal(t, 3, ThresholdCrossings(env, 0.5))
	assert.Equal(t, 0, ThresholdCrossings(env[:1], 0.5))

	assert.Equal(t, []Segment{{Start: 2, End: 4}, {Start: 5, End: 8}}, ActiveSegments(env, 0.5, 2))
	assert.Equal(t, []Segment{{Start: 5, End: 8}}, ActiveSegments(env, 0.5, 3))

	pct, n = ActivationPercent(nil, 0.5)
	assert.Zero(t, pct)
	assert.Zero(t, n)
}
