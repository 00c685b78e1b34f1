package normalization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUncalibratedIsNoOp(t *testing.T) {
	n := NewNormalizer()
	x := []float64{1, -2, 3}

	assert.Equal(t, x, n.SubtractBaseline(x))
	assert.Equal(t, x, n.ZScore(x))
	assert.Equal(t, x, n.ToPercentMVC(x))
	assert.Equal(t, 7.0, n.PercentMVC(7))
	assert.False(t, n.HasBaseline())
	assert.False(t, n.HasMVC())
	assert.Equal(t, Calibration{}, n.State())

	// results never alias the input
	out := n.ZScore(x)
	out[0] = 100
	assert.Equal(t, 1.0, x[0])
}

func TestPercentMVC(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, []float64{1.0}, n.ToPercentMVC([]float64{1.0}))

	n.FitMVC([]float64{0.5, 2.0, 1.2})
	require.True(t, n.HasMVC())
	assert.Equal(t, []float64{50.0}, n.ToPercentMVC([]float64{1.0}))
	assert.Equal(t, 100.0, n.PercentMVC(2.0))
}

func TestNonPositiveMVCIsIgnored(t *testing.T) {
	n := NewNormalizer().FitMVC([]float64{-1, -3})
	assert.False(t, n.HasMVC())
	assert.Equal(t, []float64{4}, n.ToPercentMVC([]float64{4}))
}

func TestBaseline(t *testing.T) {
	n := NewNormalizer().FitBaseline([]float64{1, 3})
	require.True(t, n.HasBaseline())

	assert.Equal(t, []float64{-1, 0, 1}, n.SubtractBaseline([]float64{1, 2, 3}))

	z := n.ZScore([]float64{1, 2, 3})
	assert.InDelta(t, -1.0, z[0], 1e-9)
	assert.InDelta(t, 0.0, z[1], 1e-9)
	assert.InDelta(t, 1.0, z[2], 1e-9)

	// a constant baseline does not divide by zero
	flat := NewNormalizer().FitBaseline([]float64{2, 2, 2})
	for _, v := range flat.ZScore([]float64{2, 3}) {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestEmptySegmentsDoNotCalibrate(t *testing.T) {
	n := NewNormalizer().FitBaseline(nil).FitMVC(nil)
	assert.False(t, n.HasBaseline())
	assert.False(t, n.HasMVC())
}

func TestCalibrationRoundTrip(t *testing.T) {
	n := NewNormalizer().FitBaseline([]float64{1, 3}).FitMVC([]float64{4})
	restored := FromCalibration(n.State())

	x := []float64{0.5, 2, 8}
	assert.Equal(t, n.ZScore(x), restored.ZScore(x))
	assert.Equal(t, n.ToPercentMVC(x), restored.ToPercentMVC(x))

	mean := 2.0
	partial := FromCalibration(Calibration{BaselineMean: &mean})
	assert.True(t, partial.HasBaseline())
	assert.False(t, partial.HasMVC())
	assert.Equal(t, []float64{1}, partial.SubtractBaseline([]float64{3}))
	assert.Equal(t, []float64{3}, partial.ZScore([]float64{3}))

	state := partial.State()
	require.NotNil(t, state.BaselineMean)
	assert.Nil(t, state.BaselineStd)
}
