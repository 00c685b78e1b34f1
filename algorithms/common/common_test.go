package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingBufferEvictsOldest(t *testing.T) {
	rb := NewRollingBuffer(3)
	assert.True(t, rb.IsEmpty())

	rb.Write([]float64{1, 2})
	assert.Equal(t, []float64{1, 2}, rb.Snapshot())

	rb.Write([]float64{3, 4, 5})
	assert.True(t, rb.IsFull())
	assert.Equal(t, []float64{3, 4, 5}, rb.Snapshot())

	last, ok := rb.Last()
	assert.True(t, ok)
	assert.Equal(t, 5.0, last)

	rb.Clear()
	assert.Equal(t, 0, rb.Len())
	_, ok = rb.Last()
	assert.False(t, ok)
	assert.Equal(t, []float64{}, rb.Snapshot())
}

func TestRollingBufferMinimumCapacity(t *testing.T) {
	rb := NewRollingBuffer(0)
	assert.Equal(t, 1, rb.Capacity())
	rb.Push(7)
	rb.Push(8)
	assert.Equal(t, []float64{8}, rb.Snapshot())
}

func TestStatistics(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, Mean(x), 1e-12)
	assert.InDelta(t, 1.25, PopVariance(x), 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), PopStdDev(x), 1e-12)
	assert.InDelta(t, 2.5, Median(x), 1e-12)
	assert.InDelta(t, 3.0, Median([]float64{5, 3, 1}), 1e-12)
	assert.InDelta(t, math.Sqrt(7.5), RMS(x), 1e-12)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, PopStdDev(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, -1, ArgMax(nil))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []float64{1, -3}, Diff([]float64{0, 1, -2}))
	assert.Equal(t, []float64{}, Diff([]float64{1}))
	assert.Equal(t, 3.0, MaxAbs([]float64{1, -3, 2}))
	assert.Equal(t, 1, ArgMax([]float64{1, 4, 4}))
	assert.Equal(t, -1.0, Sign(-0.5))
	assert.Equal(t, 0.0, Sign(0))
	assert.False(t, AllFinite([]float64{1, math.NaN()}))
	assert.True(t, AllFinite([]float64{1, 2}))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
}
