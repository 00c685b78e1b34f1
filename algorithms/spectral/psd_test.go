package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
	"github.com/Llewarchick7/emg-force-bridge/internal/testutil"
)

const fs = 1000.0

func TestFFTPeakOnSine(t *testing.T) {
	x := testutil.Sine(1000, 50, 1, fs)

	est := EstimatePSD(x, fs, MethodFFT, WelchParams{})
	require.Len(t, est.Frequencies, 501)
	require.Len(t, est.Power, 501)
	assert.Equal(t, 1.0, est.Frequencies[1])

	assert.InDelta(t, 50, est.Peak(), 1)
	assert.InDelta(t, 50, est.MeanFrequency(), 1)
	assert.InDelta(t, 50, est.MedianFrequency(), 1)
}

func TestPeriodogramRemovesMean(t *testing.T) {
	x := testutil.Add(testutil.Sine(500, 100, 1, fs), testutil.Constant(500, 3))
	est := Periodogram(x, fs)
	assert.Less(t, est.Power[0], 1e-12)
	assert.InDelta(t, 100, est.Peak(), 2)
}

func TestEstimatePSDDegenerateInput(t *testing.T) {
	tests := []struct {
		name       string
		signal     []float64
		sampleRate float64
	}{
		{"empty", nil, fs},
		{"single sample", []float64{1}, fs},
		{"zero rate", []float64{1, 2, 3}, 0},
		{"negative rate", []float64{1, 2, 3}, -fs},
		{"infinite rate", []float64{1, 2, 3}, math.Inf(1)},
	}
	for _, tt := range tests {
		for _, method := range []Method{MethodWelch, MethodFFT} {
			t.Run(tt.name+"/"+method.String(), func(t *testing.T) {
				est := EstimatePSD(tt.signal, tt.sampleRate, method, WelchParams{})
				assert.True(t, est.Empty())
				assert.NotNil(t, est.Frequencies)
				assert.NotNil(t, est.Power)
				assert.Equal(t, 0.0, est.MeanFrequency())
				assert.Equal(t, 0.0, est.MedianFrequency())
				assert.Equal(t, 0.0, est.Peak())
			})
		}
	}
}

func TestWelchIntegratesToSignalPower(t *testing.T) {
	x := testutil.Sine(4096, 100, 1, fs)

	est := Welch(x, fs, WelchParams{SegmentLength: 256})
	require.Len(t, est.Frequencies, 129)
	df := est.Frequencies[1] - est.Frequencies[0]
	assert.InDelta(t, fs/256, df, 1e-9)

	// density scaling: the integral is the variance, A^2/2 for a sine
	assert.InDelta(t, 0.5, est.TotalPower()*df, 0.02)
	assert.InDelta(t, 100, est.Peak(), df)
}

func TestWelchSegmentLengthClamp(t *testing.T) {
	x := testutil.Sine(100, 100, 1, fs)

	est := Welch(x, fs, WelchParams{SegmentLength: 256})
	require.Len(t, est.Frequencies, 51)
	assert.Equal(t, 10.0, est.Frequencies[1])
	assert.InDelta(t, 100, est.Peak(), 10)

	// the zero value selects 256-sample segments
	long := testutil.Sine(1024, 100, 1, fs)
	assert.Len(t, Welch(long, fs, WelchParams{}).Frequencies, 129)
	assert.Len(t, Welch(long, fs, WelchParams{Overlap: NoOverlap}).Frequencies, 129)
}

func TestWelchResolveOverlap(t *testing.T) {
	length, overlap := WelchParams{}.resolve(1000)
	assert.Equal(t, 256, length)
	assert.Equal(t, 128, overlap)

	length, overlap = WelchParams{SegmentLength: 64, Overlap: NoOverlap}.resolve(1000)
	assert.Equal(t, 64, length)
	assert.Equal(t, 0, overlap)

	_, overlap = WelchParams{SegmentLength: 64, Overlap: 500}.resolve(1000)
	assert.Equal(t, 63, overlap)

	length, _ = WelchParams{SegmentLength: 512}.resolve(300)
	assert.Equal(t, 300, length)
}

func TestWelchDetrend(t *testing.T) {
	x := testutil.Add(testutil.Sine(2048, 100, 1, fs), testutil.Constant(2048, 5))

	constant := Welch(x, fs, WelchParams{Detrend: DetrendConstant})
	none := Welch(x, fs, WelchParams{Detrend: DetrendNone})

	assert.Less(t, constant.Power[0], 0.01)
	assert.Greater(t, none.Power[0], 1.0)
	assert.InDelta(t, 100, constant.Peak(), 4)
}

func TestWelchMedianAveraging(t *testing.T) {
	noise := testutil.Noise(8192, 0.1, 7)

	mean := Welch(noise, fs, WelchParams{Average: AverageMean})
	median := Welch(noise, fs, WelchParams{Average: AverageMedian})
	require.Equal(t, mean.Frequencies, median.Frequencies)

	// the bias correction brings the median of white noise back to the mean
	assert.InEpsilon(t, mean.TotalPower(), median.TotalPower(), 0.2)

	// a short burst dominates the mean but barely moves the median
	burst := append([]float64(nil), noise...)
	copy(burst[4000:4100], testutil.Sine(100, 100, 10, fs))

	burstMean := Welch(burst, fs, WelchParams{Average: AverageMean})
	burstMedian := Welch(burst, fs, WelchParams{Average: AverageMedian})
	assert.Greater(t, burstMean.TotalPower(), 10*burstMedian.TotalPower())
	assert.InEpsilon(t, median.TotalPower(), burstMedian.TotalPower(), 0.3)
}

func TestMedianBias(t *testing.T) {
	assert.Equal(t, 1.0, medianBias(1))
	assert.Equal(t, 1.0, medianBias(2))
	assert.InDelta(t, 1+1.0/3-0.5, medianBias(3), 1e-12)
	// tends to ln 2
	assert.InDelta(t, math.Ln2, medianBias(10001), 1e-3)
}

func TestWelchWindows(t *testing.T) {
	x := testutil.Sine(2048, 125, 1, fs)
	for _, w := range []windowing.Type{windowing.Hann, windowing.Hamming, windowing.Blackman, windowing.Rectangular} {
		t.Run(w.String(), func(t *testing.T) {
			est := Welch(x, fs, WelchParams{Window: w})
			df := est.Frequencies[1]
			assert.InDelta(t, 125, est.Peak(), df)
			assert.InDelta(t, 0.5, est.TotalPower()*df, 0.05)
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" FFT ")
	require.NoError(t, err)
	assert.Equal(t, MethodFFT, m)

	m, err = ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodWelch, m)

	_, err = ParseMethod("multitaper")
	assert.Error(t, err)

	var d Detrend
	require.NoError(t, d.UnmarshalText([]byte("none")))
	assert.Equal(t, DetrendNone, d)
	assert.Error(t, d.UnmarshalText([]byte("linear")))

	var a Average
	require.NoError(t, a.UnmarshalText([]byte("Median")))
	assert.Equal(t, AverageMedian, a)
	assert.Error(t, a.UnmarshalText([]byte("mode")))
}
