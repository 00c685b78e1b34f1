package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Llewarchick7/emg-force-bridge/config"
	"github.com/Llewarchick7/emg-force-bridge/internal/testutil"
	"github.com/Llewarchick7/emg-force-bridge/transcode"
)

const fs = 1000.0

func newAnalyzer(t *testing.T, mutate func(*config.Config)) *Analyzer {
	t.Helper()
	cfg := config.Default()
	cfg.Artifacts.ClipValue = 5
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(&cfg, nil)
}

func TestPreprocessRemovesDrift(t *testing.T) {
	a := newAnalyzer(t, nil)
	x := testutil.Add(
		testutil.Sine(2000, 100, 1, fs),
		testutil.Sine(2000, 2, 2, fs),
	)

	p := a.Preprocess(x, fs)
	require.True(t, p.Valid)
	assert.True(t, p.Notched)
	assert.Equal(t, 2000, p.Len())
	for _, s := range [][]float64{p.Filtered, p.Rectified, p.Envelope} {
		require.Len(t, s, 2000)
		testutil.RequireFinite(t, s)
	}

	mid := p.Filtered[800:1200]
	assert.InDelta(t, 1.0, testutil.MaxAbs(mid), 0.1)
	assert.InDelta(t, 1/math.Sqrt2, p.Envelope[1000], 0.05)
	for _, v := range p.Envelope {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestPreprocessZeroInZeroOut(t *testing.T) {
	p := newAnalyzer(t, nil).Preprocess(make([]float64, 500), fs)
	assert.Equal(t, 0.0, testutil.MaxAbs(p.Filtered))
	assert.Equal(t, 0.0, testutil.MaxAbs(p.Envelope))
}

func TestPreprocessMissingSamples(t *testing.T) {
	x := testutil.Sine(500, 100, 1, fs)
	x[10] = math.NaN()
	x[20] = math.Inf(-1)

	p := newAnalyzer(t, nil).Preprocess(x, fs)
	assert.Equal(t, 0.0, p.Raw[10])
	assert.Equal(t, 0.0, p.Raw[20])
	testutil.RequireFinite(t, p.Filtered)
	testutil.RequireFinite(t, p.Envelope)
}

func TestPreprocessShortSignalPassesThrough(t *testing.T) {
	x := []float64{0.1, -0.2, 0.3, -0.4, 0.5}
	p := newAnalyzer(t, nil).Preprocess(x, fs)
	assert.False(t, p.Valid)
	assert.Equal(t, x, p.Filtered)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, p.Rectified)
}

func TestPreprocessNotchDisabled(t *testing.T) {
	a := newAnalyzer(t, func(c *config.Config) { c.Signal.NotchHz = 0 })
	p := a.Preprocess(testutil.Sine(1000, 100, 1, fs), 0)
	assert.True(t, p.Valid)
	assert.False(t, p.Notched)
	assert.Equal(t, fs, p.SampleRate)
}

func TestFeatureRows(t *testing.T) {
	a := newAnalyzer(t, nil)
	x := testutil.Sine(1000, 100, 1, fs)
	x[500] = 50

	rows := a.Features("biceps", a.Preprocess(x, fs))
	require.Len(t, rows, 9)

	for i, r := range rows {
		assert.Equal(t, "biceps", r.Channel)
		assert.Equal(t, int64(i*100), r.Start)
		assert.False(t, r.Motion, "window %d", i)
		assert.Greater(t, r.EnvelopeMean, 0.0)

		// only the windows holding the outlier are flagged
		hasSpike := r.Start <= 500 && 500 < r.Start+200
		assert.Equal(t, hasSpike, r.Spikes, "window %d", i)
		assert.Equal(t, hasSpike, r.Clipping, "window %d", i)
	}

	first := rows[1]
	assert.InDelta(t, 1/math.Sqrt2, first.RMS, 0.05)
	assert.InDelta(t, 2/math.Pi, first.MAV, 0.05)
	assert.InDelta(t, 100, first.MNF, 10)
	assert.InDelta(t, 100, first.MDF, 10)
	assert.Positive(t, first.ZC)
}

func TestFeatureRowsClipping(t *testing.T) {
	a := newAnalyzer(t, nil)
	x := testutil.Sine(400, 100, 6, fs)
	rows := a.Features("ch0", a.Preprocess(x, fs))
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.True(t, r.Clipping)
	}
}

func TestFeatureRowsShortSignal(t *testing.T) {
	a := newAnalyzer(t, nil)
	assert.Empty(t, a.Features("ch0", a.Preprocess(make([]float64, 150), fs)))
}

func TestMetricsAndActivation(t *testing.T) {
	a := newAnalyzer(t, nil)
	burst := make([]float64, 1000)
	copy(burst[400:600], testutil.Sine(200, 100, 1, fs))

	m, ok := a.Metrics(nil, burst, fs)
	require.True(t, ok)
	assert.Greater(t, m.PeakEnvelope, 0.5)
	assert.InDelta(t, 0.5, m.TimeToPeak, 0.1)

	_, ok = a.Metrics(nil, []float64{1, 2}, fs)
	assert.False(t, ok)

	pct, n := ActivationPercent([]float64{0, 0.1, 0.2, 0}, 0.05)
	assert.Equal(t, 50.0, pct)
	assert.Equal(t, 4, n)
	assert.Equal(t, 2, ThresholdCrossings([]float64{0, 0.1, 0.2, 0}, 0.05))

	pct, crossings := a.Activation([]float64{0, 0.1, 0.2, 0})
	assert.Equal(t, 50.0, pct)
	assert.Equal(t, 2, crossings)
}

func recording(channels int, n int) *transcode.Recording {
	rec := &transcode.Recording{
		SampleRate: fs,
		Channels:   make(map[string][]float64, channels),
	}
	for i := range channels {
		name := string(rune('a' + i))
		rec.Names = append(rec.Names, name)
		rec.Channels[name] = testutil.Add(
			testutil.Sine(n, 80+float64(i)*20, 1, fs),
			testutil.Noise(n, 0.05, uint64(i+1)),
		)
	}
	return rec
}

func TestProcessChannels(t *testing.T) {
	a := newAnalyzer(t, func(c *config.Config) { c.Analysis.Workers = 2 })
	rec := recording(5, 1000)

	report, err := a.ProcessChannels(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Equal(t, fs, report.SampleRate)
	require.Len(t, report.Channels, 5)

	for i, ch := range report.Channels {
		assert.Equal(t, rec.Names[i], ch.Name)
		assert.Len(t, ch.Rows, 9)
		assert.True(t, ch.MetricsOK)
		assert.Greater(t, ch.ActivationPercent, 50.0)

		// the pool gives the same answer as a direct call
		want := a.ProcessChannel(ch.Name, rec.Channels[ch.Name], nil, fs)
		assert.Equal(t, want.Rows, ch.Rows)
	}
	assert.Len(t, report.Rows(), 45)
}

func TestProcessChannelsCancelled(t *testing.T) {
	a := newAnalyzer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.ProcessChannels(ctx, recording(3, 500))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerCount(t *testing.T) {
	a := newAnalyzer(t, func(c *config.Config) { c.Analysis.Workers = 8 })
	assert.Equal(t, 3, a.workerCount(3))
	assert.Equal(t, 1, a.workerCount(0))

	a = newAnalyzer(t, nil)
	assert.GreaterOrEqual(t, a.workerCount(100), 1)
}

func TestNewDefaults(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, fs, a.Config().Signal.SampleRateHz)
}
