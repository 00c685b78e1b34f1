package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/features"
	"github.com/Llewarchick7/emg-force-bridge/export"
	"github.com/Llewarchick7/emg-force-bridge/logging"
	"github.com/Llewarchick7/emg-force-bridge/transcode"
)

// ChannelResult is the offline analysis of one channel
type ChannelResult struct {
	Name      string
	Processed Processed
	Rows      []export.FeatureRow
	// Metrics summarizes the whole channel; MetricsOK is false for channels
	// too short to summarize
	Metrics   features.Metrics
	MetricsOK bool

	ActivationPercent  float64
	ThresholdCrossings int
}

// Report is the result of ProcessChannels, with channels in recording order
type Report struct {
	RunID      uuid.UUID
	SampleRate float64
	Channels   []ChannelResult
	Elapsed    time.Duration
}

// Rows concatenates the feature rows of every channel
func (r *Report) Rows() []export.FeatureRow {
	var n int
	for _, ch := range r.Channels {
		n += len(ch.Rows)
	}
	rows := make([]export.FeatureRow, 0, n)
	for _, ch := range r.Channels {
		rows = append(rows, ch.Rows...)
	}
	return rows
}

// ProcessChannel runs the full chain over one channel
func (a *Analyzer) ProcessChannel(name string, signal, times []float64, sampleRate float64) ChannelResult {
	p := a.Preprocess(signal, sampleRate)
	res := ChannelResult{
		Name:      name,
		Processed: p,
		Rows:      a.Features(name, p),
	}
	res.Metrics, res.MetricsOK = a.Metrics(times, p.Raw, p.SampleRate)
	res.ActivationPercent, res.ThresholdCrossings = a.Activation(p.Envelope)
	return res
}

// ProcessChannels analyzes every channel of rec on a bounded worker pool.
// Cancelling ctx stops workers from starting new channels; the context error
// is returned once the running ones finish.
func (a *Analyzer) ProcessChannels(ctx context.Context, rec *transcode.Recording) (*Report, error) {
	runID := uuid.New()
	logger := a.logger.WithFields(logging.Fields{
		"function": "ProcessChannels",
		"run_id":   runID.String(),
		"source":   rec.Source,
	})
	begin := time.Now()

	numChannels := len(rec.Names)
	results := make([]ChannelResult, numChannels)
	numWorkers := a.workerCount(numChannels)

	type channelJob struct {
		index int
		name  string
	}
	jobs := make(chan channelJob, numChannels)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				signal, _ := rec.Channel(job.name)
				results[job.index] = a.ProcessChannel(job.name, signal, rec.Times, rec.SampleRate)
				logger.Debug("Channel processed", logging.Fields{
					"channel": job.name,
					"windows": len(results[job.index].Rows),
				})
			}
		}()
	}

	for i, name := range rec.Names {
		jobs <- channelJob{index: i, name: name}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("Analysis cancelled", logging.Fields{"error": err.Error()})
		return nil, fmt.Errorf("process channels: %w", err)
	}

	report := &Report{
		RunID:      runID,
		SampleRate: rec.SampleRate,
		Channels:   results,
		Elapsed:    time.Since(begin),
	}
	logger.Info("Recording analyzed", logging.Fields{
		"channels":   numChannels,
		"workers":    numWorkers,
		"samples":    rec.Len(),
		"elapsed_ms": report.Elapsed.Milliseconds(),
	})
	return report, nil
}

// workerCount uses analysis.workers, or GOMAXPROCS when unset, never more
// than there are channels.
func (a *Analyzer) workerCount(numChannels int) int {
	n := a.cfg.Analysis.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, numChannels))
}
