package stream

import (
	"math"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/normalization"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
)

// Stage is one causal step of a chunked pipeline. Transform may keep state
// between calls; Reset clears it. Stages are not safe for concurrent use.
type Stage interface {
	Transform(chunk []float64) []float64
	Reset()
}

// Pipeline runs stages in order over each chunk
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from stages
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// NewEnvelopePipeline builds the causal chain band-pass, rectify, moving RMS
// for one channel.
func NewEnvelopePipeline(cfg Config) *Pipeline {
	return NewPipeline(
		NewFilterStage(filters.BandpassSpec(cfg.LowHz, cfg.HighHz, cfg.SampleRate, cfg.Order)),
		RectifyStage{},
		NewMovingRMSStage(temporal.WindowSamples(cfg.SampleRate, cfg.RMSWindowSeconds)),
	)
}

// PipelineOptions adds optional stages around the envelope chain
type PipelineOptions struct {
	// DCBlockHz above zero prepends a DC blocker with that corner
	DCBlockHz float64
	// Normalizer appends a %MVC stage, which passes through while the
	// normalizer has no MVC reference
	Normalizer *normalization.Normalizer
}

// NewChannelPipeline builds NewEnvelopePipeline with the stages opts asks for
func NewChannelPipeline(cfg Config, opts PipelineOptions) *Pipeline {
	var stages []Stage
	if opts.DCBlockHz > 0 {
		stages = append(stages, NewDCBlockStage(cfg.SampleRate, opts.DCBlockHz))
	}
	stages = append(stages, NewEnvelopePipeline(cfg).stages...)
	if opts.Normalizer != nil {
		stages = append(stages, NewPercentMVCStage(opts.Normalizer))
	}
	return NewPipeline(stages...)
}

// Transform passes chunk through every stage
func (p *Pipeline) Transform(chunk []float64) []float64 {
	out := chunk
	for _, s := range p.stages {
		out = s.Transform(out)
	}
	return out
}

// Reset resets every stage
func (p *Pipeline) Reset() {
	for _, s := range p.stages {
		s.Reset()
	}
}

// Len returns the number of stages
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// FilterStage applies a streaming filter
type FilterStage struct {
	filter *filters.StreamingFilter
}

// NewFilterStage designs spec; an invalid spec passes samples through
func NewFilterStage(spec filters.Spec) *FilterStage {
	return &FilterStage{filter: filters.NewStreamingFromSpec(spec)}
}

func (s *FilterStage) Transform(chunk []float64) []float64 {
	return s.filter.Process(chunk)
}

func (s *FilterStage) Reset() {
	s.filter.Reset()
}

// DCBlockStage removes electrode offset ahead of the band-pass
type DCBlockStage struct {
	blocker *filters.DCBlocker
}

// NewDCBlockStage creates a DC blocker with its corner at cutoffHz
func NewDCBlockStage(sampleRate, cutoffHz float64) *DCBlockStage {
	return &DCBlockStage{blocker: filters.NewDCBlocker(sampleRate, cutoffHz)}
}

func (s *DCBlockStage) Transform(chunk []float64) []float64 {
	return s.blocker.Process(chunk)
}

func (s *DCBlockStage) Reset() {
	s.blocker.Reset()
}

// RectifyStage takes absolute values
type RectifyStage struct{}

func (RectifyStage) Transform(chunk []float64) []float64 {
	return temporal.Rectify(chunk)
}

func (RectifyStage) Reset() {}

// MovingRMSStage is a trailing RMS over the last n samples. Until n samples
// have arrived the missing ones count as zero.
type MovingRMSStage struct {
	squares *common.RollingBuffer
	n       int
	sum     float64
}

// NewMovingRMSStage creates a trailing RMS of n samples (at least 1)
func NewMovingRMSStage(n int) *MovingRMSStage {
	n = max(1, n)
	return &MovingRMSStage{squares: common.NewRollingBuffer(n), n: n}
}

func (s *MovingRMSStage) Transform(chunk []float64) []float64 {
	out := make([]float64, len(chunk))
	var oldest [1]float64
	for i, v := range chunk {
		sq := v * v
		if s.squares.IsFull() {
			s.squares.Peek(oldest[:])
			s.sum -= oldest[0]
		}
		s.squares.Push(sq)
		s.sum = math.Max(0, s.sum+sq)
		out[i] = math.Sqrt(s.sum / float64(s.n))
	}
	return out
}

func (s *MovingRMSStage) Reset() {
	s.squares.Clear()
	s.sum = 0
}

// PercentMVCStage scales by a calibrated MVC reference and passes samples
// through until one exists.
type PercentMVCStage struct {
	normalizer *normalization.Normalizer
}

// NewPercentMVCStage wraps a normalizer
func NewPercentMVCStage(n *normalization.Normalizer) *PercentMVCStage {
	return &PercentMVCStage{normalizer: n}
}

func (s *PercentMVCStage) Transform(chunk []float64) []float64 {
	return s.normalizer.ToPercentMVC(chunk)
}

// Reset keeps the calibration
func (s *PercentMVCStage) Reset() {}
