// Package stream completes live EMG samples one channel at a time.
//
// A Manager owns a causal band-pass filter and a bounded history of filtered
// samples per channel. Each raw sample goes through the filter, and the
// rectified value, envelope and RMS of the newest sample are derived from
// that history. Channels never share state, so interleaving channels gives
// the same results as processing each one on its own.
package stream

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/common"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/filters"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/config"
	"github.com/Llewarchick7/emg-force-bridge/logging"
)

// ErrInvalidChannel is returned for negative channel ids. The call has no
// side effects.
var ErrInvalidChannel = errors.New("invalid channel")

// minBufferSamples bounds the history from below for very low sample rates
const minBufferSamples = 8

// Config holds the per-channel processing parameters
type Config struct {
	SampleRate       float64
	LowHz            float64
	HighHz           float64
	Order            int
	EnvelopeCutoffHz float64
	EnvelopeOrder    int
	RMSWindowSeconds float64
	BufferSeconds    float64
}

// DefaultConfig matches the acquisition firmware: 860 Hz sampling, 20-450 Hz
// band-pass, a 5 Hz envelope and a 100 ms RMS window over 1 s of history.
func DefaultConfig() Config {
	return Config{
		SampleRate:       860,
		LowHz:            20,
		HighHz:           450,
		Order:            4,
		EnvelopeCutoffHz: temporal.DefaultLowpassCutoffHz,
		EnvelopeOrder:    temporal.DefaultLowpassOrder,
		RMSWindowSeconds: temporal.DefaultRMSWindowSeconds,
		BufferSeconds:    1,
	}
}

// ConfigFrom takes the stream sample rate and history from [stream] and the
// band and envelope settings from [signal] and [envelope].
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		SampleRate:       cfg.Stream.SampleRateHz,
		LowHz:            cfg.Signal.BandpassLowHz,
		HighHz:           cfg.Signal.BandpassHighHz,
		Order:            cfg.Signal.FilterOrder,
		EnvelopeCutoffHz: cfg.Envelope.LowpassCutHz,
		EnvelopeOrder:    cfg.Envelope.LowpassOrder,
		RMSWindowSeconds: cfg.RMSWindowSeconds(),
		BufferSeconds:    cfg.Stream.BufferSeconds,
	}
}

// BufferSamples returns the per-channel history length
func (c Config) BufferSamples() int {
	return max(minBufferSamples, int(c.SampleRate*c.BufferSeconds))
}

// Sample is one raw reading. Non-nil optional fields are passed through
// instead of being computed.
type Sample struct {
	Raw      float64
	Rect     *float64
	Envelope *float64
	RMS      *float64
}

// Result is a completed sample
type Result struct {
	Rect     float64
	Envelope float64
	RMS      float64
	// Filtered is false when the band-pass was skipped for this sample
	Filtered bool
}

type channelState struct {
	mu       sync.Mutex
	filter   *filters.StreamingFilter
	filtered *common.RollingBuffer
	samples  uint64
}

// Manager holds the state of every channel seen since creation or the last
// reset. It is safe for concurrent use; calls for one channel are serialized
// and calls for different channels run in parallel.
type Manager struct {
	cfg     Config
	sos     filters.SOS
	session uuid.UUID
	logger  logging.Logger

	mu       sync.RWMutex
	channels map[int]*channelState
}

// NewManager creates a manager. An invalid band designs to a passthrough and
// is logged once here; samples are then completed unfiltered.
func NewManager(cfg Config, logger logging.Logger) *Manager {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	session := uuid.New()
	m := &Manager{
		cfg:      cfg,
		session:  session,
		logger:   logger.WithFields(logging.Fields{"component": "stream", "session": session.String()}),
		channels: make(map[int]*channelState),
	}

	spec := filters.BandpassSpec(cfg.LowHz, cfg.HighHz, cfg.SampleRate, cfg.Order)
	if err := spec.Validate(); err != nil {
		m.logger.Warn("band-pass disabled", logging.Fields{"error": err.Error()})
	}
	m.sos = filters.Design(spec)
	return m
}

// Session identifies this manager in logs
func (m *Manager) Session() uuid.UUID {
	return m.session
}

// Config returns the processing parameters
func (m *Manager) Config() Config {
	return m.cfg
}

// ProcessSample appends s to channel ch and returns the completed fields.
func (m *Manager) ProcessSample(ch int, s Sample) (Result, error) {
	if ch < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	st := m.channel(ch)
	st.mu.Lock()
	defer st.mu.Unlock()
	return m.process(ch, st, s), nil
}

// ProcessBatch processes samples in order on channel ch. The channel is
// checked before any sample is consumed.
func (m *Manager) ProcessBatch(ch int, samples []Sample) ([]Result, error) {
	if ch < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	st := m.channel(ch)
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]Result, len(samples))
	for i, s := range samples {
		out[i] = m.process(ch, st, s)
	}
	return out, nil
}

// Reset discards the history and filter state of channel ch
func (m *Manager) Reset(ch int) {
	m.mu.Lock()
	delete(m.channels, ch)
	m.mu.Unlock()
	m.logger.Debug("channel reset", logging.Fields{"channel": ch})
}

// ResetAll discards every channel
func (m *Manager) ResetAll() {
	m.mu.Lock()
	n := len(m.channels)
	clear(m.channels)
	m.mu.Unlock()
	m.logger.Debug("all channels reset", logging.Fields{"channels": n})
}

// Channels lists the live channel ids in ascending order
func (m *Manager) Channels() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.channels))
}

func (m *Manager) channel(ch int) *channelState {
	m.mu.RLock()
	st, ok := m.channels[ch]
	m.mu.RUnlock()
	if ok {
		return st
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok = m.channels[ch]; ok {
		return st
	}
	st = &channelState{
		filter:   filters.NewStreamingFilter(m.sos),
		filtered: common.NewRollingBuffer(m.cfg.BufferSamples()),
	}
	m.channels[ch] = st
	m.logger.Debug("channel created", logging.Fields{"channel": ch, "buffer": st.filtered.Capacity()})
	return st
}

// process runs with st.mu held
func (m *Manager) process(ch int, st *channelState, s Sample) Result {
	raw := s.Raw
	if math.IsNaN(raw) {
		raw = 0
	}

	y, filtered := m.filterSample(ch, st, raw)
	st.filtered.Push(y)
	st.samples++

	var res Result
	res.Filtered = filtered

	if s.Rect != nil {
		res.Rect = *s.Rect
	} else {
		res.Rect = math.Abs(y)
	}

	// the history is only materialized when something needs it
	var history []float64
	if s.Envelope == nil || s.RMS == nil {
		history = st.filtered.Snapshot()
	}

	if s.Envelope != nil {
		res.Envelope = *s.Envelope
	} else {
		res.Envelope = m.envelope(history, res.Rect)
	}

	if s.RMS != nil {
		res.RMS = *s.RMS
	} else {
		rms := temporal.SlidingRMSSeconds(history, m.cfg.SampleRate, m.cfg.RMSWindowSeconds)
		res.RMS = rms[len(rms)-1]
	}
	return res
}

// filterSample runs one sample through the channel filter. A non-finite
// output resets the filter and falls back to the raw value.
func (m *Manager) filterSample(ch int, st *channelState, raw float64) (float64, bool) {
	if st.filter.Passthrough() {
		return finiteOrZero(raw), false
	}
	y := st.filter.ProcessSample(raw)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		m.logger.Warn("filter output not finite, resetting channel filter", logging.Fields{
			"channel": ch,
			"raw":     raw,
			"sample":  st.samples,
		})
		st.filter.Reset()
		return finiteOrZero(raw), false
	}
	return y, true
}

// envelope is the newest value of a low-pass of the rectified history,
// clamped at zero. Histories too short to filter fall back to rect.
func (m *Manager) envelope(history []float64, rect float64) float64 {
	env, ok := filters.ApplyLowpass(temporal.Rectify(history), m.cfg.EnvelopeCutoffHz, m.cfg.SampleRate, m.cfg.EnvelopeOrder)
	if !ok {
		return rect
	}
	return math.Max(0, env[len(env)-1])
}

func finiteOrZero(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
