package config

import (
	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/temporal"
	"github.com/Llewarchick7/emg-force-bridge/algorithms/windowing"
)

const (
	defaultSampleRateHz       = 1000.0
	defaultBandpassLowHz      = 20.0
	defaultBandpassHighHz     = 450.0
	defaultFilterOrder        = 4
	defaultNotchHz            = 60.0
	defaultNotchQ             = 30.0
	defaultEnvelopeLPCutHz    = 5.0
	defaultEnvelopeLPOrder    = 2
	defaultRMSWindowMs        = 100.0
	defaultFeatureWindowMs    = 200.0
	defaultFeatureStepMs      = 100.0
	defaultZCThreshold        = 0.01
	defaultSSCThreshold       = 0.01
	defaultWillisonThreshold  = 0.02
	defaultSpectralSegment    = 256
	defaultMotionCutoffHz     = 20.0
	defaultMotionFactor       = 3.0
	defaultSpikeZ             = 6.0
	defaultStreamSampleRateHz = 860.0
	defaultStreamBufferSec    = 1.0
	defaultActivationThresh   = 0.05
	defaultExportCompression  = "snappy"
	defaultLogFormat          = "text"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Signal: Signal{
			SampleRateHz:   defaultSampleRateHz,
			BandpassLowHz:  defaultBandpassLowHz,
			BandpassHighHz: defaultBandpassHighHz,
			FilterOrder:    defaultFilterOrder,
			NotchHz:        defaultNotchHz,
			NotchQ:         defaultNotchQ,
		},
		Envelope: Envelope{
			Method:       temporal.EnvelopeRMS,
			LowpassCutHz: defaultEnvelopeLPCutHz,
			LowpassOrder: defaultEnvelopeLPOrder,
			RMSWindowMs:  defaultRMSWindowMs,
		},
		Features: Features{
			WindowMs:          defaultFeatureWindowMs,
			StepMs:            defaultFeatureStepMs,
			ZCThreshold:       defaultZCThreshold,
			SSCThreshold:      defaultSSCThreshold,
			WillisonThreshold: defaultWillisonThreshold,
		},
		Spectral: Spectral{
			Method:        spectral.MethodWelch,
			SegmentLength: defaultSpectralSegment,
			Window:        windowing.Hann,
			Detrend:       spectral.DetrendConstant,
			Average:       spectral.AverageMean,
			BandMinHz:     defaultBandpassLowHz,
			BandMaxHz:     defaultBandpassHighHz,
		},
		Artifacts: Artifacts{
			MotionCutoffHz: defaultMotionCutoffHz,
			MotionFactor:   defaultMotionFactor,
			SpikeZ:         defaultSpikeZ,
		},
		Stream: Stream{
			SampleRateHz:  defaultStreamSampleRateHz,
			BufferSeconds: defaultStreamBufferSec,
		},
		Analysis: Analysis{
			ActivationThreshold: defaultActivationThresh,
		},
		Export: Export{
			Compression: defaultExportCompression,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
