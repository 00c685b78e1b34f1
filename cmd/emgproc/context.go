package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Llewarchick7/emg-force-bridge/config"
	"github.com/Llewarchick7/emg-force-bridge/logging"
	"github.com/Llewarchick7/emg-force-bridge/transcode"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

type commandContext struct {
	opts *rootOptions

	configOnce sync.Once
	config     *config.Config
	logger     logging.Logger
	configErr  error
}

func newCommandContext(opts *rootOptions) *commandContext {
	return &commandContext{opts: opts}
}

// ensureConfig loads the configuration once, applies the logging flags and
// installs the resulting logger globally.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(c.opts.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.opts.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.opts.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}

		logger, err := logging.New(cfg.LoggerOptions())
		if err != nil {
			c.configErr = fmt.Errorf("build logger: %w", err)
			return
		}
		logging.SetGlobalLogger(logger)

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() logging.Logger {
	if _, err := c.ensureConfig(); err != nil {
		return &logging.NoOpLogger{}
	}
	return c.logger
}

// recordingFlags selects channels and overrides the sample rate when
// decoding an input file.
type recordingFlags struct {
	columns    []string
	sampleRate float64
}

func (f *recordingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.columns, "column", nil, "Value column(s) to read (default: \"value\" or every non-timestamp column)")
	cmd.Flags().Float64Var(&f.sampleRate, "sample-rate", 0, "Sample rate in Hz (default: inferred from timestamps)")
}

func (c *commandContext) decodeRecording(path string, flags recordingFlags) (*transcode.Recording, error) {
	cfg := c.configValue()

	decoderCfg := transcode.DefaultDecoderConfig()
	decoderCfg.ValueColumns = flags.columns
	decoderCfg.SampleRate = flags.sampleRate
	decoderCfg.FallbackSampleRate = cfg.Signal.SampleRateHz

	rec, err := transcode.NewDecoder(decoderCfg).DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return rec, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
