package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Llewarchick7/emg-force-bridge/stream"
)

func newStreamCommand(ctx *commandContext) *cobra.Command {
	var (
		recFlags  recordingFlags
		every     int
		chunkSize int
		dcBlockHz float64
	)

	cmd := &cobra.Command{
		Use:   "stream <in.csv>",
		Short: "Replay a recording sample by sample through the live channel manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			rec, err := ctx.decodeRecording(args[0], recFlags)
			if err != nil {
				return err
			}

			streamCfg := stream.ConfigFrom(cfg)
			streamCfg.SampleRate = rec.SampleRate
			manager := stream.NewManager(streamCfg, ctx.loggerValue())

			normalizer := cfg.Normalizer()
			pipelines := make([]*stream.Pipeline, len(rec.Names))
			for ch := range pipelines {
				pipelines[ch] = stream.NewChannelPipeline(streamCfg, stream.PipelineOptions{
					DCBlockHz:  dcBlockHz,
					Normalizer: normalizer,
				})
			}
			level := make([]float64, len(rec.Names))

			out := cmd.OutOrStdout()
			last := make([]stream.Result, len(rec.Names))
			unfiltered := make([]int, len(rec.Names))
			for i := range rec.Len() {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				for ch, name := range rec.Names {
					res, err := manager.ProcessSample(ch, stream.Sample{Raw: rec.Channels[name][i]})
					if err != nil {
						return err
					}
					if !res.Filtered {
						unfiltered[ch]++
					}
					last[ch] = res
					if every > 0 && i%every == 0 {
						fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", i, name,
							formatNumber(res.Rect), formatNumber(res.Envelope), formatNumber(res.RMS))
					}
				}
			}

			// the chunked pipeline sees the same samples in blocks of chunkSize
			chunk := max(1, chunkSize)
			for ch, name := range rec.Names {
				raw := rec.Channels[name]
				for start := 0; start < len(raw); start += chunk {
					block := finiteBlock(raw[start:min(start+chunk, len(raw))])
					if out := pipelines[ch].Transform(block); len(out) > 0 {
						level[ch] = out[len(out)-1]
					}
				}
			}

			rows := make([][]string, 0, len(rec.Names))
			for ch, name := range rec.Names {
				rows = append(rows, []string{
					strconv.Itoa(ch),
					name,
					formatNumber(last[ch].Rect),
					formatNumber(last[ch].Envelope),
					formatNumber(last[ch].RMS),
					formatNumber(level[ch]),
					strconv.Itoa(unfiltered[ch]),
				})
			}

			fmt.Fprintf(out, "Replayed %d sample(s) on %d channel(s) at %.1f Hz (session %s)\n",
				rec.Len(), len(rec.Names), streamCfg.SampleRate, manager.Session())
			levelHeader := "Pipeline RMS"
			if normalizer.HasMVC() {
				levelHeader = "Pipeline %MVC"
			}
			headers := []string{"Ch", "Name", "Rect", "Envelope", "RMS", levelHeader, "Unfiltered"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	recFlags.register(cmd)
	cmd.Flags().IntVar(&every, "every", 0, "Also print the completed sample every N samples")
	cmd.Flags().IntVar(&chunkSize, "chunk", 64, "Samples per block for the chunked envelope pipeline")
	cmd.Flags().Float64Var(&dcBlockHz, "dc-block", 0, "DC blocker corner in Hz ahead of the pipeline band-pass (0 disables)")
	return cmd
}

// finiteBlock replaces missing readings with zero, as the channel manager does
func finiteBlock(block []float64) []float64 {
	out := make([]float64, len(block))
	for i, v := range block {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}
