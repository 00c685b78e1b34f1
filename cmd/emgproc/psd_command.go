package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Llewarchick7/emg-force-bridge/algorithms/spectral"
	"github.com/Llewarchick7/emg-force-bridge/analysis"
)

func newPSDCommand(ctx *commandContext) *cobra.Command {
	var (
		recFlags recordingFlags
		bandMin  float64
		bandMax  float64
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "psd <in.csv>",
		Short: "Print mean and median frequency per channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			rec, err := ctx.decodeRecording(args[0], recFlags)
			if err != nil {
				return err
			}

			fmin, fmax := cfg.SpectralBand()
			if cmd.Flags().Changed("band-min") {
				fmin = bandOrUnbounded(bandMin)
			}
			if cmd.Flags().Changed("band-max") {
				fmax = bandOrUnbounded(bandMax)
			}

			a := analysis.New(cfg, ctx.loggerValue())
			rows := make([][]string, 0, len(rec.Names))
			for _, name := range rec.Names {
				signal, _ := rec.Channel(name)
				p := a.Preprocess(signal, rec.SampleRate)
				x := p.Filtered
				if raw {
					x = p.Raw
				}

				est := spectral.EstimatePSD(x, rec.SampleRate, cfg.SpectralMethod(), cfg.WelchParams())
				est = spectral.BandLimit(est, fmin, fmax)
				rows = append(rows, []string{
					name,
					strconv.Itoa(len(x)),
					formatHz(est.MeanFrequency()),
					formatHz(est.MedianFrequency()),
					formatHz(est.Peak()),
					strconv.FormatFloat(est.TotalPower(), 'g', 4, 64),
					yesNo(p.Valid && !raw),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d channel(s) at %.1f Hz, %s PSD\n", args[0], len(rec.Names), rec.SampleRate, cfg.SpectralMethod())
			headers := []string{"Channel", "Samples", "MNF (Hz)", "MDF (Hz)", "Peak (Hz)", "Power", "Filtered"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	recFlags.register(cmd)
	cmd.Flags().Float64Var(&bandMin, "band-min", 0, "Lower band edge in Hz (0 for open)")
	cmd.Flags().Float64Var(&bandMax, "band-max", 0, "Upper band edge in Hz (0 for open)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Analyze the unfiltered signal")
	return cmd
}

func bandOrUnbounded(hz float64) float64 {
	if hz <= 0 {
		return spectral.Unbounded
	}
	return hz
}

func formatHz(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
