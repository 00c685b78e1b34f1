package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Llewarchick7/emg-force-bridge/analysis"
	"github.com/Llewarchick7/emg-force-bridge/export"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		recFlags    recordingFlags
		format      string
		compression string
		workers     int
		summary     bool
	)

	cmd := &cobra.Command{
		Use:   "process <in.csv> <out.csv|out.parquet>",
		Short: "Extract windowed features from a recording",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *ctx.configValue()
			if workers > 0 {
				cfg.Analysis.Workers = workers
			}

			rec, err := ctx.decodeRecording(args[0], recFlags)
			if err != nil {
				return err
			}

			report, err := analysis.New(&cfg, ctx.loggerValue()).ProcessChannels(cmd.Context(), rec)
			if err != nil {
				return err
			}

			opts := export.Options{
				Format:      export.Format(firstNonEmpty(format, cfg.Export.Format)),
				Compression: firstNonEmpty(compression, cfg.Export.Compression),
			}
			rows := report.Rows()
			if err := export.WriteFeatures(args[1], rows, opts); err != nil {
				return fmt.Errorf("write features: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d windows for %d channel(s) to %s\n", len(rows), len(report.Channels), args[1])
			if summary {
				fmt.Fprintln(out, renderTable(out, channelSummaryHeaders, channelSummaryRows(report), channelSummaryAligns))
			}
			return nil
		},
	}

	recFlags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv, parquet); default from export.format or the file extension")
	cmd.Flags().StringVar(&compression, "compression", "", "Parquet compression (snappy, gzip, zstd, none)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Channels processed in parallel (default from analysis.workers)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print per-channel metrics")
	return cmd
}

var (
	channelSummaryHeaders = []string{"Channel", "Windows", "Peak env", "iEMG", "Time to peak (s)", "MDF (Hz)", "Active %", "Crossings"}
	channelSummaryAligns  = []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
)

func channelSummaryRows(report *analysis.Report) [][]string {
	rows := make([][]string, 0, len(report.Channels))
	for _, ch := range report.Channels {
		row := []string{ch.Name, strconv.Itoa(len(ch.Rows))}
		if ch.MetricsOK {
			row = append(row,
				formatNumber(ch.Metrics.PeakEnvelope),
				formatNumber(ch.Metrics.IEMG),
				formatNumber(ch.Metrics.TimeToPeak),
				formatNumber(ch.Metrics.MedianFrequency),
			)
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		row = append(row,
			strconv.FormatFloat(ch.ActivationPercent, 'f', 1, 64),
			strconv.Itoa(ch.ThresholdCrossings),
		)
		rows = append(rows, row)
	}
	return rows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
