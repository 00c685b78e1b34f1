// Package export writes per-window feature tables for downstream model
// training, one row per window, as CSV or Parquet.
package export

import (
	"strconv"
)

// FeatureRow is one window of one channel
type FeatureRow struct {
	Channel      string  `parquet:"channel,dict" json:"channel"`
	Start        int64   `parquet:"start" json:"start"`
	RMS          float64 `parquet:"rms" json:"rms"`
	MAV          float64 `parquet:"mav" json:"mav"`
	WL           float64 `parquet:"wl" json:"wl"`
	ZC           int64   `parquet:"zc" json:"zc"`
	SSC          int64   `parquet:"ssc" json:"ssc"`
	WAMP         int64   `parquet:"wamp" json:"wamp"`
	MNF          float64 `parquet:"mnf_hz" json:"mnf_hz"`
	MDF          float64 `parquet:"mdf_hz" json:"mdf_hz"`
	EnvelopeMean float64 `parquet:"envelope_mean" json:"envelope_mean"`
	Motion       bool    `parquet:"motion" json:"motion"`
	Clipping     bool    `parquet:"clipping" json:"clipping"`
	Spikes       bool    `parquet:"spikes" json:"spikes"`
}

// Header is the CSV column order
var Header = []string{
	"channel", "start", "rms", "mav", "wl", "zc", "ssc", "wamp",
	"mnf_hz", "mdf_hz", "envelope_mean", "motion", "clipping", "spikes",
}

// Record formats r in Header order
func (r FeatureRow) Record() []string {
	return []string{
		r.Channel,
		strconv.FormatInt(r.Start, 10),
		formatFloat(r.RMS),
		formatFloat(r.MAV),
		formatFloat(r.WL),
		strconv.FormatInt(r.ZC, 10),
		strconv.FormatInt(r.SSC, 10),
		strconv.FormatInt(r.WAMP, 10),
		formatFloat(r.MNF),
		formatFloat(r.MDF),
		formatFloat(r.EnvelopeMean),
		strconv.FormatBool(r.Motion),
		strconv.FormatBool(r.Clipping),
		strconv.FormatBool(r.Spikes),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
