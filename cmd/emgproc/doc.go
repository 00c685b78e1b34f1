// Command emgproc runs the EMG processing core over recorded sessions.
//
// Usage:
//
//	emgproc process session.csv features.parquet
//	emgproc psd session.csv --band-min 20 --band-max 450
//	emgproc stream session.csv
//	emgproc config init emg.toml
//
// Every command reads an optional TOML configuration given with --config;
// without one the built-in defaults apply.
package main
