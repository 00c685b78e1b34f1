// Package config loads, normalizes, and validates processing configuration.
//
// A Config is read from TOML, starts from repository defaults, and is
// immutable once handed to the processing packages. Helper methods resolve
// the string options (envelope method, PSD estimator, window type) into the
// typed values the algorithms take, so dispatch happens once at load time.
package config
