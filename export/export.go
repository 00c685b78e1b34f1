package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat reports an output format that is neither CSV nor Parquet
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an output encoding
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Options controls WriteFeatures
type Options struct {
	// Format overrides detection from the file extension
	Format      Format
	Compression string
}

// FormatFor returns the explicit format, or the one implied by path's
// extension.
func FormatFor(path string, explicit Format) (Format, error) {
	if explicit != "" {
		switch f := Format(strings.ToLower(string(explicit))); f {
		case FormatCSV, FormatParquet:
			return f, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
}

// WriteFeatures writes rows to path, replacing any existing file
func WriteFeatures(path string, rows []FeatureRow, opts Options) error {
	format, err := FormatFor(path, opts.Format)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		w, err := NewCSVWriter(path, false)
		if err != nil {
			return err
		}
		if err := w.Write(rows...); err != nil {
			w.Close()
			return err
		}
		return w.Close()

	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create parquet: %w", err)
		}
		pw, err := NewParquetWriter(f, opts.Compression)
		if err != nil {
			f.Close()
			return err
		}
		if err := pw.Write(rows...); err != nil {
			f.Close()
			return err
		}
		if err := pw.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}
