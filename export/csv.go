package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVWriter writes feature rows with a fixed header, flushing after every
// row so a crashed session keeps everything written so far.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates path and its directory. With appendMode the file is
// extended and the header is only written when the file is empty.
func NewCSVWriter(path string, appendMode bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv: %w", err)
	}

	w := &CSVWriter{file: f, writer: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := w.writeRecord(Header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write appends rows and flushes
func (w *CSVWriter) Write(rows ...FeatureRow) error {
	for _, r := range rows {
		if err := w.writeRecord(r.Record()); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeRecord(record []string) error {
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Close closes the underlying file
func (w *CSVWriter) Close() error {
	return w.file.Close()
}

// WriteCSV writes a header and rows to out
func WriteCSV(out io.Writer, rows []FeatureRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
