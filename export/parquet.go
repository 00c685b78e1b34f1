package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parquet "github.com/parquet-go/parquet-go"
)

// ErrUnknownCompression reports an unsupported Parquet codec name
var ErrUnknownCompression = errors.New("unknown parquet compression")

// Compression resolves a codec name: none, snappy, gzip or zstd. An empty
// name selects snappy.
func Compression(name string) (parquet.WriterOption, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snappy":
		return parquet.Compression(&parquet.Snappy), nil
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip), nil
	case "zstd":
		return parquet.Compression(&parquet.Zstd), nil
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// ParquetWriter streams feature rows into a Parquet file. Rows are buffered
// into row groups by the underlying writer; Close writes the footer.
type ParquetWriter struct {
	pw    *parquet.GenericWriter[FeatureRow]
	count int
}

// NewParquetWriter writes to out with the named compression
func NewParquetWriter(out io.Writer, compression string) (*ParquetWriter, error) {
	codec, err := Compression(compression)
	if err != nil {
		return nil, err
	}
	return &ParquetWriter{pw: parquet.NewGenericWriter[FeatureRow](out, codec)}, nil
}

// Write appends rows
func (w *ParquetWriter) Write(rows ...FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	n, err := w.pw.Write(rows)
	w.count += n
	if err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	return nil
}

// Count returns the number of rows written
func (w *ParquetWriter) Count() int {
	return w.count
}

// Close flushes buffered rows and writes the file footer
func (w *ParquetWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return fmt.Errorf("close parquet: %w", err)
	}
	return nil
}

// ReadParquet loads every row of a feature file
func ReadParquet(ra io.ReaderAt) ([]FeatureRow, error) {
	gr := parquet.NewGenericReader[FeatureRow](ra)
	defer gr.Close()

	out := make([]FeatureRow, 0, gr.NumRows())
	batch := make([]FeatureRow, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	return out, nil
}
