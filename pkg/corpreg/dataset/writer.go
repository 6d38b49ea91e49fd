package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// Summary describes a written dataset file.
type Summary struct {
	Path string
	Rows int
	Cols int
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: (%d, %d)", s.Path, s.Rows, s.Cols)
}

// RawPath returns the raw dataset path for a region and execution date.
func RawPath(dir string, region registry.Region, date string) string {
	return filepath.Join(dir, fmt.Sprintf("corporate_registry_%s_%s.csv", region, date))
}

// EnrichedPath returns the enriched dataset path for a region and
// execution date.
func EnrichedPath(dir string, region registry.Region, date string) string {
	return filepath.Join(dir, fmt.Sprintf("corporate_registry_%s_enriched_%s.csv", region, date))
}

// RawWriter streams raw records into the region/date-named CSV file,
// keeping exactly one row per corporate number. The first occurrence wins;
// repeats produced by pagination retries or overlapping pages are dropped.
// Records are written as they arrive, so a nationwide fetch never holds
// the dataset in memory.
type RawWriter struct {
	file *os.File
	csv  *csv.Writer
	seen map[string]struct{}
	path string
	rows int
}

// NewRawWriter creates the output file and writes the schema header.
func NewRawWriter(dir string, region registry.Region, date string) (*RawWriter, error) {
	path := RawPath(dir, region, date)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(registry.Header()); err != nil {
		f.Close()
		return nil, err
	}
	return &RawWriter{
		file: f,
		csv:  w,
		seen: make(map[string]struct{}),
		path: path,
	}, nil
}

// Add appends one record, dropping duplicates by corporate number.
func (w *RawWriter) Add(rec registry.Record) error {
	if _, dup := w.seen[rec.CorporateNumber]; dup {
		return nil
	}
	w.seen[rec.CorporateNumber] = struct{}{}
	if err := w.csv.Write(rec.Row()); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of unique rows written so far.
func (w *RawWriter) Rows() int {
	return w.rows
}

// Close flushes and closes the file, returning the dataset summary.
func (w *RawWriter) Close() (Summary, error) {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return Summary{}, err
	}
	if err := w.file.Close(); err != nil {
		return Summary{}, err
	}
	return Summary{Path: w.path, Rows: w.rows, Cols: len(registry.Header())}, nil
}
