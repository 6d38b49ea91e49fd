package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// ReadRaw loads a raw dataset file produced by RawWriter. The header is
// validated against the published schema before any row is accepted.
func ReadRaw(path string) ([]registry.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	want := registry.Header()
	if len(header) != len(want) {
		return nil, fmt.Errorf("%w: %s has %d columns, want %d", internalerr.ErrInvalidInput, path, len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, fmt.Errorf("%w: %s column %d is %q, want %q", internalerr.ErrInvalidInput, path, i, header[i], want[i])
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records := make([]registry.Record, 0, len(rows))
	for i, row := range rows {
		rec, ok := registry.FromRow(row)
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d has %d columns", internalerr.ErrInvalidInput, path, i+1, len(row))
		}
		records = append(records, rec)
	}
	return records, nil
}
