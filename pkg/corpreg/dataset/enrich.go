package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/parse"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// EnrichOptions tunes the enrichment stage.
type EnrichOptions struct {
	// Workers bounds the classification worker pool. Classification is a
	// pure function of the name, so rows can be processed in any order.
	Workers int
	// Progress, when set, is called after each classified row with the
	// number of rows done and the total.
	Progress func(done, total int)
}

// EnrichRecord derives the enriched row for one raw record. The official
// furigana column takes precedence over any estimated reading; estimates
// are flagged with reliability 1 unless the brand name already carries its
// own reading in kana.
func EnrichRecord(cls *parse.Classifier, rec registry.Record) registry.Enriched {
	res := cls.Classify(rec.Name)
	out := registry.Enriched{
		CorporateNumber: rec.CorporateNumber,
		EntityType:      res.EntityType,
		BrandName:       res.BrandName,
		BrandNameKana:   res.BrandKana,
	}
	furigana := parse.NormalizeName(rec.Furigana)
	switch {
	case furigana != "":
		out.BrandNameKana = furigana
	case parse.IsKanaOnly(res.BrandName):
		// The brand is already kana; the passthrough reading is exact.
	default:
		out.Reliability = 1
	}
	return out
}

// Enrich applies the classifier to every row of the raw dataset at rawPath
// and writes the enriched dataset to outPath. The output has exactly one
// row per input row, sorted by corporate number so that independent runs
// over the same input are byte-identical. A duplicate corporate number in
// the input is an integrity failure, not a row to repair.
func Enrich(ctx context.Context, rawPath, outPath string, cls *parse.Classifier, opts EnrichOptions) (Summary, error) {
	records, err := ReadRaw(rawPath)
	if err != nil {
		return Summary{}, err
	}

	enriched, err := classifyAll(ctx, cls, records, opts)
	if err != nil {
		return Summary{}, err
	}

	if err := checkIntegrity(records, enriched); err != nil {
		return Summary{}, err
	}

	sort.Slice(enriched, func(i, j int) bool {
		return enriched[i].CorporateNumber < enriched[j].CorporateNumber
	})

	f, err := os.Create(outPath)
	if err != nil {
		return Summary{}, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(registry.EnrichedHeader()); err != nil {
		f.Close()
		return Summary{}, err
	}
	for _, e := range enriched {
		row := []string{
			e.CorporateNumber,
			e.EntityType,
			e.BrandName,
			e.BrandNameKana,
			strconv.Itoa(e.Reliability),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return Summary{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return Summary{}, err
	}
	if err := f.Close(); err != nil {
		return Summary{}, err
	}

	return Summary{Path: outPath, Rows: len(enriched), Cols: len(registry.EnrichedHeader())}, nil
}

// classifyAll fans the rows out over a bounded worker pool. Results land
// in a preallocated slice indexed by input position, so workers share no
// mutable state beyond the progress counter.
func classifyAll(ctx context.Context, cls *parse.Classifier, records []registry.Record, opts EnrichOptions) ([]registry.Enriched, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(records) {
		workers = len(records)
	}
	if len(records) == 0 {
		return nil, nil
	}

	enriched := make([]registry.Enriched, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup
	var done int
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				enriched[idx] = EnrichRecord(cls, records[idx])
				if opts.Progress != nil {
					mu.Lock()
					done++
					opts.Progress(done, len(records))
					mu.Unlock()
				}
			}
		}()
	}

	for idx := range records {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return enriched, nil
}

// checkIntegrity verifies the one-to-one keying between raw and enriched
// rows. A violation means the raw dataset was malformed or mutated and the
// run must fail rather than publish a silently inconsistent pair.
func checkIntegrity(records []registry.Record, enriched []registry.Enriched) error {
	if len(records) != len(enriched) {
		return fmt.Errorf("%w: %d raw rows but %d enriched rows", internalerr.ErrIntegrity, len(records), len(enriched))
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.CorporateNumber]; dup {
			return fmt.Errorf("%w: corporate number %s appears more than once in raw dataset", internalerr.ErrIntegrity, rec.CorporateNumber)
		}
		seen[rec.CorporateNumber] = struct{}{}
	}
	for _, e := range enriched {
		if _, ok := seen[e.CorporateNumber]; !ok {
			return fmt.Errorf("%w: enriched corporate number %s missing from raw dataset", internalerr.ErrIntegrity, e.CorporateNumber)
		}
	}
	return nil
}
