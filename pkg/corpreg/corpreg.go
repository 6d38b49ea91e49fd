// Package corpreg wires the fetch, assembly and enrichment stages into a
// single pipeline run over the national corporate registry.
package corpreg

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/new-village/corpreg/pkg/corpreg/dataset"
	"github.com/new-village/corpreg/pkg/corpreg/fetch"
	"github.com/new-village/corpreg/pkg/corpreg/parse"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
	"github.com/new-village/corpreg/pkg/corpreg/store"
)

// Runner is the pipeline facade: fetch a region's records, assemble the
// raw dataset, derive the enriched dataset, and optionally merge both into
// the master store.
type Runner struct {
	fetcher         *fetch.Client
	classifier      *parse.Classifier
	store           store.Store // optional
	outDir          string
	fetchWorkers    int
	enrichWorkers   int
	continueOnError bool
	entropy         *ulid.MonotonicEntropy
	progress        func(done, total int)
}

// Options configures a Runner. Store is optional; everything else falls
// back to a default when zero.
type Options struct {
	Fetcher         *fetch.Client
	Classifier      *parse.Classifier
	Store           store.Store
	OutputDir       string
	FetchWorkers    int
	EnrichWorkers   int
	ContinueOnError bool
	// Progress receives enrichment progress callbacks when set.
	Progress func(done, total int)
}

// New creates a Runner with the given dependencies.
func New(opts Options) *Runner {
	if opts.Classifier == nil {
		opts.Classifier = parse.NewClassifier(nil, nil)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Runner{
		fetcher:         opts.Fetcher,
		classifier:      opts.Classifier,
		store:           opts.Store,
		outDir:          opts.OutputDir,
		fetchWorkers:    opts.FetchWorkers,
		enrichWorkers:   opts.EnrichWorkers,
		continueOnError: opts.ContinueOnError,
		entropy:         ulid.Monotonic(rand.Reader, 0),
		progress:        opts.Progress,
	}
}

// Close releases the underlying store, if any.
func (r *Runner) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// Report summarizes one pipeline run.
type Report struct {
	RunID         string
	Region        registry.Region
	Date          string
	Raw           dataset.Summary
	Enriched      dataset.Summary
	FailedRegions []registry.Region
}

// Run executes the full pipeline for one region selector and execution
// date. Region fetch failures abort the run unless the runner was
// configured to continue on error, in which case the failed regions are
// listed in the report and the successful ones still produce complete
// datasets.
func (r *Runner) Run(ctx context.Context, region registry.Region, date string) (Report, error) {
	report := Report{
		RunID:  ulid.MustNew(ulid.Now(), r.entropy).String(),
		Region: region,
		Date:   date,
	}
	startedAt := time.Now()
	log.Printf("Run %s started: region=%s date=%s", report.RunID, region, date)

	raw, failed, err := r.fetchRaw(ctx, region, date)
	if err != nil {
		return report, err
	}
	report.Raw = raw
	report.FailedRegions = failed
	log.Printf("Saved %s", raw)

	enrichedPath := dataset.EnrichedPath(r.outDir, region, date)
	enriched, err := dataset.Enrich(ctx, raw.Path, enrichedPath, r.classifier, dataset.EnrichOptions{
		Workers:  r.enrichWorkers,
		Progress: r.progress,
	})
	if err != nil {
		return report, err
	}
	report.Enriched = enriched
	log.Printf("Saved %s", enriched)

	if r.store != nil {
		if err := r.persist(ctx, report, startedAt); err != nil {
			return report, err
		}
	}
	return report, nil
}

// fetchRaw streams the fetch into the raw dataset writer.
func (r *Runner) fetchRaw(ctx context.Context, region registry.Region, date string) (dataset.Summary, []registry.Region, error) {
	writer, err := dataset.NewRawWriter(r.outDir, region, date)
	if err != nil {
		return dataset.Summary{}, nil, err
	}

	var failed []registry.Region
	if region.IsAll() {
		err = r.fetcher.FetchAll(ctx, date, fetch.FetchAllOptions{
			Workers:         r.fetchWorkers,
			ContinueOnError: r.continueOnError,
		}, writer.Add)
		var multi *fetch.MultiRegionError
		if errors.As(err, &multi) {
			failed = multi.FailedRegions()
			log.Printf("Fetch completed with %d failed region(s): %v", len(failed), failed)
			err = nil
		}
	} else {
		err = r.fetcher.FetchRegion(ctx, region, date, writer.Add)
	}
	if err != nil {
		writer.Close()
		return dataset.Summary{}, nil, err
	}

	sum, err := writer.Close()
	if err != nil {
		return dataset.Summary{}, nil, err
	}
	return sum, failed, nil
}

// persist merges the run's raw rows and enrichment into the master store
// and records the run itself.
func (r *Runner) persist(ctx context.Context, report Report, startedAt time.Time) error {
	records, err := dataset.ReadRaw(report.Raw.Path)
	if err != nil {
		return err
	}

	stats, err := r.store.MergeSnapshot(ctx, records)
	if err != nil {
		return fmt.Errorf("merge snapshot: %w", err)
	}
	log.Printf("Merged %d new record(s) into master (%d total)", stats.Inserted, stats.Total)

	enriched := make([]registry.Enriched, len(records))
	for i, rec := range records {
		enriched[i] = dataset.EnrichRecord(r.classifier, rec)
	}
	if _, err := r.store.UpdateEnrichment(ctx, enriched); err != nil {
		return fmt.Errorf("update enrichment: %w", err)
	}

	return r.store.RecordRun(ctx, store.Run{
		ID:           report.RunID,
		Region:       report.Region,
		Date:         report.Date,
		RawRows:      int64(report.Raw.Rows),
		EnrichedRows: int64(report.Enriched.Rows),
		RawPath:      report.Raw.Path,
		EnrichedPath: report.Enriched.Path,
		StartedAt:    startedAt,
	})
}
