package fetch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// FetchAllOptions controls the nationwide fan-out.
type FetchAllOptions struct {
	// Workers bounds the number of regions fetched concurrently.
	Workers int
	// ContinueOnError keeps fetching remaining regions after a region
	// fails and reports the failures together at the end. When false the
	// first failure cancels the whole fetch.
	ContinueOnError bool
}

// MultiRegionError aggregates per-region fetch failures.
type MultiRegionError struct {
	Failed map[registry.Region]error
}

func (e *MultiRegionError) Error() string {
	regions := make([]string, 0, len(e.Failed))
	for r := range e.Failed {
		regions = append(regions, string(r))
	}
	sort.Strings(regions)
	return fmt.Sprintf("fetch failed for %d region(s): %s", len(regions), strings.Join(regions, ", "))
}

// FailedRegions returns the failed region codes in ascending order.
func (e *MultiRegionError) FailedRegions() []registry.Region {
	out := make([]registry.Region, 0, len(e.Failed))
	for r := range e.Failed {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FetchAll streams every prefecture's records through yield using a
// bounded worker pool. Row identity is keyed by corporate number, so the
// interleaving of regions in the output stream does not matter. yield is
// serialized; it does not need its own locking.
func (c *Client) FetchAll(ctx context.Context, date string, opts FetchAllOptions, yield func(registry.Record) error) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	regions := make(chan registry.Region)
	var wg sync.WaitGroup

	var mu sync.Mutex // guards yield, yieldErr and failed
	var yieldErr error
	failed := make(map[registry.Region]error)

	emit := func(rec registry.Record) error {
		mu.Lock()
		defer mu.Unlock()
		if yieldErr != nil {
			return yieldErr
		}
		if err := yield(rec); err != nil {
			yieldErr = err
			cancel()
			return err
		}
		return nil
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for region := range regions {
				if ctx.Err() != nil {
					return
				}
				if err := c.FetchRegion(ctx, region, date, emit); err != nil {
					if errors.Is(err, context.Canceled) {
						// Aborted by another region's failure, not a failure
						// of this region.
						return
					}
					mu.Lock()
					failed[region] = err
					mu.Unlock()
					if !opts.ContinueOnError {
						cancel()
						return
					}
				}
			}
		}()
	}

	for _, region := range registry.AllRegions() {
		select {
		case regions <- region:
		case <-ctx.Done():
		}
	}
	close(regions)
	wg.Wait()

	if yieldErr != nil {
		return yieldErr
	}
	if len(failed) > 0 {
		if !opts.ContinueOnError {
			// Report the first failure deterministically.
			var first registry.Region
			for r := range failed {
				if first == "" || r < first {
					first = r
				}
			}
			return failed[first]
		}
		return &MultiRegionError{Failed: failed}
	}
	return ctx.Err()
}
