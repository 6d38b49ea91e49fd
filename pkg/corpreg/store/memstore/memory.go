// Package memstore provides an in-memory Store implementation, useful for
// tests and for runs that do not need a persistent master registry.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
	"github.com/new-village/corpreg/pkg/corpreg/store"
)

type entityKey struct {
	corporateNumber string
	updateDate      string
}

type entityRow struct {
	record   registry.Record
	enriched registry.Enriched
	hasEnr   bool
}

// memStore implements store.Store with plain maps behind a mutex.
type memStore struct {
	mu       sync.RWMutex
	entities map[entityKey]*entityRow
	runs     []store.Run
}

// New creates an empty in-memory store.
func New() store.Store {
	return &memStore{entities: make(map[entityKey]*entityRow)}
}

func (m *memStore) Close() error {
	return nil
}

func (m *memStore) MergeSnapshot(ctx context.Context, records []registry.Record) (store.MergeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var inserted int64
	for _, r := range records {
		key := entityKey{r.CorporateNumber, r.UpdateDate}
		if _, ok := m.entities[key]; ok {
			continue
		}
		m.entities[key] = &entityRow{record: r}
		inserted++
	}
	return store.MergeStats{Inserted: inserted, Total: int64(len(m.entities))}, nil
}

func (m *memStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entities)), nil
}

func (m *memStore) GetRecord(ctx context.Context, corporateNumber string) (registry.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *entityRow
	for key, row := range m.entities {
		if key.corporateNumber != corporateNumber {
			continue
		}
		if best == nil || row.record.UpdateDate > best.record.UpdateDate {
			best = row
		}
	}
	if best == nil {
		return registry.Record{}, false, nil
	}
	return best.record, true, nil
}

func (m *memStore) UpdateEnrichment(ctx context.Context, rows []registry.Enriched) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var updated int64
	for _, e := range rows {
		for key, row := range m.entities {
			if key.corporateNumber == e.CorporateNumber {
				row.enriched = e
				row.hasEnr = true
				updated++
			}
		}
	}
	return updated, nil
}

func (m *memStore) RecordRun(ctx context.Context, run store.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	out := make([]store.Run, len(m.runs))
	copy(out, m.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) IrregularNames(ctx context.Context) ([]store.IrregularName, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.IrregularName
	for _, row := range m.entities {
		if strings.Contains(row.record.Name, "＿") {
			out = append(out, store.IrregularName{
				CorporateNumber: row.record.CorporateNumber,
				Name:            row.record.Name,
				NameImageID:     row.record.NameImageID,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CorporateNumber < out[j].CorporateNumber })
	return out, nil
}

func (m *memStore) UnclassifiedRows(ctx context.Context) ([]store.UnclassifiedRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.UnclassifiedRow
	for _, row := range m.entities {
		if registry.IsGovernmentKind(row.record.Kind) || row.record.Latest != "1" {
			continue
		}
		if !row.hasEnr || row.enriched.EntityType == "" || row.enriched.EntityType == "unknown" {
			out = append(out, store.UnclassifiedRow{
				CorporateNumber: row.record.CorporateNumber,
				Name:            row.record.Name,
				BrandName:       row.enriched.BrandName,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CorporateNumber < out[j].CorporateNumber })
	return out, nil
}

func (m *memStore) LowReliabilityCount(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, row := range m.entities {
		if row.hasEnr && row.enriched.Reliability == 1 {
			n++
		}
	}
	return n, nil
}
