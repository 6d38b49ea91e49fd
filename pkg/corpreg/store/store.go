package store

import (
	"context"
	"time"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// Store is the master-registry persistence interface: an accumulating
// record of every snapshot fetched so far, plus the enrichment columns and
// the run history.
type Store interface {
	Close() error

	// Snapshots
	MergeSnapshot(ctx context.Context, records []registry.Record) (MergeStats, error)
	Count(ctx context.Context) (int64, error)
	GetRecord(ctx context.Context, corporateNumber string) (registry.Record, bool, error)

	// Enrichment
	UpdateEnrichment(ctx context.Context, rows []registry.Enriched) (int64, error)

	// Run history
	RecordRun(ctx context.Context, run Run) error
	Runs(ctx context.Context, limit int) ([]Run, error)

	// Quality reporting
	IrregularNames(ctx context.Context) ([]IrregularName, error)
	UnclassifiedRows(ctx context.Context) ([]UnclassifiedRow, error)
	LowReliabilityCount(ctx context.Context) (int64, error)
}

// MergeStats reports the outcome of merging one snapshot into the master.
type MergeStats struct {
	Inserted int64
	Total    int64
}

// Run is one pipeline execution recorded for observability.
type Run struct {
	ID           string // ULID, assigned at run start
	Region       registry.Region
	Date         string
	RawRows      int64
	EnrichedRows int64
	RawPath      string
	EnrichedPath string
	StartedAt    time.Time
}

// IrregularName is a row whose registered name contains the gaiji
// placeholder and therefore cannot be rendered faithfully in plain text.
type IrregularName struct {
	CorporateNumber string
	Name            string
	NameImageID     string
}

// UnclassifiedRow is a current, non-government row where classification
// found no legal form.
type UnclassifiedRow struct {
	CorporateNumber string
	Name            string
	BrandName       string
}
