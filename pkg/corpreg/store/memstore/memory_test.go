package memstore

import (
	"context"
	"testing"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
	"github.com/new-village/corpreg/pkg/corpreg/store"
)

func TestMergeSnapshotIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	recs := []registry.Record{
		{CorporateNumber: "0001", UpdateDate: "2026-08-01", Name: "株式会社サンプル"},
		{CorporateNumber: "0002", UpdateDate: "2026-08-01", Name: "サンプル合同会社"},
	}

	stats, err := s.MergeSnapshot(ctx, recs)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Inserted != 2 || stats.Total != 2 {
		t.Errorf("stats = %+v, want 2 inserted of 2", stats)
	}

	// Merging the same snapshot again changes nothing.
	stats, err = s.MergeSnapshot(ctx, recs)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Inserted != 0 || stats.Total != 2 {
		t.Errorf("stats = %+v, want 0 inserted of 2", stats)
	}
}

func TestGetRecordPicksNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	_, err := s.MergeSnapshot(ctx, []registry.Record{
		{CorporateNumber: "0001", UpdateDate: "2026-07-01", Name: "旧称"},
		{CorporateNumber: "0001", UpdateDate: "2026-08-01", Name: "新称"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec, found, err := s.GetRecord(ctx, "0001")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("record not found")
	}
	if rec.Name != "新称" {
		t.Errorf("Name = %q, want 新称", rec.Name)
	}
}

func TestEnrichmentReports(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	_, err := s.MergeSnapshot(ctx, []registry.Record{
		{CorporateNumber: "0001", UpdateDate: "2026-08-01", Name: "株式会社サンプル", Kind: "301", Latest: "1"},
		{CorporateNumber: "0002", UpdateDate: "2026-08-01", Name: "サンプル＿商店", Kind: "301", Latest: "1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.UpdateEnrichment(ctx, []registry.Enriched{
		{CorporateNumber: "0001", EntityType: "株式会社", BrandName: "サンプル"},
		{CorporateNumber: "0002", EntityType: "unknown", BrandName: "サンプル＿商店", Reliability: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}

	irregular, err := s.IrregularNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(irregular) != 1 || irregular[0].CorporateNumber != "0002" {
		t.Errorf("irregular = %+v", irregular)
	}

	unclassified, err := s.UnclassifiedRows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(unclassified) != 1 || unclassified[0].CorporateNumber != "0002" {
		t.Errorf("unclassified = %+v", unclassified)
	}

	low, err := s.LowReliabilityCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if low != 1 {
		t.Errorf("low reliability = %d, want 1", low)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	for _, id := range []string{"01A", "01C", "01B"} {
		if err := s.RecordRun(ctx, store.Run{ID: id, Region: "13", Date: "20260801"}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Errorf("runs = %+v", runs)
	}
}
