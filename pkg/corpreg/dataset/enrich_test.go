package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/parse"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func writeRawFixture(t *testing.T, dir string, recs []registry.Record) string {
	t.Helper()
	w, err := NewRawWriter(dir, "13", "20260801")
	require.NoError(t, err)
	for _, rec := range recs {
		require.NoError(t, w.Add(rec))
	}
	sum, err := w.Close()
	require.NoError(t, err)
	return sum.Path
}

func TestEnrichRecordFuriganaPrecedence(t *testing.T) {
	cls := parse.NewClassifier(nil, nil)

	tests := []struct {
		name        string
		rec         registry.Record
		kana        string
		reliability int
	}{
		{
			name:        "official furigana wins",
			rec:         registry.Record{CorporateNumber: "1", Name: "株式会社山田製作所", Furigana: "ヤマダセイサクショ"},
			kana:        "ヤマダセイサクショ",
			reliability: 0,
		},
		{
			name:        "katakana brand is exact",
			rec:         registry.Record{CorporateNumber: "2", Name: "株式会社サンプル"},
			kana:        "サンプル",
			reliability: 0,
		},
		{
			name:        "estimated reading is flagged",
			rec:         registry.Record{CorporateNumber: "3", Name: "サンプル商事合同会社"},
			kana:        "サンプルショウジ",
			reliability: 1,
		},
		{
			name:        "no reading at all",
			rec:         registry.Record{CorporateNumber: "4", Name: "Example Holdings"},
			kana:        "",
			reliability: 1,
		},
		{
			name:        "blank furigana does not count as official",
			rec:         registry.Record{CorporateNumber: "5", Name: "サンプル商事合同会社", Furigana: "　 "},
			kana:        "サンプルショウジ",
			reliability: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnrichRecord(cls, tt.rec)
			assert.Equal(t, tt.kana, got.BrandNameKana)
			assert.Equal(t, tt.reliability, got.Reliability)
		})
	}
}

func TestEnrichProducesOneRowPerInput(t *testing.T) {
	dir := t.TempDir()
	recs := []registry.Record{
		{CorporateNumber: "3000000000003", Name: "Example Holdings"},
		{CorporateNumber: "1000000000001", Name: "株式会社サンプル"},
		{CorporateNumber: "2000000000002", Name: "サンプル商事合同会社"},
	}
	rawPath := writeRawFixture(t, dir, recs)
	outPath := EnrichedPath(dir, "13", "20260801")

	cls := parse.NewClassifier(nil, nil)
	sum, err := Enrich(context.Background(), rawPath, outPath, cls, EnrichOptions{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, len(recs), sum.Rows)
	assert.Equal(t, 5, sum.Cols)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	want := "corporate_number,entity_type,brand_name,brand_name_kana,reliability\n" +
		"1000000000001,株式会社,サンプル,サンプル,0\n" +
		"2000000000002,合同会社,サンプル商事,サンプルショウジ,1\n" +
		"3000000000003,unknown,Example Holdings,,1\n"
	assert.Equal(t, want, string(data))
}

func TestEnrichDeterministic(t *testing.T) {
	dir := t.TempDir()
	recs := []registry.Record{
		{CorporateNumber: "2", Name: "有限会社さくら印刷"},
		{CorporateNumber: "1", Name: "一般社団法人サンプル会議所"},
		{CorporateNumber: "3", Name: "日本（株）物産"},
	}
	rawPath := writeRawFixture(t, dir, recs)
	cls := parse.NewClassifier(nil, nil)

	outA := filepath.Join(dir, "a.csv")
	outB := filepath.Join(dir, "b.csv")
	_, err := Enrich(context.Background(), rawPath, outA, cls, EnrichOptions{Workers: 3})
	require.NoError(t, err)
	_, err = Enrich(context.Background(), rawPath, outB, cls, EnrichOptions{Workers: 1})
	require.NoError(t, err)

	a, err := os.ReadFile(outA)
	require.NoError(t, err)
	b, err := os.ReadFile(outB)
	require.NoError(t, err)
	// Same input and tables give byte-identical output whatever the
	// worker count.
	assert.Equal(t, a, b)
}

func TestEnrichRejectsDuplicateCorporateNumbers(t *testing.T) {
	dir := t.TempDir()
	// Bypass RawWriter dedup to simulate a mutated raw file.
	path := filepath.Join(dir, "broken.csv")
	header := "sequence_number,corporate_number,process,correct,update_date,change_date,name,name_image_id,kind,prefecture_name,city_name,street_number,address_image_id,prefecture_code,city_code,post_code,address_outside,address_outside_image_id,close_date,close_cause,successor_corporate_number,change_cause,assignment_date,latest,en_name,en_prefecture_name,en_city_name,en_address_outside,furigana,hihyoji\n"
	row := ",0001,,,,,株式会社サンプル,,,,,,,,,,,,,,,,,,,,,,,\n"
	require.NoError(t, writeTestFile(path, header+row+row))

	cls := parse.NewClassifier(nil, nil)
	_, err := Enrich(context.Background(), path, filepath.Join(dir, "out.csv"), cls, EnrichOptions{})
	assert.ErrorIs(t, err, internalerr.ErrIntegrity)
}

func TestEnrichProgressReachesTotal(t *testing.T) {
	dir := t.TempDir()
	recs := []registry.Record{
		{CorporateNumber: "1", Name: "株式会社サンプル"},
		{CorporateNumber: "2", Name: "株式会社サンプル"},
	}
	rawPath := writeRawFixture(t, dir, recs)

	var last int
	cls := parse.NewClassifier(nil, nil)
	_, err := Enrich(context.Background(), rawPath, filepath.Join(dir, "out.csv"), cls, EnrichOptions{
		Workers:  1,
		Progress: func(done, total int) { last = done; assert.Equal(t, 2, total) },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, last)
}
