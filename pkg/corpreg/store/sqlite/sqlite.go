package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
	"github.com/new-village/corpreg/pkg/corpreg/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens the master-registry database with WAL mode enabled and
// initializes the schema.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS entities (
	sequence_number TEXT,
	corporate_number TEXT NOT NULL,
	process TEXT,
	correct TEXT,
	update_date TEXT NOT NULL,
	change_date TEXT,
	name TEXT,
	name_image_id TEXT,
	kind TEXT,
	prefecture_name TEXT,
	city_name TEXT,
	street_number TEXT,
	address_image_id TEXT,
	prefecture_code TEXT,
	city_code TEXT,
	post_code TEXT,
	address_outside TEXT,
	address_outside_image_id TEXT,
	close_date TEXT,
	close_cause TEXT,
	successor_corporate_number TEXT,
	change_cause TEXT,
	assignment_date TEXT,
	latest TEXT,
	en_name TEXT,
	en_prefecture_name TEXT,
	en_city_name TEXT,
	en_address_outside TEXT,
	furigana TEXT,
	hihyoji TEXT,
	entity_type TEXT,
	brand_name TEXT,
	brand_name_kana TEXT,
	reliability INTEGER DEFAULT 0,
	PRIMARY KEY(corporate_number, update_date)
);

CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	region TEXT NOT NULL,
	date TEXT NOT NULL,
	raw_rows INTEGER NOT NULL,
	enriched_rows INTEGER NOT NULL,
	raw_path TEXT,
	enriched_path TEXT,
	started_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

const insertEntity = `
INSERT OR IGNORE INTO entities (
	sequence_number, corporate_number, process, correct, update_date,
	change_date, name, name_image_id, kind, prefecture_name, city_name,
	street_number, address_image_id, prefecture_code, city_code, post_code,
	address_outside, address_outside_image_id, close_date, close_cause,
	successor_corporate_number, change_cause, assignment_date, latest,
	en_name, en_prefecture_name, en_city_name, en_address_outside,
	furigana, hihyoji
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// MergeSnapshot inserts snapshot rows that are new on
// (corporate_number, update_date); rows already present in the master are
// kept untouched, matching the first-seen policy of the assembler.
func (s *sqliteStore) MergeSnapshot(ctx context.Context, records []registry.Record) (store.MergeStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.MergeStats{}, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEntity)
	if err != nil {
		return store.MergeStats{}, err
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			r.SequenceNumber, r.CorporateNumber, r.Process, r.Correct, r.UpdateDate,
			r.ChangeDate, r.Name, r.NameImageID, r.Kind, r.PrefectureName, r.CityName,
			r.StreetNumber, r.AddressImageID, r.PrefectureCode, r.CityCode, r.PostCode,
			r.AddressOutside, r.AddressOutsideImageID, r.CloseDate, r.CloseCause,
			r.SuccessorCorporateNumber, r.ChangeCause, r.AssignmentDate, r.Latest,
			r.EnName, r.EnPrefectureName, r.EnCityName, r.EnAddressOutside,
			r.Furigana, r.Hihyoji,
		)
		if err != nil {
			return store.MergeStats{}, fmt.Errorf("merge %s: %w", r.CorporateNumber, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return store.MergeStats{}, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return store.MergeStats{}, err
	}

	total, err := s.Count(ctx)
	if err != nil {
		return store.MergeStats{}, err
	}
	return store.MergeStats{Inserted: inserted, Total: total}, nil
}

// Count returns the number of master rows.
func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&n)
	return n, err
}

// GetRecord returns the newest master row for a corporate number.
func (s *sqliteStore) GetRecord(ctx context.Context, corporateNumber string) (registry.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT sequence_number, corporate_number, process, correct, update_date,
	change_date, name, name_image_id, kind, prefecture_name, city_name,
	street_number, address_image_id, prefecture_code, city_code, post_code,
	address_outside, address_outside_image_id, close_date, close_cause,
	successor_corporate_number, change_cause, assignment_date, latest,
	en_name, en_prefecture_name, en_city_name, en_address_outside,
	furigana, hihyoji
FROM entities WHERE corporate_number = ?
ORDER BY update_date DESC LIMIT 1`, corporateNumber)

	var r registry.Record
	err := row.Scan(
		&r.SequenceNumber, &r.CorporateNumber, &r.Process, &r.Correct, &r.UpdateDate,
		&r.ChangeDate, &r.Name, &r.NameImageID, &r.Kind, &r.PrefectureName, &r.CityName,
		&r.StreetNumber, &r.AddressImageID, &r.PrefectureCode, &r.CityCode, &r.PostCode,
		&r.AddressOutside, &r.AddressOutsideImageID, &r.CloseDate, &r.CloseCause,
		&r.SuccessorCorporateNumber, &r.ChangeCause, &r.AssignmentDate, &r.Latest,
		&r.EnName, &r.EnPrefectureName, &r.EnCityName, &r.EnAddressOutside,
		&r.Furigana, &r.Hihyoji,
	)
	if err == sql.ErrNoRows {
		return registry.Record{}, false, nil
	}
	if err != nil {
		return registry.Record{}, false, err
	}
	return r, true, nil
}

// UpdateEnrichment writes classifier output onto master rows, keyed by
// corporate number. Returns the number of rows updated.
func (s *sqliteStore) UpdateEnrichment(ctx context.Context, rows []registry.Enriched) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
UPDATE entities
SET entity_type = ?, brand_name = ?, brand_name_kana = ?, reliability = ?
WHERE corporate_number = ?`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var updated int64
	for _, e := range rows {
		res, err := stmt.ExecContext(ctx, e.EntityType, e.BrandName, e.BrandNameKana, e.Reliability, e.CorporateNumber)
		if err != nil {
			return 0, fmt.Errorf("update enrichment %s: %w", e.CorporateNumber, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

// RecordRun inserts one run-history row.
func (s *sqliteStore) RecordRun(ctx context.Context, run store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, region, date, raw_rows, enriched_rows, raw_path, enriched_path, started_at)
VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, string(run.Region), run.Date, run.RawRows, run.EnrichedRows,
		run.RawPath, run.EnrichedPath, run.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
	)
	return err
}

// Runs returns the most recent runs, newest first. ULIDs sort
// lexicographically by creation time, so ordering by id is ordering by
// start time.
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, region, date, raw_rows, enriched_rows, raw_path, enriched_path, started_at
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var r store.Run
		var region, started string
		if err := rows.Scan(&r.ID, &region, &r.Date, &r.RawRows, &r.EnrichedRows, &r.RawPath, &r.EnrichedPath, &started); err != nil {
			return nil, err
		}
		r.Region = registry.Region(region)
		r.StartedAt = parseRunTime(started)
		out = append(out, r)
	}
	return out, rows.Err()
}

// IrregularNames returns rows whose name contains the gaiji placeholder ＿;
// their true spelling exists only as a registered image.
func (s *sqliteStore) IrregularNames(ctx context.Context) ([]store.IrregularName, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT corporate_number, name, name_image_id
FROM entities WHERE name LIKE '%＿%'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.IrregularName
	for rows.Next() {
		var n store.IrregularName
		if err := rows.Scan(&n.CorporateNumber, &n.Name, &n.NameImageID); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnclassifiedRows returns current, non-government rows where the
// classifier found no legal form.
func (s *sqliteStore) UnclassifiedRows(ctx context.Context) ([]store.UnclassifiedRow, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT corporate_number, name, brand_name
FROM entities
WHERE kind NOT IN ('101','201','399','499')
  AND latest = '1'
  AND (entity_type IS NULL OR entity_type = '' OR entity_type = 'unknown')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.UnclassifiedRow
	for rows.Next() {
		var u store.UnclassifiedRow
		var brand sql.NullString
		if err := rows.Scan(&u.CorporateNumber, &u.Name, &brand); err != nil {
			return nil, err
		}
		u.BrandName = brand.String
		out = append(out, u)
	}
	return out, rows.Err()
}

// LowReliabilityCount returns the number of rows whose kana is an estimate.
func (s *sqliteStore) LowReliabilityCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities WHERE reliability = 1").Scan(&n)
	return n, err
}

func parseRunTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
