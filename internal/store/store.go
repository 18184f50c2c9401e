// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists observations from a tiira.fi export in a local
// SQLite database so they can be searched without re-reading the CSV.
// Species, municipality and place names are indexed with FTS5.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/anttiruonakoski/tiiramuunnin/internal/proj"
	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Store manages the observation SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// New opens or creates the observation database at cfg.DBPath and
// creates the schema if it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "tiira.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			species TEXT NOT NULL,
			date1 TEXT,
			date2 TEXT,
			municipality TEXT,
			place TEXT,
			east REAL,
			north REAL,
			lat REAL,
			lon REAL,
			row_type TEXT,
			row_count TEXT,
			count INTEGER NOT NULL DEFAULT 0,
			saved_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_species ON observations(species)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_date1 ON observations(date1)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='observations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE observations_fts USING fts5(
				species, municipality, place,
				content=observations, content_rowid=rowid)`,
			`CREATE TRIGGER observations_ai AFTER INSERT ON observations BEGIN
				INSERT INTO observations_fts(rowid, species, municipality, place)
				VALUES (new.rowid, new.species, new.municipality, new.place);
			END`,
			`CREATE TRIGGER observations_ad AFTER DELETE ON observations BEGIN
				INSERT INTO observations_fts(observations_fts, rowid, species, municipality, place)
				VALUES('delete', old.rowid, old.species, old.municipality, old.place);
			END`,
			`CREATE TRIGGER observations_au AFTER UPDATE ON observations BEGIN
				INSERT INTO observations_fts(observations_fts, rowid, species, municipality, place)
				VALUES('delete', old.rowid, old.species, old.municipality, old.place);
				INSERT INTO observations_fts(rowid, species, municipality, place)
				VALUES (new.rowid, new.species, new.municipality, new.place);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// LoadSummary holds counts from one load run.
type LoadSummary struct {
	Loaded int
	Failed int
}

// Total returns the number of rows processed.
func (s LoadSummary) Total() int {
	return s.Loaded + s.Failed
}

// HasFailures reports whether any row failed to load.
func (s LoadSummary) HasFailures() bool {
	return s.Failed > 0
}

// Load maps an ingested observation table into the database. Rows get
// a deterministic ID from their key fields, so reloading the same
// export is idempotent. Malformed rows are reported to w and counted,
// never fatal.
func (s *Store) Load(ctx context.Context, table types.Table, w io.Writer) (LoadSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO observations
			(id, species, date1, date2, municipality, place,
			 east, north, lat, lon, row_type, row_count, count, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary LoadSummary
	for r := 0; r < table.Len(); r++ {
		obs, err := buildObservation(table, r)
		if err != nil {
			fmt.Fprintf(w, "failed row %d: %v\n", r, err)
			summary.Failed++
			continue
		}

		_, err = stmt.ExecContext(ctx,
			observationID(obs), obs.Species,
			nullableDate(obs.Date1), nullableDate(obs.Date2),
			obs.Municipality, obs.Place,
			obs.East, obs.North, obs.Lat, obs.Lon,
			obs.RowType, obs.RowCount, obs.Count,
			nullableDateTime(obs.SavedAt),
		)
		if err != nil {
			return summary, fmt.Errorf("inserting row %d: %w", r, err)
		}
		summary.Loaded++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "loaded: %d, failed: %d\n", summary.Loaded, summary.Failed)
	return summary, nil
}

// buildObservation maps one table row to an Observation, reprojecting
// the planar coordinates so searches can return geographic positions.
func buildObservation(t types.Table, r int) (types.Observation, error) {
	east, ok := t.Cell(r, types.ColEast).AsFloat()
	if !ok {
		return types.Observation{}, fmt.Errorf("column %s: not a numeric coordinate", types.ColEast)
	}
	north, ok := t.Cell(r, types.ColNorth).AsFloat()
	if !ok {
		return types.Observation{}, fmt.Errorf("column %s: not a numeric coordinate", types.ColNorth)
	}
	lat, lon := proj.TM35FINToWGS84(east, north)

	obs := types.Observation{
		Species:      cellString(t, r, types.ColSpecies),
		Municipality: cellString(t, r, types.ColMunicipality),
		Place:        cellString(t, r, types.ColPlace),
		East:         east,
		North:        north,
		Lat:          lat,
		Lon:          lon,
		RowType:      cellString(t, r, types.ColRowType),
		RowCount:     cellString(t, r, types.ColRowCount),
	}

	if v := t.Cell(r, types.ColDate1); v.Kind() == types.KindDate {
		obs.Date1 = v.Time()
	}
	if v := t.Cell(r, types.ColDate2); v.Kind() == types.KindDate {
		obs.Date2 = v.Time()
	}
	if v := t.Cell(r, types.ColCount); v.Kind() == types.KindInt {
		obs.Count = v.Int64()
	}
	if v := t.Cell(r, types.ColSavedAt); v.Kind() == types.KindDateTime {
		obs.SavedAt = v.Time()
	}
	return obs, nil
}

func cellString(t types.Table, r int, col string) string {
	v := t.Cell(r, col)
	if v.Kind() == types.KindString {
		return v.Str()
	}
	return ""
}

// observationID produces a deterministic ID from the row's key fields.
// Reloading the same export replaces rows instead of duplicating them.
func observationID(obs types.Observation) string {
	input := fmt.Sprintf("%s|%s|%s|%.1f|%.1f|%s|%d",
		obs.Species, nullableDate(obs.Date1), obs.Municipality,
		obs.East, obs.North, obs.RowType, obs.Count)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

func nullableDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func nullableDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}
