// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

// QueryOptions holds parameters for observation searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over species,
	// municipality and place.
	Query string

	// Species filters by exact species identifier.
	Species string

	// Municipality filters by exact municipality name.
	Municipality string

	// Since and Until bound the observation start date (inclusive).
	Since time.Time
	Until time.Time

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Species == "" && q.Municipality == "" &&
		q.Since.IsZero() && q.Until.IsZero()
}

// QueryResult is a stored observation with its database ID.
type QueryResult struct {
	ID string `json:"id" yaml:"id"`
	types.Observation
}

// Search queries the store with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries sort by observation date, newest first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT o.id, o.species, o.date1, o.date2, o.municipality, o.place,
				o.east, o.north, o.lat, o.lon, o.row_type, o.row_count,
				o.count, o.saved_at
			FROM observations_fts
			JOIN observations o ON o.rowid = observations_fts.rowid
			WHERE observations_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT o.id, o.species, o.date1, o.date2, o.municipality, o.place,
				o.east, o.north, o.lat, o.lon, o.row_type, o.row_count,
				o.count, o.saved_at
			FROM observations o
			WHERE 1=1`)
	}

	if opts.Species != "" {
		qb.WriteString(` AND o.species = ?`)
		args = append(args, opts.Species)
	}
	if opts.Municipality != "" {
		qb.WriteString(` AND o.municipality = ?`)
		args = append(args, opts.Municipality)
	}
	if !opts.Since.IsZero() {
		qb.WriteString(` AND o.date1 >= ?`)
		args = append(args, opts.Since.Format(dateLayout))
	}
	if !opts.Until.IsZero() {
		qb.WriteString(` AND o.date1 <= ?`)
		args = append(args, opts.Until.Format(dateLayout))
	}

	if useFTS {
		qb.WriteString(` ORDER BY observations_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY o.date1 DESC, o.species`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr      QueryResult
			date1   sql.NullString
			date2   sql.NullString
			savedAt sql.NullString
		)

		if err := rows.Scan(
			&qr.ID, &qr.Species, &date1, &date2, &qr.Municipality, &qr.Place,
			&qr.East, &qr.North, &qr.Lat, &qr.Lon, &qr.RowType, &qr.RowCount,
			&qr.Count, &savedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Date1 = parseStoredDate(date1, dateLayout)
		qr.Date2 = parseStoredDate(date2, dateLayout)
		qr.SavedAt = parseStoredDate(savedAt, dateTimeLayout)

		results = append(results, qr)
	}

	return results, rows.Err()
}

func parseStoredDate(v sql.NullString, layout string) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(layout, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
