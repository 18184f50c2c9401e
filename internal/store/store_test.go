// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(types.StoreConfig{
		DBPath:     filepath.Join(t.TempDir(), "tiira.db"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sourceTable(rows ...[]types.Value) types.Table {
	return types.Table{
		Columns: []string{
			types.ColSpecies, types.ColDate1, types.ColDate2, types.ColMunicipality,
			types.ColPlace, types.ColEast, types.ColNorth, types.ColRowType,
			types.ColRowCount, types.ColCount, types.ColSavedAt,
		},
		Rows: rows,
	}
}

func observationRow(species, municipality, place, east, north string, count int64, date time.Time) []types.Value {
	return []types.Value{
		types.String(species),
		types.Date(date),
		types.Null(),
		types.String(municipality),
		types.String(place),
		types.String(east),
		types.String(north),
		types.String("1"),
		types.String("1"),
		types.Int(count),
		types.DateTime(date.Add(10 * time.Hour)),
	}
}

func TestLoadAndSearch(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
		observationRow("Pyrrhula pyrrhula", "Hyvinkää", "Sveitsin puisto", "384900", "6714000", 1,
			time.Date(2019, time.December, 3, 0, 0, 0, 0, time.UTC)),
	)

	var log bytes.Buffer
	summary, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Loaded)
	assert.False(t, summary.HasFailures())

	results, err := s.Search(context.Background(), QueryOptions{Species: "Parus major"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "Helsinki", got.Municipality)
	assert.Equal(t, int64(3), got.Count)
	assert.Equal(t, 385000.0, got.East)
	assert.InDelta(t, 60.168666, got.Lat, 1e-5, "stored latitude should be reprojected")
	assert.InDelta(t, 24.927458, got.Lon, 1e-5, "stored longitude should be reprojected")
	assert.Equal(t, time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC), got.Date1)
}

func TestLoadIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
	)

	var log bytes.Buffer
	_, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)
	_, err = s.Load(context.Background(), table, &log)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), QueryOptions{Species: "Parus major"})
	require.NoError(t, err)
	assert.Len(t, results, 1, "reloading the same export must not duplicate rows")
}

func TestLoadBadCoordinateIsCounted(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
		observationRow("Corvus corax", "Espoo", "Nuuksio", "ei tiedossa", "6690000", 1,
			time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)),
	)

	var log bytes.Buffer
	summary, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, log.String(), "failed row 1")
}

func TestSearchFullText(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
		observationRow("Pyrrhula pyrrhula", "Hyvinkää", "Sveitsin puisto", "384900", "6714000", 1,
			time.Date(2019, time.December, 3, 0, 0, 0, 0, time.UTC)),
	)
	var log bytes.Buffer
	_, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), QueryOptions{Query: "Keskuspuisto"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Parus major", results[0].Species)
}

func TestSearchDateRange(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
		observationRow("Pyrrhula pyrrhula", "Hyvinkää", "Sveitsin puisto", "384900", "6714000", 1,
			time.Date(2019, time.December, 3, 0, 0, 0, 0, time.UTC)),
	)
	var log bytes.Buffer
	_, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), QueryOptions{
		Since: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Parus major", results[0].Species)
}

func TestExportJSON(t *testing.T) {
	s := newTestStore(t)
	table := sourceTable(
		observationRow("Parus major", "Helsinki", "Keskuspuisto", "385000", "6672000", 3,
			time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
	)
	var log bytes.Buffer
	_, err := s.Load(context.Background(), table, &log)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, s.ExportJSON(context.Background(), path, QueryOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []QueryResult
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Parus major", entries[0].Species)
	assert.NotEmpty(t, entries[0].ID)
}
