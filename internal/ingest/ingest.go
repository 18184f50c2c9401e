// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads tiira.fi observation exports into an in-memory
// table. It resolves the text encoding (tiira.fi serves either UTF-8 or
// its legacy ISO-8859-15 default), parses the two observation date
// columns and the save timestamp, and fills missing individual counts
// with zero.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

// Encoding names as reported to the caller and reused by the writer so
// output keeps the input encoding.
const (
	EncodingUTF8      = "utf-8"
	EncodingISO885915 = "iso-8859-15"
)

// ErrEncoding is returned when the input decodes under none of the
// supported encodings.
var ErrEncoding = errors.New("input is not valid UTF-8 or ISO-8859-15")

// savedAtLayouts are the accepted Tallennusaika timestamp forms.
var savedAtLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ReadFile parses the export at path and returns the observation table
// together with the resolved encoding name. Open and read failures are
// fatal to the whole run; the caller reports them and exits non-zero.
func ReadFile(path string, cfg types.IngestConfig) (types.Table, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Table{}, "", fmt.Errorf("opening %s: %w", path, err)
	}
	return Parse(data, cfg)
}

// Parse decodes and parses raw export bytes. Encodings are tried in
// fixed priority order: UTF-8 first, then ISO-8859-15. The first
// encoding that decodes wins; content that decodes under neither
// returns ErrEncoding rather than silently falling through.
func Parse(data []byte, cfg types.IngestConfig) (types.Table, string, error) {
	text, encoding, err := decode(data)
	if err != nil {
		return types.Table{}, "", err
	}

	sep := cfg.Separator
	if sep == "" {
		sep = "#"
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma, _ = utf8.DecodeRuneInString(sep)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return types.Table{}, "", fmt.Errorf("parsing delimited text: %w", err)
	}
	if len(records) == 0 {
		return types.Table{}, "", fmt.Errorf("input has no header row")
	}

	header := records[0]
	table := types.Table{
		Columns: append([]string(nil), header...),
		Rows:    make([][]types.Value, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		cells := make([]types.Value, len(header))
		for i := range header {
			raw := ""
			if i < len(record) {
				raw = record[i]
			}
			cells[i] = convertCell(header[i], raw)
		}
		table.Rows = append(table.Rows, cells)
	}

	fillMissingCounts(&table)
	return table, encoding, nil
}

// decode resolves the text encoding. Valid UTF-8 is taken as-is; other
// byte sequences are decoded as ISO-8859-15.
func decode(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}
	text, err := charmap.ISO8859_15.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(text), EncodingISO885915, nil
}

// convertCell applies the per-column converters. Columns without a
// converter stay strings; the geographic conversion owns parsing of the
// coordinate columns so it can report the offending row.
func convertCell(column, raw string) types.Value {
	switch column {
	case types.ColDate1, types.ColDate2:
		return ParseFinnishDate(raw)
	case types.ColSavedAt:
		return parseSavedAt(raw)
	case types.ColCount:
		return parseCount(raw)
	default:
		return types.String(raw)
	}
}

// ParseFinnishDate converts the Finnish day.month.year form to a date
// cell. Empty and unparsable input coerce to Null, never to an error.
func ParseFinnishDate(raw string) types.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Null()
	}
	t, err := time.Parse("2.1.2006", raw)
	if err != nil {
		return types.Null()
	}
	return types.Date(t)
}

// parseSavedAt parses the record save timestamp. Unrecognized forms
// keep the raw string so nothing is lost on round-trip.
func parseSavedAt(raw string) types.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.Null()
	}
	for _, layout := range savedAtLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return types.DateTime(t)
		}
	}
	return types.String(raw)
}

// parseCount parses the individual count. The export writes zero
// observations as an empty cell; those become integer 0 here, and
// fillMissingCounts backstops any Null that slips through. Non-numeric
// content passes through as a string.
func parseCount(raw string) types.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.Int(0)
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return types.String(raw)
	}
	return types.Int(n)
}

// fillMissingCounts replaces Null cells in the count column with
// integer 0. Runs as a post-parse pass over the whole table; after it,
// the count column never holds a null.
func fillMissingCounts(t *types.Table) {
	col := t.ColumnIndex(types.ColCount)
	if col < 0 {
		return
	}
	for _, row := range t.Rows {
		if row[col].IsNull() {
			row[col] = types.Int(0)
		}
	}
}
