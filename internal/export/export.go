// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes observation tables back to delimited text.
// Output keeps the encoding the ingestor resolved for the input file,
// so a legacy ISO-8859-15 export round-trips in ISO-8859-15.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/anttiruonakoski/tiiramuunnin/internal/ingest"
	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// WriteFile serializes t to path. Write failures are recoverable per
// conversion: the caller reports them and continues with the next
// requested type.
func WriteFile(t types.Table, path, encoding string, cfg types.ExportConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(t, f, encoding, cfg); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Write serializes t to w: header row first, no row-index column,
// floats with exactly cfg.FloatDigits fractional digits, dates in
// ISO-8601 form, nulls as empty cells.
func Write(t types.Table, w io.Writer, encoding string, cfg types.ExportConfig) error {
	if encoding == ingest.EncodingISO885915 {
		w = transform.NewWriter(w, charmap.ISO8859_15.NewEncoder())
	}

	sep := cfg.Separator
	if sep == "" {
		sep = ","
	}
	digits := cfg.FloatDigits
	if digits <= 0 {
		digits = 10
	}

	cw := csv.NewWriter(w)
	cw.Comma, _ = utf8.DecodeRuneInString(sep)

	if err := cw.Write(t.Columns); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = formatValue(v, digits)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v types.Value, floatDigits int) string {
	switch v.Kind() {
	case types.KindNull:
		return ""
	case types.KindInt:
		return strconv.FormatInt(v.Int64(), 10)
	case types.KindFloat:
		return strconv.FormatFloat(v.Float64(), 'f', floatDigits, 64)
	case types.KindDate:
		return v.Time().Format(dateLayout)
	case types.KindDateTime:
		return v.Time().Format(dateTimeLayout)
	default:
		return v.Str()
	}
}

// CSVSink adapts WriteFile to the conversion driver's Sink interface,
// carrying the resolved input encoding and writer settings.
type CSVSink struct {
	Encoding string
	Config   types.ExportConfig
}

func (s CSVSink) Write(t types.Table, path string) error {
	return WriteFile(t, path, s.Encoding, s.Config)
}
