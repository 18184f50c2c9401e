// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/anttiruonakoski/tiiramuunnin/internal/ingest"
	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

func defaultCfg() types.ExportConfig {
	return types.ExportConfig{Separator: ",", FloatDigits: 10}
}

func sampleTable() types.Table {
	return types.Table{
		Columns: []string{"Laji", "Pvm1", "Paikka", "X-koord", "Y-koord", "rivityyppi", "rivejä"},
		Rows: [][]types.Value{
			{
				types.String("Parus major"),
				types.Date(time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)),
				types.String("Helsinki, Keskuspuisto"),
				types.Float(24.9274577132),
				types.Float(60.1686660004),
				types.String("1"),
				types.String("1"),
			},
			{
				types.String("Pyrrhula pyrrhula"),
				types.Null(),
				types.String("Hyvinkää, Sveitsin puisto"),
				types.Float(24.85),
				types.Float(60.63),
				types.String("1"),
				types.String("1"),
			},
		},
	}
}

func TestWriteFloatFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleTable(), &buf, ingest.EncodingUTF8, defaultCfg()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "Laji,Pvm1,Paikka,X-koord,Y-koord,rivityyppi,rivejä" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "24.9274577132") {
		t.Errorf("row 1 = %q, longitude should carry 10 fractional digits", lines[1])
	}
	// Exactly ten digits even for short decimal expansions.
	if !strings.Contains(lines[2], "24.8500000000") || !strings.Contains(lines[2], "60.6300000000") {
		t.Errorf("row 2 = %q, want zero-padded 10-digit floats", lines[2])
	}
}

func TestWriteNullDateIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleTable(), &buf, ingest.EncodingUTF8, defaultCfg()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "Pyrrhula pyrrhula,,") {
		t.Errorf("row 2 = %q, null date should serialize as empty cell", lines[2])
	}
	if !strings.HasPrefix(lines[1], "Parus major,2020-02-01,") {
		t.Errorf("row 1 = %q, date should be ISO-8601", lines[1])
	}
}

func TestWriteQuotesMergedPlace(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleTable(), &buf, ingest.EncodingUTF8, defaultCfg()); err != nil {
		t.Fatal(err)
	}
	// The merged place contains the output separator and must be quoted.
	if !strings.Contains(buf.String(), `"Helsinki, Keskuspuisto"`) {
		t.Errorf("output %q should quote the merged place field", buf.String())
	}
}

func TestWriteFilePreservesEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteFile(sampleTable(), path, ingest.EncodingISO885915, defaultCfg()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := charmap.ISO8859_15.NewDecoder().Bytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(decoded), "Hyvinkää") {
		t.Error("ISO-8859-15 output should decode back to the original text")
	}
	if bytes.Contains(data, []byte("Hyvinkää")) {
		t.Error("output bytes are UTF-8, want ISO-8859-15")
	}
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(sampleTable(), filepath.Join(t.TempDir(), "missing", "out.csv"),
		ingest.EncodingUTF8, defaultCfg())
	if err == nil {
		t.Fatal("expected an error for an invalid path")
	}
}

// Round-trip: ingesting the writer's output reproduces the
// non-coordinate column values exactly.
func TestRoundTrip(t *testing.T) {
	table := sampleTable()
	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	if err := WriteFile(table, path, ingest.EncodingUTF8, defaultCfg()); err != nil {
		t.Fatal(err)
	}

	back, encoding, err := ingest.ReadFile(path, types.IngestConfig{Separator: ","})
	if err != nil {
		t.Fatal(err)
	}
	if encoding != ingest.EncodingUTF8 {
		t.Errorf("encoding = %q", encoding)
	}
	if back.Len() != table.Len() {
		t.Fatalf("rows = %d, want %d", back.Len(), table.Len())
	}

	for r := 0; r < table.Len(); r++ {
		for _, col := range []string{"Laji", "Paikka", "rivityyppi", "rivejä"} {
			want := table.Cell(r, col).Str()
			if got := back.Cell(r, col).Str(); got != want {
				t.Errorf("row %d %s = %q, want %q", r, col, got, want)
			}
		}
	}

	// The writer emits ISO dates and the ingestor only parses the
	// Finnish day.month.year form, so date cells coerce to null on
	// re-ingestion rather than round-tripping.
	if v := back.Cell(0, "Pvm1"); !v.IsNull() {
		t.Errorf("ISO-formatted date should ingest as null, got %+v", v)
	}
	if v := back.Cell(1, "Pvm1"); !v.IsNull() {
		t.Errorf("empty date cell should ingest as null, got %+v", v)
	}
}
