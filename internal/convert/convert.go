// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert holds the registry of named conversions and the
// driver that runs requested conversions over an ingested observation
// table. Each conversion is a pure table-to-table transform; adding a
// conversion type means adding a registry entry, not branching logic.
package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

// Conversion transforms an observation table into a derived table.
// Implementations must not mutate the input; the same ingested table is
// shared across all requested conversion types.
type Conversion interface {
	// Name is the identifier used on the command line and in output
	// filenames.
	Name() string
	// Description is a one-line human-readable summary for listings.
	Description() string
	// Apply builds the derived table. Row order is preserved.
	Apply(t types.Table) (types.Table, error)
}

// Sink writes a converted table to a file. The CSV writer in the export
// package is the production implementation; tests substitute fakes.
type Sink interface {
	Write(t types.Table, path string) error
}

// DefaultType is the conversion run when none is requested.
const DefaultType = "geographic_coordinates"

var registry = map[string]Conversion{
	Geographic.Name(): Geographic,
}

// Lookup returns the conversion registered under name.
func Lookup(name string) (Conversion, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered conversion identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RowError reports malformed data in one table row. The row index is
// zero-based over data rows (the header is not counted).
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Summary holds the outcome of a conversion run.
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of requested conversions processed.
func (s Summary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any conversion failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run executes the requested conversion types against table, writing
// each result through sink and per-type status lines to w. Unknown
// types and write failures are recoverable: they produce a message and
// the run continues with the remaining types.
func Run(table types.Table, requested []string, baseOut string, sink Sink, w io.Writer) Summary {
	var summary Summary
	for _, name := range requested {
		c, ok := Lookup(name)
		if !ok {
			fmt.Fprintf(w, "warning: unknown conversion type %q, skipping (see the list command)\n", name)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "running conversion: %s\n", name)
		out, err := c.Apply(table)
		if err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", name, err)
			summary.Failed++
			continue
		}

		path := OutputName(baseOut, name)
		if err := sink.Write(out, path); err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", path, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "converted: %s\n", path)
		summary.Converted++
	}

	fmt.Fprintf(w, "\n%d converted, %d skipped, %d failed\n",
		summary.Converted, summary.Skipped, summary.Failed)
	return summary
}

// OutputName derives the per-conversion output filename by inserting
// the conversion name before the extension of the base output path:
// ("result.csv", "geographic_coordinates") → "result_geographic_coordinates.csv".
func OutputName(base, conversion string) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + conversion + ext
}
