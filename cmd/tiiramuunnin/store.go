// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anttiruonakoski/tiiramuunnin/internal/ingest"
	"github.com/anttiruonakoski/tiiramuunnin/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep observations in a local database (load, search, export)",
	Long: `Store keeps observations from tiira.fi exports in a local SQLite
database so they can be searched without re-reading the CSV. Species,
municipality and place names are indexed for full-text search, and
coordinates are stored both in the original ETRS-TM35FIN grid and as
WGS-84 latitude/longitude.`,
}

// --- load subcommand ---

var storeLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a tiira.fi export into the observation database",
	Long: `Load reads an export file with the same ingestion rules as the
converter and upserts its rows into the database. Rows get a
deterministic ID from their key fields, so loading the same export
twice does not duplicate observations.`,
	RunE: runStoreLoad,
}

func runStoreLoad(cmd *cobra.Command, args []string) error {
	input := stringSetting(cmd, "input-file", "input_file")
	cfg := pipelineConfig()
	applyStoreFlags(cmd, &cfg.Store.DBPath)

	table, encoding, err := ingest.ReadFile(input, cfg.Ingest)
	if err != nil {
		return err
	}
	fmt.Printf("read %d observations from %s (%s)\n", table.Len(), input, encoding)

	s, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Load(context.Background(), table, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d row(s) failed to load", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var storeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored observations",
	Long: `Search queries the observation database with full-text search over
species, municipality and place names, structured filters, or both.`,
	RunE: runStoreSearch,
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	applyStoreFlags(cmd, &cfg.Store.DBPath)

	s, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search term, --species, --municipality, --since, or --until")
	}

	results, err := s.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No observations found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-10s  %-32s  %-10s  %-11s  %s\n",
		"Rank", "Species", "Date", "Place", "Lat", "Lon", "Count")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))

	for i, r := range results {
		place := r.Municipality + ", " + r.Place
		if len(place) > 32 {
			place = place[:29] + "..."
		}
		date := ""
		if !r.Date1.IsZero() {
			date = r.Date1.Format("2006-01-02")
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-10s  %-32s  %-10.6f  %-11.6f  %d\n",
			i+1, truncate(r.Species, 24), date, place, r.Lat, r.Lon, r.Count)
	}

	fmt.Fprintf(os.Stdout, "\n%d observations\n", len(results))
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored observations to YAML or JSON",
	Long: `Export writes the observation database (or a filtered subset) to a
YAML or JSON file. Supports the same filter flags as search.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	cfg := pipelineConfig()
	applyStoreFlags(cmd, &cfg.Store.DBPath)

	s, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		if out == "" {
			out = "tiira_export.yaml"
		}
		if err := s.ExportYAML(context.Background(), out, opts); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "tiira_export.json"
		}
		if err := s.ExportJSON(context.Background(), out, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- shared helpers ---

func applyStoreFlags(cmd *cobra.Command, dbPath *string) {
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		*dbPath = v
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (store.QueryOptions, error) {
	opts := store.QueryOptions{
		Query: strings.Join(args, " "),
	}
	opts.Species, _ = cmd.Flags().GetString("species")
	opts.Municipality, _ = cmd.Flags().GetString("municipality")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")

	since, _ := cmd.Flags().GetString("since")
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return store.QueryOptions{}, fmt.Errorf("invalid --since date %q: use YYYY-MM-DD", since)
		}
		opts.Since = t
	}
	until, _ := cmd.Flags().GetString("until")
	if until != "" {
		t, err := time.Parse("2006-01-02", until)
		if err != nil {
			return store.QueryOptions{}, fmt.Errorf("invalid --until date %q: use YYYY-MM-DD", until)
		}
		opts.Until = t
	}
	return opts, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("db", "", "observation database file (default tiira.db)")

	// Load flags.
	storeLoadCmd.Flags().StringP("input-file", "f", "", "input file name (default tiira.csv)")

	// Search flags.
	storeSearchCmd.Flags().String("species", "", "filter by exact species identifier")
	storeSearchCmd.Flags().String("municipality", "", "filter by exact municipality name")
	storeSearchCmd.Flags().String("since", "", "earliest observation date (YYYY-MM-DD)")
	storeSearchCmd.Flags().String("until", "", "latest observation date (YYYY-MM-DD)")
	storeSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("out", "", "output file (default tiira_export.<format>)")
	storeExportCmd.Flags().String("species", "", "filter by exact species identifier")
	storeExportCmd.Flags().String("municipality", "", "filter by exact municipality name")
	storeExportCmd.Flags().String("since", "", "earliest observation date (YYYY-MM-DD)")
	storeExportCmd.Flags().String("until", "", "latest observation date (YYYY-MM-DD)")
	storeExportCmd.Flags().Int("limit", 0, "maximum observations to export (0 = all)")

	// Wire subcommands.
	storeCmd.AddCommand(storeLoadCmd)
	storeCmd.AddCommand(storeSearchCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
