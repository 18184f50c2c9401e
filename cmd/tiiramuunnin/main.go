// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tiiramuunnin CLI, a
// converter for tiira.fi birdwatching observation exports.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anttiruonakoski/tiiramuunnin/internal/convert"
	"github.com/anttiruonakoski/tiiramuunnin/internal/export"
	"github.com/anttiruonakoski/tiiramuunnin/internal/ingest"
	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the conversion pipeline directly: read the export once,
// then run every requested conversion type over it.
var rootCmd = &cobra.Command{
	Use:   "tiiramuunnin",
	Short: "Convert tiira.fi observation export files into different formats",
	Long: `tiiramuunnin converts a tiira.fi birdwatching observation export (CSV,
"#"-separated, UTF-8 or ISO-8859-15) into transformed CSV files:
ETRS-TM35FIN planar coordinates become WGS-84 latitude/longitude,
Finnish dates become ISO-8601, and redundant columns are pruned.

The input file is read once and each requested conversion type writes
its own output file, named by inserting _<type> before the extension
of the base output name. Use the list command to see available types.`,
	SilenceUsage: true,
	RunE:         runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := stringSetting(cmd, "input-file", "input_file")
	output := stringSetting(cmd, "output-file", "output_file")

	requested, _ := cmd.Flags().GetStringArray("type")
	if len(requested) == 0 {
		requested = viper.GetStringSlice("conversions")
	}
	if len(requested) == 0 {
		requested = []string{convert.DefaultType}
	}

	cfg := pipelineConfig()

	// A missing or undecodable input file is fatal to the whole run;
	// everything after this point is recoverable per conversion.
	table, encoding, err := ingest.ReadFile(input, cfg.Ingest)
	if err != nil {
		return err
	}
	fmt.Printf("read %d observations from %s (%s)\n", table.Len(), input, encoding)

	sink := export.CSVSink{Encoding: encoding, Config: cfg.Export}
	convert.Run(table, requested, output, sink, os.Stdout)
	return nil
}

// stringSetting resolves a setting from the flag when given, falling
// back to the viper config value (which carries the default).
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

// pipelineConfig materializes the stage configs from viper.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()
	if v := viper.GetString("ingest.separator"); v != "" {
		cfg.Ingest.Separator = v
	}
	if v := viper.GetString("export.separator"); v != "" {
		cfg.Export.Separator = v
	}
	if v := viper.GetInt("export.float_digits"); v > 0 {
		cfg.Export.FloatDigits = v
	}
	if v := viper.GetString("store.db_path"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := viper.GetInt("store.max_results"); v > 0 {
		cfg.Store.MaxResults = v
	}
	return cfg
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tiiramuunnin.yaml or ~/.config/tiiramuunnin/config.yaml)")

	rootCmd.Flags().StringP("input-file", "f", "", "input file name (default tiira.csv)")
	rootCmd.Flags().StringP("output-file", "o", "", "base output file name (default tiira_muunnettu.csv)")
	rootCmd.Flags().StringArrayP("type", "t", nil, "conversion type, repeatable (default geographic_coordinates)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tiiramuunnin")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tiiramuunnin"))
		}
	}

	viper.SetDefault("input_file", "tiira.csv")
	viper.SetDefault("output_file", "tiira_muunnettu.csv")
	viper.SetDefault("conversions", []string{convert.DefaultType})
	viper.SetDefault("ingest.separator", "#")
	viper.SetDefault("export.separator", ",")
	viper.SetDefault("export.float_digits", 10)
	viper.SetDefault("store.db_path", "tiira.db")
	viper.SetDefault("store.max_results", 20)

	viper.SetEnvPrefix("TIIRAMUUNNIN")
	// Nested keys map to env vars with dots replaced by underscores,
	// e.g. export.float_digits becomes TIIRAMUUNNIN_EXPORT_FLOAT_DIGITS.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
