// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IngestConfig holds settings for reading a tiira.fi export file.
type IngestConfig struct {
	// Separator is the input field separator (tiira.fi exports use "#").
	Separator string `json:"separator" yaml:"separator"`
}

// ExportConfig holds settings for writing converted CSV output.
// Float formatting is an explicit value here rather than package state
// so two writers with different precision can coexist.
type ExportConfig struct {
	// Separator is the output field separator (default ",").
	Separator string `json:"separator" yaml:"separator"`

	// FloatDigits is the exact number of fractional digits written for
	// floating-point cells (default 10).
	FloatDigits int `json:"float_digits" yaml:"float_digits"`
}

// StoreConfig holds settings for the local observation store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "tiira.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Export ExportConfig `json:"export" yaml:"export"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}

// DefaultPipelineConfig returns the built-in stage defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Ingest: IngestConfig{Separator: "#"},
		Export: ExportConfig{Separator: ",", FloatDigits: 10},
		Store:  StoreConfig{DBPath: "tiira.db", MaxResults: 20},
	}
}
