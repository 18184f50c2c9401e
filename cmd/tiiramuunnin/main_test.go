// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
)

func TestEnvOverridesNestedSettings(t *testing.T) {
	t.Setenv("TIIRAMUUNNIN_INGEST_SEPARATOR", ";")
	t.Setenv("TIIRAMUUNNIN_EXPORT_FLOAT_DIGITS", "6")
	t.Setenv("TIIRAMUUNNIN_STORE_DB_PATH", "env.db")

	initConfig()
	cfg := pipelineConfig()

	if cfg.Ingest.Separator != ";" {
		t.Errorf("ingest separator = %q, want env override ;", cfg.Ingest.Separator)
	}
	if cfg.Export.FloatDigits != 6 {
		t.Errorf("float digits = %d, want env override 6", cfg.Export.FloatDigits)
	}
	if cfg.Store.DBPath != "env.db" {
		t.Errorf("db path = %q, want env override env.db", cfg.Store.DBPath)
	}
}

func TestDefaultsWithoutOverrides(t *testing.T) {
	initConfig()
	cfg := pipelineConfig()

	if cfg.Ingest.Separator != "#" {
		t.Errorf("ingest separator = %q, want #", cfg.Ingest.Separator)
	}
	if cfg.Export.Separator != "," || cfg.Export.FloatDigits != 10 {
		t.Errorf("export config = %+v, want , and 10", cfg.Export)
	}
}
