package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml", "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Simulation.TickInterval != 2*time.Second || cfg.Simulation.Seed != 42 {
		t.Errorf("unexpected simulation config: %+v", cfg.Simulation)
	}
	// unset fields keep their defaults
	if cfg.Simulation.EventProbability != 0.05 {
		t.Errorf("event probability = %v, want default", cfg.Simulation.EventProbability)
	}
	if cfg.Thresholds.Scenario.Excellent != 92 || cfg.Thresholds.Scenario.Good != 75 {
		t.Errorf("unexpected thresholds: %+v", cfg.Thresholds.Scenario)
	}
	if cfg.Latency.Simple.Max != 50*time.Millisecond {
		t.Errorf("latency = %+v", cfg.Latency.Simple)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0].ID != "region-test-01" {
		t.Fatalf("unexpected regions: %+v", cfg.Regions)
	}
	if cfg.Regions[0].Components != defaultComponents {
		t.Errorf("components not defaulted: %+v", cfg.Regions[0].Components)
	}
}

func TestLoadConfig_SchemaErrors(t *testing.T) {
	for _, f := range []string{"testdata/bad_schema.yaml", "testdata/unknown_field.yaml"} {
		if _, err := Load(f, ""); err == nil {
			t.Errorf("%s: expected schema error", f)
		} else if !strings.Contains(err.Error(), "schema validation failed") {
			t.Errorf("%s: unexpected error %v", f, err)
		}
	}
}

func TestLoadConfig_SemanticErrors(t *testing.T) {
	_, err := Load("testdata/bad_thresholds.yaml", "")
	if err == nil || !strings.Contains(err.Error(), "strictly descending") {
		t.Fatalf("expected threshold error, got %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.yaml", ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Regions) != 6 {
		t.Fatalf("want 6 default regions, got %d", len(cfg.Regions))
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("NETSIM_ADDR", "127.0.0.1:0")
	t.Setenv("GREPTIMEDB_ENDPOINT", "greptime:4001")
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Simulation.TickInterval != 250*time.Millisecond || cfg.Server.Addr != "127.0.0.1:0" || cfg.Greptime.Endpoint != "greptime:4001" {
		t.Fatalf("env not applied: %+v", cfg)
	}

	t.Setenv("TICK_INTERVAL", "soon")
	if err := Default().ApplyEnv(); err == nil {
		t.Fatal("expected error for bad TICK_INTERVAL")
	}
}
