package main

import (
	"bytes"
	"strings"
	"testing"

	"netintel-sim/internal/scenario"
)

func TestBand(t *testing.T) {
	th := scenario.DefaultThresholds().Scenario
	cases := map[scenario.Tag]string{
		scenario.Excellent:   "90-100",
		scenario.Good:        "75-90",
		scenario.Maintenance: "60-75",
		scenario.Degraded:    "35-60",
		scenario.Critical:    "0-35",
	}
	for tag, want := range cases {
		if got := band(tag, th); got != want {
			t.Errorf("band(%s) = %q, want %q", tag, got, want)
		}
	}
}

func TestRenderScenarios(t *testing.T) {
	var buf bytes.Buffer
	if err := renderScenarios(&buf, scenario.BuiltIn(), scenario.DefaultThresholds().Scenario); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, tag := range scenario.Tags {
		if !strings.Contains(out, string(tag)) {
			t.Errorf("output missing %s", tag)
		}
	}
}
