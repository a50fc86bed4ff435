package telemetry

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestSeedComponent(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, ct := range ComponentTypes {
		c := gen.SeedComponent("c-1", "region-x", ct, now)
		p := profiles[ct]
		if c.Health < p.health[0] || c.Health > p.health[1] {
			t.Errorf("%s: health %f outside seed band", ct, c.Health)
		}
		if c.Baseline != c.Health {
			t.Errorf("%s: baseline should equal initial health", ct)
		}
		if !c.LastMaintenance.Before(now) {
			t.Errorf("%s: last maintenance should be in the past", ct)
		}
	}
}

func TestComponentID(t *testing.T) {
	cases := map[string]string{
		ComponentID(RadioAccess, 0, 0): "base-station-01-001",
		ComponentID(Core, 1, 0):        "core-node-02-01",
		ComponentID(Edge, 2, 1):        "edge-compute-03-02",
		ComponentID(Transport, 5, 0):   "router-06-01",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}

func TestWalkComponentStaysInBounds(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))
	c := gen.SeedComponent("c-1", "r", Edge, time.Now())
	p := WalkParams{Step: 25, Reversion: 0.01, Elapsed: time.Second}
	for i := 0; i < 5000; i++ {
		c = gen.WalkComponent(c, p)
		if c.Health < 0 || c.Health > 100 {
			t.Fatalf("tick %d: health %f out of range", i, c.Health)
		}
		if c.FailureRisk < 0.001 || c.FailureRisk > 0.9 {
			t.Fatalf("tick %d: risk %f out of range", i, c.FailureRisk)
		}
	}
}

func TestRestore(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3)))
	c := Component{Type: Core, Health: 40, Baseline: 95, FailureRisk: 0.4}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got := gen.Restore(c, now)
	if got.Health < 60 || got.Health > 80 {
		t.Errorf("health after restore = %f, want 60..80", got.Health)
	}
	if got.FailureRisk != 0.2 {
		t.Errorf("risk = %f, want 0.2", got.FailureRisk)
	}
	if !got.LastMaintenance.Equal(now) {
		t.Errorf("last maintenance not updated")
	}
}

func TestNextRisk(t *testing.T) {
	if got := NextRisk(0.85, 10); got != 0.9 {
		t.Errorf("low health risk = %f, want capped 0.9", got)
	}
	if got := NextRisk(0.001, 99); got != 0.001 {
		t.Errorf("high health risk = %f, want floor 0.001", got)
	}
	if got := NextRisk(0.1, 70); got != 0.1 {
		t.Errorf("mid health risk = %f, want unchanged", got)
	}
}

func TestTrafficPattern(t *testing.T) {
	cases := map[int]string{9: PatternPeak, 19: PatternPeak, 2: PatternLow, 23: PatternLow, 14: PatternNormal}
	for hour, want := range cases {
		if got, _, _ := TrafficPattern(hour); got != want {
			t.Errorf("hour %d: got %s, want %s", hour, got, want)
		}
	}
}

func TestRegionLoadBounds(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(11)))
	for h := 0; h < 24; h++ {
		for i := 0; i < 50; i++ {
			load, _ := gen.RegionLoad(h)
			if load < 0.1 || load > 0.99 {
				t.Fatalf("hour %d: load %f out of range", h, load)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(math.NaN(), 0, 100); got != 0 {
		t.Errorf("NaN clamp = %f", got)
	}
	if got := Clamp(math.Inf(1), 0, 100); got != 100 {
		t.Errorf("+Inf clamp = %f", got)
	}
	if got := Clamp(math.Inf(-1), 0, 100); got != 0 {
		t.Errorf("-Inf clamp = %f", got)
	}
}

func TestTableNames(t *testing.T) {
	orig := RegionTableName
	RegionTableName = "custom"
	defer func() { RegionTableName = orig }()
	if (Region{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (Region{}).TableName())
	}
	if (Component{}).TableName() != ComponentTableName {
		t.Errorf("unexpected component table name")
	}
}
