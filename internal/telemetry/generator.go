package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Weather conditions a region can drift between.
var WeatherConditions = []string{"clear", "cloudy", "rainy", "stormy", "foggy", "sunny"}

// Traffic patterns by time of day.
const (
	PatternPeak   = "peak"
	PatternNormal = "normal"
	PatternLow    = "low"
)

// WalkParams bound a single tick of the health walk.
type WalkParams struct {
	Step      float64       // max uniform jitter per tick
	Reversion float64       // share of the gap to baseline closed per tick
	Elapsed   time.Duration // wall time covered by the tick
}

type typeProfile struct {
	health, risk   [2]float64
	tempC, powerW  float64
	uptimeHoursMax float64
}

var profiles = map[ComponentType]typeProfile{
	RadioAccess: {health: [2]float64{85, 100}, risk: [2]float64{0.01, 0.05}, tempC: 45, powerW: 350, uptimeHoursMax: 2000},
	Core:        {health: [2]float64{90, 100}, risk: [2]float64{0.005, 0.02}, tempC: 40, powerW: 200, uptimeHoursMax: 8760},
	Edge:        {health: [2]float64{80, 100}, risk: [2]float64{0.02, 0.08}, tempC: 50, powerW: 750, uptimeHoursMax: 1500},
	Transport:   {health: [2]float64{88, 100}, risk: [2]float64{0.01, 0.04}, tempC: 42, powerW: 180, uptimeHoursMax: 4000},
}

// Generator simulates health and telemetry for network components. It is not
// safe for concurrent use; callers serialize access to the random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// ComponentID formats the stable id of the n-th component of type t in the
// region at index regionIdx.
func ComponentID(t ComponentType, regionIdx, n int) string {
	if t == RadioAccess {
		return fmt.Sprintf("%s-%02d-%03d", t.Prefix(), regionIdx+1, n+1)
	}
	return fmt.Sprintf("%s-%02d-%02d", t.Prefix(), regionIdx+1, n+1)
}

// SeedComponent creates a fresh component with a healthy baseline.
func (g *Generator) SeedComponent(id, regionID string, t ComponentType, now time.Time) Component {
	p := profiles[t]
	h := g.uniform(p.health[0], p.health[1])
	c := Component{
		ID:              id,
		RegionID:        regionID,
		Type:            t,
		Health:          h,
		Baseline:        h,
		FailureRisk:     g.uniform(p.risk[0], p.risk[1]),
		DegradationRate: g.uniform(0.001, 0.01),
		LastMaintenance: now.Add(-time.Duration(1+g.rng.Intn(90)) * 24 * time.Hour),
		ActiveEvents:    []string{},
		LastUpdated:     now,
	}
	c.Metrics = PerformanceMetrics{UptimeHours: g.uniform(100, p.uptimeHoursMax)}
	c.Metrics = g.metrics(c, 0)
	return c
}

// WalkComponent returns c advanced by one tick: uniform jitter, mean
// reversion toward the seed baseline and natural degradation.
func (g *Generator) WalkComponent(c Component, p WalkParams) Component {
	jitter := (g.rng.Float64()*2 - 1) * p.Step
	h := c.Health + jitter + p.Reversion*(c.Baseline-c.Health) - c.DegradationRate
	c.Health = Clamp(h, 0, 100)
	c.FailureRisk = NextRisk(c.FailureRisk, c.Health)
	c.Metrics = g.metrics(c, p.Elapsed)
	return c
}

// WalkRegion moves a region score halfway toward the mean of its components
// plus a small jitter.
func (g *Generator) WalkRegion(r Region, componentMean float64, p WalkParams) Region {
	jitter := (g.rng.Float64()*2 - 1) * p.Step / 2
	r.Health = Clamp(r.Health+(componentMean-r.Health)/2+jitter, 0, 100)
	return r
}

// Restore applies maintenance: +20..40 health, halved failure risk.
func (g *Generator) Restore(c Component, now time.Time) Component {
	c.Health = Clamp(c.Health+g.uniform(20, 40), 0, 100)
	if c.Health > c.Baseline {
		c.Baseline = c.Health
	}
	c.FailureRisk = math.Max(0.001, c.FailureRisk*0.5)
	c.LastMaintenance = now
	c.Metrics = g.metrics(c, 0)
	return c
}

// NextRisk derives the failure risk for the next tick from the current health.
func NextRisk(risk, health float64) float64 {
	switch {
	case health < 50:
		risk = math.Min(0.9, risk*1.1)
	case health > 90:
		risk = math.Max(0.001, risk*0.99)
	}
	return Clamp(risk, 0.001, 0.9)
}

func (g *Generator) metrics(c Component, elapsed time.Duration) PerformanceMetrics {
	p := profiles[c.Type]
	hf := (100 - c.Health) / 100
	m := c.Metrics
	m.UptimeHours += elapsed.Hours()
	m.TemperatureC = round1(p.tempC + hf*20 + g.uniform(-2, 2))
	m.PowerWatts = round1(p.powerW * (1 + hf*0.3) * g.uniform(0.95, 1.05))
	m.ErrorCount24h = int(hf*50) + g.rng.Intn(5)
	return m
}

// TrafficPattern classifies hour of day and returns the load multiplier band.
func TrafficPattern(hour int) (pattern string, lo, hi float64) {
	switch {
	case (hour >= 8 && hour <= 10) || (hour >= 18 && hour <= 21):
		return PatternPeak, 1.2, 1.5
	case hour >= 23 || hour <= 6:
		return PatternLow, 0.4, 0.7
	default:
		return PatternNormal, 0.8, 1.1
	}
}

// RegionLoad draws the region load for the given hour of day.
func (g *Generator) RegionLoad(hour int) (float64, string) {
	pattern, lo, hi := TrafficPattern(hour)
	load := 0.6*g.uniform(lo, hi)*g.uniform(0.9, 1.1) + g.uniform(-0.1, 0.1)
	return round3(Clamp(load, 0.1, 0.99)), pattern
}

// DriftWeather changes conditions with probability chance and nudges the
// temperature by up to 2 degrees.
func (g *Generator) DriftWeather(weather string, tempC, chance float64) (string, float64) {
	if g.rng.Float64() < chance {
		weather = WeatherConditions[g.rng.Intn(len(WeatherConditions))]
	}
	return weather, round1(Clamp(tempC+g.uniform(-2, 2), -10, 40))
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
