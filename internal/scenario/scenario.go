package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Tag names one of the five health archetypes.
type Tag string

const (
	Excellent   Tag = "excellent"
	Good        Tag = "good"
	Degraded    Tag = "degraded"
	Maintenance Tag = "maintenance"
	Critical    Tag = "critical"
)

// Tags lists every archetype in catalog order.
var Tags = []Tag{Excellent, Good, Degraded, Maintenance, Critical}

// Valid reports whether t is one of the known archetypes.
func (t Tag) Valid() bool {
	for _, k := range Tags {
		if k == t {
			return true
		}
	}
	return false
}

// Range is a closed numeric interval metrics are drawn from.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Draw returns a uniform value in [Min, Max].
func (r Range) Draw(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// DrawInt returns a uniform integer in [Min, Max].
func (r Range) DrawInt(rng *rand.Rand) int {
	lo, hi := int(math.Round(r.Min)), int(math.Round(r.Max))
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// StatusFigures shape the network-wide status payload.
type StatusFigures struct {
	OverallHealth        string `yaml:"overall_health"`
	UptimePercent        Range  `yaml:"uptime_percent"`
	ActiveRegionsLost    int    `yaml:"active_regions_lost"`
	BaseStationShare     Range  `yaml:"base_station_share"`
	ConnectedDeviceShare Range  `yaml:"connected_device_share"`
	ThroughputGbps       Range  `yaml:"throughput_gbps"`
	PredictionConfidence Range  `yaml:"prediction_confidence"`
}

// TelemetryRanges shape per-region telemetry.
type TelemetryRanges struct {
	ThroughputMbps    Range `yaml:"throughput_mbps"`
	LatencyMs         Range `yaml:"latency_ms"`
	PacketLossPercent Range `yaml:"packet_loss_percent"`
	ErrorRate         Range `yaml:"error_rate"`
	CPUUtilization    Range `yaml:"cpu_utilization"`
	MemoryUtilization Range `yaml:"memory_utilization"`
	ActiveSessions    Range `yaml:"active_sessions"`
	SignalStrengthDbm Range `yaml:"signal_strength_dbm"`
}

// ForecastRanges shape health forecasts.
type ForecastRanges struct {
	RiskScore       Range `yaml:"risk_score"`
	Confidence      Range `yaml:"confidence"`
	Incidents       Range `yaml:"incidents"`
	PeakUtilization Range `yaml:"peak_utilization"`
}

// Definition is one immutable health archetype with the ranges every endpoint family draws from.
type Definition struct {
	Tag               Tag             `yaml:"tag"`
	Title             string          `yaml:"title"`
	Description       string          `yaml:"description"`
	Status            StatusFigures   `yaml:"status"`
	Telemetry         TelemetryRanges `yaml:"telemetry"`
	FailureRisk       Range           `yaml:"failure_risk"`
	Forecast          ForecastRanges  `yaml:"forecast"`
	Anomalies         int             `yaml:"anomalies"`
	HighPriorityRatio float64         `yaml:"high_priority_ratio"`
	Workflows         int             `yaml:"workflows"`
	Incidents         int             `yaml:"incidents"`
	ImpactMultiplier  float64         `yaml:"impact_multiplier"`
	SLACompliance     float64         `yaml:"sla_compliance"`
}

// Catalog holds one Definition per Tag.
type Catalog struct {
	defs map[Tag]Definition
}

// NewCatalog builds a catalog and rejects unknown or missing tags.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[Tag]Definition, len(defs))}
	for _, d := range defs {
		if !d.Tag.Valid() {
			return nil, fmt.Errorf("unknown scenario tag %q", d.Tag)
		}
		c.defs[d.Tag] = d
	}
	for _, t := range Tags {
		if _, ok := c.defs[t]; !ok {
			return nil, fmt.Errorf("scenario %q missing from catalog", t)
		}
	}
	return c, nil
}

// Get returns the definition for tag. Unknown tags fall back to Good.
func (c *Catalog) Get(tag Tag) Definition {
	if d, ok := c.defs[tag]; ok {
		return d
	}
	return c.defs[Good]
}

// All returns definitions in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, 0, len(Tags))
	for _, t := range Tags {
		out = append(out, c.defs[t])
	}
	return out
}

// Load reads a YAML list of definitions from disk and layers them over the built-in catalog.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var overrides []Definition
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	merged := make(map[Tag]Definition)
	for _, d := range builtInDefinitions() {
		merged[d.Tag] = d
	}
	for _, d := range overrides {
		if !d.Tag.Valid() {
			return nil, fmt.Errorf("parse scenarios: unknown tag %q", d.Tag)
		}
		merged[d.Tag] = d
	}
	defs := make([]Definition, 0, len(merged))
	for _, t := range Tags {
		defs = append(defs, merged[t])
	}
	return NewCatalog(defs)
}
