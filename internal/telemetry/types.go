// Network topology records shared by the simulator, the composer and the writers
package telemetry

import (
	"os"
	"slices"
	"time"

	"netintel-sim/internal/scenario"
)

// ComponentType classifies a simulated network element.
type ComponentType string

const (
	RadioAccess ComponentType = "radio_access"
	Core        ComponentType = "core"
	Edge        ComponentType = "edge"
	Transport   ComponentType = "transport"
)

// ComponentTypes lists every type in seed order.
var ComponentTypes = []ComponentType{RadioAccess, Core, Edge, Transport}

// Prefix returns the id prefix used for components of this type.
func (t ComponentType) Prefix() string {
	switch t {
	case RadioAccess:
		return "base-station"
	case Core:
		return "core-node"
	case Edge:
		return "edge-compute"
	default:
		return "router"
	}
}

// Region is one geographic slice of the network. Values are immutable once
// published; the simulator replaces the whole record on each tick.
type Region struct {
	ID               string       `json:"region_id"`
	Name             string       `json:"name"`
	BaseStations     int          `json:"base_stations"`
	ConnectedDevices int          `json:"connected_devices"`
	ComponentIDs     []string     `json:"component_ids"`
	Health           float64      `json:"health_score"`
	Scenario         scenario.Tag `json:"scenario"`
	Load             float64      `json:"current_load"`
	TrafficPattern   string       `json:"traffic_pattern"`
	Weather          string       `json:"weather"`
	TemperatureC     float64      `json:"temperature_celsius"`
	Tick             uint64       `json:"tick"`
	LastUpdated      time.Time    `json:"last_updated"`
}

// Clone returns a deep copy.
func (r Region) Clone() Region {
	r.ComponentIDs = slices.Clone(r.ComponentIDs)
	return r
}

// PerformanceMetrics are the per-component gauges surfaced by status endpoints.
type PerformanceMetrics struct {
	UptimeHours   float64 `json:"uptime_hours"`
	ErrorCount24h int     `json:"error_count_24h"`
	TemperatureC  float64 `json:"temperature_celsius"`
	PowerWatts    float64 `json:"power_consumption_watts"`
}

// Component is a single network element inside a region.
type Component struct {
	ID              string             `json:"component_id"`
	RegionID        string             `json:"region_id"`
	Type            ComponentType      `json:"component_type"`
	Health          float64            `json:"health_score"`
	Baseline        float64            `json:"baseline_health"`
	FailureRisk     float64            `json:"failure_risk"`
	DegradationRate float64            `json:"degradation_rate"`
	LastMaintenance time.Time          `json:"last_maintenance"`
	Metrics         PerformanceMetrics `json:"performance_metrics"`
	ActiveEvents    []string           `json:"active_events"`
	Tick            uint64             `json:"tick"`
	LastUpdated     time.Time          `json:"last_updated"`
}

// Clone returns a deep copy.
func (c Component) Clone() Component {
	c.ActiveEvents = slices.Clone(c.ActiveEvents)
	return c
}

// Clock is the simulation clock: a monotonically increasing tick counter and
// the wall time of the last advance.
type Clock struct {
	Tick uint64    `json:"tick"`
	At   time.Time `json:"at"`
}

// Snapshot is a copy of the network state at (roughly) one tick. Records may
// come from neighbouring tick generations.
type Snapshot struct {
	Tick         uint64      `json:"tick"`
	At           time.Time   `json:"ts"`
	Regions      []Region    `json:"regions"`
	Components   []Component `json:"components"`
	ActiveEvents []Event     `json:"active_events,omitempty"`
}

// RegionTableName holds the GreptimeDB table for region rows. It defaults to
// "network_region_health" and can be overridden via GREPTIMEDB_REGION_TABLE.
var RegionTableName = envOr("GREPTIMEDB_REGION_TABLE", "network_region_health")

// ComponentTableName holds the GreptimeDB table for component rows. It defaults
// to "network_component_health" and can be overridden via GREPTIMEDB_COMPONENT_TABLE.
var ComponentTableName = envOr("GREPTIMEDB_COMPONENT_TABLE", "network_component_health")

func (Region) TableName() string {
	return RegionTableName
}

func (Component) TableName() string {
	return ComponentTableName
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
