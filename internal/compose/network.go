package compose

import (
	"slices"

	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// Region and component status labels.
const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
	StatusMaintenance = "maintenance"
	StatusOffline     = "offline"
	StatusWarning     = "warning"
	StatusCritical    = "critical"
)

// regionStatus derives the listing status from the region's live tag.
func regionStatus(r telemetry.Region, th scenario.ScenarioThresholds) string {
	switch r.Scenario {
	case scenario.Excellent, scenario.Good:
		return StatusOperational
	case scenario.Maintenance:
		return StatusMaintenance
	case scenario.Degraded:
		return StatusDegraded
	}
	if r.Health < th.Degraded/2 {
		return StatusOffline
	}
	return StatusDegraded
}

// componentStatus derives a component label from its score, or maintenance
// while a maintenance event covers it.
func componentStatus(c telemetry.Component, th scenario.ScenarioThresholds, inMaintenance bool) string {
	switch {
	case inMaintenance:
		return StatusMaintenance
	case c.Health >= th.Good:
		return StatusOperational
	case c.Health >= th.Degraded:
		return StatusWarning
	case c.Health > 0:
		return StatusCritical
	}
	return StatusOffline
}

// NetworkStatus summarizes the whole network under the tag of the mean region score.
func (c *Composer) NetworkStatus() NetworkStatus {
	regions := c.store.Regions()
	th := c.store.Thresholds().Scenario
	tag := c.networkTag()
	def := c.catalog.Get(tag)
	clk := c.store.Clock()

	var stations, devices, active int
	for _, r := range regions {
		stations += r.BaseStations
		devices += r.ConnectedDevices
		if regionStatus(r, th) != StatusOffline {
			active++
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return NetworkStatus{
		OverallHealth:         def.Status.OverallHealth,
		Scenario:              tag,
		UptimePercentage:      c.draw(def.Status.UptimePercent, 2),
		ActiveRegions:         active,
		TotalBaseStations:     int(float64(stations) * def.Status.BaseStationShare.Draw(c.rng)),
		ConnectedDevices:      int(float64(devices) * def.Status.ConnectedDeviceShare.Draw(c.rng)),
		CurrentThroughputGbps: c.draw(def.Status.ThroughputGbps, 1),
		PredictionConfidence:  c.draw(def.Status.PredictionConfidence, 2),
		ActiveEvents:          len(c.store.ActiveEvents()),
		Tick:                  clk.Tick,
		LastUpdated:           clk.At,
	}
}

// Regions lists every region with its live load and derived status.
func (c *Composer) Regions() Regions {
	th := c.store.Thresholds().Scenario
	regions := c.store.Regions()
	out := Regions{Regions: make([]RegionSummary, 0, len(regions))}
	for _, r := range regions {
		out.Regions = append(out.Regions, RegionSummary{
			RegionID:         r.ID,
			Name:             r.Name,
			Status:           regionStatus(r, th),
			BaseStations:     r.BaseStations,
			ConnectedDevices: r.ConnectedDevices,
			CurrentLoad:      round(r.Load, 2),
			HealthScore:      round(r.Health, 1),
			Scenario:         r.Scenario,
			TrafficPattern:   r.TrafficPattern,
			Weather:          Weather{Condition: r.Weather, TemperatureC: round(r.TemperatureC, 1)},
			LastUpdated:      r.LastUpdated,
		})
	}
	return out
}

// Telemetry samples metrics for one region from the ranges of its own tag.
// metrics is an optional comma separated filter; granularity defaults to realtime.
func (c *Composer) Telemetry(regionID, metrics, granularity string) (Telemetry, error) {
	if granularity == "" {
		granularity = "realtime"
	}
	if !slices.Contains(granularities, granularity) {
		return Telemetry{}, invalid("granularity %q must be one of %v", granularity, granularities)
	}
	want := splitList(metrics)
	for _, m := range want {
		if !slices.Contains(telemetryMetricNames, m) {
			return Telemetry{}, invalid("unknown metric %q", m)
		}
	}
	r, err := c.region(regionID)
	if err != nil {
		return Telemetry{}, err
	}
	ranges := c.catalog.Get(r.Scenario).Telemetry

	c.mu.Lock()
	all := TelemetryMetrics{
		ThroughputMbps:    ptr(c.draw(ranges.ThroughputMbps, 1)),
		LatencyMs:         ptr(c.draw(ranges.LatencyMs, 2)),
		PacketLossPercent: ptr(c.draw(ranges.PacketLossPercent, 4)),
		ErrorRate:         ptr(c.draw(ranges.ErrorRate, 4)),
		CPUUtilization:    ptr(c.draw(ranges.CPUUtilization, 1)),
		MemoryUtilization: ptr(c.draw(ranges.MemoryUtilization, 1)),
		ActiveSessions:    ptr(ranges.ActiveSessions.DrawInt(c.rng)),
		SignalStrengthDbm: ptr(c.draw(ranges.SignalStrengthDbm, 1)),
	}
	c.mu.Unlock()

	return Telemetry{
		RegionID:    r.ID,
		Timestamp:   c.now(),
		Granularity: granularity,
		Scenario:    r.Scenario,
		Metrics:     filterMetrics(all, want),
	}, nil
}

func filterMetrics(all TelemetryMetrics, want []string) TelemetryMetrics {
	if len(want) == 0 {
		return all
	}
	var out TelemetryMetrics
	for _, m := range want {
		switch m {
		case "throughput":
			out.ThroughputMbps = all.ThroughputMbps
		case "latency":
			out.LatencyMs = all.LatencyMs
		case "packet_loss":
			out.PacketLossPercent = all.PacketLossPercent
		case "error_rate":
			out.ErrorRate = all.ErrorRate
		case "cpu_utilization":
			out.CPUUtilization = all.CPUUtilization
		case "memory_utilization":
			out.MemoryUtilization = all.MemoryUtilization
		case "active_sessions":
			out.ActiveSessions = all.ActiveSessions
		case "signal_strength":
			out.SignalStrengthDbm = all.SignalStrengthDbm
		}
	}
	return out
}

// ComponentStatus reports the live state of one component.
func (c *Composer) ComponentStatus(componentID string) (ComponentStatus, error) {
	comp, err := c.component(componentID)
	if err != nil {
		return ComponentStatus{}, err
	}
	return ComponentStatus{
		ComponentID:                 comp.ID,
		ComponentType:               comp.Type,
		RegionID:                    comp.RegionID,
		Status:                      componentStatus(comp, c.store.Thresholds().Scenario, c.inMaintenance(comp)),
		HealthScore:                 round(comp.Health, 1),
		LastMaintenance:             comp.LastMaintenance,
		PredictedFailureProbability: round(comp.FailureRisk, 3),
		PerformanceMetrics:          comp.Metrics,
		ActiveEvents:                nonNil(comp.ActiveEvents),
		LastUpdated:                 comp.LastUpdated,
	}, nil
}

func (c *Composer) inMaintenance(comp telemetry.Component) bool {
	if len(comp.ActiveEvents) == 0 {
		return false
	}
	for _, e := range c.store.ActiveEvents() {
		if e.Type == telemetry.EventMaintenance && slices.Contains(comp.ActiveEvents, e.ID) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
