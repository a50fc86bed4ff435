package compose

import (
	"slices"
	"strings"
	"time"

	"netintel-sim/internal/scenario"
)

// maxDataPoints caps a historical response.
const maxDataPoints = 1000

// Historical samples aggregated metrics between start and end using the
// ranges of the current network scenario.
func (c *Composer) Historical(q HistoricalQuery) (HistoricalData, error) {
	if q.StartTime == "" || q.EndTime == "" {
		return HistoricalData{}, invalid("start_time and end_time are required")
	}
	start, err := time.Parse(time.RFC3339, q.StartTime)
	if err != nil {
		return HistoricalData{}, invalid("start_time: %v", err)
	}
	end, err := time.Parse(time.RFC3339, q.EndTime)
	if err != nil {
		return HistoricalData{}, invalid("end_time: %v", err)
	}
	if end.Before(start) {
		return HistoricalData{}, invalid("end_time precedes start_time")
	}
	if q.Aggregation == "" {
		q.Aggregation = "1hour"
	}
	minutes, ok := aggregationMinutes[q.Aggregation]
	if !ok {
		return HistoricalData{}, invalid("unknown aggregation %q", q.Aggregation)
	}
	names := splitList(q.Metrics)
	for _, m := range names {
		if !slices.Contains(historicalMetricNames, m) {
			return HistoricalData{}, invalid("unknown metric %q", m)
		}
	}
	if len(names) == 0 {
		names = historicalMetricNames
	}
	ranges := c.catalog.Get(c.networkTag()).Telemetry

	c.mu.Lock()
	defer c.mu.Unlock()
	out := HistoricalData{
		QueryID:     c.newID("query", 12),
		Aggregation: q.Aggregation,
		TimeRange:   TimeRange{StartTime: start, EndTime: end},
		DataPoints:  []DataPoint{},
	}
	step := time.Duration(minutes) * time.Minute
	for ts := start; !ts.After(end) && len(out.DataPoints) < maxDataPoints; ts = ts.Add(step) {
		m := make(map[string]float64, len(names))
		for _, name := range names {
			m[name] = c.draw(historicalRange(ranges, name), 4)
		}
		out.DataPoints = append(out.DataPoints, DataPoint{Timestamp: ts, Metrics: m})
	}
	return out, nil
}

func historicalRange(r scenario.TelemetryRanges, name string) scenario.Range {
	switch name {
	case "throughput":
		return r.ThroughputMbps
	case "latency":
		return r.LatencyMs
	case "error_rate":
		return r.ErrorRate
	case "cpu_utilization":
		return r.CPUUtilization
	}
	return r.MemoryUtilization
}

// Incidents reports resolved network events, then synthetic history up to the
// scenario's incident count. Filters are applied to both.
func (c *Composer) Incidents(filter IncidentFilter) (Incidents, error) {
	if filter.Severity != "" && severityRank(filter.Severity) < 0 {
		return Incidents{}, invalid("severity %q must be one of %v", filter.Severity, severityLevels)
	}
	categories := splitList(filter.Category)
	for _, cat := range categories {
		if !slices.Contains(incidentCategories, cat) {
			return Incidents{}, invalid("category %q must be one of %v", cat, incidentCategories)
		}
	}
	keep := func(in Incident) bool {
		if filter.Severity != "" && in.Severity != filter.Severity {
			return false
		}
		if len(categories) > 0 && !slices.Contains(categories, in.Category) {
			return false
		}
		if filter.Resolved != nil && *filter.Resolved != (in.ResolvedAt != nil) {
			return false
		}
		return true
	}
	def := c.catalog.Get(c.networkTag())
	history := c.store.EventHistory()
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	out := Incidents{Incidents: []Incident{}}
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		in := Incident{
			IncidentID:        "incident-" + strings.TrimPrefix(e.ID, "evt-"),
			OccurredAt:        e.StartedAt,
			ResolvedAt:        e.ResolvedAt,
			Severity:          e.Severity,
			Category:          e.Type.Category(),
			RegionID:          e.RegionID,
			RootCause:         e.Description,
			ResolutionActions: []string{c.pick(resolutionActions)},
		}
		if keep(in) {
			out.Incidents = append(out.Incidents, in)
		}
	}
	for range max(0, def.Incidents-len(out.Incidents)) {
		occurred := now.AddDate(0, 0, -(1 + c.rng.Intn(90)))
		resolved := c.rng.Intn(4) != 0
		if filter.Resolved != nil {
			resolved = *filter.Resolved
		}
		in := Incident{
			IncidentID:        c.newID("incident", 8),
			OccurredAt:        occurred,
			Severity:          filter.Severity,
			RootCause:         c.pick(incidentRootCauses),
			ResolutionActions: []string{},
		}
		if in.Severity == "" {
			in.Severity = c.pick(severityLevels)
		}
		if len(categories) > 0 {
			in.Category = c.pick(categories)
		} else {
			in.Category = c.pick(incidentCategories)
		}
		if resolved {
			at := occurred.Add(time.Duration(1+c.rng.Intn(8)) * time.Hour)
			in.ResolvedAt = &at
			in.ResolutionActions = []string{c.pick(resolutionActions)}
		}
		out.Incidents = append(out.Incidents, in)
	}
	return out, nil
}
