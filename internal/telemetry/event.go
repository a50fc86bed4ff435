package telemetry

import "time"

// EventType enumerates simulated network events.
type EventType string

const (
	EventTrafficSpike        EventType = "traffic_spike"
	EventHardwareFailure     EventType = "hardware_failure"
	EventMaintenance         EventType = "maintenance"
	EventCapacityIssue       EventType = "capacity_issue"
	EventEnvironmental       EventType = "environmental"
	EventConfigurationChange EventType = "configuration_change"
)

// EventTypes lists every event type.
var EventTypes = []EventType{
	EventTrafficSpike,
	EventHardwareFailure,
	EventMaintenance,
	EventCapacityIssue,
	EventEnvironmental,
	EventConfigurationChange,
}

// Description returns the canned narrative for the event type.
func (t EventType) Description() string {
	switch t {
	case EventTrafficSpike:
		return "Unexpected traffic surge detected"
	case EventHardwareFailure:
		return "Hardware component failure detected"
	case EventMaintenance:
		return "Scheduled maintenance window active"
	case EventCapacityIssue:
		return "Network capacity threshold exceeded"
	case EventEnvironmental:
		return "Environmental factors affecting performance"
	case EventConfigurationChange:
		return "Configuration update applied"
	}
	return "Network event detected"
}

// Category maps the event onto the incident categories used by analytics.
func (t EventType) Category() string {
	switch t {
	case EventHardwareFailure:
		return "hardware"
	case EventConfigurationChange, EventMaintenance:
		return "configuration"
	case EventTrafficSpike, EventCapacityIssue:
		return "performance"
	}
	return "connectivity"
}

// Event status values.
const (
	EventActive   = "active"
	EventResolved = "resolved"
)

// Event is a simulated disturbance hitting one region and some of its components.
type Event struct {
	ID            string             `json:"event_id"`
	Type          EventType          `json:"event_type"`
	Severity      string             `json:"severity"`
	RegionID      string             `json:"region_id"`
	Affected      []string           `json:"affected_components"`
	Impact        map[string]float64 `json:"impact_metrics,omitempty"`
	Description   string             `json:"description"`
	Status        string             `json:"resolution_status"`
	StartTick     uint64             `json:"start_tick"`
	DurationTicks uint64             `json:"duration_ticks"`
	StartedAt     time.Time          `json:"started_at"`
	ResolvedAt    *time.Time         `json:"resolved_at,omitempty"`
}

// Expired reports whether the event has outlived its duration at tick.
func (e Event) Expired(tick uint64) bool {
	return tick >= e.StartTick+e.DurationTicks
}
