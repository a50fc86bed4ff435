package compose

import (
	"netintel-sim/internal/scenario"
)

// Thresholds returns the process-wide thresholds.
func (c *Composer) Thresholds() scenario.Thresholds {
	return c.store.Thresholds()
}

// UpdateThresholds replaces the process-wide thresholds. Scenario bands that
// are omitted keep their current values; non-descending bands are rejected.
func (c *Composer) UpdateThresholds(u ThresholdsUpdate) (UpdateResponse, error) {
	th := c.store.Thresholds()
	if u.Scenario != nil {
		th.Scenario = *u.Scenario
	}
	th.Performance = u.Performance
	th.Prediction = u.Prediction
	if th.Performance.LatencyCriticalMs <= th.Performance.LatencyWarningMs {
		return UpdateResponse{}, invalid("latency_critical_ms must exceed latency_warning_ms")
	}
	if err := c.store.SetThresholds(th); err != nil {
		return UpdateResponse{}, invalid("%v", err)
	}
	return UpdateResponse{Message: "Thresholds updated successfully", Timestamp: c.now()}, nil
}

// Job reports the state of any tracked job.
func (c *Composer) Job(id string) (JobStatus, error) {
	j, err := c.job(id)
	if err != nil {
		return JobStatus{}, err
	}
	return jobStatus(j), nil
}
