package scenario

import "fmt"

// ScenarioThresholds are the lower health bounds of each band. Scores below
// Degraded are Critical.
type ScenarioThresholds struct {
	Excellent   float64 `json:"excellent" yaml:"excellent" validate:"gte=0,lte=100"`
	Good        float64 `json:"good" yaml:"good" validate:"gte=0,lte=100"`
	Maintenance float64 `json:"maintenance" yaml:"maintenance" validate:"gte=0,lte=100"`
	Degraded    float64 `json:"degraded" yaml:"degraded" validate:"gte=0,lte=100"`
}

// PerformanceThresholds drive alerting on telemetry values.
type PerformanceThresholds struct {
	LatencyWarningMs         float64 `json:"latency_warning_ms" yaml:"latency_warning_ms" validate:"gt=0"`
	LatencyCriticalMs        float64 `json:"latency_critical_ms" yaml:"latency_critical_ms" validate:"gtfield=LatencyWarningMs"`
	ThroughputWarningPercent float64 `json:"throughput_warning_percent" yaml:"throughput_warning_percent" validate:"gte=0,lte=100"`
	PacketLossWarningPercent float64 `json:"packet_loss_warning_percent" yaml:"packet_loss_warning_percent" validate:"gte=0,lte=100"`
}

// PredictionThresholds filter predictive output.
type PredictionThresholds struct {
	AnomalyConfidence  float64 `json:"anomaly_confidence" yaml:"anomaly_confidence" validate:"gte=0,lte=1"`
	FailureProbability float64 `json:"failure_probability" yaml:"failure_probability" validate:"gte=0,lte=1"`
}

// Thresholds is the process-wide configuration exposed by /config/thresholds.
type Thresholds struct {
	Scenario    ScenarioThresholds    `json:"scenario_thresholds" yaml:"scenario"`
	Performance PerformanceThresholds `json:"performance_thresholds" yaml:"performance"`
	Prediction  PredictionThresholds  `json:"prediction_thresholds" yaml:"prediction"`
}

// DefaultThresholds returns the start-up configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Scenario: ScenarioThresholds{Excellent: 90, Good: 75, Maintenance: 60, Degraded: 35},
		Performance: PerformanceThresholds{
			LatencyWarningMs:         50,
			LatencyCriticalMs:        100,
			ThroughputWarningPercent: 80,
			PacketLossWarningPercent: 0.1,
		},
		Prediction: PredictionThresholds{AnomalyConfidence: 0.75, FailureProbability: 0.20},
	}
}

// Check verifies the bands are strictly descending so every score maps to one tag.
func (t ScenarioThresholds) Check() error {
	if !(t.Excellent > t.Good && t.Good > t.Maintenance && t.Maintenance > t.Degraded) {
		return fmt.Errorf("scenario thresholds must be strictly descending: excellent %.1f > good %.1f > maintenance %.1f > degraded %.1f",
			t.Excellent, t.Good, t.Maintenance, t.Degraded)
	}
	if t.Degraded < 0 || t.Excellent > 100 {
		return fmt.Errorf("scenario thresholds must lie within [0,100]")
	}
	return nil
}

// Classify maps a health score to its archetype. It depends only on score and t.
func Classify(score float64, t ScenarioThresholds) Tag {
	switch {
	case score >= t.Excellent:
		return Excellent
	case score >= t.Good:
		return Good
	case score >= t.Maintenance:
		return Maintenance
	case score >= t.Degraded:
		return Degraded
	default:
		return Critical
	}
}
