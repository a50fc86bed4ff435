package compose

import (
	"time"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// NetworkStatus is the network-wide health summary.
type NetworkStatus struct {
	OverallHealth         string       `json:"overall_health"`
	Scenario              scenario.Tag `json:"scenario"`
	UptimePercentage      float64      `json:"uptime_percentage"`
	ActiveRegions         int          `json:"active_regions"`
	TotalBaseStations     int          `json:"total_base_stations"`
	ConnectedDevices      int          `json:"connected_devices"`
	CurrentThroughputGbps float64      `json:"current_throughput_gbps"`
	PredictionConfidence  float64      `json:"prediction_confidence"`
	ActiveEvents          int          `json:"active_events"`
	Tick                  uint64       `json:"tick"`
	LastUpdated           time.Time    `json:"last_updated"`
}

// Weather is the current condition in a region.
type Weather struct {
	Condition    string  `json:"condition"`
	TemperatureC float64 `json:"temperature_celsius"`
}

// RegionSummary is one entry of the regions listing.
type RegionSummary struct {
	RegionID         string       `json:"region_id"`
	Name             string       `json:"name"`
	Status           string       `json:"status"`
	BaseStations     int          `json:"base_stations"`
	ConnectedDevices int          `json:"connected_devices"`
	CurrentLoad      float64      `json:"current_load"`
	HealthScore      float64      `json:"health_score"`
	Scenario         scenario.Tag `json:"scenario"`
	TrafficPattern   string       `json:"traffic_pattern"`
	Weather          Weather      `json:"weather"`
	LastUpdated      time.Time    `json:"last_updated"`
}

// Regions wraps the region listing.
type Regions struct {
	Regions []RegionSummary `json:"regions"`
}

// TelemetryMetrics holds the requested subset of region metrics.
type TelemetryMetrics struct {
	ThroughputMbps    *float64 `json:"throughput_mbps,omitempty"`
	LatencyMs         *float64 `json:"latency_ms,omitempty"`
	PacketLossPercent *float64 `json:"packet_loss_percent,omitempty"`
	ErrorRate         *float64 `json:"error_rate,omitempty"`
	CPUUtilization    *float64 `json:"cpu_utilization,omitempty"`
	MemoryUtilization *float64 `json:"memory_utilization,omitempty"`
	ActiveSessions    *int     `json:"active_sessions,omitempty"`
	SignalStrengthDbm *float64 `json:"signal_strength_dbm,omitempty"`
}

// Telemetry is a real-time metrics sample for a region.
type Telemetry struct {
	RegionID    string           `json:"region_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Granularity string           `json:"granularity"`
	Scenario    scenario.Tag     `json:"scenario"`
	Metrics     TelemetryMetrics `json:"metrics"`
}

// ComponentStatus is the detailed state of one component.
type ComponentStatus struct {
	ComponentID                 string                       `json:"component_id"`
	ComponentType               telemetry.ComponentType      `json:"component_type"`
	RegionID                    string                       `json:"region_id"`
	Status                      string                       `json:"status"`
	HealthScore                 float64                      `json:"health_score"`
	LastMaintenance             time.Time                    `json:"last_maintenance"`
	PredictedFailureProbability float64                      `json:"predicted_failure_probability"`
	PerformanceMetrics          telemetry.PerformanceMetrics `json:"performance_metrics"`
	ActiveEvents                []string                     `json:"active_events"`
	LastUpdated                 time.Time                    `json:"last_updated"`
}

// ForecastScope narrows a health forecast.
type ForecastScope struct {
	Regions        []string `json:"regions,omitempty"`
	ComponentTypes []string `json:"component_types,omitempty"`
}

// ForecastRequest is the body of POST /predictions/health-forecast.
type ForecastRequest struct {
	TimeHorizon         string        `json:"time_horizon" validate:"required,oneof=1hour 6hours 24hours 3days 1week 1month"`
	Scope               ForecastScope `json:"scope"`
	ConfidenceThreshold *float64      `json:"confidence_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ImpactEstimate sizes a predicted incident.
type ImpactEstimate struct {
	CustomersAffected         int      `json:"customers_affected"`
	RevenueAtRisk             float64  `json:"revenue_at_risk"`
	ServiceDegradationMinutes float64  `json:"service_degradation_minutes"`
	SLAViolations             []string `json:"sla_violations"`
}

// PredictedIncident is one forecast incident.
type PredictedIncident struct {
	IncidentID          string         `json:"incident_id"`
	PredictedTime       time.Time      `json:"predicted_time"`
	Probability         float64        `json:"probability"`
	Severity            string         `json:"severity"`
	AffectedComponents  []string       `json:"affected_components"`
	RootCauseHypothesis string         `json:"root_cause_hypothesis"`
	EstimatedImpact     ImpactEstimate `json:"estimated_impact"`
	RecommendedActions  []string       `json:"recommended_actions"`
}

// CapacityForecast summarizes expected utilization.
type CapacityForecast struct {
	PeakUtilization   float64  `json:"peak_utilization"`
	BottleneckRegions []string `json:"bottleneck_regions"`
}

// HealthForecast is a synchronous forecast.
type HealthForecast struct {
	ForecastID         string              `json:"forecast_id"`
	GeneratedAt        time.Time           `json:"generated_at"`
	TimeHorizon        string              `json:"time_horizon"`
	Scenario           scenario.Tag        `json:"scenario"`
	OverallRiskScore   float64             `json:"overall_risk_score"`
	PredictedIncidents []PredictedIncident `json:"predicted_incidents"`
	CapacityForecast   CapacityForecast    `json:"capacity_forecast"`
	Confidence         float64             `json:"confidence"`
}

// Anomaly is one detected deviation.
type Anomaly struct {
	AnomalyID        string    `json:"anomaly_id"`
	DetectedAt       time.Time `json:"detected_at"`
	ComponentID      string    `json:"component_id"`
	RegionID         string    `json:"region_id"`
	AnomalyType      string    `json:"anomaly_type"`
	Severity         string    `json:"severity"`
	Confidence       float64   `json:"confidence"`
	Description      string    `json:"description"`
	AffectedMetrics  []string  `json:"affected_metrics"`
	CorrelationScore float64   `json:"correlation_score"`
	EventID          string    `json:"event_id,omitempty"`
}

// AnomalyList wraps anomalies with counters.
type AnomalyList struct {
	Anomalies         []Anomaly `json:"anomalies"`
	TotalCount        int       `json:"total_count"`
	HighPriorityCount int       `json:"high_priority_count"`
}

// AnomalyFilter holds the optional anomaly query parameters.
type AnomalyFilter struct {
	Severity   string
	Confidence *float64
	Region     string
}

// FailureRiskRequest is the body of POST /predictions/failure-risk.
type FailureRiskRequest struct {
	Components  []string `json:"components" validate:"required,min=1,dive,required"`
	TimeHorizon string   `json:"time_horizon,omitempty" validate:"omitempty,oneof=1hour 6hours 24hours 3days 1week 1month"`
}

// ComponentRisk is the risk assessment for one component.
type ComponentRisk struct {
	ComponentID        string   `json:"component_id"`
	FailureProbability float64  `json:"failure_probability"`
	ExceedsThreshold   bool     `json:"exceeds_threshold"`
	RiskFactors        []string `json:"risk_factors"`
	RecommendedActions []string `json:"recommended_actions"`
}

// FailureRiskAssessment answers a failure-risk request.
type FailureRiskAssessment struct {
	AssessmentID string          `json:"assessment_id"`
	TimeHorizon  string          `json:"time_horizon"`
	Components   []ComponentRisk `json:"components"`
}

// HealingAction describes one entry of the action catalog.
type HealingAction struct {
	ActionType         string   `json:"action_type"`
	Description        string   `json:"description"`
	RequiredParameters []string `json:"required_parameters"`
	RiskLevel          string   `json:"risk_level"`
	EstimatedDuration  string   `json:"estimated_duration"`
}

// HealingActions wraps the catalog.
type HealingActions struct {
	Actions []HealingAction `json:"actions"`
}

// HealingRequest is the body of POST /healing/actions.
type HealingRequest struct {
	ActionType       string         `json:"action_type" validate:"required,oneof=load_balance scale_resources restart_service reroute_traffic update_config emergency_maintenance"`
	TargetComponents []string       `json:"target_components" validate:"required,min=1,dive,required"`
	Parameters       map[string]any `json:"parameters,omitempty"`
	ApprovalLevel    string         `json:"approval_level,omitempty" validate:"omitempty,oneof=automatic supervised manual_approval"`
	RollbackPolicy   string         `json:"rollback_policy,omitempty" validate:"omitempty,oneof=automatic manual time_based"`
}

// HealingResponse acknowledges a started healing workflow.
type HealingResponse struct {
	ActionID            string      `json:"action_id"`
	WorkflowID          string      `json:"workflow_id"`
	Status              jobs.Status `json:"status"`
	ApprovalRequired    bool        `json:"approval_required"`
	EstimatedCompletion time.Time   `json:"estimated_completion"`
	Steps               []jobs.Step `json:"steps"`
}

// WorkflowSummary is one entry of the workflow listing.
type WorkflowSummary struct {
	WorkflowID          string      `json:"workflow_id"`
	ActionType          string      `json:"action_type"`
	Status              jobs.Status `json:"status"`
	Progress            float64     `json:"progress"`
	StartedAt           *time.Time  `json:"started_at,omitempty"`
	EstimatedCompletion time.Time   `json:"estimated_completion"`
}

// Workflows wraps the workflow listing.
type Workflows struct {
	Workflows  []WorkflowSummary `json:"workflows"`
	TotalCount int               `json:"total_count"`
}

// WorkflowDetails is the full state of one workflow.
type WorkflowDetails struct {
	WorkflowID string         `json:"workflow_id"`
	Status     jobs.Status    `json:"status"`
	Progress   float64        `json:"progress"`
	Steps      []jobs.Step    `json:"steps"`
	Metadata   map[string]any `json:"metadata"`
	Error      string         `json:"error,omitempty"`
}

// RollbackResponse acknowledges a rollback.
type RollbackResponse struct {
	RollbackID          string      `json:"rollback_id"`
	OriginalActionID    string      `json:"original_action_id"`
	Status              jobs.Status `json:"status"`
	EstimatedCompletion time.Time   `json:"estimated_completion"`
}

// HistoricalQuery holds the historical data query parameters.
type HistoricalQuery struct {
	StartTime   string
	EndTime     string
	Metrics     string
	Aggregation string
}

// TimeRange bounds a historical query.
type TimeRange struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// DataPoint is one aggregated sample.
type DataPoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// HistoricalData answers a historical query.
type HistoricalData struct {
	QueryID     string      `json:"query_id"`
	Aggregation string      `json:"aggregation"`
	TimeRange   TimeRange   `json:"time_range"`
	DataPoints  []DataPoint `json:"data_points"`
}

// IncidentFilter holds the optional incident query parameters.
type IncidentFilter struct {
	Severity string
	Category string
	Resolved *bool
}

// Incident is one historical incident.
type Incident struct {
	IncidentID        string     `json:"incident_id"`
	OccurredAt        time.Time  `json:"occurred_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	Severity          string     `json:"severity"`
	Category          string     `json:"category"`
	RegionID          string     `json:"region_id,omitempty"`
	RootCause         string     `json:"root_cause"`
	ResolutionActions []string   `json:"resolution_actions"`
}

// Incidents wraps the incident history.
type Incidents struct {
	Incidents []Incident `json:"incidents"`
}

// ImpactScenario describes the disruption to assess.
type ImpactScenario struct {
	AffectedRegions    []string `json:"affected_regions" validate:"required,min=1,dive,required"`
	ServiceDegradation float64  `json:"service_degradation" validate:"gte=0,lte=1"`
	DurationHours      float64  `json:"duration_hours" validate:"gt=0"`
}

// ImpactRequest is the body of POST /business/impact-assessment.
type ImpactRequest struct {
	Scenario         ImpactScenario `json:"scenario"`
	CustomerSegments []string       `json:"customer_segments,omitempty"`
}

// ImpactAssessment answers an impact request.
type ImpactAssessment struct {
	AssessmentID           string  `json:"assessment_id"`
	Scenario               string  `json:"scenario"`
	TotalRevenueImpact     float64 `json:"total_revenue_impact"`
	CustomersAffected      int     `json:"customers_affected"`
	ServiceCreditsExposure float64 `json:"service_credits_exposure"`
	ReputationRiskScore    float64 `json:"reputation_risk_score"`
	RecoveryTimeEstimate   string  `json:"recovery_time_estimate"`
	MitigationCosts        float64 `json:"mitigation_costs"`
}

// ServiceLevel is the SLA state of one service.
type ServiceLevel struct {
	ServiceName        string  `json:"service_name"`
	CustomerTier       string  `json:"customer_tier"`
	TargetAvailability float64 `json:"target_availability"`
	ActualAvailability float64 `json:"actual_availability"`
	ComplianceStatus   string  `json:"compliance_status"`
}

// SLAStatus answers an SLA query.
type SLAStatus struct {
	OverallCompliance float64        `json:"overall_compliance"`
	ServiceLevels     []ServiceLevel `json:"service_levels"`
}

// ThresholdsUpdate is the body of PUT /config/thresholds. Omitted scenario
// bands keep their current values.
type ThresholdsUpdate struct {
	Scenario    *scenario.ScenarioThresholds   `json:"scenario_thresholds,omitempty"`
	Performance scenario.PerformanceThresholds `json:"performance_thresholds"`
	Prediction  scenario.PredictionThresholds  `json:"prediction_thresholds"`
}

// UpdateResponse acknowledges a configuration change.
type UpdateResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// JobStatus is the wire form of an async job.
type JobStatus struct {
	JobID       string         `json:"job_id"`
	Kind        jobs.Kind      `json:"kind"`
	Status      jobs.Status    `json:"status"`
	Progress    float64        `json:"progress"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	Result      map[string]any `json:"result"`
	Error       *string        `json:"error"`
}
