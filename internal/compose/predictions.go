package compose

import (
	"cmp"
	"slices"
	"time"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/telemetry"
)

// forecastFailure is reported when a long-horizon forecast job fails.
const forecastFailure = "Insufficient data for long-term prediction"

// asyncHorizons are answered with a job instead of a forecast.
var asyncHorizons = []string{"1week", "1month"}

// HealthForecast predicts incidents for the requested scope. Long horizons
// return a job status instead; exactly one of the two results is non-nil.
func (c *Composer) HealthForecast(req ForecastRequest) (*HealthForecast, *JobStatus, error) {
	if _, ok := horizonHours[req.TimeHorizon]; !ok {
		return nil, nil, invalid("unknown time_horizon %q", req.TimeHorizon)
	}
	if t := req.ConfidenceThreshold; t != nil && (*t < 0 || *t > 1) {
		return nil, nil, invalid("confidence_threshold must be within [0,1]")
	}
	regions, comps, err := c.forecastScope(req.Scope)
	if err != nil {
		return nil, nil, err
	}

	f := c.composeForecast(req, regions, comps)
	if !slices.Contains(asyncHorizons, req.TimeHorizon) {
		return &f, nil, nil
	}
	j := c.tracker.Create(jobs.Spec{
		Kind:   jobs.HealthForecast,
		Params: map[string]any{"time_horizon": req.TimeHorizon, "scope": req.Scope},
		Result: map[string]any{
			"forecast_id":         f.ForecastID,
			"time_horizon":        f.TimeHorizon,
			"overall_risk_score":  f.OverallRiskScore,
			"predicted_incidents": len(f.PredictedIncidents),
			"confidence":          f.Confidence,
		},
		FailureMessage: forecastFailure,
	})
	st := jobStatus(j)
	return nil, &st, nil
}

func (c *Composer) forecastScope(scope ForecastScope) ([]telemetry.Region, []telemetry.Component, error) {
	for _, t := range scope.ComponentTypes {
		if !slices.Contains(telemetry.ComponentTypes, telemetry.ComponentType(t)) {
			return nil, nil, invalid("unknown component type %q", t)
		}
	}
	var regions []telemetry.Region
	if len(scope.Regions) == 0 {
		regions = c.store.Regions()
	}
	for _, id := range scope.Regions {
		r, err := c.region(id)
		if err != nil {
			return nil, nil, err
		}
		regions = append(regions, r)
	}
	var comps []telemetry.Component
	for _, r := range regions {
		for _, id := range r.ComponentIDs {
			comp, err := c.store.Component(id)
			if err != nil {
				continue
			}
			if len(scope.ComponentTypes) > 0 && !slices.Contains(scope.ComponentTypes, string(comp.Type)) {
				continue
			}
			comps = append(comps, comp)
		}
	}
	return regions, comps, nil
}

func (c *Composer) composeForecast(req ForecastRequest, regions []telemetry.Region, comps []telemetry.Component) HealthForecast {
	def := c.catalog.Get(c.scopeTag(regions))
	now := c.now()

	// Incidents land on the riskiest components first.
	slices.SortStableFunc(comps, func(a, b telemetry.Component) int { return cmp.Compare(b.FailureRisk, a.FailureRisk) })
	pool := make([]string, 0, min(len(comps), 10))
	for _, comp := range comps[:min(len(comps), 10)] {
		pool = append(pool, comp.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	f := HealthForecast{
		ForecastID:  c.newID("forecast", 12),
		GeneratedAt: now,
		TimeHorizon: req.TimeHorizon,
		Scenario:    def.Tag,
	}
	window := horizonHours[req.TimeHorizon] * 60
	n := def.Forecast.Incidents.DrawInt(c.rng)
	f.PredictedIncidents = make([]PredictedIncident, 0, n)
	for range n {
		inc := PredictedIncident{
			IncidentID:          c.newID("incident", 8),
			PredictedTime:       now.Add(time.Duration(1+c.rng.Intn(window)) * time.Minute),
			Probability:         round(c.between(0.3, 0.9), 2),
			Severity:            c.pick(severityLevels),
			AffectedComponents:  []string{},
			RootCauseHypothesis: c.pick(rootCauseHypotheses),
			EstimatedImpact: ImpactEstimate{
				CustomersAffected:         1000 + c.rng.Intn(49001),
				RevenueAtRisk:             round(c.between(10000, 500000), 2),
				ServiceDegradationMinutes: float64(5 + c.rng.Intn(236)),
				SLAViolations:             c.sample(slaViolationKinds, 1+c.rng.Intn(len(slaViolationKinds))),
			},
			RecommendedActions: c.sample(incidentActions, 1+c.rng.Intn(3)),
		}
		if len(pool) > 0 {
			inc.AffectedComponents = c.sample(pool, 1+c.rng.Intn(min(3, len(pool))))
		}
		if t := req.ConfidenceThreshold; t != nil && inc.Probability < *t {
			continue
		}
		f.PredictedIncidents = append(f.PredictedIncidents, inc)
	}
	f.OverallRiskScore = c.draw(def.Forecast.RiskScore, 1)
	f.Confidence = c.draw(def.Forecast.Confidence, 2)
	f.CapacityForecast = CapacityForecast{
		PeakUtilization:   c.draw(def.Forecast.PeakUtilization, 2),
		BottleneckRegions: bottlenecks(regions),
	}
	return f
}

// bottlenecks lists regions running at or above 80% load, busiest first.
func bottlenecks(regions []telemetry.Region) []string {
	hot := slices.DeleteFunc(slices.Clone(regions), func(r telemetry.Region) bool { return r.Load < 0.8 })
	slices.SortStableFunc(hot, func(a, b telemetry.Region) int { return cmp.Compare(b.Load, a.Load) })
	out := make([]string, 0, len(hot))
	for _, r := range hot {
		out = append(out, r.ID)
	}
	return out
}

// eventMetrics names the metrics each event type disturbs.
var eventMetrics = map[telemetry.EventType][]string{
	telemetry.EventTrafficSpike:        {"throughput", "latency"},
	telemetry.EventHardwareFailure:     {"error_rate", "cpu_utilization"},
	telemetry.EventMaintenance:         {"throughput"},
	telemetry.EventCapacityIssue:       {"cpu_utilization", "memory_utilization"},
	telemetry.EventEnvironmental:       {"latency", "error_rate"},
	telemetry.EventConfigurationChange: {"error_rate"},
}

// Anomalies reports active network events as anomalies, topped up with
// synthetic ones to the count of the scope's scenario. Without an explicit
// confidence filter the configured anomaly confidence threshold applies.
func (c *Composer) Anomalies(filter AnomalyFilter) (AnomalyList, error) {
	if filter.Severity != "" && severityRank(filter.Severity) < 0 {
		return AnomalyList{}, invalid("severity %q must be one of %v", filter.Severity, severityLevels)
	}
	minConf := c.store.Thresholds().Prediction.AnomalyConfidence
	if filter.Confidence != nil {
		if *filter.Confidence < 0 || *filter.Confidence > 1 {
			return AnomalyList{}, invalid("confidence must be within [0,1]")
		}
		minConf = *filter.Confidence
	}

	var (
		tag   = c.networkTag()
		comps []telemetry.Component
	)
	if filter.Region != "" {
		r, err := c.region(filter.Region)
		if err != nil {
			return AnomalyList{}, err
		}
		tag = r.Scenario
		for _, id := range r.ComponentIDs {
			if comp, err := c.store.Component(id); err == nil {
				comps = append(comps, comp)
			}
		}
	} else {
		comps = c.store.Components()
	}
	def := c.catalog.Get(tag)
	regionOf := make(map[string]string, len(comps))
	for _, comp := range comps {
		regionOf[comp.ID] = comp.RegionID
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	var found []Anomaly
	for _, e := range c.store.ActiveEvents() {
		if filter.Region != "" && e.RegionID != filter.Region {
			continue
		}
		for _, cid := range e.Affected {
			found = append(found, Anomaly{
				AnomalyID:        c.newID("anomaly", 8),
				DetectedAt:       e.StartedAt,
				ComponentID:      cid,
				RegionID:         e.RegionID,
				AnomalyType:      eventAnomalyType(e.Type.Category()),
				Severity:         e.Severity,
				Confidence:       round(c.between(0.85, 0.95), 2),
				Description:      e.Description,
				AffectedMetrics:  slices.Clone(eventMetrics[e.Type]),
				CorrelationScore: round(c.between(0.6, 0.9), 2),
				EventID:          e.ID,
			})
		}
	}
	synthetic := def.Anomalies - len(found)
	high := int(float64(synthetic) * def.HighPriorityRatio)
	for i := 0; i < synthetic && len(comps) > 0; i++ {
		comp := comps[c.rng.Intn(len(comps))]
		sev := c.pick(severityLevels[:2])
		if i < high {
			sev = c.pick(severityLevels[2:])
		}
		found = append(found, Anomaly{
			AnomalyID:        c.newID("anomaly", 8),
			DetectedAt:       now.Add(-time.Duration(1+c.rng.Intn(60)) * time.Minute),
			ComponentID:      comp.ID,
			RegionID:         regionOf[comp.ID],
			AnomalyType:      c.pick(anomalyTypes),
			Severity:         sev,
			Confidence:       round(c.between(0.7, 0.95), 2),
			Description:      c.pick(anomalyDescriptions),
			AffectedMetrics:  c.sample(anomalyMetrics, 1+c.rng.Intn(3)),
			CorrelationScore: round(c.between(0.4, 0.9), 2),
		})
	}

	out := AnomalyList{Anomalies: []Anomaly{}}
	for _, a := range found {
		if filter.Severity != "" && severityRank(a.Severity) < severityRank(filter.Severity) {
			continue
		}
		if a.Confidence < minConf {
			continue
		}
		if severityRank(a.Severity) >= severityRank("high") {
			out.HighPriorityCount++
		}
		out.Anomalies = append(out.Anomalies, a)
	}
	out.TotalCount = len(out.Anomalies)
	return out, nil
}

// FailureRisk blends each component's live failure risk with the range of its
// region's scenario, scaled by the horizon.
func (c *Composer) FailureRisk(req FailureRiskRequest) (FailureRiskAssessment, error) {
	if len(req.Components) == 0 {
		return FailureRiskAssessment{}, invalid("components must not be empty")
	}
	if req.TimeHorizon == "" {
		req.TimeHorizon = "24hours"
	}
	factor, ok := horizonFactor[req.TimeHorizon]
	if !ok {
		return FailureRiskAssessment{}, invalid("unknown time_horizon %q", req.TimeHorizon)
	}
	comps := make([]telemetry.Component, 0, len(req.Components))
	owners := make([]telemetry.Region, 0, len(req.Components))
	for _, id := range req.Components {
		comp, err := c.component(id)
		if err != nil {
			return FailureRiskAssessment{}, err
		}
		r, err := c.region(comp.RegionID)
		if err != nil {
			return FailureRiskAssessment{}, err
		}
		comps = append(comps, comp)
		owners = append(owners, r)
	}
	limit := c.store.Thresholds().Prediction.FailureProbability

	c.mu.Lock()
	defer c.mu.Unlock()
	out := FailureRiskAssessment{
		AssessmentID: c.newID("risk", 12),
		TimeHorizon:  req.TimeHorizon,
		Components:   make([]ComponentRisk, 0, len(comps)),
	}
	for i, comp := range comps {
		def := c.catalog.Get(owners[i].Scenario)
		p := (comp.FailureRisk + def.FailureRisk.Draw(c.rng)) / 2 * factor
		p = round(telemetry.Clamp(p, 0.001, 0.99), 3)
		out.Components = append(out.Components, ComponentRisk{
			ComponentID:        comp.ID,
			FailureProbability: p,
			ExceedsThreshold:   p >= limit,
			RiskFactors:        c.sample(riskFactors, 1+c.rng.Intn(3)),
			RecommendedActions: c.sample(riskActions, 1+c.rng.Intn(3)),
		})
	}
	return out, nil
}

func jobStatus(j jobs.Job) JobStatus {
	st := JobStatus{
		JobID:       j.ID,
		Kind:        j.Kind,
		Status:      j.Status,
		Progress:    j.Progress,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.FinishedAt,
		Result:      j.Result,
	}
	if j.Error != "" {
		msg := j.Error
		st.Error = &msg
	}
	return st
}
