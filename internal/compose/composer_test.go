package compose

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/jobs"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/sim"
)

var testNow = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

func newTestComposer(t *testing.T, seed int64) (*Composer, *sim.Store, *jobs.Tracker) {
	t.Helper()
	return newTestComposerWithJobs(t, seed, config.JobsConfig{MinRunTicks: 2, MaxRunTicks: 2})
}

func newTestComposerWithJobs(t *testing.T, seed int64, jc config.JobsConfig) (*Composer, *sim.Store, *jobs.Tracker) {
	t.Helper()
	cfg := config.Default()
	now := func() time.Time { return testNow }
	store := sim.NewStore(cfg.Regions, rand.New(rand.NewSource(seed)), cfg.Thresholds, testNow)
	tracker := jobs.NewTracker(jc, rand.New(rand.NewSource(seed)), now)
	c := New(store, scenario.BuiltIn(), tracker, rand.New(rand.NewSource(seed)), WithClock(now), WithTickInterval(time.Second))
	return c, store, tracker
}

func pinHealth(t *testing.T, st *sim.Store, health float64) {
	t.Helper()
	for _, id := range st.RegionIDs() {
		if err := st.SetRegionHealth(id, health); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDeterministicForSameSeed(t *testing.T) {
	a, _, _ := newTestComposer(t, 42)
	b, _, _ := newTestComposer(t, 42)
	if !reflect.DeepEqual(a.NetworkStatus(), b.NetworkStatus()) {
		t.Fatal("network status differs for identical seeds")
	}
	ta, err := a.Telemetry("region-west-06", "", "")
	if err != nil {
		t.Fatal(err)
	}
	tb, _ := b.Telemetry("region-west-06", "", "")
	if !reflect.DeepEqual(ta, tb) {
		t.Fatal("telemetry differs for identical seeds")
	}
	fa, _, _ := a.HealthForecast(ForecastRequest{TimeHorizon: "24hours"})
	fb, _, _ := b.HealthForecast(ForecastRequest{TimeHorizon: "24hours"})
	if !reflect.DeepEqual(fa, fb) {
		t.Fatal("forecast differs for identical seeds")
	}
}

func TestNetworkStatusFollowsMeanScore(t *testing.T) {
	c, st, _ := newTestComposer(t, 1)
	pinHealth(t, st, 95)
	ns := c.NetworkStatus()
	if ns.Scenario != scenario.Excellent || ns.OverallHealth != "excellent" {
		t.Fatalf("scenario = %s/%s, want excellent", ns.Scenario, ns.OverallHealth)
	}
	if ns.ActiveRegions != 6 {
		t.Errorf("active regions = %d, want 6", ns.ActiveRegions)
	}
	def := scenario.BuiltIn().Get(scenario.Excellent)
	if !def.Status.UptimePercent.Contains(ns.UptimePercentage) {
		t.Errorf("uptime %f outside %v", ns.UptimePercentage, def.Status.UptimePercent)
	}

	pinHealth(t, st, 15)
	ns = c.NetworkStatus()
	if ns.Scenario != scenario.Critical {
		t.Fatalf("scenario = %s, want critical", ns.Scenario)
	}
	if ns.ActiveRegions != 0 {
		t.Errorf("active regions = %d, want 0 at score 15", ns.ActiveRegions)
	}
}

func TestRegionsStatus(t *testing.T) {
	c, st, _ := newTestComposer(t, 1)
	pinHealth(t, st, 80)
	_ = st.SetRegionHealth("region-central-05", 40)
	for _, r := range c.Regions().Regions {
		want := StatusOperational
		if r.RegionID == "region-central-05" {
			want = StatusDegraded
		}
		if r.Status != want {
			t.Errorf("%s: status %s, want %s", r.RegionID, r.Status, want)
		}
	}
}

func TestTelemetry(t *testing.T) {
	c, st, _ := newTestComposer(t, 3)
	_ = st.SetRegionHealth("region-northwest-01", 95)
	got, err := c.Telemetry("region-northwest-01", "throughput,latency", "5min")
	if err != nil {
		t.Fatal(err)
	}
	rng := scenario.BuiltIn().Get(scenario.Excellent).Telemetry
	if got.Metrics.ThroughputMbps == nil || !rng.ThroughputMbps.Contains(*got.Metrics.ThroughputMbps) {
		t.Errorf("throughput %v outside %v", got.Metrics.ThroughputMbps, rng.ThroughputMbps)
	}
	if got.Metrics.CPUUtilization != nil {
		t.Error("cpu_utilization should be filtered out")
	}

	if _, err := c.Telemetry("region-does-not-exist", "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown region err = %v, want ErrNotFound", err)
	}
	if _, err := c.Telemetry("region-northwest-01", "bogus", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unknown metric err = %v, want ErrInvalidRequest", err)
	}
	if _, err := c.Telemetry("region-northwest-01", "", "2min"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad granularity err = %v, want ErrInvalidRequest", err)
	}
}

func TestComponentStatus(t *testing.T) {
	c, st, _ := newTestComposer(t, 1)
	id := st.ComponentIDs()[0]
	_ = st.SetComponentHealth(id, 50)
	got, err := c.ComponentStatus(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusWarning || got.HealthScore != 50 {
		t.Errorf("got %s/%f, want warning/50", got.Status, got.HealthScore)
	}
	if _, err := c.ComponentStatus("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHealthForecastHorizons(t *testing.T) {
	c, _, tracker := newTestComposer(t, 5)
	f, job, err := c.HealthForecast(ForecastRequest{TimeHorizon: "24hours", Scope: ForecastScope{Regions: []string{"region-west-06"}}})
	if err != nil || f == nil || job != nil {
		t.Fatalf("24hours: forecast=%v job=%v err=%v", f, job, err)
	}
	for _, inc := range f.PredictedIncidents {
		if inc.Probability < 0.3 || inc.Probability > 0.9 {
			t.Errorf("probability %f outside [0.3,0.9]", inc.Probability)
		}
	}

	f, job, err = c.HealthForecast(ForecastRequest{TimeHorizon: "1week"})
	if err != nil || f != nil || job == nil {
		t.Fatalf("1week: forecast=%v job=%v err=%v", f, job, err)
	}
	if job.Status != jobs.Running {
		t.Errorf("job status = %s, want running", job.Status)
	}
	tracker.Advance(2)
	done, err := c.Job(job.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if !done.Status.Terminal() {
		t.Fatalf("status = %s, want terminal", done.Status)
	}
	if done.Status == jobs.Completed && done.Result["forecast_id"] == nil {
		t.Error("completed forecast job has no forecast_id")
	}

	if _, _, err := c.HealthForecast(ForecastRequest{TimeHorizon: "1hour", Scope: ForecastScope{Regions: []string{"mars"}}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown region err = %v", err)
	}
	if _, _, err := c.HealthForecast(ForecastRequest{TimeHorizon: "2days"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad horizon err = %v", err)
	}
}

func TestAnomalyFilters(t *testing.T) {
	c, st, _ := newTestComposer(t, 9)
	pinHealth(t, st, 20)
	zero := 0.0
	all, err := c.Anomalies(AnomalyFilter{Confidence: &zero})
	if err != nil {
		t.Fatal(err)
	}
	if all.TotalCount != scenario.BuiltIn().Get(scenario.Critical).Anomalies {
		t.Errorf("total = %d, want critical count", all.TotalCount)
	}
	high, _ := c.Anomalies(AnomalyFilter{Severity: "high", Confidence: &zero})
	for _, a := range high.Anomalies {
		if severityRank(a.Severity) < severityRank("high") {
			t.Errorf("severity %s below filter", a.Severity)
		}
	}
	if high.HighPriorityCount != high.TotalCount {
		t.Errorf("high priority %d != total %d", high.HighPriorityCount, high.TotalCount)
	}
	regional, _ := c.Anomalies(AnomalyFilter{Region: "region-west-06", Confidence: &zero})
	for _, a := range regional.Anomalies {
		if a.RegionID != "region-west-06" {
			t.Errorf("anomaly from %s leaked into region filter", a.RegionID)
		}
	}
	def, _ := c.Anomalies(AnomalyFilter{})
	for _, a := range def.Anomalies {
		if a.Confidence < 0.75 {
			t.Errorf("confidence %f below configured threshold", a.Confidence)
		}
	}
	if _, err := c.Anomalies(AnomalyFilter{Severity: "urgent"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestFailureRisk(t *testing.T) {
	c, st, _ := newTestComposer(t, 2)
	ids := st.ComponentIDs()[:2]
	got, err := c.FailureRisk(FailureRiskRequest{Components: ids})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Components) != 2 || got.TimeHorizon != "24hours" {
		t.Fatalf("unexpected assessment %+v", got)
	}
	for _, r := range got.Components {
		if r.FailureProbability <= 0 || r.FailureProbability >= 1 {
			t.Errorf("probability %f out of range", r.FailureProbability)
		}
	}
	if _, err := c.FailureRisk(FailureRiskRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty components err = %v", err)
	}
	if _, err := c.FailureRisk(FailureRiskRequest{Components: []string{"ghost"}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown component err = %v", err)
	}
}

func TestHealingWorkflowLifecycle(t *testing.T) {
	c, st, tracker := newTestComposer(t, 4)
	target := st.ComponentIDs()[0]
	resp, err := c.ExecuteHealing(HealingRequest{ActionType: "restart_service", TargetComponents: []string{target}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != jobs.Running || len(resp.Steps) != 5 {
		t.Fatalf("status %s with %d steps", resp.Status, len(resp.Steps))
	}
	if resp.EstimatedCompletion != testNow.Add(2*time.Second) {
		t.Errorf("estimated completion = %s", resp.EstimatedCompletion)
	}
	if wf := c.Workflows(); wf.TotalCount != 1 || wf.Workflows[0].ActionType != "restart_service" {
		t.Fatalf("workflows = %+v", wf)
	}

	tracker.Advance(2)
	d, err := c.Workflow(resp.WorkflowID)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Status.Terminal() || d.Metadata["approval_level"] != "supervised" {
		t.Fatalf("details = %+v", d)
	}

	rb, err := c.Rollback(resp.ActionID)
	if err != nil {
		t.Fatal(err)
	}
	if rb.OriginalActionID != resp.ActionID {
		t.Errorf("original action = %s", rb.OriginalActionID)
	}
	if _, err := c.Rollback(rb.RollbackID); !errors.Is(err, ErrNotFound) {
		t.Errorf("rollback of a rollback err = %v", err)
	}
	if _, err := c.Rollback("heal-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown action err = %v", err)
	}
	if _, err := c.Workflow("heal-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown workflow err = %v", err)
	}
}

func TestRollbackNeverFails(t *testing.T) {
	c, st, tracker := newTestComposerWithJobs(t, 4, config.JobsConfig{MinRunTicks: 2, MaxRunTicks: 2, FailureRate: 1})
	resp, err := c.ExecuteHealing(HealingRequest{ActionType: "restart_service", TargetComponents: []string{st.ComponentIDs()[0]}})
	if err != nil {
		t.Fatal(err)
	}
	rb, err := c.Rollback(resp.ActionID)
	if err != nil {
		t.Fatal(err)
	}
	tracker.Advance(5)

	heal, err := c.Job(resp.ActionID)
	if err != nil {
		t.Fatal(err)
	}
	if heal.Status != jobs.Failed {
		t.Errorf("healing status = %s, want failed", heal.Status)
	}
	j, err := c.Job(rb.RollbackID)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != jobs.Completed || j.Error != nil {
		t.Fatalf("rollback status = %s error = %v, want completed", j.Status, j.Error)
	}
}

func TestExecuteHealingValidation(t *testing.T) {
	c, st, _ := newTestComposer(t, 4)
	cases := []struct {
		req  HealingRequest
		want error
	}{
		{HealingRequest{ActionType: "pray", TargetComponents: []string{st.ComponentIDs()[0]}}, ErrInvalidRequest},
		{HealingRequest{ActionType: "load_balance"}, ErrInvalidRequest},
		{HealingRequest{ActionType: "load_balance", TargetComponents: []string{"ghost"}}, ErrNotFound},
		{HealingRequest{ActionType: "load_balance", TargetComponents: []string{st.ComponentIDs()[0]}, ApprovalLevel: "whenever"}, ErrInvalidRequest},
	}
	for i, tc := range cases {
		if _, err := c.ExecuteHealing(tc.req); !errors.Is(err, tc.want) {
			t.Errorf("case %d: err = %v, want %v", i, err, tc.want)
		}
	}
}

func TestCriticalHealingRequiresApproval(t *testing.T) {
	c, st, _ := newTestComposer(t, 4)
	pinHealth(t, st, 10)
	resp, err := c.ExecuteHealing(HealingRequest{ActionType: "emergency_maintenance", TargetComponents: []string{st.ComponentIDs()[0]}})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.ApprovalRequired {
		t.Error("critical network should require approval")
	}
}

func TestHistorical(t *testing.T) {
	c, _, _ := newTestComposer(t, 1)
	got, err := c.Historical(HistoricalQuery{StartTime: "2024-01-01T00:00:00Z", EndTime: "2024-01-01T05:00:00Z", Metrics: "latency"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DataPoints) != 6 {
		t.Fatalf("points = %d, want 6", len(got.DataPoints))
	}
	if _, ok := got.DataPoints[0].Metrics["throughput"]; ok {
		t.Error("throughput should be filtered out")
	}
	raw, _ := c.Historical(HistoricalQuery{StartTime: "2024-01-01T00:00:00Z", EndTime: "2024-01-10T00:00:00Z", Aggregation: "raw"})
	if len(raw.DataPoints) != maxDataPoints {
		t.Errorf("points = %d, want cap %d", len(raw.DataPoints), maxDataPoints)
	}
	bad := []HistoricalQuery{
		{EndTime: "2024-01-01T00:00:00Z"},
		{StartTime: "yesterday", EndTime: "2024-01-01T00:00:00Z"},
		{StartTime: "2024-01-02T00:00:00Z", EndTime: "2024-01-01T00:00:00Z"},
		{StartTime: "2024-01-01T00:00:00Z", EndTime: "2024-01-02T00:00:00Z", Aggregation: "1week"},
	}
	for _, q := range bad {
		if _, err := c.Historical(q); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%+v: err = %v, want ErrInvalidRequest", q, err)
		}
	}
}

func TestIncidentFilters(t *testing.T) {
	c, _, _ := newTestComposer(t, 1)
	open := false
	got, err := c.Incidents(IncidentFilter{Severity: "critical", Category: "hardware,performance", Resolved: &open})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Incidents) == 0 {
		t.Fatal("no incidents")
	}
	for _, in := range got.Incidents {
		if in.Severity != "critical" || in.ResolvedAt != nil {
			t.Errorf("incident %+v escaped filters", in)
		}
		if in.Category != "hardware" && in.Category != "performance" {
			t.Errorf("category %s escaped filter", in.Category)
		}
	}
	if _, err := c.Incidents(IncidentFilter{Category: "weather"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestImpactAssessment(t *testing.T) {
	c, st, _ := newTestComposer(t, 1)
	_ = st.SetRegionHealth("region-west-06", 95)
	got, err := c.ImpactAssessment(ImpactRequest{Scenario: ImpactScenario{
		AffectedRegions:    []string{"region-west-06"},
		ServiceDegradation: 0.5,
		DurationHours:      2,
	}})
	if err != nil {
		t.Fatal(err)
	}
	// excellent multiplier 0.5
	if got.CustomersAffected != 25000 {
		t.Errorf("customers = %d, want 25000", got.CustomersAffected)
	}
	if got.TotalRevenueImpact != 2500 {
		t.Errorf("revenue = %f, want 2500", got.TotalRevenueImpact)
	}
	if got.Scenario != "Service degradation in 1 regions" {
		t.Errorf("scenario = %q", got.Scenario)
	}
	if _, err := c.ImpactAssessment(ImpactRequest{Scenario: ImpactScenario{DurationHours: 1}}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty regions err = %v", err)
	}
	if _, err := c.ImpactAssessment(ImpactRequest{Scenario: ImpactScenario{AffectedRegions: []string{"atlantis"}, DurationHours: 1}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown region err = %v", err)
	}
}

func TestSLAStatus(t *testing.T) {
	c, _, _ := newTestComposer(t, 1)
	got, err := c.SLAStatus("enterprise", "5g")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ServiceLevels) != 1 {
		t.Fatalf("service levels = %d, want 1", len(got.ServiceLevels))
	}
	sl := got.ServiceLevels[0]
	if sl.ServiceName != "5G Core Network" || sl.TargetAvailability != 0.9999 {
		t.Errorf("unexpected level %+v", sl)
	}
	if all, _ := c.SLAStatus("", ""); len(all.ServiceLevels) != 4 {
		t.Errorf("unfiltered levels = %d, want 4", len(all.ServiceLevels))
	}
	if _, err := c.SLAStatus("gold", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestUpdateThresholds(t *testing.T) {
	c, st, _ := newTestComposer(t, 1)
	cur := c.Thresholds()
	bad := ThresholdsUpdate{
		Scenario:    &scenario.ScenarioThresholds{Excellent: 50, Good: 75, Maintenance: 60, Degraded: 35},
		Performance: cur.Performance,
		Prediction:  cur.Prediction,
	}
	if _, err := c.UpdateThresholds(bad); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}

	_ = st.SetRegionHealth("region-west-06", 85)
	good := ThresholdsUpdate{
		Scenario:    &scenario.ScenarioThresholds{Excellent: 80, Good: 70, Maintenance: 50, Degraded: 30},
		Performance: cur.Performance,
		Prediction:  scenario.PredictionThresholds{AnomalyConfidence: 0.5, FailureProbability: 0.3},
	}
	resp, err := c.UpdateThresholds(good)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Thresholds updated successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if c.Thresholds().Prediction.AnomalyConfidence != 0.5 {
		t.Error("prediction thresholds not applied")
	}
	r, _ := st.Region("region-west-06")
	if r.Scenario != scenario.Excellent {
		t.Errorf("region tag = %s, want excellent under new bands", r.Scenario)
	}
}

func TestJobNotFound(t *testing.T) {
	c, _, _ := newTestComposer(t, 1)
	if _, err := c.Job("forecast-0000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
