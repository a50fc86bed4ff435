package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/telemetry"
)

// Metrics holds the request and simulator collectors.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	TotalRequests   *prometheus.CounterVec
	Ticks           prometheus.Counter
	RegionHealth    *prometheus.GaugeVec
	ActiveEvents    prometheus.Gauge
	Jobs            *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers collectors on reg. A nil reg gets a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netsim_request_duration_seconds",
			Help:    "Histogram of request latencies, including artificial delay.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
		TotalRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netsim_requests_total",
			Help: "Total number of processed requests.",
		}, []string{"route", "method", "status"}),
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "netsim_ticks_total",
			Help: "Simulation ticks advanced.",
		}),
		RegionHealth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netsim_region_health_score",
			Help: "Current health score per region (0-100).",
		}, []string{"region_id", "scenario"}),
		ActiveEvents: f.NewGauge(prometheus.GaugeOpts{
			Name: "netsim_active_events",
			Help: "Network events currently unresolved.",
		}),
		Jobs: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netsim_jobs",
			Help: "Tracked jobs by kind and status.",
		}, []string{"kind", "status"}),
		gatherer: reg,
	}
}

// ObserveTick is a simulator listener updating the state gauges.
func (m *Metrics) ObserveTick(_ context.Context, snap telemetry.Snapshot) {
	m.Ticks.Inc()
	m.RegionHealth.Reset()
	for _, r := range snap.Regions {
		m.RegionHealth.WithLabelValues(r.ID, string(r.Scenario)).Set(r.Health)
	}
	m.ActiveEvents.Set(float64(len(snap.ActiveEvents)))
}

// ObserveJobs recounts tracked jobs.
func (m *Metrics) ObserveJobs(list []jobs.Job) {
	m.Jobs.Reset()
	for _, j := range list {
		m.Jobs.WithLabelValues(string(j.Kind), string(j.Status)).Inc()
	}
}
