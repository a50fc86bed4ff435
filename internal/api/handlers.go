package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"netintel-sim/internal/compose"
)

func (s *Server) handleNetworkStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.NetworkStatus())
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.Regions())
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.composer.Telemetry(chi.URLParam(r, "regionId"), q.Get("metrics"), q.Get("granularity"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleComponentStatus(w http.ResponseWriter, r *http.Request) {
	out, err := s.composer.ComponentStatus(chi.URLParam(r, "componentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthForecast(w http.ResponseWriter, r *http.Request) {
	var req compose.ForecastRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	forecast, job, err := s.composer.HealthForecast(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job != nil {
		writeJSON(w, http.StatusAccepted, job)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := compose.AnomalyFilter{Severity: q.Get("severity"), Region: q.Get("region")}
	if v := q.Get("confidence"); v != "" {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: confidence %q is not a number", compose.ErrInvalidRequest, v))
			return
		}
		f.Confidence = &c
	}
	out, err := s.composer.Anomalies(f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFailureRisk(w http.ResponseWriter, r *http.Request) {
	var req compose.FailureRiskRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.composer.FailureRisk(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealingCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.HealingCatalog())
}

func (s *Server) handleExecuteHealing(w http.ResponseWriter, r *http.Request) {
	var req compose.HealingRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.composer.ExecuteHealing(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, out)
}

func (s *Server) handleWorkflows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.Workflows())
}

func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	out, err := s.composer.Workflow(chi.URLParam(r, "workflowId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	out, err := s.composer.Rollback(chi.URLParam(r, "actionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, out)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.composer.Historical(compose.HistoricalQuery{
		StartTime:   q.Get("start_time"),
		EndTime:     q.Get("end_time"),
		Metrics:     q.Get("metrics"),
		Aggregation: q.Get("aggregation"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := compose.IncidentFilter{Severity: q.Get("severity"), Category: q.Get("category")}
	if v := q.Get("resolved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resolved %q is not a boolean", compose.ErrInvalidRequest, v))
			return
		}
		f.Resolved = &b
	}
	out, err := s.composer.Incidents(f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleImpactAssessment(w http.ResponseWriter, r *http.Request) {
	var req compose.ImpactRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.composer.ImpactAssessment(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSLAStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.composer.SLAStatus(q.Get("customer_tier"), q.Get("service_type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.Thresholds())
}

func (s *Server) handlePutThresholds(w http.ResponseWriter, r *http.Request) {
	var req compose.ThresholdsUpdate
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.composer.UpdateThresholds(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	out, err := s.composer.Job(chi.URLParam(r, "jobId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
