// Package admin exposes simulation controls: state inspection, chaos mode
// and score pinning.
package admin

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"netintel-sim/internal/logging"
	"netintel-sim/internal/sim"
	"netintel-sim/internal/telemetry"
)

type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(s *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: s, tpl: tpl}
}

// State is the raw simulator view returned by GET /state.
type State struct {
	telemetry.Snapshot
	Chaos bool `json:"chaos"`
}

// RegionHealth is one row of GET /health.
type RegionHealth struct {
	RegionID   string  `json:"region_id"`
	Health     float64 `json:"health_score"`
	Scenario   string  `json:"scenario"`
	Components int     `json:"components"`
	Degraded   int     `json:"degraded_components"`
}

// Routes returns the admin router. It is mounted under the API prefix.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/state", s.handleState)
	r.Get("/health", s.handleHealth)
	r.Post("/chaos", s.handleToggleChaos)
	r.Put("/regions/{regionId}/health", s.handlePinRegion)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.Sim.Store().Snapshot(sim.Scope{})
	data := struct {
		Tick    uint64
		At      time.Time
		Chaos   bool
		Regions []telemetry.Region
		Events  []telemetry.Event
	}{snap.Tick, snap.At, s.Sim.Chaos(), snap.Regions, snap.ActiveEvents}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render admin index", "err", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sim.Store().Snapshot(sim.Scope{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, State{Snapshot: snap, Chaos: s.Sim.Chaos()})
}

func (s *Server) handleToggleChaos(w http.ResponseWriter, r *http.Request) {
	state := s.Sim.ToggleChaos()
	logging.FromContext(r.Context()).Info("chaos mode toggled", "chaos", state)
	writeJSON(w, http.StatusOK, map[string]any{"chaos": state})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.Sim.Store()
	degradedBelow := st.Thresholds().Scenario.Maintenance
	comps := make(map[string]telemetry.Component)
	for _, c := range st.Components() {
		comps[c.ID] = c
	}
	out := make([]RegionHealth, 0, len(st.RegionIDs()))
	for _, reg := range st.Regions() {
		h := RegionHealth{
			RegionID:   reg.ID,
			Health:     reg.Health,
			Scenario:   string(reg.Scenario),
			Components: len(reg.ComponentIDs),
		}
		for _, id := range reg.ComponentIDs {
			if comps[id].Health < degradedBelow {
				h.Degraded++
			}
		}
		out = append(out, h)
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePinRegion overrides a region score, e.g. ?score=20 to force a critical
// region. The pin holds until the next tick, which pulls the score halfway back
// toward the mean of the region's components.
func (s *Server) handlePinRegion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "regionId")
	score, err := strconv.ParseFloat(r.URL.Query().Get("score"), 64)
	if err != nil || score < 0 || score > 100 {
		writeError(w, http.StatusBadRequest, "invalid_request", "score must be a number within [0,100]")
		return
	}
	if err := s.Sim.PinRegionHealth(id, score); err != nil {
		if errors.Is(err, sim.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	reg, _ := s.Sim.Store().Region(id)
	writeJSON(w, http.StatusOK, reg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
