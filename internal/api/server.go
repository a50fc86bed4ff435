// Package api serves the mock network intelligence REST API.
package api

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netintel-sim/internal/admin"
	"netintel-sim/internal/compose"
	"netintel-sim/internal/config"
	"netintel-sim/internal/telemetry"
)

// Prefix is the base path of every authenticated route.
const Prefix = "/api/v1"

// Clock reports the current simulation clock for /health.
type Clock interface {
	Clock() telemetry.Clock
}

// Server routes HTTP requests to the composer.
type Server struct {
	router   *chi.Mux
	composer *compose.Composer
	admin    *admin.Server
	clock    Clock
	metrics  *Metrics
	log      *slog.Logger
	validate *validator.Validate
	bands    config.LatencyConfig
	delay    *delayer
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Admin   *admin.Server
	Clock   Clock
	Metrics *Metrics
	Logger  *slog.Logger
	Latency config.LatencyConfig
	// Seed drives the artificial latency draws.
	Seed int64
}

// NewServer builds the router.
func NewServer(c *compose.Composer, opts Options) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		composer: c,
		admin:    opts.Admin,
		clock:    opts.Clock,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		validate: validator.New(),
		bands:    opts.Latency,
		delay:    &delayer{rng: rand.New(rand.NewSource(opts.Seed))},
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	// Preflight requests carry no Authorization header and are answered here.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.gatherer, promhttp.HandlerOpts{}))

	r.Route(Prefix, func(r chi.Router) {
		r.Use(s.bearer)

		r.Group(func(r chi.Router) {
			r.Use(s.latency(s.bands.Simple))
			r.Get("/network/status", s.handleNetworkStatus)
			r.Get("/network/regions", s.handleRegions)
			r.Get("/network/regions/{regionId}/telemetry", s.handleTelemetry)
			r.Get("/network/components/{componentId}/status", s.handleComponentStatus)
			r.Get("/healing/actions", s.handleHealingCatalog)
			r.Get("/healing/workflows", s.handleWorkflows)
			r.Get("/healing/workflows/{workflowId}", s.handleWorkflow)
			r.Get("/config/thresholds", s.handleGetThresholds)
			r.Put("/config/thresholds", s.handlePutThresholds)
			r.Get("/system/jobs/{jobId}", s.handleJob)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.latency(s.bands.Composite))
			r.Post("/predictions/health-forecast", s.handleHealthForecast)
			r.Get("/predictions/anomalies", s.handleAnomalies)
			r.Post("/predictions/failure-risk", s.handleFailureRisk)
			r.Post("/healing/actions", s.handleExecuteHealing)
			r.Post("/healing/rollback/{actionId}", s.handleRollback)
			r.Get("/analytics/historical", s.handleHistorical)
			r.Get("/analytics/incidents", s.handleIncidents)
			r.Post("/business/impact-assessment", s.handleImpactAssessment)
			r.Get("/business/sla-status", s.handleSLAStatus)
		})

		if s.admin != nil {
			r.Mount("/simulation", s.admin.Routes())
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "no route for " + r.URL.Path})
	})
}

// ServeHTTP lets Server act as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "healthy", "timestamp": time.Now().UTC()}
	if s.clock != nil {
		body["tick"] = s.clock.Clock().Tick
	}
	writeJSON(w, http.StatusOK, body)
}
