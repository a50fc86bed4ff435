package api

import (
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"netintel-sim/internal/config"
	"netintel-sim/internal/logging"
)

// observe logs every request and records it in the metrics. The logger,
// tagged with the request id, travels in the request context.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.NewContext(r.Context(), log))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		code := strconv.Itoa(status)
		s.metrics.TotalRequests.WithLabelValues(route, r.Method, code).Inc()
		s.metrics.RequestDuration.WithLabelValues(route, r.Method, code).Observe(elapsed.Seconds())
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method, "route", route, "path", r.URL.Path,
			"status", status, "duration", elapsed)
	})
}

// bearer requires an Authorization: Bearer header. The token is not verified;
// when it parses as a JWT its subject is added to the request logger.
func (s *Server) bearer(next http.Handler) http.Handler {
	parser := jwt.NewParser()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			writeError(w, r, errUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(token, claims); err == nil {
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				log := logging.FromContext(r.Context()).With("sub", sub)
				r = r.WithContext(logging.NewContext(r.Context(), log))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// delayer sleeps for a random duration within a band before serving.
type delayer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (d *delayer) pick(b config.LatencyBand) time.Duration {
	if b.Max <= 0 {
		return 0
	}
	if b.Max <= b.Min {
		return b.Min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return b.Min + time.Duration(d.rng.Int63n(int64(b.Max-b.Min)+1))
}

// latency applies band to every request; a cancelled request is dropped
// without a response.
func (s *Server) latency(band config.LatencyBand) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := s.delay.pick(band); d > 0 {
				t := time.NewTimer(d)
				select {
				case <-r.Context().Done():
					t.Stop()
					logging.FromContext(r.Context()).Debug("request cancelled during delay", slog.Duration("delay", d))
					return
				case <-t.C:
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
