package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/piplant-core/internal/registry"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "the status API is read-only")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Route("/packages", func(r chi.Router) {
			r.Get("/", s.handleListPackages)
			r.Get("/graph", s.handlePackageGraph)
			r.Get("/{name}", s.handleGetPackage)
		})

		r.Get("/readings", s.handleListReadings)
	})

	return r
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Registry string `json:"registry"`
	Packages int    `json:"packages"`
	// LastPoll is omitted until the monitor has polled.
	LastPoll *time.Time `json:"last_poll,omitempty"`
	Failures []string   `json:"failures,omitempty"`
}

// Health states.
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthStarting = "starting"
)

// handleHealth reports ok once the registry is instantiated and the last
// poll had no failures, degraded when something failed or polling has
// stalled for more than two intervals.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:   healthOK,
		Version:  s.version,
		Registry: s.registry.State().String(),
		Packages: len(s.registry.Entries()),
	}
	status := http.StatusOK

	if s.registry.State() != registry.StateInstantiated {
		resp.Status = healthStarting
		status = http.StatusServiceUnavailable
	}

	if s.monitor != nil && resp.Status == healthOK {
		st := s.monitor.Status()
		if !st.LastPoll.IsZero() {
			last := st.LastPoll
			resp.LastPoll = &last
			if time.Since(last) > 2*s.monitor.PollInterval() {
				resp.Status = healthDegraded
				resp.Failures = append(resp.Failures, "polling stalled")
			}
		}
		for name, msg := range st.LastFailures {
			resp.Status = healthDegraded
			resp.Failures = append(resp.Failures, name+": "+msg)
		}
		slices.Sort(resp.Failures)
	}

	writeJSON(w, status, resp)
}
