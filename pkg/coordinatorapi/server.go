// Package coordinatorapi serves the coordinator's admin/status surface:
// a JSON health check, a JSON job status that reports only whether every
// tile is completed (no per-worker or per-tile detail), plus a Prometheus
// /metrics handler. It deliberately never serves rendered pixels - the
// teacher's web/server package streams a live preview over SSE, which is
// out of scope here (real-time display is a named non-goal); this
// package keeps the same handler-registration shape but reports
// protocol/scheduling state instead.
package coordinatorapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/df07/go-progressive-raytracer/pkg/coordinator"
)

// StatusProvider is the read-only view of a running job a Server reports
// on. *coordinator.Coordinator satisfies it.
type StatusProvider interface {
	Done() bool
}

// Server exposes admin/status HTTP endpoints for a coordinator.
type Server struct {
	port int
	job  StatusProvider
	reg  *prometheus.Registry
	mux  *http.ServeMux
}

// NewServer creates a Server that reports on job and serves reg's
// collectors at /metrics.
func NewServer(port int, job StatusProvider, reg *prometheus.Registry) *Server {
	s := &Server{port: port, job: job, reg: reg, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

// ListenAndServe blocks serving the admin surface on Server's port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the server's http.Handler for use in tests or when the
// caller wants to own the listener itself.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusResponse struct {
	Done bool `json:"done"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Done: s.job.Done()})
}

// must satisfy the interface at compile time
var _ StatusProvider = (*coordinator.Coordinator)(nil)
