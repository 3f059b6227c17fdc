package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detector_updates_total",
		Help: "Total number of telegram updates received",
	}, []string{"kind"})

	flagsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detector_flags_total",
		Help: "Total number of ledger transitions and notices",
	}, []string{"event"})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detector_actions_total",
		Help: "Total number of enforcement button presses by outcome",
	}, []string{"action", "status"})
)

const (
	FlagEventFlagged  = "flagged"
	FlagEventCleared  = "cleared"
	FlagEventNameless = "nameless"

	ActionStatusOK       = "ok"
	ActionStatusFailed   = "failed"
	ActionStatusRejected = "rejected"
)

func RecordUpdate(kind string) {
	updatesTotal.WithLabelValues(kind).Inc()
}

func RecordFlag(event string) {
	flagsTotal.WithLabelValues(event).Inc()
}

func RecordAction(action, status string) {
	actionsTotal.WithLabelValues(action, status).Inc()
}

// Server exposes prometheus metrics and a health check.
type Server struct {
	Addr string
	Path string

	mu  sync.Mutex
	srv *http.Server
}

func (s *Server) handler() http.Handler {
	path := s.Path
	if path == "" {
		path = "/metrics"
	}

	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	return router
}

// ListenAndServe blocks until the server fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
