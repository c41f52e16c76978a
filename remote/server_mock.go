package remote

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/core/workflow"
	"github.com/kilianp07/timetable/infra/logger"
)

// ServerMock serves the timetable service endpoints from seed data.
type ServerMock struct {
	addr string
	log  logger.Logger

	mu        sync.Mutex
	seed      Seed
	generated map[string]bool
	fail      map[string]bool

	total  *prometheus.CounterVec
	failed prometheus.Counter
}

// NewServerMock creates a mock service registering its metrics on the default
// Prometheus registerer.
func NewServerMock(cfg MockConfig, seed Seed) *ServerMock {
	return NewServerMockWithRegistry(cfg, seed, prometheus.DefaultRegisterer)
}

// NewServerMockWithRegistry creates a mock service and registers metrics on
// reg. If reg is nil the default registerer is used.
func NewServerMockWithRegistry(cfg MockConfig, seed Seed, reg prometheus.Registerer) *ServerMock {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	log := logger.New("timetable-mock")

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_mock_requests_total",
		Help: "Requests received by the mock timetable service",
	}, []string{"endpoint"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_mock_failures_total",
		Help: "Requests answered with an error by the mock timetable service",
	})
	if err := reg.Register(total); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				total = exist
			} else {
				log.Errorf("existing collector for timetable_mock_requests_total has wrong type %T", are.ExistingCollector)
			}
		}
	}
	if err := reg.Register(failed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(prometheus.Counter); ok {
				failed = exist
			} else {
				log.Errorf("existing collector for timetable_mock_failures_total has wrong type %T", are.ExistingCollector)
			}
		}
	}

	m := &ServerMock{
		addr:      cfg.Address,
		log:       log,
		seed:      seed,
		generated: map[string]bool{},
		fail:      map[string]bool{},
		total:     total,
		failed:    failed,
	}
	m.SetFailures(cfg.Fail...)
	return m
}

// SetFailures replaces the set of steps that answer with an error.
func (s *ServerMock) SetFailures(steps ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = make(map[string]bool, len(steps))
	for _, st := range steps {
		s.fail[strings.TrimSpace(st)] = true
	}
}

// Routes returns the HTTP handler of the mock service.
func (s *ServerMock) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/timetable/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.HandleFunc("/timetable/generate/", s.handleGenerate)
	mux.HandleFunc("/timetable/negotiate/", s.handleNegotiate)
	mux.HandleFunc("/timetable/timetable/", s.handleTimetable)
	mux.HandleFunc("/timetable/faculty", s.handleFaculty)
	return mux
}

// injected reports whether step must fail and counts the request.
func (s *ServerMock) injected(w http.ResponseWriter, endpoint, step string) bool {
	s.total.WithLabelValues(endpoint).Inc()
	s.mu.Lock()
	fail := s.fail[step]
	s.mu.Unlock()
	if fail {
		s.failed.Inc()
		s.log.Warnf("injected failure on %s", step)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "injected failure: " + step})
	}
	return fail
}

func (s *ServerMock) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.injected(w, "generate", workflow.StepGenerate) {
		return
	}
	program := strings.TrimPrefix(r.URL.Path, "/timetable/generate/")
	s.mu.Lock()
	s.generated[program] = true
	entries := s.seed.Timetables[program]
	s.mu.Unlock()
	s.log.Infof("generated timetable for %s (%d entries)", program, len(entries))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Timetable generated for " + program,
		"count":     len(entries),
		"timetable": nonNil(entries),
	})
}

func (s *ServerMock) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.injected(w, "negotiate", workflow.StepNegotiate) {
		return
	}
	program := strings.TrimPrefix(r.URL.Path, "/timetable/negotiate/")
	s.mu.Lock()
	ok := s.generated[program]
	entries := s.seed.Timetables[program]
	s.mu.Unlock()
	if !ok {
		s.failed.Inc()
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "timetable not generated for " + program})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Timetable finalized",
		"timetable": nonNil(entries),
		"conflicts": []string{},
	})
}

func (s *ServerMock) handleTimetable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.injected(w, "timetable", workflow.StepFetchSchedule) {
		return
	}
	program := strings.TrimPrefix(r.URL.Path, "/timetable/timetable/")
	s.mu.Lock()
	var entries []model.ScheduleEntry
	if s.generated[program] {
		entries = s.seed.Timetables[program]
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"timetable": nonNil(entries)})
}

func (s *ServerMock) handleFaculty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.injected(w, "faculty", workflow.StepFetchFaculty) {
		return
	}
	s.mu.Lock()
	fac := s.seed.Faculty
	s.mu.Unlock()
	if fac == nil {
		fac = []model.FacultyRecord{}
	}
	writeJSON(w, http.StatusOK, fac)
}

func nonNil(entries []model.ScheduleEntry) []model.ScheduleEntry {
	if entries == nil {
		return []model.ScheduleEntry{}
	}
	return entries
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Addr returns the listening address once Start has been called.
func (s *ServerMock) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start runs the HTTP server until the context is canceled.
func (s *ServerMock) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	srv := &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("timetable mock server listening on %s", ln.Addr())
	err = srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
