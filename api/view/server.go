package view

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/timetable/infra/logger"
)

// Server serves a handler until its context is canceled.
type Server struct {
	mu      sync.Mutex
	addr    string
	handler http.Handler
	log     logger.Logger
}

// NewServer creates a server for h listening on addr.
func NewServer(addr string, h http.Handler) *Server {
	return &Server{addr: addr, handler: h, log: logger.New("view-server")}
}

// Addr returns the listening address once Start has been called.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("timetable view listening on http://%s", ln.Addr())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
