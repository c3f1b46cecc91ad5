package visualization

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server serves the live view page, the websocket round feed, and the
// operational endpoints around them.
type Server struct {
	hub     *Hub
	metrics http.Handler
	logger  *slog.Logger

	httpServer *http.Server
	mu         sync.Mutex
	addr       string
}

// NewServer wires a hub into an HTTP server. metrics may be nil, in which
// case /metrics is not mounted.
func NewServer(hub *Hub, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:     hub,
		metrics: metrics,
		logger:  logger,
	}
}

// Addr returns the address the server is listening on (e.g., "127.0.0.1:8080").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe starts the HTTP server on addr and blocks until the context
// is cancelled. Pass a ":0" port to let the OS pick a free one; Addr reports
// the bound address either way.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.HandleFunc("/snapshot.json", s.handleSnapshot)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	s.logger.Info("live view listening", "addr", s.Addr())

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleIndex serves the embedded live view page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		http.Error(w, "read index: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleSnapshot serves the latest frame as JSON, or 404 before the first
// round completes.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	latest := s.hub.Latest()
	if latest == nil {
		http.Error(w, "no rounds completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
