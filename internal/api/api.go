// Package api provides HTTP handlers and the main API server logic for
// TalentPipe.
//
// It exposes RESTful endpoints for job postings, candidates, interview
// processes, interview sessions, and candidate/posting matching. The API
// integrates with the store, pipeline, session, content, and matching
// modules.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/matching"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/session"
	"github.com/BTreeMap/TalentPipe/internal/store"
)

// DefaultRequestTimeout bounds handler work that calls the content provider.
const DefaultRequestTimeout = 60 * time.Second

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	st       store.Store
	pipeline *pipeline.Engine
	sessions *session.Controller
	matcher  *matching.Engine
	content  content.Service
}

// NewServer creates an API server around the given modules.
func NewServer(st store.Store, engine *pipeline.Engine, sessions *session.Controller, matcher *matching.Engine, svc content.Service) *Server {
	slog.Debug("Creating API Server")
	return &Server{
		st:       st,
		pipeline: engine,
		sessions: sessions,
		matcher:  matcher,
		content:  svc,
	}
}

// Handler builds the route table. Collection endpoints and item endpoints are
// registered separately; item handlers parse the remaining path segments
// themselves.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/job-postings", s.jobPostingsHandler)
	mux.HandleFunc("/api/job-postings/", s.jobPostingHandler)
	mux.HandleFunc("/api/candidates", s.candidatesHandler)
	mux.HandleFunc("/api/candidates/", s.candidateHandler)
	mux.HandleFunc("/api/interview-processes", s.processesHandler)
	mux.HandleFunc("/api/interview-processes/", s.processHandler)
	mux.HandleFunc("/api/interviews", s.interviewsHandler)
	mux.HandleFunc("/api/interviews/", s.interviewHandler)
	mux.HandleFunc("/api/matches", s.matchesHandler)
	mux.HandleFunc("/health", s.healthHandler)

	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: TalentPipe API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server.Run: shutdown failed", "error", err)
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server.Run: listener failed", "error", err)
			return err
		}
		return nil
	}
}

// healthHandler provides a health check endpoint for monitoring and load
// balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if _, err := s.st.ListProcesses(); err != nil {
		slog.Warn("Health check: store probe failed", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "store unavailable"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, statusCode, healthData)
}

// requestContext derives a bounded context for handler work.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), DefaultRequestTimeout)
}
