/*
PURPOSE:
  HTTP/WebSocket server for the powertrace browser frontend.
  REST endpoints drive the simulation pipeline; the WebSocket channel
  streams completed runs to subscribed pages.

REQUIREMENTS:
  User-specified:
  - The browser is the interactive surface; this server is its backend.
  - Failures from the pipeline surface as JSON error payloads with the
    fault category; nothing kills the process.

  Implementation-discovered:
  - Needs CORS for the Vite dev server origin.
  - Graceful shutdown via http.Server.Shutdown.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (serve command)
  - Uses: internal/engine, internal/scenario, internal/analyze

ERROR HANDLING:
  - Binding failures are returned from Start.
  - Handler panics are caught by the recovery middleware.

IMPLEMENTATION RULES:
  - Middleware chain: recovery outermost, then logging, then CORS.

USAGE:
  srv := api.NewServer(cfg.Serve, eng, gen, an)
  err := srv.Start()

RELATED FILES:
  - internal/api/handlers.go
  - internal/api/websocket.go
  - internal/api/middleware.go

MAINTENANCE:
  - Register new endpoints in routes().
*/

package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sidereal-labs/powertrace/internal/analyze"
	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/output"
	"github.com/sidereal-labs/powertrace/internal/scenario"
)

// Server is the HTTP API server for the browser frontend.
type Server struct {
	cfg      config.ServeConfig
	engine   *engine.Engine
	gen      *scenario.Generator
	analyzer *analyze.Analyzer
	hub      *Hub

	httpServer *http.Server

	mu      sync.Mutex
	running bool
}

// NewServer creates a server wired to the simulation pipeline.
func NewServer(cfg config.ServeConfig, eng *engine.Engine, gen *scenario.Generator, an *analyze.Analyzer) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	return &Server{
		cfg:      cfg,
		engine:   eng,
		gen:      gen,
		analyzer: an,
		hub:      NewHub(),
	}
}

// Address returns the server address in host:port format.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("POST /api/scenario", s.handleScenario)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /ws", s.hub.handleUpgrade)

	var handler http.Handler = mux
	if len(s.cfg.CORSOrigins) > 0 {
		handler = corsMiddleware(s.cfg.CORSOrigins)(handler)
	}
	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}

// Start runs the server until Shutdown. It blocks.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	go s.hub.run()

	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // AI exchanges can be slow
		IdleTimeout:  60 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	output.Logger.Info("API server listening", "addr", s.Address())
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	s.hub.stop()
	return s.httpServer.Shutdown(ctx)
}
